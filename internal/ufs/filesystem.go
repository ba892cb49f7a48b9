// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 Matthew Penner

package ufs

import (
	"time"

	"golang.org/x/sys/unix"
)

// Filesystem is the set of system calls the filesystem facade is built on.
// Relative names are resolved against the current working directory of the
// process, exactly as the kernel would.
type Filesystem interface {
	// Chmod changes the mode of the named file to mode. If the file is a
	// symbolic link, it changes the mode of the link's target.
	//
	// If there is an error, it will be of type *PathError.
	Chmod(name string, mode FileMode) error

	// Lchmod is like Chmod but does not follow a trailing symbolic link.
	// Linux does not support changing the mode of a link itself, so calling
	// this on a symbolic link returns EOPNOTSUPP.
	Lchmod(name string, mode FileMode) error

	// Chtimes changes the access and modification times of the named
	// file. A nil time leaves the respective timestamp untouched.
	//
	// If there is an error, it will be of type *PathError.
	Chtimes(name string, atime, mtime *time.Time) error

	// Getwd returns the absolute path of the current working directory.
	Getwd() (string, error)

	// Link creates newname as a hard link to the oldname file.
	//
	// If there is an error, it will be of type *LinkError.
	Link(oldname, newname string) error

	// Mkdir creates a new directory with the specified name and permission
	// bits (before umask).
	//
	// If there is an error, it will be of type *PathError.
	Mkdir(name string, perm FileMode) error

	// MkdirAll creates a directory named path, along with any necessary
	// parents. If path is already a directory, MkdirAll does nothing and
	// returns nil. If path exists but is not a directory EEXIST is returned.
	MkdirAll(path string, perm FileMode) error

	// Open opens the named file for reading.
	//
	// If there is an error, it will be of type *PathError.
	Open(name string) (File, error)

	// OpenFile is the generalized open call. Symbolic links are followed
	// unless O_NOFOLLOW is part of flag, and O_CLOEXEC is always set.
	//
	// If there is an error, it will be of type *PathError.
	OpenFile(name string, flag int, perm FileMode) (File, error)

	// Readlink returns the destination of the named symbolic link.
	//
	// If there is an error, it will be of type *PathError.
	Readlink(name string) (string, error)

	// Realpath returns the absolute path of name with every symbolic link,
	// "." and ".." element resolved. Every element of name must exist.
	//
	// If there is an error, it will be of type *PathError.
	Realpath(name string) (string, error)

	// Remove removes the named file or (empty) directory.
	//
	// If there is an error, it will be of type *PathError.
	Remove(name string) error

	// RemoveAll removes path and any children it contains and returns the
	// number of entries that were removed. If the path does not exist,
	// RemoveAll returns 0 and no error.
	RemoveAll(path string) (int, error)

	// Rename renames (moves) oldpath to newpath, replacing newpath if it
	// already exists and is not a directory.
	//
	// If there is an error, it will be of type *LinkError.
	Rename(oldname, newname string) error

	// Stat returns a FileInfo describing the named file, following symbolic
	// links.
	//
	// If there is an error, it will be of type *PathError.
	Stat(name string) (FileInfo, error)

	// Lstat returns a FileInfo describing the named file. If the file is a
	// symbolic link, the returned FileInfo describes the symbolic link.
	//
	// If there is an error, it will be of type *PathError.
	Lstat(name string) (FileInfo, error)

	// Statfs returns the statistics of the filesystem holding name.
	//
	// If there is an error, it will be of type *PathError.
	Statfs(name string) (unix.Statfs_t, error)

	// Symlink creates newname as a symbolic link to oldname.
	//
	// If there is an error, it will be of type *LinkError.
	Symlink(oldname, newname string) error

	// Truncate changes the size of the named file, zero filling it if size
	// is larger than the current size.
	//
	// If there is an error, it will be of type *PathError.
	Truncate(name string, size int64) error
}
