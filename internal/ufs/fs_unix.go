// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 Matthew Penner

//go:build linux

package ufs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// UnixFS is a Filesystem that uses the unix package to make io calls.
//
// Every call is relative to AT_FDCWD, so UnixFS carries no state and the zero
// value is ready to use.
type UnixFS struct{}

var _ Filesystem = (*UnixFS)(nil)

// NewUnixFS returns a Filesystem backed by the calling process's view of the
// host filesystem.
func NewUnixFS() *UnixFS {
	return &UnixFS{}
}

// Chmod changes the mode of the named file to mode.
//
// If the file is a symbolic link, it changes the mode of the link's target.
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Chmod(name string, mode FileMode) error {
	return fs.fchmodat(name, mode, 0)
}

// Lchmod changes the mode of the named file without following a trailing
// symbolic link. The kernel refuses to change the mode of a link itself, in
// which case EOPNOTSUPP is returned.
func (fs *UnixFS) Lchmod(name string, mode FileMode) error {
	return fs.fchmodat(name, mode, AT_SYMLINK_NOFOLLOW)
}

func (fs *UnixFS) fchmodat(name string, mode FileMode, flags int) error {
	err := ignoringEINTR(func() error {
		return unix.Fchmodat(AT_FDCWD, name, syscallMode(mode), flags)
	})
	return pathError("chmod", name, err)
}

// Chtimes changes the access and modification times of the named
// file, similar to the Unix utime() or utimes() functions. A nil time
// leaves the matching timestamp as it is.
//
// The underlying filesystem may truncate or round the values to a
// less precise time unit.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Chtimes(name string, atime, mtime *time.Time) error {
	var utimes [2]unix.Timespec
	for i, t := range [2]*time.Time{atime, mtime} {
		if t == nil {
			utimes[i] = unix.Timespec{Nsec: unix.UTIME_OMIT}
			continue
		}
		// Seconds and nanoseconds are converted separately, t.UnixNano only
		// covers the years 1678 to 2262.
		ts, err := unix.TimeToTimespec(*t)
		if err != nil {
			return pathError("chtimes", name, err)
		}
		utimes[i] = ts
	}
	err := ignoringEINTR(func() error {
		return unix.UtimesNanoAt(AT_FDCWD, name, utimes[0:], 0)
	})
	return pathError("chtimes", name, err)
}

// Getwd returns the absolute path of the current working directory.
func (fs *UnixFS) Getwd() (string, error) {
	var dir string
	err := ignoringEINTR(func() error {
		var err error
		dir, err = unix.Getwd()
		return err
	})
	if err != nil {
		return "", NewSyscallError("getwd", err)
	}
	return dir, nil
}

// Link creates newname as a hard link to the oldname file.
//
// If there is an error, it will be of type *LinkError.
func (fs *UnixFS) Link(oldname, newname string) error {
	err := ignoringEINTR(func() error {
		return unix.Linkat(AT_FDCWD, oldname, AT_FDCWD, newname, 0)
	})
	return linkError("link", oldname, newname, err)
}

// Mkdir creates a new directory with the specified name and permission
// bits (before umask).
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Mkdir(name string, mode FileMode) error {
	err := ignoringEINTR(func() error {
		return unix.Mkdirat(AT_FDCWD, name, syscallMode(mode))
	})
	return pathError("mkdir", name, err)
}

// MkdirAll creates a directory named path, along with any necessary
// parents, and returns nil, or else returns an error.
//
// The permission bits perm (before umask) are used for all
// directories that MkdirAll creates.
// If path is already a directory, MkdirAll does nothing
// and returns nil.
func (fs *UnixFS) MkdirAll(name string, mode FileMode) error {
	return fs.mkdirAll(name, mode)
}

// Open opens the named file for reading.
//
// If successful, methods on the returned file can be used for reading; the
// associated file descriptor has mode O_RDONLY.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Open(name string) (File, error) {
	return fs.OpenFile(name, O_RDONLY, 0)
}

// OpenFile is the generalized open call; most users will use Open
// or Create instead. It opens the named file with specified flag
// (O_RDONLY etc.). If the file does not exist, and the O_CREATE flag
// is passed, it is created with mode perm (before umask). If successful,
// methods on the returned File can be used for I/O.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) OpenFile(name string, flag int, mode FileMode) (File, error) {
	var fd int
	err := ignoringEINTR(func() error {
		var err error
		fd, err = unix.Openat(AT_FDCWD, name, flag|O_CLOEXEC, syscallMode(mode))
		return err
	})
	if err != nil {
		return nil, pathError("open", name, err)
	}
	// Do not close `fd` here, it is passed to a file that needs the fd, the
	// caller of this function is responsible for calling Close() on the File
	// to release the file descriptor.
	return os.NewFile(uintptr(fd), name), nil
}

// Readlink returns the destination of the named symbolic link.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Readlink(name string) (string, error) {
	dst, err := readlink(name)
	if err != nil {
		return "", pathError("readlink", name, err)
	}
	return dst, nil
}

// Realpath returns the canonical absolute form of name.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Realpath(name string) (string, error) {
	p, err := fs.realpath(name)
	if err != nil {
		return "", pathError("realpath", name, err)
	}
	return p, nil
}

// Remove removes the named file or (empty) directory.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Remove(name string) error {
	// System call interface forces us to know
	// whether name is a file or directory.
	// Try both: it is cheaper on average than
	// doing a Stat plus the right one.
	err := fs.unlinkat(AT_FDCWD, name, 0)
	if err == nil {
		return nil
	}
	err1 := fs.unlinkat(AT_FDCWD, name, AT_REMOVEDIR) // Rmdir
	if err1 == nil {
		return nil
	}

	// Both failed: figure out which error to return. Linux returns EISDIR
	// from unlink(dir) and ENOTDIR from rmdir(file), and both return ENOTDIR
	// for a bad path like /etc/passwd/foo, so the unlink error is the real
	// one unless rmdir says otherwise.
	if err1 != unix.ENOTDIR {
		err = err1
	}
	return pathError("remove", name, err)
}

// RemoveAll removes path and any children it contains.
//
// It removes everything it can but returns the first error
// it encounters. If the path does not exist, RemoveAll
// returns 0 and no error.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) RemoveAll(name string) (int, error) {
	return removeAll(fs, name)
}

func (fs *UnixFS) unlinkat(dirfd int, name string, flags int) error {
	return ignoringEINTR(func() error {
		return unix.Unlinkat(dirfd, name, flags)
	})
}

// Rename renames (moves) oldpath to newpath.
//
// If newpath already exists and is not a directory, Rename replaces it. An
// empty directory at newpath is replaced by a directory at oldpath.
//
// If there is an error, it will be of type *LinkError.
func (fs *UnixFS) Rename(oldpath, newpath string) error {
	err := ignoringEINTR(func() error {
		return unix.Renameat(AT_FDCWD, oldpath, AT_FDCWD, newpath)
	})
	return linkError("rename", oldpath, newpath, err)
}

// Stat returns a FileInfo describing the named file.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Stat(name string) (FileInfo, error) {
	return fs.fstatat(AT_FDCWD, name, 0)
}

// Lstat returns a FileInfo describing the named file.
//
// If the file is a symbolic link, the returned FileInfo
// describes the symbolic link. Lstat makes no attempt to follow the link.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Lstat(name string) (FileInfo, error) {
	return fs.fstatat(AT_FDCWD, name, AT_SYMLINK_NOFOLLOW)
}

func (fs *UnixFS) fstatat(dirfd int, name string, flags int) (FileInfo, error) {
	var s fileStat
	if err := ignoringEINTR(func() error {
		return unix.Fstatat(dirfd, name, &s.sys, flags)
	}); err != nil {
		return nil, &PathError{Op: "stat", Path: name, Err: err}
	}
	fillFileStatFromSys(&s, name)
	return &s, nil
}

// Statfs returns the statistics of the filesystem that holds name.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Statfs(name string) (unix.Statfs_t, error) {
	var st unix.Statfs_t
	err := ignoringEINTR(func() error {
		return unix.Statfs(name, &st)
	})
	if err != nil {
		return unix.Statfs_t{}, pathError("statfs", name, err)
	}
	return st, nil
}

// Symlink creates newname as a symbolic link to oldname. The target is stored
// as given and does not need to exist.
//
// If there is an error, it will be of type *LinkError.
func (fs *UnixFS) Symlink(oldpath, newpath string) error {
	err := ignoringEINTR(func() error {
		return unix.Symlinkat(oldpath, AT_FDCWD, newpath)
	})
	return linkError("symlink", oldpath, newpath, err)
}

// Truncate changes the size of the named file. Growing a file fills the new
// region with zero bytes.
//
// If there is an error, it will be of type *PathError.
func (fs *UnixFS) Truncate(name string, size int64) error {
	err := ignoringEINTR(func() error {
		return unix.Truncate(name, size)
	})
	return pathError("truncate", name, err)
}
