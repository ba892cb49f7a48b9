// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 Matthew Penner

//go:build linux

package ufs

import (
	"io"
	iofs "io/fs"

	"golang.org/x/sys/unix"
)

// File describes an open file handle returned by a Filesystem. It is always
// backed by an *os.File.
type File interface {
	// Name returns the name of the file as presented to OpenFile.
	Name() string

	// Stat returns the FileInfo structure describing the file.
	// If there is an error, it will be of type *PathError.
	Stat() (FileInfo, error)

	// Chmod changes the mode of the file to mode.
	// If there is an error, it will be of type *PathError.
	Chmod(mode FileMode) error

	// Readdirnames reads the contents of the directory associated with file
	// and returns a slice of up to n names of files in the directory,
	// in directory order. Subsequent calls on the same file will yield
	// further names.
	//
	// If n > 0, Readdirnames returns at most n names. At the end of a
	// directory, the error is io.EOF.
	Readdirnames(n int) (names []string, err error)

	// Fd returns the integer Unix file descriptor referencing the open file.
	// The descriptor is only valid until Close is called.
	Fd() uintptr

	io.Closer
	io.Reader
	io.Writer
}

// FileInfo describes a file and is returned by Stat and Lstat.
type FileInfo = iofs.FileInfo

// FileMode represents a file's mode and permission bits.
type FileMode = iofs.FileMode

const (
	// ModeDir represents a directory.
	ModeDir = iofs.ModeDir
	// ModeSymlink represents a symbolic link.
	ModeSymlink = iofs.ModeSymlink
	// ModeDevice represents a device file.
	ModeDevice = iofs.ModeDevice
	// ModeNamedPipe represents a named pipe (FIFO).
	ModeNamedPipe = iofs.ModeNamedPipe
	// ModeSocket represents a Unix domain socket.
	ModeSocket = iofs.ModeSocket
	// ModeSetuid represents the setuid bit.
	ModeSetuid = iofs.ModeSetuid
	// ModeSetgid represents the setgid bit.
	ModeSetgid = iofs.ModeSetgid
	// ModeCharDevice represents a character device, when ModeDevice is set.
	ModeCharDevice = iofs.ModeCharDevice
	// ModeSticky represents the sticky bit.
	ModeSticky = iofs.ModeSticky
	// ModeIrregular represents a non-regular file of an unknown kind.
	ModeIrregular = iofs.ModeIrregular

	// ModeType is the mask of all type bits.
	ModeType = iofs.ModeType

	// ModePerm is the mask of the Unix permission bits, 0o777.
	ModePerm = iofs.ModePerm
)

const (
	// O_RDONLY opens the file read-only.
	O_RDONLY = unix.O_RDONLY
	// O_WRONLY opens the file write-only.
	O_WRONLY = unix.O_WRONLY
	// O_RDWR opens the file read-write.
	O_RDWR = unix.O_RDWR
	// O_APPEND appends data to the file when writing.
	O_APPEND = unix.O_APPEND
	// O_CREATE creates a new file if it doesn't exist.
	O_CREATE = unix.O_CREAT
	// O_EXCL is used with O_CREATE, file must not exist.
	O_EXCL = unix.O_EXCL
	// O_TRUNC truncates regular writable file when opened.
	O_TRUNC = unix.O_TRUNC
	// O_DIRECTORY opens a directory only. If the entry is not a directory an
	// error will be returned.
	O_DIRECTORY = unix.O_DIRECTORY
	// O_NOFOLLOW opens the exact path given without following symlinks.
	O_NOFOLLOW = unix.O_NOFOLLOW
	O_CLOEXEC  = unix.O_CLOEXEC
)

const (
	AT_FDCWD            = unix.AT_FDCWD
	AT_SYMLINK_NOFOLLOW = unix.AT_SYMLINK_NOFOLLOW
	AT_REMOVEDIR        = unix.AT_REMOVEDIR
)
