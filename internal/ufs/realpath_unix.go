// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 Matthew Penner

//go:build linux

package ufs

import (
	"golang.org/x/sys/unix"
)

// maxSymlinks matches the kernel's limit on the number of symbolic links
// followed while resolving a single path.
const maxSymlinks = 40

// realpath resolves name one element at a time, expanding every symbolic
// link it finds. Every element must exist and every element but the last
// must be a directory.
func (fs *UnixFS) realpath(name string) (string, error) {
	if name == "" {
		return "", unix.ENOENT
	}

	resolved := "/"
	if name[0] != '/' {
		wd, err := fs.Getwd()
		if err != nil {
			return "", err
		}
		resolved = wd
	}

	var links int
	rest := name
	for rest != "" {
		var elem string
		elem, rest = nextElement(rest)
		switch elem {
		case "", ".":
			continue
		case "..":
			resolved = parentOf(resolved)
			continue
		}

		next := joinPath(resolved, elem)
		var st unix.Stat_t
		if err := ignoringEINTR(func() error {
			return unix.Fstatat(AT_FDCWD, next, &st, AT_SYMLINK_NOFOLLOW)
		}); err != nil {
			return "", err
		}

		switch st.Mode & unix.S_IFMT {
		case unix.S_IFLNK:
			links++
			if links > maxSymlinks {
				return "", unix.ELOOP
			}
			target, err := readlink(next)
			if err != nil {
				return "", err
			}
			if target != "" && target[0] == '/' {
				resolved = "/"
			}
			rest = target + rest
			if rest == "" {
				// An empty link target can never be resolved.
				return "", unix.ENOENT
			}
		case unix.S_IFDIR:
			resolved = next
		default:
			if rest != "" {
				return "", unix.ENOTDIR
			}
			resolved = next
		}
	}
	return resolved, nil
}

// readlink returns the target of the symbolic link at name, growing the
// buffer until the whole target fits.
func readlink(name string) (string, error) {
	for size := 128; ; size *= 2 {
		b := make([]byte, size)
		var n int
		err := ignoringEINTR(func() error {
			var err error
			n, err = unix.Readlink(name, b)
			return err
		})
		if err != nil {
			return "", err
		}
		if n < size {
			return string(b[0:n]), nil
		}
	}
}
