// SPDX-License-Identifier: BSD-3-Clause

// Code in this file was derived from `go/src/os/path.go`.

// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the `go.LICENSE` file.

//go:build linux

package ufs

import (
	"golang.org/x/sys/unix"
)

// mkdirAll is a recursive Mkdir implementation that properly handles symlinks.
// A path that already exists as something other than a directory (or a link
// to one) is reported as EEXIST.
func (fs *UnixFS) mkdirAll(name string, mode FileMode) error {
	// Fast path: if we can tell whether path is a directory or file, stop with success or error.
	dir, err := fs.Stat(name)
	if err == nil {
		if dir.IsDir() {
			return nil
		}
		return pathError("mkdir", name, unix.EEXIST)
	}

	// Slow path: make sure parent exists and then call Mkdir for path.
	i := len(name)
	for i > 0 && name[i-1] == '/' { // Skip trailing path separator.
		i--
	}

	j := i
	for j > 0 && name[j-1] != '/' { // Scan backward over element.
		j--
	}

	if j > 1 {
		// Create parent.
		if err := fs.mkdirAll(name[:j-1], mode); err != nil {
			return err
		}
	}

	// Parent now exists; invoke Mkdir and use its result.
	if err := fs.Mkdir(name, mode); err != nil {
		// Handle arguments like "foo/." by double-checking that directory
		// doesn't exist, and losing a race to another creator of name.
		if dir, err1 := fs.Stat(name); err1 == nil && dir.IsDir() {
			return nil
		}
		return err
	}
	return nil
}
