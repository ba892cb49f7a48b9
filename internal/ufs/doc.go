// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 Matthew Penner

// Package ufs is the syscall layer underneath the filesystem facade. Every
// call goes straight to the kernel through golang.org/x/sys/unix and every
// failure is returned as a *PathError or *LinkError that still carries the
// raw unix.Errno, so callers are able to classify it without guessing.
//
// Unlike the os package nothing here cleans, joins or otherwise rewrites the
// paths it is given; relative paths are resolved by the kernel against the
// current working directory.
package ufs
