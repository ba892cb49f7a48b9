package filesystem

import (
	"math"

	"golang.org/x/sys/unix"
)

// Remove removes the file or empty directory p. Symbolic links are removed
// themselves, never their targets. Removing a path that does not exist is not
// an error.
func Remove(p string) error {
	if err := sys.Remove(p); err != nil {
		if errnoOf(err) == unix.ENOENT {
			return nil
		}
		return wrapError("remove", p, err)
	}
	return nil
}

// RemoveAll removes p and everything below it and returns the number of
// entries removed, p included. A missing path removes nothing and is not an
// error.
func RemoveAll(p string) (uint64, error) {
	n, err := sys.RemoveAll(p)
	if err != nil {
		return uint64(n), wrapError("remove_all", p, err)
	}
	return uint64(n), nil
}

// Rename moves from to to, atomically replacing to if it is a file or an
// empty directory.
func Rename(from, to string) error {
	if err := sys.Rename(from, to); err != nil {
		return wrapLinkError("rename", from, to, err)
	}
	return nil
}

// ResizeFile truncates the regular file p to size bytes, or extends it with
// zero bytes if it is currently smaller.
func ResizeFile(p string, size uint64) error {
	if size > math.MaxInt64 {
		return newOpError(ErrCodeInvalidArgument, "resize_file", p, unix.EFBIG)
	}
	if err := sys.Truncate(p, int64(size)); err != nil {
		return wrapError("resize_file", p, err)
	}
	return nil
}
