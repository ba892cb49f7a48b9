package filesystem

import (
	"github.com/karrick/godirwalk"
	"golang.org/x/sys/unix"
)

// The predicates below fail, rather than return false, when the status of the
// path cannot be determined. A missing path is reported as a NotFound error.

func isType(op, p string, want FileType) (bool, error) {
	s, err := status(op, p)
	if err != nil {
		return false, err
	}
	return s.Type() == want, nil
}

func IsBlockFile(p string) (bool, error) {
	return isType("is_block_file", p, TypeBlock)
}

func IsCharacterFile(p string) (bool, error) {
	return isType("is_character_file", p, TypeCharacter)
}

func IsDirectory(p string) (bool, error) {
	return isType("is_directory", p, TypeDirectory)
}

func IsFifo(p string) (bool, error) {
	return isType("is_fifo", p, TypeFifo)
}

func IsRegularFile(p string) (bool, error) {
	return isType("is_regular_file", p, TypeRegular)
}

func IsSocket(p string) (bool, error) {
	return isType("is_socket", p, TypeSocket)
}

// IsOther reports whether p exists but is not a regular file, a directory or
// a symbolic link.
func IsOther(p string) (bool, error) {
	s, err := status("is_other", p)
	if err != nil {
		return false, err
	}
	return isOtherType(s.Type()), nil
}

// IsSymlink reports whether p itself is a symbolic link. The target of the
// link does not need to exist.
func IsSymlink(p string) (bool, error) {
	s, err := symlinkStatus("is_symlink", p)
	if err != nil {
		return false, err
	}
	return s.Type() == TypeSymlink, nil
}

// IsEmpty reports whether p is a directory without any entries or a regular
// file with a size of zero. Any other kind of file is rejected.
func IsEmpty(p string) (bool, error) {
	fi, err := sys.Stat(p)
	if err != nil {
		return false, wrapError("is_empty", p, err)
	}
	switch {
	case fi.IsDir():
		names, err := godirwalk.ReadDirnames(p, nil)
		if err != nil {
			return false, wrapError("is_empty", p, err)
		}
		return len(names) == 0, nil
	case fi.Mode().IsRegular():
		return fi.Size() == 0, nil
	}
	return false, newOpError(ErrCodeInvalidArgument, "is_empty", p, unix.EINVAL)
}
