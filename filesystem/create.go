package filesystem

import (
	"golang.org/x/sys/unix"
)

// CreateDirectory creates the directory p, whose parent must already exist.
// It returns false without an error if p already is a directory, and fails
// with AlreadyExists if p is anything else.
func CreateDirectory(p string) (bool, error) {
	err := sys.Mkdir(p, directoryMode())
	if err == nil {
		return true, nil
	}
	if classify(err) == ErrCodeAlreadyExists {
		if fi, serr := sys.Stat(p); serr == nil && fi.IsDir() {
			return false, nil
		}
	}
	return false, wrapError("create_directory", p, err)
}

// CreateDirectories creates p along with any missing parents. It returns false
// without an error if p already is a directory, so calling it repeatedly with
// the same path is safe.
func CreateDirectories(p string) (bool, error) {
	if p == "" {
		return false, newOpError(ErrCodeInvalidArgument, "create_directories", p, unix.EINVAL)
	}
	if fi, err := sys.Stat(p); err == nil {
		if fi.IsDir() {
			return false, nil
		}
		return false, newOpError(ErrCodeAlreadyExists, "create_directories", p, unix.EEXIST)
	}
	if err := sys.MkdirAll(p, directoryMode()); err != nil {
		return false, wrapError("create_directories", p, err)
	}
	return true, nil
}

// CreateHardLink creates link as a new name for the existing file target.
func CreateHardLink(target, link string) error {
	if err := sys.Link(target, link); err != nil {
		return wrapLinkError("create_hard_link", target, link, err)
	}
	return nil
}

// CreateSymlink creates link as a symbolic link to target. The target does
// not need to exist and is stored exactly as given.
func CreateSymlink(target, link string) error {
	if err := sys.Symlink(target, link); err != nil {
		return wrapLinkError("create_symlink", target, link, err)
	}
	return nil
}

// CreateDirectorySymlink creates link as a symbolic link to the directory
// target. Linux makes no distinction between links to files and links to
// directories, so this behaves exactly like CreateSymlink.
func CreateDirectorySymlink(target, link string) error {
	if err := sys.Symlink(target, link); err != nil {
		return wrapLinkError("create_directory_symlink", target, link, err)
	}
	return nil
}
