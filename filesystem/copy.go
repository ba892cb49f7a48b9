package filesystem

import (
	"io"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"golang.org/x/sys/unix"

	"github.com/pterodactyl/fsx/config"
	"github.com/pterodactyl/fsx/internal/ufs"
)

// Copy copies from to to according to opts.
//
// Regular files are copied with CopyFile, or linked instead when
// CreateSymlinks or CreateHardLinks is set. Symbolic links are recreated with
// CopySymlinks, ignored with SkipSymlinks and otherwise followed. Directories
// are copied with all of their contents when Recursive is set. With no options
// at all a directory is copied one level deep, that is the directory and the
// files directly inside of it. Block and character devices, fifos and sockets
// cannot be copied.
func Copy(from, to string, opts CopyOptions) error {
	if !opts.valid() {
		return newOpError(ErrCodeInvalidArgument, "copy", from, unix.EINVAL)
	}

	var f, t FileStatus
	var err error
	if opts.has(CopySymlinks | SkipSymlinks | CreateSymlinks) {
		f, err = symlinkStatus("copy", from)
	} else {
		f, err = status("copy", from)
	}
	if err != nil {
		return err
	}
	if opts.has(SkipSymlinks | CreateSymlinks) {
		t, err = symlinkStatus("copy", to)
	} else {
		t, err = status("copy", to)
	}
	if err != nil && !isNotFound(err) {
		return err
	}

	if isOtherType(f.Type()) || isOtherType(t.Type()) {
		return newCopyError(ErrCodeInvalidArgument, from, to, unix.EINVAL)
	}
	if t.Type() != TypeNotFound {
		same, err := Equivalent(from, to)
		if err != nil {
			return err
		}
		if same {
			return newCopyError(ErrCodeAlreadyExists, from, to, unix.EEXIST)
		}
	}
	if f.Type() == TypeDirectory && t.Type() == TypeRegular {
		return newCopyError(ErrCodeInvalidArgument, from, to, unix.EISDIR)
	}

	switch f.Type() {
	case TypeSymlink:
		if opts.has(SkipSymlinks) {
			return nil
		}
		if t.Type() == TypeNotFound && opts.has(CopySymlinks) {
			return CopySymlink(from, to)
		}
		return newCopyError(ErrCodeInvalidArgument, from, to, unix.EINVAL)
	case TypeRegular:
		switch {
		case opts.has(DirectoriesOnly):
			return nil
		case opts.has(CreateSymlinks):
			return CreateSymlink(from, to)
		case opts.has(CreateHardLinks):
			return CreateHardLink(from, to)
		case t.Type() == TypeDirectory:
			_, err := CopyFile(from, filepath.Join(to, filepath.Base(from)), opts)
			return err
		}
		_, err := CopyFile(from, to, opts)
		return err
	case TypeDirectory:
		if opts.has(CreateSymlinks) {
			return newCopyError(ErrCodeInvalidArgument, from, to, unix.EISDIR)
		}
		if opts.has(Recursive) || opts == CopyNone {
			return copyDirectory(from, to, t, f.Permissions(), opts)
		}
	}
	return nil
}

// copyDirectory creates to if needed and copies every entry of from into it.
func copyDirectory(from, to string, t FileStatus, perms Perms, opts CopyOptions) error {
	if t.Type() == TypeNotFound {
		if err := sys.Mkdir(to, perms.fileMode()); err != nil {
			return wrapLinkError("copy", from, to, err)
		}
	}
	dirents, err := godirwalk.ReadDirents(from, nil)
	if err != nil {
		return wrapError("copy", from, err)
	}
	for _, de := range dirents {
		name := de.Name()
		if err := Copy(filepath.Join(from, name), filepath.Join(to, name), opts|copyInRecursive); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies the contents and permissions of the regular file from to
// to. If to already exists the call fails with AlreadyExists unless
// SkipExisting, OverwriteExisting or UpdateExisting is set; UpdateExisting
// only copies when from was modified more recently than to. The returned
// boolean reports whether anything was copied.
func CopyFile(from, to string, opts CopyOptions) (bool, error) {
	if !opts.valid() {
		return false, newOpError(ErrCodeInvalidArgument, "copy_file", from, unix.EINVAL)
	}

	src, err := sys.Stat(from)
	if err != nil {
		return false, wrapLinkError("copy_file", from, to, err)
	}
	if !src.Mode().IsRegular() {
		return false, newCopyFileError(ErrCodeInvalidArgument, from, to, unix.EINVAL)
	}

	dst, err := sys.Stat(to)
	switch {
	case err == nil:
		if !dst.Mode().IsRegular() {
			return false, newCopyFileError(ErrCodeInvalidArgument, from, to, unix.EINVAL)
		}
		if ufs.SameFile(src, dst) {
			return false, newCopyFileError(ErrCodeAlreadyExists, from, to, unix.EEXIST)
		}
		switch {
		case opts.has(SkipExisting):
			return false, nil
		case opts.has(OverwriteExisting):
		case opts.has(UpdateExisting):
			if !src.ModTime().After(dst.ModTime()) {
				return false, nil
			}
		default:
			return false, newCopyFileError(ErrCodeAlreadyExists, from, to, unix.EEXIST)
		}
	case classify(err) != ErrCodeNotFound:
		return false, wrapLinkError("copy_file", from, to, err)
	}

	if err := copyContents(from, to, permsFromMode(src.Mode())); err != nil {
		return false, err
	}
	return true, nil
}

func copyContents(from, to string, perms Perms) error {
	in, err := sys.Open(from)
	if err != nil {
		return wrapLinkError("copy_file", from, to, err)
	}
	defer in.Close()

	out, err := sys.OpenFile(to, ufs.O_WRONLY|ufs.O_CREATE|ufs.O_TRUNC, perms.fileMode())
	if err != nil {
		return wrapLinkError("copy_file", from, to, err)
	}

	// Hide the file types from io.CopyBuffer so the configured buffer is used.
	buf := make([]byte, config.Get().Filesystem.CopyBufferSize)
	_, err = io.CopyBuffer(struct{ io.Writer }{out}, struct{ io.Reader }{in}, buf)
	if err == nil {
		// The mode passed to open is subject to the umask and ignored for files
		// that already existed.
		err = out.Chmod(perms.fileMode())
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if classify(err) == ErrCodeUnknown {
			return newCopyFileError(ErrCodeIO, from, to, err)
		}
		return wrapLinkError("copy_file", from, to, err)
	}
	return nil
}

// CopySymlink creates newLink as a symbolic link with the same target as the
// symbolic link existing.
func CopySymlink(existing, newLink string) error {
	target, err := sys.Readlink(existing)
	if err != nil {
		return wrapLinkError("copy_symlink", existing, newLink, err)
	}
	if err := sys.Symlink(target, newLink); err != nil {
		return wrapLinkError("copy_symlink", existing, newLink, err)
	}
	return nil
}

func newCopyError(code ErrorCode, from, to string, errno unix.Errno) error {
	return withStack(&Error{code: code, op: "copy", path: from, path2: to, errno: errno, err: errno})
}

func newCopyFileError(code ErrorCode, from, to string, err error) error {
	return withStack(&Error{code: code, op: "copy_file", path: from, path2: to, errno: errnoOf(err), err: err})
}

// isOtherType reports whether t exists but is neither a regular file, a
// directory nor a symbolic link.
func isOtherType(t FileType) bool {
	switch t {
	case TypeBlock, TypeCharacter, TypeFifo, TypeSocket, TypeUnknown:
		return true
	}
	return false
}
