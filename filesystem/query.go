package filesystem

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/pterodactyl/fsx/internal/ufs"
)

// Exists reports whether p exists, following symbolic links. A missing path
// is not an error, any other failure to stat p is.
func Exists(p string) (bool, error) {
	if _, err := sys.Stat(p); err != nil {
		if classify(err) == ErrCodeNotFound {
			return false, nil
		}
		return false, wrapError("exists", p, err)
	}
	return true, nil
}

// Equivalent reports whether p1 and p2 resolve to the same file, that is the
// same inode on the same device. It fails when neither path exists; when only
// one of them exists the answer is simply false.
func Equivalent(p1, p2 string) (bool, error) {
	s1, err1 := sys.Stat(p1)
	s2, err2 := sys.Stat(p2)
	switch {
	case err1 != nil && err2 != nil:
		return false, wrapLinkError("equivalent", p1, p2, err1)
	case err1 != nil && classify(err1) != ErrCodeNotFound:
		return false, wrapLinkError("equivalent", p1, p2, err1)
	case err2 != nil && classify(err2) != ErrCodeNotFound:
		return false, wrapLinkError("equivalent", p1, p2, err2)
	case err1 != nil || err2 != nil:
		return false, nil
	}
	return ufs.SameFile(s1, s2), nil
}

// FileSize returns the size in bytes of the regular file p. Directories and
// other kinds of files have no meaningful size and are rejected.
func FileSize(p string) (uint64, error) {
	fi, err := sys.Stat(p)
	if err != nil {
		return 0, wrapError("file_size", p, err)
	}
	if fi.IsDir() {
		return 0, newOpError(ErrCodeInvalidArgument, "file_size", p, unix.EISDIR)
	}
	if !fi.Mode().IsRegular() {
		return 0, newOpError(ErrCodeInvalidArgument, "file_size", p, unix.EINVAL)
	}
	return uint64(fi.Size()), nil
}

// HardLinkCount returns the number of hard links to p.
func HardLinkCount(p string) (uint64, error) {
	fi, err := sys.Stat(p)
	if err != nil {
		return 0, wrapError("hard_link_count", p, err)
	}
	return ufs.Nlink(fi), nil
}

// LastWriteTime returns the modification time of p.
func LastWriteTime(p string) (time.Time, error) {
	fi, err := sys.Stat(p)
	if err != nil {
		return time.Time{}, wrapError("last_write_time", p, err)
	}
	return fi.ModTime(), nil
}

// SetLastWriteTime sets the modification time of p to t, leaving the access
// time untouched.
func SetLastWriteTime(p string, t time.Time) error {
	if err := sys.Chtimes(p, nil, &t); err != nil {
		return wrapError("set_last_write_time", p, err)
	}
	return nil
}

// Permissions returns the permission bits of p, following symbolic links.
func Permissions(p string) (Perms, error) {
	fi, err := sys.Stat(p)
	if err != nil {
		return PermsUnknown, wrapError("permissions", p, err)
	}
	return permsFromMode(fi.Mode()), nil
}

// SetPermissions changes the permission bits of p. PermReplace sets them to
// perms, PermAdd turns the bits in perms on and PermRemove turns them off.
// With PermNoFollow a symbolic link is changed itself rather than its target,
// which Linux does not support.
func SetPermissions(p string, perms Perms, opts PermOptions) error {
	switch opts &^ PermNoFollow {
	case PermReplace, PermAdd, PermRemove:
	default:
		return newOpError(ErrCodeInvalidArgument, "set_permissions", p, unix.EINVAL)
	}
	perms &= PermsMask

	nofollow := opts&PermNoFollow != 0
	stat := sys.Stat
	if nofollow {
		stat = sys.Lstat
	}
	fi, err := stat(p)
	if err != nil {
		return wrapError("set_permissions", p, err)
	}

	switch {
	case opts&PermAdd != 0:
		perms = permsFromMode(fi.Mode()) | perms
	case opts&PermRemove != 0:
		perms = permsFromMode(fi.Mode()) &^ perms
	}

	if nofollow && fi.Mode()&ufs.ModeSymlink != 0 {
		err = sys.Lchmod(p, perms.fileMode())
	} else {
		err = sys.Chmod(p, perms.fileMode())
	}
	if err != nil {
		return wrapError("set_permissions", p, err)
	}
	return nil
}

// ReadSymlink returns the target of the symbolic link p exactly as it was
// stored. It fails with InvalidArgument if p is not a symbolic link.
func ReadSymlink(p string) (string, error) {
	target, err := sys.Readlink(p)
	if err != nil {
		return "", wrapError("read_symlink", p, err)
	}
	return target, nil
}

// Space returns the size and usage of the filesystem that holds p.
func Space(p string) (SpaceInfo, error) {
	st, err := sys.Statfs(p)
	if err != nil {
		return SpaceInfo{}, wrapError("space", p, err)
	}
	bsize := uint64(st.Frsize)
	if bsize == 0 {
		bsize = uint64(st.Bsize)
	}
	return SpaceInfo{
		Capacity:  st.Blocks * bsize,
		Free:      st.Bfree * bsize,
		Available: st.Bavail * bsize,
	}, nil
}

// Status returns the type and permissions of p, following symbolic links.
func Status(p string) (FileStatus, error) {
	return status("status", p)
}

// SymlinkStatus returns the type and permissions of p without following a
// trailing symbolic link.
func SymlinkStatus(p string) (FileStatus, error) {
	return symlinkStatus("symlink_status", p)
}

// StatusKnown reports whether s holds a file type, which is true for every
// status returned without an error as well as for missing files.
func StatusKnown(s FileStatus) bool {
	return s.Type() != TypeNone
}
