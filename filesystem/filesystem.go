package filesystem

import (
	"github.com/pterodactyl/fsx/config"
	"github.com/pterodactyl/fsx/internal/ufs"
)

// sys performs every system call made by this package.
var sys ufs.Filesystem = ufs.NewUnixFS()

// status returns the status of p, following symbolic links. A missing path
// yields a TypeNotFound status along with a NotFound error, any other failure
// yields a TypeNone status.
func status(op, p string) (FileStatus, error) {
	fi, err := sys.Stat(p)
	if err != nil {
		return failedStatus(op, p, err)
	}
	return fileStatusFromInfo(fi), nil
}

// symlinkStatus is like status but describes a symbolic link itself rather
// than its target.
func symlinkStatus(op, p string) (FileStatus, error) {
	fi, err := sys.Lstat(p)
	if err != nil {
		return failedStatus(op, p, err)
	}
	return fileStatusFromInfo(fi), nil
}

func failedStatus(op, p string, err error) (FileStatus, error) {
	if classify(err) == ErrCodeNotFound {
		return NewFileStatus(TypeNotFound, PermsUnknown), wrapError(op, p, err)
	}
	return NewFileStatus(TypeNone, PermsUnknown), wrapError(op, p, err)
}

// isNotFound reports whether err is a NotFound error from this package.
func isNotFound(err error) bool {
	return IsErrorCode(err, ErrCodeNotFound)
}

func directoryMode() ufs.FileMode {
	return Perms(config.Get().Filesystem.DirectoryMode).fileMode()
}

func fileMode() ufs.FileMode {
	return Perms(config.Get().Filesystem.FileMode).fileMode()
}
