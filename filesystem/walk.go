package filesystem

import (
	iofs "io/fs"
	"sort"

	"emperror.dev/errors"
	"github.com/karrick/godirwalk"
)

// SkipDir can be returned from a WalkFunc to skip the contents of the
// directory it was called for. It has no effect when returned for a file.
var SkipDir = godirwalk.SkipThis

// DirEntry is a single entry of a directory.
type DirEntry struct {
	name string
	typ  FileType
}

// Name returns the base name of the entry.
func (e DirEntry) Name() string {
	return e.name
}

// Type returns the type of the entry itself. Symbolic links are reported as
// TypeSymlink regardless of what they point at.
func (e DirEntry) Type() FileType {
	return e.typ
}

func newDirEntry(de *godirwalk.Dirent) DirEntry {
	return DirEntry{name: de.Name(), typ: fileTypeFromMode(de.ModeType())}
}

// ReadDir returns the entries of the directory p sorted by name, without the
// "." and ".." entries.
func ReadDir(p string) ([]DirEntry, error) {
	dirents, err := godirwalk.ReadDirents(p, nil)
	if err != nil {
		return nil, wrapError("read_dir", p, err)
	}
	sort.Sort(dirents)
	out := make([]DirEntry, 0, len(dirents))
	for _, de := range dirents {
		out = append(out, newDirEntry(de))
	}
	return out, nil
}

// WalkFunc is called by Walk for every entry found, root included.
type WalkFunc func(p string, e DirEntry) error

// Walk calls fn for root and everything below it in lexical order. Symbolic
// links to directories are only descended into with FollowDirectorySymlink.
// With SkipPermissionDenied directories that cannot be read are skipped
// instead of failing the walk.
//
// An error returned by fn, other than SkipDir, stops the walk and is returned
// as it is.
func Walk(root string, opts DirectoryOptions, fn WalkFunc) error {
	var cbErr error
	err := godirwalk.Walk(root, &godirwalk.Options{
		AllowNonDirectory:   true,
		FollowSymbolicLinks: opts&FollowDirectorySymlink != 0,
		Callback: func(p string, de *godirwalk.Dirent) error {
			err := fn(p, newDirEntry(de))
			if err != nil && err != SkipDir {
				cbErr = err
			}
			return err
		},
		ErrorCallback: func(_ string, err error) godirwalk.ErrorAction {
			if cbErr == nil && opts&SkipPermissionDenied != 0 && errors.Is(err, iofs.ErrPermission) {
				return godirwalk.SkipNode
			}
			return godirwalk.Halt
		},
	})
	if cbErr != nil {
		return cbErr
	}
	if err != nil {
		return wrapError("walk", root, err)
	}
	return nil
}
