package filesystem

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/pterodactyl/fsx/internal/ufs"
)

// FileType is the kind of entry a FileStatus describes.
type FileType uint8

const (
	// TypeNone means the status has not been evaluated, or an error other
	// than a missing file occurred while evaluating it.
	TypeNone FileType = iota
	TypeNotFound
	TypeRegular
	TypeDirectory
	TypeSymlink
	TypeBlock
	TypeCharacter
	TypeFifo
	TypeSocket
	// TypeUnknown is an entry that exists but whose kind could not be
	// determined.
	TypeUnknown
)

func (t FileType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeNotFound:
		return "not_found"
	case TypeRegular:
		return "regular"
	case TypeDirectory:
		return "directory"
	case TypeSymlink:
		return "symlink"
	case TypeBlock:
		return "block"
	case TypeCharacter:
		return "character"
	case TypeFifo:
		return "fifo"
	case TypeSocket:
		return "socket"
	}
	return "unknown"
}

func (t FileType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func fileTypeFromMode(m ufs.FileMode) FileType {
	switch {
	case m.IsRegular():
		return TypeRegular
	case m&ufs.ModeDir != 0:
		return TypeDirectory
	case m&ufs.ModeSymlink != 0:
		return TypeSymlink
	case m&ufs.ModeCharDevice != 0:
		return TypeCharacter
	case m&ufs.ModeDevice != 0:
		return TypeBlock
	case m&ufs.ModeNamedPipe != 0:
		return TypeFifo
	case m&ufs.ModeSocket != 0:
		return TypeSocket
	}
	return TypeUnknown
}

// Perms holds the permission bits of a file, including the set-user-ID,
// set-group-ID and sticky bits.
type Perms uint32

const (
	PermsNone Perms = 0

	OwnerRead  Perms = 0o400
	OwnerWrite Perms = 0o200
	OwnerExec  Perms = 0o100
	OwnerAll   Perms = 0o700

	GroupRead  Perms = 0o040
	GroupWrite Perms = 0o020
	GroupExec  Perms = 0o010
	GroupAll   Perms = 0o070

	OthersRead  Perms = 0o004
	OthersWrite Perms = 0o002
	OthersExec  Perms = 0o001
	OthersAll   Perms = 0o007

	PermsAll  Perms = 0o777
	SetUID    Perms = 0o4000
	SetGID    Perms = 0o2000
	StickyBit Perms = 0o1000
	PermsMask Perms = 0o7777

	// PermsUnknown is reported when the permissions of an entry could not be
	// determined, such as for a path that does not exist.
	PermsUnknown Perms = 0xFFFF
)

// String renders the permissions the way ls(1) does, for example "rwxr-sr-t".
func (p Perms) String() string {
	if p == PermsUnknown {
		return "unknown"
	}
	const rwx = "rwxrwxrwx"
	b := []byte("---------")
	for i := 0; i < 9; i++ {
		if p&(1<<uint(8-i)) != 0 {
			b[i] = rwx[i]
		}
	}
	special := func(i int, bit Perms, set, unset byte) {
		if p&bit == 0 {
			return
		}
		if b[i] == 'x' {
			b[i] = set
		} else {
			b[i] = unset
		}
	}
	special(2, SetUID, 's', 'S')
	special(5, SetGID, 's', 'S')
	special(8, StickyBit, 't', 'T')
	return string(b)
}

// fileMode converts the permissions into the mode bits used by the syscall
// layer.
func (p Perms) fileMode() ufs.FileMode {
	m := ufs.FileMode(p & PermsAll)
	if p&SetUID != 0 {
		m |= ufs.ModeSetuid
	}
	if p&SetGID != 0 {
		m |= ufs.ModeSetgid
	}
	if p&StickyBit != 0 {
		m |= ufs.ModeSticky
	}
	return m
}

func permsFromMode(m ufs.FileMode) Perms {
	p := Perms(m.Perm())
	if m&ufs.ModeSetuid != 0 {
		p |= SetUID
	}
	if m&ufs.ModeSetgid != 0 {
		p |= SetGID
	}
	if m&ufs.ModeSticky != 0 {
		p |= StickyBit
	}
	return p
}

// FileStatus is a snapshot of the type and permissions of a file taken at the
// time it was queried. It never changes afterwards.
type FileStatus struct {
	typ   FileType
	perms Perms
}

// NewFileStatus returns a FileStatus for the given type and permissions.
func NewFileStatus(t FileType, p Perms) FileStatus {
	return FileStatus{typ: t, perms: p}
}

func fileStatusFromInfo(fi ufs.FileInfo) FileStatus {
	return FileStatus{typ: fileTypeFromMode(fi.Mode()), perms: permsFromMode(fi.Mode())}
}

func (s FileStatus) Type() FileType {
	return s.typ
}

func (s FileStatus) Permissions() Perms {
	return s.perms
}

func (s FileStatus) String() string {
	return fmt.Sprintf("%s %s", s.typ, s.perms)
}

func (s FileStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        FileType `json:"type"`
		Permissions string   `json:"permissions"`
		Mode        uint32   `json:"mode"`
	}{
		Type:        s.typ,
		Permissions: s.perms.String(),
		Mode:        uint32(s.perms),
	})
}

// SpaceInfo holds the size of a filesystem in bytes. Free is the space left
// on the volume, Available is the part of it an unprivileged process may use.
type SpaceInfo struct {
	Capacity  uint64 `json:"capacity"`
	Free      uint64 `json:"free"`
	Available uint64 `json:"available"`
}

func (s SpaceInfo) String() string {
	return fmt.Sprintf("%s capacity, %s free, %s available",
		humanize.IBytes(s.Capacity), humanize.IBytes(s.Free), humanize.IBytes(s.Available))
}

// CopyOptions controls the behavior of Copy and CopyFile. At most one option
// from each of the following groups may be set:
//
//   - SkipExisting, OverwriteExisting, UpdateExisting
//   - CopySymlinks, SkipSymlinks
//   - DirectoriesOnly, CreateSymlinks, CreateHardLinks
type CopyOptions uint32

const (
	CopyNone          CopyOptions = 0
	SkipExisting      CopyOptions = 1 << 0
	OverwriteExisting CopyOptions = 1 << 1
	UpdateExisting    CopyOptions = 1 << 2
	Recursive         CopyOptions = 1 << 3
	CopySymlinks      CopyOptions = 1 << 4
	SkipSymlinks      CopyOptions = 1 << 5
	DirectoriesOnly   CopyOptions = 1 << 6
	CreateSymlinks    CopyOptions = 1 << 7
	CreateHardLinks   CopyOptions = 1 << 8

	// copyInRecursive marks a nested Copy call made while copying the
	// contents of a directory.
	copyInRecursive CopyOptions = 1 << 30

	existingGroup = SkipExisting | OverwriteExisting | UpdateExisting
	symlinksGroup = CopySymlinks | SkipSymlinks
	copyFormGroup = DirectoriesOnly | CreateSymlinks | CreateHardLinks
)

func (o CopyOptions) has(opt CopyOptions) bool {
	return o&opt != 0
}

// valid reports whether no more than one option of each group is set.
func (o CopyOptions) valid() bool {
	for _, group := range []CopyOptions{existingGroup, symlinksGroup, copyFormGroup} {
		if v := o & group; v&(v-1) != 0 {
			return false
		}
	}
	return true
}

func (o CopyOptions) String() string {
	if o&^copyInRecursive == CopyNone {
		return "none"
	}
	names := []struct {
		opt  CopyOptions
		name string
	}{
		{SkipExisting, "skip_existing"},
		{OverwriteExisting, "overwrite_existing"},
		{UpdateExisting, "update_existing"},
		{Recursive, "recursive"},
		{CopySymlinks, "copy_symlinks"},
		{SkipSymlinks, "skip_symlinks"},
		{DirectoriesOnly, "directories_only"},
		{CreateSymlinks, "create_symlinks"},
		{CreateHardLinks, "create_hard_links"},
	}
	var parts []string
	for _, n := range names {
		if o.has(n.opt) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// PermOptions controls how SetPermissions applies the given bits. Exactly one
// of PermReplace, PermAdd or PermRemove must be set. PermNoFollow may be
// combined with any of them to act on a symbolic link rather than its target.
type PermOptions uint8

const (
	PermReplace  PermOptions = 1 << 0
	PermAdd      PermOptions = 1 << 1
	PermRemove   PermOptions = 1 << 2
	PermNoFollow PermOptions = 1 << 3
)

// DirectoryOptions controls directory traversal in Walk.
type DirectoryOptions uint8

const (
	DirectoryNone          DirectoryOptions = 0
	FollowDirectorySymlink DirectoryOptions = 1 << 0
	SkipPermissionDenied   DirectoryOptions = 1 << 1
)
