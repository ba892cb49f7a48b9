package filesystem

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"emperror.dev/errors"
	. "github.com/franela/goblin"
	"golang.org/x/sys/unix"

	"github.com/pterodactyl/fsx/config"
	"github.com/pterodactyl/fsx/internal/ufs"
)

type rootFs struct {
	root string
}

// newRootFs returns a scratch directory that is removed once the test is
// complete. The directory is resolved so paths built from it are canonical.
func newRootFs(t *testing.T) *rootFs {
	config.Set(nil)

	tmpDir, err := os.MkdirTemp(os.TempDir(), "fsx")
	if err != nil {
		t.Fatal(err)
	}
	tmpDir, err = filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(tmpDir)
	})
	return &rootFs{root: tmpDir}
}

func (rfs *rootFs) path(p ...string) string {
	return filepath.Join(append([]string{rfs.root}, p...)...)
}

func (rfs *rootFs) CreateFile(p string, c string) error {
	p = rfs.path(p)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(c), 0o644)
}

func (rfs *rootFs) reset() {
	entries, err := os.ReadDir(rfs.root)
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(rfs.path(e.Name())); err != nil {
			panic(err)
		}
	}
	config.Set(nil)
}

// errno returns the raw errno carried by a filesystem error.
func errno(err error) unix.Errno {
	var fserr *Error
	if errors.As(err, &fserr) {
		return fserr.Errno()
	}
	return 0
}

func TestFilesystem_Scenario(t *testing.T) {
	g := Goblin(t)
	rfs := newRootFs(t)

	g.Describe("Hello, World!", func() {
		g.It("writes, inspects, reads and removes a file", func() {
			p := rfs.path("test.txt")
			g.Assert(WriteFile(p, "Hello, World!")).IsNil()

			exists, err := Exists(p)
			g.Assert(err).IsNil()
			g.Assert(exists).IsTrue()

			regular, err := IsRegularFile(p)
			g.Assert(err).IsNil()
			g.Assert(regular).IsTrue()

			dir, err := IsDirectory(p)
			g.Assert(err).IsNil()
			g.Assert(dir).IsFalse()

			b, err := ReadFile[[]byte](p)
			g.Assert(err).IsNil()
			g.Assert(string(b)).Equal("Hello, World!")

			g.Assert(Remove(p)).IsNil()

			exists, err = Exists(p)
			g.Assert(err).IsNil()
			g.Assert(exists).IsFalse()

			_, err = IsRegularFile(p)
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()

			_, err = IsDirectory(p)
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()
		})
	})
}

type blob []byte

// shortReadFs reports every opened file as being larger than it is, so that
// reading it always comes up short.
type shortReadFs struct {
	*ufs.UnixFS
}

func (fs shortReadFs) Open(name string) (ufs.File, error) {
	f, err := fs.UnixFS.Open(name)
	if err != nil {
		return nil, err
	}
	return &growingFile{File: f}, nil
}

type growingFile struct {
	ufs.File
}

func (f *growingFile) Stat() (ufs.FileInfo, error) {
	fi, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return sizedInfo{FileInfo: fi, size: fi.Size() + 16}, nil
}

type sizedInfo struct {
	ufs.FileInfo
	size int64
}

func (i sizedInfo) Size() int64 {
	return i.size
}

func TestFilesystem_ReadFile(t *testing.T) {
	g := Goblin(t)
	rfs := newRootFs(t)

	g.Describe("ReadFile", func() {
		g.AfterEach(func() {
			sys = ufs.NewUnixFS()
			rfs.reset()
		})

		g.It("round trips binary content", func() {
			content := make([]byte, 0, 512)
			for i := 0; i < 512; i++ {
				content = append(content, byte(i%256))
			}
			p := rfs.path("binary")
			g.Assert(WriteFile(p, content)).IsNil()

			b, err := ReadFile[[]byte](p)
			g.Assert(err).IsNil()
			g.Assert(bytes.Equal(b, content)).IsTrue()
		})

		g.It("reads into any byte container", func() {
			g.Assert(rfs.CreateFile("test.txt", "testing")).IsNil()

			s, err := ReadFile[string](rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(s).Equal("testing")

			b, err := ReadFile[blob](rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(b).Equal(blob("testing"))
		})

		g.It("reads an empty file", func() {
			g.Assert(rfs.CreateFile("empty", "")).IsNil()

			b, err := ReadFile[[]byte](rfs.path("empty"))
			g.Assert(err).IsNil()
			g.Assert(len(b)).Equal(0)
		})

		g.It("returns a not found error if the file cannot be opened", func() {
			_, err := ReadFile[string](rfs.path("missing"))
			g.Assert(err).IsNotNil()
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()
			g.Assert(errno(err)).Equal(unix.ENOENT)
			g.Assert(errors.Is(err, os.ErrNotExist)).IsTrue()
		})

		g.It("returns an IO error for a short read", func() {
			g.Assert(rfs.CreateFile("test.txt", "testing")).IsNil()
			sys = shortReadFs{UnixFS: ufs.NewUnixFS()}

			b, err := ReadFile[[]byte](rfs.path("test.txt"))
			g.Assert(err).IsNotNil()
			g.Assert(IsErrorCode(err, ErrCodeIO)).IsTrue()
			g.Assert(errors.Is(err, io.ErrUnexpectedEOF)).IsTrue()
			g.Assert(len(b)).Equal(0)
		})
	})
}

func TestFilesystem_WriteFile(t *testing.T) {
	g := Goblin(t)
	rfs := newRootFs(t)

	g.Describe("WriteFile", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("creates a new file", func() {
			p := rfs.path("test.txt")
			g.Assert(WriteFile(p, []byte("testing"))).IsNil()

			b, err := os.ReadFile(p)
			g.Assert(err).IsNil()
			g.Assert(string(b)).Equal("testing")
		})

		g.It("truncates an existing file", func() {
			g.Assert(rfs.CreateFile("test.txt", "a much longer value")).IsNil()
			g.Assert(WriteFile(rfs.path("test.txt"), "short")).IsNil()

			s, err := ReadFile[string](rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(s).Equal("short")
		})

		g.It("creates files with the configured mode", func() {
			config.Update(func(c *config.Configuration) {
				c.Filesystem.FileMode = 0o600
			})
			p := rfs.path("private")
			g.Assert(WriteFile(p, "secret")).IsNil()

			perms, err := Permissions(p)
			g.Assert(err).IsNil()
			g.Assert(perms).Equal(OwnerRead | OwnerWrite)
		})

		g.It("returns a permission error if the file cannot be opened", func() {
			err := WriteFile(rfs.path("missing", "test.txt"), "testing")
			g.Assert(err).IsNotNil()
			g.Assert(IsErrorCode(err, ErrCodePermissionDenied)).IsTrue()
			g.Assert(errno(err)).Equal(unix.ENOENT)
		})

		g.It("returns a permission error when writing to a directory", func() {
			err := WriteFile(rfs.root, "testing")
			g.Assert(IsErrorCode(err, ErrCodePermissionDenied)).IsTrue()
			g.Assert(errno(err)).Equal(unix.EISDIR)
		})
	})

	g.Describe("AppendFile", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("appends to the existing content", func() {
			p := rfs.path("test.txt")
			g.Assert(WriteFile(p, "Hello, ")).IsNil()
			g.Assert(AppendFile(p, []byte("World!"))).IsNil()

			s, err := ReadFile[string](p)
			g.Assert(err).IsNil()
			g.Assert(s).Equal("Hello, World!")
		})

		g.It("creates the file if it does not exist", func() {
			p := rfs.path("test.txt")
			g.Assert(AppendFile(p, "testing")).IsNil()

			s, err := ReadFile[string](p)
			g.Assert(err).IsNil()
			g.Assert(s).Equal("testing")
		})
	})
}

func TestFilesystem_CreateDirectory(t *testing.T) {
	g := Goblin(t)
	rfs := newRootFs(t)

	g.Describe("CreateDirectory", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("creates a directory", func() {
			created, err := CreateDirectory(rfs.path("dir"))
			g.Assert(err).IsNil()
			g.Assert(created).IsTrue()

			dir, err := IsDirectory(rfs.path("dir"))
			g.Assert(err).IsNil()
			g.Assert(dir).IsTrue()
		})

		g.It("succeeds if the directory already exists", func() {
			g.Assert(os.Mkdir(rfs.path("dir"), 0o755)).IsNil()

			created, err := CreateDirectory(rfs.path("dir"))
			g.Assert(err).IsNil()
			g.Assert(created).IsFalse()
		})

		g.It("fails if a file is in the way", func() {
			g.Assert(rfs.CreateFile("file", "")).IsNil()

			_, err := CreateDirectory(rfs.path("file"))
			g.Assert(IsErrorCode(err, ErrCodeAlreadyExists)).IsTrue()
		})

		g.It("fails if the parent does not exist", func() {
			_, err := CreateDirectory(rfs.path("a", "b"))
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()
		})

		g.It("creates directories with the configured mode", func() {
			config.Update(func(c *config.Configuration) {
				c.Filesystem.DirectoryMode = 0o700
			})
			_, err := CreateDirectory(rfs.path("dir"))
			g.Assert(err).IsNil()

			perms, err := Permissions(rfs.path("dir"))
			g.Assert(err).IsNil()
			g.Assert(perms).Equal(OwnerAll)
		})
	})

	g.Describe("CreateDirectories", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("is idempotent", func() {
			p := rfs.path("a", "b", "c")

			created, err := CreateDirectories(p)
			g.Assert(err).IsNil()
			g.Assert(created).IsTrue()

			created, err = CreateDirectories(p)
			g.Assert(err).IsNil()
			g.Assert(created).IsFalse()

			dir, err := IsDirectory(p)
			g.Assert(err).IsNil()
			g.Assert(dir).IsTrue()
		})

		g.It("rejects an empty path", func() {
			_, err := CreateDirectories("")
			g.Assert(IsErrorCode(err, ErrCodeInvalidArgument)).IsTrue()
		})

		g.It("fails if a file is in the way", func() {
			g.Assert(rfs.CreateFile("a", "")).IsNil()

			_, err := CreateDirectories(rfs.path("a"))
			g.Assert(IsErrorCode(err, ErrCodeAlreadyExists)).IsTrue()

			_, err = CreateDirectories(rfs.path("a", "b"))
			g.Assert(err).IsNotNil()
		})
	})

	g.Describe("CreateHardLink", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("links two names to the same file", func() {
			g.Assert(rfs.CreateFile("a", "testing")).IsNil()
			g.Assert(CreateHardLink(rfs.path("a"), rfs.path("b"))).IsNil()

			n, err := HardLinkCount(rfs.path("a"))
			g.Assert(err).IsNil()
			g.Assert(n).Equal(uint64(2))

			same, err := Equivalent(rfs.path("a"), rfs.path("b"))
			g.Assert(err).IsNil()
			g.Assert(same).IsTrue()
		})

		g.It("fails if the link already exists", func() {
			g.Assert(rfs.CreateFile("a", "")).IsNil()
			g.Assert(rfs.CreateFile("b", "")).IsNil()

			err := CreateHardLink(rfs.path("a"), rfs.path("b"))
			g.Assert(IsErrorCode(err, ErrCodeAlreadyExists)).IsTrue()
		})
	})

	g.Describe("CreateSymlink", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("creates a dangling symlink", func() {
			link := rfs.path("link")
			g.Assert(CreateSymlink("does/not/exist", link)).IsNil()

			isLink, err := IsSymlink(link)
			g.Assert(err).IsNil()
			g.Assert(isLink).IsTrue()

			exists, err := Exists(link)
			g.Assert(err).IsNil()
			g.Assert(exists).IsFalse()

			target, err := ReadSymlink(link)
			g.Assert(err).IsNil()
			g.Assert(target).Equal("does/not/exist")
		})

		g.It("creates a directory symlink", func() {
			g.Assert(os.Mkdir(rfs.path("dir"), 0o755)).IsNil()
			link := rfs.path("link")
			g.Assert(CreateDirectorySymlink(rfs.path("dir"), link)).IsNil()

			dir, err := IsDirectory(link)
			g.Assert(err).IsNil()
			g.Assert(dir).IsTrue()

			isLink, err := IsSymlink(link)
			g.Assert(err).IsNil()
			g.Assert(isLink).IsTrue()
		})
	})
}

func TestFilesystem_Remove(t *testing.T) {
	g := Goblin(t)
	rfs := newRootFs(t)

	g.Describe("Remove", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("removes a file", func() {
			g.Assert(rfs.CreateFile("test.txt", "testing")).IsNil()
			g.Assert(Remove(rfs.path("test.txt"))).IsNil()

			_, err := os.Lstat(rfs.path("test.txt"))
			g.Assert(errors.Is(err, os.ErrNotExist)).IsTrue()
		})

		g.It("removes an empty directory", func() {
			g.Assert(os.Mkdir(rfs.path("dir"), 0o755)).IsNil()
			g.Assert(Remove(rfs.path("dir"))).IsNil()
		})

		g.It("removes a symlink but not its target", func() {
			g.Assert(rfs.CreateFile("target", "testing")).IsNil()
			g.Assert(os.Symlink(rfs.path("target"), rfs.path("link"))).IsNil()
			g.Assert(Remove(rfs.path("link"))).IsNil()

			exists, err := Exists(rfs.path("target"))
			g.Assert(err).IsNil()
			g.Assert(exists).IsTrue()
		})

		g.It("does nothing for a missing path", func() {
			g.Assert(Remove(rfs.path("missing"))).IsNil()
		})

		g.It("fails for a path below a regular file", func() {
			g.Assert(rfs.CreateFile("file", "")).IsNil()

			err := Remove(rfs.path("file", "child"))
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()
			g.Assert(errno(err)).Equal(unix.ENOTDIR)
		})

		g.It("refuses to remove a directory with contents", func() {
			g.Assert(rfs.CreateFile("dir/test.txt", "testing")).IsNil()

			err := Remove(rfs.path("dir"))
			g.Assert(IsErrorCode(err, ErrCodeDirectoryNotEmpty)).IsTrue()
			g.Assert(errno(err)).Equal(unix.ENOTEMPTY)
		})
	})

	g.Describe("RemoveAll", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("returns the number of removed entries", func() {
			g.Assert(rfs.CreateFile("dir/a", "a")).IsNil()
			g.Assert(rfs.CreateFile("dir/b", "b")).IsNil()
			g.Assert(rfs.CreateFile("dir/sub/c", "c")).IsNil()

			n, err := RemoveAll(rfs.path("dir"))
			g.Assert(err).IsNil()
			g.Assert(n).Equal(uint64(5))

			exists, err := Exists(rfs.path("dir"))
			g.Assert(err).IsNil()
			g.Assert(exists).IsFalse()
		})

		g.It("removes a single file", func() {
			g.Assert(rfs.CreateFile("test.txt", "testing")).IsNil()

			n, err := RemoveAll(rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(n).Equal(uint64(1))
		})

		g.It("removes nothing for a missing path", func() {
			n, err := RemoveAll(rfs.path("missing"))
			g.Assert(err).IsNil()
			g.Assert(n).Equal(uint64(0))
		})
	})

	g.Describe("Rename", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("moves a file", func() {
			g.Assert(rfs.CreateFile("a", "testing")).IsNil()
			g.Assert(Rename(rfs.path("a"), rfs.path("b"))).IsNil()

			s, err := ReadFile[string](rfs.path("b"))
			g.Assert(err).IsNil()
			g.Assert(s).Equal("testing")

			exists, err := Exists(rfs.path("a"))
			g.Assert(err).IsNil()
			g.Assert(exists).IsFalse()
		})

		g.It("replaces an existing file", func() {
			g.Assert(rfs.CreateFile("a", "new")).IsNil()
			g.Assert(rfs.CreateFile("b", "old")).IsNil()
			g.Assert(Rename(rfs.path("a"), rfs.path("b"))).IsNil()

			s, err := ReadFile[string](rfs.path("b"))
			g.Assert(err).IsNil()
			g.Assert(s).Equal("new")
		})

		g.It("fails for a missing source", func() {
			err := Rename(rfs.path("missing"), rfs.path("b"))
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()

			var fserr *Error
			g.Assert(errors.As(err, &fserr)).IsTrue()
			g.Assert(fserr.Path()).Equal(rfs.path("missing"))
			g.Assert(fserr.Path2()).Equal(rfs.path("b"))
		})

		g.It("refuses to replace a directory with contents", func() {
			g.Assert(os.Mkdir(rfs.path("a"), 0o755)).IsNil()
			g.Assert(rfs.CreateFile("b/c", "")).IsNil()

			err := Rename(rfs.path("a"), rfs.path("b"))
			g.Assert(err).IsNotNil()
			g.Assert(IsErrorCode(err, ErrCodeDirectoryNotEmpty) || IsErrorCode(err, ErrCodeAlreadyExists)).IsTrue()
		})
	})

	g.Describe("ResizeFile", func() {
		g.AfterEach(func() {
			rfs.reset()
		})

		g.It("pads a file with zero bytes when growing it", func() {
			g.Assert(rfs.CreateFile("test.txt", "abc")).IsNil()
			g.Assert(ResizeFile(rfs.path("test.txt"), 8)).IsNil()

			size, err := FileSize(rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(size).Equal(uint64(8))

			b, err := ReadFile[[]byte](rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(b).Equal([]byte{'a', 'b', 'c', 0, 0, 0, 0, 0})
		})

		g.It("truncates a file", func() {
			g.Assert(rfs.CreateFile("test.txt", "abc")).IsNil()
			g.Assert(ResizeFile(rfs.path("test.txt"), 1)).IsNil()

			s, err := ReadFile[string](rfs.path("test.txt"))
			g.Assert(err).IsNil()
			g.Assert(s).Equal("a")
		})

		g.It("rejects sizes that do not fit in a file offset", func() {
			g.Assert(rfs.CreateFile("test.txt", "abc")).IsNil()

			err := ResizeFile(rfs.path("test.txt"), math.MaxInt64+1)
			g.Assert(IsErrorCode(err, ErrCodeInvalidArgument)).IsTrue()
		})

		g.It("fails for a missing file", func() {
			err := ResizeFile(rfs.path("missing"), 1)
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()
		})
	})
}

func TestFilesystem_Environment(t *testing.T) {
	g := Goblin(t)
	rfs := newRootFs(t)

	g.Describe("CurrentPath", func() {
		g.It("returns the working directory", func() {
			wd, err := os.Getwd()
			g.Assert(err).IsNil()

			p, err := CurrentPath()
			g.Assert(err).IsNil()
			g.Assert(p).Equal(wd)
		})
	})

	g.Describe("TempDirectoryPath", func() {
		g.BeforeEach(func() {
			for _, name := range tempDirEnv {
				t.Setenv(name, "")
			}
		})

		g.It("prefers TMPDIR", func() {
			t.Setenv("TMPDIR", rfs.root)
			t.Setenv("TMP", "/")

			p, err := TempDirectoryPath()
			g.Assert(err).IsNil()
			g.Assert(p).Equal(rfs.root)
		})

		g.It("falls back through the other variables", func() {
			t.Setenv("TEMP", rfs.root)

			p, err := TempDirectoryPath()
			g.Assert(err).IsNil()
			g.Assert(p).Equal(rfs.root)
		})

		g.It("defaults to /tmp", func() {
			p, err := TempDirectoryPath()
			g.Assert(err).IsNil()
			g.Assert(p).Equal("/tmp")
		})

		g.It("fails if the path is not a directory", func() {
			g.Assert(rfs.CreateFile("file", "")).IsNil()
			t.Setenv("TMPDIR", rfs.path("file"))

			_, err := TempDirectoryPath()
			g.Assert(err).IsNotNil()
			g.Assert(errno(err)).Equal(unix.ENOTDIR)
		})
	})
}
