package filesystem

import (
	"io"

	"github.com/pterodactyl/fsx/internal/ufs"
)

// Bytes is any container of raw bytes that ReadFile can fill and WriteFile
// and AppendFile can write out.
type Bytes interface {
	~[]byte | ~string
}

// ReadFile returns the whole contents of p. The file is sized up front and
// read in one go, so reading fewer bytes than the file claimed to hold is an
// IO error rather than a short result.
//
// Any failure to open p is classified as NotFound and any failure while
// reading or closing it as IO. The errno reported by the kernel is kept on
// the error in both cases.
func ReadFile[C Bytes](p string) (C, error) {
	var zero C
	f, err := sys.Open(p)
	if err != nil {
		return zero, newOpError(ErrCodeNotFound, "read_file", p, err)
	}
	b, err := readAll(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return zero, newOpError(ErrCodeIO, "read_file", p, err)
	}
	return C(b), nil
}

func readAll(f ufs.File) ([]byte, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	b := make([]byte, fi.Size())
	if len(b) == 0 {
		return b, nil
	}
	if _, err := io.ReadFull(f, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

// WriteFile replaces the contents of p with content, creating the file with
// the configured file mode if it does not exist.
//
// Any failure to open p is classified as PermissionDenied and any failure
// while writing or closing it as IO.
func WriteFile[C Bytes](p string, content C) error {
	return writeFile("write_file", p, []byte(content), ufs.O_WRONLY|ufs.O_CREATE|ufs.O_TRUNC)
}

// AppendFile is like WriteFile but adds content to the end of p instead of
// replacing what is already there.
func AppendFile[C Bytes](p string, content C) error {
	return writeFile("append_file", p, []byte(content), ufs.O_WRONLY|ufs.O_CREATE|ufs.O_APPEND)
}

func writeFile(op, p string, b []byte, flag int) error {
	f, err := sys.OpenFile(p, flag, fileMode())
	if err != nil {
		return newOpError(ErrCodePermissionDenied, op, p, err)
	}
	n, err := f.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return newOpError(ErrCodeIO, op, p, err)
	}
	return nil
}
