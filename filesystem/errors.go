package filesystem

import (
	"io"
	iofs "io/fs"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/goccy/go-json"
	"golang.org/x/sys/unix"

	"github.com/pterodactyl/fsx/internal/ufs"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "E_NOTEXIST"
	ErrCodePermissionDenied  ErrorCode = "E_PERM"
	ErrCodeAlreadyExists     ErrorCode = "E_EXIST"
	ErrCodeDirectoryNotEmpty ErrorCode = "E_NOTEMPTY"
	ErrCodeCrossDevice       ErrorCode = "E_XDEV"
	ErrCodeIO                ErrorCode = "E_IO"
	ErrCodeInvalidArgument   ErrorCode = "E_INVAL"
	ErrCodeUnknown           ErrorCode = "E_UNKNOWN"
)

// String returns a short human readable description of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNotFound:
		return "no such file or directory"
	case ErrCodePermissionDenied:
		return "permission denied"
	case ErrCodeAlreadyExists:
		return "file exists"
	case ErrCodeDirectoryNotEmpty:
		return "directory not empty"
	case ErrCodeCrossDevice:
		return "cross-device link"
	case ErrCodeIO:
		return "input/output error"
	case ErrCodeInvalidArgument:
		return "invalid argument"
	}
	return "unknown error"
}

// Error is the only error type returned by this package. It is never returned
// bare: newFilesystemError and friends wrap it with a stack trace, so use
// errors.As (or the Code and IsErrorCode helpers) to get at it.
type Error struct {
	code  ErrorCode
	op    string
	path  string
	path2 string
	errno unix.Errno
	err   error
}

// Error returns a human-readable error string to identify the Error by.
func (e *Error) Error() string {
	subject := e.path
	if e.path2 != "" {
		subject += " -> " + e.path2
	}
	subject = strings.TrimSpace(e.op + " " + subject)

	var b strings.Builder
	b.WriteString("filesystem: ")
	if subject != "" {
		b.WriteString(subject)
		b.WriteString(": ")
	}
	switch {
	case e.errno != 0:
		b.WriteString(e.errno.Error())
	case e.err != nil:
		b.WriteString(e.err.Error())
	default:
		b.WriteString(e.code.String())
	}
	return b.String()
}

// Code returns the classification of the error.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Op returns the name of the operation that failed.
func (e *Error) Op() string {
	return e.op
}

// Path returns the path the failing operation was called with. For two path
// operations this is the source path.
func (e *Error) Path() string {
	return e.path
}

// Path2 returns the destination path of a failed two path operation.
func (e *Error) Path2() string {
	return e.path2
}

// Errno returns the raw error number reported by the kernel, or 0 if the
// failure was not reported by a system call.
func (e *Error) Errno() unix.Errno {
	return e.errno
}

// Unwrap returns the underlying cause of the error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is matches the error against the io/fs sentinel errors as well as against
// another *Error with the same code.
func (e *Error) Is(target error) bool {
	switch target {
	case iofs.ErrNotExist:
		return e.code == ErrCodeNotFound
	case iofs.ErrExist:
		return e.code == ErrCodeAlreadyExists
	case iofs.ErrPermission:
		return e.code == ErrCodePermissionDenied
	case iofs.ErrInvalid:
		return e.code == ErrCodeInvalidArgument
	}
	if t, ok := target.(*Error); ok {
		return t.code == e.code
	}
	return false
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    ErrorCode `json:"code"`
		Op      string    `json:"op,omitempty"`
		Path    string    `json:"path,omitempty"`
		Path2   string    `json:"path2,omitempty"`
		Errno   int       `json:"errno,omitempty"`
		Message string    `json:"message"`
	}{
		Code:    e.code,
		Op:      e.op,
		Path:    e.path,
		Path2:   e.path2,
		Errno:   int(e.errno),
		Message: e.Error(),
	})
}

// newFilesystemError returns a new error with the given code and cause and a
// stack trace attached.
func newFilesystemError(code ErrorCode, err error) error {
	return withStack(&Error{code: code, err: err, errno: errnoOf(err)})
}

// newOpError returns an error with an explicit code for an operation on path
// p. It is used where the classification is decided by the operation rather
// than by the errno, such as argument validation or whole-file I/O.
func newOpError(code ErrorCode, op, p string, err error) error {
	return withStack(&Error{code: code, op: op, path: p, err: err, errno: errnoOf(err)})
}

// wrapError classifies an error returned by the syscall layer for op on p.
func wrapError(op, p string, err error) error {
	return withStack(&Error{code: classify(err), op: op, path: p, err: err, errno: errnoOf(err)})
}

// wrapLinkError classifies an error returned by the syscall layer for a two
// path operation.
func wrapLinkError(op, from, to string, err error) error {
	return withStack(&Error{code: classify(err), op: op, path: from, path2: to, err: err, errno: errnoOf(err)})
}

func withStack(e *Error) error {
	log.WithField("subsystem", "filesystem").
		WithField("op", e.op).
		WithField("path", e.path).
		WithField("code", string(e.code)).
		WithField("errno", int(e.errno)).
		Debug("filesystem operation failed")
	return errors.WithStackDepth(e, 2)
}

func errnoOf(err error) unix.Errno {
	if errno, ok := ufs.Errno(err); ok {
		return errno
	}
	return 0
}

// classify maps an error from the syscall layer onto an ErrorCode.
func classify(err error) ErrorCode {
	if errno, ok := ufs.Errno(err); ok {
		return codeForErrno(errno)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrShortWrite) {
		return ErrCodeIO
	}
	return ErrCodeUnknown
}

func codeForErrno(errno unix.Errno) ErrorCode {
	switch errno {
	case unix.ENOENT, unix.ENOTDIR:
		return ErrCodeNotFound
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return ErrCodePermissionDenied
	case unix.EEXIST:
		return ErrCodeAlreadyExists
	case unix.ENOTEMPTY:
		return ErrCodeDirectoryNotEmpty
	case unix.EXDEV:
		return ErrCodeCrossDevice
	case unix.EIO, unix.ENOSPC, unix.EDQUOT, unix.EFBIG:
		return ErrCodeIO
	case unix.EINVAL, unix.EISDIR, unix.ELOOP, unix.ENAMETOOLONG, unix.EBADF:
		return ErrCodeInvalidArgument
	}
	return ErrCodeUnknown
}

// IsErrorCode reports whether err, or any error it wraps, is an *Error
// classified as code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

// Code returns the ErrorCode carried by err. A nil error has no code and any
// error that did not come from this package is reported as ErrCodeUnknown.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ErrCodeUnknown
}

// Must returns v if err is nil and panics with err otherwise. It is meant for
// tests and one-off tools where a failure should stop everything.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
