package filesystem

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Absolute returns p prefixed with the current working directory if it is not
// already absolute. The path is not cleaned, so "." and ".." elements as well
// as symbolic links are kept as they are.
func Absolute(p string) (string, error) {
	if p == "" {
		return "", newOpError(ErrCodeInvalidArgument, "absolute", p, unix.EINVAL)
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := sys.Getwd()
	if err != nil {
		return "", wrapError("absolute", p, err)
	}
	if strings.HasSuffix(wd, "/") {
		return wd + p, nil
	}
	return wd + "/" + p, nil
}

// Canonical returns the absolute path of p with every symbolic link, "." and
// ".." element resolved. Every element of p must exist.
func Canonical(p string) (string, error) {
	r, err := sys.Realpath(p)
	if err != nil {
		return "", wrapError("canonical", p, err)
	}
	return r, nil
}

// WeaklyCanonical resolves the longest leading part of p that exists with
// Canonical and appends the remaining elements to it before cleaning the
// result. Unlike Canonical it works for paths that do not exist yet. A path
// with no existing leading part is only cleaned, relative paths stay relative.
func WeaklyCanonical(p string) (string, error) {
	if p == "" {
		return "", nil
	}

	end := 0
	for i := 1; i <= len(p); i++ {
		if i < len(p) && p[i] != '/' {
			continue
		}
		if _, err := sys.Stat(p[:i]); err != nil {
			if classify(err) == ErrCodeNotFound {
				break
			}
			return "", wrapError("weakly_canonical", p, err)
		}
		end = i
	}
	if end == 0 {
		return filepath.Clean(p), nil
	}

	head, err := sys.Realpath(p[:end])
	if err != nil {
		return "", wrapError("weakly_canonical", p, err)
	}
	if end == len(p) {
		return head, nil
	}
	return filepath.Clean(head + "/" + p[end:]), nil
}

// Relative returns p expressed relative to base. An empty base means the
// current working directory. Both paths are made absolute and weakly
// canonicalized before being compared, so symbolic links in the existing part
// of either path are taken into account.
func Relative(p, base string) (string, error) {
	from, to, err := relativePair("relative", p, base)
	if err != nil {
		return "", err
	}
	r, err := filepath.Rel(from, to)
	if err != nil {
		return "", newOpError(ErrCodeInvalidArgument, "relative", p, err)
	}
	return r, nil
}

// Proximate is like Relative but returns the weakly canonical form of p when
// it cannot be expressed relative to base.
func Proximate(p, base string) (string, error) {
	from, to, err := relativePair("proximate", p, base)
	if err != nil {
		return "", err
	}
	if r, err := filepath.Rel(from, to); err == nil {
		return r, nil
	}
	return to, nil
}

// relativePair returns the weakly canonical absolute forms of base and p.
func relativePair(op, p, base string) (string, string, error) {
	if p == "" {
		return "", "", newOpError(ErrCodeInvalidArgument, op, p, unix.EINVAL)
	}
	if base == "" {
		wd, err := sys.Getwd()
		if err != nil {
			return "", "", wrapError(op, p, err)
		}
		base = wd
	}
	var out [2]string
	for i, v := range [2]string{base, p} {
		abs, err := Absolute(v)
		if err != nil {
			return "", "", err
		}
		if out[i], err = WeaklyCanonical(abs); err != nil {
			return "", "", err
		}
	}
	return out[0], out[1], nil
}
