package filesystem

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/pterodactyl/fsx/internal/ufs"
)

// tempDirEnv lists the environment variables checked by TempDirectoryPath, in
// order of preference.
var tempDirEnv = []string{"TMPDIR", "TMP", "TEMP", "TEMPDIR"}

// CurrentPath returns the absolute path of the current working directory.
func CurrentPath() (string, error) {
	wd, err := sys.Getwd()
	if err != nil {
		return "", wrapError("current_path", "", err)
	}
	return wd, nil
}

// TempDirectoryPath returns the directory for temporary files: the first of
// TMPDIR, TMP, TEMP or TEMPDIR that is set, or /tmp. The result must be an
// existing directory.
func TempDirectoryPath() (string, error) {
	p := "/tmp"
	for _, name := range tempDirEnv {
		if v := os.Getenv(name); v != "" {
			p = v
			break
		}
	}
	fi, err := sys.Stat(p)
	if err != nil {
		return "", wrapError("temp_directory_path", p, err)
	}
	if !fi.IsDir() {
		return "", wrapError("temp_directory_path", p, &ufs.PathError{Op: "stat", Path: p, Err: unix.ENOTDIR})
	}
	return p, nil
}
