package cmd

import (
	"bytes"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/pterodactyl/fsx/filesystem"
)

const scenarioContent = "Hello, World!"

// runScenario writes a file in dir, checks that it can be seen and read back,
// removes it and checks that it is gone. Every step must succeed or fail in
// exactly the expected way.
func runScenario(dir string) (err error) {
	// Any failed step panics through filesystem.Must, turn that back into an
	// error for the caller.
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			panic(r)
		}
	}()

	p := filepath.Join(dir, "test.txt")
	if err := filesystem.WriteFile(p, scenarioContent); err != nil {
		return err
	}
	log.WithField("path", p).Debug("wrote scenario file")

	if !filesystem.Must(filesystem.Exists(p)) {
		return errors.Errorf("scenario: %s does not exist after writing it", p)
	}
	if !filesystem.Must(filesystem.IsRegularFile(p)) {
		return errors.Errorf("scenario: %s is not a regular file", p)
	}
	if filesystem.Must(filesystem.IsDirectory(p)) {
		return errors.Errorf("scenario: %s is a directory", p)
	}
	b := filesystem.Must(filesystem.ReadFile[[]byte](p))
	if !bytes.Equal(b, []byte(scenarioContent)) {
		return errors.Errorf("scenario: read %q from %s, expected %q", b, p, scenarioContent)
	}

	if err := filesystem.Remove(p); err != nil {
		return err
	}

	if filesystem.Must(filesystem.Exists(p)) {
		return errors.Errorf("scenario: %s still exists after removing it", p)
	}
	if _, err := filesystem.IsRegularFile(p); !filesystem.IsErrorCode(err, filesystem.ErrCodeNotFound) {
		return errors.Errorf("scenario: expected a not found error checking %s, got %v", p, err)
	}
	if _, err := filesystem.IsDirectory(p); !filesystem.IsErrorCode(err, filesystem.ErrCodeNotFound) {
		return errors.Errorf("scenario: expected a not found error checking %s, got %v", p, err)
	}
	return nil
}
