package config

import (
	"os"
	"sync"

	"emperror.dev/errors"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// DefaultLocation is the path the demo runner reads its configuration from
// when no other path is given.
const DefaultLocation = "/etc/fsx/config.yml"

var (
	mu      sync.RWMutex
	_config *Configuration
)

type Configuration struct {
	// The location from which this configuration instance was instantiated.
	path string

	// Determines if debug level logging should be emitted. This value is
	// ignored if the debug flag is passed through the command line arguments.
	Debug bool `yaml:"debug"`

	Filesystem FilesystemConfiguration `yaml:"filesystem"`
}

// FilesystemConfiguration controls how new entries are created by the
// filesystem package.
type FilesystemConfiguration struct {
	// The permission bits, before the umask is applied, used for directories
	// created by CreateDirectory and CreateDirectories. Defaults to 0777.
	DirectoryMode uint32 `default:"511" yaml:"directory_mode"`

	// The permission bits, before the umask is applied, used for files
	// created by WriteFile and AppendFile. Defaults to 0666.
	FileMode uint32 `default:"438" yaml:"file_mode"`

	// The size in bytes of the buffer used when copying file contents.
	CopyBufferSize int `default:"32768" yaml:"copy_buffer_size"`
}

// NewAtPath returns a new configuration instance with all of the default
// values set on the struct.
func NewAtPath(path string) (*Configuration, error) {
	var c Configuration
	if err := defaults.Set(&c); err != nil {
		return nil, errors.Wrap(err, "config: could not set defaults for configuration")
	}
	c.path = path
	return &c, nil
}

// Path returns the location the configuration was loaded from, if any.
func (c *Configuration) Path() string {
	return c.path
}

// validate checks the values that cannot be corrected by the defaults.
func (c *Configuration) validate() error {
	if c.Filesystem.DirectoryMode > 0o7777 {
		return errors.Errorf("config: filesystem.directory_mode %#o is not a valid mode", c.Filesystem.DirectoryMode)
	}
	if c.Filesystem.FileMode > 0o7777 {
		return errors.Errorf("config: filesystem.file_mode %#o is not a valid mode", c.Filesystem.FileMode)
	}
	if c.Filesystem.CopyBufferSize <= 0 {
		return errors.Errorf("config: filesystem.copy_buffer_size must be positive, got %d", c.Filesystem.CopyBufferSize)
	}
	return nil
}

// Set the global configuration instance. This is a blocking operation such
// that anything trying to set a different configuration value, or read the
// configuration will be paused until it is complete.
func Set(c *Configuration) {
	mu.Lock()
	_config = c
	mu.Unlock()
}

// Get returns the global configuration instance. If no configuration has been
// set a configuration holding the default values is returned. The returned
// value must not be modified, use Update for that.
func Get() *Configuration {
	mu.RLock()
	c := _config
	mu.RUnlock()
	if c != nil {
		return c
	}
	c, err := NewAtPath("")
	if err != nil {
		// defaults.Set only fails for a non-pointer argument.
		panic(err)
	}
	return c
}

// Update performs an in-situ update of the global configuration object using
// a thread-safe mutex lock. The callback receives a copy of the current
// configuration, which then replaces the global one.
func Update(callback func(c *Configuration)) {
	mu.Lock()
	defer mu.Unlock()
	var c Configuration
	if _config != nil {
		c = *_config
	} else {
		d, err := NewAtPath("")
		if err != nil {
			panic(err)
		}
		c = *d
	}
	callback(&c)
	_config = &c
}

// FromFile reads the configuration from the provided file and stores it in
// the global singleton for this instance. Environment variables within the
// file are replaced with their values from the host system before it is
// parsed.
func FromFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "config: could not read configuration file")
	}
	c, err := NewAtPath(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), c); err != nil {
		return errors.Wrap(err, "config: could not parse configuration file")
	}
	if err := c.validate(); err != nil {
		return err
	}
	Set(c)
	return nil
}
