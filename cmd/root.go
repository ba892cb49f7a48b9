package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/NYTimes/logrotate"
	"github.com/apex/log"
	"github.com/apex/log/handlers/multi"
	"github.com/google/uuid"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/pterodactyl/fsx/config"
	"github.com/pterodactyl/fsx/filesystem"
	"github.com/pterodactyl/fsx/loggers/cli"
)

var (
	configPath = config.DefaultLocation
	debug      = false
	scratchDir = ""
	logFile    = ""
)

var root = &cobra.Command{
	Use:   "fsx",
	Short: "Runs the filesystem self-check against the host filesystem",
	Long: `Runs the filesystem self-check in a scratch directory: a file is written,
inspected, read back and removed, and every step must produce the expected
result. Any unexpected error aborts the run with a non-zero exit code.`,
	Args: cobra.NoArgs,
	Run:  rootCmdRun,
}

func init() {
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultLocation, "set the location for the configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "pass in order to log every failed filesystem call")
	root.PersistentFlags().StringVar(&scratchDir, "dir", "", "the directory to create the scratch directory in, defaults to the temporary directory")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write log output to this file")
}

func Execute() error {
	return root.Execute()
}

func rootCmdRun(*cobra.Command, []string) {
	printBanner()

	if err := readConfiguration(); err != nil {
		log.WithField("error", err).Fatal("failed to load configuration")
		return
	}
	if debug {
		config.Update(func(c *config.Configuration) {
			c.Debug = true
		})
	}
	if err := configureLogging(logFile, config.Get().Debug); err != nil {
		log.WithField("error", err).Fatal("failed to configure logging")
		return
	}
	if p := config.Get().Path(); p != "" {
		log.WithField("path", p).Info("loaded configuration from path")
	}

	parent := scratchDir
	if parent == "" {
		parent = filesystem.Must(filesystem.TempDirectoryPath())
	}
	dir := filepath.Join(parent, "fsx-"+uuid.NewString())
	if _, err := filesystem.CreateDirectories(dir); err != nil {
		log.WithField("error", err).Fatal("failed to create scratch directory")
		return
	}
	log.WithField("path", dir).Info("created scratch directory")
	log.WithField("space", filesystem.Must(filesystem.Space(dir)).String()).Info("checked scratch volume")

	err := runScenario(dir)
	n, rerr := filesystem.RemoveAll(dir)
	if err != nil {
		log.WithField("error", err).Fatal("self-check failed")
		return
	}
	if rerr != nil {
		log.WithField("error", rerr).Fatal("failed to remove scratch directory")
		return
	}
	log.WithField("entries", n).Debug("removed scratch directory")

	fmt.Println("PASS")
}

// readConfiguration loads the configuration file if there is one. A missing
// file at the default location is not an error, the defaults are used.
func readConfiguration() error {
	p := configPath
	if !filepath.IsAbs(p) {
		abs, err := filesystem.Absolute(p)
		if err != nil {
			return err
		}
		p = filepath.Clean(abs)
	}

	ok, err := filesystem.Exists(p)
	if err != nil {
		return err
	}
	if !ok {
		if configPath == config.DefaultLocation {
			return nil
		}
		return errors.Errorf("cmd: configuration file %s does not exist", p)
	}
	if dir, err := filesystem.IsDirectory(p); err != nil {
		return err
	} else if dir {
		return errors.New("cannot use directory as configuration file path")
	}
	return config.FromFile(p)
}

// configureLogging sets the global logger to write to the console, and to
// logPath as well if one is given.
func configureLogging(logPath string, debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if logPath == "" {
		log.SetHandler(cli.Default)
		return nil
	}

	if _, err := filesystem.CreateDirectories(filepath.Dir(logPath)); err != nil {
		return err
	}
	w, err := logrotate.NewFile(logPath)
	if err != nil {
		return errors.WithMessage(err, "failed to open process log file")
	}
	log.SetHandler(multi.New(
		cli.Default,
		cli.New(w.File, false),
	))
	log.WithField("path", logPath).Info("writing log files to disk")
	return nil
}

func printBanner() {
	fmt.Fprint(os.Stderr, colorstring.Color("[bold][blue]fsx[reset] filesystem self-check\n\n"))
}
