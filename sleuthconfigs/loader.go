package sleuthconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/logs"
)

//go:embed schema.cue
var schema string

var filenames = []string{
	"sleuth.cue",
	".sleuth.cue",
}

// ConfigPaths lists existing config files, nearest first.
func ConfigPaths() (paths []string) {
	var dirs []string

	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}

	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}

	// system wide dir
	dirs = append(dirs, "/etc")

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := ConfigPaths()
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return NewLoader(paths)
}

// NewLoader validates files against the embedded schema.
func NewLoader(paths []string) configs.Loader {
	return configs.NewLoader(paths, schema)
}
