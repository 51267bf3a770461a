// Package config provides usher's configuration directory and file.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Dir returns the usher configuration directory.
//
// Resolution:
//   - $USHER_CONFIG_HOME if set (explicit override)
//   - the platform config home plus "usher" ($XDG_CONFIG_HOME and
//     %AppData% are honored through the xdg library)
func Dir() string {
	if dir := os.Getenv("USHER_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, "usher")
}
