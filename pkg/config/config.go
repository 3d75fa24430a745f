// Package config reads the blockdiag rc file.
//
// The rc file is an ini file with a [blockdiag] section:
//
//	[blockdiag]
//	fontpath = /usr/share/fonts/truetype/ipafont/ipagp.ttf
//
// Files ending in .toml are read as TOML with the same layout.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-ini/ini"

	"github.com/matzehuels/actdiag/pkg/errors"
)

// DefaultName is the rc file looked up in the home directory.
const DefaultName = ".blockdiagrc"

const (
	section     = "blockdiag"
	keyFontPath = "fontpath"
)

// Config is the content of an rc file.
type Config struct {
	// FontPath is an extra font appended after the --font paths.
	FontPath string
}

// DefaultPath returns <home>/.blockdiagrc, or "" when home is unknown.
func DefaultPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, DefaultName)
}

// Load reads the rc file at path. A file without a [blockdiag] section is
// valid and yields an empty Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return parseTOML(path, data)
	}
	return parseINI(path, data)
}

func parseINI(path string, data []byte) (Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	sec, err := f.GetSection(section)
	if err != nil {
		return Config{}, nil
	}
	return Config{FontPath: strings.TrimSpace(sec.Key(keyFontPath).String())}, nil
}

type tomlFile struct {
	Blockdiag struct {
		FontPath string `toml:"fontpath"`
	} `toml:"blockdiag"`
}

func parseTOML(path string, data []byte) (Config, error) {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return Config{FontPath: strings.TrimSpace(f.Blockdiag.FontPath)}, nil
}
