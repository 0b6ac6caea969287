// Package config loads sym.conf files.
//
// Configuration files are looked up in a directory and all of its
// parents. Files closer to the directory take precedence; keys that a
// file doesn't set are inherited from its parents and, ultimately, from
// the defaults.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"honnef.co/go/sym"
)

type config struct {
	cfg  Config
	meta toml.MetaData
}

func (cfg config) Merge(ocfg config) config {
	if ocfg.meta.IsDefined("tolerance", "abs") {
		cfg.cfg.Tolerance.Abs = ocfg.cfg.Tolerance.Abs
	}
	if ocfg.meta.IsDefined("tolerance", "rel") {
		cfg.cfg.Tolerance.Rel = ocfg.cfg.Tolerance.Rel
	}
	if ocfg.meta.IsDefined("check", "verify") {
		cfg.cfg.Check.Verify = ocfg.cfg.Check.Verify
	}
	if ocfg.meta.IsDefined("output", "format") {
		cfg.cfg.Output.Format = ocfg.cfg.Output.Format
	}
	return cfg
}

type Config struct {
	Tolerance ToleranceConfig `toml:"tolerance"`
	Check     CheckConfig     `toml:"check"`
	Output    OutputConfig    `toml:"output"`
}

// ToleranceConfig controls when two floats are close enough for a
// reduction to treat them as equal.
type ToleranceConfig struct {
	Abs float64 `toml:"abs"`
	Rel float64 `toml:"rel"`
}

type CheckConfig struct {
	// Verify re-checks the bounds of every arithmetic result.
	Verify bool `toml:"verify"`
}

type OutputConfig struct {
	// Format is either "text" or "json".
	Format string `toml:"format"`
}

func (c ToleranceConfig) Tolerance() sym.Tolerance {
	return sym.Tolerance{Abs: c.Abs, Rel: c.Rel}
}

var defaultConfig = Config{
	Tolerance: ToleranceConfig{
		Abs: sym.DefaultTolerance.Abs,
		Rel: sym.DefaultTolerance.Rel,
	},
	Output: OutputConfig{Format: "text"},
}

// Default returns the configuration used when no file sets anything.
func Default() Config { return defaultConfig }

const configName = "sym.conf"

func parseConfigs(dir string) ([]config, error) {
	var out []config

	for dir != "" {
		path := filepath.Join(dir, configName)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			ndir := filepath.Dir(dir)
			if ndir == dir {
				break
			}
			dir = ndir
			continue
		}
		if err != nil {
			return nil, err
		}
		var cfg Config
		meta, err := toml.DecodeReader(f, &cfg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, config{cfg, meta})
		ndir := filepath.Dir(dir)
		if ndir == dir {
			break
		}
		dir = ndir
	}
	out = append(out, config{
		cfg:  defaultConfig,
		meta: toml.MetaData{}, // meta of the base config should never be accessed
	})
	for i := 0; i < len(out)/2; i++ {
		out[i], out[len(out)-1-i] = out[len(out)-1-i], out[i]
	}
	return out, nil
}

func mergeConfigs(confs []config) Config {
	if len(confs) == 0 {
		panic("trying to merge zero configs")
	}
	conf := confs[0]
	for _, oconf := range confs[1:] {
		conf = conf.Merge(oconf)
	}
	return conf.cfg
}

func (c Config) validate() error {
	t := c.Tolerance
	if !(t.Abs >= 0 && t.Rel >= 0) || math.IsInf(t.Abs, 0) || math.IsInf(t.Rel, 0) {
		return fmt.Errorf("tolerance must be finite and not negative, got abs = %v, rel = %v", t.Abs, t.Rel)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}

// Load merges the configuration files found in dir and its parents.
func Load(dir string) (Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, err
	}
	confs, err := parseConfigs(dir)
	if err != nil {
		return Config{}, err
	}
	conf := mergeConfigs(confs)
	if err := conf.validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}
