package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"honnef.co/go/sym"
)

func writeConfig(t *testing.T, dir, data string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configName), []byte(data), 0o666); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if conf != Default() {
		t.Errorf("got %+v, want %+v", conf, Default())
	}
	if conf.Tolerance.Tolerance() != sym.DefaultTolerance {
		t.Errorf("default tolerance is %+v", conf.Tolerance.Tolerance())
	}
}

func TestLoadMerge(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[tolerance]
abs = 0.5

[output]
format = "json"
`)
	sub := filepath.Join(root, "sub")
	writeConfig(t, sub, `
[tolerance]
rel = 0.1

[check]
verify = true
`)
	deeper := filepath.Join(sub, "deeper")
	if err := os.MkdirAll(deeper, 0o777); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		dir  string
		want Config
	}{
		{root, Config{
			Tolerance: ToleranceConfig{Abs: 0.5, Rel: sym.DefaultTolerance.Rel},
			Output:    OutputConfig{Format: "json"},
		}},
		{deeper, Config{
			Tolerance: ToleranceConfig{Abs: 0.5, Rel: 0.1},
			Check:     CheckConfig{Verify: true},
			Output:    OutputConfig{Format: "json"},
		}},
	}
	for _, tt := range tests {
		got, err := Load(tt.dir)
		if err != nil {
			t.Errorf("Load(%s): %s", tt.dir, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Load(%s) = %+v, want %+v", tt.dir, got, tt.want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"[output]\nformat = \"xml\"\n", `unknown output format "xml"`},
		{"[tolerance]\nabs = -1.0\n", "must be finite and not negative"},
		{"[tolerance\n", configName},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		writeConfig(t, dir, tt.data)
		_, err := Load(dir)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Load with %q = %v, want an error containing %q", tt.data, err, tt.want)
		}
	}
}

func TestLoadRelative(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[output]\nformat = \"json\"\n")
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o777); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(sub); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	for _, dir := range []string{".", "", "../sub"} {
		conf, err := Load(dir)
		if err != nil {
			t.Errorf("Load(%q): %s", dir, err)
			continue
		}
		if conf.Output.Format != "json" {
			t.Errorf("Load(%q) didn't read the parent's %s: format is %q", dir, configName, conf.Output.Format)
		}
	}
}

func TestValidateTolerance(t *testing.T) {
	for _, tol := range []ToleranceConfig{
		{Abs: math.NaN(), Rel: 0},
		{Abs: 0, Rel: math.NaN()},
		{Abs: math.Inf(1), Rel: 0},
		{Abs: 0, Rel: -1e-5},
	} {
		conf := Default()
		conf.Tolerance = tol
		if err := conf.validate(); err == nil {
			t.Errorf("tolerance %+v is valid", tol)
		}
	}
	if err := Default().validate(); err != nil {
		t.Errorf("default configuration is invalid: %s", err)
	}
}
