// Package version reports the version of the sym commands.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Version is set for releases. Development builds take their version
// from the module information embedded by the go command, if any.
var Version = "devel"

// String returns a version descriptor and reports whether the version
// is a known release.
func String() (string, bool) {
	if Version != "devel" {
		return Version, true
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, false
	}
	return "devel", false
}

// Fprint writes a single line naming the program and its version.
func Fprint(w io.Writer, prog string) {
	switch v, release := String(); {
	case release:
		fmt.Fprintf(w, "%s %s\n", prog, v)
	case v == "devel":
		fmt.Fprintf(w, "%s (no version)\n", prog)
	default:
		fmt.Fprintf(w, "%s (devel, %s)\n", prog, v)
	}
}

// FprintVerbose additionally lists the Go version and the modules the
// program was built from.
func FprintVerbose(w io.Writer, prog string) {
	Fprint(w, prog)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiled with Go version:", runtime.Version())
	info, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Fprintln(w, "Built without Go modules")
		return
	}
	fmt.Fprintln(w, "Main module:")
	fprintModule(w, &info.Main)
	fmt.Fprintln(w, "Dependencies:")
	for _, dep := range info.Deps {
		fprintModule(w, dep)
	}
}

func fprintModule(w io.Writer, m *debug.Module) {
	fmt.Fprintf(w, "\t%s", m.Path)
	if m.Version != "(devel)" {
		fmt.Fprintf(w, "@%s", m.Version)
	}
	if m.Sum != "" {
		fmt.Fprintf(w, " (sum: %s)", m.Sum)
	}
	if m.Replace != nil {
		fmt.Fprintf(w, " (replace: %s)", m.Replace.Path)
	}
	fmt.Fprintln(w)
}
