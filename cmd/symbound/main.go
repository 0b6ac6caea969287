// symbound prints the bounds of the expressions declared in problem
// files.
package main // import "honnef.co/go/sym/cmd/symbound"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"honnef.co/go/sym"
	"honnef.co/go/sym/config"
	"honnef.co/go/sym/problem"
	"honnef.co/go/sym/version"
)

type command struct {
	name string
	fs   *flag.FlagSet

	flags struct {
		formatter    string
		configDir    string
		jobs         int
		printVersion bool

		debugVersion bool
		debugTrace   bool
		debugVerify  bool
	}
}

func newCommand(name string) *command {
	cmd := &command{name: name}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.fs = fs
	fs.Usage = usage(name, fs)

	fs.StringVar(&cmd.flags.formatter, "f", "", "Output `format` (valid choices are 'text' and 'json'; defaults to the configured format)")
	fs.StringVar(&cmd.flags.configDir, "config", ".", "Load sym.conf files starting at `dir`")
	fs.IntVar(&cmd.flags.jobs, "j", runtime.GOMAXPROCS(0), "Evaluate up to `n` problem files concurrently")
	fs.BoolVar(&cmd.flags.printVersion, "version", false, "Print version and exit")

	fs.BoolVar(&cmd.flags.debugVersion, "debug.version", false, "Print detailed version information about this program")
	fs.BoolVar(&cmd.flags.debugTrace, "debug.trace", false, "Log every reduction to standard error")
	fs.BoolVar(&cmd.flags.debugVerify, "debug.verify", false, "Re-check the bounds of every arithmetic result")
	return cmd
}

func usage(name string, fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintf(w, "Usage: %s [flags] files...\n", name)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		printDefaults(fs)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Problem files are TOML (.toml) or YAML (.yaml, .yml) files declaring sizes and expressions.")
	}
}

// printDefaults is like flag.PrintDefaults but skips debug flags.
func printDefaults(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		if strings.HasPrefix(f.Name, "debug.") {
			return
		}
		var b strings.Builder
		fmt.Fprintf(&b, "  -%s", f.Name)
		name, usage := flag.UnquoteUsage(f)
		if len(name) > 0 {
			b.WriteString(" ")
			b.WriteString(name)
		}
		if b.Len() <= 4 {
			b.WriteString("\t")
		} else {
			b.WriteString("\n    \t")
		}
		b.WriteString(strings.ReplaceAll(usage, "\n", "\n    \t"))
		fmt.Fprint(fs.Output(), b.String(), "\n")
	})
}

// run evaluates the problem files named by the positional arguments and
// returns the exit status.
func (cmd *command) run(stdout io.Writer) int {
	if cmd.flags.printVersion {
		version.Fprint(stdout, cmd.name)
		return 0
	}
	if cmd.flags.debugVersion {
		version.FprintVerbose(stdout, cmd.name)
		return 0
	}

	files := cmd.fs.Args()
	if len(files) == 0 {
		cmd.fs.Usage()
		return 2
	}

	conf, err := config.Load(cmd.flags.configDir)
	if err != nil {
		log.Printf("couldn't load configuration: %s", err)
		return 1
	}
	if cmd.flags.formatter != "" {
		conf.Output.Format = cmd.flags.formatter
	}
	var f formatter
	switch conf.Output.Format {
	case "text":
		f = textFormatter{W: stdout, Prefix: len(files) > 1}
	case "json":
		f = jsonFormatter{W: stdout}
	default:
		log.Printf("unsupported output format %q", conf.Output.Format)
		return 2
	}

	defer sym.SetTolerance(sym.SetTolerance(conf.Tolerance.Tolerance()))
	defer sym.SetVerify(sym.SetVerify(conf.Check.Verify || cmd.flags.debugVerify))
	if cmd.flags.debugTrace {
		sym.SetDebugLogger(log.New(os.Stderr, "sym: ", 0))
		defer sym.SetDebugLogger(nil)
	}

	probs, errs := loadAll(files, cmd.flags.jobs)
	status := 0
	for i, prob := range probs {
		if errs[i] != nil {
			log.Print(errs[i])
			status = 1
			continue
		}
		if err := f.Format(shortPath(files[i]), prob.Reports()); err != nil {
			log.Printf("couldn't write results: %s", err)
			return 1
		}
	}
	return status
}

// loadAll loads up to jobs files concurrently.
func loadAll(files []string, jobs int) ([]*problem.Problem, []error) {
	probs := make([]*problem.Problem, len(files))
	errs := make([]error, len(files))
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			probs[i], errs[i] = problem.Load(file)
			return nil
		})
	}
	g.Wait()
	return probs, errs
}

func main() {
	log.SetFlags(0)
	cmd := newCommand("symbound")
	if err := cmd.fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	os.Exit(cmd.run(os.Stdout))
}
