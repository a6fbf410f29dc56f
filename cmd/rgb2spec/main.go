// Command rgb2spec converts sRGB images into spectral reflectance cubes.
//
// Usage:
//
//	rgb2spec convert [flags] <image> <model> <output>
//	rgb2spec info <model>
//	rgb2spec eval [-srgb] [-bands spec] <model> <r> <g> <b>
//	rgb2spec check [-steps n] <model>
//	rgb2spec plot [-srgb] [-o file] <model> <r> <g> <b> [<r> <g> <b> ...]
//
// "rgb2spec <image> <model> <output>" is shorthand for convert. The output
// cube holds little-endian float32 samples (float16 with -half), row-major,
// bands innermost, without a header.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/rgb2spec"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// command is a subcommand; it parses its own flags from args.
type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

var commands = []command{
	{"convert", "convert an image into a spectral cube", runConvert},
	{"info", "describe a model file", runInfo},
	{"eval", "print the reflectance of one RGB color", runEval},
	{"check", "measure round-trip error of a model", runCheck},
	{"plot", "plot reflectance curves to PNG, SVG or PDF", runPlot},
}

// env carries the process streams into commands.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// errUsage marks command line mistakes.
var errUsage = errors.New("usage")

// run executes the command line and returns the exit code. Any failure is
// reported as a single line on stderr.
func run(args []string, stdout, stderr io.Writer) int {
	e := &env{stdout: stdout, stderr: stderr}
	if len(args) == 0 {
		usage(stderr)
		return 1
	}
	if args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		usage(stdout)
		return 0
	}

	cmd, rest := lookup(args)
	err := cmd.run(e, rest)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	}
	fmt.Fprintf(stderr, "rgb2spec %s: %v\n", cmd.name, err)
	return 1
}

// lookup finds the subcommand named by args[0]. Anything else is treated
// as the arguments of convert.
func lookup(args []string) (command, []string) {
	for _, c := range commands {
		if c.name == args[0] {
			return c, args[1:]
		}
	}
	return commands[0], args
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: rgb2spec <command> [flags] [arguments]")
	fmt.Fprintln(w, "       rgb2spec <image> <model> <output>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}

// newFlagSet returns a flag set that reports errors through the return
// value only, plus the logging flags shared by every command.
func (e *env) newFlagSet(name, args string) (*flag.FlagSet, *logFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		fmt.Fprintf(e.stdout, "usage: rgb2spec %s [flags] %s\n\nflags:\n", name, args)
		fs.SetOutput(e.stdout)
		fs.PrintDefaults()
		fs.SetOutput(io.Discard)
	}
	lf := &logFlags{}
	fs.BoolVar(&lf.verbose, "v", false, "log progress")
	fs.BoolVar(&lf.debug, "debug", false, "log debugging details")
	return fs, lf
}

type logFlags struct {
	verbose bool
	debug   bool
}

// parse parses args, installs the logger and checks the positional count.
func (e *env) parse(fs *flag.FlagSet, lf *logFlags, args []string, minArgs, maxArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	level := slog.LevelWarn
	switch {
	case lf.debug:
		level = slog.LevelDebug
	case lf.verbose:
		level = slog.LevelInfo
	}
	e.logger = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	rgb2spec.SetLogger(e.logger)

	pos := fs.Args()
	if len(pos) < minArgs || (maxArgs >= 0 && len(pos) > maxArgs) {
		return nil, fmt.Errorf("%w: got %d arguments (see -h)", errUsage, len(pos))
	}
	return pos, nil
}
