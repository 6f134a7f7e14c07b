// Package main is the entry point for the pixelstorm command.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/pixelstorm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		printError("failed to initialize: %v", err)
		return 1
	}

	if err := application.Run(); err != nil {
		printError("%v", err)
		return 1
	}
	return 0
}

// printError writes an error line to stderr, colored when stderr is a terminal.
func printError(format string, args ...any) {
	label := color.New(color.FgRed, color.Bold).Sprint("Error:")
	fmt.Fprintf(color.Error, "%s %s\n", label, fmt.Sprintf(format, args...))
}

// layerList collects repeated or comma-separated layer indices.
type layerList []int

func (l *layerList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *layerList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid layer index %q", part)
		}
		*l = append(*l, v)
	}
	return nil
}

func parseFlags() app.Options {
	var opts app.Options
	var hide layerList
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.HistoryPath, "history", "", "History to open (.json, .yaml, .yml, or a .db store)")
	flag.StringVar(&opts.DocumentID, "doc", "", "Document id to open from a history store (default: latest)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script to append as one command")
	flag.IntVar(&opts.Undo, "undo", 0, "Number of undo steps")
	flag.IntVar(&opts.Redo, "redo", 0, "Number of redo steps, applied after undo")
	flag.Var(&hide, "hide", "Layer index to hide (repeatable or comma-separated, 0 is the top)")
	flag.StringVar(&opts.OutputPath, "out", "", "Write the flattened document as PNG")
	flag.StringVar(&opts.OutputPath, "o", "", "Write the flattened document as PNG (shorthand)")
	flag.StringVar(&opts.SavePath, "save", "", "Save the resulting history (.json, .yaml, .yml, or a .db store)")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&opts.Verbose, "v", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pixelstorm - replay, undo and render layered raster edit histories\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pixelstorm -history art.json -o art.png           Render a history\n")
		fmt.Fprintf(os.Stderr, "  pixelstorm -history art.json -undo 2 -o prev.png   Render two steps back\n")
		fmt.Fprintf(os.Stderr, "  pixelstorm -script grid.lua -save grid.yaml        Script a new document\n")
		fmt.Fprintf(os.Stderr, "  pixelstorm -history art.yaml -hide 0 -o base.png   Render without the top layer\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("pixelstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		printError("unexpected arguments: %s", strings.Join(flag.Args(), " "))
		os.Exit(2)
	}

	opts.Hide = hide
	return opts
}
