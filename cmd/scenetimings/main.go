// Command scenetimings statically extracts the animation schedule of a
// scene component source file and prints it as JSON. Authoring tools
// use the report to line up narration beats against the animations the
// component will actually run, without rendering a single frame.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ivlev/story2video/internal/cli"
	"github.com/ivlev/story2video/internal/timing"
)

func main() {
	err := run(os.Stdout, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "scenetimings:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func run(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("scenetimings", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, `scenetimings extracts animation timings from a scene source file.

Usage:
  scenetimings [-fps 30] <scene-source.go> <duration-in-frames>

The report lists every animation call with resolved frame ranges, plus
the named phase constants the file declares. Values the analysis
cannot resolve statically are reported as null, never guessed.

Options:
`)
		fs.PrintDefaults()
	}

	fps := fs.Float64("fps", 30, "Frame rate the frame ranges are interpreted at.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return cli.Errorf(cli.CodeMisuse, "%v", err)
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return cli.Errorf(cli.CodeMisuse, "expected <scene-source.go> <duration-in-frames>, got %d arguments", fs.NArg())
	}

	sourcePath := fs.Arg(0)
	durationInFrames, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return cli.Errorf(cli.CodeMisuse, "duration %q is not an integer frame count", fs.Arg(1))
	}

	report, err := timing.Analyze(sourcePath, durationInFrames, *fps)
	if err != nil {
		return cli.Errorf(cli.CodeFatal, "%v", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return cli.Errorf(cli.CodeFatal, "encode report: %v", err)
	}
	return nil
}
