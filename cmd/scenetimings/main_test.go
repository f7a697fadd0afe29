package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/story2video/internal/cli"
)

const fixtureSource = `package scene

import (
	"math"

	"github.com/ivlev/story2video/internal/anim"
)

const fadeInEnd = 30

func (c *Demo) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	opacity := anim.Interpolate(frame, []float64{0, fadeInEnd}, []float64{0, 1})
	counter := math.Round(anim.Interpolate(frame, []float64{fadeInEnd, 90}, []float64{0, 250}))
	return LayerProps{Opacity: opacity, Counter: &counter}
}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.go")
	if err := os.WriteFile(path, []byte(fixtureSource), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *cli.ExitError, got %v", err)
	}
	return exitErr.Code
}

func TestRunEmitsReport(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, []string{writeFixture(t), "120"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var report struct {
		DurationInFrames int                `json:"duration_in_frames"`
		FPS              float64            `json:"fps"`
		Animations       []json.RawMessage  `json:"animations"`
		Phases           map[string]float64 `json:"phases"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if report.DurationInFrames != 120 || report.FPS != 30 {
		t.Errorf("header = %d frames @ %v fps, want 120 @ 30", report.DurationInFrames, report.FPS)
	}
	if len(report.Animations) != 2 {
		t.Errorf("got %d animations, want 2", len(report.Animations))
	}
	if got := report.Phases["fadeInEnd"]; got != 30 {
		t.Errorf("phases[fadeInEnd] = %v, want 30", got)
	}
}

func TestRunFPSFlag(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, []string{"-fps", "60", writeFixture(t), "120"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `"fps": 60`) {
		t.Errorf("report does not carry the fps flag:\n%s", out.String())
	}
}

func TestRunArgumentErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"missing duration", []string{"scene.go"}},
		{"non-numeric duration", []string{"scene.go", "ninety"}},
		{"unknown flag", []string{"-frames", "90", "scene.go", "90"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(io.Discard, tc.args)
			if code := exitCodeOf(t, err); code != cli.CodeMisuse {
				t.Errorf("exit code = %d, want %d", code, cli.CodeMisuse)
			}
		})
	}
}

func TestRunMissingSourceIsFatal(t *testing.T) {
	err := run(io.Discard, []string{filepath.Join(t.TempDir(), "absent.go"), "90"})
	if code := exitCodeOf(t, err); code != cli.CodeFatal {
		t.Errorf("exit code = %d, want %d", code, cli.CodeFatal)
	}
}

func TestRunZeroDurationIsFatal(t *testing.T) {
	err := run(io.Discard, []string{writeFixture(t), "0"})
	if code := exitCodeOf(t, err); code != cli.CodeFatal {
		t.Errorf("exit code = %d, want %d", code, cli.CodeFatal)
	}
}
