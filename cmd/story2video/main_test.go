package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/story2video/internal/cli"
)

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *cli.ExitError, got %v", err)
	}
	return exitErr.Code
}

func TestRunMisuse(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"no storyboard", []string{"-output", "out.mp4"}},
		{"unknown flag", []string{"-storyboard", "sb.json", "-loop", "3"}},
		{"bad composition", []string{"-storyboard", "sb.json", "-composition", "montage"}},
		{"negative fade", []string{"-storyboard", "sb.json", "-fade", "-1"}},
		{"quality out of range", []string{"-storyboard", "sb.json", "-quality", "400"}},
		{"bad log level", []string{"-storyboard", "sb.json", "-log-level", "loud"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(context.Background(), io.Discard, tc.args)
			if code := exitCodeOf(t, err); code != cli.CodeMisuse {
				t.Errorf("exit code = %d, want %d", code, cli.CodeMisuse)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, []string{"-h"}); err != nil {
		t.Fatalf("help should not be an error, got %v", err)
	}
	if !strings.Contains(out.String(), "storyboard") {
		t.Errorf("help output missing flag docs:\n%s", out.String())
	}
}

func TestRunMissingStoryboardIsFatal(t *testing.T) {
	absent := filepath.Join(t.TempDir(), "absent.json")
	err := run(context.Background(), io.Discard, []string{"-storyboard", absent, "-output", "out.mp4"})
	if code := exitCodeOf(t, err); code != cli.CodeFatal {
		t.Errorf("exit code = %d, want %d", code, cli.CodeFatal)
	}
}

func TestRunEnvOverridesFlags(t *testing.T) {
	t.Setenv("S2V_QUALITY", "999")
	absent := filepath.Join(t.TempDir(), "absent.json")
	err := run(context.Background(), io.Discard, []string{"-storyboard", absent, "-quality", "23"})
	if code := exitCodeOf(t, err); code != cli.CodeMisuse {
		t.Errorf("exit code = %d, want %d (env quality should fail validation)", code, cli.CodeMisuse)
	}
}

func TestRunScaffoldEmptyDirIsFatal(t *testing.T) {
	err := run(context.Background(), io.Discard, []string{"-scaffold", t.TempDir(), "-output", "sb.json"})
	if code := exitCodeOf(t, err); code != cli.CodeFatal {
		t.Errorf("exit code = %d, want %d", code, cli.CodeFatal)
	}
}

func TestSceneID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"02_forces.mp3", "forces"},
		{"intro.wav", "intro"},
		{"10-market_size.mp3", "market_size"},
		{"closing_remarks.m4a", "closing_remarks"},
	}
	for _, tc := range cases {
		if got := sceneID(tc.in); got != tc.want {
			t.Errorf("sceneID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSceneTitle(t *testing.T) {
	if got := sceneTitle("market_size"); got != "Market size" {
		t.Errorf("sceneTitle = %q, want %q", got, "Market size")
	}
}
