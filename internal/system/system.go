// Package system probes the host the render runs on: which ffmpeg
// encoders are available, how many workers the CPU and memory can
// carry, and file descriptor limits. Everything here is best-effort;
// a probe that fails falls back to a safe default instead of stopping
// the render.
package system

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file soft limit so many parallel
// ffmpeg segment processes do not run out of descriptors.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		slog.Warn("could not read file descriptor limit", "err", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		slog.Warn("could not raise file descriptor limit", "err", err)
		return
	}
	slog.Debug("raised file descriptor limit", "limit", rLimit.Cur)
}

// segmentWorkerMemory is the budget one render+encode worker is
// assumed to need: a few full RGBA frames plus an ffmpeg process.
const segmentWorkerMemory = 512 << 20

// Workers picks a worker-pool size for segment rendering from the
// host's CPU count and available memory. Returns at least 1.
func Workers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		slog.Warn("could not count CPUs, using one worker", "err", err)
		return 1
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		byMemory := int(vm.Available / segmentWorkerMemory)
		if byMemory < 1 {
			byMemory = 1
		}
		if byMemory < n {
			slog.Debug("memory limits worker count",
				"cpus", n,
				"available_mb", vm.Available>>20,
				"workers", byMemory,
			)
			n = byMemory
		}
	}

	return n
}

// GetBestH264Encoder probes ffmpeg for hardware H.264 encoders and
// returns the best one available, preferring VideoToolbox (macOS),
// then NVENC, then software libx264.
func GetBestH264Encoder(ffmpegPath string) string {
	out, err := exec.Command(ffmpegPath, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		slog.Warn("encoder probe failed, using libx264", "err", err)
		return "libx264"
	}

	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// CheckFilterSupport reports whether the ffmpeg build provides the
// named filter (xfade and drawtext vary across builds).
func CheckFilterSupport(ffmpegPath, filter string) bool {
	out, err := exec.Command(ffmpegPath, "-hide_banner", "-filters").CombinedOutput()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), " "+filter+" ")
}

// audioExtensions are the narration file types the scaffolder picks
// up from a voiceover directory.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".aac":  true,
	".flac": true,
}

// ListAudioFiles returns the audio files directly inside dir, sorted
// by name so scene order follows the authoring convention of
// numbered narration files (01_intro.mp3, 02_forces.mp3, ...).
func ListAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("system: read %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
