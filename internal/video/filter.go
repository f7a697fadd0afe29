package video

import (
	"fmt"
	"strings"
)

// videoGraph appends the video half of the filter graph and returns
// the stream label to map. A transition chains segments with xfade at
// cumulative offsets; without one, segments butt together through the
// concat filter.
func videoGraph(graph *[]string, segments []Segment, opts ConcatOptions) string {
	if len(segments) == 1 {
		return "0:v"
	}

	useXfade := opts.TransitionType != "" && opts.TransitionType != "none" && opts.FadeDuration > 0
	if !useXfade {
		var inputs strings.Builder
		for i := range segments {
			fmt.Fprintf(&inputs, "[%d:v]", i)
		}
		*graph = append(*graph, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vcat]", inputs.String(), len(segments)))
		return "[vcat]"
	}

	// Each transition overlaps the tail of the running video with the
	// head of the next segment, so every offset is the sum of the
	// previous durations minus the fades already spent.
	lastOut := "[0:v]"
	offset := 0.0
	for i := 1; i < len(segments); i++ {
		offset += segments[i-1].Duration - opts.FadeDuration
		out := fmt.Sprintf("[v%d]", i)
		*graph = append(*graph, fmt.Sprintf("%s[%d:v]xfade=transition=%s:duration=%s:offset=%s%s",
			lastOut, i, opts.TransitionType,
			formatSeconds(opts.FadeDuration), formatSeconds(offset), out))
		lastOut = out
	}
	return lastOut
}

// audioGraph appends the audio mix to the filter graph: every
// narration clip and effect cue delayed to its place on the timeline,
// mixed together, with the music bed faded in and out underneath.
// It returns the extra -i arguments for the audio inputs and the
// stream label to map, "" when there is no audio at all.
func audioGraph(graph *[]string, inputIndex int, mix AudioMix) ([]string, string) {
	var args []string

	clips := make([]TimedClip, 0, len(mix.Voiceovers)+len(mix.SfxCues))
	clips = append(clips, mix.Voiceovers...)
	clips = append(clips, mix.SfxCues...)

	labels := make([]string, 0, len(clips))
	for i, clip := range clips {
		args = append(args, "-i", clip.Path)

		gain := 1.0
		if clip.Gain != nil {
			gain = *clip.Gain
		}
		delayMs := int(clip.StartSeconds * 1000)
		label := fmt.Sprintf("[c%d]", i)
		*graph = append(*graph, fmt.Sprintf("[%d:a]adelay=%d|%d,volume=%.3f%s",
			inputIndex+i, delayMs, delayMs, gain, label))
		labels = append(labels, label)
	}

	voiceOut := ""
	switch len(labels) {
	case 0:
	case 1:
		voiceOut = labels[0]
	default:
		*graph = append(*graph, fmt.Sprintf("%samix=inputs=%d:duration=longest:dropout_transition=0:normalize=0[voice]",
			strings.Join(labels, ""), len(labels)))
		voiceOut = "[voice]"
	}

	if mix.Music == nil {
		return args, voiceOut
	}

	musicIndex := inputIndex + len(clips)
	args = append(args, "-stream_loop", "-1", "-i", mix.Music.Path)
	*graph = append(*graph, fmt.Sprintf("[%d:a]%s[bg]", musicIndex, musicVolumeExpr(mix.Music.Volume, mix.TotalDuration)))

	if voiceOut == "" {
		return args, "[bg]"
	}

	*graph = append(*graph, fmt.Sprintf("%s[bg]amix=inputs=2:duration=first:dropout_transition=3[aout]", voiceOut))
	return args, "[aout]"
}

// musicVolumeExpr shapes the music bed: quick rise at the start, full
// fade to silence over the final seconds, scaled by the configured
// volume throughout.
func musicVolumeExpr(volume, totalDuration float64) string {
	fadeIn, fadeOut := 5.0, 5.0
	if totalDuration < fadeIn+fadeOut {
		fadeIn = totalDuration * 0.1
		fadeOut = totalDuration * 0.1
	}

	return fmt.Sprintf("volume='%f*(if(lte(t,%f), 0.1 + 0.9*(t/%f), if(gte(t,%f), (%f-t)/%f, 1.0)))':eval=frame",
		volume, fadeIn, fadeIn, totalDuration-fadeOut, totalDuration, fadeOut)
}
