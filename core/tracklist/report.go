package tracklist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"SetRadar/model"
)

// entry is one line of the merged report: either a track or a gap.
type entry struct {
	startMS int64
	track   *model.Track
	gap     *model.Gap
}

// Build assembles the final run outcome from the aggregated tracks, detected
// gaps and raw scheduler results.
func Build(tracks []model.Track, gaps []model.Gap, results []model.SegmentResult) model.Tracklist {
	matched := 0
	for _, r := range results {
		if r.Matched {
			matched++
		}
	}
	rate := 0.0
	if len(results) > 0 {
		rate = float64(matched) / float64(len(results)) * 100
	}
	return model.Tracklist{
		Tracks:        tracks,
		Gaps:          gaps,
		TotalSegments: len(results),
		MatchedCount:  matched,
		SuccessRate:   rate,
	}
}

// WriteText renders the merged, time-ordered listing followed by the run
// summary. Tracks and gaps are each sorted and mutually non-overlapping, so a
// single merge by start time is enough.
func WriteText(w io.Writer, tl model.Tracklist) {
	entries := make([]entry, 0, len(tl.Tracks)+len(tl.Gaps))
	for i := range tl.Tracks {
		entries = append(entries, entry{startMS: tl.Tracks[i].StartMS, track: &tl.Tracks[i]})
	}
	for i := range tl.Gaps {
		entries = append(entries, entry{startMS: tl.Gaps[i].StartMS, gap: &tl.Gaps[i]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].startMS < entries[j].startMS })

	fmt.Fprintln(w, "Final Tracklist:")
	for i, e := range entries {
		if e.gap != nil {
			fmt.Fprintf(w, "%d. ID - ID (%s) [duration: %s]\n",
				i+1, formatTimestamp(e.startMS), formatTimestamp(e.gap.DurationMS))
			continue
		}
		t := e.track
		fmt.Fprintf(w, "%d. %s - %s (%s) [segments: %s, confidence: %.2f, total matches: %d]\n",
			i+1, t.Artist, t.Title, formatTimestamp(t.StartMS),
			formatSegments(t.MemberSegments), t.Confidence, t.TotalMatches)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Analysis Summary:")
	fmt.Fprintf(w, "Total Segments: %d\n", tl.TotalSegments)
	fmt.Fprintf(w, "Detected Tracks: %d\n", len(tl.Tracks))
	fmt.Fprintf(w, "Success Rate: %.1f%%\n", tl.SuccessRate)
}

// WriteJSON persists the tracklist to path as the machine-readable equivalent
// of the text report.
func WriteJSON(path string, tl model.Tracklist) error {
	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracklist: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tracklist to %s: %w", path, err)
	}
	return nil
}

// formatTimestamp renders milliseconds as MM:SS, with an hour prefix once the
// offset passes one hour.
func formatTimestamp(ms int64) string {
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// formatSegments lists the first few member segment indices, one-based for
// display.
func formatSegments(indices []int) string {
	const limit = 5
	parts := make([]string, 0, limit)
	for i, idx := range indices {
		if i == limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%d", idx+1))
	}
	return strings.Join(parts, ", ")
}
