package tracklist

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SetRadar/model"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00"},
		{59000, "00:59"},
		{60000, "01:00"},
		{754000, "12:34"},
		{3599000, "59:59"},
		{3600000, "01:00:00"},
		{5025000, "01:23:45"},
	}
	for _, c := range cases {
		if got := formatTimestamp(c.ms); got != c.want {
			t.Fatalf("formatTimestamp(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestWriteTextMergesByStartTime(t *testing.T) {
	tl := model.Tracklist{
		Tracks: []model.Track{
			{TrackID: "a", Title: "Alpha", Artist: "One", StartMS: 0, Confidence: 0.9, TotalMatches: 4, MemberSegments: []int{0, 1, 2, 3}},
			{TrackID: "b", Title: "Beta", Artist: "Two", StartMS: 300000, Confidence: 0.8, TotalMatches: 3, MemberSegments: []int{25, 26, 27}},
		},
		Gaps: []model.Gap{
			{StartMS: 120000, EndMS: 240000, DurationMS: 120000},
		},
		TotalSegments: 40,
		MatchedCount:  7,
		SuccessRate:   17.5,
	}

	var buf bytes.Buffer
	WriteText(&buf, tl)
	out := buf.String()

	iAlpha := strings.Index(out, "One - Alpha")
	iGap := strings.Index(out, "ID - ID")
	iBeta := strings.Index(out, "Two - Beta")
	if iAlpha < 0 || iGap < 0 || iBeta < 0 {
		t.Fatalf("missing entries in report:\n%s", out)
	}
	if !(iAlpha < iGap && iGap < iBeta) {
		t.Fatalf("entries not in start-time order:\n%s", out)
	}

	if !strings.Contains(out, "1. One - Alpha (00:00)") {
		t.Fatalf("unexpected track line formatting:\n%s", out)
	}
	if !strings.Contains(out, "2. ID - ID (02:00) [duration: 02:00]") {
		t.Fatalf("unexpected gap line formatting:\n%s", out)
	}
	if !strings.Contains(out, "[segments: 1, 2, 3, 4, confidence: 0.90, total matches: 4]") {
		t.Fatalf("unexpected match detail formatting:\n%s", out)
	}
	if !strings.Contains(out, "Total Segments: 40") || !strings.Contains(out, "Success Rate: 17.5%") {
		t.Fatalf("missing summary:\n%s", out)
	}
}

func TestBuildSuccessRate(t *testing.T) {
	results := make([]model.SegmentResult, 10)
	for i := range results {
		results[i] = model.SegmentResult{SegmentIndex: i, Matched: i < 7}
	}
	tl := Build(nil, nil, results)
	if tl.TotalSegments != 10 || tl.MatchedCount != 7 {
		t.Fatalf("unexpected counts: %+v", tl)
	}
	if tl.SuccessRate != 70 {
		t.Fatalf("SuccessRate = %v, want 70", tl.SuccessRate)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracklist.json")
	tl := model.Tracklist{
		Tracks: []model.Track{
			{TrackID: "a", Title: "Alpha", Artist: "One", FirstSegment: 0, LastSegment: 3,
				EndMS: 48000, Confidence: 0.9, TotalMatches: 4, MemberSegments: []int{0, 1, 2, 3}},
		},
		Gaps:          []model.Gap{{StartMS: 48000, EndMS: 120000, DurationMS: 72000}},
		TotalSegments: 10,
		MatchedCount:  4,
		SuccessRate:   40,
	}

	if err := WriteJSON(path, tl); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var loaded model.Tracklist
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(loaded.Tracks) != 1 || loaded.Tracks[0].TrackID != "a" {
		t.Fatalf("track records not preserved: %+v", loaded)
	}
	if len(loaded.Gaps) != 1 || loaded.Gaps[0].DurationMS != 72000 {
		t.Fatalf("gap records not preserved: %+v", loaded)
	}
}
