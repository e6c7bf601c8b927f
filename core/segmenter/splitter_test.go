package segmenter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIndex(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"segment_00000.wav", 0, true},
		{"segment_00042.wav", 42, true},
		{"/tmp/run/segment_00007.wav", 7, true},
		{"segment_abc.wav", 0, false},
		{"cover.jpg", 0, false},
		{"other_00001.wav", 0, false},
	}
	for _, c := range cases {
		got, ok := parseIndex(c.name)
		if ok != c.ok || got != c.want {
			t.Fatalf("parseIndex(%q) = (%d, %v), want (%d, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestSplitArgsOptionOrder(t *testing.T) {
	s := NewSplitter("ffmpeg", 12000)
	args := s.splitArgs("/tmp/set.mp3", "/tmp/out/segment_%05d.wav")

	indexOf := func(want string) int {
		for i, a := range args {
			if a == want {
				return i
			}
		}
		t.Fatalf("argument %q missing from %v", want, args)
		return -1
	}
	// Options after the output pattern are silently ignored by ffmpeg.
	if indexOf("-loglevel") > indexOf("-i") {
		t.Fatalf("-loglevel must precede -i: %v", args)
	}
	if args[len(args)-1] != "/tmp/out/segment_%05d.wav" {
		t.Fatalf("output pattern must be the final argument: %v", args)
	}
	if args[indexOf("-segment_time")+1] != "12" {
		t.Fatalf("unexpected segment length: %v", args)
	}
}

func TestSegmentBounds(t *testing.T) {
	s := NewSplitter("ffmpeg", 12000)

	seg := s.segment("/tmp/out", 3, 600000)
	if seg.Index != 3 || seg.StartMS != 36000 || seg.EndMS != 48000 {
		t.Fatalf("unexpected bounds: %+v", seg)
	}
	if filepath.Base(seg.Path) != "segment_00003.wav" {
		t.Fatalf("unexpected path: %s", seg.Path)
	}

	// The final segment is clamped to the file duration.
	seg = s.segment("/tmp/out", 4, 50000)
	if seg.StartMS != 48000 || seg.EndMS != 50000 {
		t.Fatalf("last segment not clamped: %+v", seg)
	}
}

func TestLastIndexOnDisk(t *testing.T) {
	dir := t.TempDir()
	if got, err := lastIndexOnDisk(dir); err != nil || got != -1 {
		t.Fatalf("empty dir: got (%d, %v), want (-1, nil)", got, err)
	}

	for _, name := range []string{"segment_00000.wav", "segment_00002.wav", "segment_00001.wav", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	got, err := lastIndexOnDisk(dir)
	if err != nil || got != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", got, err)
	}
}
