package segmenter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	"SetRadar/logger"
	"SetRadar/model"
)

const segmentPrefix = "segment_"

// Splitter slices an audio file into fixed-length PCM WAV segments with
// ffmpeg. Segments are emitted progressively as ffmpeg writes them, so
// recognition can start before the whole split finishes.
type Splitter struct {
	ffmpegPath      string
	segmentLengthMS int
}

// NewSplitter creates a splitter using the given ffmpeg binary.
func NewSplitter(ffmpegPath string, segmentLengthMS int) *Splitter {
	return &Splitter{ffmpegPath: ffmpegPath, segmentLengthMS: segmentLengthMS}
}

// Split starts ffmpeg writing segments into outDir and returns a channel that
// yields each segment once its file is complete. ffmpeg writes segment files
// strictly in order, so a file is complete as soon as the next one is created;
// whatever remains is emitted after ffmpeg exits. The channel is closed when
// all segments are out or the context is cancelled.
func (s *Splitter) Split(ctx context.Context, inputFile, outDir string) (<-chan model.Segment, error) {
	totalMS, err := s.ProbeDurationMS(inputFile)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create directory watcher: %w", err)
	}
	if err := watcher.Add(outDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch segment directory %s: %w", outDir, err)
	}

	pattern := filepath.Join(outDir, segmentPrefix+"%05d.wav")
	cmd := exec.CommandContext(ctx, s.ffmpegPath, s.splitArgs(inputFile, pattern)...)
	if err := cmd.Start(); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	logger.Info("splitting audio into segments",
		logger.String("input", inputFile),
		logger.Int("segmentLengthMs", s.segmentLengthMS),
		logger.Int64("durationMs", totalMS))

	out := make(chan model.Segment, 16)
	done := make(chan struct{})
	go func() {
		err := cmd.Wait()
		if err != nil && ctx.Err() == nil {
			logger.Error("ffmpeg exited with error", logger.ErrorField(err))
		}
		close(done)
	}()

	go func() {
		defer close(out)
		defer watcher.Close()

		emitted := 0 // next index to emit; files are numbered densely from 0
		highest := -1

		emitUpTo := func(limit int) {
			for emitted <= limit {
				seg := s.segment(outDir, emitted, totalMS)
				select {
				case out <- seg:
					emitted++
				case <-ctx.Done():
					return
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-watcher.Events:
				if event.Op&fsnotify.Create == 0 || !strings.HasSuffix(event.Name, ".wav") {
					continue
				}
				idx, ok := parseIndex(event.Name)
				if !ok {
					continue
				}
				if idx > highest {
					highest = idx
				}
				// The newest file is still being written; everything
				// before it is complete.
				emitUpTo(highest - 1)
			case err := <-watcher.Errors:
				logger.Warn("segment watcher error", logger.ErrorField(err))
			case <-done:
				// ffmpeg finished: emit everything found on disk.
				last, err := lastIndexOnDisk(outDir)
				if err != nil {
					logger.Error("failed to list segment files", logger.ErrorField(err))
					return
				}
				emitUpTo(last)
				return
			}
		}
	}()

	return out, nil
}

// splitArgs builds the ffmpeg command line. Global options go before -i;
// ffmpeg ignores options trailing the output pattern.
func (s *Splitter) splitArgs(inputFile, pattern string) []string {
	return []string{
		"-loglevel", "quiet",
		"-i", inputFile,
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%g", float64(s.segmentLengthMS)/1000),
		"-acodec", "pcm_s16le",
		"-ar", "44100",
		pattern,
	}
}

func (s *Splitter) segment(outDir string, index int, totalMS int64) model.Segment {
	start := int64(index) * int64(s.segmentLengthMS)
	end := start + int64(s.segmentLengthMS)
	if totalMS > 0 && end > totalMS {
		end = totalMS
	}
	return model.Segment{
		Index:   index,
		StartMS: start,
		EndMS:   end,
		Path:    filepath.Join(outDir, fmt.Sprintf("%s%05d.wav", segmentPrefix, index)),
	}
}

// parseIndex extracts the numeric index from a segment file name.
func parseIndex(path string) (int, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, segmentPrefix) {
		return 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(base, segmentPrefix), ".wav")
	idx, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// lastIndexOnDisk returns the highest segment index present in outDir, or -1
// when none exist.
func lastIndexOnDisk(outDir string) (int, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return -1, err
	}
	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if idx, ok := parseIndex(e.Name()); ok {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		return -1, nil
	}
	sort.Ints(indices)
	return indices[len(indices)-1], nil
}
