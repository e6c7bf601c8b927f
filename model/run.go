package model

import "time"

// Run is one persisted recognition run, stored when MySQL history is
// configured.
type Run struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID         string    `json:"runId" gorm:"type:varchar(36);uniqueIndex"`
	AudioFile     string    `json:"audioFile" gorm:"type:varchar(512)"`
	SegmentLength int       `json:"segmentLength"`
	TotalSegments int       `json:"totalSegments"`
	TrackCount    int       `json:"trackCount"`
	GapCount      int       `json:"gapCount"`
	SuccessRate   float64   `json:"successRate"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RunTrack is one identified track belonging to a persisted run.
type RunTrack struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID        string  `json:"runId" gorm:"type:varchar(36);index"`
	TrackID      string  `json:"trackId" gorm:"type:varchar(128)"`
	Title        string  `json:"title" gorm:"type:varchar(512)"`
	Artist       string  `json:"artist" gorm:"type:varchar(512)"`
	StartMS      int64   `json:"startMs"`
	EndMS        int64   `json:"endMs"`
	Confidence   float64 `json:"confidence"`
	TotalMatches int     `json:"totalMatches"`
}

func (Run) TableName() string      { return "runs" }
func (RunTrack) TableName() string { return "run_tracks" }
