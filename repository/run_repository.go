package repository

import (
	"fmt"

	"gorm.io/gorm"

	"SetRadar/db"
	"SetRadar/model"
)

// RunRepository persists recognition runs and their identified tracks.
type RunRepository struct {
	DB *gorm.DB
}

func NewRunRepository() *RunRepository {
	return &RunRepository{DB: db.GormDB}
}

// SaveRun stores one completed run and its tracklist in a single transaction.
func (r *RunRepository) SaveRun(run *model.Run, tracks []model.Track) error {
	if r.DB == nil {
		return fmt.Errorf("run history database not initialized")
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		for _, t := range tracks {
			rt := model.RunTrack{
				RunID:        run.RunID,
				TrackID:      t.TrackID,
				Title:        t.Title,
				Artist:       t.Artist,
				StartMS:      t.StartMS,
				EndMS:        t.EndMS,
				Confidence:   t.Confidence,
				TotalMatches: t.TotalMatches,
			}
			if err := tx.Create(&rt).Error; err != nil {
				return fmt.Errorf("failed to save run track %q: %w", t.TrackID, err)
			}
		}
		return nil
	})
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepository) ListRuns(limit int) ([]model.Run, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("run history database not initialized")
	}

	var runs []model.Run
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRunTracks returns the stored tracklist of one run, ordered by start time.
func (r *RunRepository) GetRunTracks(runID string) ([]model.RunTrack, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("run history database not initialized")
	}

	var tracks []model.RunTrack
	err := r.DB.Where("run_id = ?", runID).Order("start_ms ASC").Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks for run %s: %w", runID, err)
	}
	return tracks, nil
}
