package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"SetRadar/config"
	"SetRadar/db"
	"SetRadar/logger"
	"SetRadar/model"
	"SetRadar/repository"
)

var (
	flagHistoryLimit int
	flagHistoryRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored recognition runs",
	Long:  `List past recognition runs from the history database, or show the stored tracklist of one run with --run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if !cfg.HistoryEnabled() {
			return fmt.Errorf("run history is not configured (set DB_HOST)")
		}

		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := db.ConnectGormDB(cfg); err != nil {
			return err
		}
		defer db.CloseGormDB()

		if err := db.AutoMigrateModels(&model.Run{}, &model.RunTrack{}); err != nil {
			return err
		}

		repo := repository.NewRunRepository()

		if flagHistoryRun != "" {
			tracks, err := repo.GetRunTracks(flagHistoryRun)
			if err != nil {
				return err
			}
			for i, t := range tracks {
				fmt.Printf("%d. %s - %s [confidence: %.2f, total matches: %d]\n",
					i+1, t.Artist, t.Title, t.Confidence, t.TotalMatches)
			}
			return nil
		}

		runs, err := repo.ListRuns(flagHistoryLimit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  segments=%d tracks=%d gaps=%d success=%.1f%%  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.RunID,
				r.TotalSegments, r.TrackCount, r.GapCount, r.SuccessRate, r.AudioFile)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&flagHistoryRun, "run", "", "Show the stored tracklist of one run ID")

	rootCmd.AddCommand(historyCmd)
}
