package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"facescope/internal/model"
	"facescope/internal/repository"
	"facescope/internal/service"
	"facescope/internal/service/ai"
)

func newAnalyzeCmd(e *env) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "analyze <image>...",
		Short: "Estimate age, gender, race and emotion for image files without the camera",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// bez historii baza nie jest nawet tworzona
			var history repository.AnalysisRepository
			if !noHistory {
				db, repo, err := e.openHistory()
				if err != nil {
					return err
				}
				defer db.Close()
				history = repo
			}

			// Bez okna: wyniki trafiają tylko na stdout
			presenter := service.NewPresenter(service.Surfaces{})
			manager := service.NewManager(ai.NewDeepFaceAnalyzer(e.cfg, e.log), history, presenter, e.cfg, uuid.NewString(), e.log)
			defer manager.Stop()

			failed := 0
			for _, path := range args {
				capture, err := fileCapture(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}

				result, err := manager.AnalyzeCapture(cmd.Context(), *capture)
				if err != nil {
					failed++
				}
				printLabels(cmd.OutOrStdout(), capture.Filename, result, err)
			}

			if history != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded in history as session %s\n", manager.SessionID())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d image(s) could not be analyzed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record results in the history database")
	return cmd
}

func fileCapture(path string) (*model.Capture, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("is a directory")
	}
	return &model.Capture{
		Filename:   filepath.Base(abs),
		Path:       abs,
		CapturedAt: time.Now(),
	}, nil
}

func printLabels(out io.Writer, name string, result *model.Analysis, err error) {
	labels := service.FormatAttributes(result)
	fmt.Fprintf(out, "%s\n  %s\n  %s\n  %s\n  %s\n", name, labels.Age, labels.Gender, labels.Race, labels.Emotion)
	if err != nil {
		fmt.Fprintf(out, "  error: %v\n", err)
	}
}
