package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"facescope/internal/app"
	"facescope/internal/config"
	"facescope/internal/logger"
	"facescope/internal/repository/sqlite"
)

// Version is the application version.
const Version = "0.1.0"

// env holds what every subcommand shares once flags are parsed.
type env struct {
	envFile string
	cfg     *config.Config
	log     *logger.Logger
}

// execute runs the command line and closes the logger afterwards, also when
// the command failed.
func execute(ctx context.Context, e *env, args []string, in io.Reader, out, errOut io.Writer) error {
	defer e.close()

	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "facescope",
		Short:         "Webcam face detection with age, gender, race and emotion estimation",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if e.cfg, err = config.Load(e.envFile); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if e.log, err = logger.NewLogger(e.cfg); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApp(e.cfg, e.log)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer application.Close()

			return application.Run(cmd.Context())
		},
	}

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&e.envFile, "env-file", ".env", "path to an optional .env file")

	rootCmd.AddCommand(
		newHistoryCmd(e),
		newAnalyzeCmd(e),
		newResetCmd(e),
	)
	return rootCmd
}

func (e *env) close() {
	if e.log != nil {
		e.log.Close()
	}
}

// openHistory opens the analysis database named in the config.
func (e *env) openHistory() (*sqlite.DB, *sqlite.AnalysisRepository, error) {
	db, err := sqlite.New(e.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewAnalysisRepository(db), nil
}
