package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"facescope/internal/model"
	"facescope/internal/service"
)

func newHistoryCmd(e *env) *cobra.Command {
	var (
		limit   int
		session string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent capture analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := e.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := repo.GetAll(&model.AnalysisFilter{SessionID: session, Limit: limit})
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries (0 = all)")
	cmd.Flags().StringVar(&session, "session", "", "only show one session")
	return cmd
}

func printHistory(out io.Writer, records []model.AnalysisRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No analyses recorded yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tFILE\tAGE\tGENDER\tRACE\tEMOTION\tERROR")
	fmt.Fprintln(w, "--\t-------\t----\t---\t------\t----\t-------\t-----")

	for _, rec := range records {
		age, gender, race, emotion := service.Placeholder, service.Placeholder, service.Placeholder, service.Placeholder
		if rec.Success {
			age = fmt.Sprint(rec.Age)
			gender, race, emotion = rec.Gender, rec.Race, rec.Emotion
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.Filename,
			age, gender, race, emotion, rec.Error)
	}
	w.Flush()
}
