package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"facescope/internal/service/storage"
)

func newResetCmd(e *env) *cobra.Command {
	var (
		resetDB    bool
		resetCache bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the analysis history and cached captures",
		Long:  "Clears stored data. By default it resets everything. Use flags to clear specific components.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bez flag czyścimy wszystko
			if !resetDB && !resetCache {
				resetDB = true
				resetCache = true
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if resetDB && (yes || confirm(reader, out, "Are you sure you want to delete the analysis history?")) {
				db, repo, err := e.openHistory()
				if err != nil {
					return err
				}
				err = repo.DeleteAll()
				db.Close()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Analysis history cleared.")
			}

			if resetCache && (yes || confirm(reader, out, "Are you sure you want to delete all cached captures?")) {
				cache, err := storage.NewCacheService(e.cfg, e.log)
				if err != nil {
					return err
				}
				removed, err := cache.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d capture(s) from %s.\n", removed, cache.Dir())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&resetDB, "db", false, "clear the analysis history")
	cmd.Flags().BoolVar(&resetCache, "cache", false, "clear cached captures")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func confirm(r *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	res, _ := r.ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}
