package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sovbot/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completed diagnostics and topic frequency",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		user, _ := cmd.Flags().GetInt64("user")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()

		started, err := repo.CountSessions(ctx)
		if err != nil {
			return fmt.Errorf("count sessions: %w", err)
		}
		results, err := repo.QueryResults(ctx, store.QueryOpts{Limit: limit, UserID: user})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		freq, err := repo.TopicFrequency(ctx)
		if err != nil {
			return fmt.Errorf("topic frequency: %w", err)
		}
		printStats(cmd.OutOrStdout(), started, results, freq)
		return nil
	},
}

func printStats(w io.Writer, started int, results []store.ResultEvent, freq []store.TopicCount) {
	fmt.Fprintf(w, "Sessions started: %d\n\n", started)
	if len(results) == 0 {
		fmt.Fprintln(w, "No completed diagnostics found.")
		return
	}

	t := newTable(w,
		column{title: "Finished", width: 19},
		column{title: "User", width: 12, right: true},
		column{title: "Took", width: 6, right: true},
		column{title: "Top programs", width: 60},
	)
	t.header()
	for _, r := range results {
		names := make([]string, len(r.Ranking))
		for i, topic := range r.Ranking {
			names[i] = fmt.Sprintf("%s (%d)", topic.Name, topic.Score)
		}
		t.row(r.Timestamp.Local().Format(timeLayout), r.UserID, formatDuration(r.DurationSecs), strings.Join(names, ", "))
	}

	if len(freq) == 0 {
		return
	}
	fmt.Fprintln(w)
	ft := newTable(w,
		column{title: "Program", width: 32},
		column{title: "Results", width: 7, right: true},
	)
	ft.header()
	for _, f := range freq {
		ft.row(f.Name, f.Count)
	}
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	statsCmd.Flags().Int64("user", 0, "Only show results of this Telegram user ID")
}
