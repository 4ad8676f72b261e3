package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/llm"
	"github.com/abhisek/sovbot/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded commentary LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		printLLMEvents(cmd.OutOrStdout(), events, purpose)
		return nil
	},
}

func printLLMEvents(w io.Writer, events []store.LLMEvent, purpose string) {
	t := newTable(w,
		column{title: "ID", width: 5, right: true},
		column{title: "Time", width: 19},
		column{title: "Purpose", width: 18},
		column{title: "Model", width: 28},
		column{title: "In", width: 6, right: true},
		column{title: "Out", width: 6, right: true},
		column{title: "Ms", width: 7, right: true},
		column{title: "OK", width: 2},
	)
	shown := 0
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		if shown == 0 {
			t.header()
		}
		shown++
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		t.row(e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, e.Model,
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	if shown == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
	}
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and output of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("event id %q is not a number", args[0])
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get llm event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no llm event with id %d", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printLLMEvent(w io.Writer, e *store.LLMEvent) {
	fields := [][2]string{
		{"ID", strconv.FormatInt(e.ID, 10)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", (time.Duration(e.LatencyMs) * time.Millisecond).String()},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-10s %s\n", f[0]+":", f[1])
	}

	for _, section := range []struct{ title, body string }{
		{"Prompt", e.RequestBody},
		{"Output", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n── %s %s\n", section.title, strings.Repeat("─", 50))
		if section.body == "" {
			fmt.Fprintln(w, "(empty)")
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(section.body, "\n"))
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}
		printLLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func printLLMUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded.")
		return
	}

	usage := newTable(w,
		column{title: "Purpose", width: 18},
		column{title: "Calls", width: 6, right: true},
		column{title: "Input", width: 10, right: true},
		column{title: "Output", width: 10, right: true},
		column{title: "Avg ms", width: 8, right: true},
	)
	usage.header()
	var calls, in, out int
	for _, u := range byPurpose {
		usage.row(u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	usage.rule()
	usage.row("total", calls, in, out)

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintln(w)
	cost := newTable(w,
		column{title: "Model", width: 32},
		column{title: "Calls", width: 6, right: true},
		column{title: "Cost (USD)", width: 10, right: true},
	)
	cost.header()
	var total float64
	var unpriced []string
	for _, m := range byModel {
		price := llm.LookupCost(m.Model)
		if price == nil {
			unpriced = append(unpriced, m.Model)
			cost.row(m.Model, m.Calls, "?")
			continue
		}
		c := price.Cost(m.InputTokens, m.OutputTokens)
		total += c
		cost.row(m.Model, m.Calls, formatCost(c))
	}
	cost.rule()
	label := "total"
	if len(unpriced) > 0 {
		label = "total, priced models only"
	}
	cost.row(label, "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func formatCost(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose, e.g. "+commentary.Purpose)
	llmListCmd.Flags().Duration("since", 0, "Only show calls newer than this, e.g. 24h")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
