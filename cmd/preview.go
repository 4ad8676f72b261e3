package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sovbot/internal/catalog"
	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/diagnosis"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM commentary for a hand-picked result (no database)",
	Long: `Generate commentary for a ranking given on the command line.

This is a stateless developer tool: no database and no events. Useful for
evaluating the commentary prompt and comparing models.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringSlice("topic", nil, "Topic keys in rank order (required, e.g. --topic rescuer --topic victim)")
	previewCmd.Flags().String("name", "", "First name to address")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	keys, _ := cmd.Flags().GetStringSlice("topic")
	name, _ := cmd.Flags().GetString("name")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	ranking, err := previewRanking(cat, keys)
	if err != nil {
		return err
	}

	// No event repo: requests are not recorded.
	provider := newProvider(cmd.Context(), nil)
	if provider == nil {
		return fmt.Errorf("no LLM provider configured (set llm.provider or SOVBOT_LLM_PROVIDER)")
	}
	gen := commentary.NewGenerator(provider, cfg.CommentaryConfig().Generator)

	c, err := gen.Generate(cmd.Context(), commentary.Request{SessionID: "preview", FirstName: name, Ranking: ranking})
	if err != nil {
		return fmt.Errorf("generate commentary: %w", err)
	}

	fmt.Println(c.Summary)
	for _, n := range c.Programs {
		fmt.Printf("\n%s: %s\n", n.Name, n.Influence)
	}
	if c.FirstStep != "" {
		fmt.Printf("\nFirst step: %s\n", c.FirstStep)
	}
	return nil
}

// previewRanking turns topic keys into a ranking with descending fake scores.
func previewRanking(cat *catalog.Catalog, keys []string) ([]diagnosis.Ranked, error) {
	ranking := make([]diagnosis.Ranked, 0, len(keys))
	for i, key := range keys {
		t, ok := cat.TopicByKey(strings.TrimSpace(key))
		if !ok {
			return nil, fmt.Errorf("no topic with key %q", key)
		}
		ranking = append(ranking, diagnosis.Ranked{TopicID: t.ID, Name: t.Name, Score: 10 - i})
	}
	return ranking, nil
}
