package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sovbot/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the questionnaire content",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		fmt.Printf("%-4s  %-20s  %s\n", "ID", "Key", "Name")
		fmt.Println(strings.Repeat("─", 60))
		for _, t := range cat.Topics() {
			fmt.Printf("%-4d  %-20s  %s\n", t.ID, t.Key, t.Name)
		}
		fmt.Printf("\n%d topics, %d first-stage questions, %d deep-dive questions\n",
			cat.TopicCount(), cat.FirstStageLen(), cat.SecondStageLen())
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show the questions that can be asked about a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		t, ok := cat.TopicByKey(args[0])
		if !ok {
			return fmt.Errorf("no topic with key %q", args[0])
		}

		fmt.Printf("%s (%s)\n\n", t.Name, t.Key)
		for i := range cat.FirstStageLen() {
			q, err := cat.FirstStage(i)
			if err != nil {
				return err
			}
			if q.TopicID == t.ID {
				printQuestion(fmt.Sprintf("Stage 1, question %d", i+1), q)
			}
		}
		for i := range cat.SecondStageLen() {
			q, err := cat.Second(i)
			if err != nil {
				return err
			}
			q.Prompt = q.Bind(t)
			printQuestion(fmt.Sprintf("Stage 2, if narrowed to position %d", i+1), q)
		}
		return nil
	},
}

func printQuestion(label string, q catalog.Question) {
	fmt.Printf("── %s ──\n%s\n", label, q.Prompt)
	for _, c := range q.Scale {
		fmt.Printf("  [%d] %s\n", c.Weight, c.Label)
	}
	fmt.Println()
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}
