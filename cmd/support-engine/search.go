package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pdiddy/support-engine/internal/kb"
	"github.com/pdiddy/support-engine/internal/match"
	"github.com/pdiddy/support-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [problem text]",
	Short: "Search the knowledge base for a problem description",
	Long: `Search matches a free-text problem description against the knowledge base
and prints the best solutions with their scores. With no arguments it enters
an interactive loop and refreshes the knowledge base in the background.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := currentConfig()
	if cmd.Flags().Changed("top") {
		cfg.Match.TopN, _ = cmd.Flags().GetInt("top")
	}
	if cmd.Flags().Changed("sheet-url") {
		cfg.Sheet.CSVURL, _ = cmd.Flags().GetString("sheet-url")
	}

	store, cleanup := newStore(cfg, log)
	defer cleanup()

	if err := store.LoadInitial(cmd.Context()); err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	objectOverride, _ := cmd.Flags().GetString("object")

	if len(args) > 0 {
		return runQuery(store, cfg, strings.Join(args, " "), objectOverride, jsonOutput)
	}
	return runInteractive(cmd.Context(), store, cfg, objectOverride, jsonOutput)
}

// runQuery answers a single query on stdout.
func runQuery(store *kb.Store, cfg types.Config, query, objectOverride string, jsonOutput bool) error {
	records, err := store.Records()
	if err != nil {
		return err
	}

	objectCode := objectOverride
	if objectCode == "" {
		objectCode = match.DetectObjectCode(query, cfg.Objects)
	}
	matches := match.Rank(query, records, cfg.Match.TopN, objectCode)

	if jsonOutput {
		return match.FormatJSON(matches, os.Stdout)
	}
	match.FormatText(matches, os.Stdout)
	return nil
}

// runInteractive reads queries from stdin until an empty line or EOF. The
// knowledge base refreshes in the background while the loop runs.
func runInteractive(parent context.Context, store *kb.Store, cfg types.Config, objectOverride string, jsonOutput bool) error {
	ctx, cancel := context.WithCancel(parent)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Run(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	fmt.Println("Введите проблему (пустая строка для выхода):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}
		if err := runQuery(store, cfg, query, objectOverride, jsonOutput); err != nil {
			return err
		}
		fmt.Println()
	}
	return scanner.Err()
}

func init() {
	searchCmd.Flags().Int("top", types.DefaultTopN, "number of top matches to show")
	searchCmd.Flags().String("object", "", "restrict matching to an object code, bypassing detection")
	searchCmd.Flags().String("sheet-url", "", "override the sheet CSV export URL")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
