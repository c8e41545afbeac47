// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/support-engine/internal/sheet"
	"github.com/pdiddy/support-engine/internal/snapshot"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the local knowledge base snapshot (pull, show, export)",
	Long: `Kb manages the local SQLite snapshot of the knowledge base. The snapshot
is the startup fallback used when Google Sheets is unreachable. Use
subcommands to pull a fresh copy, inspect it, or export it.`,
}

// --- pull subcommand ---

var kbPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the sheet and store it as the local snapshot",
	Long: `Pull downloads the current sheet contents and replaces the local snapshot.
Run it while the sheet is reachable so the bot and search can start from the
snapshot during an outage.`,
	RunE: runKbPull,
}

func runKbPull(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := currentConfig()
	client := sheet.NewClient(cfg.Sheet, log)

	records, err := client.Fetch(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("sheet %s returned no records", client.URL())
	}

	store, err := snapshot.Open(cfg.KnowledgeBase.SnapshotPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), records, client.URL()); err != nil {
		return err
	}

	fmt.Printf("Snapshot updated: %d records\n", len(records))
	return nil
}

// --- show subcommand ---

var kbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show snapshot metadata",
	RunE:  runKbShow,
}

func runKbShow(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	path := cfg.KnowledgeBase.SnapshotPath

	store, err := snapshot.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := store.Meta(cmd.Context())
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return fmt.Errorf("no snapshot at %s: run 'support-engine kb pull' first", path)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Path:     %s\n", path)
	fmt.Printf("Taken:    %s\n", info.TakenAt.Format(time.RFC3339))
	fmt.Printf("Source:   %s\n", info.SourceURL)
	fmt.Printf("Records:  %d\n", info.RecordCount)
	return nil
}

// --- export subcommand ---

var kbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the snapshot to YAML or JSON",
	Long: `Export writes the snapshot records to stdout (or --output) as YAML or
JSON, for review or for rebuilding the sheet.`,
	RunE: runKbExport,
}

func runKbExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	cfg := currentConfig()
	path := cfg.KnowledgeBase.SnapshotPath

	store, err := snapshot.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Load(cmd.Context())
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return fmt.Errorf("no snapshot at %s: run 'support-engine kb pull' first", path)
	}
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml", "":
		return snapshot.ExportYAML(w, records)
	case "json":
		return snapshot.ExportJSON(w, records)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func init() {
	kbExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	kbExportCmd.Flags().String("output", "", "write to a file instead of stdout")

	kbCmd.AddCommand(kbPullCmd)
	kbCmd.AddCommand(kbShowCmd)
	kbCmd.AddCommand(kbExportCmd)

	rootCmd.AddCommand(kbCmd)
}
