// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the support-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/support-engine/internal/kb"
	"github.com/pdiddy/support-engine/internal/secrets"
	"github.com/pdiddy/support-engine/internal/sheet"
	"github.com/pdiddy/support-engine/internal/snapshot"
	"github.com/pdiddy/support-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the support-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "support-engine",
	Short: "Fuzzy-search assistant for the Орион support knowledge base",
	Long: `support-engine matches free-text problem descriptions against a knowledge
base of known problems and solutions maintained in a Google Sheet. The same
matching core powers an interactive CLI and a Telegram support bot.

Queries are normalized, scored with Levenshtein similarity, and scoped to an
on-site object (projector, hall, platform) when one is recognized in the
text. A local SQLite snapshot serves as the startup fallback when the sheet
is unreachable.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./support-engine.yaml or ~/.config/support-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("support-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "support-engine"))
		}
	}

	viper.SetDefault("sheet.csv_url", types.DefaultSheetCSVURL)
	viper.SetDefault("sheet.timeout", types.DefaultHTTPTimeout)
	viper.SetDefault("sheet.user_agent", types.DefaultUserAgent)
	viper.SetDefault("kb.refresh_interval", types.DefaultRefreshInterval)
	viper.SetDefault("kb.snapshot_path", types.DefaultSnapshotPath)
	viper.SetDefault("match.min_score", types.DefaultMinScore)
	viper.SetDefault("match.top_n", types.DefaultTopN)
	viper.SetDefault("bot.upload_window", types.DefaultUploadWindow)

	viper.SetEnvPrefix("SUPPORT_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// currentConfig assembles the effective configuration from defaults, the
// config file, and environment variables.
func currentConfig() types.Config {
	return types.Config{
		Sheet: types.SheetConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("sheet.timeout"),
				UserAgent: viper.GetString("sheet.user_agent"),
			},
			CSVURL:     viper.GetString("sheet.csv_url"),
			MaxRetries: viper.GetInt("sheet.max_retries"),
		},
		KnowledgeBase: types.KnowledgeBaseConfig{
			RefreshInterval: viper.GetDuration("kb.refresh_interval"),
			SnapshotPath:    viper.GetString("kb.snapshot_path"),
		},
		Match: types.MatchConfig{
			MinScore: viper.GetFloat64("match.min_score"),
			TopN:     viper.GetInt("match.top_n"),
		},
		Bot: types.BotConfig{
			Token:        viper.GetString("bot.token"),
			UploadWindow: viper.GetDuration("bot.upload_window"),
		},
		Objects: viper.GetStringMapStringSlice("objects"),
	}
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// clean for search output and exports.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// newStore wires the sheet client and the local snapshot into a kb store.
// The returned cleanup closes the snapshot database.
func newStore(cfg types.Config, log *zap.Logger) (*kb.Store, func()) {
	client := sheet.NewClient(cfg.Sheet, log)

	var fallback kb.Source
	cleanup := func() {}
	if path := cfg.KnowledgeBase.SnapshotPath; path != "" {
		snap, err := snapshot.Open(path)
		if err != nil {
			log.Warn("snapshot unavailable", zap.String("path", path), zap.Error(err))
		} else {
			fallback = snap
			cleanup = func() { snap.Close() }
		}
	}
	return kb.New(client, fallback, cfg.KnowledgeBase, log), cleanup
}

// botToken resolves the Telegram token: the --token flag first, then the
// environment or config file, then .secrets/.
func botToken(cmd *cobra.Command, cfg types.Config) (string, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.Bot.Token
	}
	if token == "" {
		token = loadedSecrets[secrets.TokenKey]
	}
	if token == "" {
		return "", fmt.Errorf("telegram bot token not set: use --token, SUPPORT_ENGINE_BOT_TOKEN, bot.token in the config file, or .secrets/%s", secrets.TokenKey)
	}
	return token, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
