package types

import "time"

// Defaults for the sheet source, refresh policy, and matching policy.
const (
	// DefaultSheetCSVURL is the published CSV export of the support sheet.
	DefaultSheetCSVURL = "https://docs.google.com/spreadsheets/d/13Kdj9pCMfha3UwzYi_pWsLt6V5yayrzpTsqqOvM0Tzg/export?format=csv"

	// DefaultUserAgent is sent with sheet downloads.
	DefaultUserAgent = "support-engine/0.3"

	// DefaultHTTPTimeout bounds a single sheet download.
	DefaultHTTPTimeout = 15 * time.Second

	// DefaultRefreshInterval is how often the record set is re-fetched.
	DefaultRefreshInterval = 30 * time.Minute

	// MinRefreshInterval is the lower clamp on the refresh interval.
	MinRefreshInterval = time.Minute

	// DefaultSnapshotPath is the local snapshot database location.
	DefaultSnapshotPath = "data/kb.db"

	// DefaultMinScore is the score below which the bot reports no match.
	DefaultMinScore = 0.35

	// DefaultTopN is how many ranked matches are returned by default.
	DefaultTopN = 1

	// DefaultUploadWindow is how long /upload keeps a sender in upload mode.
	DefaultUploadWindow = 5 * time.Minute
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "support-engine/0.3").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SheetConfig holds settings for the Google Sheets CSV source.
type SheetConfig struct {
	HTTPConfig `yaml:",inline"`

	// CSVURL is the published CSV export URL of the support sheet.
	CSVURL string `json:"csv_url" yaml:"csv_url"`

	// MaxRetries is the number of retry attempts for transient HTTP
	// failures (0 = library default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// KnowledgeBaseConfig holds settings for the in-memory record store.
type KnowledgeBaseConfig struct {
	// RefreshInterval is the background re-fetch period. Values below
	// one minute are clamped up.
	RefreshInterval time.Duration `json:"refresh_interval" yaml:"refresh_interval"`

	// SnapshotPath is the local snapshot database used when the sheet is
	// unreachable at startup.
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`
}

// MatchConfig holds the ranking policy applied by callers of the matcher.
type MatchConfig struct {
	// MinScore is the score below which a match is presented as not found.
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// TopN is how many ranked matches to return.
	TopN int `json:"top_n" yaml:"top_n"`
}

// BotConfig holds settings for the Telegram bot.
type BotConfig struct {
	// Token is the bot token. Prefer .secrets/telegram-bot-token; this
	// field exists for environments where a secrets directory is awkward.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// UploadWindow is how long /upload keeps a sender in upload mode.
	UploadWindow time.Duration `json:"upload_window" yaml:"upload_window"`
}

// Config groups all engine configuration.
type Config struct {
	Sheet         SheetConfig         `json:"sheet" yaml:"sheet"`
	KnowledgeBase KnowledgeBaseConfig `json:"kb" yaml:"kb"`
	Match         MatchConfig         `json:"match" yaml:"match"`
	Bot           BotConfig           `json:"bot" yaml:"bot"`

	// Objects maps object codes to the aliases that identify them in
	// queries, e.g. "проектор" -> ["проектора", "видеопроектор"].
	Objects SynonymTable `json:"objects" yaml:"objects"`
}
