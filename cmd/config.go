package cmd

import "time"

// Config carries all runtime settings for the application.
// Values come from the environment; see cmd/app/main.go for the keys.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	OpenAIAPIKey string
	OpenAIModel  string

	// ModificationWindow bounds how long after placement an order can
	// still be changed or canceled.
	ModificationWindow time.Duration

	// PrepTime is the fixed kitchen preparation estimate reported to
	// customers when an order is placed.
	PrepTime time.Duration

	// SummarizeThreshold is the history length at which a conversation
	// gets compressed; SummarizeKeepRecent messages survive verbatim.
	SummarizeThreshold  int
	SummarizeKeepRecent int

	// SessionMaxIdle is how long a conversation may sit untouched before
	// the cleanup job drops it.
	SessionMaxIdle time.Duration
}
