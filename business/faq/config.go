package faq

import "time"

type Config struct {
	// minimum similarity for a curated answer to be returned as-is
	ConfidenceThreshold float64
	MaxSuggestions      int
	// suggestions scoring below this floor are dropped
	MinSuggestionScore float64

	// write fallback answers back to the question bank
	PersistLearned bool
	// learned entries are active immediately instead of waiting for review
	PublishLearned bool

	// how long a loaded question bank snapshot is reused; zero reloads every call
	BankCacheTTL time.Duration
}

const (
	defaultConfidenceThreshold = 0.55
	defaultMaxSuggestions      = 3
	defaultMinSuggestionScore  = 0.0
	maxSuggestionsCap          = 5
)

func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: defaultConfidenceThreshold,
		MaxSuggestions:      defaultMaxSuggestions,
		MinSuggestionScore:  defaultMinSuggestionScore,
	}
}

func (c Config) sanitized() Config {
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		c.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if c.MaxSuggestions < 0 {
		c.MaxSuggestions = defaultMaxSuggestions
	}
	if c.MaxSuggestions > maxSuggestionsCap {
		c.MaxSuggestions = maxSuggestionsCap
	}
	if c.MinSuggestionScore < 0 {
		c.MinSuggestionScore = 0
	}
	if c.BankCacheTTL < 0 {
		c.BankCacheTTL = 0
	}
	return c
}
