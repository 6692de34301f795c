package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the interview driver needs. Values come from the
// environment (a .env file is honored when present); command flags may
// override individual fields afterwards.
type Config struct {
	Model         string
	APIKey        string
	StateFile     string
	QuestionsFile string
	CriteriaFile  string
	LedgerFile    string
	FakeScorer    bool
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Model:         firstNonEmpty(strings.TrimSpace(os.Getenv("MODEL")), "gemini-1.5-pro"),
		APIKey:        strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		StateFile:     firstNonEmpty(strings.TrimSpace(os.Getenv("STATE_FILE")), "session_state.json"),
		QuestionsFile: firstNonEmpty(strings.TrimSpace(os.Getenv("QUESTIONS_FILE")), "questions.json"),
		CriteriaFile:  firstNonEmpty(strings.TrimSpace(os.Getenv("CRITERIA_FILE")), "criteria.json"),
		LedgerFile:    firstNonEmpty(strings.TrimSpace(os.Getenv("LEDGER_FILE")), "scores.csv"),
		FakeScorer:    strings.EqualFold(strings.TrimSpace(os.Getenv("SCORER")), "fake"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
