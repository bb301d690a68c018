package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                 string
	StoreBaseURL         string
	StoreAuthToken       string
	WordsFile            string
	OpenAIAPIKey         string
	OpenAIModel          string
	AdminToken           string
	CreateGamesPerMinute int
	MovesPerMinute       int
}

func Default() Config {
	return Config{
		Port:                 "8080",
		OpenAIModel:          "gpt-4o-mini",
		CreateGamesPerMinute: 10,
		MovesPerMinute:       60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("STORE_BASE_URL"); raw != "" {
		cfg.StoreBaseURL = raw
	}
	if raw := os.Getenv("STORE_AUTH_TOKEN"); raw != "" {
		cfg.StoreAuthToken = raw
	}
	if raw := os.Getenv("WORDS_FILE"); raw != "" {
		cfg.WordsFile = raw
	}
	if raw := os.Getenv("OPENAI_API_KEY"); raw != "" {
		cfg.OpenAIAPIKey = raw
	}
	if raw := os.Getenv("OPENAI_MODEL"); raw != "" {
		cfg.OpenAIModel = raw
	}
	if raw := os.Getenv("ADMIN_TOKEN"); raw != "" {
		cfg.AdminToken = raw
	}
	if raw := os.Getenv("CREATE_GAMES_PER_MINUTE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CreateGamesPerMinute = value
		}
	}
	if raw := os.Getenv("MOVES_PER_MINUTE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MovesPerMinute = value
		}
	}
	return cfg
}
