package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TrackedLanguage pairs a language name as the LLM reports it with the
// code used for back-translation requests.
type TrackedLanguage struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Gemini struct {
		APIKey          string  `yaml:"api_key"`
		ModelName       string  `yaml:"model_name"`
		MaxRetries      int     `yaml:"max_retries"`
		RetryDelaySecs  int     `yaml:"retry_delay_seconds"`
		TranslationTemp float32 `yaml:"translation_temperature"`
	} `yaml:"gemini"`

	MLService struct {
		URL string `yaml:"url"`
	} `yaml:"ml_service"`

	Processing struct {
		BatchSize  int `yaml:"batch_size"`
		FetchLimit int `yaml:"fetch_limit"` // 0 = no limit
	} `yaml:"processing"`

	Ingestion struct {
		MaxComments int `yaml:"max_comments"`
	} `yaml:"ingestion"`

	Audit struct {
		MismatchPreview    int               `yaml:"mismatch_preview"`
		SamplesPerLanguage int               `yaml:"samples_per_language"`
		TrackedLanguages   []TrackedLanguage `yaml:"tracked_languages"`
		HistoryPath        string            `yaml:"history_path"`
	} `yaml:"audit"`
}

// RetryDelay returns the Gemini retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Gemini.RetryDelaySecs) * time.Second
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	// API keys may reference environment variables
	config.Gemini.APIKey = os.ExpandEnv(config.Gemini.APIKey)

	return config, nil
}

// applyDefaults fills unset fields. A zero value counts as unset, so
// an explicit zero cannot be configured for any of these fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Gemini.ModelName == "" {
		c.Gemini.ModelName = "gemini-2.5-flash"
	}
	if c.Gemini.MaxRetries == 0 {
		c.Gemini.MaxRetries = 3
	}
	if c.Gemini.RetryDelaySecs == 0 {
		c.Gemini.RetryDelaySecs = 2
	}
	if c.Gemini.TranslationTemp == 0 {
		c.Gemini.TranslationTemp = 0.1
	}
	if c.Processing.BatchSize == 0 {
		c.Processing.BatchSize = 10
	}
	if c.Ingestion.MaxComments == 0 {
		c.Ingestion.MaxComments = 50
	}
	if c.Audit.MismatchPreview == 0 {
		c.Audit.MismatchPreview = 5
	}
	if c.Audit.SamplesPerLanguage == 0 {
		c.Audit.SamplesPerLanguage = 2
	}
	if len(c.Audit.TrackedLanguages) == 0 {
		c.Audit.TrackedLanguages = []TrackedLanguage{
			{Name: "Marathi", Code: "mr"},
			{Name: "Bengali", Code: "bn"},
			{Name: "Kannada", Code: "kn"},
		}
	}
	if c.Audit.HistoryPath == "" {
		c.Audit.HistoryPath = "./data/audit.db"
	}
}
