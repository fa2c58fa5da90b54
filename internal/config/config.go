// SPDX-License-Identifier: EPL-2.0

// Package config loads the service configuration from an optional YAML
// file, a .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Capture  Capture  `yaml:"capture"`
	Analysis Analysis `yaml:"analysis"`
	Storage  Storage  `yaml:"storage"`
	Matcher  Matcher  `yaml:"matcher"`
	Log      Log      `yaml:"log"`
}

type Server struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	// MaxUploadBytes caps multipart uploads and JSON bodies.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" validate:"gt=0"`
}

type Capture struct {
	MonitorInterval   time.Duration `yaml:"monitor_interval" validate:"gt=0"`
	DefaultSampleRate int           `yaml:"default_sample_rate" validate:"min=8000,max=192000"`
	// MaxDuration stops a live session after this long. Zero disables
	// the limit.
	MaxDuration time.Duration `yaml:"max_duration" validate:"gte=0"`
}

type Analysis struct {
	MaxSampleRate int `yaml:"max_sample_rate" validate:"min=8000,max=192000"`
}

type Storage struct {
	Backend   string `yaml:"backend" validate:"oneof=local s3"`
	Dir       string `yaml:"dir"`
	BadgerDir string `yaml:"badger_dir"`
	// InMemory keeps records in process memory instead of badger.
	InMemory bool `yaml:"in_memory"`
	S3       S3   `yaml:"s3"`
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
}

type Matcher struct {
	// APIKey enables matching. Without it every match is the fallback.
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
	Model       string        `yaml:"model" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries  int           `yaml:"max_retries" validate:"gte=0,lte=10"`
	Temperature float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int64         `yaml:"max_tokens" validate:"gt=0"`
}

type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: Server{
			Addr:           ":8080",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxUploadBytes: 16 << 20,
		},
		Capture: Capture{
			MonitorInterval:   100 * time.Millisecond,
			DefaultSampleRate: 48000,
			MaxDuration:       10 * time.Minute,
		},
		Analysis: Analysis{MaxSampleRate: 22050},
		Storage: Storage{
			Backend:   "local",
			Dir:       "data/audio",
			BadgerDir: "data/db",
		},
		Matcher: Matcher{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			Timeout:     30 * time.Second,
			MaxRetries:  2,
			Temperature: 0.7,
			MaxTokens:   500,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path (if not empty), then .env from the working directory
// (if present), then applies environment overrides and validates the
// result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv overrides fields from VOXPROFILE_* variables and GROQ_API_KEY.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"VOXPROFILE_ADDR":                 &c.Server.Addr,
		"VOXPROFILE_STORAGE_BACKEND":      &c.Storage.Backend,
		"VOXPROFILE_STORAGE_DIR":          &c.Storage.Dir,
		"VOXPROFILE_BADGER_DIR":           &c.Storage.BadgerDir,
		"VOXPROFILE_S3_BUCKET":            &c.Storage.S3.Bucket,
		"VOXPROFILE_S3_REGION":            &c.Storage.S3.Region,
		"VOXPROFILE_S3_ENDPOINT":          &c.Storage.S3.Endpoint,
		"VOXPROFILE_S3_ACCESS_KEY_ID":     &c.Storage.S3.AccessKeyID,
		"VOXPROFILE_S3_SECRET_ACCESS_KEY": &c.Storage.S3.SecretAccessKey,
		"VOXPROFILE_S3_PREFIX":            &c.Storage.S3.Prefix,
		"GROQ_API_KEY":                    &c.Matcher.APIKey,
		"VOXPROFILE_MATCHER_BASE_URL":     &c.Matcher.BaseURL,
		"VOXPROFILE_MATCHER_MODEL":        &c.Matcher.Model,
		"VOXPROFILE_LOG_LEVEL":            &c.Log.Level,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"VOXPROFILE_MAX_SAMPLE_RATE":     &c.Analysis.MaxSampleRate,
		"VOXPROFILE_DEFAULT_SAMPLE_RATE": &c.Capture.DefaultSampleRate,
	}
	for name, dst := range ints {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"VOXPROFILE_LOG_DEVELOPMENT":   &c.Log.Development,
		"VOXPROFILE_STORAGE_IN_MEMORY": &c.Storage.InMemory,
	}
	for name, dst := range bools {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}

	return nil
}
