// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ik5/voxprofile/internal/config"
	"github.com/ik5/voxprofile/match"
	"github.com/ik5/voxprofile/storage"
)

func newBlobStore(cfg config.Storage) (storage.BlobStore, error) {
	switch cfg.Backend {
	case "s3":
		client := storage.NewS3Client(storage.S3Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		return storage.NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return storage.NewLocal(cfg.Dir)
	}
}

func newRecordStore(cfg config.Storage, log *zap.Logger) (storage.RecordStore, error) {
	if cfg.InMemory {
		return storage.NewMemory(), nil
	}

	return storage.NewBadger(storage.BadgerOptions{Dir: cfg.BadgerDir, Logger: log.Named("badger")})
}

// newMatcher returns nil when no API key is configured; callers then get
// the fallback match.
func newMatcher(cfg config.Matcher, log *zap.Logger) (match.Matcher, error) {
	if cfg.APIKey == "" {
		log.Warn("no matcher api key configured, voice matches use the fallback")
		return nil, nil
	}

	m, err := match.NewOpenAI(match.OpenAIConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("matcher: %w", err)
	}

	return m, nil
}
