// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// RecordingKey names the blob of a finished recording:
// recordings/recording_<YYYYmmdd_HHMMSS>_<id>.wav.
func RecordingKey(id string, at time.Time) string {
	return fmt.Sprintf("recordings/recording_%s_%s.wav", at.UTC().Format("20060102_150405"), id)
}

// cleanKey validates a blob key. Keys are relative, slash separated and
// may not escape their root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return cleaned, nil
}
