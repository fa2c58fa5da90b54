// SPDX-License-Identifier: EPL-2.0

package match

import "errors"

var (
	// ErrNoAPIKey is returned by NewOpenAI when no key is configured.
	ErrNoAPIKey = errors.New("match: api key is required")
	// ErrEmptyReply is returned when the model produced no choices or an
	// empty message.
	ErrEmptyReply = errors.New("match: empty model reply")
)
