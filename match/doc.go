// SPDX-License-Identifier: EPL-2.0

// Package match pairs a classified voice with a well known voice from a
// small catalog. The pairing is produced by a chat completion model; any
// failure degrades to Fallback.
package match
