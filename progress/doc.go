// SPDX-License-Identifier: EPL-2.0

// Package progress keeps per-user gamification state: experience points,
// levels, daily streaks and achievements earned from analysed recordings.
package progress
