// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis uploads via github.com/jfreymuth/oggvorbis.
package vorbis
