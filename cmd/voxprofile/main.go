// SPDX-License-Identifier: EPL-2.0

// Command voxprofile analyses voice recordings and serves the capture API.
//
// Usage:
//
//	voxprofile [flags] <command> [args]
//
// Commands:
//
//	serve    - run the HTTP and WebSocket server
//	analyze  - analyse an audio file (wav, mp3, ogg vorbis, aiff)
//	encode   - wrap raw PCM into a WAV file
//	version  - show version information
package main

import (
	"fmt"
	"os"

	"github.com/ik5/voxprofile/cmd/voxprofile/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
