// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/voxprofile/formats/wav"
)

func ExampleEncode() {
	art, err := wav.Encode([]int16{0, -32768}, 8000, 1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	h := art.Header()
	fmt.Println(art.Len(), h.ChunkSize, h.ByteRate, h.BlockAlign, h.DataSize)
	// Output: 48 40 16000 2 4
}

func ExampleEncode_invalidInput() {
	_, err := wav.Encode([]int16{1, 2, 3}, 8000, 2)
	fmt.Println(errors.Is(err, wav.ErrInvalidInput))
	// Output: true
}

func ExampleReadPCM16() {
	art, _ := wav.Encode([]int16{10, 20, 30, 40}, 16000, 2)

	pcm, err := wav.ReadPCM16(bytes.NewReader(art.Bytes()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(pcm.SampleRate, pcm.Channels, pcm.Samples)
	// Output: 16000 2 [10 20 30 40]
}
