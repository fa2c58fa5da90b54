// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/voxprofile/formats/wav"
	"github.com/ik5/voxprofile/utils"
)

type encodeOptions struct {
	rate     int
	channels int
	format   string
}

func newEncodeCmd() *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode <in.pcm> <out.wav>",
		Short: "Wrap raw little-endian PCM into a 16-bit WAV file",
		Long: `Wrap raw little-endian PCM into a 16-bit WAV file.

Input samples are interleaved. f32 input is expected in [-1, 1] and is
converted to 16-bit; s16 input is copied as is.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().IntVarP(&opts.rate, "rate", "r", 48000, "sample rate in Hz")
	cmd.Flags().IntVar(&opts.channels, "channels", 1, "number of interleaved channels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "f32", "input sample format: f32 or s16")

	return cmd
}

// parsePCM decodes raw little-endian samples.
func parsePCM(data []byte, format string) ([]int16, error) {
	switch format {
	case "s16":
		if len(data)%2 != 0 {
			return nil, fmt.Errorf("s16 input of %d bytes is not sample aligned", len(data))
		}
		out := make([]int16, len(data)/2)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
		}
		return out, nil
	case "f32":
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("f32 input of %d bytes is not sample aligned", len(data))
		}
		floats := make([]float32, len(data)/4)
		for i := range floats {
			floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		}
		return utils.Float32sToInt16s(nil, floats), nil
	default:
		return nil, fmt.Errorf("unknown sample format %q (want f32 or s16)", format)
	}
}

func runEncode(cmd *cobra.Command, opts *encodeOptions, in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	samples, err := parsePCM(data, opts.format)
	if err != nil {
		return err
	}

	artifact, err := wav.Encode(samples, opts.rate, opts.channels)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err := artifact.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	h := artifact.Header()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d Hz, %d ch, %d data bytes\n", out, h.SampleRate, h.NumChannels, h.DataSize)

	return nil
}
