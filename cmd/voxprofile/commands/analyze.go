// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/voxprofile"
	"github.com/ik5/voxprofile/formats"
	"github.com/ik5/voxprofile/internal/config"
	"github.com/ik5/voxprofile/internal/logging"
	"github.com/ik5/voxprofile/match"
)

type analyzeOptions struct {
	match   bool
	json    bool
	maxRate int
}

type analyzeOutput struct {
	File   string            `json:"file"`
	Format string            `json:"format"`
	Result voxprofile.Result `json:"result"`
	Match  *match.Result     `json:"match,omitempty"`
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	aopts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyse an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, aopts, args[0])
		},
	}

	cmd.Flags().BoolVar(&aopts.match, "match", false, "pair the voice with a well known one (needs GROQ_API_KEY)")
	cmd.Flags().BoolVar(&aopts.json, "json", false, "print JSON")
	cmd.Flags().IntVar(&aopts.maxRate, "max-rate", voxprofile.DefaultMaxSampleRate, "downsample above this rate before analysis, 0 to disable")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *options, aopts *analyzeOptions, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src, format, err := formats.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer src.Close()

	res, err := voxprofile.New(voxprofile.WithMaxSampleRate(aopts.maxRate)).AnalyzeSource(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := analyzeOutput{File: path, Format: format, Result: res}

	if aopts.match {
		m, err := matchResult(cmd, opts, res)
		if err != nil {
			return err
		}
		out.Match = &m
	}

	if aopts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printAnalysis(cmd.OutOrStdout(), out)

	return nil
}

func matchResult(cmd *cobra.Command, opts *options, res voxprofile.Result) (match.Result, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return match.Result{}, err
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	log, err := logging.New(level, true)
	if err != nil {
		return match.Result{}, err
	}
	defer log.Sync()

	m, err := newMatcher(cfg.Matcher, log)
	if err != nil {
		return match.Result{}, err
	}

	p := res.Profile
	r, err := match.Resolve(cmd.Context(), m, match.Request{
		Gender:     p.Gender,
		Age:        p.Age,
		Scores:     p.Scores,
		PitchMean:  res.Features.PitchMean,
		PitchRange: res.Features.PitchRange,
	})
	if err != nil {
		log.Warn("voice match failed, using fallback", zap.Error(err))
	}

	return r, nil
}

func printAnalysis(w io.Writer, out analyzeOutput) {
	r := out.Result
	p := r.Profile
	s := p.Scores

	fmt.Fprintf(w, "file:       %s (%s, %.1fs)\n", out.File, out.Format, r.Features.Duration)
	fmt.Fprintf(w, "gender:     %s (%.1f%%)\n", p.Gender, p.GenderConfidence)
	fmt.Fprintf(w, "age:        %s (%.0f%%)\n", p.Age, p.AgeConfidence)
	fmt.Fprintf(w, "pitch:      mean %.1f Hz, median %.1f Hz, range %.1f Hz\n",
		r.Features.PitchMean, r.Features.PitchMedian, r.Features.PitchRange)
	fmt.Fprintf(w, "quality:    %.1f\n", r.AudioQuality)
	fmt.Fprintf(w, "words:      ~%d\n", r.EstimatedWords)
	fmt.Fprintf(w, "scores:     bass %.1f  treble %.1f  clarity %.1f  smoothness %.1f\n",
		s.Bass, s.Treble, s.Clarity, s.Smoothness)
	fmt.Fprintf(w, "            power %.1f  warmth %.1f  richness %.1f  variation %.1f\n",
		s.Power, s.Warmth, s.Richness, s.PitchVariation)

	if m := out.Match; m != nil {
		fmt.Fprintf(w, "match:      %s (%.0f%%)\n", m.Name, m.MatchPercentage)
		fmt.Fprintf(w, "            %s\n", m.Description)
		fmt.Fprintf(w, "fun fact:   %s\n", m.FunFact)
		fmt.Fprintf(w, "standout:   %s\n", m.StandoutQuality)
	}
}
