// SPDX-License-Identifier: EPL-2.0

package voxprofile

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/voxprofile/audio"
	"github.com/ik5/voxprofile/classify"
	"github.com/ik5/voxprofile/features"
	"github.com/ik5/voxprofile/formats/wav"
	"github.com/ik5/voxprofile/pcm"
	"github.com/ik5/voxprofile/utils"
)

// DefaultMaxSampleRate caps the rate used for analysis.
const DefaultMaxSampleRate = 22050

// Result is the analysis of one clip.
type Result struct {
	Features       features.Vector  `json:"features" msgpack:"features"`
	Profile        classify.Profile `json:"profile" msgpack:"profile"`
	AudioQuality   float64          `json:"audio_quality" msgpack:"audio_quality"`
	EstimatedWords int              `json:"estimated_words" msgpack:"estimated_words"`
}

// Recording is a finished capture session: its encoded audio plus the
// analysis of it.
type Recording struct {
	SessionID  string
	SampleRate int
	Channels   int
	StartedAt  time.Time
	StoppedAt  time.Time
	Transcript string
	WAV        wav.Artifact
	Result     Result
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithExtractor(e *features.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

func WithClassifier(cfg classify.Config) Option {
	return func(p *Pipeline) { p.classifier = cfg }
}

// WithMaxSampleRate sets the analysis rate cap. Zero or a negative value
// disables downsampling.
func WithMaxSampleRate(rate int) Option {
	return func(p *Pipeline) { p.maxRate = rate }
}

// Pipeline runs extraction and classification. It is safe for concurrent
// use.
type Pipeline struct {
	extractor  *features.Extractor
	classifier classify.Config
	maxRate    int
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:  features.NewExtractor(features.DefaultConfig(), features.DefaultBackend()),
		classifier: classify.DefaultConfig(),
		maxRate:    DefaultMaxSampleRate,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// MaxSampleRate returns the analysis rate cap, 0 when disabled.
func (p *Pipeline) MaxSampleRate() int { return max(p.maxRate, 0) }

var defaultPipeline = New()

// Analyze runs the default pipeline on a mono buffer.
func Analyze(samples []float64, sampleRate int) Result {
	return defaultPipeline.Analyze(samples, sampleRate)
}

// AnalyzeSource runs the default pipeline on a decoded source.
func AnalyzeSource(src audio.Source) (Result, error) {
	return defaultPipeline.AnalyzeSource(src)
}

// Finish runs the default pipeline on a capture session.
func Finish(s *pcm.Session) (Recording, error) {
	return defaultPipeline.Finish(s)
}

// Analyze extracts and classifies a mono buffer. It never fails:
// degenerate audio yields the default feature vector.
func (p *Pipeline) Analyze(samples []float64, sampleRate int) Result {
	if p.maxRate > 0 && sampleRate > p.maxRate {
		samples = audio.Resample(samples, sampleRate, p.maxRate)
		sampleRate = p.maxRate
	}

	v := p.extractor.Extract(samples, sampleRate)
	profile := p.classifier.Classify(v)

	return Result{
		Features:       v,
		Profile:        profile,
		AudioQuality:   profile.AudioQuality(),
		EstimatedWords: classify.EstimatedWords(v.Duration),
	}
}

// AnalyzeSource drains src, mixes it to mono and analyses it. The caller
// still owns src and must close it.
func (p *Pipeline) AnalyzeSource(src audio.Source) (Result, error) {
	samples, rate, err := audio.ReadMono(src, p.maxRate)
	if err != nil {
		return Result{}, fmt.Errorf("decoding source: %w", err)
	}

	return p.Analyze(samples, rate), nil
}

// Finish stops s if it is still running, then encodes its frames and
// analyses them concurrently. On success the session frames are released.
func (p *Pipeline) Finish(s *pcm.Session) (Recording, error) {
	s.Stop("")

	samples, err := s.Samples()
	if err != nil {
		return Recording{}, fmt.Errorf("session %s: %w", s.ID(), err)
	}

	var (
		wg        sync.WaitGroup
		artifact  wav.Artifact
		encodeErr error
		result    Result
	)

	wg.Go(func() {
		artifact, encodeErr = wav.Encode(samples, s.SampleRate(), s.Channels())
	})
	wg.Go(func() {
		result = p.Analyze(downmix(samples, s.Channels()), s.SampleRate())
	})
	wg.Wait()

	if encodeErr != nil {
		return Recording{}, fmt.Errorf("session %s: %w", s.ID(), encodeErr)
	}

	s.Release()

	return Recording{
		SessionID:  s.ID(),
		SampleRate: s.SampleRate(),
		Channels:   s.Channels(),
		StartedAt:  s.StartedAt(),
		StoppedAt:  s.StoppedAt(),
		Transcript: s.Transcript(),
		WAV:        artifact,
		Result:     result,
	}, nil
}

// downmix averages interleaved frames into normalised mono samples.
func downmix(samples []int16, channels int) []float64 {
	channels = max(channels, 1)
	frames := len(samples) / channels

	out := make([]float64, frames)
	for i := range out {
		sum := 0.0
		for _, v := range samples[i*channels : (i+1)*channels] {
			sum += utils.Int16ToFloat64(v)
		}
		out[i] = sum / float64(channels)
	}

	return out
}

// ResampleToMono16 drains src into mono 16-bit PCM at targetRate, the
// layout used when storing uploaded clips. A non-positive targetRate keeps
// the source rate.
func ResampleToMono16(src audio.Source, targetRate int) ([]int16, int, error) {
	samples, rate, err := audio.ReadMono(src, 0)
	if err != nil {
		return nil, 0, err
	}

	if targetRate > 0 && targetRate != rate {
		samples = audio.Resample(samples, rate, targetRate)
		rate = targetRate
	}

	pcm16 := make([]int16, len(samples))
	for i, v := range samples {
		pcm16[i] = utils.Float32ToInt16(float32(v))
	}

	return pcm16, rate, nil
}
