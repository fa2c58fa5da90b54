// SPDX-License-Identifier: EPL-2.0

package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ik5/voxprofile"
	"github.com/ik5/voxprofile/formats/wav"
	"github.com/ik5/voxprofile/pcm"
	"github.com/ik5/voxprofile/storage"
)

// recordingRecord is the stored metadata of a saved recording. The audio
// lives in the blob store under Key.
type recordingRecord struct {
	ID         string    `json:"id" msgpack:"id"`
	UserID     string    `json:"user_id,omitempty" msgpack:"user_id"`
	Key        string    `json:"filename" msgpack:"key"`
	SampleRate int       `json:"sample_rate" msgpack:"sample_rate"`
	Channels   int       `json:"channels" msgpack:"channels"`
	Duration   float64   `json:"duration" msgpack:"duration"`
	Transcript string    `json:"transcript" msgpack:"transcript"`
	WordCount  int       `json:"word_count" msgpack:"word_count"`
	Quality    float64   `json:"quality" msgpack:"quality"`
	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
	Analysis   Report    `json:"voice_analysis" msgpack:"analysis"`
}

type createRecordingRequest struct {
	// Audio is a base64 WAV file, optionally as a data URL.
	Audio      string  `json:"audio" validate:"required"`
	Transcript string  `json:"transcript"`
	Quality    float64 `json:"quality" validate:"gte=0,lte=10"`
	UserID     string  `json:"user_id" validate:"omitempty,max=128,excludesall=/"`
}

type recordingResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	Compatible bool   `json:"compatible"`
	WordCount  int    `json:"word_count"`
	Analysis   Report `json:"voice_analysis"`
}

// wordCount counts whitespace separated words.
func wordCount(transcript string) int {
	return len(strings.Fields(transcript))
}

// decodeAudioPayload accepts plain base64 or a data URL.
func decodeAudioPayload(s string) ([]byte, error) {
	if _, data, ok := strings.Cut(s, ","); ok {
		s = data
	}

	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio: %w", err)
	}

	return b, nil
}

func formatLabel(rate, channels int) string {
	layout := "Mono"
	if channels == 2 {
		layout = "Stereo"
	} else if channels > 2 {
		layout = fmt.Sprintf("%d channels", channels)
	}

	return fmt.Sprintf("WAV (16-bit PCM, %d Hz, %s)", rate, layout)
}

// handleCreateRecording stores a WAV recording made by the browser client
// and analyses it.
func (s *Server) handleCreateRecording(w http.ResponseWriter, r *http.Request) {
	var req createRecordingRequest
	if err := decodeAndValidate(w, r, s.maxUpload, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := decodeAudioPayload(req.Audio)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	clip, err := wav.ReadPCM16(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("audio: %w", err))
		return
	}

	session, err := pcm.New(clip.SampleRate, clip.Channels)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := session.AppendPCM(clip.Samples); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	session.Stop(req.Transcript)

	rec, err := s.pipeline.Finish(session)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	saved, err := s.saveRecording(r.Context(), rec, req.UserID, req.Quality)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, recordingResponse{
		Success:    true,
		ID:         saved.ID,
		Filename:   saved.Key,
		Format:     formatLabel(saved.SampleRate, saved.Channels),
		Compatible: true,
		WordCount:  saved.WordCount,
		Analysis:   saved.Analysis,
	})
}

// saveRecording stores the audio and metadata of a finished recording and
// books its progress. Live capture and uploads share it.
func (s *Server) saveRecording(ctx context.Context, rec voxprofile.Recording, userID string, quality float64) (recordingRecord, error) {
	words := wordCount(rec.Transcript)
	credited := words
	if credited == 0 {
		credited = rec.Result.EstimatedWords
	}

	saved := recordingRecord{
		ID:         rec.SessionID,
		UserID:     userID,
		Key:        storage.RecordingKey(rec.SessionID, rec.StoppedAt),
		SampleRate: rec.SampleRate,
		Channels:   rec.Channels,
		Duration:   rec.Result.Features.Duration,
		Transcript: rec.Transcript,
		WordCount:  words,
		Quality:    quality,
		CreatedAt:  rec.StoppedAt.UTC(),
	}

	if err := s.blobs.Put(ctx, saved.Key, rec.WAV.Bytes(), "audio/wav"); err != nil {
		return recordingRecord{}, fmt.Errorf("saving audio: %w", err)
	}

	// once the record is written it owns the blob
	stored := false
	_, err := s.report(ctx, userID, rec.Result, credited, rec.StoppedAt, func(rep Report) error {
		saved.Analysis = rep
		if err := s.records.Put(ctx, kindRecording, saved.ID, saved); err != nil {
			return fmt.Errorf("saving recording: %w", err)
		}
		stored = true
		return nil
	})
	if err != nil {
		if !stored {
			if derr := s.blobs.Delete(context.WithoutCancel(ctx), saved.Key); derr != nil {
				s.log.Warn("removing orphaned audio", zap.String("key", saved.Key), zap.Error(derr))
			}
		}
		return recordingRecord{}, err
	}

	s.log.Info("recording saved",
		zap.String("id", saved.ID),
		zap.String("key", saved.Key),
		zap.Int("bytes", rec.WAV.Len()),
		zap.Int("words", words),
		zap.String("gender", string(saved.Analysis.Gender)),
	)

	return saved, nil
}

func (s *Server) loadRecording(w http.ResponseWriter, r *http.Request) (recordingRecord, bool) {
	id := mux.Vars(r)["id"]

	var rec recordingRecord
	err := s.records.Get(r.Context(), kindRecording, id, &rec)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, fmt.Errorf("recording %s not found", id))
		return rec, false
	case errors.Is(err, storage.ErrInvalidKey):
		s.writeError(w, http.StatusBadRequest, err)
		return rec, false
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
		return rec, false
	}

	return rec, true
}

func (s *Server) handleGetRecording(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecording(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "recording": rec})
}

func (s *Server) handleGetRecordingAudio(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecording(w, r)
	if !ok {
		return
	}

	data, err := s.blobs.Get(r.Context(), rec.Key)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("audio of recording %s not found", rec.ID))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Key[strings.LastIndex(rec.Key, "/")+1:]))
	http.ServeContent(w, r, "", rec.CreatedAt, bytes.NewReader(data))
}
