// SPDX-License-Identifier: EPL-2.0

package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ik5/voxprofile/audio"
	"github.com/ik5/voxprofile/formats"
)

// analysisRecord is a stored upload analysis.
type analysisRecord struct {
	ID        string    `json:"id" msgpack:"id"`
	UserID    string    `json:"user_id,omitempty" msgpack:"user_id"`
	Filename  string    `json:"filename" msgpack:"filename"`
	Format    string    `json:"format" msgpack:"format"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
	Report    Report    `json:"report" msgpack:"report"`
}

type analyzeResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Format  string `json:"format"`
	Report
}

// handleAnalyze analyses an uploaded clip in any supported container.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("audio_file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("no audio file provided"))
		return
	}
	defer file.Close()

	src, format, err := formats.Decode(file)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, audio.ErrUnknownFormat) || errors.Is(err, audio.ErrEmptyInput) {
			status = http.StatusUnsupportedMediaType
		}
		s.writeError(w, status, err)
		return
	}
	defer src.Close()

	res, err := s.pipeline.AnalyzeSource(src)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	userID := r.FormValue("user_id")
	now := s.now()

	rec := analysisRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Filename:  hdr.Filename,
		Format:    format,
		CreatedAt: now.UTC(),
	}
	rep, err := s.report(r.Context(), userID, res, res.EstimatedWords, now, func(rep Report) error {
		rec.Report = rep
		if err := s.records.Put(r.Context(), kindAnalysis, rec.ID, rec); err != nil {
			return fmt.Errorf("saving analysis: %w", err)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.log.Info("clip analysed",
		zap.String("id", rec.ID),
		zap.String("format", format),
		zap.String("gender", string(rep.Gender)),
		zap.String("age", string(rep.Age)),
		zap.Float64("duration", rep.Features.Duration),
	)

	s.writeJSON(w, http.StatusOK, analyzeResponse{Success: true, ID: rec.ID, Format: format, Report: rep})
}
