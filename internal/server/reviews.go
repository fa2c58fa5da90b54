// SPDX-License-Identifier: EPL-2.0

package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ik5/voxprofile/progress"
	"github.com/ik5/voxprofile/storage"
	"github.com/ik5/voxprofile/utils"
)

// review is a user's star rating of a session.
type review struct {
	ID                   string         `json:"id" msgpack:"id"`
	UserID               string         `json:"user_id,omitempty" msgpack:"user_id" validate:"omitempty,max=128"`
	TranscriptionQuality int            `json:"transcription_quality" msgpack:"transcription_quality" validate:"required,min=1,max=5"`
	UI                   int            `json:"ui" msgpack:"ui" validate:"required,min=1,max=5"`
	Accuracy             int            `json:"accuracy" msgpack:"accuracy" validate:"required,min=1,max=5"`
	Average              float64        `json:"average" msgpack:"average"`
	GameData             map[string]any `json:"gameData,omitempty" msgpack:"game_data"`
	CreatedAt            time.Time      `json:"created_at" msgpack:"created_at"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var rv review
	if err := decodeAndValidate(w, r, s.maxUpload, &rv); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	rv.ID = uuid.NewString()
	rv.CreatedAt = s.now().UTC()
	rv.Average = utils.Round2(float64(rv.TranscriptionQuality+rv.UI+rv.Accuracy) / 3)

	if err := s.records.Put(r.Context(), kindReview, rv.ID, rv); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("saving review: %w", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": rv.ID, "average": rv.Average})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	state, err := s.progress.Load(r.Context(), userID)
	if errors.Is(err, storage.ErrInvalidKey) {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user_id":      userID,
		"progress":     state,
		"achievements": progress.Catalog(),
	})
}
