package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/internal/service"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps service and game-rule errors to HTTP responses.
// Rule rejections carry the underlying cause as "code".
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *hexgame.ValidationError
	var ie *hexgame.IntegrityError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrMintNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidSession):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotHumanTurn):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &ie):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": ie.Error(), "code": "integrity"})
	case errors.As(err, &ve):
		code := ""
		if ve.Err != nil {
			code = ve.Err.Error()
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": ve.Error(), "code": code})
	case errors.Is(err, rarity.ErrRarityTimeout), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
