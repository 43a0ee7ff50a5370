package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

// Error codes returned in JSON error bodies.
const (
	ErrCodeInvalidRequest       = "invalid_request"
	ErrCodeInvalidLevel         = "invalid_level"
	ErrCodeNoLevelSelected      = "no_level_selected"
	ErrCodeLevelAlreadySelected = "level_already_selected"
	ErrCodeGameWon              = "game_won"
	ErrCodeInternal             = "internal_error"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError writes a JSON error with the given status and code.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// respondGameError maps a game contract error to its HTTP status and code.
func respondGameError(w http.ResponseWriter, err error) {
	status, code := gameErrorStatus(err)
	RespondError(w, status, code, err.Error())
}

func gameErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, drill.ErrInvalidLevel):
		return http.StatusBadRequest, ErrCodeInvalidLevel
	case errors.Is(err, drill.ErrNoLevelSelected):
		return http.StatusConflict, ErrCodeNoLevelSelected
	case errors.Is(err, drill.ErrLevelAlreadySelected):
		return http.StatusConflict, ErrCodeLevelAlreadySelected
	case errors.Is(err, drill.ErrGameWon):
		return http.StatusConflict, ErrCodeGameWon
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
