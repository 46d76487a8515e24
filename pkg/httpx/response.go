package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/logger"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

// RespondNoContent sends an empty 204
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondErrorMessage sends an error response with an explicit status
func RespondErrorMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondError maps err to its status code and sends it. Internal errors are
// logged and replaced by a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := exceptions.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}
	RespondErrorMessage(w, status, exceptions.PublicMessage(err))
}

// MaxJSONBody caps JSON request bodies. Recipes carry their image inline as
// base64, so the limit is sized for that.
const MaxJSONBody = 10 << 20

// DecodeJSON decodes at most MaxJSONBody bytes of the request body into dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, MaxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return exceptions.InvalidInput("Тело запроса слишком большое")
		}
		return exceptions.InvalidInput("Некорректное тело запроса")
	}
	return nil
}

// PathID parses a numeric path variable
func PathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, exceptions.NotFound("Страница не найдена")
	}
	return uint(id), nil
}
