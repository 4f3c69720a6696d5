package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"example.com/golfbuddy/internal/social"
	"github.com/go-chi/chi/v5"
)

const msgInternal = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logg.Error("Failed to encode response", err)
	}
}

// fail maps a service error onto a status code and message.
func fail(w http.ResponseWriter, route string, err error) {
	var nf *social.NotFoundError
	var ve *social.ValidationError
	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusBadRequest, nf.Message)
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, social.ErrNotAuthor):
		writeJSON(w, http.StatusBadRequest, social.MsgNotAuthor)
	default:
		logg.Error(route+": request failed", err)
		writeJSON(w, http.StatusInternalServerError, msgInternal)
	}
}

// reply writes a completed operation. No-op outcomes are still 200.
func reply(w http.ResponseWriter, route string, out social.Outcome, err error) {
	if err != nil {
		fail(w, route, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Message)
}

// pathID reads a numeric path parameter. Anything else yields 0, which never
// names a stored row.
func pathID(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// bodyString returns a string member of the JSON body, or nil when the body
// is not an object or the member is absent or not a string.
func bodyString(r *http.Request, key string) *string {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil
	}
	raw, ok := body[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// flexibleID accepts 7 and "7".
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexibleID(id)
	return nil
}
