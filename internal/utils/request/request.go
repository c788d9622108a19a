// Package request decodes JSON request bodies for the handlers.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrEmptyBody is returned when the client sent no body at all.
var ErrEmptyBody = errors.New("request body is empty")

// maxBodyBytes bounds a single record; real records are a few hundred bytes.
const maxBodyBytes = 1 << 20

// DecodeJSON reads r.Body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
