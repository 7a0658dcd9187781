package utils

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/yuin/goldmark"
)

// HttpError provides shorter handling of http error
func HttpError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// Write JSON to buffer first and then if succesfull to the response writer
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	// Encode data to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode JSON response on URI '%s': %v", r.RequestURI, err)
		JSONError(w, r, http.StatusInternalServerError, "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write JSON to response on URI '%s': %v", r.RequestURI, err)
	}
}

// Write JSON error to response.
// The status text is used if the message is empty.
func JSONError(w http.ResponseWriter, r *http.Request, status int, message string) {

	if message == "" {
		message = http.StatusText(status)
	}

	// Craft data
	data := models.JSONErrorData{
		Error: message,
		Code:  status,
	}

	// Encode data to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode JSON 'error' response on URI '%s': %v", r.RequestURI, err)
		HttpError(w, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write JSON 'error' to response on URI '%s': %v", r.RequestURI, err)
	}
}

// Limit on JSON request bodies
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes a single JSON object from the request body.
// Unknown fields and trailing data are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	// dst is left untouched unless the whole body is valid
	var raw json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("invalid JSON body; %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body; unexpected data after the object")
	}

	strict := json.NewDecoder(bytes.NewReader(raw))
	strict.DisallowUnknownFields()
	if err := strict.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body; %w", err)
	}

	return nil
}

// Helper function to convert string pointer or empty string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func PtrToString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var descriptionPolicy = bluemonday.UGCPolicy()

// RenderMarkdown converts markdown to sanitized HTML.
// Empty input gives empty output.
func RenderMarkdown(text string) (string, error) {

	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return "", err
	}

	return descriptionPolicy.Sanitize(buf.String()), nil
}

// Truncate cuts a string to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
