package middlewares

import (
	"bytes"
	"log"
	"net/http"
	"strings"
)

// A custom http.ResponseWriter that captures the status code
// and the body of the response. This allows the middleware to inspect the
// response from the next handler before writing it to the client.
type responseRecorder struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
}

// Creates a new responseRecorder
func NewResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		status:         http.StatusOK, // Default to 200 OK
	}
}

// Captures the response status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
}

// Captures the response body.
func (r *responseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

// Sends the captured response (or a modified one) to the client.
func (r *responseRecorder) flush() {
	r.ResponseWriter.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, err := r.ResponseWriter.Write(r.body.Bytes())
		if err != nil {
			// Too late for recovery here, just log the error
			log.Printf("Error writing response body: %v", err)
		}
	}
}

// statusWriter passes the response through, remembering the status and size
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(statusCode int) {
	sw.status = statusCode
	sw.ResponseWriter.WriteHeader(statusCode)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

func isJSON(h http.Header) bool {
	return strings.HasPrefix(h.Get("Content-Type"), "application/json")
}

// Probes and such don't need a session
func needsSession(r *http.Request) bool {
	return r.URL.Path != "/healthcheck"
}
