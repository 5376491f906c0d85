package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any) {
	out, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("failed to marshal response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		logger.WithError(err).Error("failed to write response")
	}
}

func writeValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// parsePagination reads page/size query parameters with the spec
// bounds: page >= 1, size clamped to 1..100, default 50.
func parsePagination(r *http.Request) (page, size int) {
	q := r.URL.Query()

	page = 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 1 {
		page = v
	}

	size = defaultPageSize
	if v, err := strconv.Atoi(q.Get("size")); err == nil {
		switch {
		case v < 1:
			size = 1
		case v > maxPageSize:
			size = maxPageSize
		default:
			size = v
		}
	}
	return page, size
}

func totalPages(total, size int) int {
	return (total + size - 1) / size
}
