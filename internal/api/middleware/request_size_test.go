package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestSize(t *testing.T) {
	tests := []struct {
		name         string
		maxBytes     int64
		bodySize     int
		expectStatus int
	}{
		{"small request accepted", 1024, 512, http.StatusOK},
		{"exact limit accepted", 1024, 1024, http.StatusOK},
		{"oversized request rejected", 1024, 2048, http.StatusRequestEntityTooLarge},
		{"default limit", DefaultMaxBodySize, int(DefaultMaxBodySize) + 1, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequestSize(tt.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				assert.Len(t, body, tt.bodySize)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(bytes.Repeat([]byte("x"), tt.bodySize)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
		})
	}
}
