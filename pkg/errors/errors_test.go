package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"wrapped malformed", fmt.Errorf("line 3: %w", ErrMalformedRecord), http.StatusBadRequest},
		{"duplicate title", ErrDuplicateTitle, http.StatusConflict},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"app error overrides", New(ErrInternal, http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"app error without status", New(ErrNotFound, 0, "missing"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrDuplicateTitle, http.StatusConflict, "title %q", "alien")
	assert.ErrorIs(t, err, ErrDuplicateTitle)
	assert.Equal(t, `duplicate movie title: title "alien"`, err.Error())
}
