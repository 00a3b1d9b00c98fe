package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/makerburg/makerburg/internal/apperror"
)

func TestWriteError_MapsDomainErrorsToStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "validation",
			err:        apperror.ValidationFailed("email", "email is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name:       "not found",
			err:        apperror.NotFound("story", "s9"),
			wantStatus: http.StatusNotFound,
			wantType:   "not_found",
		},
		{
			name:       "unauthorized",
			err:        apperror.Unauthorized("invalid email or password"),
			wantStatus: http.StatusUnauthorized,
			wantType:   "unauthorized",
		},
		{
			name:       "conflict",
			err:        apperror.Conflict("an account with this email already exists"),
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name:       "wrapped still maps",
			err:        fmt.Errorf("registering: %w", apperror.Conflict("taken")),
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name:       "persistence is an internal error",
			err:        apperror.Persistence("writing saved set", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
		},
		{
			name:       "unknown error",
			err:        errors.New("select * from secrets failed"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Error != tt.wantType {
				t.Errorf("error type = %q, want %q", body.Error, tt.wantType)
			}
			if body.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestWriteError_NeverLeaksInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("sql: SELECT password_hash FROM users WHERE ..."))

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Message != "An internal error occurred" {
		t.Errorf("message = %q - raw internals must not reach the client", body.Message)
	}
}
