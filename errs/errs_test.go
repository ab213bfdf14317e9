package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApiErrUnwrapsSentinels(t *testing.T) {
	err := NewAlreadyExists("username")
	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, http.StatusConflict, err.StatusCode)

	notFound := NewNotFound("post")
	assert.True(t, IsNotFound(notFound))
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestGetFullErrorIncludesCauseChain(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewDatabaseError("create", "post", cause)

	assert.Contains(t, err.GetFullError(), "disk on fire")
}

func TestNewDatabaseErrorMapsCauses(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
	}{
		{"postgres duplicate", errors.New(`duplicate key value violates unique constraint "idx_users_username"`), http.StatusConflict},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: users.username"), http.StatusConflict},
		{"foreign key", errors.New("insert violates foreign key constraint"), http.StatusBadRequest},
		{"not found", errors.New("record not found"), http.StatusNotFound},
		{"connection", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"generic", errors.New("syntax error"), http.StatusInternalServerError},
		{"nil cause", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "user", tt.cause)
			assert.Equal(t, tt.wantStatus, err.StatusCode)
		})
	}
}

func TestInvalidFieldErrorCarriesField(t *testing.T) {
	err := NewInvalidFieldError("email", "email")
	assert.Equal(t, "email", err.Field)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Contains(t, err.Error(), "email")
}
