package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeAndMessage(t *testing.T) {
	driverErr := errors.New(`pq: numeric field overflow`)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid price", New(KindInvalidPrice, "price must be greater than zero, got 0"), http.StatusBadRequest, "price must be greater than zero, got 0"},
		{"wrapped not found", fmt.Errorf("load: %w", New(KindNotFound, "order not found")), http.StatusNotFound, "order not found"},
		{"illegal", New(KindIllegalTransition, "cannot confirm"), http.StatusConflict, "cannot confirm"},
		{"insufficient", New(KindInsufficientPoints, "have 1, need 2"), http.StatusUnprocessableEntity, "have 1, need 2"},
		{"driver error", fmt.Errorf("insert item: %w", driverErr), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusCode(tt.err))
			assert.Equal(t, tt.message, Message(tt.err))
		})
	}
	assert.Contains(t, Detail(driverErr), "numeric field overflow")
}
