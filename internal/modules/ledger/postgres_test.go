package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestAppendErr(t *testing.T) {
	orderID := uuid.New()
	withOrder := &Entry{ID: uuid.New(), ProfileID: uuid.New(), OrderID: &orderID}
	withoutOrder := &Entry{ID: uuid.New(), ProfileID: uuid.New()}
	fk := &pq.Error{Code: foreignKeyViolation, Constraint: "ledger_entries_order_id_fkey"}

	err := appendErr(fk, withOrder)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Contains(t, errs.Detail(err), orderID.String())

	// apply wraps the store error, the kind must survive it
	wrapped := fmt.Errorf("append ledger entry: %w", err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(wrapped))

	assert.Same(t, fk, appendErr(fk, withoutOrder))

	other := &pq.Error{Code: "23514"}
	assert.Same(t, other, appendErr(other, withOrder))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, appendErr(plain, withOrder))
	assert.NoError(t, appendErr(nil, withOrder))
}
