package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
)

func TestTranslateTxErrorMapsSerializationFailure(t *testing.T) {
	pqErr := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}

	err := translateTxError(fmt.Errorf("update request status: %w", pqErr))
	assert.ErrorIs(t, err, custom_error.ErrConcurrentModification)
}

func TestTranslateTxErrorPassesOtherErrorsThrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("connection refused")},
		{name: "other pq code", err: &pq.Error{Code: "23505"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateTxError(tt.err)
			assert.Equal(t, tt.err, got)
			assert.NotErrorIs(t, got, custom_error.ErrConcurrentModification)
		})
	}
}
