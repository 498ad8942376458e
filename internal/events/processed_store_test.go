package events

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*ProcessedStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewProcessedStoreWithExecer(mock), mock
}

func TestMarkProcessedFreshID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO processed_messages").
		WithArgs("wamid.ONE").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	fresh, err := store.MarkProcessed(context.Background(), "wamid.ONE")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkProcessedDuplicateID(t *testing.T) {
	store, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING reports zero affected rows for a replay.
	mock.ExpectExec("INSERT INTO processed_messages").
		WithArgs("wamid.ONE").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	fresh, err := store.MarkProcessed(context.Background(), "wamid.ONE")
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestMarkProcessedPropagatesError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO processed_messages").
		WithArgs("wamid.ONE").
		WillReturnError(errors.New("connection reset"))

	_, err := store.MarkProcessed(context.Background(), "wamid.ONE")
	assert.Error(t, err)
}
