package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

var (
	errFakeBatchResultsQuery = errors.New("Query not implemented in fakeBatchResults")
	errFakeBatchRowScan      = errors.New("Scan not implemented in fakeBatchRow")
	errBoom                  = errors.New("boom")
	errCloseFailed           = errors.New("close failed")
)

type fakeBatchResults struct {
	execCalls int
	execErrAt int
	execErr   error

	closeCalls int
	closeErr   error
}

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	defer func() { f.execCalls++ }()

	if f.execErr != nil && f.execCalls == f.execErrAt {
		return pgconn.CommandTag{}, f.execErr
	}

	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeBatchResults) Query() (pgx.Rows, error) {
	return nil, errFakeBatchResultsQuery
}

type fakeBatchRow struct{}

func (fakeBatchRow) Scan(...any) error { return errFakeBatchRowScan }

func (f *fakeBatchResults) QueryRow() pgx.Row {
	return fakeBatchRow{}
}

func (f *fakeBatchResults) Close() error {
	f.closeCalls++
	return f.closeErr
}

type senderFunc func(context.Context, *pgx.Batch) pgx.BatchResults

func (f senderFunc) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return f(ctx, b)
}

func TestSendBatchExecAllEmptyBatchDoesNotSend(t *testing.T) {
	err := SendBatchExecAll(context.Background(), senderFunc(func(context.Context, *pgx.Batch) pgx.BatchResults {
		t.Fatalf("SendBatch should not be called for empty batch")
		return nil
	}), &pgx.Batch{}, "test")
	require.NoError(t, err)
}

func TestSendBatchExecAllExecErrorIncludesCommandIndexAndCloses(t *testing.T) {
	batch := &pgx.Batch{}
	batch.Queue("SELECT 1")
	batch.Queue("SELECT 2")
	batch.Queue("SELECT 3")

	br := &fakeBatchResults{execErrAt: 1, execErr: errBoom}

	err := SendBatchExecAll(context.Background(), senderFunc(func(context.Context, *pgx.Batch) pgx.BatchResults {
		return br
	}), batch, "op-name")
	require.ErrorIs(t, err, errBoom)
	require.Contains(t, err.Error(), "op-name batch exec (command 1)")
	require.Equal(t, 1, br.closeCalls)
	require.Equal(t, 2, br.execCalls)
}

func TestSendBatchExecAllCloseErrorReturnedWhenExecSucceeds(t *testing.T) {
	batch := &pgx.Batch{}
	batch.Queue("SELECT 1")

	br := &fakeBatchResults{closeErr: errCloseFailed}

	err := SendBatchExecAll(context.Background(), senderFunc(func(context.Context, *pgx.Batch) pgx.BatchResults {
		return br
	}), batch, "op-name")
	require.ErrorIs(t, err, errCloseFailed)
	require.Contains(t, err.Error(), "op-name batch close: close failed")
	require.Equal(t, 1, br.closeCalls)
}
