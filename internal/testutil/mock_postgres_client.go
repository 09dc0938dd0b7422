package testutil

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactional callbacks without a database
type MockPostgresClient struct {
	logger *logger.Logger
	// TxCount is the number of outermost transactions started
	TxCount int
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// If we're already in a transaction, reuse it
	if ctx.Value(types.CtxDBTransaction) != nil {
		return fn(ctx)
	}

	c.TxCount++
	return fn(context.WithValue(ctx, types.CtxDBTransaction, true))
}
