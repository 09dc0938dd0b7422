package testutil

import (
	"context"

	domain "github.com/socialdesk/socialdesk/internal/domain/pdf"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/pdf"
	"github.com/stretchr/testify/mock"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

type MockPDFGenerator struct {
	logger *logger.Logger
	mock.Mock
}

// RenderInvoicePdf implements pdf.Generator.
func (m *MockPDFGenerator) RenderInvoicePdf(ctx context.Context, data *domain.InvoiceData) ([]byte, error) {
	args := m.Called(ctx, data)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func NewMockPDFGenerator(logger *logger.Logger) *MockPDFGenerator {
	return &MockPDFGenerator{
		logger: logger,
	}
}
