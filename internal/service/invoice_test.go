package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service InvoiceService
	pdf     *testutil.MockPDFGenerator
	s3      *testutil.InMemoryS3
	sub     *subscription.Subscription
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.pdf = testutil.NewMockPDFGenerator(s.GetLogger())
	s.pdf.On("RenderInvoicePdf", mock.Anything, mock.Anything).Return([]byte("%PDF-1.4"), nil).Maybe()
	s.s3 = testutil.NewInMemoryS3()

	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.params.PDFGenerator = s.pdf
	s.params.S3 = s.s3
	s.params.Email = s.GetEmail()
	s.service = NewInvoiceService(s.params)

	s.SeedTenant()
	s.SeedPlan("pro", "49", nil)

	now := s.GetNow()
	s.sub = &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanCode:           "pro",
		SubscriptionStatus: types.SubscriptionStatusActive,
		Quantity:           3,
		Currency:           "USD",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().SubRepo.Create(s.GetContext(), s.sub))
}

func (s *InvoiceServiceSuite) TestGenerateAppliesTax() {
	tests := []struct {
		name      string
		country   string
		wantTax   string
		wantTotal string
	}{
		{name: "default rate", country: "IN", wantTax: "26.46", wantTotal: "173.46"},
		{name: "country override", country: "GB", wantTax: "29.4", wantTotal: "176.4"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), types.DefaultTenantID)
			s.Require().NoError(err)
			t.Country = tt.country
			s.Require().NoError(s.GetStores().TenantRepo.Update(s.GetContext(), t))

			resp, err := s.service.GenerateForSubscription(s.GetContext(), s.sub)
			s.Require().NoError(err)
			s.Equal(types.InvoiceStatusIssued, resp.InvoiceStatus)
			s.True(decimal.RequireFromString("147").Equal(resp.Subtotal), resp.Subtotal.String())
			s.True(decimal.RequireFromString(tt.wantTax).Equal(resp.TaxAmount), resp.TaxAmount.String())
			s.True(decimal.RequireFromString(tt.wantTotal).Equal(resp.Total), resp.Total.String())
			s.Require().Len(resp.LineItems, 1)
			s.True(decimal.NewFromInt(3).Equal(resp.LineItems[0].Quantity))
		})
	}
}

func (s *InvoiceServiceSuite) TestGenerateSendsEmailWithStoredPdf() {
	resp, err := s.service.GenerateForSubscription(s.GetContext(), s.sub)
	s.Require().NoError(err)

	sent := s.GetEmailSender().Sent
	s.Require().Len(sent, 1)
	s.Equal("billing@acme.test", sent[0].To)
	s.Contains(sent[0].Subject, resp.InvoiceNumber)

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.NotEmpty(stored.PDFObjectKey)

	exists, err := s.s3.Exists(s.GetContext(), stored.PDFObjectKey, "invoice")
	s.NoError(err)
	s.True(exists)
	s.True(s.GetPublisher().HasEvent(types.SystemEventInvoiceIssued))
}

func (s *InvoiceServiceSuite) TestDownloadURLRendersOnce() {
	s.params.Email = nil
	svc := NewInvoiceService(s.params)

	inv, err := svc.GenerateForSubscription(s.GetContext(), s.sub)
	s.Require().NoError(err)

	first, err := svc.GetDownloadURL(s.GetContext(), inv.ID)
	s.NoError(err)
	s.NotEmpty(first.URL)

	second, err := svc.GetDownloadURL(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(first.URL, second.URL)
	s.pdf.AssertNumberOfCalls(s.T(), "RenderInvoicePdf", 1)
}

func (s *InvoiceServiceSuite) TestDownloadURLWithoutStorage() {
	s.params.S3 = nil
	svc := NewInvoiceService(s.params)

	inv, err := svc.GenerateForSubscription(s.GetContext(), s.sub)
	s.Require().NoError(err)

	_, err = svc.GetDownloadURL(s.GetContext(), inv.ID)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestMarkPaidAndVoid() {
	inv, err := s.service.GenerateForSubscription(s.GetContext(), s.sub)
	s.Require().NoError(err)

	paidAt := s.GetNow().Add(-time.Hour)
	paid, err := s.service.MarkPaid(s.GetContext(), inv.ID, dto.MarkInvoicePaidRequest{
		GatewayPaymentID: "pay_1",
		PaidAt:           &paidAt,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
	s.Equal("pay_1", paid.GatewayPaymentID)
	s.Require().NotNil(paid.PaidAt)
	s.True(paid.PaidAt.Equal(paidAt))

	// paying twice is a no-op
	again, err := s.service.MarkPaid(s.GetContext(), inv.ID, dto.MarkInvoicePaidRequest{})
	s.NoError(err)
	s.Equal("pay_1", again.GatewayPaymentID)

	_, err = s.service.VoidInvoice(s.GetContext(), inv.ID)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestVoidedInvoiceIsNotPayable() {
	inv, err := s.service.GenerateForSubscription(s.GetContext(), s.sub)
	s.Require().NoError(err)

	voided, err := s.service.VoidInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusVoid, voided.InvoiceStatus)

	_, err = s.service.MarkPaid(s.GetContext(), inv.ID, dto.MarkInvoicePaidRequest{})
	s.True(ierr.IsValidation(err))
}
