package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/domain/pdf"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/email"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/s3"
	"github.com/socialdesk/socialdesk/internal/types"
)

const defaultPresignExpiry = 30 * time.Minute

type InvoiceService interface {
	// GenerateForSubscription issues an invoice for the subscription's current period
	GenerateForSubscription(ctx context.Context, sub *subscription.Subscription) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	MarkPaid(ctx context.Context, id string, req dto.MarkInvoicePaidRequest) (*dto.InvoiceResponse, error)
	VoidInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	// GetDownloadURL returns a short lived link to the invoice pdf, rendering it first if needed
	GetDownloadURL(ctx context.Context, id string) (*dto.InvoiceURLResponse, error)
	GetInvoicePDF(ctx context.Context, id string) ([]byte, error)
	SendInvoice(ctx context.Context, id string) error
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) GenerateForSubscription(ctx context.Context, sub *subscription.Subscription) (*dto.InvoiceResponse, error) {
	return s.generate(ctx, sub, "")
}

// generate issues the invoice for the current period of sub. A non empty gatewayPaymentID is
// stored with the invoice so a redelivered charge finds it before it is marked paid.
func (s *invoiceService) generate(ctx context.Context, sub *subscription.Subscription, gatewayPaymentID string) (*dto.InvoiceResponse, error) {
	if sub == nil {
		return nil, ierr.NewError("subscription is required").
			WithHint("Subscription is required").
			Mark(ierr.ErrValidation)
	}

	p, err := (&planService{ServiceParams: s.ServiceParams}).getPlan(ctx, sub.PlanCode)
	if err != nil {
		return nil, err
	}
	t, err := s.TenantRepo.GetByID(ctx, sub.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	quantity := decimal.NewFromInt(int64(max(sub.Quantity, 1)))
	periodStart := sub.CurrentPeriodStart
	periodEnd := sub.CurrentPeriodEnd
	dueAt := now.AddDate(0, 0, s.Config.Billing.InvoiceDueDays)

	inv := &invoice.Invoice{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		SubscriptionID:   sub.ID,
		InvoiceNumber:    types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		InvoiceStatus:    types.InvoiceStatusIssued,
		Currency:         sub.Currency,
		PeriodStart:      &periodStart,
		PeriodEnd:        &periodEnd,
		IssuedAt:         &now,
		DueAt:            &dueAt,
		GatewayPaymentID: gatewayPaymentID,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	inv.TenantID = sub.TenantID
	inv.LineItems = []*invoice.LineItem{
		{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			TenantID:    sub.TenantID,
			InvoiceID:   inv.ID,
			Description: fmt.Sprintf("%s plan (%s)", p.Name, p.BillingInterval),
			Quantity:    quantity,
			UnitAmount:  p.Price,
			Amount:      p.Price.Mul(quantity),
			CreatedAt:   now,
		},
	}
	inv.ApplyTotals(s.Config.Billing.GetTaxRate(t.Country))

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice issued",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"tenant_id", inv.TenantID,
		"total", inv.Total.String(),
	)

	recordAudit(ctx, s.ServiceParams, types.AuditActionInvoiceIssued, "invoice", inv.ID, map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"total":          inv.Total.String(),
		"currency":       inv.Currency,
	})
	publishEvent(ctx, s.ServiceParams, types.SystemEventInvoiceIssued, inv)

	// the invoice exists either way, delivery is retried through SendInvoice
	if err := s.SendInvoice(ctx, inv.ID); err != nil {
		s.Logger.Warnw("failed to send invoice email", "error", err, "invoice_id", inv.ID)
	}

	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = &dto.InvoiceResponse{Invoice: inv}
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string, req dto.MarkInvoicePaidRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus == types.InvoiceStatusPaid {
		return &dto.InvoiceResponse{Invoice: inv}, nil
	}
	if !inv.IsPayable() {
		return nil, ierr.NewError("invoice is not payable").
			WithHintf("A %s invoice cannot be paid", inv.InvoiceStatus).
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"invoice_status": inv.InvoiceStatus,
			}).
			Mark(ierr.ErrValidation)
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	inv.InvoiceStatus = types.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	if req.GatewayPaymentID != "" {
		inv.GatewayPaymentID = req.GatewayPaymentID
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionInvoicePaid, "invoice", inv.ID, map[string]interface{}{
		"gateway_payment_id": inv.GatewayPaymentID,
	})
	publishEvent(ctx, s.ServiceParams, types.SystemEventInvoicePaid, inv)

	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) VoidInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus != types.InvoiceStatusIssued {
		return nil, ierr.NewError("only issued invoices can be voided").
			WithHintf("A %s invoice cannot be voided", inv.InvoiceStatus).
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"invoice_status": inv.InvoiceStatus,
			}).
			Mark(ierr.ErrValidation)
	}

	now := time.Now().UTC()
	inv.InvoiceStatus = types.InvoiceStatusVoid
	inv.VoidedAt = &now
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionInvoiceVoided, "invoice", inv.ID, nil)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, inv)
}

func (s *invoiceService) GetDownloadURL(ctx context.Context, id string) (*dto.InvoiceURLResponse, error) {
	if s.S3 == nil {
		return nil, ierr.NewError("invoice storage is not configured").
			WithHint("Invoice downloads are not available").
			Mark(ierr.ErrInvalidOperation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.ensureStored(ctx, inv)
	if err != nil {
		return nil, err
	}

	url, err := s.S3.GetPresignedUrl(ctx, key, s3.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}

	return &dto.InvoiceURLResponse{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.presignExpiry()),
	}, nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, id string) error {
	if s.Email == nil {
		return nil
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	t, err := s.TenantRepo.GetByID(ctx, inv.TenantID)
	if err != nil {
		return err
	}
	if t.BillingEmail == "" {
		s.Logger.Warnw("tenant has no billing email, skipping invoice email",
			"tenant_id", t.ID,
			"invoice_id", inv.ID,
		)
		return nil
	}

	var downloadURL string
	if s.S3 != nil {
		resp, err := s.GetDownloadURL(ctx, inv.ID)
		if err != nil {
			return err
		}
		downloadURL = resp.URL
	}

	var dueDate string
	if inv.DueAt != nil {
		dueDate = inv.DueAt.Format("02 Jan 2006")
	}

	_, err = s.Email.SendEmailWithTemplate(ctx, email.SendEmailWithTemplateRequest{
		ToAddress: t.BillingEmail,
		Subject:   fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Template:  email.TemplateInvoiceIssued,
		Data: map[string]interface{}{
			"tenant_name":    t.Name,
			"invoice_number": inv.InvoiceNumber,
			"total":          inv.Total.StringFixed(2),
			"currency":       inv.Currency,
			"due_date":       dueDate,
			"download_url":   downloadURL,
		},
	})
	return err
}

// ensureStored uploads the rendered pdf unless the object is already present
func (s *invoiceService) ensureStored(ctx context.Context, inv *invoice.Invoice) (string, error) {
	if inv.PDFObjectKey != "" {
		exists, err := s.S3.Exists(ctx, inv.PDFObjectKey, s3.DocumentTypeInvoice)
		if err != nil {
			return "", err
		}
		if exists {
			return inv.PDFObjectKey, nil
		}
	}

	data, err := s.renderPDF(ctx, inv)
	if err != nil {
		return "", err
	}

	key, err := s.S3.UploadDocument(ctx, s3.NewPdfDocument(inv.TenantID, inv.ID, data, s3.DocumentTypeInvoice))
	if err != nil {
		return "", err
	}

	if key != inv.PDFObjectKey {
		inv.PDFObjectKey = key
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return "", err
		}
	}
	return key, nil
}

func (s *invoiceService) renderPDF(ctx context.Context, inv *invoice.Invoice) ([]byte, error) {
	if s.PDFGenerator == nil {
		return nil, ierr.NewError("pdf generator is not configured").
			WithHint("Invoice pdfs are not available").
			Mark(ierr.ErrSystem)
	}

	t, err := s.TenantRepo.GetByID(ctx, inv.TenantID)
	if err != nil {
		return nil, err
	}

	data := &pdf.InvoiceData{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceStatus: string(inv.InvoiceStatus),
		Currency:      inv.Currency,
		PeriodStart:   inv.PeriodStart,
		PeriodEnd:     inv.PeriodEnd,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Recipient: &pdf.RecipientInfo{
			Name:      t.Name,
			Email:     t.BillingEmail,
			Address:   t.BillingAddress.Lines(),
			Country:   t.Country,
			TaxNumber: t.BillingAddress.TaxID,
		},
		LineItems: make([]pdf.LineItemData, len(inv.LineItems)),
	}
	if inv.IssuedAt != nil {
		data.IssuingDate = *inv.IssuedAt
	}
	if inv.DueAt != nil {
		data.DueDate = *inv.DueAt
	}
	for i, item := range inv.LineItems {
		data.LineItems[i] = pdf.LineItemData{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitAmount:  item.UnitAmount,
			Amount:      item.Amount,
		}
	}

	return s.PDFGenerator.RenderInvoicePdf(ctx, data)
}

func (s *invoiceService) presignExpiry() time.Duration {
	if d, err := time.ParseDuration(s.Config.S3.PresignExpiryDuration); err == nil && d > 0 {
		return d
	}
	return defaultPresignExpiry
}
