package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/domain/pdf"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderInvoicePdf(ctx context.Context, data *pdf.InvoiceData) ([]byte, error)
}

const (
	dateLayout  = "02 Jan 2006"
	pageMargin  = 15.0
	columnWidth = 45.0
	rowHeight   = 7.0
)

type service struct {
	biller *pdf.BillerInfo
}

// NewGenerator creates a new PDF service
func NewGenerator(cfg *config.Configuration) Generator {
	return &service{
		biller: &pdf.BillerInfo{
			Name:    "Socialdesk",
			Website: cfg.Server.PublicURL,
			Email:   cfg.Email.FromAddress,
		},
	}
}

// RenderInvoicePdf lays out a single page A4 invoice
func (s *service) RenderInvoicePdf(ctx context.Context, data *pdf.InvoiceData) ([]byte, error) {
	if data == nil {
		return nil, ierr.NewError("invoice data is required").
			WithHint("Invoice data is required").
			Mark(ierr.ErrValidation)
	}

	biller := data.Biller
	if biller == nil {
		biller = s.biller
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetTitle(fmt.Sprintf("Invoice %s", data.InvoiceNumber), true)
	doc.AddPage()

	// header
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, "INVOICE", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, fmt.Sprintf("Invoice number: %s", data.InvoiceNumber), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, fmt.Sprintf("Issued: %s", data.IssuingDate.Format(dateLayout)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, fmt.Sprintf("Due: %s", data.DueDate.Format(dateLayout)), "", 1, "L", false, 0, "")
	if data.PeriodStart != nil && data.PeriodEnd != nil {
		doc.CellFormat(0, 5, fmt.Sprintf("Service period: %s - %s",
			data.PeriodStart.Format(dateLayout), data.PeriodEnd.Format(dateLayout)), "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	// parties
	top := doc.GetY()
	writeParty(doc, "From", biller.Name, biller.Email, biller.Address, biller.TaxNumber, pageMargin)
	leftBottom := doc.GetY()
	doc.SetY(top)
	if data.Recipient != nil {
		address := data.Recipient.Address
		if data.Recipient.Country != "" {
			address = append(append([]string{}, address...), data.Recipient.Country)
		}
		writeParty(doc, "Bill to", data.Recipient.Name, data.Recipient.Email, address, data.Recipient.TaxNumber, 110)
	}
	doc.SetY(max(leftBottom, doc.GetY()) + 8)

	// line items
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(240, 240, 240)
	doc.CellFormat(90, rowHeight, "Description", "B", 0, "L", true, 0, "")
	doc.CellFormat(20, rowHeight, "Qty", "B", 0, "R", true, 0, "")
	doc.CellFormat(35, rowHeight, "Unit price", "B", 0, "R", true, 0, "")
	doc.CellFormat(35, rowHeight, "Amount", "B", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range data.LineItems {
		doc.CellFormat(90, rowHeight, item.Description, "", 0, "L", false, 0, "")
		doc.CellFormat(20, rowHeight, item.Quantity.String(), "", 0, "R", false, 0, "")
		doc.CellFormat(35, rowHeight, money(item.UnitAmount.StringFixed(2), data.Currency), "", 0, "R", false, 0, "")
		doc.CellFormat(35, rowHeight, money(item.Amount.StringFixed(2), data.Currency), "", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	// totals
	writeTotal(doc, "Subtotal", money(data.Subtotal.StringFixed(2), data.Currency), false)
	writeTotal(doc, fmt.Sprintf("Tax (%s%%)", data.TaxRate.Shift(2).String()), money(data.TaxAmount.StringFixed(2), data.Currency), false)
	writeTotal(doc, "Total", money(data.Total.StringFixed(2), data.Currency), true)

	if data.Notes != "" {
		doc.Ln(8)
		doc.SetFont("Helvetica", "I", 9)
		doc.MultiCell(0, 5, data.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to render invoice pdf").
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}

func writeParty(doc *fpdf.Fpdf, heading, name, email string, address []string, taxNumber string, x float64) {
	doc.SetX(x)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(80, 5, heading, "", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(80, 5, name, "", 2, "L", false, 0, "")
	if email != "" {
		doc.CellFormat(80, 5, email, "", 2, "L", false, 0, "")
	}
	for _, line := range address {
		doc.CellFormat(80, 5, line, "", 2, "L", false, 0, "")
	}
	if taxNumber != "" {
		doc.CellFormat(80, 5, "Tax ID: "+taxNumber, "", 2, "L", false, 0, "")
	}
}

func writeTotal(doc *fpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	doc.SetFont("Helvetica", style, 10)
	doc.CellFormat(180-columnWidth, rowHeight, label, "", 0, "R", false, 0, "")
	doc.CellFormat(columnWidth, rowHeight, value, "", 1, "R", false, 0, "")
}

func money(amount, currency string) string {
	return fmt.Sprintf("%s %s", amount, currency)
}
