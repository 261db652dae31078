// Package receipt renders payment receipts for confirmed reservations.
package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"bouncely/pkg/model"
	"bouncely/pkg/pricing"

	"github.com/phpdave11/gofpdf"
)

var ErrNotPaid = errors.New("reservation has not been paid")

const dateLayout = "2006-01-02 15:04 MST"

// Paid reports whether a receipt can be issued for r.
func Paid(r *model.Reservation) bool {
	return r.Status == model.StatusConfirmed || r.Status == model.StatusCompleted
}

// Build returns the PDF bytes and a download file name for r.
func Build(r *model.Reservation, issuedAt time.Time) ([]byte, string, error) {
	if !Paid(r) {
		return nil, "", ErrNotPaid
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Reservation receipt", false)
	pdf.SetCreator("bouncely", false)
	pdf.SetCreationDate(issuedAt.UTC())
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		"Reservation : " + r.ID,
		"Listing     : " + r.ListingID,
		"Status      : " + string(r.Status),
		"Start       : " + r.StartDate.UTC().Format(dateLayout),
		"End         : " + r.EndDate.UTC().Format(dateLayout),
		fmt.Sprintf("Duration    : %d %s", r.DurationUnits, unitLabel(r.PricingModel, r.DurationUnits)),
		"Payment ref : " + safe(r.PaymentReference, "-"),
		"Issued      : " + issuedAt.UTC().Format(dateLayout),
	} {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	subtotal := pricing.FromCents(pricing.ToCents(r.TotalAmount) - pricing.ToCents(r.ServiceFee))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	amountRow(pdf, fmt.Sprintf("%d x $%s", r.DurationUnits, pricing.Format(r.UnitPrice)), subtotal)
	amountRow(pdf, "Service fee", r.ServiceFee)

	pdf.SetFont("Helvetica", "B", 12)
	amountRow(pdf, "Total paid", r.TotalAmount)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 10)
	amountRow(pdf, "Host payout", r.HostPayout)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), "receipt-" + r.ID + ".pdf", nil
}

func amountRow(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "$"+pricing.Format(amount), "", 1, "R", false, 0, "")
}

func unitLabel(m model.PricingModel, units int) string {
	label := "day"
	if m == model.PricingHourly {
		label = "hour"
	}
	if units != 1 {
		label += "s"
	}
	return label
}

func safe(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
