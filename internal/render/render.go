// Package render produces printable forms of persisted invoices. It only
// formats stored fields and never recomputes amounts.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

const dateLayout = "02 Jan 2006"

// Seller is the business issuing the invoices.
type Seller struct {
	Name    string
	Address string
	GSTIN   string
}

type Renderer struct {
	seller  Seller
	printer *message.Printer
}

func NewRenderer(seller Seller, lang language.Tag) *Renderer {
	return &Renderer{
		seller:  seller,
		printer: message.NewPrinter(lang),
	}
}

func (r *Renderer) amount(a money.Amount) string {
	return r.printer.Sprint(number.Decimal(a.Float(), number.Scale(2)))
}

// column is one column of the item table.
type column struct {
	title string
	width float64
	align string
	value func(invoice.LineItem) string
}

func (r *Renderer) columns() []column {
	return []column{
		{"#", 8, "C", func(it invoice.LineItem) string { return fmt.Sprint(it.Position) }},
		{"Item", 46, "L", func(it invoice.LineItem) string { return it.ItemName }},
		{"Category", 24, "L", func(it invoice.LineItem) string { return it.Category }},
		{"Qty", 12, "R", func(it invoice.LineItem) string { return r.printer.Sprint(it.Quantity) }},
		{"Rate", 20, "R", func(it invoice.LineItem) string { return r.amount(it.UnitPrice) }},
		{"CGST", 20, "R", func(it invoice.LineItem) string {
			return fmt.Sprintf("%s (%s%%)", r.amount(it.CGSTAmount), it.CGSTRate)
		}},
		{"SGST", 20, "R", func(it invoice.LineItem) string {
			return fmt.Sprintf("%s (%s%%)", r.amount(it.SGSTAmount), it.SGSTRate)
		}},
		{"Amount", 30, "R", func(it invoice.LineItem) string { return r.amount(it.LineTotal) }},
	}
}

// PDF writes a single-page A4 tax invoice to w.
func (r *Renderer) PDF(w io.Writer, inv *invoice.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNo, true)
	pdf.SetCreationDate(inv.CreatedAt)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "TAX INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, tr(r.seller.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)

	if r.seller.Address != "" {
		pdf.MultiCell(0, 5, tr(r.seller.Address), "", "L", false)
	}

	if r.seller.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+r.seller.GSTIN, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+tr(inv.InvoiceNo), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+inv.InvoiceDate.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+string(inv.PaymentStatus), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, partyLabel(inv.Kind)+":", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr(inv.PartyName), "", 1, "L", false, 0, "")

	if inv.PartyAddress != "" {
		pdf.MultiCell(0, 5, tr(inv.PartyAddress), "", "L", false)
	}

	if inv.PartyMobile != "" {
		pdf.CellFormat(0, 5, "Mobile: "+inv.PartyMobile, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)

	cols := r.columns()

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)

	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)

	for _, item := range inv.Items {
		for _, c := range cols {
			pdf.CellFormat(c.width, 6, tr(c.value(item)), "1", 0, c.align, false, 0, "")
		}

		pdf.Ln(-1)
	}

	pdf.Ln(4)

	totals := []struct {
		label string
		value money.Amount
	}{
		{"Subtotal", inv.Subtotal},
		{"CGST", inv.CGSTTotal},
		{"SGST", inv.SGSTTotal},
		{"Total Tax", inv.TotalTax},
		{"Grand Total", inv.GrandTotal},
	}

	for i, t := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 10)
		}

		pdf.CellFormat(150, 6, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, "Rs. "+r.amount(t.value), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	return nil
}

// Summary returns a plain-text rendition suitable for an email body or a
// print preview.
func (r *Renderer) Summary(inv *invoice.Invoice) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Invoice %s | %s | %s\n", inv.InvoiceNo, inv.InvoiceDate.Format(dateLayout), inv.PaymentStatus)
	fmt.Fprintf(&sb, "%s: %s\n", partyLabel(inv.Kind), inv.PartyName)

	for _, item := range inv.Items {
		fmt.Fprintf(&sb, "%d. %s x %d @ %s = %s\n",
			item.Position, item.ItemName, item.Quantity, r.amount(item.UnitPrice), r.amount(item.LineTotal))
	}

	fmt.Fprintf(&sb, "Subtotal: %s\n", r.amount(inv.Subtotal))
	fmt.Fprintf(&sb, "CGST: %s | SGST: %s | Tax: %s\n", r.amount(inv.CGSTTotal), r.amount(inv.SGSTTotal), r.amount(inv.TotalTax))
	fmt.Fprintf(&sb, "Grand Total: Rs. %s\n", r.amount(inv.GrandTotal))

	return sb.String()
}

// Filename returns a download-safe file name for the invoice PDF.
func Filename(inv *invoice.Invoice) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, inv.InvoiceNo)

	return fmt.Sprintf("%s_%s.pdf", inv.InvoiceDate.Format("20060102"), safe)
}

func partyLabel(k directory.Kind) string {
	if k == directory.KindVendor {
		return "Vendor"
	}

	return "Bill To"
}
