package quote

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFCanvas draws on an A4 portrait gofpdf document in millimetres
type PDFCanvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Ensure PDFCanvas implements DocumentCanvas
var _ DocumentCanvas = (*PDFCanvas)(nil)

// NewPDFCanvas creates an empty document. Page breaks are left to the layout.
func NewPDFCanvas(title string, createdAt time.Time) *PDFCanvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("rta-kabinets", true)
	pdf.SetCreationDate(createdAt)

	return &PDFCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *PDFCanvas) PageSize() (float64, float64) {
	w, h := p.pdf.GetPageSize()
	return w, h
}

func (p *PDFCanvas) AddPage() { p.pdf.AddPage() }

func (p *PDFCanvas) PageCount() int { return p.pdf.PageCount() }

func (p *PDFCanvas) SetFont(family, style string, size float64) {
	p.pdf.SetFont(family, style, size)
}

func (p *PDFCanvas) SetTextColor(r, g, b int) { p.pdf.SetTextColor(r, g, b) }
func (p *PDFCanvas) SetDrawColor(r, g, b int) { p.pdf.SetDrawColor(r, g, b) }
func (p *PDFCanvas) SetFillColor(r, g, b int) { p.pdf.SetFillColor(r, g, b) }
func (p *PDFCanvas) SetLineWidth(width float64) { p.pdf.SetLineWidth(width) }

func (p *PDFCanvas) Text(x, y float64, s string, align Align) {
	s = p.tr(s)
	switch align {
	case AlignRight:
		x -= p.pdf.GetStringWidth(s)
	case AlignCenter:
		x -= p.pdf.GetStringWidth(s) / 2
	}
	p.pdf.Text(x, y, s)
}

// TextLink writes left-aligned text and makes its box a clickable link
func (p *PDFCanvas) TextLink(x, y float64, s, url string) {
	s = p.tr(s)
	p.pdf.Text(x, y, s)
	_, lineH := p.pdf.GetFontSize()
	p.pdf.LinkString(x, y-lineH, p.pdf.GetStringWidth(s), lineH*1.2, url)
}

func (p *PDFCanvas) Line(x1, y1, x2, y2 float64) { p.pdf.Line(x1, y1, x2, y2) }

func (p *PDFCanvas) Rect(x, y, w, h float64, style RectStyle) {
	p.pdf.Rect(x, y, w, h, string(style))
}

func (p *PDFCanvas) TextWidth(s string) float64 {
	return p.pdf.GetStringWidth(p.tr(s))
}

// Output writes the finished document to w
func (p *PDFCanvas) Output(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// Bytes returns the finished document
func (p *PDFCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
