package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin   = 20.0 // mm
	pdfFontSize = 11.0
)

// PDFWriter lays lines out on A4 pages with the core Helvetica font. Page
// breaks are left entirely to the caller; fpdf's automatic break is off.
type PDFWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	y      float64
	top    float64
	bottom float64
}

func NewPDFWriter() *PDFWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Relatório de Vendas - Quermesse", true)
	pdf.AddPage()

	_, height := pdf.GetPageSize()
	return &PDFWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		y:      pdfMargin,
		top:    pdfMargin,
		bottom: height - pdfMargin,
	}
}

// LineHeight follows the point advances of the printed report (18/16/14 pt
// and a 6-8 pt gap), in millimetres.
func (p *PDFWriter) LineHeight(style Style) float64 {
	switch style {
	case StyleTitle:
		return 6.35
	case StyleHeading:
		return 5.64
	case StyleGap:
		return 2.82
	default:
		return 4.94
	}
}

func (p *PDFWriter) Write(text string, style Style) error {
	lh := p.LineHeight(style)
	p.y += lh
	if style == StyleGap {
		return p.pdf.Error()
	}

	fontStyle := ""
	if style.Bold() {
		fontStyle = "B"
	}
	size := pdfFontSize
	if style == StyleTitle {
		size = 14
	}
	p.pdf.SetFont("Helvetica", fontStyle, size)
	p.pdf.Text(pdfMargin, p.y, p.tr(text))
	return p.pdf.Error()
}

func (p *PDFWriter) NewPage() error {
	p.pdf.AddPage()
	p.y = p.top
	return p.pdf.Error()
}

func (p *PDFWriter) Remaining() float64    { return p.bottom - p.y }
func (p *PDFWriter) PageCapacity() float64 { return p.bottom - p.top }
func (p *PDFWriter) Pages() int            { return p.pdf.PageCount() }

// Output writes the finished document.
func (p *PDFWriter) Output(w io.Writer) error {
	return p.pdf.Output(w)
}
