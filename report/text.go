package report

import (
	"bufio"
	"io"
	"math"
)

// TextWriter writes plain UTF-8 lines. With PageLines > 0 pages are
// separated by a form feed; otherwise the document is one endless page.
type TextWriter struct {
	out       *bufio.Writer
	pageLines int
	used      int
	pages     int
}

func NewTextWriter(w io.Writer, pageLines int) *TextWriter {
	if pageLines < 0 {
		pageLines = 0
	}
	return &TextWriter{out: bufio.NewWriter(w), pageLines: pageLines, pages: 1}
}

func (t *TextWriter) Write(text string, style Style) error {
	if style == StyleGap {
		text = ""
	}
	if _, err := t.out.WriteString(text + "\n"); err != nil {
		return err
	}
	t.used++
	return nil
}

func (t *TextWriter) NewPage() error {
	if _, err := t.out.WriteString("\f"); err != nil {
		return err
	}
	t.used = 0
	t.pages++
	return nil
}

func (t *TextWriter) LineHeight(Style) float64 { return 1 }

func (t *TextWriter) Remaining() float64 {
	if t.pageLines == 0 {
		return math.Inf(1)
	}
	return float64(t.pageLines - t.used)
}

func (t *TextWriter) PageCapacity() float64 {
	if t.pageLines == 0 {
		return math.Inf(1)
	}
	return float64(t.pageLines)
}

func (t *TextWriter) Pages() int { return t.pages }

// Flush must be called once rendering is done.
func (t *TextWriter) Flush() error {
	return t.out.Flush()
}
