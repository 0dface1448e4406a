package report

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
)

// FormatForPath picks the renderer from the file extension. Anything other
// than ".pdf" gets the plain-text renderer.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FormatPDF
	}
	return FormatText
}

// ContentType is the MIME type served for format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// SuggestedFilename is the default name offered to the operator.
func SuggestedFilename(now time.Time, format Format) string {
	return "relatorio_quermesse_" + now.Format("2006-01-02_15-04") + "." + string(format)
}

// WriteTo renders the report in format to out. pageLines bounds plain-text
// pages (0 = unbounded); PDF pages are always A4.
func WriteTo(out io.Writer, format Format, ledger *register.Ledger, catalog *register.Catalog, opts Options, pageLines int) error {
	if format == FormatPDF {
		w := NewPDFWriter()
		if err := Render(ledger, catalog, w, opts); err != nil {
			return err
		}
		return w.Output(out)
	}

	w := NewTextWriter(out, pageLines)
	if err := Render(ledger, catalog, w, opts); err != nil {
		return err
	}
	return w.Flush()
}

// Export renders to path. The file is only created once rendering
// succeeded, so a failure never leaves half a report behind.
func Export(path string, ledger *register.Ledger, catalog *register.Catalog, opts Options, pageLines int) error {
	var buf bytes.Buffer
	if err := WriteTo(&buf, FormatForPath(path), ledger, catalog, opts, pageLines); err != nil {
		return &register.PersistenceError{Op: "render report", Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &register.PersistenceError{Op: "export report", Err: err}
	}
	return nil
}
