/*
Package report renders the session ledger into a paginated document.

PURPOSE:
  Render decides what goes on the page and in which order. It never
  knows whether the target is a PDF or a plain-text file: both implement
  DocumentWriter, and the caller picks one.

PAGINATION:
  Writers report how much room is left on the current page in their own
  units (lines for text, millimetres for PDF). Before writing a block
  Render measures it and asks for a new page when the block would not
  fit, so writers never have to clip or silently overflow. An unbounded
  writer reports infinite room.

SEE ALSO:
  - generator.go: section layout and page breaking
  - text.go:      plain-text writer
  - pdf.go:       PDF writer (A4)
  - export.go:    file-extension driven export
*/
package report

// Style selects font weight and vertical advance for one line.
type Style int

const (
	StyleBody     Style = iota
	StyleTitle          // document title
	StyleHeading        // section heading
	StyleEmphasis       // bold body line (sale header)
	StyleGap            // blank separator, text is ignored
)

func (s Style) Bold() bool {
	return s == StyleTitle || s == StyleHeading || s == StyleEmphasis
}

// DocumentWriter is the capability Render drives.
type DocumentWriter interface {
	// Write emits one line on the current page.
	Write(text string, style Style) error

	// NewPage starts a fresh page.
	NewPage() error

	// LineHeight is the vertical room a line of style takes.
	LineHeight(style Style) float64

	// Remaining is the room left on the current page.
	Remaining() float64

	// PageCapacity is the room on an empty page.
	PageCapacity() float64
}
