package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageHeight = 297.0
	pageWidth  = 210.0
	margin     = 10.0
	lineHeight = 6.0
	rowHeight  = 7.0
)

// Result describes a written PDF.
type Result struct {
	Path  string
	Pages int
}

// Renderer turns a region into a document file.
type Renderer interface {
	RenderRegionToPDF(region Region, filename string) (*Result, error)
}

// PDFRenderer writes A4 portrait PDFs into a directory, breaking pages at a
// fixed 297mm page height with 10mm margins.
type PDFRenderer struct {
	dir string
}

func NewPDFRenderer(dir string) *PDFRenderer {
	if dir == "" {
		dir = "."
	}
	return &PDFRenderer{dir: dir}
}

// RenderRegionToPDF lays out region and writes it to filename inside the
// renderer's directory. Only the base name of filename is used.
func (r *PDFRenderer) RenderRegionToPDF(region Region, filename string) (*Result, error) {
	name := SanitizeFilename(filename)
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(region.Title, true)
	pdf.SetCreator("granite-console", true)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	l.title(region.Title, region.Subtitle)
	for _, b := range region.Blocks {
		l.block(b)
	}

	path := filepath.Join(r.dir, name)
	pages := pdf.PageNo()
	if err := pdf.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return &Result{Path: path, Pages: pages}, nil
}

// SanitizeFilename strips directories and path separators and ensures a .pdf suffix.
func SanitizeFilename(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "export"
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// layout tracks drawing on the current page.
type layout struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// text converts UTF-8 to the core fonts' code page. The rupee sign is not in
// cp1252 and is spelled out.
func (l *layout) text(s string) string {
	return l.tr(strings.ReplaceAll(s, "₹", "Rs."))
}

func (l *layout) printableWidth() float64 {
	return pageWidth - 2*margin
}

// ensure starts a new page when h millimetres do not fit on the current one.
func (l *layout) ensure(h float64) bool {
	if l.pdf.GetY()+h > pageHeight-margin {
		l.pdf.AddPage()
		return true
	}
	return false
}

func (l *layout) title(title, subtitle string) {
	l.pdf.SetFont("Helvetica", "B", 16)
	l.pdf.CellFormat(0, 10, l.text(title), "", 1, "C", false, 0, "")
	if subtitle != "" {
		l.pdf.SetFont("Helvetica", "", 9)
		l.pdf.CellFormat(0, 5, l.text(subtitle), "", 1, "C", false, 0, "")
	}
	l.pdf.Ln(3)
}

func (l *layout) block(b Block) {
	if b.Heading != "" {
		l.ensure(lineHeight * 2)
		l.pdf.SetFont("Helvetica", "B", 11)
		l.pdf.CellFormat(0, lineHeight+1, l.text(b.Heading), "B", 1, "L", false, 0, "")
		l.pdf.Ln(1)
	}
	l.pdf.SetFont("Helvetica", "", 9)
	for _, line := range b.Lines {
		l.ensure(lineHeight)
		l.pdf.MultiCell(0, lineHeight-1, l.text(line), "", "L", false)
	}
	for _, p := range b.Pairs {
		l.ensure(lineHeight)
		l.pdf.SetFont("Helvetica", "B", 9)
		l.pdf.CellFormat(45, lineHeight, l.text(p.Label), "", 0, "L", false, 0, "")
		l.pdf.SetFont("Helvetica", "", 9)
		l.pdf.CellFormat(0, lineHeight, l.text(p.Value), "", 1, "L", false, 0, "")
	}
	if b.Table != nil {
		l.table(b.Table)
	}
	l.pdf.Ln(3)
}

func (l *layout) table(t *Table) {
	widths := l.columnWidths(t.Columns)
	l.ensure(rowHeight * 2)
	l.tableHeader(t.Columns, widths)

	for _, row := range t.Rows {
		if l.ensure(rowHeight) {
			l.tableHeader(t.Columns, widths)
		}
		l.pdf.SetFont("Helvetica", "", 9)
		l.tableRow(t.Columns, widths, row)
	}
	for _, row := range t.Footer {
		l.ensure(rowHeight)
		l.pdf.SetFont("Helvetica", "B", 9)
		l.tableRow(t.Columns, widths, row)
	}
}

func (l *layout) tableHeader(cols []Column, widths []float64) {
	l.pdf.SetFont("Helvetica", "B", 9)
	l.pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		l.pdf.CellFormat(widths[i], rowHeight, l.text(c.Title), "1", 0, "C", true, 0, "")
	}
	l.pdf.Ln(-1)
}

func (l *layout) tableRow(cols []Column, widths []float64, row []string) {
	for i, c := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		align := string(c.Align)
		if align == "" {
			align = string(AlignLeft)
		}
		l.pdf.CellFormat(widths[i], rowHeight, fit(l.pdf, l.text(cell), widths[i]), "1", 0, align, false, 0, "")
	}
	l.pdf.Ln(-1)
}

func (l *layout) columnWidths(cols []Column) []float64 {
	total := 0.0
	for _, c := range cols {
		total += c.Width
	}
	widths := make([]float64, len(cols))
	avail := l.printableWidth()
	for i, c := range cols {
		if total <= 0 {
			widths[i] = avail / float64(len(cols))
			continue
		}
		widths[i] = c.Width * avail / total
	}
	return widths
}

// fit truncates the already translated single-byte string s with an
// ellipsis so it fits a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	const pad = 2.0
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}
