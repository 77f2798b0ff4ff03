// Package export renders document regions to multi-page A4 PDFs.
package export

// Align is a table column alignment.
type Align string

const (
	AlignLeft   Align = "L"
	AlignRight  Align = "R"
	AlignCenter Align = "C"
)

// Region is a laid-out document: a title followed by blocks, top to bottom.
type Region struct {
	Title    string
	Subtitle string
	Blocks   []Block
}

// Block is one section of a region. Exactly one of Lines, Pairs or Table is
// normally set; Heading is printed above whichever it is.
type Block struct {
	Heading string
	Lines   []string
	Pairs   []Pair
	Table   *Table
}

// Pair is a label/value line such as "GSTIN: 29ABCDE1234F1Z5".
type Pair struct {
	Label string
	Value string
}

// Table is a ruled grid. Widths are in millimetres; they are scaled to the
// printable width when they do not add up to it. Footer rows are printed in bold.
type Table struct {
	Columns []Column
	Rows    [][]string
	Footer  [][]string
}

// Column describes one table column.
type Column struct {
	Title string
	Width float64
	Align Align
}
