package quote

// Align positions text horizontally relative to its x coordinate
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// RectStyle selects whether a rectangle is filled, outlined or both
type RectStyle string

const (
	RectFill     RectStyle = "F"
	RectDraw     RectStyle = "D"
	RectFillDraw RectStyle = "FD"
)

// Font styles accepted by DocumentCanvas.SetFont
const (
	StyleNormal = ""
	StyleBold   = "B"
	StyleItalic = "I"
)

// DocumentCanvas is the set of drawing primitives the quote layout needs.
// Coordinates are in millimetres from the top-left corner of the current
// page; text y is the baseline.
type DocumentCanvas interface {
	PageSize() (width, height float64)
	AddPage()
	PageCount() int

	SetFont(family, style string, size float64)
	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetLineWidth(width float64)

	Text(x, y float64, s string, align Align)
	TextLink(x, y float64, s, url string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, style RectStyle)

	// TextWidth measures s in the current font
	TextWidth(s string) float64
}
