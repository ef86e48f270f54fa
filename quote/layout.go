package quote

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rta-kabinets/models"
	"rta-kabinets/utils"
)

// Page geometry, in millimetres on an A4 portrait page
const (
	MarginLeft   = 14.0
	MarginRight  = 14.0
	MarginTop    = 20.0
	MarginBottom = 28.0

	TableStartY = 70.0
	RowHeight   = 8.0
	CellPadding = 2.0

	// FooterRuleOffset is the distance of the footer rule from the page bottom
	FooterRuleOffset = 22.0
	footerTextOffset = 10.0

	// MinClosingSpace is the least room the notes and signature blocks need under the table
	MinClosingSpace = 55.0

	headerRuleY    = 28.0
	cellBaseline   = 5.3
	notesWrapWidth = 120.0
	notesLineH     = 4.06
	notesOffset    = 22.0
	notesGap       = 2.0
	epsilon        = 1e-9

	clientFontSize    = 11.0
	clientMinFontSize = 8.0
)

// Fixed table column widths; Description takes what is left
const (
	colNo     = 10.0
	colQty    = 22.0
	colUnit   = 28.0
	colAmount = 28.0
)

const (
	fontTimes     = "times"
	fontHelvetica = "helvetica"
	tableFontSize = 10.0
	ruleGray      = 100
)

var (
	tableFill = [3]int{240, 237, 237}
	totalFill = [3]int{160, 160, 210}
	accentRed = [3]int{200, 0, 0}
	gridColor = [3]int{200, 200, 200}
)

// Meta is the per-document data that does not come from the session
type Meta struct {
	Number int
	Date   time.Time
}

// EstimateNumber renders the sequence number the way it is printed, e.g. "007"
func (m Meta) EstimateNumber() string {
	return fmt.Sprintf("%03d", m.Number)
}

// TablePage describes the slice of the item table drawn on one page.
// Rows [First, Last) are drawn under a header row placed at Top.
type TablePage struct {
	Top    float64
	First  int
	Last   int
	Foot   bool
	Bottom float64
}

// Result summarizes where Render placed things.
// ClosingPage holds the signature box and the start of the notes; long notes
// continue up to NotesEndPage.
type Result struct {
	Pages        int
	Table        []TablePage
	ClosingPage  int
	ClosingY     float64
	NotesEndPage int
}

// ClosingSpace is the height the notes and signature blocks take under the
// table when the notes wrap to lineCount lines
func ClosingSpace(lineCount int) float64 {
	need := notesOffset + notesGap
	if lineCount > 1 {
		need += float64(lineCount-1) * notesLineH
	}
	return math.Max(MinClosingSpace, need)
}

// PaginateTable splits rowCount body rows over pages of the given height.
// The first page starts at TableStartY, the following ones at MarginTop, and
// every page repeats the header row. The total row only goes on the last
// page; when it would not fit under the last body row that row is carried
// to a new page together with it.
func PaginateTable(rowCount int, pageHeight float64) []TablePage {
	limit := pageHeight - MarginBottom
	top := TableStartY
	var pages []TablePage

	for i := 0; ; {
		bodyTop := top + RowHeight
		capacity := int(math.Floor((limit - bodyTop + epsilon) / RowHeight))
		if capacity < 1 {
			capacity = 1
		}
		remaining := rowCount - i

		if remaining <= capacity {
			footBottom := bodyTop + float64(remaining+1)*RowHeight
			if footBottom <= limit+epsilon || top == MarginTop && remaining <= 1 {
				pages = append(pages, TablePage{
					Top: top, First: i, Last: rowCount, Foot: true, Bottom: footBottom,
				})
				return pages
			}
			take := remaining - 1
			if take > 0 {
				pages = append(pages, TablePage{
					Top: top, First: i, Last: i + take,
					Bottom: bodyTop + float64(take)*RowHeight,
				})
				i += take
			}
			top = MarginTop
			continue
		}

		pages = append(pages, TablePage{
			Top: top, First: i, Last: i + capacity,
			Bottom: bodyTop + float64(capacity)*RowHeight,
		})
		i += capacity
		top = MarginTop
	}
}

// Render draws the complete quote on c, starting with a fresh page
func Render(c DocumentCanvas, b Branding, profile models.ClientProfile, items []models.LineItem, meta Meta) Result {
	r := &renderer{c: c, b: b}
	r.w, r.h = c.PageSize()

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}

	r.newPage()
	r.header()
	r.clientBlock(profile)
	r.metaBlock(meta, total)

	pages := PaginateTable(len(items), r.h)
	for n, p := range pages {
		if n > 0 {
			r.newPage()
		}
		r.tablePage(p, items, total)
	}

	res := Result{Table: pages}
	noteLines := r.noteLines(profile.Notes)
	closingY := pages[len(pages)-1].Bottom
	if closingY+ClosingSpace(len(noteLines)) > r.h-FooterRuleOffset+epsilon {
		r.newPage()
		closingY = MarginTop
	}
	res.ClosingPage = c.PageCount()
	res.ClosingY = closingY

	r.signature(closingY)
	r.notes(noteLines, closingY)

	res.NotesEndPage = c.PageCount()
	res.Pages = c.PageCount()
	return res
}

type renderer struct {
	c    DocumentCanvas
	b    Branding
	w, h float64
}

func (r *renderer) setFill(rgb [3]int) { r.c.SetFillColor(rgb[0], rgb[1], rgb[2]) }
func (r *renderer) setText(rgb [3]int) { r.c.SetTextColor(rgb[0], rgb[1], rgb[2]) }
func (r *renderer) setDraw(rgb [3]int) { r.c.SetDrawColor(rgb[0], rgb[1], rgb[2]) }

func (r *renderer) money(d decimal.Decimal) string {
	return utils.FormatMoney(r.b.Currency, d)
}

// newPage adds a page carrying the header rule and the contact footer
func (r *renderer) newPage() {
	r.c.AddPage()

	r.c.SetDrawColor(ruleGray, ruleGray, ruleGray)
	r.c.SetLineWidth(0.3)
	r.c.Line(MarginLeft, headerRuleY, r.w-13, headerRuleY)

	ruleY := r.h - FooterRuleOffset
	textY := r.h - footerTextOffset
	r.c.Line(MarginLeft, ruleY, r.w-10, ruleY)

	r.c.SetFont(fontHelvetica, StyleNormal, 10)
	r.c.SetTextColor(0, 0, 0)
	if r.b.Email != "" {
		r.c.TextLink(20, textY, "Email: "+r.b.Email, "mailto:"+r.b.Email)
	}
	if r.b.Phone != "" {
		r.c.Text(95, textY, "Phone: "+r.b.Phone, AlignLeft)
	}
	if r.b.SocialLabel != "" {
		if r.b.SocialURL != "" {
			r.c.TextLink(150, textY, r.b.SocialLabel, r.b.SocialURL)
		} else {
			r.c.Text(150, textY, r.b.SocialLabel, AlignLeft)
		}
	}
}

func (r *renderer) header() {
	r.c.SetTextColor(0, 0, 0)
	r.c.SetFont(fontTimes, StyleNormal, 16)
	r.c.Text(15, 20, r.b.BusinessName, AlignLeft)

	r.c.SetFont(fontTimes, StyleItalic, 14)
	for i, line := range r.b.Tagline {
		r.c.Text(190, 15+float64(i)*7, line, AlignRight)
	}
}

func (r *renderer) clientBlock(p models.ClientProfile) {
	r.c.SetFont(fontTimes, StyleItalic, 11)
	r.setText(accentRed)
	r.c.Text(MarginLeft, 36, r.b.ClientTitle, AlignLeft)

	r.c.SetTextColor(0, 0, 0)
	r.c.SetFont(fontHelvetica, StyleNormal, 11)
	lines := []struct{ label, value, fallback string }{
		{"Name", p.Name, r.b.Placeholders.Name},
		{"Address", p.Address, r.b.Placeholders.Address},
		{"Phone", p.Phone, r.b.Placeholders.Phone},
		{"Email", p.Email, r.b.Placeholders.Email},
	}
	for i, l := range lines {
		value := strings.TrimSpace(l.value)
		if value == "" {
			value = l.fallback
		}
		// rows beside the metadata box stop at its left edge
		width := 115 - MarginLeft - 2
		if i >= 2 {
			width = r.w - MarginLeft - MarginRight
		}
		text := r.shrinkToFit(fontHelvetica, StyleNormal, l.label+": "+value, width)
		r.c.Text(MarginLeft, 44+float64(i)*6, text, AlignLeft)
	}
}

// shrinkToFit lowers the font size down to clientMinFontSize until s fits in
// width. Text still too wide at the smallest size is shortened.
func (r *renderer) shrinkToFit(font, style, s string, width float64) string {
	size := clientFontSize
	r.c.SetFont(font, style, size)
	for size > clientMinFontSize && r.c.TextWidth(s) > width {
		size -= 0.5
		r.c.SetFont(font, style, size)
	}
	return fitText(r.c, s, width)
}

func (r *renderer) metaBlock(meta Meta, total decimal.Decimal) {
	r.setFill(tableFill)
	r.c.Rect(115, 33, 42, 20, RectFill)
	r.c.SetFont(fontHelvetica, StyleNormal, 10)
	r.c.SetTextColor(0, 0, 0)
	r.c.Text(117, 40, "Estimate Number: # "+meta.EstimateNumber(), AlignLeft)
	r.c.Text(117, 48, "Date: "+meta.Date.Format(r.b.DateLayout), AlignLeft)

	r.c.SetDrawColor(0, 0, 0)
	r.c.SetFillColor(0, 0, 0)
	r.c.Rect(156, 33, 1, 20, RectFill)

	r.setFill(totalFill)
	r.c.Rect(157, 33, 40, 20, RectFill)
	r.c.SetFont(fontHelvetica, StyleBold, 12)
	r.c.Text(168, 40, "Total Cost", AlignLeft)
	r.c.SetFont(fontHelvetica, StyleBold, 14)
	r.c.Text(168, 48, fitText(r.c, r.money(total), 197-168-1), AlignLeft)
}

type column struct {
	x, w  float64
	align Align
}

func (r *renderer) columns() []column {
	desc := r.w - MarginLeft - MarginRight - colNo - colQty - colUnit - colAmount
	widths := []float64{colNo, desc, colQty, colUnit, colAmount}
	aligns := []Align{AlignCenter, AlignLeft, AlignCenter, AlignRight, AlignRight}

	cols := make([]column, len(widths))
	x := MarginLeft
	for i, w := range widths {
		cols[i] = column{x: x, w: w, align: aligns[i]}
		x += w
	}
	return cols
}

func (r *renderer) cell(x, y, w float64, text string, align Align, fill bool) {
	style := RectDraw
	if fill {
		style = RectFillDraw
	}
	r.c.Rect(x, y, w, RowHeight, style)

	text = fitText(r.c, text, w-2*CellPadding)
	ty := y + cellBaseline
	switch align {
	case AlignCenter:
		r.c.Text(x+w/2, ty, text, AlignCenter)
	case AlignRight:
		r.c.Text(x+w-CellPadding, ty, text, AlignRight)
	default:
		r.c.Text(x+CellPadding, ty, text, AlignLeft)
	}
}

func (r *renderer) tablePage(p TablePage, items []models.LineItem, total decimal.Decimal) {
	cols := r.columns()
	r.setDraw(gridColor)
	r.c.SetLineWidth(0.1)
	r.c.SetTextColor(0, 0, 0)

	r.setFill(tableFill)
	r.c.SetFont(fontHelvetica, StyleBold, tableFontSize)
	for i, title := range []string{"No.", "Description", "Quantity", "Unit Cost", "Amount"} {
		r.cell(cols[i].x, p.Top, cols[i].w, title, AlignCenter, true)
	}

	r.c.SetFont(fontHelvetica, StyleNormal, tableFontSize)
	y := p.Top + RowHeight
	for n := p.First; n < p.Last; n++ {
		item := items[n]
		values := []string{
			strconv.Itoa(n + 1),
			item.Name,
			strconv.Itoa(item.Quantity),
			r.money(item.Price),
			r.money(item.Amount()),
		}
		for i, v := range values {
			r.cell(cols[i].x, y, cols[i].w, v, cols[i].align, false)
		}
		y += RowHeight
	}

	if !p.Foot {
		return
	}
	r.setFill(tableFill)
	r.c.SetFont(fontHelvetica, StyleBold, tableFontSize)
	labelW := cols[4].x - cols[0].x
	r.cell(cols[0].x, y, labelW, "Total", AlignRight, true)
	r.cell(cols[4].x, y, cols[4].w, r.money(total), AlignRight, true)
}

// noteLines wraps the client notes, or the default notes when there are none
func (r *renderer) noteLines(text string) []string {
	r.c.SetFont(fontHelvetica, StyleNormal, 10)
	text = strings.TrimSpace(text)
	if text == "" {
		text = r.b.DefaultNotes
	}
	return wrapText(r.c, text, notesWrapWidth)
}

// notes draws every line under the notes title. Lines that reach the footer
// rule continue on a new page.
func (r *renderer) notes(lines []string, y float64) {
	r.c.SetFont(fontHelvetica, StyleNormal, 10)
	r.setText(accentRed)
	r.c.Text(MarginLeft, y+12, r.b.NotesTitle, AlignLeft)

	r.c.SetTextColor(0, 0, 0)
	limit := r.h - FooterRuleOffset - notesGap
	top := y + notesOffset
	row := 0
	for _, line := range lines {
		if top+float64(row)*notesLineH > limit+epsilon {
			r.newPage()
			r.c.SetFont(fontHelvetica, StyleNormal, 10)
			r.c.SetTextColor(0, 0, 0)
			top = MarginTop + notesOffset
			row = 0
		}
		r.c.Text(MarginLeft+3, top+float64(row)*notesLineH, line, AlignLeft)
		row++
	}
}

func (r *renderer) signature(y float64) {
	r.c.SetFont(fontHelvetica, StyleNormal, 10)
	r.c.SetTextColor(0, 0, 0)
	r.c.SetDrawColor(0, 0, 0)
	r.c.SetLineWidth(0.3)
	r.c.Rect(145, y+12, 50, 29, RectDraw)
	r.c.Text(165, y+17, r.b.SignatureLabel, AlignLeft)
}

// wrapText breaks text into lines no wider than width, honouring explicit
// newlines. Words wider than a line are split by character.
func wrapText(c DocumentCanvas, text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if c.TextWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
			}
			line = word
			for c.TextWidth(line) > width && len([]rune(line)) > 1 {
				head, rest := splitAtWidth(c, line, width)
				out = append(out, head)
				line = rest
			}
		}
		out = append(out, line)
	}
	return out
}

func splitAtWidth(c DocumentCanvas, s string, width float64) (string, string) {
	runes := []rune(s)
	n := 1
	for n < len(runes) && c.TextWidth(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// fitText shortens s with a trailing "..." until it fits in width
func fitText(c DocumentCanvas, s string, width float64) string {
	if c.TextWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + "..."
		if c.TextWidth(candidate) <= width {
			return candidate
		}
	}
	return "..."
}
