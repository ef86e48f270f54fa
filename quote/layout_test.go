package quote

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rta-kabinets/models"
)

const a4Height = 297.0

// recordingCanvas keeps every text and rect call together with the page it landed on
type recordingCanvas struct {
	pages int
	size  float64
	texts []drawnText
	rects []drawnRect
	links []string
}

type drawnText struct {
	page  int
	x, y  float64
	s     string
	align Align
	size  float64
}

type drawnRect struct {
	page       int
	x, y, w, h float64
	style      RectStyle
}

func (c *recordingCanvas) PageSize() (float64, float64) { return 210, a4Height }
func (c *recordingCanvas) AddPage() { c.pages++ }
func (c *recordingCanvas) PageCount() int { return c.pages }
func (c *recordingCanvas) SetFont(_, _ string, size float64) { c.size = size }
func (c *recordingCanvas) SetTextColor(int, int, int) {}
func (c *recordingCanvas) SetDrawColor(int, int, int) {}
func (c *recordingCanvas) SetFillColor(int, int, int) {}
func (c *recordingCanvas) SetLineWidth(float64) {}
func (c *recordingCanvas) Line(float64, float64, float64, float64) {}

func (c *recordingCanvas) fontSize() float64 {
	if c.size == 0 {
		return 10
	}
	return c.size
}

// TextWidth pretends every rune is 2mm wide at 10pt
func (c *recordingCanvas) TextWidth(s string) float64 {
	return 2 * float64(len([]rune(s))) * c.fontSize() / 10
}

func (c *recordingCanvas) Text(x, y float64, s string, align Align) {
	c.texts = append(c.texts, drawnText{page: c.pages, x: x, y: y, s: s, align: align, size: c.fontSize()})
}

func (c *recordingCanvas) TextLink(x, y float64, s, url string) {
	c.Text(x, y, s, AlignLeft)
	c.links = append(c.links, url)
}

func (c *recordingCanvas) Rect(x, y, w, h float64, style RectStyle) {
	c.rects = append(c.rects, drawnRect{page: c.pages, x: x, y: y, w: w, h: h, style: style})
}

func (c *recordingCanvas) find(s string) []drawnText {
	var out []drawnText
	for _, t := range c.texts {
		if t.s == s {
			out = append(out, t)
		}
	}
	return out
}

func lineItems(n int) []models.LineItem {
	items := make([]models.LineItem, n)
	for i := range items {
		items[i] = models.LineItem{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("Item %d", i+1),
			Price:    decimal.NewFromInt(10),
			Quantity: 1,
		}
	}
	return items
}

var testProfile = models.ClientProfile{Name: "Jane Doe", Address: "12 Main St", Phone: "520-000-0000"}

func TestPaginateTableFortyRows(t *testing.T) {
	pages := PaginateTable(40, a4Height)

	require.Len(t, pages, 2)
	assert.Equal(t, TablePage{Top: 70, First: 0, Last: 23, Bottom: 262}, pages[0])
	assert.Equal(t, TablePage{Top: 20, First: 23, Last: 40, Foot: true, Bottom: 172}, pages[1])
}

func TestPaginateTableCarriesLastRowWithFoot(t *testing.T) {
	// 23 rows fill the first page exactly, leaving no room for the total row
	pages := PaginateTable(23, a4Height)

	require.Len(t, pages, 2)
	assert.Equal(t, 22, pages[0].Last)
	assert.False(t, pages[0].Foot)
	assert.Equal(t, 22, pages[1].First)
	assert.Equal(t, 23, pages[1].Last)
	assert.True(t, pages[1].Foot)
}

func TestPaginateTableInvariants(t *testing.T) {
	limit := a4Height - MarginBottom
	for n := 0; n <= 200; n++ {
		pages := PaginateTable(n, a4Height)
		require.NotEmpty(t, pages, "rows=%d", n)

		next := 0
		for i, p := range pages {
			assert.Equal(t, next, p.First, "rows=%d page=%d", n, i)
			assert.LessOrEqual(t, p.Bottom, limit+epsilon, "rows=%d page=%d", n, i)
			assert.Equal(t, i == len(pages)-1, p.Foot, "rows=%d page=%d", n, i)
			if n > 0 {
				assert.Greater(t, p.Last, p.First, "rows=%d page=%d is empty", n, i)
			}
			next = p.Last
		}
		assert.Equal(t, n, next, "rows=%d", n)
	}
}

func TestRenderFortyItems(t *testing.T) {
	c := &recordingCanvas{}
	res := Render(c, DefaultBranding(), testProfile, lineItems(40), Meta{Number: 7, Date: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)})

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, res.ClosingPage)
	assert.Equal(t, 172.0, res.ClosingY)

	totals := c.find("Total")
	require.Len(t, totals, 1, "total row appears once")
	assert.Equal(t, 2, totals[0].page)

	assert.Len(t, c.find("No."), 2, "header row repeats on each page")
	require.Len(t, c.find("Notes"), 1)
	assert.Equal(t, 2, c.find("Notes")[0].page)
	assert.Equal(t, 184.0, c.find("Notes")[0].y)

	assert.Len(t, c.find("Estimate Number: # 007"), 1)
	assert.Len(t, c.find("Date: 2/6/2026"), 1)
	assert.Len(t, c.find("$400.00"), 2, "total box and total row")
}

func TestRenderClosingBlocksMoveToNewPage(t *testing.T) {
	c := &recordingCanvas{}
	res := Render(c, DefaultBranding(), testProfile, lineItems(48), Meta{Number: 1, Date: time.Now()})

	require.Len(t, res.Table, 2)
	assert.Equal(t, 236.0, res.Table[1].Bottom)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 3, res.ClosingPage)
	assert.Equal(t, MarginTop, res.ClosingY)

	assert.Equal(t, 2, c.find("Total")[0].page)
	sig := c.find("Client")
	require.Len(t, sig, 1)
	assert.Equal(t, 3, sig[0].page)
	assert.Equal(t, MarginTop+17, sig[0].y)
}

func numberedNotes(n int) (string, []string) {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Note line %03d", i+1)
	}
	return strings.Join(lines, "\n"), lines
}

// noteTexts returns the note lines in drawing order
func noteTexts(c *recordingCanvas) []drawnText {
	var out []drawnText
	for _, tx := range c.texts {
		if tx.x == MarginLeft+3 {
			out = append(out, tx)
		}
	}
	return out
}

func TestClosingSpace(t *testing.T) {
	assert.Equal(t, MinClosingSpace, ClosingSpace(0))
	assert.Equal(t, MinClosingSpace, ClosingSpace(4))
	assert.InDelta(t, notesOffset+notesGap+29*notesLineH, ClosingSpace(30), 1e-9)
}

func TestRenderNotesMoveWithTheirFullHeight(t *testing.T) {
	notes, want := numberedNotes(30)
	profile := testProfile
	profile.Notes = notes

	c := &recordingCanvas{}
	res := Render(c, DefaultBranding(), profile, lineItems(16), Meta{Number: 1, Date: time.Now()})

	// 16 rows end at 214: 55mm would fit there, the 30 note lines do not
	assert.Equal(t, 214.0, res.Table[0].Bottom)
	assert.Equal(t, 2, res.ClosingPage)
	assert.Equal(t, MarginTop, res.ClosingY)
	assert.Equal(t, 2, res.NotesEndPage)

	drawn := noteTexts(c)
	require.Len(t, drawn, len(want))
	for i, tx := range drawn {
		assert.Equal(t, want[i], tx.s)
		assert.Equal(t, 2, tx.page)
	}
}

func TestRenderLongNotesContinueOnNewPages(t *testing.T) {
	notes, want := numberedNotes(130)
	profile := testProfile
	profile.Notes = notes

	c := &recordingCanvas{}
	res := Render(c, DefaultBranding(), profile, lineItems(16), Meta{Number: 1, Date: time.Now()})

	assert.Equal(t, 2, res.ClosingPage)
	assert.Greater(t, res.NotesEndPage, res.ClosingPage)
	assert.Equal(t, res.NotesEndPage, res.Pages)

	drawn := noteTexts(c)
	require.Len(t, drawn, len(want), "no note line is dropped")
	limit := a4Height - FooterRuleOffset - notesGap
	for i, tx := range drawn {
		assert.Equal(t, want[i], tx.s)
		assert.NotContains(t, tx.s, "...")
		assert.LessOrEqual(t, tx.y, limit+epsilon)
		if i > 0 && tx.page > drawn[i-1].page {
			assert.Equal(t, MarginTop+notesOffset, tx.y, "continued notes start under the header")
		}
	}

	sig := c.find("Client")
	require.Len(t, sig, 1)
	assert.Equal(t, res.ClosingPage, sig[0].page)
	assert.Len(t, c.find("Email: carpentry.ido@gmail.com"), res.Pages)
}

func TestRenderClientBlockShrinksLongValues(t *testing.T) {
	profile := testProfile
	profile.Name = "Jonathan Alexander Montgomery-Smithson III"
	profile.Email = strings.Repeat("a", 60) + "@example.com"

	c := &recordingCanvas{}
	Render(c, DefaultBranding(), profile, lineItems(1), Meta{Number: 1, Date: time.Now()})

	name := c.find("Name: " + profile.Name)
	require.Len(t, name, 1, "drawn in full")
	assert.Less(t, name[0].size, clientFontSize)
	assert.GreaterOrEqual(t, name[0].size, clientMinFontSize)

	email := c.find("Email: " + profile.Email)
	require.Len(t, email, 1, "rows under the metadata box use the page width")

	phone := c.find("Phone: " + testProfile.Phone)
	require.Len(t, phone, 1)
	assert.Equal(t, clientFontSize, phone[0].size)
}

func TestRenderFooterOnEveryPage(t *testing.T) {
	c := &recordingCanvas{}
	res := Render(c, DefaultBranding(), testProfile, lineItems(48), Meta{Number: 1, Date: time.Now()})

	emails := c.find("Email: carpentry.ido@gmail.com")
	require.Len(t, emails, res.Pages)
	for i, e := range emails {
		assert.Equal(t, i+1, e.page)
		assert.Equal(t, a4Height-10, e.y)
	}
	assert.Contains(t, c.links, "mailto:carpentry.ido@gmail.com")
}

func TestRenderPlaceholdersAndDefaultNotes(t *testing.T) {
	c := &recordingCanvas{}
	Render(c, DefaultBranding(), models.ClientProfile{Notes: "   "}, lineItems(1), Meta{Number: 2, Date: time.Now()})

	assert.Len(t, c.find("Name: Client not specified"), 1)
	assert.Len(t, c.find("Email: Email not specified"), 1)

	var noteLines []string
	for _, tx := range c.texts {
		if tx.x == MarginLeft+3 {
			noteLines = append(noteLines, tx.s)
		}
	}
	require.NotEmpty(t, noteLines)
	assert.True(t, strings.HasPrefix(noteLines[0], "1. This estimate"))
}

func TestRenderEmptyEstimate(t *testing.T) {
	c := &recordingCanvas{}
	res := Render(c, DefaultBranding(), testProfile, nil, Meta{Number: 1, Date: time.Now()})

	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, TableStartY+2*RowHeight, res.ClosingY)
	assert.Len(t, c.find("$0.00"), 2)
}

func TestTableCellsStayInsideColumns(t *testing.T) {
	items := lineItems(1)
	items[0].Name = strings.Repeat("Very long cabinet description ", 10)

	c := &recordingCanvas{}
	Render(c, DefaultBranding(), testProfile, items, Meta{Number: 1, Date: time.Now()})

	descWidth := 210 - MarginLeft - MarginRight - colNo - colQty - colUnit - colAmount
	for _, tx := range c.texts {
		if strings.HasPrefix(tx.s, "Very long") {
			assert.True(t, strings.HasSuffix(tx.s, "..."))
			assert.LessOrEqual(t, 2*float64(len([]rune(tx.s))), descWidth-2*CellPadding)
		}
	}
}

func TestWrapText(t *testing.T) {
	c := &recordingCanvas{}

	lines := wrapText(c, "one two three\n\nfour", 20)
	assert.Equal(t, []string{"one two", "three", "", "four"}, lines)

	lines = wrapText(c, "abcdefghijklmnop", 10)
	assert.Equal(t, []string{"abcde", "fghij", "klmno", "p"}, lines)
}

func TestFitText(t *testing.T) {
	c := &recordingCanvas{}
	assert.Equal(t, "short", fitText(c, "short", 20))
	assert.Equal(t, "abcd...", fitText(c, "abcdefghij", 14))
}

func TestEstimateNumber(t *testing.T) {
	assert.Equal(t, "001", Meta{Number: 1}.EstimateNumber())
	assert.Equal(t, "042", Meta{Number: 42}.EstimateNumber())
	assert.Equal(t, "1234", Meta{Number: 1234}.EstimateNumber())
}
