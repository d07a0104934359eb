package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
)

func sample() advance.Advance {
	a := advance.Default("2026-03-14")
	a.DetailName = "Harbor Gala"
	a.VenueName = "Pier 9"
	a.Address = "9 Embarcadero"
	a.ERName = "St. Mary"
	a.ERPhone = "555-1234"
	a.AlphaArrival = "North curb"
	a.Agents = []advance.Agent{{Name: "Kim", Role: "Driver", Phone: "555-0001"}}
	a.BoloPois = []advance.BoloPoi{{Type: advance.KindPOI, Subject: "Side gate", LastKnown: "Alley"}}
	return a
}

func texts(l *export.Layout) string {
	var parts []string
	for _, t := range l.Texts {
		parts = append(parts, t.Value)
	}
	return strings.Join(parts, "\n")
}

func TestBuild(t *testing.T) {
	doc := Build(sample(), Options{Year: 2026})
	assert.Equal(t, "Harbor Gala", doc.Title)
	assert.Equal(t, "Pier 9 • 9 Embarcadero", doc.Subtitle)
	assert.Equal(t, "3/14/2026", doc.Date)
	assert.Equal(t, "ON 18:00 • OFF 02:00", doc.Shift)
	assert.Equal(t, "Generated with "+advance.AppName, doc.Generated)
	require.Len(t, doc.Grid, 4)
	require.Len(t, doc.Wide, 3)
	assert.Equal(t, "© 2026 Raden. Generated by "+advance.AppName+".", doc.Footer[0])

	blank := Build(advance.Blank("2026-03-14"), Options{Year: 2026})
	assert.Equal(t, "Pocket Advance", blank.Title)
	assert.Equal(t, " • —", blank.Subtitle)
}

func TestBuildRedacted(t *testing.T) {
	doc := Build(sample(), Options{Redact: true})
	assert.Contains(t, doc.Generated, "Redaction enabled")
	assert.Equal(t, "Pier 9 • REDACTED", doc.Subtitle)

	med := doc.Grid[3]
	assert.Equal(t, "MEDICAL / LE", med.Title)
	assert.Equal(t, []Line{{Text: "St. Mary"}, {Text: "REDACTED", Small: true}, {Text: "REDACTED", Small: true}}, med.Entries[0].Lines)

	team := doc.Grid[0]
	assert.Equal(t, "REDACTED", team.Entries[2].Right)
}

func TestLayout(t *testing.T) {
	l := Layout(sample(), Options{Year: 2026})
	assert.Equal(t, Width, l.Width)
	assert.Greater(t, l.Height, 300)

	all := texts(l)
	for _, want := range []string{"Harbor Gala", "TEAM", "COMMS", "MOVEMENT", "MEDICAL / LE", "POCS", "BOLOS / POIS", "NOTES", "555-1234", "POI Side gate"} {
		assert.Contains(t, all, want)
	}
	for _, tx := range l.Texts {
		assert.LessOrEqual(t, tx.X, float64(Width))
		assert.GreaterOrEqual(t, tx.X, 0.0)
	}

	red := texts(Layout(sample(), Options{Redact: true}))
	assert.NotContains(t, red, "555-1234")
	assert.NotContains(t, red, "North curb")
	assert.Contains(t, red, "REDACTED")
}

func TestLayoutWrapsLongNotes(t *testing.T) {
	a := sample()
	short := Layout(a, Options{}).Height
	a.Notes = strings.Repeat("perimeter walk before arrival ", 40)
	assert.Greater(t, Layout(a, Options{}).Height, short+40)
}

func TestForExportCompact(t *testing.T) {
	a := sample()
	for i := 0; i < 30; i++ {
		a.BoloPois = append(a.BoloPois, advance.BoloPoi{
			Type:        advance.KindBOLO,
			Subject:     "Gray sedan",
			Description: strings.Repeat("seen circling the block twice, plate partially obscured. ", 6),
		})
	}
	full := Layout(a, Options{})
	fitted := ForExport(a, Options{}, true)
	assert.Less(t, fitted.Height, full.Height)
	assert.Equal(t, full.Height, ForExport(a, Options{}, false).Height)

	small := sample()
	assert.Equal(t, Layout(small, Options{}).Height, ForExport(small, Options{}, true).Height)
}

func TestWrap(t *testing.T) {
	lines := wrap("alpha beta gamma delta", 12, false, 60, 60)
	assert.Greater(t, len(lines), 1)
	for _, ln := range lines {
		assert.LessOrEqual(t, export.MeasureText(ln, 12, false), 60.0)
	}
	assert.Equal(t, []string{"a", "", "b"}, wrap("a\n\nb\n", 12, false, 500, 500))
	assert.Empty(t, wrap("", 12, false, 500, 500))

	long := wrap(strings.Repeat("x", 200), 12, false, 50, 50)
	assert.Equal(t, strings.Repeat("x", 200), strings.Join(long, ""))
}

func TestHTML(t *testing.T) {
	out, err := HTML(sample(), Options{Year: 2026})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Harbor Gala", doc.Find("title").Text())
	assert.Equal(t, "Harbor Gala", doc.Find(".title").Text())
	assert.Equal(t, "3/14/2026", doc.Find("#date").Text())
	assert.Equal(t, 7, doc.Find("section").Length())

	var titles []string
	doc.Find("section .st").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{"TEAM", "COMMS", "MOVEMENT", "MEDICAL / LE", "POCS", "BOLOS / POIS", "NOTES"}, titles)
	assert.Contains(t, doc.Find("section").Eq(3).Text(), "555-1234")
}

func TestHTMLRedactedAndCompact(t *testing.T) {
	a := sample()
	a.BoloPois[0].Description = "tall, gray jacket"
	out, err := HTML(a, Options{Redact: true, Compact: true})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	med := doc.Find("section").Eq(3).Text()
	assert.NotContains(t, med, "555-1234")
	assert.Contains(t, med, "REDACTED")
	assert.Equal(t, 1, doc.Find(".clamp").Length())
	assert.Contains(t, doc.Find(".gen").Text(), "Redaction enabled")
}

func TestNeedsCompact(t *testing.T) {
	assert.False(t, NeedsCompact(sample(), Options{}))
	a := sample()
	for i := 0; i < 40; i++ {
		a.BoloPois = append(a.BoloPois, advance.BoloPoi{Type: advance.KindBOLO, Subject: "Gray sedan", Description: "circling"})
	}
	assert.True(t, NeedsCompact(a, Options{}))
}
