// Package render turns an Advance into a printable one-page brief, either as
// a box layout for the pure Go rasterizer or as HTML for a browser.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
)

const (
	// Width is the document width in CSS pixels (8.5in at 96dpi).
	Width = 816
	// CompactThreshold is the projected height above which BOLO entries are
	// shortened when fitting to one page.
	CompactThreshold = 1080
	// compactDescLines caps BOLO descriptions in compact mode.
	compactDescLines = 2

	dash = "—"
)

// Options control what the brief shows.
type Options struct {
	Redact bool
	// Compact shortens BOLO/POI entries.
	Compact bool
	// Year stamps the footer; zero means the current year.
	Year int
}

// Line is one row of text inside an entry. Label, when set, is bold.
type Line struct {
	Label    string
	Text     string
	Small    bool
	MaxLines int
}

// Entry is a bolded heading with an optional right aligned value and the
// lines beneath it.
type Entry struct {
	Heading string
	Right   string
	Lines   []Line
	// Rule draws a divider above the entry.
	Rule bool
}

// Section is a bordered block with a title.
type Section struct {
	Title   string
	Entries []Entry
}

// Document is the presentation model shared by the layout and HTML renderers.
type Document struct {
	Title     string
	Subtitle  string
	Generated string
	Date      string
	Shift     string
	// Grid sections sit two per row; Wide sections span the page.
	Grid   []Section
	Wide   []Section
	Footer []string
}

// Build assembles the document for a, redacting first when asked.
func Build(a advance.Advance, opts Options) Document {
	a = advance.Redact(a, opts.Redact)
	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}

	generated := "Generated with " + advance.AppName
	if opts.Redact {
		generated += " • Redaction enabled"
	}

	return Document{
		Title:     strings.TrimSpace(or(a.DetailName, "Pocket Advance")),
		Subtitle:  a.VenueName + " • " + or(a.Address, dash),
		Generated: generated,
		Date:      displayDate(a.Date),
		Shift:     fmt.Sprintf("ON %s • OFF %s", a.TimeOn, a.TimeOff),
		Grid: []Section{
			teamSection(a),
			commsSection(a),
			movementSection(a),
			medicalSection(a),
		},
		Wide: []Section{
			pocSection(a),
			boloSection(a, opts.Compact),
			{Title: "NOTES", Entries: []Entry{{Lines: []Line{{Text: orBlank(a.Notes, dash)}}}}},
		},
		Footer: []string{
			fmt.Sprintf("© %d %s. Generated by %s.", year, advance.AppShort, advance.AppName),
			advance.Disclaimer,
		},
	}
}

func teamSection(a advance.Advance) Section {
	s := Section{Title: "TEAM", Entries: []Entry{
		{Lines: []Line{{Label: "Lead (AIC):", Text: a.TeamLead}}},
		{Heading: "Agents"},
	}}
	if len(a.Agents) == 0 {
		s.Entries = append(s.Entries, Entry{Lines: []Line{{Text: "No agents listed."}}})
	}
	for _, ag := range a.Agents {
		s.Entries = append(s.Entries, Entry{
			Heading: or(ag.Name, dash),
			Right:   ag.Phone,
			Lines:   []Line{{Text: or(ag.Role, "Role"), Small: true}},
		})
	}
	return s
}

func commsSection(a advance.Advance) Section {
	return Section{Title: "COMMS", Entries: []Entry{
		{Heading: "Primary", Lines: []Line{{Text: or(a.PrimaryComms, dash)}}},
		{Heading: "Secondary", Lines: []Line{{Text: or(a.SecondaryComms, dash)}}},
		{Heading: "Code Words", Lines: []Line{{Text: or(a.CodeWords, dash)}}},
	}}
}

func movementSection(a advance.Advance) Section {
	drop := func(name, arr, dep string) Entry {
		return Entry{Heading: name, Lines: []Line{
			{Label: "Arr:", Text: orBlank(arr, dash), Small: true},
			{Label: "Dep:", Text: orBlank(dep, dash), Small: true},
		}}
	}
	return Section{Title: "MOVEMENT", Entries: []Entry{
		{Heading: "Arrival", Lines: []Line{{Text: or(a.ArrivalTime, dash)}}},
		{Heading: "Departure", Lines: []Line{{Text: or(a.DepartTime, dash)}}},
		{Heading: "Drop Points", Rule: true},
		drop("Alpha (Main)", a.AlphaArrival, a.AlphaDeparture),
		drop("Bravo (Alt)", a.BravoArrival, a.BravoDeparture),
	}}
}

func medicalSection(a advance.Advance) Section {
	contact := func(heading, name, addr, phone string, rule bool) Entry {
		e := Entry{Heading: heading, Rule: rule, Lines: []Line{{Text: or(name, dash)}}}
		for _, v := range []string{addr, phone} {
			if v != "" {
				e.Lines = append(e.Lines, Line{Text: v, Small: true})
			}
		}
		return e
	}
	return Section{Title: "MEDICAL / LE", Entries: []Entry{
		contact("Nearest ER", a.ERName, a.ERAddress, a.ERPhone, false),
		contact("Nearest Sheriff / PD", a.LEName, a.LEAddress, a.LEPhone, true),
	}}
}

func pocSection(a advance.Advance) Section {
	s := Section{Title: "POCS"}
	if len(a.Pocs) == 0 {
		s.Entries = []Entry{{Lines: []Line{{Text: "No POCs listed."}}}}
	}
	for _, p := range a.Pocs {
		e := Entry{Heading: or(p.Name, dash), Right: p.Phone}
		if p.RoleOrg != "" {
			e.Lines = append(e.Lines, Line{Text: p.RoleOrg, Small: true})
		}
		if strings.TrimSpace(p.Notes) != "" {
			e.Lines = append(e.Lines, Line{Text: p.Notes, Small: true})
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

func boloSection(a advance.Advance, compact bool) Section {
	s := Section{Title: "BOLOS / POIS"}
	if len(a.BoloPois) == 0 {
		s.Entries = []Entry{{Lines: []Line{{Text: "No BOLOs / POIs listed."}}}}
	}
	for _, b := range a.BoloPois {
		e := Entry{Heading: string(b.Type) + " " + orBlank(b.Subject, dash)}
		if strings.TrimSpace(b.Description) != "" {
			desc := Line{Text: b.Description}
			if compact {
				desc.MaxLines = compactDescLines
			}
			e.Lines = append(e.Lines, desc)
		}
		if strings.TrimSpace(b.LastKnown) != "" {
			e.Lines = append(e.Lines, Line{Label: "Last Known:", Text: b.LastKnown, Small: true})
		}
		if strings.TrimSpace(b.Action) != "" {
			e.Lines = append(e.Lines, Line{Label: "Action:", Text: b.Action, Small: true})
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

// displayDate renders YYYY-MM-DD as M/D/YYYY; anything else passes through.
func displayDate(d string) string {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		return d
	}
	return t.Format("1/2/2006")
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// orBlank also treats whitespace-only values as missing.
func orBlank(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
