package render

import (
	"bytes"
	"fmt"
	"io"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
)

const briefCSS = `
* { box-sizing: border-box; }
body { margin: 0; background: #fff; color: #111; font-family: ui-sans-serif, system-ui, -apple-system, "Segoe UI", Roboto, Arial, sans-serif; }
.brief { width: %dpx; padding: 18px; }
.head { display: flex; justify-content: space-between; gap: 12px; }
.title { font-size: 18px; font-weight: 900; line-height: 1.1; }
.sub { margin-top: 6px; font-size: 12px; opacity: .75; }
.gen { margin-top: 6px; font-size: 10px; opacity: .6; }
.meta { text-align: right; font-size: 12px; }
.meta b { display: block; font-weight: 900; }
.meta span { display: block; opacity: .8; margin-bottom: 8px; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 14px; margin-top: 14px; }
section { border: 1px solid rgba(0,0,0,.10); border-radius: 14px; padding: 12px; font-size: 12px; }
.wide { margin-top: 14px; }
.st { font-weight: 900; margin-bottom: 8px; }
.entry { margin-top: 8px; }
.entry.rule { border-top: 1px solid rgba(0,0,0,.08); padding-top: 10px; }
.eh { display: flex; justify-content: space-between; gap: 10px; font-weight: 800; }
.eh .right { font-size: 11px; font-weight: 400; opacity: .75; white-space: nowrap; }
.ln { white-space: pre-wrap; opacity: .85; }
.ln.small { font-size: 11px; }
.ln b { font-weight: 900; }
.clamp { display: -webkit-box; -webkit-line-clamp: 2; -webkit-box-orient: vertical; overflow: hidden; }
.foot { margin-top: 12px; font-size: 10px; opacity: .6; display: grid; gap: 4px; }
`

// HTML renders the brief as a standalone HTML page.
func HTML(a advance.Advance, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, a, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML streams the brief as HTML to w.
func WriteHTML(w io.Writer, a advance.Advance, opts Options) error {
	return page(Build(a, opts)).Render(w)
}

func page(doc Document) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		h.HTML(h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content(fmt.Sprintf("width=%d", Width))),
				h.TitleEl(g.Text(doc.Title)),
				h.StyleEl(g.Raw(fmt.Sprintf(briefCSS, Width))),
			),
			h.Body(
				h.Div(h.Class("brief"),
					header(doc),
					h.Div(h.Class("grid"), g.Map(doc.Grid, sectionNode)),
					g.Map(doc.Wide, func(s Section) g.Node {
						return h.Div(h.Class("wide"), sectionNode(s))
					}),
					h.Div(h.Class("foot"), g.Map(doc.Footer, func(s string) g.Node {
						return h.Div(g.Text(s))
					})),
				),
			),
		),
	})
}

func header(doc Document) g.Node {
	return h.Div(h.Class("head"),
		h.Div(
			h.Div(h.Class("title"), g.Text(doc.Title)),
			h.Div(h.Class("sub"), g.Text(doc.Subtitle)),
			h.Div(h.Class("gen"), g.Text(doc.Generated)),
		),
		h.Div(h.Class("meta"),
			h.B(g.Text("DATE")), h.Span(h.ID("date"), g.Text(doc.Date)),
			h.B(g.Text("SHIFT")), h.Span(h.ID("shift"), g.Text(doc.Shift)),
		),
	)
}

func sectionNode(s Section) g.Node {
	return h.Section(
		h.Div(h.Class("st"), g.Text(s.Title)),
		g.Map(s.Entries, entryNode),
	)
}

func entryNode(e Entry) g.Node {
	class := "entry"
	if e.Rule {
		class += " rule"
	}
	return h.Div(h.Class(class),
		g.If(e.Heading != "" || e.Right != "",
			h.Div(h.Class("eh"),
				h.Span(g.Text(e.Heading)),
				g.If(e.Right != "", h.Span(h.Class("right"), g.Text(e.Right))),
			),
		),
		g.Map(e.Lines, lineNode),
	)
}

func lineNode(ln Line) g.Node {
	class := "ln"
	if ln.Small {
		class += " small"
	}
	if ln.MaxLines > 0 {
		class += " clamp"
	}
	return h.Div(h.Class(class),
		g.If(ln.Label != "", g.Group([]g.Node{h.B(g.Text(ln.Label)), g.Text(" ")})),
		g.Text(ln.Text),
	)
}
