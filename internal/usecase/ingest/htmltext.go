package ingest

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements contribute no text
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// line elements end the current line
var lineElements = map[atom.Atom]bool{
	atom.Br: true, atom.Div: true, atom.Li: true, atom.Tr: true, atom.Title: true,
	atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Figcaption: true, atom.Dt: true, atom.Dd: true,
}

// paragraph elements are separated from their neighbours by a blank line
var paragraphElements = map[atom.Atom]bool{
	atom.P: true, atom.Ul: true, atom.Ol: true, atom.Dl: true, atom.Table: true, atom.Blockquote: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Article: true, atom.Section: true, atom.Main: true, atom.Aside: true, atom.Figure: true,
	atom.Hr: true, atom.Pre: true,
}

const (
	noBreak = iota
	lineBreak
	paragraphBreak
)

// htmlToText extracts the visible text of an HTML page. Line elements start
// a new line and paragraph elements are separated by one blank line, so the
// chunker can split on paragraphs.
func htmlToText(page []byte) string {
	z := html.NewTokenizer(bytes.NewReader(page))

	var b strings.Builder
	skipDepth := 0
	pending := noBreak

	markBreak := func(a atom.Atom) {
		switch {
		case paragraphElements[a]:
			pending = paragraphBreak
		case lineElements[a] && pending < lineBreak:
			pending = lineBreak
		}
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapseLines(b.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skippedElements[a] {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			markBreak(a)

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skippedElements[a] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			markBreak(a)

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := z.Text()
			if pending != noBreak {
				if len(bytes.TrimSpace(text)) == 0 {
					continue
				}
				if b.Len() > 0 {
					b.WriteString(strings.Repeat("\n", pending))
				}
				pending = noBreak
			}
			b.Write(text)
		}
	}
}

// collapseLines normalises whitespace inside lines, keeps at most one blank
// line between paragraphs and drops leading and trailing blank lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
