package directory

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// maxColspan bounds colspan attributes so a corrupt export cannot allocate
// arbitrarily wide rows.
const maxColspan = 64

// ReadHTML reads the first <table> of an HTML page saved from Excel. Such
// exports are usually windows-1256 encoded; content that is already valid
// UTF-8 is used as is.
func ReadHTML(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parseHTMLTable(content)
}

func parseHTMLTable(content []byte) (*Table, error) {
	if !utf8.Valid(content) {
		decoded, _, err := transform.Bytes(charmap.Windows1256.NewDecoder(), content)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1256: %w", err)
		}
		content = decoded
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, fmt.Errorf("no table element found")
	}

	var rows [][]string
	walk(table, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			rows = append(rows, rowCells(n))
			return false
		}
		// Nested tables belong to a cell, not to this table.
		return !(n != table && n.Type == html.ElementNode && n.DataAtom == atom.Table)
	})

	return newTable(rows)
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cells = append(cells, strings.TrimSpace(textContent(c)))
		for i := 1; i < colspan(c); i++ {
			cells = append(cells, "")
		}
	}
	return cells
}

func colspan(n *html.Node) int {
	for _, attr := range n.Attr {
		if attr.Key != "colspan" {
			continue
		}
		span, err := strconv.Atoi(strings.TrimSpace(attr.Val))
		if err != nil || span < 1 {
			return 1
		}
		return min(span, maxColspan)
	}
	return 1
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		return true
	})
	return strings.ReplaceAll(b.String(), "\u00a0", " ")
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.Type == html.ElementNode && c.DataAtom == a {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth first; returning false from fn
// skips the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
