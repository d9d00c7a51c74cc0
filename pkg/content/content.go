/*
 *  Flux is a client for the Miniflux API
 *  Copyright (c) 2021 The Ekster authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */


// Package content renders the HTML content of entries as text.
package content

import (
	"bytes"
	"log"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"p83.nl/go/flux/pkg/miniflux"
)

var blockElements = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Br:         true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Li:         true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Ul:         true,
}

// Text returns the plain text of an HTML fragment. Block elements end a
// line, script and style elements are left out and runs of whitespace
// become a single space.
func Text(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var buf strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapse(buf.String())

		case html.TextToken:
			if skip == 0 {
				buf.WriteString(squash(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if blockElements[a] {
				buf.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if skip > 0 {
					skip--
				}
				continue
			}
			if blockElements[a] {
				buf.WriteByte('\n')
			}
		}
	}
}

// squash turns every run of whitespace in a text token into one space
func squash(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}

	out := strings.Join(fields, " ")
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(r) {
		out = " " + out
	}
	if r, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(r) {
		out += " "
	}
	return out
}

func collapse(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// Summary returns the text of an HTML fragment on one line, cut at n runes.
func Summary(s string, n int) string {
	text := strings.Join(strings.Fields(Text(s)), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// Readable returns the article text of an entry. When no article can be
// found in the content, the text of the whole content is returned.
func Readable(entry miniflux.Entry) (string, error) {
	base, err := url.Parse(entry.URL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid url of entry %d", entry.ID)
	}

	article, err := readability.FromReader(strings.NewReader(entry.Content), base)
	if err != nil {
		log.Printf("readability of entry %d: %v", entry.ID, err)
		return Text(entry.Content), nil
	}

	text := collapse(article.TextContent)
	if text == "" {
		return Text(entry.Content), nil
	}
	return text, nil
}

// ResolveLinks makes the href of links and the src of images absolute
// against base.
func ResolveLinks(s string, base *url.URL) (string, error) {
	if base == nil {
		return s, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not parse content")
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		resolveLinksRec(node, base)
		if err := html.Render(&buf, node); err != nil {
			return "", errors.Wrap(err, "could not render content")
		}
	}
	return buf.String(), nil
}

func getAttrPtr(node *html.Node, name string) *string {
	if node == nil {
		return nil
	}
	for i, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return &node.Attr[i].Val
		}
	}
	return nil
}

func resolveLinksRec(node *html.Node, base *url.URL) {
	var ref *string
	switch node.DataAtom {
	case atom.A:
		ref = getAttrPtr(node, "href")
	case atom.Img:
		ref = getAttrPtr(node, "src")
	}
	if ref != nil {
		if u, err := url.Parse(*ref); err == nil {
			*ref = base.ResolveReference(u).String()
		}
	}

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		resolveLinksRec(c, base)
	}
}
