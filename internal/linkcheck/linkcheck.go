package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLinkError is returned when a page links to a page that was not written.
type BrokenLinkError struct {
	// Page is the file name of the page containing the link.
	Page string

	// Target is the href of the broken link.
	Target string
}

// Error implements the error interface.
func (e *BrokenLinkError) Error() string {
	return fmt.Sprintf("%s links to missing page %s", e.Page, e.Target)
}

// ExtractLinks returns the href of every <a> element in document order.
func ExtractLinks(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := make([]string, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// LocalPage returns the page file name an href points at, and false when
// the href is not a relative link to an .html file (external URLs, image
// links, fragments).
func LocalPage(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if !strings.EqualFold(path.Ext(u.Path), ".html") {
		return "", false
	}
	return path.Clean(u.Path), true
}

// Verify reads every page in pages from dir and checks that each local
// .html link points at one of pages. It returns the number of local links
// checked and one *BrokenLinkError per broken link, joined.
func Verify(ctx context.Context, dir string, pages []string) (int, error) {
	written := make(map[string]struct{}, len(pages))
	for _, p := range pages {
		written[p] = struct{}{}
	}

	checked := 0
	var errs []error
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return checked, err
		}

		links, err := readLinks(filepath.Join(dir, p))
		if err != nil {
			return checked, err
		}
		for _, href := range links {
			target, ok := LocalPage(href)
			if !ok {
				continue
			}
			checked++
			if _, ok := written[target]; !ok {
				errs = append(errs, &BrokenLinkError{Page: p, Target: href})
			}
		}
	}
	return checked, errors.Join(errs...)
}

func readLinks(file string) ([]string, error) {
	f, err := os.Open(file) //nolint:gosec // file names come from the written page list
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	links, err := ExtractLinks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(file), err)
	}
	return links, nil
}
