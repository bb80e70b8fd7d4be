// Package crawl provides source discovery for --all mode.
// It finds annotation sources below a local directory, or on a remote
// index page (such as a web server's directory listing), keeping discovery
// separate from the export pipeline.
package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/protpipe/core"
	"github.com/gaurav-prasanna/protpipe/core/annotation"
)

// maxLocations bounds the number of directories or index pages visited.
const maxLocations = 1000

// DiscoverAll finds all annotation sources to process below root.
// Local roots are walked breadth-first with entries in name order; remote
// roots are index pages whose links are followed within the same host.
func DiscoverAll(ctx context.Context, root string, fetcher core.Fetcher) ([]string, error) {
	if annotation.IsRemote(root) {
		return discoverFromIndex(ctx, root, fetcher)
	}
	return discoverFromDir(root)
}

// discoverFromDir walks a local directory tree breadth-first.
func discoverFromDir(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading batch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("batch root %s is not a directory", root)
	}

	queue := NewQueue()
	queue.Add(filepath.Clean(root))

	var sources []string
	for queue.HasNext() && queue.Visited() <= maxLocations {
		dir := queue.Next()
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if IsHidden(e.Name()) {
				continue
			}
			p := filepath.Join(dir, e.Name())
			if e.IsDir() {
				queue.Add(p)
				continue
			}
			if IsSource(p) {
				sources = append(sources, p)
			}
		}
	}
	return sources, nil
}

// discoverFromIndex performs BFS over index pages to find manifest links.
// Links ending in "/" below the root are treated as nested index pages.
func discoverFromIndex(ctx context.Context, rootURL string, fetcher core.Fetcher) ([]string, error) {
	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("parsing index URL: %w", err)
	}

	pages := NewQueue()
	pages.Add(NormalizeURL(rootURL))
	found := NewQueue()

	for pages.HasNext() && pages.Visited() <= maxLocations {
		pageURL := pages.Next()

		result, err := fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if pageURL == NormalizeURL(rootURL) {
				return nil, fmt.Errorf("fetching index: %w", err)
			}
			continue // Skip failed sub-indexes, don't block discovery.
		}

		links, err := extractLinks(result.Body, pageURL)
		if err != nil {
			continue
		}

		for _, link := range links {
			if !IsSameDomain(link, root.Host) {
				continue
			}
			switch {
			case IsRemoteSource(link):
				found.Add(NormalizeURL(link))
			case isSubIndex(link, root):
				pages.Add(NormalizeURL(link))
			}
		}
	}

	sources := make([]string, 0, found.Visited())
	for found.HasNext() {
		sources = append(sources, found.Next())
	}
	return sources, nil
}

// isSubIndex reports whether link is a directory-style URL below root.
func isSubIndex(link string, root *url.URL) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	base := root.Path
	if !strings.HasSuffix(base, "/") {
		base = base[:strings.LastIndex(base, "/")+1]
	}
	return strings.HasSuffix(u.Path, "/") && strings.HasPrefix(u.Path, base) && len(u.Path) > len(base)
}

// extractLinks extracts all href values from <a> tags, resolving relative URLs.
func extractLinks(body []byte, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(baseURL)
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		resolved := resolveURL(href, base)
		if resolved != "" {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	// Skip mailto, javascript, sort links, etc.
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "#") || strings.HasPrefix(href, "?") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	// Strip fragments.
	resolved.Fragment = ""
	return resolved.String()
}
