// Package crawl — source filtering rules.
// Decides which files and links are annotation sources during discovery.
package crawl

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/protpipe/core/annotation"
)

// IsSameDomain checks if the given URL belongs to the specified host.
func IsSameDomain(rawURL string, host string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host == host
}

// IsHidden reports whether a path element is a dotfile or dot-directory.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// IsSource reports whether a local path is a manifest or a store.
func IsSource(p string) bool {
	return !IsHidden(filepath.Base(p)) && (annotation.IsManifest(p) || annotation.IsStore(p))
}

// IsRemoteSource reports whether a URL names a manifest. Stores cannot be
// read remotely.
func IsRemoteSource(rawURL string) bool {
	return annotation.IsRemote(rawURL) && annotation.IsManifest(rawURL)
}

// NormalizeURL strips query strings and fragments for deduplication.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	parsed.RawQuery = ""
	return parsed.String()
}
