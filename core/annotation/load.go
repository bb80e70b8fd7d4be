package annotation

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gaurav-prasanna/protpipe/core"
)

var (
	manifestExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}
	storeExtensions    = map[string]bool{".db": true, ".sqlite": true, ".sqlite3": true}
)

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsManifest reports whether source names a YAML or JSON manifest.
func IsManifest(source string) bool {
	return manifestExtensions[sourceExt(source)]
}

// IsStore reports whether source names a SQLite annotation store.
func IsStore(source string) bool {
	return storeExtensions[sourceExt(source)]
}

func sourceExt(source string) string {
	if IsRemote(source) {
		u, _ := url.Parse(source)
		source = u.Path
	}
	return strings.ToLower(path.Ext(source))
}

// Load reads a ProteinDB from a manifest file, a remote manifest or a
// SQLite store. Stores must already exist.
func Load(ctx context.Context, source string, fetcher core.Fetcher) (*core.ProteinDB, error) {
	switch {
	case IsRemote(source) && IsManifest(source):
		res, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return decode(res.Body)

	case IsRemote(source):
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownSource, source)

	case IsStore(source):
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		st, err := OpenStore(source)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.Load(ctx)

	case IsManifest(source):
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		return decode(data)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownSource, source)
}

func decode(data []byte) (*core.ProteinDB, error) {
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return m.ProteinDB()
}
