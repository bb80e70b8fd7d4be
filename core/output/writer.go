// Package output handles file naming and writing for protpipe outputs.
// In --only mode, filenames are derived from the source (e.g., cohort.xml).
// In --all mode, filenames mirror the source's path below the batch root.
package output

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RenderFunc streams one document to w.
type RenderFunc func(w io.Writer) error

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteOnly writes output for --only mode.
// Filename: source name without extension plus ext (e.g., cohort.xml).
func (w *Writer) WriteOnly(source, ext string, render RenderFunc) (string, error) {
	path := filepath.Join(w.OutputDir, filenameFromSource(source)+ext)
	if err := writeFile(path, render); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAll writes output for --all mode, mirroring source's location
// relative to root.
// Example: root=/data, source=/data/cohortA/chr1.yaml → ./cohortA/chr1.xml
func (w *Writer) WriteAll(root, source, ext string, render RenderFunc) (string, error) {
	fullPath, err := w.PathAll(root, source, ext)
	if err != nil {
		return "", err
	}

	// Ensure parent directories exist.
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := writeFile(fullPath, render); err != nil {
		return "", err
	}
	return fullPath, nil
}

// PathAll returns the file WriteAll would write for source. Sources that
// differ only by extension map to the same path.
func (w *Writer) PathAll(root, source, ext string) (string, error) {
	rel, err := relativePath(root, source)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.OutputDir, rel+ext), nil
}

// IsOutput reports whether a local source found below root looks like a
// file this writer produces: the output directory sits inside root, the
// source sits inside the output directory and it carries ext.
func (w *Writer) IsOutput(root, source, ext string) bool {
	if isURL(source) || isURL(root) {
		return false
	}
	out, err1 := filepath.Abs(w.OutputDir)
	base, err2 := filepath.Abs(root)
	src, err3 := filepath.Abs(source)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return within(base, out) && within(out, src) && strings.EqualFold(filepath.Ext(src), ext)
}

// within reports whether p is parent or lies below it.
func within(parent, p string) bool {
	rel, err := filepath.Rel(parent, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// writeFile owns the destination: it opens it, streams render through a
// buffer, flushes and closes. A failed render leaves a truncated file.
func writeFile(path string, render RenderFunc) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing file %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// relativePath returns source's path below root without its extension.
func relativePath(root, source string) (string, error) {
	var rel string
	if isURL(source) {
		src, err := url.Parse(source)
		if err != nil {
			return "", fmt.Errorf("parsing URL: %w", err)
		}
		base := ""
		if r, err := url.Parse(root); err == nil && r.Host == src.Host {
			base = r.Path
			if path.Ext(base) != "" {
				base = path.Dir(base)
			}
		}
		rel = strings.TrimPrefix(strings.TrimPrefix(src.Path, base), "/")
	} else {
		r, err := filepath.Rel(root, source)
		if err != nil {
			return "", fmt.Errorf("resolving %s against %s: %w", source, root, err)
		}
		rel = filepath.ToSlash(r)
	}
	if rel == "" || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", fmt.Errorf("source %s is outside batch root %s", source, root)
	}

	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return filepath.FromSlash(rel), nil
}

// filenameFromSource converts a source into a flat filename.
// Example: https://example.org/cohorts/a.yaml → example_org_cohorts_a
func filenameFromSource(source string) string {
	if !isURL(source) {
		base := filepath.Base(source)
		return sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	parsed, err := url.Parse(source)
	if err != nil {
		// Fallback: sanitize the raw string.
		return sanitize(source)
	}

	parts := []string{sanitize(parsed.Host)}
	p := strings.Trim(parsed.Path, "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	if p != "" {
		for _, seg := range strings.Split(p, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// sanitize replaces characters outside [A-Za-z0-9_-] with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
