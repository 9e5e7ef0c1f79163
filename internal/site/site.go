package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/manifest"
	"github.com/gerunddev/mdsite/internal/markdown"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ErrUnsafeDir is returned when asked to clean a directory like "/" or ".."
var ErrUnsafeDir = errors.New("refusing to clean unsafe directory")

// Builder generates the public site from the content tree
type Builder struct {
	config    *config.Config
	manifest  *manifest.Manifest
	logger    *logger.Logger
	sanitizer *bluemonday.Policy

	// DryRun renders every page but writes nothing
	DryRun bool
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, m *manifest.Manifest) *Builder {
	b := &Builder{
		config:   cfg,
		manifest: m,
		logger:   logger.Discard(),
	}
	if cfg.Sanitize {
		b.sanitizer = bluemonday.UGCPolicy()
	}
	return b
}

// SetLogger sets the logger used while building
func (b *Builder) SetLogger(l *logger.Logger) {
	b.logger = l
}

// Page is a rendered page held in memory
type Page struct {
	Source  string
	Title   string
	Content string
	HTML    []byte
}

// BuildResult represents the result of a build
type BuildResult struct {
	BuildID        string
	PagesGenerated int
	PagesSkipped   int
	AssetsCopied   int
	BytesWritten   int64
	Errors         []error
	StartTime      time.Time
	EndTime        time.Time
}

// String returns a human-readable summary of the build result
func (r *BuildResult) String() string {
	duration := r.EndTime.Sub(r.StartTime).Round(time.Millisecond)
	return fmt.Sprintf(
		"Build complete: %d pages generated, %d skipped, %d assets copied, %s written, %d errors (took %v)",
		r.PagesGenerated,
		r.PagesSkipped,
		r.AssetsCopied,
		humanize.Bytes(uint64(r.BytesWritten)),
		len(r.Errors),
		duration,
	)
}

// Build generates every page and copies static assets into the public dir.
// A full build cleans the public dir first; an incremental build keeps it
// and skips pages whose source and template are unchanged.
func (b *Builder) Build() (*BuildResult, error) {
	cfg := b.config
	result := &BuildResult{
		BuildID:   uuid.NewString(),
		StartTime: time.Now(),
	}
	b.logger.BuildStarted(result.BuildID, cfg.ContentDir, cfg.PublicDir)

	tmpl, err := LoadTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}
	templateHash, err := manifest.ComputeHash(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to hash template: %w", err)
	}
	incremental := cfg.Incremental && b.manifest.TemplateHash == templateHash

	sources, err := GatherPages(cfg.ContentDir)
	if err != nil {
		return nil, err
	}

	if !b.DryRun {
		if cfg.Incremental {
			if err := os.MkdirAll(cfg.PublicDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create public directory: %w", err)
			}
		} else {
			if err := cfg.CheckPublicDir(""); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnsafeDir, err)
			}
			removed, err := CleanDir(cfg.PublicDir)
			if err != nil {
				return nil, err
			}
			b.logger.DirCleaned(cfg.PublicDir, removed)
		}

		files, written, err := b.CopyStatic(cfg.StaticDir, cfg.PublicDir)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("static assets: %w", err))
		}
		result.AssetsCopied = files
		result.BytesWritten += written
	}

	present := make(map[string]bool, len(sources))
	for _, source := range sources {
		present[source] = true

		dest, err := b.Output(source)
		if err != nil {
			b.pageFailed(result, source, err)
			continue
		}

		if incremental && b.upToDate(source, dest) {
			result.PagesSkipped++
			b.logger.PageSkipped(source, "unchanged")
			continue
		}

		page, err := b.RenderPage(source, tmpl)
		if err != nil {
			b.pageFailed(result, source, err)
			continue
		}

		if b.DryRun {
			result.PagesGenerated++
			b.logger.PageGenerated(source, dest, page.Title)
			continue
		}

		if err := writeFile(dest, page.HTML); err != nil {
			b.pageFailed(result, source, err)
			continue
		}
		result.PagesGenerated++
		result.BytesWritten += int64(len(page.HTML))
		b.logger.PageGenerated(source, dest, page.Title)

		if err := b.manifest.Update(source, dest); err != nil {
			b.logger.ManifestError("update", err)
		}
	}

	if !b.DryRun {
		b.forgetRemoved(present)
		b.manifest.TemplateHash = templateHash
		if err := b.manifest.Save(cfg.ManifestFile); err != nil {
			b.logger.ManifestError("save", err)
			result.Errors = append(result.Errors, fmt.Errorf("manifest: %w", err))
		}
	}

	result.EndTime = time.Now()
	b.logger.BuildCompleted(result.BuildID, result.PagesGenerated, result.PagesSkipped,
		len(result.Errors), result.BytesWritten, result.EndTime.Sub(result.StartTime))

	return result, nil
}

func (b *Builder) pageFailed(result *BuildResult, source string, err error) {
	b.logger.PageError(source, err)
	result.Errors = append(result.Errors, fmt.Errorf("%s: %w", source, err))
}

func (b *Builder) upToDate(source, dest string) bool {
	if _, err := os.Stat(dest); err != nil {
		return false
	}
	changed, err := b.manifest.HasChanged(source)
	return err == nil && !changed
}

// forgetRemoved drops manifest entries whose source is gone, along with
// their output when the public dir was not cleaned
func (b *Builder) forgetRemoved(present map[string]bool) {
	for _, source := range b.manifest.Sources() {
		if present[source] {
			continue
		}
		if b.config.Incremental {
			output := b.manifest.Pages[source].Output
			if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
				b.logger.ManifestError("remove output", err)
			}
		}
		b.manifest.Forget(source)
	}
}

// Output returns the output path of a page source
func (b *Builder) Output(source string) (string, error) {
	return OutputPath(b.config.ContentDir, b.config.PublicDir, source)
}

// Preview renders a single page with the configured template
func (b *Builder) Preview(source string) (*Page, error) {
	tmpl, err := LoadTemplate(b.config.Template)
	if err != nil {
		return nil, err
	}
	return b.RenderPage(source, tmpl)
}

// BuildPage regenerates a single page and records it in the manifest
func (b *Builder) BuildPage(source string) (string, error) {
	tmpl, err := LoadTemplate(b.config.Template)
	if err != nil {
		return "", err
	}
	dest, err := b.Output(source)
	if err != nil {
		return "", err
	}
	if err := b.GeneratePage(source, tmpl, dest); err != nil {
		return "", err
	}
	if err := b.manifest.Update(source, dest); err != nil {
		return dest, fmt.Errorf("failed to update manifest: %w", err)
	}
	if err := b.manifest.Save(b.config.ManifestFile); err != nil {
		return dest, fmt.Errorf("failed to save manifest: %w", err)
	}
	return dest, nil
}

// GeneratePage renders a page and writes it to dest
func (b *Builder) GeneratePage(source string, tmpl *template.Template, dest string) error {
	page, err := b.RenderPage(source, tmpl)
	if err != nil {
		return err
	}
	if err := writeFile(dest, page.HTML); err != nil {
		return err
	}
	b.logger.PageGenerated(source, dest, page.Title)
	return nil
}

// RenderPage converts a Markdown source into a full page using tmpl
func (b *Builder) RenderPage(source string, tmpl *template.Template) (*Page, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	doc := strings.ReplaceAll(string(data), "\r\n", "\n")

	content, err := markdown.ToHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	if b.sanitizer != nil {
		content = b.sanitizer.Sanitize(content)
	}

	page := &Page{
		Source:  source,
		Title:   markdown.ExtractTitle(doc),
		Content: content,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	page.HTML = buf.Bytes()

	return page, nil
}

var placeholder = regexp.MustCompile(`\{\{\s*(Title|Content)\s*\}\}`)

// LoadTemplate parses a page template.
// Bare {{ Title }} and {{ Content }} placeholders are accepted alongside
// the usual {{ .Title }} and {{ .Content }}.
func LoadTemplate(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	text := placeholder.ReplaceAllString(string(data), "{{ .$1 }}")
	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// OutputPath maps a source under contentDir to its .html file under publicDir
func OutputPath(contentDir, publicDir, source string) (string, error) {
	rel, err := filepath.Rel(contentDir, source)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", source, contentDir)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(publicDir, rel), nil
}

// GatherPages returns every Markdown file under dir, sorted
func GatherPages(dir string) ([]string, error) {
	var pages []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && filepath.Ext(path) == ".md" {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	sort.Strings(pages)
	return pages, nil
}

// CleanDir empties dir, creating it when missing.
// It refuses the filesystem root and any directory holding the working
// or home directory. It returns the number of top-level entries removed.
func CleanDir(dir string) (int, error) {
	switch filepath.Clean(dir) {
	case ".", "..", string(filepath.Separator):
		return 0, fmt.Errorf("%w: %q", ErrUnsafeDir, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}
	if abs == filepath.Dir(abs) {
		return 0, fmt.Errorf("%w: %q", ErrUnsafeDir, dir)
	}
	if wd, err := os.Getwd(); err == nil && config.Within(abs, wd) {
		return 0, fmt.Errorf("%w: %q holds the working directory", ErrUnsafeDir, dir)
	}
	if home, err := os.UserHomeDir(); err == nil && config.Within(abs, home) {
		return 0, fmt.Errorf("%w: %q holds the home directory", ErrUnsafeDir, dir)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(abs, entry.Name())); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// CopyStatic copies the static tree into dst.
// A missing static directory copies nothing.
func (b *Builder) CopyStatic(src, dst string) (int, int64, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		b.logger.Debug("no static directory", "dir", src)
		return 0, 0, nil
	}

	var files int
	var written int64

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		n, err := copyFile(path, target)
		if err != nil {
			return err
		}
		files++
		written += n
		b.logger.AssetCopied(path, target)
		return nil
	})

	return files, written, err
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
