package site

import (
	"os"

	"github.com/gerunddev/mdsite/internal/manifest"
)

// Status describes a page's output relative to its source
type Status int

const (
	StatusUpToDate Status = iota
	StatusStale
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up to date"
	case StatusStale:
		return "stale"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// PageStatus pairs a page source with the state of its output
type PageStatus struct {
	Source string
	Output string
	Status Status
}

// Statuses reports the output state of every page in the content dir.
// An edited template marks every existing page stale.
func (b *Builder) Statuses() ([]PageStatus, error) {
	sources, err := GatherPages(b.config.ContentDir)
	if err != nil {
		return nil, err
	}

	templateChanged := true
	if hash, err := manifest.ComputeHash(b.config.Template); err == nil {
		templateChanged = hash != b.manifest.TemplateHash
	}

	statuses := make([]PageStatus, 0, len(sources))
	for _, source := range sources {
		dest, err := b.Output(source)
		if err != nil {
			return nil, err
		}

		status := StatusUpToDate
		if _, err := os.Stat(dest); err != nil {
			status = StatusMissing
		} else if changed, err := b.manifest.HasChanged(source); err != nil || changed || templateChanged {
			status = StatusStale
		}

		statuses = append(statuses, PageStatus{
			Source: source,
			Output: dest,
			Status: status,
		})
	}

	return statuses, nil
}
