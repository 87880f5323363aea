package shortlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const excludeFileName = "exclude_file"

// Excluded is the content of an exclude file.
type Excluded struct {
	Items []*ExcludedCandidate
}

// ExcludedCandidate is a résumé file that should not be shortlisted again.
type ExcludedCandidate struct {
	FileName   string
	Reason     string
	ExcludedAt time.Time
}

// LoadExcluded reads an exclude file. An empty file means nothing is excluded.
func LoadExcluded(path string) (*Excluded, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Excluded{}, nil
	}

	var excluded Excluded
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// FileNames returns the excluded file names.
func (e *Excluded) FileNames() []string {
	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item == nil {
			continue
		}
		names = append(names, item.FileName)
	}
	return names
}

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes documents listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return excludeFileName }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, results []screening.Result) ([]screening.Result, Step, error) {
	if f.path == "" {
		return results, Step{Initial: len(results), Dropped: 0, Left: len(results)}, nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	names := make(map[string]struct{})
	for _, name := range excluded.FileNames() {
		names[name] = struct{}{}
	}

	kept, dropped := keep(results, func(r screening.Result) bool {
		_, ok := names[r.FileName]
		return !ok
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding documents based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_documents", dropped),
			zap.Int("documents_left", len(kept)),
		)
	}

	return kept, Step{Initial: len(results), Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
