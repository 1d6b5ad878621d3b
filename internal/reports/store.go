// Package reports persists migration reports as JSON files.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/viewmig/pkg/domain"
)

// FileStore stores reports as JSON files in a configured directory.
type FileStore struct {
	BasePath string
}

// NewFileStore creates a new FileStore with the given base path.
// If basePath is empty, it defaults to ".viewmig/reports".
func NewFileStore(basePath string) *FileStore {
	if basePath == "" {
		basePath = filepath.Join(".viewmig", "reports")
	}
	return &FileStore{BasePath: basePath}
}

// Save persists the report to <BasePath>/<id>.json.
func (f *FileStore) Save(ctx context.Context, report *domain.Report) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(f.path(report.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// Load retrieves a report by ID.
func (f *FileStore) Load(ctx context.Context, id string) (*domain.Report, error) {
	if id == "" {
		return nil, fmt.Errorf("report ID cannot be empty")
	}

	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Latest returns the most recent report, by ID order.
func (f *FileStore) Latest(ctx context.Context) (*domain.Report, error) {
	ids, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return f.Load(ctx, ids[len(ids)-1])
}

// Delete removes the report file. Deleting a missing report is not an error.
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("report ID cannot be empty")
	}

	err := os.Remove(f.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

// List returns the stored report IDs in ascending order. IDs start with a
// timestamp so the order is chronological.
func (f *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.BasePath, id+".json")
}
