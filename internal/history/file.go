package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-jobapply-automation/internal/models"
)

const historyFile = "applied_jobs.json"

type fileEntry struct {
	URL       string                   `json:"url"`
	Title     string                   `json:"title,omitempty"`
	Status    models.ApplicationStatus `json:"status"`
	Timestamp int64                    `json:"timestamp"`
}

// FileStore keeps outcomes in a JSON file. Entries older than the retention
// window are dropped when the file is loaded.
type FileStore struct {
	mu       sync.Mutex
	filePath string
	entries  map[string]fileEntry
	log      logrus.FieldLogger
}

func OpenFile(dir string, retention time.Duration, log logrus.FieldLogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	fs := &FileStore{
		filePath: filepath.Join(dir, historyFile),
		entries:  make(map[string]fileEntry),
		log:      log,
	}
	if err := fs.load(retention); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) Applied(_ context.Context, url string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	e, ok := fs.entries[url]
	return ok && e.Status == models.StatusApplied, nil
}

// Record stores app and rewrites the file. A later FAILED attempt does not
// overwrite an earlier APPLIED one.
func (fs *FileStore) Record(_ context.Context, app models.Application) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if prev, ok := fs.entries[app.URL]; ok && prev.Status == models.StatusApplied {
		return nil
	}
	ts := app.AttemptedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	fs.entries[app.URL] = fileEntry{
		URL:       app.URL,
		Title:     app.Title,
		Status:    app.Status,
		Timestamp: ts.UnixMilli(),
	}
	return fs.save()
}

func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) load(retention time.Duration) error {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", historyFile, err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse %s: %w", historyFile, err)
	}

	cutoff := time.Now().Add(-retention).UnixMilli()
	loaded := 0
	for _, e := range entries {
		if retention > 0 && e.Timestamp <= cutoff {
			continue
		}
		fs.entries[e.URL] = e
		loaded++
	}
	fs.log.Infof("📋 Loaded %d previous applications (%d expired and removed)", loaded, len(entries)-loaded)
	return nil
}

func (fs *FileStore) save() error {
	entries := make([]fileEntry, 0, len(fs.entries))
	for _, e := range fs.entries {
		entries = append(entries, e)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", historyFile, err)
	}
	fs.log.Debugf("💾 Saved %d entries to history", len(entries))
	return nil
}
