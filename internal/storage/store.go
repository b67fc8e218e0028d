// Package storage persists extraction summaries as one JSON file per
// notice, with timestamped backups taken before any reviewed mutation
// and an append-only directory of correction examples the whitelist
// learner trains on.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"EditalScanner/internal/domain"
)

// ErrNotFound reports a summary that has never been stored.
var ErrNotFound = errors.New("summary not found")

// backupStamp is the timestamp layout embedded in backup file names.
const backupStamp = "20060102T150405Z"

// Store lays summaries, backups and reviewed examples out on disk.
type Store struct {
	summariesDir string
	backupsDir   string
	examplesDir  string
	now          func() time.Time
}

// NewStore builds a store over the three data directories. Directories
// are created lazily on first write.
func NewStore(summariesDir, backupsDir, examplesDir string) *Store {
	return &Store{
		summariesDir: summariesDir,
		backupsDir:   backupsDir,
		examplesDir:  examplesDir,
		now:          time.Now,
	}
}

// Path returns where the summary for sourceID lives.
func (s *Store) Path(sourceID string) string {
	return filepath.Join(s.summariesDir, fileName(sourceID))
}

// fileName flattens a source id into a safe file name.
func fileName(sourceID string) string {
	clean := strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_").Replace(sourceID)
	return clean + ".json"
}

// Save writes the summary, replacing any previous version. Nil fields
// serialize as explicit nulls so a reviewer sees every gap.
func (s *Store) Save(sum domain.Summary) error {
	if sum.SourceID == "" {
		return errors.New("save summary: empty source id")
	}
	if err := os.MkdirAll(s.summariesDir, 0o755); err != nil {
		return fmt.Errorf("create summaries dir: %w", err)
	}
	data, err := encodeJSON(sum)
	if err != nil {
		return fmt.Errorf("encode summary %s: %w", sum.SourceID, err)
	}
	if err := os.WriteFile(s.Path(sum.SourceID), data, 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", sum.SourceID, err)
	}
	return nil
}

// Load reads one summary back. A missing file maps to ErrNotFound.
func (s *Store) Load(sourceID string) (domain.Summary, error) {
	data, err := os.ReadFile(s.Path(sourceID))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Summary{}, fmt.Errorf("%w: %s", ErrNotFound, sourceID)
	}
	if err != nil {
		return domain.Summary{}, fmt.Errorf("read summary %s: %w", sourceID, err)
	}
	var sum domain.Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return domain.Summary{}, fmt.Errorf("decode summary %s: %w", sourceID, err)
	}
	return sum, nil
}

// List loads every stored summary, ordered by source id.
func (s *Store) List() ([]domain.Summary, error) {
	entries, err := os.ReadDir(s.summariesDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	var sums []domain.Summary
	var bad []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.summariesDir, entry.Name()))
		if err != nil {
			bad = append(bad, fmt.Errorf("read %s: %w", entry.Name(), err))
			continue
		}
		var sum domain.Summary
		if err := json.Unmarshal(data, &sum); err != nil {
			bad = append(bad, fmt.Errorf("decode %s: %w", entry.Name(), err))
			continue
		}
		sums = append(sums, sum)
	}
	sort.Slice(sums, func(i, j int) bool { return sums[i].SourceID < sums[j].SourceID })
	return sums, errors.Join(bad...)
}

// Backup copies the current summary file aside before a mutation and
// returns the backup path. Backing up a missing summary is an error:
// corrections must land on something.
func (s *Store) Backup(sourceID string) (string, error) {
	data, err := os.ReadFile(s.Path(sourceID))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, sourceID)
	}
	if err != nil {
		return "", fmt.Errorf("read summary %s: %w", sourceID, err)
	}
	if err := os.MkdirAll(s.backupsDir, 0o755); err != nil {
		return "", fmt.Errorf("create backups dir: %w", err)
	}
	stamp := s.now().UTC().Format(backupStamp)
	path := filepath.Join(s.backupsDir, fmt.Sprintf("%s.%s.bak", fileName(sourceID), stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	return path, nil
}

// AppendExample records one reviewed correction for future whitelist
// learning. Examples are never rewritten; each apply adds a new file.
func (s *Store) AppendExample(ex domain.ReviewedExample) (string, error) {
	if err := os.MkdirAll(s.examplesDir, 0o755); err != nil {
		return "", fmt.Errorf("create examples dir: %w", err)
	}
	data, err := encodeJSON(ex)
	if err != nil {
		return "", fmt.Errorf("encode example %s: %w", ex.SummaryID, err)
	}
	stamp := s.now().UTC().Format(backupStamp)
	path := filepath.Join(s.examplesDir, fmt.Sprintf("%s.%s.json", strings.TrimSuffix(fileName(ex.SummaryID), ".json"), stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write example %s: %w", path, err)
	}
	return path, nil
}

// ListExamples loads every reviewed example, ordered by file name so
// repeated runs see corrections in a stable order. Unreadable files are
// skipped and reported through the joined error alongside the examples
// that did parse.
func (s *Store) ListExamples() ([]domain.ReviewedExample, error) {
	entries, err := os.ReadDir(s.examplesDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}

	var examples []domain.ReviewedExample
	var bad []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.examplesDir, entry.Name()))
		if err != nil {
			bad = append(bad, fmt.Errorf("read %s: %w", entry.Name(), err))
			continue
		}
		var ex domain.ReviewedExample
		if err := json.Unmarshal(data, &ex); err != nil {
			bad = append(bad, fmt.Errorf("decode %s: %w", entry.Name(), err))
			continue
		}
		examples = append(examples, ex)
	}
	return examples, errors.Join(bad...)
}

// encodeJSON marshals indented UTF-8 without HTML escaping, keeping
// Portuguese text readable in the files reviewers open.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
