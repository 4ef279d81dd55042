// Package journal keeps a bounded, in-memory history of conversion runs and
// exports it as Parquet or YAML. Entries carry metadata only: file contents
// and model output are never recorded.
package journal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 500

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusEmpty     = "empty"
)

// Entry describes one conversion run.
type Entry struct {
	ID        string        `json:"id" yaml:"id"`
	Feature   string        `json:"feature" yaml:"feature"`
	Language  string        `json:"language,omitempty" yaml:"language,omitempty"`
	FileName  string        `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	MIMEType  string        `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Bytes     int           `json:"bytes" yaml:"bytes"`
	Pages     int           `json:"pages" yaml:"pages"`
	Provider  string        `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string        `json:"model,omitempty" yaml:"model,omitempty"`
	Status    string        `json:"status" yaml:"status"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}

// Journal is a fixed-capacity ring. Once full, the oldest entry is overwritten.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	now     func() time.Time
}

func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		entries: make([]Entry, capacity),
		now:     time.Now,
	}
}

// Record stores e, filling in ID and CreatedAt when unset, and returns the stored copy.
func (j *Journal) Record(e Entry) Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	j.entries[j.next] = e
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
	return e
}

// List returns entries oldest first.
func (j *Journal) List() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.full {
		return append([]Entry(nil), j.entries[:j.next]...)
	}
	out := make([]Entry, 0, len(j.entries))
	out = append(out, j.entries[j.next:]...)
	return append(out, j.entries[:j.next]...)
}

// Row is the flat Parquet schema for an Entry.
type Row struct {
	ID         string `parquet:"id"`
	Feature    string `parquet:"feature"`
	Language   string `parquet:"language"`
	FileName   string `parquet:"file_name"`
	MIMEType   string `parquet:"mime_type"`
	Bytes      int64  `parquet:"bytes"`
	Pages      int64  `parquet:"pages"`
	Provider   string `parquet:"provider"`
	Model      string `parquet:"model"`
	Status     string `parquet:"status"`
	Error      string `parquet:"error"`
	DurationMS int64  `parquet:"duration_ms"`
	CreatedAt  int64  `parquet:"created_at_ms"`
}

func toRow(e Entry) Row {
	return Row{
		ID:         e.ID,
		Feature:    e.Feature,
		Language:   e.Language,
		FileName:   e.FileName,
		MIMEType:   e.MIMEType,
		Bytes:      int64(e.Bytes),
		Pages:      int64(e.Pages),
		Provider:   e.Provider,
		Model:      e.Model,
		Status:     e.Status,
		Error:      e.Error,
		DurationMS: e.Duration.Milliseconds(),
		CreatedAt:  e.CreatedAt.UnixMilli(),
	}
}

// WriteParquet writes entries as a single Parquet file to w.
func WriteParquet(w io.Writer, entries []Entry) error {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toRow(e))
	}

	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

type yamlExport struct {
	Exported string  `yaml:"exported"`
	Count    int     `yaml:"count"`
	Entries  []Entry `yaml:"entries"`
}

// WriteYAML writes entries as a YAML document to w.
func WriteYAML(w io.Writer, entries []Entry) error {
	doc := yamlExport{
		Exported: time.Now().UTC().Format(time.RFC3339),
		Count:    len(entries),
		Entries:  entries,
	}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
