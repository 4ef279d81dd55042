package journal

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRecordFillsDefaults(t *testing.T) {
	j := New(3)
	fixed := time.Date(2025, 11, 6, 9, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	e := j.Record(Entry{Feature: "latex", Status: StatusSucceeded})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, fixed, e.CreatedAt)
	assert.Equal(t, []Entry{e}, j.List())
}

func TestRingKeepsNewest(t *testing.T) {
	tests := []struct {
		capacity int
		records  int
		want     []string
	}{
		{capacity: 3, records: 0, want: []string{}},
		{capacity: 3, records: 2, want: []string{"f0", "f1"}},
		{capacity: 3, records: 3, want: []string{"f0", "f1", "f2"}},
		{capacity: 3, records: 5, want: []string{"f2", "f3", "f4"}},
		{capacity: 3, records: 6, want: []string{"f3", "f4", "f5"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("cap%d_records%d", tt.capacity, tt.records), func(t *testing.T) {
			j := New(tt.capacity)
			for i := 0; i < tt.records; i++ {
				j.Record(Entry{FileName: fmt.Sprintf("f%d", i)})
			}
			got := []string{}
			for _, e := range j.List() {
				got = append(got, e.FileName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDefaultsCapacity(t *testing.T) {
	j := New(0)
	assert.Len(t, j.entries, DefaultCapacity)
}

func TestWriteParquet(t *testing.T) {
	created := time.Date(2025, 11, 6, 9, 30, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "a", Feature: "images", Pages: 2, Status: StatusSucceeded, Duration: 1500 * time.Millisecond, CreatedAt: created},
		{ID: "b", Feature: "solver", Language: "vi", FileName: "ex.tex", Status: StatusFailed, Error: "boom", CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, entries))

	reader := parquet.NewGenericReader[Row](bytes.NewReader(buf.Bytes()))
	defer reader.Close()
	rows := make([]Row, 4)
	n, err := reader.Read(rows)
	if err != nil {
		require.ErrorIs(t, err, io.EOF)
	}
	require.Equal(t, 2, n)

	assert.Equal(t, "images", rows[0].Feature)
	assert.Equal(t, int64(2), rows[0].Pages)
	assert.Equal(t, int64(1500), rows[0].DurationMS)
	assert.Equal(t, created.UnixMilli(), rows[0].CreatedAt)
	assert.Equal(t, "boom", rows[1].Error)
	assert.Equal(t, "vi", rows[1].Language)
}

func TestWriteYAML(t *testing.T) {
	entries := []Entry{{ID: "a", Feature: "latex", Status: StatusSucceeded, Duration: 2 * time.Second}}

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, entries))

	var doc struct {
		Count   int              `yaml:"count"`
		Entries []map[string]any `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Count)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "latex", doc.Entries[0]["feature"])
	assert.Equal(t, "2s", doc.Entries[0]["duration"])
	assert.NotContains(t, doc.Entries[0], "error")
}
