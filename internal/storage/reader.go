package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/talentscout/talentscout/internal/candidate"
)

// DefaultPath is where the candidates file lives unless configured otherwise.
const DefaultPath = "data/candidates.json"

// Reader gives read-only access to a candidates file.
type Reader struct {
	path  string
	clock Clock
}

// NewReader creates a Reader for the candidates file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path, clock: realClock{}}
}

// NewReaderWithClock creates a Reader with a custom clock (for testing).
func NewReaderWithClock(path string, clock Clock) *Reader {
	return &Reader{path: path, clock: clock}
}

// Path returns the candidates file path.
func (r *Reader) Path() string {
	return r.path
}

// LoadAll returns every stored record in file order. A missing, empty or
// unreadable file yields an empty slice.
func (r *Reader) LoadAll() []candidate.Record {
	records, err := readRecords(r.path)
	if err != nil {
		slog.Error("loading candidates", "path", r.path, "error", err)
		return []candidate.Record{}
	}
	return records
}

// Latest returns up to limit records, most recent first. Records without a
// timestamp sort last. limit <= 0 returns everything.
func (r *Reader) Latest(limit int) []candidate.Record {
	records := r.LoadAll()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// Stats counts records overall and within the last day and week. Records
// with unparseable timestamps count toward Total only.
func (r *Reader) Stats() Stats {
	return computeStats(r.LoadAll(), r.clock.Now())
}

func computeStats(records []candidate.Record, now time.Time) Stats {
	st := Stats{Total: len(records)}
	if st.Total == 0 {
		return st
	}

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	totalExp := 0
	positions := make(map[string]int)
	var order []string

	for _, rec := range records {
		totalExp += rec.Experience

		if pos := strings.ToLower(strings.TrimSpace(rec.Position)); pos != "" {
			if positions[pos] == 0 {
				order = append(order, pos)
			}
			positions[pos]++
		}

		t, ok := rec.CreatedAt()
		if !ok {
			continue
		}
		if !t.Before(dayAgo) {
			st.Recent24h++
		}
		if !t.Before(weekAgo) {
			st.Recent7d++
		}
	}

	st.AverageExperience = float64(totalExp) / float64(st.Total)
	best := 0
	for _, pos := range order {
		if positions[pos] > best {
			best = positions[pos]
			st.TopPosition = pos
		}
	}
	return st
}

// readRecords reads the candidates file. Missing, empty, non-UTF-8 and
// malformed files are treated as empty; only I/O failures are returned.
func readRecords(path string) ([]candidate.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []candidate.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []candidate.Record{}, nil
	}
	if !utf8.Valid(data) {
		slog.Warn("candidates file is not valid UTF-8, starting fresh", "path", path)
		return []candidate.Record{}, nil
	}

	var records []candidate.Record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("candidates file corrupted, starting fresh", "path", path, "error", err)
		return []candidate.Record{}, nil
	}
	if records == nil {
		records = []candidate.Record{}
	}
	return records, nil
}
