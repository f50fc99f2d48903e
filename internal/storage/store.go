package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/talentscout/talentscout/internal/candidate"
)

const (
	DefaultAssessmentEmail = "talentscout.tech.assessment@gmail.com"
	DefaultDeadline        = 48 * time.Hour

	backupTimeLayout = "20060102_150405"
)

// Options configures a Store. Zero values take the defaults.
type Options struct {
	// Leases is the in-flight registry. Stores sharing a file in one process
	// should share a registry.
	Leases          *LeaseRegistry
	Clock           Clock
	AssessmentEmail string
	Deadline        time.Duration
	// SerializeWrites runs the read-modify-write of every save behind one
	// mutex. Without it, concurrent saves for different candidates can
	// overwrite each other's append.
	SerializeWrites bool
}

// Store is an append-only candidates file with duplicate detection and
// atomic replacement on every write.
type Store struct {
	*Reader
	opts   Options
	leases *LeaseRegistry

	writeMu sync.Mutex
}

// New creates a Store over the candidates file at path. The file and its
// directory are created on the first save.
func New(path string, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Leases == nil {
		opts.Leases = NewLeaseRegistryWithClock(opts.Clock, DefaultLeaseHold, DefaultLeaseExpiry)
	}
	if opts.AssessmentEmail == "" {
		opts.AssessmentEmail = DefaultAssessmentEmail
	}
	if opts.Deadline <= 0 {
		opts.Deadline = DefaultDeadline
	}
	return &Store{
		Reader: NewReaderWithClock(path, opts.Clock),
		opts:   opts,
		leases: opts.Leases,
	}
}

// Save appends rec unless a record with the same email or phone is already
// stored or is being saved right now; both cases are reported as success.
// Timestamp, status, deadline and assessment email are stamped here and any
// values supplied by the caller are overwritten.
//
// On a write failure the record is copied to a timestamped backup file on a
// best-effort basis and the error is returned.
func (s *Store) Save(rec candidate.Record) (SaveResult, error) {
	key := rec.Key()

	lease, ok := s.leases.Acquire(key.String())
	if !ok {
		slog.Warn("save already in progress for candidate, skipping", "key", key.String())
		return SaveResult{Path: s.path, Outcome: InFlight}, nil
	}
	defer s.leases.Release(lease)

	if s.opts.SerializeWrites {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}

	res, err := s.appendRecord(rec)
	if err != nil {
		slog.Error("saving candidate", "key", key.String(), "error", err)
		s.writeBackup(rec)
		return SaveResult{}, fmt.Errorf("saving candidate %s: %w", key, err)
	}
	return res, nil
}

func (s *Store) appendRecord(rec candidate.Record) (SaveResult, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return SaveResult{}, fmt.Errorf("creating data directory: %w", err)
	}

	records, err := readRecords(s.path)
	if err != nil {
		return SaveResult{}, err
	}

	if candidate.IsDuplicate(records, rec) {
		slog.Info("candidate already exists, not saving duplicate", "key", rec.Key().String())
		return SaveResult{Path: s.path, Outcome: Duplicate}, nil
	}

	records = append(records, s.stamp(rec))
	if err := writeAtomic(s.path, records, !s.opts.SerializeWrites); err != nil {
		return SaveResult{}, err
	}

	slog.Info("candidate saved", "path", s.path, "total", len(records))
	return SaveResult{Path: s.path, Outcome: Saved}, nil
}

func (s *Store) stamp(rec candidate.Record) candidate.Record {
	now := s.opts.Clock.Now()
	rec.Timestamp = candidate.FormatTimestamp(now)
	rec.Status = candidate.StatusQuestionsSent
	rec.SubmissionDeadline = candidate.FormatTimestamp(now.Add(s.opts.Deadline))
	rec.AssessmentEmail = s.opts.AssessmentEmail
	return rec
}

// writeBackup writes rec alone to a timestamped file next to the store.
// Failures are logged and otherwise ignored.
func (s *Store) writeBackup(rec candidate.Record) {
	name := fmt.Sprintf("candidates_backup_%s.json", s.opts.Clock.Now().Format(backupTimeLayout))
	path := filepath.Join(filepath.Dir(s.path), name)

	data, err := encodeRecords([]candidate.Record{s.stamp(rec)})
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		slog.Warn("writing backup file", "path", path, "error", err)
		return
	}
	slog.Info("saved candidate to backup file", "path", path)
}

func encodeRecords(records []candidate.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding candidates: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAtomic writes records to a temp file in the same directory, syncs it
// and renames it over path. Readers never see a partial file; a crash leaves
// at most an orphaned temp file. With uniqueTemp the temp file gets a random
// suffix so concurrent writers never share one.
func writeAtomic(path string, records []candidate.Record, uniqueTemp bool) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	var f *os.File
	if uniqueTemp {
		f, err = os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	} else {
		f, err = os.OpenFile(path+".tmp", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	}
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if uniqueTemp {
		if err := os.Chmod(tmp, 0o644); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("setting temp file mode: %w", err)
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry after a rename. Not every platform
// supports it, so errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}
