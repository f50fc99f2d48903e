package storage

import (
	"log/slog"

	"github.com/talentscout/talentscout/internal/candidate"
)

// Repair removes duplicate records from the candidates file at path, keeping
// the first record seen for each email and each phone. The file is rewritten
// only when something was removed. It returns the number of records dropped.
//
// Repair does not take leases; run it while no saves are in progress.
func Repair(path string) (int, error) {
	records, err := readRecords(path)
	if err != nil {
		return 0, err
	}

	kept, removed := dedupe(records)
	if removed == 0 {
		return 0, nil
	}

	if err := writeAtomic(path, kept, false); err != nil {
		return 0, err
	}
	slog.Info("removed duplicate candidates", "path", path, "removed", removed, "kept", len(kept))
	return removed, nil
}

func dedupe(records []candidate.Record) (kept []candidate.Record, removed int) {
	seenEmails := make(map[string]bool)
	seenPhones := make(map[string]bool)
	kept = make([]candidate.Record, 0, len(records))

	for _, rec := range records {
		key := rec.Key()
		if (key.Email != "" && seenEmails[key.Email]) || (key.Phone != "" && seenPhones[key.Phone]) {
			removed++
			slog.Debug("removing duplicate", "email", key.Email, "phone", key.Phone)
			continue
		}
		kept = append(kept, rec)
		if key.Email != "" {
			seenEmails[key.Email] = true
		}
		if key.Phone != "" {
			seenPhones[key.Phone] = true
		}
	}
	return kept, removed
}
