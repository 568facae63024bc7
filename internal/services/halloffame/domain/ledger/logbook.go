// Package ledger keeps the award log and the subject entries rebuilt from it.
package ledger

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
)

// NameDelimiter separates name and data in the single-line record form and
// may not appear in a subject name.
const NameDelimiter = "~"

// DataChangePrefix starts the code of records that change custom ribbon
// metadata instead of awarding anything.
const DataChangePrefix = "X+"

// LogbookEntry is one durable record.
type LogbookEntry struct {
	Time float64
	Code string
	Name string
	Data string
}

// SanitizeName replaces the record delimiter in name. It reports whether
// name had to change.
func SanitizeName(name string) (string, bool) {
	if !strings.Contains(name, NameDelimiter) {
		return name, false
	}
	return strings.ReplaceAll(name, NameDelimiter, "_"), true
}

// IsDataChange reports whether e changes custom ribbon metadata.
func (e LogbookEntry) IsDataChange() bool {
	return strings.HasPrefix(e.Code, DataChangePrefix)
}

// String renders the single-line record form "time code name[~data]".
func (e LogbookEntry) String() string {
	line := strconv.FormatFloat(e.Time, 'g', -1, 64) + " " + e.Code + " " + e.Name
	if e.Data != "" {
		line += NameDelimiter + e.Data
	}
	return line
}

// ParseLogbookEntry reads the single-line record form.
func ParseLogbookEntry(line string) (LogbookEntry, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return LogbookEntry{}, apperrors.WithMetadata(apperrors.CodeCorruptRecord, "invalid logbook entry",
			map[string]string{"line": line})
	}
	t, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return LogbookEntry{}, apperrors.WrapWithMetadata(apperrors.CodeCorruptRecord, "invalid logbook time",
			map[string]string{"line": line}, err)
	}
	name, data, _ := strings.Cut(fields[2], NameDelimiter)
	return LogbookEntry{Time: t, Code: fields[1], Name: name, Data: data}, nil
}
