// Package logfile is the durable YAML form of the award log.
package logfile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type record struct {
	Time string `yaml:"time"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Data string `yaml:"data,omitempty"`
}

type document struct {
	Entries []record `yaml:"ENTRY"`
}

// Encode writes entries in order.
func Encode(w io.Writer, entries []ledger.LogbookEntry) error {
	doc := document{Entries: make([]record, 0, len(entries))}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, record{
			Time: strconv.FormatFloat(e.Time, 'g', -1, 64),
			Code: e.Code,
			Name: e.Name,
			Data: e.Data,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode logbook: %w", err)
	}
	return enc.Close()
}

// Decode reads entries in order. Records whose time does not parse are
// logged and skipped; an empty document is an empty log.
func Decode(r io.Reader, logger *zap.Logger) ([]ledger.LogbookEntry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode logbook: %w", err)
	}
	entries := make([]ledger.LogbookEntry, 0, len(doc.Entries))
	for i, rec := range doc.Entries {
		t, err := strconv.ParseFloat(strings.TrimSpace(rec.Time), 64)
		if err != nil {
			logger.Error("corrupt logbook record",
				zap.Int("index", i),
				zap.String("time", rec.Time),
				zap.String("code", rec.Code),
				zap.String("subject", rec.Name))
			continue
		}
		entries = append(entries, ledger.LogbookEntry{Time: t, Code: rec.Code, Name: rec.Name, Data: rec.Data})
	}
	logger.Info("logbook loaded", zap.Int("records", len(entries)))
	return entries, nil
}

// ReadFile decodes the log stored at path.
func ReadFile(path string, logger *zap.Logger) ([]ledger.LogbookEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	defer f.Close()
	return Decode(f, logger)
}

// WriteFile encodes entries to path, replacing it.
func WriteFile(path string, entries []ledger.LogbookEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create logbook: %w", err)
	}
	if err := Encode(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
