package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ImportResult counts what an import did.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// ParseFormat normalises a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errs.New(errs.InvalidArgument, fmt.Sprintf("unknown format %q", s))
	}
}

// Export writes every note to w.
func (s *NoteService) Export(ctx context.Context, w io.Writer, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	notes, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(notes); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(notes); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Import reads notes from r and creates each one through the save gate.
// Notes whose id already exists are skipped; invalid notes are counted and
// skipped. A zero id gets a fresh one.
func (s *NoteService) Import(ctx context.Context, r io.Reader, format string) (ImportResult, error) {
	var res ImportResult
	format, err := ParseFormat(format)
	if err != nil {
		return res, err
	}

	var notes []domain.Note
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&notes)
	default:
		err = json.NewDecoder(r).Decode(&notes)
	}
	if err != nil && err != io.EOF {
		return res, errs.Wrap(errs.InvalidArgument, "could not parse "+format+" input", err)
	}

	for _, n := range notes {
		_, changed, err := s.insert(ctx, n)
		switch {
		case errors.Is(err, ErrInvalidNote):
			res.Invalid++
		case err != nil:
			return res, err
		case changed:
			res.Created++
		default:
			res.Skipped++
		}
	}
	s.logger.Info("import finished",
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
		zap.Int("invalid", res.Invalid))
	return res, nil
}
