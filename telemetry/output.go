package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/traits"
)

// ArchiveRecord is one row of archive.csv: a trait at the moment it was promoted.
type ArchiveRecord struct {
	ID            uint64  `csv:"id"`
	ParentID      uint64  `csv:"parent_id"`
	Generation    int     `csv:"generation"`
	PromotedRound int     `csv:"promoted_round"`
	Hue           float64 `csv:"hue"`
	Saturation    float64 `csv:"saturation"`
	Value         float64 `csv:"value"`
	Size          float64 `csv:"size"`
	Color         string  `csv:"color"`
}

// NewArchiveRecord converts a promoted trait into a CSV row.
func NewArchiveRecord(t traits.Trait, promotedRound int) ArchiveRecord {
	return ArchiveRecord{
		ID:            uint64(t.ID),
		ParentID:      uint64(t.ParentID),
		Generation:    t.Generation,
		PromotedRound: promotedRound,
		Hue:           t.Hue,
		Saturation:    t.Saturation,
		Value:         t.Value,
		Size:          t.Size,
		Color:         t.Hex(),
	}
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir         string
	roundsFile  *os.File
	archiveFile *os.File

	// Track if headers have been written
	roundsHeaderWritten  bool
	archiveHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating rounds.csv: %w", err)
	}
	om.roundsFile = f

	f, err = os.Create(filepath.Join(dir, "archive.csv"))
	if err != nil {
		om.roundsFile.Close()
		return nil, fmt.Errorf("creating archive.csv: %w", err)
	}
	om.archiveFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteRound writes a round stats record to rounds.csv.
func (om *OutputManager) WriteRound(stats RoundStats) error {
	if om == nil {
		return nil
	}

	records := []RoundStats{stats}

	if !om.roundsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.roundsFile); err != nil {
			return fmt.Errorf("writing round stats: %w", err)
		}
		om.roundsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.roundsFile); err != nil {
			return fmt.Errorf("writing round stats: %w", err)
		}
	}

	return nil
}

// WriteArchive appends promoted traits to archive.csv.
func (om *OutputManager) WriteArchive(promoted []traits.Trait, promotedRound int) error {
	if om == nil || len(promoted) == 0 {
		return nil
	}

	records := make([]ArchiveRecord, 0, len(promoted))
	for _, t := range promoted {
		records = append(records, NewArchiveRecord(t, promotedRound))
	}

	if !om.archiveHeaderWritten {
		if err := gocsv.Marshal(records, om.archiveFile); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
		om.archiveHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.archiveFile); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.roundsFile != nil {
		if err := om.roundsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.archiveFile != nil {
		if err := om.archiveFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
