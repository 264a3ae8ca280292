package session

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/telemetry"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Round.SpawnCount = 5
	cfg.Round.Duration = 1.0
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Round.SpawnCount = 0

	_, err := New(cfg, Options{Logger: quietLogger()})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestHeadlessSessionRecordsRounds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	var seen []telemetry.RoundStats
	s, err := New(testConfig(), Options{
		Seed:      3,
		OutputDir: dir,
		Bot:       true,
		OnStats:   func(st telemetry.RoundStats) { seen = append(seen, st) },
		Logger:    quietLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()

	// 0.25 is exact in binary, so four steps finish a one-second round
	for i := 0; i < 12; i++ {
		s.Step(0.25)
	}

	e := s.Engine()
	if e.Round() != 4 {
		t.Fatalf("Round = %d, want 4", e.Round())
	}
	if len(seen) != 3 {
		t.Fatalf("OnStats called %d times, want 3", len(seen))
	}

	captured := 0
	for i, st := range seen {
		if st.Round != i+1 {
			t.Errorf("stats %d: Round = %d, want %d", i, st.Round, i+1)
		}
		if st.Spawned != 5 {
			t.Errorf("stats %d: Spawned = %d, want 5", i, st.Spawned)
		}
		if st.Captured+st.Survivors > st.Spawned {
			t.Errorf("stats %d: captured %d + survivors %d exceeds spawned %d",
				i, st.Captured, st.Survivors, st.Spawned)
		}
		captured += st.Captured
	}
	// Captures made in round 4 are not flushed yet
	if captured != e.TotalCaptured()-e.RoundCaptured() {
		t.Errorf("flushed captures %d, engine reports %d", captured, e.TotalCaptured()-e.RoundCaptured())
	}

	last, ok := s.LastStats()
	if !ok || last.Round != 3 {
		t.Errorf("LastStats = %+v, %v", last, ok)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var rows []telemetry.RoundStats
	data, err := os.ReadFile(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("unmarshal rounds.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rounds.csv has %d rows, want 3", len(rows))
	}

	if e.ArchiveSize() > 0 {
		var archive []telemetry.ArchiveRecord
		data, err := os.ReadFile(filepath.Join(dir, "archive.csv"))
		if err != nil {
			t.Fatal(err)
		}
		if err := gocsv.UnmarshalBytes(data, &archive); err != nil {
			t.Fatalf("unmarshal archive.csv: %v", err)
		}
		if len(archive) != e.ArchiveSize() {
			t.Errorf("archive.csv has %d rows, engine archive has %d", len(archive), e.ArchiveSize())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestWithoutBotNothingIsCaptured(t *testing.T) {
	s, err := New(testConfig(), Options{Seed: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()

	for i := 0; i < 8; i++ {
		s.Step(0.25)
	}

	e := s.Engine()
	if e.TotalCaptured() != 0 {
		t.Errorf("TotalCaptured = %d, want 0", e.TotalCaptured())
	}
	// Nothing captured, so both finished batches survived in full
	if e.ArchiveSize() != 10 {
		t.Errorf("ArchiveSize = %d, want 10", e.ArchiveSize())
	}
	if s.OutputDir() != "" {
		t.Errorf("OutputDir = %q, want empty", s.OutputDir())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestManualCapture(t *testing.T) {
	s, err := New(testConfig(), Options{Seed: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()

	ents := s.Engine().Entities()
	s.Capture(ents[0].Handle)
	s.Capture(ents[0].Handle)

	if got := s.Engine().TotalCaptured(); got != 1 {
		t.Errorf("TotalCaptured = %d, want 1", got)
	}
}

func TestHoveredClearsWhenRoundTurnsOver(t *testing.T) {
	s, err := New(testConfig(), Options{Seed: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()

	pos := s.Engine().Entities()[0].Position
	picked, ok := s.Hover(pos.X, pos.Y)
	if !ok {
		t.Fatal("Hover missed an entity at its own position")
	}
	if got, ok := s.Hovered(); !ok || got.Handle != picked.Handle {
		t.Fatalf("Hovered() = %+v, %v, want %+v", got, ok, picked)
	}

	// The step that ends the round destroys the hovered entity
	s.Step(1.0)

	if got, ok := s.Hovered(); ok {
		t.Errorf("Hovered() returned torn-down entity %+v", got)
	}
}

func TestHoveredClearsOnCapture(t *testing.T) {
	s, err := New(testConfig(), Options{Seed: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()

	pos := s.Engine().Entities()[0].Position
	picked, ok := s.Hover(pos.X, pos.Y)
	if !ok {
		t.Fatal("Hover missed an entity at its own position")
	}
	s.Capture(picked.Handle)

	if _, ok := s.Hovered(); ok {
		t.Error("Hovered() returned a captured entity")
	}
	if _, ok := s.Hover(1000, 1000); ok {
		t.Error("Hover found an entity outside the play area")
	}
}
