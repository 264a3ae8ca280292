package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/traits"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Nil manager is a no-op sink
	if err := om.WriteRound(RoundStats{}); err != nil {
		t.Errorf("WriteRound on nil: %v", err)
	}
	if err := om.WriteArchive([]traits.Trait{{ID: 1}}, 1); err != nil {
		t.Errorf("WriteArchive on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() on nil = %q", om.Dir())
	}
}

func TestOutputManagerWritesRounds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteRound(RoundStats{Round: i, Spawned: 10, Captured: i}); err != nil {
			t.Fatalf("WriteRound: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("rounds.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "round,") {
		t.Errorf("header = %q, want it to start with round,", lines[0])
	}

	var rows []RoundStats
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("unmarshal rounds.csv: %v", err)
	}
	if rows[2].Round != 3 || rows[2].Captured != 3 {
		t.Errorf("last row = %+v", rows[2])
	}
}

func TestOutputManagerWritesArchive(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	first := []traits.Trait{{ID: 3, ParentID: 0, Generation: 1, Hue: 0, Saturation: 1, Value: 1, Size: 0.7}}
	second := []traits.Trait{{ID: 9, ParentID: 3, Generation: 2, Hue: 0, Saturation: 1, Value: 1, Size: 0.72}}
	if err := om.WriteArchive(first, 1); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteArchive(nil, 2); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteArchive(second, 2); err != nil {
		t.Fatal(err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "archive.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var rows []ArchiveRecord
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("unmarshal archive.csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d archive rows, want 2", len(rows))
	}
	if rows[1].ParentID != 3 || rows[1].PromotedRound != 2 {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[0].Color != "#ff0000" {
		t.Errorf("color = %q, want #ff0000", rows[0].Color)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
