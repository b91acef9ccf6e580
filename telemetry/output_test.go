package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/driftloop/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil manager write: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager close: %v", err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should report an empty dir")
	}
}

func TestOutputManager_HeaderWrittenOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int32(1); i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 600, Leader: "Vega"}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	rows := []StandingRecord{
		{WindowEnd: 600, Position: 1, Number: 2, Name: "Vega"},
		{WindowEnd: 600, Position: 2, Number: 1, Name: "You", Player: true},
	}
	if err := om.WriteStandings(rows); err != nil {
		t.Fatalf("WriteStandings: %v", err)
	}
	if err := om.WriteStandings(rows); err != nil {
		t.Fatalf("WriteStandings: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 600); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tests := []struct {
		file   string
		header string
		lines  int
	}{
		{"telemetry.csv", "window_end,sim_time,cars,", 4},
		{"standings.csv", "window_end,position,number,name,", 5},
		{"perf.csv", "window_end,avg_tick_us,", 2},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("reading %s: %v", tt.file, err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tt.lines {
				t.Errorf("%s has %d lines, want %d", tt.file, len(lines), tt.lines)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("%s header = %q, want prefix %q", tt.file, lines[0], tt.header)
			}
			for _, l := range lines[1:] {
				if strings.HasPrefix(l, "window_end") {
					t.Errorf("%s repeats its header", tt.file)
				}
			}
		})
	}
}

func TestOutputManager_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading config.yaml: %v", err)
	}
	if reloaded.Race.AICars != cfg.Race.AICars || reloaded.Track.HorizontalCount != cfg.Track.HorizontalCount {
		t.Error("config.yaml did not round-trip")
	}
}
