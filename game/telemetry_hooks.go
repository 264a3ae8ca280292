package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/capture/telemetry"
)

// onRoundStats runs after each finished round has been written out.
func (g *Game) onRoundStats(stats telemetry.RoundStats) {
	if !g.logStats {
		return
	}
	g.logPerf(stats.Round)
}

// logPerf logs average frame costs collected since the last round, then starts
// a fresh window.
func (g *Game) logPerf(roundNum int) {
	attrs := []any{"round", roundNum, "frames", g.frames}
	for _, name := range g.perf.SortedNames() {
		attrs = append(attrs, name+"_avg_us", g.perf.Avg(name).Microseconds())
	}
	attrs = append(attrs, "total_avg_us", g.perf.Total().Round(time.Microsecond).Microseconds())
	slog.Info("perf", attrs...)
	g.perf.Reset()
}
