package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	u := NewPlain(&buf)

	assert.False(t, u.Styled())
	assert.Equal(t, "=== Summary ===", u.Header("Summary"))
	assert.Equal(t, "[OK] done", u.Success("done"))
	assert.Equal(t, "[FAILED] broken", u.Error("broken"))
	assert.Equal(t, "[WARN] careful", u.Warning("careful"))
	assert.Equal(t, "Seed:        42", u.KeyValue("Seed", "42"))

	box := u.SummaryBox("Generation", []KV{{"Status", "success"}, {"Sales", "1.2K"}})
	assert.Contains(t, box, "=== Generation ===")
	assert.Contains(t, box, "Status:            success")

	assert.Equal(t, "  sales:               SKIPPED: --skip-sales", u.TableRow("sales", "--skip-sales", StatusSkipped))
}

func TestPhaseListPlain(t *testing.T) {
	var buf bytes.Buffer
	u := NewPlain(&buf)
	l := u.NewPhaseList([]string{"bootstrap", "sales"})

	l.PhaseStarted("bootstrap")
	l.PhaseDone("bootstrap", 2500, 2*time.Second)
	l.PhaseStarted("sales")
	l.DaysPlanned(2)
	l.DayWritten(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10)
	l.Fail(errors.New("connection reset"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"bootstrap:           2.5K in 2.0s",
		"sales:               FAILED: connection reset",
	}, trimAll(lines))
}

func TestDaysBar(t *testing.T) {
	b := NewPlain(nil).NewDaysBar(4)
	assert.False(t, b.Done())

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.Advance(day, 100)
	b.Advance(day.AddDate(0, 0, 1), 50)
	assert.InDelta(t, 0.5, b.Percent(), 1e-9)
	assert.Contains(t, b.View(), "2/4 days 2024-01-02")

	b.Advance(day.AddDate(0, 0, 2), 1)
	b.Advance(day.AddDate(0, 0, 3), 1)
	assert.True(t, b.Done())
	assert.Equal(t, 1.0, b.Percent())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1.5K", FormatCount(1500))
	assert.Equal(t, "2.3M", FormatCount(2_345_678))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "1m30s", FormatDuration(90*time.Second))
}

func trimAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
