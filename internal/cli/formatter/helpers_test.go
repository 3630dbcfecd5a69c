package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/horizon/internal/domain"
)

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "10d", FormatDays(10))
	assert.Equal(t, "13.4d", FormatDays(13.44))
	assert.Equal(t, "0d", FormatDays(0))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "90%", FormatPercent(0.9))
	assert.Equal(t, "0%", FormatPercent(0))
}

func TestFormatDeviation(t *testing.T) {
	assert.Contains(t, FormatDeviation(5), "+5d")
	assert.Contains(t, FormatDeviation(-2.5), "-2.5d")
	assert.Contains(t, FormatDeviation(0), "on target")
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-72 * time.Hour), "Mar 7, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.at, now))
		})
	}
}

func TestWarningIndicator(t *testing.T) {
	assert.Contains(t, WarningIndicator(domain.WarningRed), "RED")
	assert.Contains(t, WarningIndicator(domain.WarningGreen), "GREEN")
	assert.Contains(t, WarningIndicator(""), "UNKNOWN")
}

func TestResourceTypeBadge(t *testing.T) {
	assert.Contains(t, ResourceTypeBadge(domain.ResourceAnalyst), "Analyst")
	assert.Contains(t, ResourceTypeBadge(""), "--")
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
}
