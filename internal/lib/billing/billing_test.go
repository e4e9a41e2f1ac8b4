package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/workbridge/marketplace-engine/internal/models"
)

func TestNextResetDate(t *testing.T) {
	base := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		resetDate time.Time
		now       time.Time
		want      time.Time
	}{
		{
			name:      "сброс через один месяц",
			resetDate: base,
			now:       time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "догоняет несколько пропущенных месяцев",
			resetDate: base,
			now:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "день сброса считается наступившим",
			resetDate: base,
			now:       base,
			want:      time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextResetDate(tt.resetDate, tt.now))
		})
	}
}

func TestResetDue(t *testing.T) {
	reset := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, ResetDue(reset, reset.AddDate(0, 0, -1)))
	assert.True(t, ResetDue(reset, reset))
	assert.True(t, ResetDue(reset, reset.AddDate(0, 0, 1)))
}

func TestSubscriptionEnd(t *testing.T) {
	confirmed := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, confirmed.AddDate(0, 1, 0), SubscriptionEnd(confirmed, models.PeriodMonthly))
	assert.Equal(t, confirmed.AddDate(1, 0, 0), SubscriptionEnd(confirmed, models.PeriodYearly))
	assert.Equal(t, confirmed.AddDate(0, 1, 0), SubscriptionEnd(confirmed, "unknown"))
}
