package welcome

import (
	"testing"
	"time"

	"myassistant/model"

	"github.com/stretchr/testify/assert"
)

func TestPendingTakeEmpties(t *testing.T) {
	var p Pending[string]
	_, ok := p.Take()
	assert.False(t, ok)
	assert.False(t, p.Ready())

	p.Set("first")
	p.Set("second")
	assert.True(t, p.Ready())

	v, ok := p.Take()
	assert.True(t, ok)
	assert.Equal(t, "second", v)
	assert.False(t, p.Ready())

	_, ok = p.Take()
	assert.False(t, ok)
}

func TestBriefingContextString(t *testing.T) {
	now := time.Date(2026, 10, 15, 7, 5, 9, 0, time.UTC)
	snap := Snapshot{
		Tasks: []model.Task{
			{ID: "1", Priority: model.PriorityHigh},
			{ID: "2", Priority: model.PriorityHigh, Completed: true},
			{ID: "3", Priority: model.PriorityNormal},
		},
	}

	bc := NewBriefingContext(snap, nil, now, "$")
	assert.Equal(t,
		"Time: 07:05:09.\nWeather: Sensors calibrating....\nUrgent: 1.\nPending: 2.\nBalance: $0.00.",
		bc.String())

	bc = NewBriefingContext(snap, &model.WeatherSnapshot{Temperature: 12.3, WeatherCode: 95}, now, "$")
	assert.Equal(t, "Code: 95, Temp: 12.3°C", bc.WeatherLine())
}
