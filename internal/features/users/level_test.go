package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   LevelInfo
	}{
		{"zero points", 0, LevelInfo{Level: 1, NextLevel: 100, Progress: 0}},
		{"halfway through level 1", 50, LevelInfo{Level: 1, NextLevel: 100, Progress: 50}},
		{"exactly level 2", 100, LevelInfo{Level: 2, NextLevel: 250, Progress: 0}},
		{"halfway through level 2", 175, LevelInfo{Level: 2, NextLevel: 250, Progress: 50}},
		{"exactly level 3", 250, LevelInfo{Level: 3, NextLevel: 500, Progress: 0}},
		{"exactly level 4", 500, LevelInfo{Level: 4, NextLevel: 1000, Progress: 0}},
		{"top threshold extrapolates", 1000, LevelInfo{Level: 5, NextLevel: 2000, Progress: 0}},
		{"past the table", 1500, LevelInfo{Level: 5, NextLevel: 2000, Progress: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateLevel(tt.points))
		})
	}
}

func TestCalculateLevelNegativePoints(t *testing.T) {
	info := CalculateLevel(-10)
	assert.Equal(t, 1, info.Level)
	assert.LessOrEqual(t, info.Progress, 0.0)
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for points := 1; points <= 5000; points++ {
		cur := CalculateLevel(points)
		assert.GreaterOrEqual(t, cur.Level, prev.Level, "level must never drop (points=%d)", points)
		assert.GreaterOrEqual(t, cur.Progress, 0.0, "progress below 0 (points=%d)", points)
		assert.LessOrEqual(t, cur.Progress, 100.0, "progress above 100 (points=%d)", points)
		prev = cur
	}
}
