package users

// LevelThresholds is the ascending points table indexed from level 1.
// Loaded once for the process lifetime; past the last entry the next
// threshold extrapolates geometrically (double the previous one).
var LevelThresholds = []int{0, 100, 250, 500, 1000}

// LevelInfo is the derived level for a point total. Never persisted.
type LevelInfo struct {
	Level     int     `json:"level"`
	NextLevel int     `json:"nextLevel"`
	Progress  float64 `json:"progress"`
}

// CalculateLevel converts a cumulative point total into a level, the next
// threshold, and the progress percentage toward it. Pure function of
// (points, LevelThresholds).
func CalculateLevel(points int) LevelInfo {
	idx := 0
	for i, threshold := range LevelThresholds {
		if points >= threshold {
			idx = i
		}
	}

	current := LevelThresholds[idx]
	next := current * 2
	if idx+1 < len(LevelThresholds) {
		next = LevelThresholds[idx+1]
	}

	progress := 100.0
	if next > current {
		progress = float64(points-current) / float64(next-current) * 100
		if progress > 100 {
			progress = 100
		}
	}

	return LevelInfo{
		Level:     idx + 1,
		NextLevel: next,
		Progress:  progress,
	}
}
