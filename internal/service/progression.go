package service

import "math"

// PointsPerLevel is the width of every level band.
const PointsPerLevel = 250

// LevelInfo is the derived progression state for a point total. It is pure
// data: both the profile view and the leaderboard compute it on the fly.
type LevelInfo struct {
	Level             int     `json:"level"`
	Name              string  `json:"name"`
	Progress          float64 `json:"progress"`
	PointsToNextLevel int     `json:"pointsToNextLevel"`
}

// CalculateLevel maps a cumulative point total to its level band. Level 1
// starts at 0 points and every level spans PointsPerLevel points; progress
// within the band is rounded to 3 decimal places.
func CalculateLevel(totalPoints int) LevelInfo {
	level := totalPoints/PointsPerLevel + 1
	if level < 1 {
		level = 1
	}

	currentLevelFloor := (level - 1) * PointsPerLevel
	progress := float64(totalPoints-currentLevelFloor) / float64(PointsPerLevel)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	pointsToNext := currentLevelFloor + PointsPerLevel - totalPoints
	if pointsToNext < 0 {
		pointsToNext = 0
	}

	return LevelInfo{
		Level:             level,
		Name:              levelName(level),
		Progress:          math.Round(progress*1000) / 1000,
		PointsToNextLevel: pointsToNext,
	}
}

func levelName(level int) string {
	switch level {
	case 1:
		return "Beginner"
	case 2:
		return "Explorer"
	case 3:
		return "Traveler"
	case 4:
		return "Legend"
	default:
		return "Master"
	}
}
