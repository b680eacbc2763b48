package rewards

import (
	"testing"
)

func TestLevelForPointsThresholds(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{-50, 1},
		{0, 1},
		{199, 1},
		{200, 2},
		{499, 2},
		{500, 3},
		{999, 3},
		{1000, 4},
		{1999, 4},
		{2000, 5},
		{100000, 5},
	}
	for _, c := range cases {
		if got := LevelForPoints(c.points); got != c.level {
			t.Fatalf("LevelForPoints(%d) = %d, expected %d", c.points, got, c.level)
		}
	}
}

func TestLevelForPointsMonotonic(t *testing.T) {
	previous := LevelForPoints(0)
	for points := 1; points <= 2500; points++ {
		level := LevelForPoints(points)
		if level < previous {
			t.Fatalf("level decreased from %d to %d at %d points", previous, level, points)
		}
		previous = level
	}
}
