package scoring

import (
	"testing"
	"time"
)

func day(offset int) time.Time {
	base := time.Date(2025, 6, 30, 0, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, offset)
}

func TestCurrentStreakStopsAtFirstMiss(t *testing.T) {
	today := day(0)
	history := []DayScore{
		{Day: day(0), Overall: 70},
		{Day: day(-1), Overall: 65},
		{Day: day(-2), Overall: 55},
		{Day: day(-3), Overall: 80},
	}

	if got := CurrentStreak(today, history); got != 2 {
		t.Fatalf("expected current streak 2, got %d", got)
	}
}

func TestCurrentStreakMissingDayBreaks(t *testing.T) {
	today := day(0)
	history := []DayScore{
		{Day: day(0), Overall: 90},
		// day(-1) 无记录
		{Day: day(-2), Overall: 95},
	}

	if got := CurrentStreak(today, history); got != 1 {
		t.Fatalf("expected current streak 1, got %d", got)
	}
}

func TestCurrentStreakEmptyHistory(t *testing.T) {
	if got := CurrentStreak(day(0), nil); got != 0 {
		t.Fatalf("expected current streak 0, got %d", got)
	}
}

func TestCurrentStreakNoScoreToday(t *testing.T) {
	history := []DayScore{
		{Day: day(-1), Overall: 100},
		{Day: day(-2), Overall: 100},
	}

	if got := CurrentStreak(day(0), history); got != 0 {
		t.Fatalf("expected current streak 0 when today has no score, got %d", got)
	}
}

func TestLongestStreakFindsRunAnywhere(t *testing.T) {
	history := []DayScore{
		{Day: day(0), Overall: 70},
		{Day: day(-1), Overall: 40},
		{Day: day(-2), Overall: 85},
		{Day: day(-3), Overall: 62},
		{Day: day(-4), Overall: 91},
		{Day: day(-5), Overall: 10},
	}

	// day(-2)..day(-4) 三天连续达标
	if got := LongestStreak(history); got != 3 {
		t.Fatalf("expected longest streak 3, got %d", got)
	}
}

func TestLongestStreakMissingDayBreaksRun(t *testing.T) {
	history := []DayScore{
		{Day: day(0), Overall: 80},
		{Day: day(-1), Overall: 75},
		// day(-2) 无记录
		{Day: day(-3), Overall: 95},
		{Day: day(-4), Overall: 88},
		{Day: day(-5), Overall: 72},
	}

	if got := LongestStreak(history); got != 3 {
		t.Fatalf("expected longest streak 3, got %d", got)
	}
}

func TestLongestStreakUnorderedInput(t *testing.T) {
	history := []DayScore{
		{Day: day(-3), Overall: 90},
		{Day: day(0), Overall: 30},
		{Day: day(-2), Overall: 90},
		{Day: day(-1), Overall: 90},
	}

	if got := LongestStreak(history); got != 3 {
		t.Fatalf("expected longest streak 3, got %d", got)
	}
}

func TestLongestStreakEmpty(t *testing.T) {
	if got := LongestStreak(nil); got != 0 {
		t.Fatalf("expected longest streak 0, got %d", got)
	}
}
