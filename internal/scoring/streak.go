package scoring

import (
	"slices"
	"time"
)

const (
	// QualifyingScore 连胜判定阈值：当日总分达到 60（即 D 及以上）计为坚持
	QualifyingScore = 60
	// StreakLookback 当前连胜的最大回溯天数
	StreakLookback = 365
)

// DayScore 是连胜计算的输入：某一天与当日持久化的总分
type DayScore struct {
	Day     time.Time
	Overall int
}

// CurrentStreak 从 today 起逐日回溯，统计连续达标天数。
// 首个未达标或缺失的日期终止计数，最多回溯 StreakLookback 天。
func CurrentStreak(today time.Time, history []DayScore) int {
	scores := indexByDay(history)

	streak := 0
	for i := 0; i < StreakLookback; i++ {
		day := dayKey(today.AddDate(0, 0, -i))
		overall, ok := scores[day]
		if !ok || overall < QualifyingScore {
			break
		}
		streak++
	}

	return streak
}

// LongestStreak 在全部历史记录中寻找最长的连续达标区间。
// 缺失日期视为未达标，会打断连续区间。
func LongestStreak(history []DayScore) int {
	longest, run := 0, 0
	var prev time.Time

	for _, entry := range sortedDescending(history) {
		day := normalizeDay(entry.Day)

		if entry.Overall < QualifyingScore {
			run = 0
		} else if run > 0 && prev.AddDate(0, 0, -1).Equal(day) {
			run++
		} else {
			run = 1
		}

		if run > longest {
			longest = run
		}
		prev = day
	}

	return longest
}

func indexByDay(history []DayScore) map[string]int {
	scores := make(map[string]int, len(history))
	for _, entry := range history {
		scores[dayKey(entry.Day)] = entry.Overall
	}
	return scores
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// sortedDescending 返回按日期从新到旧排序的副本，不修改入参
func sortedDescending(history []DayScore) []DayScore {
	sorted := make([]DayScore, len(history))
	copy(sorted, history)

	slices.SortFunc(sorted, func(a, b DayScore) int {
		return b.Day.Compare(a.Day)
	})

	return sorted
}
