package scoring

import "math"

// 打卡状态域：采用二值状态（checked/missed），不支持半完成的部分得分
const (
	StatusChecked = "checked"
	StatusMissed  = "missed"
)

// 习惯分类，用于分类维度的统计
const (
	CategoryPhysical  = "physical"
	CategoryMental    = "mental"
	CategorySpiritual = "spiritual"
)

// 时段标签，用于时段维度的统计
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
)

// Categories 列出所有合法分类
var Categories = []string{CategoryPhysical, CategoryMental, CategorySpiritual}

// TimesOfDay 列出所有合法时段
var TimesOfDay = []string{TimeMorning, TimeAfternoon, TimeEvening}

// HabitItem 表示单个习惯当日的打分输入
// IsBad 为 true 时极性反转：missed 记为完成（成功回避），checked 记零分
// Status 为空表示当日没有打卡记录，不计完成
type HabitItem struct {
	IsBad     bool
	Status    string
	Category  string
	TimeOfDay string
}

// ChecklistItem 表示优先事项或待办的打分输入，完成与否就是布尔标记本身
type ChecklistItem struct {
	Completed bool
	Category  string
	TimeOfDay string
}

// Weights 三个组成部分的权重，合法配置必须恰好加和为 100
type Weights struct {
	Habits     int
	Priorities int
	Todos      int
}

// DefaultWeights 返回默认权重配置 40/35/25
func DefaultWeights() Weights {
	return Weights{Habits: 40, Priorities: 35, Todos: 25}
}

// Valid 校验权重是否全部非负且加和恰好为 100
func (w Weights) Valid() bool {
	if w.Habits < 0 || w.Priorities < 0 || w.Todos < 0 {
		return false
	}
	return w.Habits+w.Priorities+w.Todos == 100
}

// Snapshot 汇总某一天参与打分的全部状态
type Snapshot struct {
	Habits     []HabitItem
	Priorities []ChecklistItem
	Todos      []ChecklistItem
	Weights    Weights
}

// Result 为单日打分输出；Categories/TimesOfDay 是不加权的附加统计，
// 不参与 Overall 的计算
type Result struct {
	Overall         int
	Grade           string
	HabitsScore     int
	PrioritiesScore int
	TodosScore      int
	Categories      map[string]int
	TimesOfDay      map[string]int
}

// Compute 对一天的快照求总分、等级和各维度统计。纯函数，由调用方负责持久化。
func Compute(s Snapshot) Result {
	result := Result{
		HabitsScore:     componentScore(countCompletedHabits(s.Habits), len(s.Habits), s.Weights.Habits),
		PrioritiesScore: componentScore(countCompletedChecklist(s.Priorities), len(s.Priorities), s.Weights.Priorities),
		TodosScore:      componentScore(countCompletedChecklist(s.Todos), len(s.Todos), s.Weights.Todos),
		Categories:      make(map[string]int, len(Categories)),
		TimesOfDay:      make(map[string]int, len(TimesOfDay)),
	}

	result.Overall = result.HabitsScore + result.PrioritiesScore + result.TodosScore
	result.Grade = GradeFor(result.Overall)

	for _, category := range Categories {
		result.Categories[category] = subsetScore(s, func(cat, _ string) bool { return cat == category })
	}
	for _, slot := range TimesOfDay {
		result.TimesOfDay[slot] = subsetScore(s, func(_, tod string) bool { return tod == slot })
	}

	return result
}

// GradeFor 将总分映射为等级，阈值为闭下界：90 A / 80 B / 70 C / 60 D，其余 F
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// HabitCompleted 判断单个习惯当日是否记为完成，坏习惯取反
func HabitCompleted(item HabitItem) bool {
	if item.IsBad {
		return item.Status == StatusMissed
	}
	return item.Status == StatusChecked
}

// componentScore 按完成率乘权重并四舍五入；空集合得零分而非剔除
func componentScore(completed, total, weight int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * float64(weight)))
}

// subsetScore 对匹配条件的习惯+优先事项+待办合并求不加权完成率（0-100）
func subsetScore(s Snapshot, match func(category, timeOfDay string) bool) int {
	completed, total := 0, 0

	for _, habit := range s.Habits {
		if !match(habit.Category, habit.TimeOfDay) {
			continue
		}
		total++
		if HabitCompleted(habit) {
			completed++
		}
	}
	for _, item := range s.Priorities {
		if !match(item.Category, item.TimeOfDay) {
			continue
		}
		total++
		if item.Completed {
			completed++
		}
	}
	for _, item := range s.Todos {
		if !match(item.Category, item.TimeOfDay) {
			continue
		}
		total++
		if item.Completed {
			completed++
		}
	}

	return componentScore(completed, total, 100)
}

func countCompletedHabits(items []HabitItem) int {
	count := 0
	for _, item := range items {
		if HabitCompleted(item) {
			count++
		}
	}
	return count
}

func countCompletedChecklist(items []ChecklistItem) int {
	count := 0
	for _, item := range items {
		if item.Completed {
			count++
		}
	}
	return count
}
