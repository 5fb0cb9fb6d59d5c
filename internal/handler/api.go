package handler

import (
	"github.com/lifetrack/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	scores      *service.ScoreService
	habits      *service.HabitService
	completions *service.HabitCompletionService
	priorities  *service.PriorityService
	todos       *service.TodoService
	goals       *service.GoalService
	plans       *service.WeeklyPlanService
	reflections *service.ReflectionService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	scores := service.NewScoreService(db)

	return &API{
		db:          db,
		scores:      scores,
		habits:      service.NewHabitService(db, scores),
		completions: service.NewHabitCompletionService(db, scores),
		priorities:  service.NewPriorityService(db, scores),
		todos:       service.NewTodoService(db, scores),
		goals:       service.NewGoalService(db),
		plans:       service.NewWeeklyPlanService(db, scores),
		reflections: service.NewReflectionService(db),
	}
}
