package analytics

import (
	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// priorityWeights is the multiplier applied per task priority when computing
// efficiency.
var priorityWeights = map[domain.TaskPriority]float64{
	domain.TaskPriorityLow:    1,
	domain.TaskPriorityMedium: 1.5,
	domain.TaskPriorityHigh:   2,
	domain.TaskPriorityUrgent: 3,
}

// PriorityWeight returns the efficiency multiplier for the given priority.
// Unknown priorities weigh 1.
func PriorityWeight(p domain.TaskPriority) float64 {
	if w, ok := priorityWeights[p]; ok {
		return w
	}
	return 1
}

// safeRatio divides num by den, returning a defined 0 when the denominator
// is zero. Every ratio in this package goes through this guard so that no
// code path can produce NaN or Inf.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// CompletionRate returns the user's completed-to-assigned ratio for the
// window. Defined as 0 when no tasks were assigned.
func CompletionRate(record AggregateRecord) float64 {
	return safeRatio(float64(record.CompletedTasks), float64(record.AssignedTasks))
}

// Efficiency returns the user's weighted completed-task value per work-hour:
// the sum of complexity x priority weight over the user's completed tasks,
// divided by max(totalWorkHours, 1).
func Efficiency(userID uuid.UUID, completed []CompletedTask, record AggregateRecord) float64 {
	weighted := 0.0
	for i := range completed {
		if completed[i].AssigneeID != userID {
			continue
		}
		weighted += float64(completed[i].Complexity) * PriorityWeight(completed[i].Priority)
	}

	hours := record.TotalWorkHours
	if hours < 1 {
		hours = 1
	}

	return weighted / hours
}

// Projection estimates the number of days the user needs to complete
// targetTasks at the current complexity-adjusted pace. Returns 0 when the
// user has no work days or no completed tasks in the window.
func Projection(
	userID uuid.UUID,
	targetTasks int,
	record AggregateRecord,
	completed []CompletedTask,
) float64 {
	if record.WorkDays == 0 || record.CompletedTasks == 0 {
		return 0
	}

	complexitySum := 0.0
	for i := range completed {
		if completed[i].AssigneeID == userID {
			complexitySum += float64(completed[i].Complexity)
		}
	}

	averageComplexity := safeRatio(complexitySum, float64(record.CompletedTasks))
	if averageComplexity == 0 {
		averageComplexity = 1
	}

	tasksPerDay := safeRatio(float64(record.CompletedTasks), float64(record.WorkDays))
	adjustedTasksPerDay := safeRatio(tasksPerDay, averageComplexity)

	return safeRatio(float64(targetTasks), adjustedTasksPerDay)
}

// TeamMetrics aggregates rollups across all users.
type TeamMetrics struct {
	TotalCompletedTasks int     `json:"totalCompletedTasks"`
	TotalWorkHours      float64 `json:"totalWorkHours"`
	AverageTasksPerDay  float64 `json:"averageTasksPerDay"`
}

// ComputeTeamMetrics sums completed tasks and work hours across users and
// averages their per-day completion pace. Users with zero work days count
// as one day so the pace term stays defined.
func ComputeTeamMetrics(records []AggregateRecord) TeamMetrics {
	metrics := TeamMetrics{}

	paceSum := 0.0
	for i := range records {
		metrics.TotalCompletedTasks += records[i].CompletedTasks
		metrics.TotalWorkHours += records[i].TotalWorkHours

		days := records[i].WorkDays
		if days < 1 {
			days = 1
		}
		paceSum += float64(records[i].CompletedTasks) / float64(days)
	}

	metrics.AverageTasksPerDay = safeRatio(paceSum, float64(len(records)))

	return metrics
}

// AverageCompletionTime returns the mean hours between creation and
// completion across the given tasks. Entries without a completion time are
// skipped; an empty input yields 0.
func AverageCompletionTime(completed []CompletedTask) float64 {
	total := 0.0
	counted := 0
	for i := range completed {
		if completed[i].CompletedAt == nil {
			continue
		}
		total += completed[i].CompletedAt.Sub(completed[i].CreatedAt).Hours()
		counted++
	}

	return safeRatio(total, float64(counted))
}
