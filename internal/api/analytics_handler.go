// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/service/analytics"
)

// Fixed user-facing messages for analytics failures. Internal details are
// logged, never surfaced; no partial or degraded payload is ever returned.
const (
	msgTeamPerformanceFailed = "Error fetching analytics data"
	msgTaskStatisticsFailed  = "Error fetching task statistics"
	msgTeamInsightsFailed    = "Error fetching team insights"
)

// defaultProjectionTarget is the target task count used by the insights
// endpoint when the caller does not supply one.
const defaultProjectionTarget = 10

// TeamRollup is the per-user entry of the team-performance response.
type TeamRollup struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AssignedTasks  int       `json:"assignedTasks"`
	CompletedTasks int       `json:"completedTasks"`
	TotalWorkHours float64   `json:"totalWorkHours"`
	WorkDays       int       `json:"workDays"`
	CompletionRate float64   `json:"completionRate"`
}

// TeamCompletionRate pairs a user with their completion rate.
type TeamCompletionRate struct {
	TeamID         uuid.UUID `json:"teamId"`
	TeamName       string    `json:"teamName"`
	CompletionRate float64   `json:"completionRate"`
}

// TeamPerformanceResponse is the payload of GET /api/analytics/team-performance.
type TeamPerformanceResponse struct {
	Teams           []TeamRollup          `json:"teams"`
	Timeframe       domain.TimeWindow     `json:"timeframe"`
	CompletionRates []TeamCompletionRate  `json:"completionRates"`
	Metrics         analytics.TeamMetrics `json:"metrics"`
}

// TaskStatisticsResponse is the payload of GET /api/analytics/task-statistics.
type TaskStatisticsResponse struct {
	StatusBreakdown   map[string]int            `json:"statusBreakdown"`
	PriorityBreakdown map[string]int            `json:"priorityBreakdown"`
	CompletedTasks    []analytics.CompletedTask `json:"completedTasks"`
	TotalTasks        int                       `json:"totalTasks"`
}

// UserInsightResponse is the per-user entry of the team-insights response.
type UserInsightResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CompletionRate float64   `json:"completionRate"`
	Efficiency     float64   `json:"efficiency"`
	Projection     float64   `json:"projection"`
}

// TeamInsightsResponse is the payload of GET /api/analytics/team-insights.
type TeamInsightsResponse struct {
	Users                 []UserInsightResponse `json:"users"`
	Metrics               analytics.TeamMetrics `json:"metrics"`
	AverageCompletionTime float64               `json:"avgCompletionTime"`
}

// AnalyticsHandler handles analytics HTTP requests.
type AnalyticsHandler struct {
	analytics  *analytics.Service
	windowDays int
	logger     *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *analytics.Service, windowDays int, log *slog.Logger) *AnalyticsHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnalyticsHandler")
	}
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}

	return &AnalyticsHandler{
		analytics:  service,
		windowDays: windowDays,
		logger:     log.With(slog.String("component", "analytics_handler")),
	}
}

// window builds the rolling aggregation window ending now.
func (h *AnalyticsHandler) window() domain.TimeWindow {
	return domain.WindowEndingAt(time.Now().UTC(), h.windowDays)
}

// GetTeamPerformance handles GET /api/analytics/team-performance requests.
func (h *AnalyticsHandler) GetTeamPerformance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	window := h.window()

	records, err := h.analytics.TeamPerformance(r.Context(), window)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgTeamPerformanceFailed, err)
		return
	}

	response := TeamPerformanceResponse{
		Teams:           make([]TeamRollup, 0, len(records)),
		Timeframe:       window,
		CompletionRates: make([]TeamCompletionRate, 0, len(records)),
		Metrics:         analytics.ComputeTeamMetrics(records),
	}

	for _, record := range records {
		rate := analytics.CompletionRate(record)
		response.Teams = append(response.Teams, TeamRollup{
			ID:             record.UserID,
			Name:           record.UserName,
			AssignedTasks:  record.AssignedTasks,
			CompletedTasks: record.CompletedTasks,
			TotalWorkHours: record.TotalWorkHours,
			WorkDays:       record.WorkDays,
			CompletionRate: rate,
		})
		response.CompletionRates = append(response.CompletionRates, TeamCompletionRate{
			TeamID:         record.UserID,
			TeamName:       record.UserName,
			CompletionRate: rate,
		})
	}

	log.Debug("team performance computed", slog.Int("users", len(records)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetTaskStatistics handles GET /api/analytics/task-statistics requests.
func (h *AnalyticsHandler) GetTaskStatistics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.analytics.TaskStatistics(r.Context(), h.window())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgTaskStatisticsFailed, err)
		return
	}

	response := TaskStatisticsResponse{
		StatusBreakdown:   make(map[string]int, len(result.StatusBreakdown)),
		PriorityBreakdown: make(map[string]int, len(result.PriorityBreakdown)),
		CompletedTasks:    result.Completed,
		TotalTasks:        result.TotalTasks,
	}
	for status, count := range result.StatusBreakdown {
		response.StatusBreakdown[string(status)] = count
	}
	for priority, count := range result.PriorityBreakdown {
		response.PriorityBreakdown[string(priority)] = count
	}

	log.Debug("task statistics computed", slog.Int("total_tasks", result.TotalTasks))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetTeamInsights handles GET /api/analytics/team-insights requests.
// The optional "target" query parameter sets the projection's task target.
func (h *AnalyticsHandler) GetTeamInsights(w http.ResponseWriter, r *http.Request) {
	target := defaultProjectionTarget
	if raw := r.URL.Query().Get("target"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid target parameter")
			return
		}
		target = parsed
	}

	result, err := h.analytics.Insights(r.Context(), h.window(), target)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgTeamInsightsFailed, err)
		return
	}

	response := TeamInsightsResponse{
		Users:                 make([]UserInsightResponse, 0, len(result.Users)),
		Metrics:               result.Team,
		AverageCompletionTime: result.AverageCompletionTime,
	}
	for _, insight := range result.Users {
		response.Users = append(response.Users, UserInsightResponse{
			ID:             insight.Record.UserID,
			Name:           insight.Record.UserName,
			CompletionRate: insight.CompletionRate,
			Efficiency:     insight.Efficiency,
			Projection:     insight.Projection,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
