package services

import (
	"context"
	"time"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
	"github.com/UT-B-VIMAL/hrms-backend/internal/duration"
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
)

// ReportService aggregates worked time for the dashboard endpoints. Reads
// only; every request recomputes from timeline and task rows.
type ReportService struct {
	tasks     *repository.TaskRepository
	timelines *repository.TimelineRepository
	users     *repository.UserRepository
	teams     *repository.TeamRepository
	loc       *time.Location
}

func NewReportService(
	tasks *repository.TaskRepository,
	timelines *repository.TimelineRepository,
	users *repository.UserRepository,
	teams *repository.TeamRepository,
	loc *time.Location,
) *ReportService {
	return &ReportService{
		tasks:     tasks,
		timelines: timelines,
		users:     users,
		teams:     teams,
		loc:       loc,
	}
}

type DayTotal struct {
	Date    string `json:"date"`
	Worked  string `json:"worked"`
	Entries int    `json:"entries"`
}

type EmployeeReport struct {
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	Days        []DayTotal `json:"days"`
	TotalWorked string     `json:"total_worked"`
}

// EmployeeWorkReport sums the user's finished intervals per local day over
// [from, to].
func (s *ReportService) EmployeeWorkReport(ctx context.Context, userID string, from, to time.Time) (*EmployeeReport, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.timelines.ListClosedForUser(ctx, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]*DayTotal)
	var order []string
	var total duration.Duration

	for _, row := range rows {
		elapsed := duration.FromTime(row.EndTime.Sub(row.StartTime))
		total = total.Add(elapsed)

		day := row.StartTime.In(s.loc).Format("2006-01-02")
		entry, ok := perDay[day]
		if !ok {
			entry = &DayTotal{Date: day, Worked: duration.Zero.String()}
			perDay[day] = entry
			order = append(order, day)
		}
		worked, _ := duration.Parse(entry.Worked)
		entry.Worked = worked.Add(elapsed).String()
		entry.Entries++
	}

	days := make([]DayTotal, 0, len(order))
	for _, day := range order {
		days = append(days, *perDay[day])
	}

	return &EmployeeReport{
		UserID:      user.ID,
		UserName:    user.Name,
		From:        from.In(s.loc).Format("2006-01-02"),
		To:          to.In(s.loc).Format("2006-01-02"),
		Days:        days,
		TotalWorked: total.String(),
	}, nil
}

type TeamProductivity struct {
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	TaskCount      int    `json:"task_count"`
	CompletedCount int    `json:"completed_count"`
	EstimatedHours string `json:"estimated_hours"`
	WorkedHours    string `json:"worked_hours"`
	RemainingHours string `json:"remaining_hours"`
	CompletionPct  int    `json:"completion_pct"`
	UtilizationPct int    `json:"utilization_pct"`
}

// TeamwiseProductivity rolls every team's tasks up into estimated vs worked
// totals. Percentages guard the empty-team and zero-estimate cases.
func (s *ReportService) TeamwiseProductivity(ctx context.Context) ([]TeamProductivity, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TeamProductivity, 0, len(teams))
	for _, team := range teams {
		tasks, err := s.tasks.ListByTeam(ctx, team.ID)
		if err != nil {
			return nil, err
		}

		var estimated, worked duration.Duration
		completed := 0
		for _, task := range tasks {
			if est, err := duration.Parse(task.EstimatedHours); err == nil {
				estimated = estimated.Add(est)
			}
			if w, err := duration.Parse(task.TotalHoursWorked); err == nil {
				worked = worked.Add(w)
			}
			if task.Status == constants.StatusDone {
				completed++
			}
		}

		completionPct := 0
		if len(tasks) > 0 {
			completionPct = completed * 100 / len(tasks)
		}

		out = append(out, TeamProductivity{
			TeamID:         team.ID,
			TeamName:       team.Name,
			TaskCount:      len(tasks),
			CompletedCount: completed,
			EstimatedHours: estimated.String(),
			WorkedHours:    worked.String(),
			RemainingHours: estimated.SubFloor(worked).String(),
			CompletionPct:  completionPct,
			UtilizationPct: duration.Percentage(worked, estimated),
		})
	}

	return out, nil
}

// RemainingForTask reports the floored remaining time and the remaining
// percentage for one task, used by the detail endpoint.
type RemainingHours struct {
	EstimatedHours string `json:"estimated_hours"`
	WorkedHours    string `json:"worked_hours"`
	RemainingHours string `json:"remaining_hours"`
	RemainingPct   int    `json:"remaining_pct"`
}

func (s *ReportService) RemainingForTask(ctx context.Context, taskID string) (*RemainingHours, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	estimated, err := duration.Parse(task.EstimatedHours)
	if err != nil {
		estimated = duration.Zero
	}
	worked, err := duration.Parse(task.TotalHoursWorked)
	if err != nil {
		worked = duration.Zero
	}
	remaining := estimated.SubFloor(worked)

	return &RemainingHours{
		EstimatedHours: estimated.String(),
		WorkedHours:    worked.String(),
		RemainingHours: remaining.String(),
		RemainingPct:   duration.Percentage(remaining, estimated),
	}, nil
}
