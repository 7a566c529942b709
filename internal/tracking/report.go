package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isira-aw/Metropolitan-B/internal/clock"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

// DayReport is one rendered row of a range report. Bucket values are "HH:mm"
// strings; single-day hours wrap modulo 24 for display.
type DayReport struct {
	Date          string `json:"date"`
	HasActivity   bool   `json:"has_activity"`
	FirstTime     string `json:"first_time"`
	LastTime      string `json:"last_time"`
	FirstLocation string `json:"first_location"`
	LastLocation  string `json:"last_location"`
	OnHold        string `json:"on_hold"`
	InProgress    string `json:"in_progress"`
	Assigned      string `json:"assigned"`
	MorningOT     string `json:"morning_ot"`
	EveningOT     string `json:"evening_ot"`
	DailyTotalOT  string `json:"daily_total_ot"`
}

// RangeReport aggregates per-day rows plus range totals. Totals never wrap:
// a long range can legitimately exceed 24 hours per bucket.
type RangeReport struct {
	EmployeeEmail   string      `json:"employee_email"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	Days            []DayReport `json:"days"`
	TotalOnHold     string      `json:"total_on_hold"`
	TotalInProgress string      `json:"total_in_progress"`
	TotalAssigned   string      `json:"total_assigned"`
	TotalMorningOT  string      `json:"total_morning_ot"`
	TotalEveningOT  string      `json:"total_evening_ot"`
	TotalOT         string      `json:"total_ot"`
}

// RangeReport walks every calendar day in the inclusive range, rendering a
// zero-filled row for days without activity and summing bucket minutes into
// range totals.
func (e *Engine) RangeReport(ctx context.Context, employeeEmail string, start, end time.Time) (*RangeReport, error) {
	if strings.TrimSpace(employeeEmail) == "" {
		return nil, fmt.Errorf("%w: employee email is required", domain.ErrValidation)
	}
	start, end = clock.Day(start), clock.Day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start date is after end date", domain.ErrInvalidRange)
	}
	if days := int(end.Sub(start)/(24*time.Hour)) + 1; days > e.reportMaxDays {
		return nil, fmt.Errorf("%w: range spans %d days, maximum is %d", domain.ErrInvalidRange, days, e.reportMaxDays)
	}

	report := &RangeReport{
		EmployeeEmail: employeeEmail,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
	}

	var totalOnHold, totalInProgress, totalAssigned, totalMorning, totalEvening int

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		ts, err := e.store.FindTimesheet(ctx, employeeEmail, day)
		if err != nil {
			return nil, fmt.Errorf("find timesheet: %w", err)
		}

		if ts == nil {
			report.Days = append(report.Days, zeroDay(day))
			continue
		}

		report.Days = append(report.Days, DayReport{
			Date:          day.Format("2006-01-02"),
			HasActivity:   true,
			FirstTime:     ts.FirstEventAt.Format("15:04"),
			LastTime:      ts.LastEventAt.Format("15:04"),
			FirstLocation: ts.FirstLocation,
			LastLocation:  ts.LastLocation,
			OnHold:        FormatMinutes(ts.OnHoldMinutes, true),
			InProgress:    FormatMinutes(ts.InProgressMinutes, true),
			Assigned:      FormatMinutes(ts.AssignedMinutes, true),
			MorningOT:     FormatMinutes(ts.MorningOTMinutes, true),
			EveningOT:     FormatMinutes(ts.EveningOTMinutes, true),
			DailyTotalOT:  FormatMinutes(ts.MorningOTMinutes+ts.EveningOTMinutes, true),
		})

		totalOnHold += ts.OnHoldMinutes
		totalInProgress += ts.InProgressMinutes
		totalAssigned += ts.AssignedMinutes
		totalMorning += ts.MorningOTMinutes
		totalEvening += ts.EveningOTMinutes
	}

	report.TotalOnHold = FormatMinutes(totalOnHold, false)
	report.TotalInProgress = FormatMinutes(totalInProgress, false)
	report.TotalAssigned = FormatMinutes(totalAssigned, false)
	report.TotalMorningOT = FormatMinutes(totalMorning, false)
	report.TotalEveningOT = FormatMinutes(totalEvening, false)
	report.TotalOT = FormatMinutes(totalMorning+totalEvening, false)
	return report, nil
}

func zeroDay(day time.Time) DayReport {
	return DayReport{
		Date:          day.Format("2006-01-02"),
		FirstTime:     "00:00",
		LastTime:      "00:00",
		FirstLocation: "N/A",
		LastLocation:  "N/A",
		OnHold:        "00:00",
		InProgress:    "00:00",
		Assigned:      "00:00",
		MorningOT:     "00:00",
		EveningOT:     "00:00",
		DailyTotalOT:  "00:00",
	}
}
