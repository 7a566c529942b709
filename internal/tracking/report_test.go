package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

func day(dayOfMonth int) time.Time {
	return time.Date(2025, time.November, dayOfMonth, 0, 0, 0, 0, colombo)
}

func seedTimesheet(store *stubStore, dayOfMonth int, inProgress, onHold, morningOT, eveningOT int) {
	first := time.Date(2025, time.November, dayOfMonth, 7, 30, 0, 0, colombo)
	ts := NewTimesheet("tech@metropolitan.lk", first, "depot", domain.StatusInProgress)
	ts.LastEventAt = time.Date(2025, time.November, dayOfMonth, 17, 30, 0, 0, colombo)
	ts.LastLocation = "site-a"
	ts.InProgressMinutes = inProgress
	ts.OnHoldMinutes = onHold
	ts.MorningOTMinutes = morningOT
	ts.EveningOTMinutes = eveningOT
	store.sheets[sheetKey(ts.EmployeeEmail, ts.Date)] = ts
}

func TestRangeReportZeroFillsIdleDays(t *testing.T) {
	store := newStubStore()
	seedTimesheet(store, 3, 420, 30, 30, 30)
	seedTimesheet(store, 5, 240, 0, 30, 0)
	engine := newTestEngine(store, &stubAudit{}, &stepClock{now: day(5)})

	report, err := engine.RangeReport(context.Background(), "tech@metropolitan.lk", day(3), day(5))
	require.NoError(t, err)
	require.Len(t, report.Days, 3)

	require.True(t, report.Days[0].HasActivity)
	require.Equal(t, "07:00", report.Days[0].InProgress)
	require.Equal(t, "00:30", report.Days[0].OnHold)
	require.Equal(t, "01:00", report.Days[0].DailyTotalOT)

	require.False(t, report.Days[1].HasActivity, "idle day renders as zero row")
	require.Equal(t, "2025-11-04", report.Days[1].Date)
	require.Equal(t, "00:00", report.Days[1].InProgress)
	require.Equal(t, "N/A", report.Days[1].FirstLocation)

	require.True(t, report.Days[2].HasActivity)

	// Totals are the sum of the non-idle rows.
	require.Equal(t, "11:00", report.TotalInProgress)
	require.Equal(t, "00:30", report.TotalOnHold)
	require.Equal(t, "01:00", report.TotalMorningOT)
	require.Equal(t, "00:30", report.TotalEveningOT)
	require.Equal(t, "01:30", report.TotalOT)
}

func TestRangeReportTotalsDoNotWrap(t *testing.T) {
	store := newStubStore()
	// Three days of 10 tracked hours pushes the range total past 24h.
	seedTimesheet(store, 3, 600, 0, 0, 0)
	seedTimesheet(store, 4, 600, 0, 0, 0)
	seedTimesheet(store, 5, 600, 0, 0, 0)
	engine := newTestEngine(store, &stubAudit{}, &stepClock{now: day(5)})

	report, err := engine.RangeReport(context.Background(), "tech@metropolitan.lk", day(3), day(5))
	require.NoError(t, err)
	require.Equal(t, "30:00", report.TotalInProgress)
}

func TestRangeReportRejectsInvertedRange(t *testing.T) {
	engine := newTestEngine(newStubStore(), &stubAudit{}, &stepClock{now: day(5)})

	_, err := engine.RangeReport(context.Background(), "tech@metropolitan.lk", day(5), day(3))
	require.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestRangeReportRejectsOversizedRange(t *testing.T) {
	engine := NewEngine(newStubStore(), &stubAudit{}, &stepClock{now: day(5)}, Options{ReportMaxDays: 14})

	_, err := engine.RangeReport(context.Background(), "tech@metropolitan.lk", day(1), day(20))
	require.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestRangeReportSingleDay(t *testing.T) {
	store := newStubStore()
	seedTimesheet(store, 3, 90, 0, 45, 0)
	engine := newTestEngine(store, &stubAudit{}, &stepClock{now: day(3)})

	report, err := engine.RangeReport(context.Background(), "tech@metropolitan.lk", day(3), day(3))
	require.NoError(t, err)
	require.Len(t, report.Days, 1)
	require.Equal(t, "01:30", report.Days[0].InProgress)
	require.Equal(t, "00:45", report.TotalMorningOT)
}
