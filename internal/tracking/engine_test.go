package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

var colombo = time.FixedZone("Asia/Colombo", 5*3600+1800)

func at(hour, min int) time.Time {
	return time.Date(2025, time.November, 3, hour, min, 0, 0, colombo)
}

func newTestEngine(store *stubStore, audit *stubAudit, clk *stepClock) *Engine {
	return NewEngine(store, audit, clk, Options{
		WorkdayStartMin: 8 * 60,
		WorkdayEndMin:   17 * 60,
		ReportMaxDays:   31,
	})
}

func TestFullDayScenario(t *testing.T) {
	store := newStubStore()
	audit := &stubAudit{}
	clk := &stepClock{now: at(7, 15)}
	engine := newTestEngine(store, audit, clk)
	ctx := context.Background()

	// 07:15 clock in, straight to work.
	ts, err := engine.RecordStatusEvent(ctx, "tech@metropolitan.lk", "colombo-depot", domain.StatusPending, domain.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, 0, ts.TrackedMinutes())
	require.Equal(t, ts.FirstEventAt, ts.LastEventAt, "last time mirrors first on creation")
	require.Equal(t, "colombo-depot", ts.LastLocation)
	require.Equal(t, 45, ts.MorningOTMinutes, "early clock-in earns morning overtime immediately")

	// 09:00 put the job on hold: 105 minutes of IN_PROGRESS credited.
	clk.now = at(9, 0)
	ts, err = engine.RecordStatusEvent(ctx, "tech@metropolitan.lk", "site-a", domain.StatusInProgress, domain.StatusOnHold)
	require.NoError(t, err)
	require.Equal(t, 105, ts.InProgressMinutes)
	require.Equal(t, 0, ts.OnHoldMinutes)
	require.Equal(t, 45, ts.MorningOTMinutes, "07:15 start earns 45 minutes before 08:00")

	// 09:30 resume: 30 minutes of ON_HOLD credited.
	clk.now = at(9, 30)
	ts, err = engine.RecordStatusEvent(ctx, "tech@metropolitan.lk", "site-a", domain.StatusOnHold, domain.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, 30, ts.OnHoldMinutes)
	require.Equal(t, 105, ts.InProgressMinutes)
	require.Equal(t, 0, ts.EveningOTMinutes)

	// 17:45 end of day: the open IN_PROGRESS segment (495 min) is closed out.
	clk.now = at(17, 45)
	ts, err = engine.EndDay(ctx, "tech@metropolitan.lk", "site-a")
	require.NoError(t, err)
	require.Equal(t, 600, ts.InProgressMinutes)
	require.Equal(t, 30, ts.OnHoldMinutes)
	require.Equal(t, 0, ts.AssignedMinutes)
	require.Equal(t, 45, ts.MorningOTMinutes)
	require.Equal(t, 45, ts.EveningOTMinutes)
	require.Equal(t, "site-a", ts.LastLocation)
}

func TestBucketSumMatchesElapsedTrackableTime(t *testing.T) {
	store := newStubStore()
	clk := &stepClock{now: at(8, 0)}
	engine := newTestEngine(store, &stubAudit{}, clk)
	ctx := context.Background()

	steps := []struct {
		hour, min int
		old, next domain.JobStatus
	}{
		{8, 0, domain.StatusPending, domain.StatusAssigned},
		{8, 20, domain.StatusAssigned, domain.StatusInProgress},
		{10, 5, domain.StatusInProgress, domain.StatusOnHold},
		{10, 35, domain.StatusOnHold, domain.StatusInProgress},
		{12, 0, domain.StatusInProgress, domain.StatusCompleted},
	}

	prevSum := 0
	for _, step := range steps {
		clk.now = at(step.hour, step.min)
		ts, err := engine.RecordStatusEvent(ctx, "tech@metropolitan.lk", "site-b", step.old, step.next)
		require.NoError(t, err)
		require.GreaterOrEqual(t, ts.TrackedMinutes(), prevSum, "bucket sum never decreases")
		prevSum = ts.TrackedMinutes()
	}

	// 08:00 -> 12:00 spent entirely in trackable statuses.
	require.Equal(t, 240, prevSum)
}

func TestSameStatusTransitionRejected(t *testing.T) {
	store := newStubStore()
	engine := newTestEngine(store, &stubAudit{}, &stepClock{now: at(9, 0)})

	_, err := engine.RecordStatusEvent(context.Background(), "tech@metropolitan.lk", "site-a", domain.StatusOnHold, domain.StatusOnHold)
	require.ErrorIs(t, err, domain.ErrSameStatus)
	require.Zero(t, store.saves, "rejected transitions must not persist anything")
}

func TestBlankEmployeeRejected(t *testing.T) {
	engine := newTestEngine(newStubStore(), &stubAudit{}, &stepClock{now: at(9, 0)})

	_, err := engine.RecordStatusEvent(context.Background(), "  ", "site-a", domain.StatusPending, domain.StatusAssigned)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestEndDayWithoutSession(t *testing.T) {
	store := newStubStore()
	engine := newTestEngine(store, &stubAudit{}, &stepClock{now: at(18, 0)})

	_, err := engine.EndDay(context.Background(), "tech@metropolitan.lk", "site-a")
	require.ErrorIs(t, err, domain.ErrNoActiveSession)
	require.Zero(t, store.saves)
}

func TestOvertimeRecomputationIsIdempotent(t *testing.T) {
	engine := newTestEngine(newStubStore(), &stubAudit{}, &stepClock{now: at(7, 0)})

	ts := NewTimesheet("tech@metropolitan.lk", at(7, 0), "depot", domain.StatusInProgress)
	ts.LastEventAt = at(18, 30)

	engine.recomputeOvertime(ts)
	morning, evening := ts.MorningOTMinutes, ts.EveningOTMinutes
	engine.recomputeOvertime(ts)

	require.Equal(t, 60, morning)
	require.Equal(t, 90, evening)
	require.Equal(t, morning, ts.MorningOTMinutes)
	require.Equal(t, evening, ts.EveningOTMinutes)
}

func TestNoOvertimeInsideWorkday(t *testing.T) {
	engine := newTestEngine(newStubStore(), &stubAudit{}, &stepClock{now: at(9, 0)})

	ts := NewTimesheet("tech@metropolitan.lk", at(9, 0), "depot", domain.StatusAssigned)
	ts.LastEventAt = at(16, 30)
	engine.recomputeOvertime(ts)

	require.Zero(t, ts.MorningOTMinutes)
	require.Zero(t, ts.EveningOTMinutes)
}

func TestBackwardsClockCreditsNothing(t *testing.T) {
	store := newStubStore()
	clk := &stepClock{now: at(10, 0)}
	engine := newTestEngine(store, &stubAudit{}, clk)
	ctx := context.Background()

	_, err := engine.RecordStatusEvent(ctx, "tech@metropolitan.lk", "site-a", domain.StatusPending, domain.StatusInProgress)
	require.NoError(t, err)

	clk.now = at(9, 30)
	ts, err := engine.RecordStatusEvent(ctx, "tech@metropolitan.lk", "site-a", domain.StatusInProgress, domain.StatusOnHold)
	require.NoError(t, err)
	require.Zero(t, ts.InProgressMinutes, "negative elapsed time clamps to zero")
}

func TestAuditFailureDoesNotFailUpdate(t *testing.T) {
	store := newStubStore()
	audit := &stubAudit{err: errors.New("log table unavailable")}
	engine := newTestEngine(store, audit, &stepClock{now: at(9, 0)})

	_, err := engine.RecordStatusEvent(context.Background(), "tech@metropolitan.lk", "site-a", domain.StatusPending, domain.StatusAssigned)
	require.NoError(t, err)
	require.Equal(t, 1, store.saves)
	require.Equal(t, 1, audit.calls)
}

func TestDailySummaryNotFound(t *testing.T) {
	engine := newTestEngine(newStubStore(), &stubAudit{}, &stepClock{now: at(9, 0)})

	_, err := engine.DailySummary(context.Background(), "tech@metropolitan.lk", at(9, 0))
	require.ErrorIs(t, err, domain.ErrTimesheetNotFound)
}

func TestFormatMinutesWrapsDisplayOnly(t *testing.T) {
	require.Equal(t, "01:30", FormatMinutes(90, true))
	require.Equal(t, "01:05", FormatMinutes(25*60+5, true), "single-day display wraps modulo 24")
	require.Equal(t, "25:05", FormatMinutes(25*60+5, false), "range totals never wrap")
	require.Equal(t, "00:00", FormatMinutes(-10, false))
}

type stubStore struct {
	sheets  map[string]*Timesheet
	findErr error
	saveErr error
	saves   int
}

func newStubStore() *stubStore {
	return &stubStore{sheets: make(map[string]*Timesheet)}
}

func sheetKey(email string, day time.Time) string {
	return email + "|" + day.Format("2006-01-02")
}

func (s *stubStore) FindTimesheet(_ context.Context, email string, day time.Time) (*Timesheet, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	ts, ok := s.sheets[sheetKey(email, day)]
	if !ok {
		return nil, nil
	}
	copied := *ts
	return &copied, nil
}

func (s *stubStore) SaveTimesheet(_ context.Context, ts *Timesheet) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	copied := *ts
	s.sheets[sheetKey(ts.EmployeeEmail, ts.Date)] = &copied
	return nil
}

type stubAudit struct {
	entries []AuditEntry
	calls   int
	err     error
}

func (a *stubAudit) Append(_ context.Context, entry AuditEntry) error {
	a.calls++
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }
