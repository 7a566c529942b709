package jobcard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/isira-aw/Metropolitan-B/internal/clock"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/events"
	"github.com/isira-aw/Metropolitan-B/internal/tracking"
)

var testNow = time.Date(2025, 11, 3, 9, 0, 0, 0, time.FixedZone("Asia/Colombo", 5*3600+1800))

func newTestService(repo *stubRepo, tracker *stubTracker) *Service {
	return NewService(repo, tracker, clock.Fixed{Instant: testNow})
}

func TestCreateFansOutMinisAndAssignments(t *testing.T) {
	repo := newStubRepo()
	repo.generators["gen-1"] = domain.Generator{ID: "gen-1", Name: "Hilton Standby"}
	repo.employees["a@metropolitan.lk"] = domain.Employee{Email: "a@metropolitan.lk", Name: "Tech A"}
	repo.employees["b@metropolitan.lk"] = domain.Employee{Email: "b@metropolitan.lk", Name: "Tech B"}

	svc := newTestService(repo, &stubTracker{})

	card, err := svc.Create(context.Background(), CreateInput{
		GeneratorID:    "gen-1",
		JobType:        domain.JobTypeRepair,
		Date:           testNow,
		EstimatedTime:  "2h",
		EmployeeEmails: []string{"a@metropolitan.lk", "b@metropolitan.lk"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, card.ID)

	require.Len(t, repo.createdMinis, 2)
	for _, mini := range repo.createdMinis {
		require.Equal(t, card.ID, mini.JobCardID)
		require.Equal(t, domain.StatusPending, mini.Status)
	}

	require.Len(t, repo.createdAssigned, 2)
	require.Equal(t, "Tech A", repo.createdAssigned[0].EmployeeName)
	require.Equal(t, "Hilton Standby", repo.createdAssigned[0].GeneratorName)
	require.Equal(t, "2025-11-03", repo.createdAssigned[0].Date)
}

func TestCreateRejectsUnknownGenerator(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubTracker{})

	_, err := svc.Create(context.Background(), CreateInput{
		GeneratorID:    "missing",
		JobType:        domain.JobTypeService,
		Date:           testNow,
		EmployeeEmails: []string{"a@metropolitan.lk"},
	})
	require.ErrorIs(t, err, domain.ErrGeneratorNotFound)
}

func TestCreateRejectsUnknownEmployee(t *testing.T) {
	repo := newStubRepo()
	repo.generators["gen-1"] = domain.Generator{ID: "gen-1", Name: "G"}
	svc := newTestService(repo, &stubTracker{})

	_, err := svc.Create(context.Background(), CreateInput{
		GeneratorID:    "gen-1",
		JobType:        domain.JobTypeService,
		Date:           testNow,
		EmployeeEmails: []string{"ghost@metropolitan.lk"},
	})
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestCreateRejectsBadJobType(t *testing.T) {
	svc := newTestService(newStubRepo(), &stubTracker{})

	_, err := svc.Create(context.Background(), CreateInput{
		GeneratorID:    "gen-1",
		JobType:        domain.JobCardType("INSPECTION"),
		Date:           testNow,
		EmployeeEmails: []string{"a@metropolitan.lk"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateMiniStatusFeedsTracker(t *testing.T) {
	repo := newStubRepo()
	repo.minis["mini-1"] = domain.MiniJobCard{
		ID:            "mini-1",
		JobCardID:     "jc-1",
		EmployeeEmail: "a@metropolitan.lk",
		Status:        domain.StatusAssigned,
	}
	tracker := &stubTracker{}
	svc := newTestService(repo, tracker)

	mini, err := svc.UpdateMiniStatus(context.Background(), "mini-1", domain.StatusInProgress, "Hilton Colombo")
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, mini.Status)
	require.Equal(t, "Hilton Colombo", mini.Location)

	require.Equal(t, 1, tracker.calls)
	require.Equal(t, domain.StatusAssigned, tracker.lastOld)
	require.Equal(t, domain.StatusInProgress, tracker.lastNew)

	require.Len(t, repo.updates, 1)
	require.Equal(t, "ASSIGNED", repo.updatedEvents[0].OldStatus)
	require.Equal(t, "IN_PROGRESS", repo.updatedEvents[0].NewStatus)
}

func TestUpdateMiniStatusRejectsSameStatus(t *testing.T) {
	repo := newStubRepo()
	repo.minis["mini-1"] = domain.MiniJobCard{
		ID: "mini-1", EmployeeEmail: "a@metropolitan.lk", Status: domain.StatusOnHold,
	}
	tracker := &stubTracker{}
	svc := newTestService(repo, tracker)

	_, err := svc.UpdateMiniStatus(context.Background(), "mini-1", domain.StatusOnHold, "site")
	require.ErrorIs(t, err, domain.ErrSameStatus)
	require.Zero(t, tracker.calls)
	require.Empty(t, repo.updates)
}

func TestUpdateMiniStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newStubRepo(), &stubTracker{})

	_, err := svc.UpdateMiniStatus(context.Background(), "mini-1", domain.JobStatus("PAUSED"), "site")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateMiniStatusUnknownMini(t *testing.T) {
	svc := newTestService(newStubRepo(), &stubTracker{})

	_, err := svc.UpdateMiniStatus(context.Background(), "ghost", domain.StatusCompleted, "site")
	require.ErrorIs(t, err, domain.ErrMiniJobCardNotFound)
}

type stubRepo struct {
	generators map[string]domain.Generator
	employees  map[string]domain.Employee
	minis      map[string]domain.MiniJobCard

	createdMinis    []domain.MiniJobCard
	createdAssigned []events.JobCardAssigned
	updates         []domain.MiniJobCard
	updatedEvents   []events.JobStatusChanged
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		generators: make(map[string]domain.Generator),
		employees:  make(map[string]domain.Employee),
		minis:      make(map[string]domain.MiniJobCard),
	}
}

func (r *stubRepo) CreateJobCard(_ context.Context, card domain.JobCard, minis []domain.MiniJobCard, assigned []events.JobCardAssigned) error {
	r.createdMinis = minis
	r.createdAssigned = assigned
	return nil
}

func (r *stubRepo) GetJobCard(context.Context, string) (*domain.JobCard, error) { return nil, nil }

func (r *stubRepo) ListJobCards(context.Context, domain.JobCardFilter) ([]domain.JobCard, error) {
	return nil, nil
}

func (r *stubRepo) DeleteJobCard(context.Context, string) error { return nil }

func (r *stubRepo) GetMiniJobCard(_ context.Context, id string) (*domain.MiniJobCard, error) {
	mini, ok := r.minis[id]
	if !ok {
		return nil, nil
	}
	copied := mini
	return &copied, nil
}

func (r *stubRepo) ListMiniJobCards(context.Context, domain.MiniJobCardFilter) ([]domain.MiniJobCard, error) {
	return nil, nil
}

func (r *stubRepo) UpdateMiniJobCard(_ context.Context, mini domain.MiniJobCard, changed events.JobStatusChanged) error {
	r.updates = append(r.updates, mini)
	r.updatedEvents = append(r.updatedEvents, changed)
	r.minis[mini.ID] = mini
	return nil
}

func (r *stubRepo) FindEmployee(_ context.Context, email string) (*domain.Employee, error) {
	emp, ok := r.employees[email]
	if !ok {
		return nil, nil
	}
	copied := emp
	return &copied, nil
}

func (r *stubRepo) GetGenerator(_ context.Context, id string) (*domain.Generator, error) {
	gen, ok := r.generators[id]
	if !ok {
		return nil, nil
	}
	copied := gen
	return &copied, nil
}

type stubTracker struct {
	calls   int
	lastOld domain.JobStatus
	lastNew domain.JobStatus
	err     error
}

func (s *stubTracker) RecordStatusEvent(_ context.Context, _, _ string, oldStatus, newStatus domain.JobStatus) (*tracking.Timesheet, error) {
	s.calls++
	s.lastOld = oldStatus
	s.lastNew = newStatus
	if s.err != nil {
		return nil, s.err
	}
	return &tracking.Timesheet{}, nil
}
