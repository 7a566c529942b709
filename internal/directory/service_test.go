package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/isira-aw/Metropolitan-B/internal/auth"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

var testAuthCfg = auth.Config{Secret: "test-secret", Issuer: "metropolitan.test", TTL: time.Hour}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testAuthCfg)

	emp, err := svc.Register(context.Background(), RegisterInput{
		Email:    "tech@metropolitan.lk",
		Name:     "Field Tech",
		Role:     domain.RoleEmployee,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", emp.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	repo.employees["tech@metropolitan.lk"] = domain.Employee{Email: "tech@metropolitan.lk"}
	svc := NewService(repo, testAuthCfg)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "tech@metropolitan.lk",
		Name:     "Field Tech",
		Role:     domain.RoleEmployee,
		Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, domain.ErrEmployeeExists)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newStubRepo(), testAuthCfg)

	cases := []RegisterInput{
		{Email: "not-an-email", Name: "A", Role: domain.RoleEmployee, Password: "longenough"},
		{Email: "a@b.lk", Name: "  ", Role: domain.RoleEmployee, Password: "longenough"},
		{Email: "a@b.lk", Name: "A", Role: domain.Role("MANAGER"), Password: "longenough"},
		{Email: "a@b.lk", Name: "A", Role: domain.RoleEmployee, Password: "short"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newStubRepo()
	repo.employees["tech@metropolitan.lk"] = domain.Employee{
		Email:        "tech@metropolitan.lk",
		Name:         "Field Tech",
		Role:         domain.RoleEmployee,
		PasswordHash: string(hash),
	}
	svc := NewService(repo, testAuthCfg)

	token, emp, err := svc.Login(context.Background(), "tech@metropolitan.lk", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "Field Tech", emp.Name)

	claims, err := auth.Parse(token, testAuthCfg)
	require.NoError(t, err)
	require.Equal(t, "tech@metropolitan.lk", claims.Email)
	require.Equal(t, domain.RoleEmployee, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newStubRepo()
	repo.employees["tech@metropolitan.lk"] = domain.Employee{
		Email:        "tech@metropolitan.lk",
		PasswordHash: string(hash),
	}
	svc := NewService(repo, testAuthCfg)

	_, _, err = svc.Login(context.Background(), "tech@metropolitan.lk", "wrong-pass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := NewService(newStubRepo(), testAuthCfg)

	_, _, err := svc.Login(context.Background(), "ghost@metropolitan.lk", "whatever")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCreateGeneratorAssignsID(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testAuthCfg)

	gen, err := svc.CreateGenerator(context.Background(), GeneratorInput{
		Name:     "Hilton Standby",
		Capacity: "500kVA",
	})
	require.NoError(t, err)
	require.NotEmpty(t, gen.ID)
	require.Len(t, repo.generators, 1)
}

func TestCreateGeneratorRequiresName(t *testing.T) {
	svc := NewService(newStubRepo(), testAuthCfg)

	_, err := svc.CreateGenerator(context.Background(), GeneratorInput{Capacity: "500kVA"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

type stubRepo struct {
	employees  map[string]domain.Employee
	generators map[string]domain.Generator
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		employees:  make(map[string]domain.Employee),
		generators: make(map[string]domain.Generator),
	}
}

func (r *stubRepo) CreateEmployee(_ context.Context, employee domain.Employee) error {
	r.employees[employee.Email] = employee
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

func (r *stubRepo) ListEmployees(context.Context) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (r *stubRepo) CreateGenerator(_ context.Context, gen domain.Generator) error {
	r.generators[gen.ID] = gen
	return nil
}

func (r *stubRepo) GetGenerator(_ context.Context, id string) (*domain.Generator, error) {
	gen, ok := r.generators[id]
	if !ok {
		return nil, nil
	}
	copied := gen
	return &copied, nil
}

func (r *stubRepo) ListGenerators(context.Context) ([]domain.Generator, error) {
	out := make([]domain.Generator, 0, len(r.generators))
	for _, gen := range r.generators {
		out = append(out, gen)
	}
	return out, nil
}
