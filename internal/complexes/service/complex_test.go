package service

import (
	"context"
	"testing"
	"time"

	complexerrors "arenabook/internal/complexes/errors"
	"arenabook/internal/complexes/validator"
	userserrors "arenabook/internal/users/errors"
	"arenabook/pkg/config"
	apperrors "arenabook/pkg/errors"
	"arenabook/pkg/logger"
	"arenabook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type mockComplexRepository struct {
	createFunc        func(ctx context.Context, complex *model.SportComplex) error
	findByIDFunc      func(ctx context.Context, id string) (*model.SportComplex, error)
	findAllFunc       func(ctx context.Context, city, sportID string, limit int, offset int64) ([]*model.SportComplex, error)
	countAllFunc      func(ctx context.Context, city, sportID string) (int64, error)
	existsFunc        func(ctx context.Context, name, managerID string) (bool, error)
	updateFunc        func(ctx context.Context, id string, set bson.M) error
	addSportsFunc     func(ctx context.Context, id string, sportIDs []string) error
	softDeleteFunc    func(ctx context.Context, id string) error
	findByManagerFunc func(ctx context.Context, managerID string, limit int, offset int64) ([]*model.SportComplex, error)
}

func (m *mockComplexRepository) Create(ctx context.Context, complex *model.SportComplex) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, complex)
	}
	complex.ID = "65b000000000000000000001"
	return nil
}

func (m *mockComplexRepository) FindByID(ctx context.Context, id string) (*model.SportComplex, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, complexerrors.ErrNotFound
}

func (m *mockComplexRepository) FindAll(ctx context.Context, city, sportID string, limit int, offset int64) ([]*model.SportComplex, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, city, sportID, limit, offset)
	}
	return []*model.SportComplex{}, nil
}

func (m *mockComplexRepository) CountAll(ctx context.Context, city, sportID string) (int64, error) {
	if m.countAllFunc != nil {
		return m.countAllFunc(ctx, city, sportID)
	}
	return 0, nil
}

func (m *mockComplexRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.SportComplex, error) {
	return map[string]*model.SportComplex{}, nil
}

func (m *mockComplexRepository) FindByManager(ctx context.Context, managerID string, limit int, offset int64) ([]*model.SportComplex, error) {
	if m.findByManagerFunc != nil {
		return m.findByManagerFunc(ctx, managerID, limit, offset)
	}
	return []*model.SportComplex{}, nil
}

func (m *mockComplexRepository) CountByManager(ctx context.Context, managerID string) (int64, error) {
	return 0, nil
}

func (m *mockComplexRepository) ExistsByNameAndManager(ctx context.Context, name, managerID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, name, managerID)
	}
	return false, nil
}

func (m *mockComplexRepository) Update(ctx context.Context, id string, set bson.M) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, set)
	}
	return nil
}

func (m *mockComplexRepository) AddSports(ctx context.Context, id string, sportIDs []string) error {
	if m.addSportsFunc != nil {
		return m.addSportsFunc(ctx, id, sportIDs)
	}
	return nil
}

func (m *mockComplexRepository) SoftDelete(ctx context.Context, id string) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

type mockSportRepository struct {
	findByNameFunc func(ctx context.Context, name string) (*model.Sport, error)
	findAllFunc    func(ctx context.Context) ([]*model.Sport, error)
	findByIDsFunc  func(ctx context.Context, ids []string) (map[string]*model.Sport, error)
}

func (m *mockSportRepository) FindByID(ctx context.Context, id string) (*model.Sport, error) {
	return nil, complexerrors.ErrSportNotFound
}

func (m *mockSportRepository) FindByName(ctx context.Context, name string) (*model.Sport, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, complexerrors.ErrSportNotFound
}

func (m *mockSportRepository) FindAll(ctx context.Context) ([]*model.Sport, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Sport{}, nil
}

func (m *mockSportRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Sport, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	out := map[string]*model.Sport{}
	for _, id := range ids {
		out[id] = &model.Sport{ID: id, Name: "Badminton"}
	}
	return out, nil
}

type mockUserRepository struct {
	users map[string]*model.User
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	out := map[string]*model.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

const (
	testManagerID = "65a000000000000000000002"
	testUserID    = "65a000000000000000000001"
	testComplexID = "65b000000000000000000001"
	testSportID   = "65c000000000000000000001"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.FormatJSON,
			AddSource: false,
			Service:   "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func testUsers() *mockUserRepository {
	return &mockUserRepository{users: map[string]*model.User{
		testManagerID: {ID: testManagerID, Name: "Ravi", Email: "ravi@example.com", Role: model.RoleManager},
		testUserID:    {ID: testUserID, Name: "Asha", Email: "asha@example.com", Role: model.RoleUser},
	}}
}

func newService(repo *mockComplexRepository, sportRepo *mockSportRepository) ComplexService {
	cfg := newTestConfig()
	return NewComplexService(repo, sportRepo, testUsers(), validator.NewComplexValidator(cfg.Log), cfg)
}

func validComplex() *model.SportComplex {
	return &model.SportComplex{
		Name:         "Cubbon Courts",
		Address:      "12 MG Road",
		City:         "Bengaluru",
		Phone:        "+919876543210",
		Email:        "courts@example.com",
		OpeningTime:  "06:00",
		ClosingTime:  "22:00",
		PricePerHour: 450,
		Description:  "Indoor badminton and tennis courts",
		SportIDs:     []string{testSportID},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected AppError with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreate_SetsManagerAndNormalizes(t *testing.T) {
	var created *model.SportComplex
	repo := &mockComplexRepository{
		createFunc: func(ctx context.Context, c *model.SportComplex) error {
			c.ID = testComplexID
			created = c
			return nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	c := validComplex()
	c.City = "  Bengaluru  "
	if err := svc.Create(context.Background(), testManagerID, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected complex to be persisted")
	}
	if created.ManagerID != testManagerID {
		t.Errorf("expected manager_id %s, got %s", testManagerID, created.ManagerID)
	}
	if created.City != "bengaluru" {
		t.Errorf("expected normalized city, got %q", created.City)
	}
}

func TestCreate_UserRoleForbidden(t *testing.T) {
	svc := newService(&mockComplexRepository{}, &mockSportRepository{})

	err := svc.Create(context.Background(), testUserID, validComplex())
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestCreate_MissingCallerUnauthenticated(t *testing.T) {
	svc := newService(&mockComplexRepository{}, &mockSportRepository{})

	err := svc.Create(context.Background(), "", validComplex())
	assertAppErrorCode(t, err, apperrors.CodeUnauthenticated)
}

func TestCreate_DuplicateNameConflict(t *testing.T) {
	repo := &mockComplexRepository{
		existsFunc: func(ctx context.Context, name, managerID string) (bool, error) {
			return true, nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	err := svc.Create(context.Background(), testManagerID, validComplex())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreate_UnknownSportNotFound(t *testing.T) {
	sportRepo := &mockSportRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.Sport, error) {
			return map[string]*model.Sport{}, nil
		},
	}
	svc := newService(&mockComplexRepository{}, sportRepo)

	err := svc.Create(context.Background(), testManagerID, validComplex())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCreate_InvalidInputValidation(t *testing.T) {
	svc := newService(&mockComplexRepository{}, &mockSportRepository{})

	c := validComplex()
	c.ClosingTime = "05:00"
	err := svc.Create(context.Background(), testManagerID, c)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newService(&mockComplexRepository{}, &mockSportRepository{})

	_, err := svc.GetByID(context.Background(), testComplexID)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestList_NormalizesCityFilter(t *testing.T) {
	repo := &mockComplexRepository{
		findAllFunc: func(ctx context.Context, city, sportID string, limit int, offset int64) ([]*model.SportComplex, error) {
			if city != "bengaluru" {
				t.Errorf("expected normalized city filter, got %q", city)
			}
			return []*model.SportComplex{validComplex()}, nil
		},
		countAllFunc: func(ctx context.Context, city, sportID string) (int64, error) {
			return 1, nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	complexes, total, err := svc.List(context.Background(), "  Bengaluru ", "", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(complexes) != 1 {
		t.Fatalf("expected one complex, got total=%d len=%d", total, len(complexes))
	}
}

func ownedComplex() *model.SportComplex {
	c := validComplex()
	c.ID = testComplexID
	c.ManagerID = testManagerID
	return c
}

func TestUpdate_OnlyOwnerAllowed(t *testing.T) {
	otherManager := "65a000000000000000000003"
	repo := &mockComplexRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.SportComplex, error) {
			return ownedComplex(), nil
		},
	}
	cfg := newTestConfig()
	users := testUsers()
	users.users[otherManager] = &model.User{ID: otherManager, Name: "Maya", Role: model.RoleManager}
	svc := NewComplexService(repo, &mockSportRepository{}, users, validator.NewComplexValidator(cfg.Log), cfg)

	price := 500.0
	err := svc.Update(context.Background(), otherManager, testComplexID, &model.SportComplexUpdate{PricePerHour: &price})
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestUpdate_BuildsPartialSet(t *testing.T) {
	var gotSet bson.M
	repo := &mockComplexRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.SportComplex, error) {
			return ownedComplex(), nil
		},
		updateFunc: func(ctx context.Context, id string, set bson.M) error {
			gotSet = set
			return nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	price := 600.0
	updates := &model.SportComplexUpdate{PricePerHour: &price, Description: "Renovated courts"}
	if err := svc.Update(context.Background(), testManagerID, testComplexID, updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotSet) != 2 {
		t.Fatalf("expected 2 fields in update set, got %d: %v", len(gotSet), gotSet)
	}
	if gotSet["price_per_hour"] != 600.0 {
		t.Errorf("expected price_per_hour 600, got %v", gotSet["price_per_hour"])
	}
	if gotSet["description"] != "Renovated courts" {
		t.Errorf("expected description in set, got %v", gotSet["description"])
	}
}

func TestUpdate_EmptySetRejected(t *testing.T) {
	repo := &mockComplexRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.SportComplex, error) {
			return ownedComplex(), nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	err := svc.Update(context.Background(), testManagerID, testComplexID, &model.SportComplexUpdate{})
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestAddSports_VerifiesExistence(t *testing.T) {
	repo := &mockComplexRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.SportComplex, error) {
			return ownedComplex(), nil
		},
	}
	sportRepo := &mockSportRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.Sport, error) {
			return map[string]*model.Sport{}, nil
		},
	}
	svc := newService(repo, sportRepo)

	err := svc.AddSports(context.Background(), testManagerID, testComplexID, []string{"65c000000000000000000009"})
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestDelete_OnlyOwnerAllowed(t *testing.T) {
	repo := &mockComplexRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.SportComplex, error) {
			c := ownedComplex()
			c.ManagerID = "65a000000000000000000009"
			return c, nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	err := svc.Delete(context.Background(), testManagerID, testComplexID)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestDelete_SoftDeletes(t *testing.T) {
	deleted := false
	repo := &mockComplexRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.SportComplex, error) {
			return ownedComplex(), nil
		},
		softDeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newService(repo, &mockSportRepository{})

	if err := svc.Delete(context.Background(), testManagerID, testComplexID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected soft delete to be called")
	}
}

func TestGetSportByName_NotFound(t *testing.T) {
	svc := newService(&mockComplexRepository{}, &mockSportRepository{})

	_, err := svc.GetSportByName(context.Background(), "croquet")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestGetSportByName_TrimsInput(t *testing.T) {
	sportRepo := &mockSportRepository{
		findByNameFunc: func(ctx context.Context, name string) (*model.Sport, error) {
			if name != "badminton" {
				t.Errorf("expected trimmed lowercase name, got %q", name)
			}
			return &model.Sport{ID: testSportID, Name: "Badminton"}, nil
		},
	}
	svc := newService(&mockComplexRepository{}, sportRepo)

	sport, err := svc.GetSportByName(context.Background(), "  badminton ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sport.Name != "Badminton" {
		t.Errorf("unexpected sport %+v", sport)
	}
}
