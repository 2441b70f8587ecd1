package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	complexerrors "arenabook/internal/complexes/errors"
	"arenabook/internal/complexes/repository"
	"arenabook/internal/complexes/validator"
	userserrors "arenabook/internal/users/errors"
	usersrepo "arenabook/internal/users/repository"
	"arenabook/pkg/config"
	apperrors "arenabook/pkg/errors"
	"arenabook/pkg/model"
	"arenabook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

type ComplexService interface {
	Create(ctx context.Context, callerID string, complex *model.SportComplex) error
	GetByID(ctx context.Context, id string) (*model.SportComplex, error)
	List(ctx context.Context, city string, sportID string, limit int, offset int64) ([]*model.SportComplex, int64, error)
	ListOwn(ctx context.Context, callerID string, limit int, offset int64) ([]*model.SportComplex, int64, error)
	Update(ctx context.Context, callerID string, id string, updates *model.SportComplexUpdate) error
	AddSports(ctx context.Context, callerID string, id string, sportIDs []string) error
	Delete(ctx context.Context, callerID string, id string) error
	ListSports(ctx context.Context) ([]*model.Sport, error)
	GetSportByName(ctx context.Context, name string) (*model.Sport, error)
}

type complexService struct {
	repo      repository.ComplexRepository
	sportRepo repository.SportRepository
	userRepo  usersrepo.UserRepository
	validator *validator.ComplexValidator
	cfg       *config.Config
}

func NewComplexService(
	repo repository.ComplexRepository,
	sportRepo repository.SportRepository,
	userRepo usersrepo.UserRepository,
	validator *validator.ComplexValidator,
	cfg *config.Config,
) ComplexService {
	return &complexService{
		repo:      repo,
		sportRepo: sportRepo,
		userRepo:  userRepo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *complexService) Create(ctx context.Context, callerID string, complex *model.SportComplex) error {
	manager, err := s.requireManager(ctx, callerID)
	if err != nil {
		return err
	}
	complex.ManagerID = manager.ID
	complex.Deleted = false

	s.sanitize(complex)
	if err := s.validator.Validate(complex); err != nil {
		s.cfg.Log.Warn("Sport complex validation failed", "error", err)
		return apperrors.Validation("Sport complex validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.verifySportsExist(ctx, complex.SportIDs); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByNameAndManager(ctx, complex.Name, complex.ManagerID)
	if err != nil {
		return apperrors.Internal("Failed to check sport complex name", err)
	}
	if exists {
		return apperrors.Conflict("A complex with this name already exists for this manager")
	}

	if err := s.repo.Create(ctx, complex); err != nil {
		s.cfg.Log.Error("Failed to create sport complex", "error", err)
		return apperrors.Internal("Failed to create sport complex", err)
	}

	s.cfg.Log.Info("Sport complex created",
		"id", complex.ID,
		"manager_id", complex.ManagerID,
		"city", complex.City,
	)
	return nil
}

func (s *complexService) GetByID(ctx context.Context, id string) (*model.SportComplex, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Sport complex ID cannot be empty")
	}

	complex, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, complexerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Sport complex", id)
		}
		if errors.Is(err, complexerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid sport complex ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve sport complex", err)
	}

	return complex, nil
}

func (s *complexService) List(ctx context.Context, city string, sportID string, limit int, offset int64) ([]*model.SportComplex, int64, error) {
	city = sanitizer.NormalizeCity(city)

	var count int64
	var complexes []*model.SportComplex
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountAll(ctx, city, sportID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count sport complexes", "error", errCount)
			errCount = apperrors.Internal("Failed to count sport complexes", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		complexes, errFind = s.repo.FindAll(ctx, city, sportID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list sport complexes", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve sport complexes", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return complexes, count, nil
}

func (s *complexService) ListOwn(ctx context.Context, callerID string, limit int, offset int64) ([]*model.SportComplex, int64, error) {
	if _, err := s.requireManager(ctx, callerID); err != nil {
		return nil, 0, err
	}

	var count int64
	var complexes []*model.SportComplex
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByManager(ctx, callerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count own sport complexes", "manager_id", callerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count sport complexes", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		complexes, errFind = s.repo.FindByManager(ctx, callerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list own sport complexes", "manager_id", callerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve sport complexes", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return complexes, count, nil
}

func (s *complexService) Update(ctx context.Context, callerID string, id string, updates *model.SportComplexUpdate) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.requireManager(ctx, callerID); err != nil {
		return err
	}
	if existing.ManagerID != callerID {
		return apperrors.Forbidden("Only the owning manager can update this complex")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Sport complex update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	set := s.buildUpdateSet(updates)
	if len(set) == 0 {
		return apperrors.InvalidInput("No updatable fields provided")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, complexerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Sport complex", id)
		}
		s.cfg.Log.Error("Failed to update sport complex", "id", id, "error", err)
		return apperrors.Internal("Failed to update sport complex", err)
	}

	s.cfg.Log.Info("Sport complex updated", "id", id)
	return nil
}

func (s *complexService) AddSports(ctx context.Context, callerID string, id string, sportIDs []string) error {
	sportIDs = sanitizer.SanitizeSlice(sportIDs, sanitizer.TrimAndNormalize)
	if len(sportIDs) == 0 {
		return apperrors.InvalidInput("At least one sport ID is required")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.requireManager(ctx, callerID); err != nil {
		return err
	}
	if existing.ManagerID != callerID {
		return apperrors.Forbidden("Only the owning manager can update this complex")
	}

	if err := s.verifySportsExist(ctx, sportIDs); err != nil {
		return err
	}

	if err := s.repo.AddSports(ctx, id, sportIDs); err != nil {
		if errors.Is(err, complexerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Sport complex", id)
		}
		s.cfg.Log.Error("Failed to add sports to complex", "id", id, "error", err)
		return apperrors.Internal("Failed to add sports to complex", err)
	}

	s.cfg.Log.Info("Sports added to complex", "id", id, "sports", len(sportIDs))
	return nil
}

func (s *complexService) Delete(ctx context.Context, callerID string, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.requireManager(ctx, callerID); err != nil {
		return err
	}
	if existing.ManagerID != callerID {
		return apperrors.Forbidden("Only the owning manager can delete this complex")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, complexerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Sport complex", id)
		}
		s.cfg.Log.Error("Failed to delete sport complex", "id", id, "error", err)
		return apperrors.Internal("Failed to delete sport complex", err)
	}

	s.cfg.Log.Info("Sport complex deleted", "id", id)
	return nil
}

func (s *complexService) ListSports(ctx context.Context) ([]*model.Sport, error) {
	sports, err := s.sportRepo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list sports", "error", err)
		return nil, apperrors.Internal("Failed to retrieve sports", err)
	}
	return sports, nil
}

func (s *complexService) GetSportByName(ctx context.Context, name string) (*model.Sport, error) {
	name = sanitizer.TrimAndNormalize(name)
	if name == "" {
		return nil, apperrors.InvalidInput("Sport name cannot be empty")
	}

	sport, err := s.sportRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, complexerrors.ErrSportNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Sport '%s' not found", name))
		}
		return nil, apperrors.Internal("Failed to retrieve sport", err)
	}
	return sport, nil
}

// --- Helpers ---

func (s *complexService) requireManager(ctx context.Context, callerID string) (*model.User, error) {
	if callerID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}

	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.Forbidden("Only managers can manage sport complexes")
		}
		return nil, apperrors.Internal("Failed to resolve caller", err)
	}
	if caller.Role != model.RoleManager {
		return nil, apperrors.Forbidden("Only managers can manage sport complexes")
	}

	return caller, nil
}

func (s *complexService) verifySportsExist(ctx context.Context, sportIDs []string) error {
	if len(sportIDs) == 0 {
		return nil
	}

	found, err := s.sportRepo.FindByIDs(ctx, sportIDs)
	if err != nil {
		return apperrors.Internal("Failed to verify sports", err)
	}

	for _, id := range sportIDs {
		if _, ok := found[id]; !ok {
			return apperrors.NotFoundWithID("Sport", id)
		}
	}
	return nil
}

func (s *complexService) sanitize(c *model.SportComplex) {
	c.Name = sanitizer.NormalizeName(c.Name)
	c.Address = sanitizer.NormalizeName(c.Address)
	c.City = sanitizer.NormalizeCity(c.City)
	if phone := sanitizer.NormalizePhone(c.Phone); phone != "" {
		c.Phone = phone
	}
	c.Images = sanitizer.SanitizeSlice(c.Images, sanitizer.SanitizeURL)
	c.SportIDs = sanitizer.SanitizeSlice(c.SportIDs, sanitizer.TrimAndNormalize)
}

func (s *complexService) buildUpdateSet(updates *model.SportComplexUpdate) bson.M {
	set := bson.M{}
	if updates.Phone != "" {
		if phone := sanitizer.NormalizePhone(updates.Phone); phone != "" {
			set["phone"] = phone
		} else {
			set["phone"] = updates.Phone
		}
	}
	if updates.Email != "" {
		set["email"] = updates.Email
	}
	if updates.OpeningTime != "" {
		set["opening_time"] = updates.OpeningTime
	}
	if updates.ClosingTime != "" {
		set["closing_time"] = updates.ClosingTime
	}
	if updates.PricePerHour != nil {
		set["price_per_hour"] = *updates.PricePerHour
	}
	if updates.Description != "" {
		set["description"] = updates.Description
	}
	return set
}
