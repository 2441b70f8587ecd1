package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "arenabook/internal/bookings/errors"
	"arenabook/internal/bookings/repository"
	"arenabook/internal/bookings/validator"
	complexerrors "arenabook/internal/complexes/errors"
	complexrepo "arenabook/internal/complexes/repository"
	"arenabook/internal/notify"
	userserrors "arenabook/internal/users/errors"
	usersrepo "arenabook/internal/users/repository"
	"arenabook/pkg/config"
	apperrors "arenabook/pkg/errors"
	"arenabook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	RequestBooking(ctx context.Context, callerID string, req *model.BookingRequest) (*model.Booking, error)
	ApproveBooking(ctx context.Context, callerID string, bookingID string) (int64, error)
	RejectBooking(ctx context.Context, callerID string, bookingID string) error
	ListForManager(ctx context.Context, callerID string, limit int, offset int64) ([]*model.ManagerBookingView, int64, error)
	ListForRequester(ctx context.Context, callerID string, limit int, offset int64) ([]*model.RequesterBookingView, int64, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	complexRepo complexrepo.ComplexRepository
	sportRepo   complexrepo.SportRepository
	userRepo    usersrepo.UserRepository
	validator   *validator.BookingValidator
	notifier    notify.Notifier
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	complexRepo complexrepo.ComplexRepository,
	sportRepo complexrepo.SportRepository,
	userRepo usersrepo.UserRepository,
	validator *validator.BookingValidator,
	notifier notify.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		complexRepo: complexRepo,
		sportRepo:   sportRepo,
		userRepo:    userRepo,
		validator:   validator,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// RequestBooking validates the request against the directory, checks the
// slot for an approved overlap and inserts a Pending booking carrying the
// complex's manager id. The overlap check and the insert are not atomic;
// concurrent requests for the same slot can both land as Pending and are
// resolved at approval time.
func (s *bookingService) RequestBooking(ctx context.Context, callerID string, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{"error": err.Error()})
	}

	caller, err := s.requireRole(ctx, callerID, model.RoleUser, "Only registered users can request bookings")
	if err != nil {
		return nil, err
	}

	complex, err := s.complexRepo.FindByID(ctx, req.ComplexID)
	if err != nil {
		if errors.Is(err, complexerrors.ErrNotFound) || errors.Is(err, complexerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Sport complex", req.ComplexID)
		}
		return nil, apperrors.Internal("Failed to resolve sport complex", err)
	}

	sport, err := s.sportRepo.FindByID(ctx, req.SportID)
	if err != nil {
		if errors.Is(err, complexerrors.ErrSportNotFound) {
			return nil, apperrors.NotFoundWithID("Sport", req.SportID)
		}
		return nil, apperrors.Internal("Failed to resolve sport", err)
	}

	if !complex.OffersSport(sport.ID) {
		return nil, apperrors.Validation("Sport is not offered at this complex", map[string]any{
			"complex_id": complex.ID,
			"sport_id":   sport.ID,
		})
	}

	existing, err := s.repo.FindApprovedOverlap(ctx, complex.ID, sport.ID, req.StartTime, req.EndTime)
	if err != nil && !errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check slot availability", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Slot already has an approved booking (%s - %s)",
			existing.StartTime.Format(time.RFC3339),
			existing.EndTime.Format(time.RFC3339),
		))
	}

	booking := &model.Booking{
		UserID:         caller.ID,
		ComplexID:      complex.ID,
		SportID:        sport.ID,
		ManagerID:      complex.ManagerID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BookingType:    req.BookingType,
		ApprovalStatus: model.ApprovalPending,
		Status:         model.StatusPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking requested",
		"id", booking.ID,
		"user_id", booking.UserID,
		"complex_id", booking.ComplexID,
		"sport_id", booking.SportID,
		"start_time", booking.StartTime,
	)

	s.notifier.NotifyMessage(fmt.Sprintf(
		"New booking request %s for %s at %s (%s - %s)",
		booking.ID, sport.Name, complex.Name,
		booking.StartTime.Format(time.RFC3339),
		booking.EndTime.Format(time.RFC3339),
	))
	s.notifyManager(ctx, complex.ManagerID,
		"New booking request",
		fmt.Sprintf("%s requested %s at %s from %s to %s.",
			caller.Name, sport.Name, complex.Name,
			booking.StartTime.Format(time.RFC3339),
			booking.EndTime.Format(time.RFC3339),
		),
	)

	return booking, nil
}

// ApproveBooking marks the booking approved and rejects every overlapping
// Pending request in the same transaction. Returns the number of cascaded
// rejections.
func (s *bookingService) ApproveBooking(ctx context.Context, callerID string, bookingID string) (int64, error) {
	booking, err := s.decidableBooking(ctx, callerID, bookingID)
	if err != nil {
		return 0, err
	}

	var rejected int64
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.UpdateDecision(sessCtx, booking.ID, model.ApprovalApproved, model.StatusCompleted); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", booking.ID)
			}
			return apperrors.Internal("Failed to approve booking", err)
		}

		rejected, err = s.repo.RejectOverlappingPending(sessCtx, booking.ID, booking.ComplexID, booking.SportID, booking.StartTime, booking.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to reject overlapping bookings", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to approve booking", "id", booking.ID, "error", err)
		return 0, err
	}

	s.cfg.Log.Info("Booking approved",
		"id", booking.ID,
		"manager_id", callerID,
		"rejected_overlapping", rejected,
	)

	s.notifier.NotifyMessage("Your booking is confirmed")
	s.notifyRequester(ctx, booking.UserID,
		"Booking confirmed",
		fmt.Sprintf("Your booking from %s to %s has been approved.",
			booking.StartTime.Format(time.RFC3339),
			booking.EndTime.Format(time.RFC3339),
		),
	)

	return rejected, nil
}

// RejectBooking marks the booking rejected. Already-decided bookings are
// left untouched.
func (s *bookingService) RejectBooking(ctx context.Context, callerID string, bookingID string) error {
	booking, err := s.decidableBooking(ctx, callerID, bookingID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateDecision(ctx, booking.ID, model.ApprovalRejected, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", booking.ID)
		}
		s.cfg.Log.Error("Failed to reject booking", "id", booking.ID, "error", err)
		return apperrors.Internal("Failed to reject booking", err)
	}

	s.cfg.Log.Info("Booking rejected", "id", booking.ID, "manager_id", callerID)

	s.notifier.NotifyMessage("Your booking is rejected")
	s.notifyRequester(ctx, booking.UserID,
		"Booking rejected",
		fmt.Sprintf("Your booking from %s to %s was rejected.",
			booking.StartTime.Format(time.RFC3339),
			booking.EndTime.Format(time.RFC3339),
		),
	)

	return nil
}

// ListForManager returns every booking whose denormalized manager id is the
// caller, whatever its approval state. The manager's decision queue and
// history are one view.
func (s *bookingService) ListForManager(ctx context.Context, callerID string, limit int, offset int64) ([]*model.ManagerBookingView, int64, error) {
	if _, err := s.requireRole(ctx, callerID, model.RoleManager, "Only managers can list booking requests"); err != nil {
		return nil, 0, err
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByManager(ctx, callerID, "")
		if errCount != nil {
			s.cfg.Log.Error("Failed to count manager bookings", "manager_id", callerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count booking requests", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByManager(ctx, callerID, "", limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list manager bookings", "manager_id", callerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve booking requests", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views, err := s.buildManagerViews(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

func (s *bookingService) ListForRequester(ctx context.Context, callerID string, limit int, offset int64) ([]*model.RequesterBookingView, int64, error) {
	if callerID == "" {
		return nil, 0, apperrors.Unauthenticated("Authentication required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByRequester(ctx, callerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count requester bookings", "user_id", callerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByRequester(ctx, callerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list requester bookings", "user_id", callerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views, err := s.buildRequesterViews(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

// --- Helpers ---

func (s *bookingService) requireRole(ctx context.Context, callerID string, role string, denial string) (*model.User, error) {
	if callerID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}

	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.Forbidden(denial)
		}
		return nil, apperrors.Internal("Failed to resolve caller", err)
	}
	if caller.Role != role {
		return nil, apperrors.Forbidden(denial)
	}

	return caller, nil
}

// decidableBooking loads the booking and verifies the caller is its manager
// and the booking is still Pending.
func (s *bookingService) decidableBooking(ctx context.Context, callerID string, bookingID string) (*model.Booking, error) {
	if _, err := s.requireRole(ctx, callerID, model.RoleManager, "Only managers can decide booking requests"); err != nil {
		return nil, err
	}

	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.ManagerID != callerID {
		return nil, apperrors.Forbidden("Only the complex manager can decide this booking")
	}

	if booking.Decided() {
		return nil, apperrors.Validation("Booking has already been processed", map[string]any{
			"id":              booking.ID,
			"approval_status": booking.ApprovalStatus,
		})
	}

	return booking, nil
}

func (s *bookingService) buildManagerViews(ctx context.Context, bookings []*model.Booking) ([]*model.ManagerBookingView, error) {
	complexes, sports, users, err := s.lookupReferences(ctx, bookings, true)
	if err != nil {
		return nil, err
	}

	views := make([]*model.ManagerBookingView, 0, len(bookings))
	for _, b := range bookings {
		view := &model.ManagerBookingView{Booking: *b}
		if c, ok := complexes[b.ComplexID]; ok {
			view.ComplexName = c.Name
		}
		if sp, ok := sports[b.SportID]; ok {
			view.SportName = sp.Name
		}
		if u, ok := users[b.UserID]; ok {
			view.RequesterName = u.Name
			view.RequesterEmail = u.Email
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *bookingService) buildRequesterViews(ctx context.Context, bookings []*model.Booking) ([]*model.RequesterBookingView, error) {
	complexes, sports, _, err := s.lookupReferences(ctx, bookings, false)
	if err != nil {
		return nil, err
	}

	views := make([]*model.RequesterBookingView, 0, len(bookings))
	for _, b := range bookings {
		view := &model.RequesterBookingView{Booking: *b}
		if c, ok := complexes[b.ComplexID]; ok {
			view.ComplexName = c.Name
		}
		if sp, ok := sports[b.SportID]; ok {
			view.SportName = sp.Name
		}
		views = append(views, view)
	}
	return views, nil
}

// lookupReferences batch-loads the complexes, sports and optionally the
// requesting users referenced by the bookings.
func (s *bookingService) lookupReferences(ctx context.Context, bookings []*model.Booking, withUsers bool) (map[string]*model.SportComplex, map[string]*model.Sport, map[string]*model.User, error) {
	complexIDs := make([]string, 0, len(bookings))
	sportIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		complexIDs = append(complexIDs, b.ComplexID)
		sportIDs = append(sportIDs, b.SportID)
		userIDs = append(userIDs, b.UserID)
	}

	complexes, err := s.complexRepo.FindByIDs(ctx, complexIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve complexes for booking views", "error", err)
		return nil, nil, nil, apperrors.Internal("Failed to enrich bookings", err)
	}

	sports, err := s.sportRepo.FindByIDs(ctx, sportIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve sports for booking views", "error", err)
		return nil, nil, nil, apperrors.Internal("Failed to enrich bookings", err)
	}

	var users map[string]*model.User
	if withUsers {
		users, err = s.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			s.cfg.Log.Error("Failed to resolve users for booking views", "error", err)
			return nil, nil, nil, apperrors.Internal("Failed to enrich bookings", err)
		}
	}

	return complexes, sports, users, nil
}

// notifyManager emails the complex manager, best effort. A failed address
// lookup drops the email and logs.
func (s *bookingService) notifyManager(ctx context.Context, managerID string, subject string, body string) {
	manager, err := s.userRepo.FindByID(ctx, managerID)
	if err != nil || manager.Email == "" {
		s.cfg.Log.Warn("Skipping manager email notification", "manager_id", managerID, "error", err)
		return
	}
	s.notifier.NotifyEmail(manager.Email, subject, body)
}

func (s *bookingService) notifyRequester(ctx context.Context, userID string, subject string, body string) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.Email == "" {
		s.cfg.Log.Warn("Skipping requester email notification", "user_id", userID, "error", err)
		return
	}
	s.notifier.NotifyEmail(user.Email, subject, body)
}
