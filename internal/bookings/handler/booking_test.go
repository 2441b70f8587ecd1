package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "arenabook/pkg/errors"
	"arenabook/pkg/logger"
	"arenabook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	requestFunc     func(ctx context.Context, callerID string, req *model.BookingRequest) (*model.Booking, error)
	approveFunc     func(ctx context.Context, callerID, bookingID string) (int64, error)
	rejectFunc      func(ctx context.Context, callerID, bookingID string) error
	listManagerFunc func(ctx context.Context, callerID string, limit int, offset int64) ([]*model.ManagerBookingView, int64, error)
	listMineFunc    func(ctx context.Context, callerID string, limit int, offset int64) ([]*model.RequesterBookingView, int64, error)
}

func (m *mockBookingService) RequestBooking(ctx context.Context, callerID string, req *model.BookingRequest) (*model.Booking, error) {
	if m.requestFunc != nil {
		return m.requestFunc(ctx, callerID, req)
	}
	return &model.Booking{ID: "65d000000000000000000001"}, nil
}

func (m *mockBookingService) ApproveBooking(ctx context.Context, callerID, bookingID string) (int64, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, callerID, bookingID)
	}
	return 0, nil
}

func (m *mockBookingService) RejectBooking(ctx context.Context, callerID, bookingID string) error {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, callerID, bookingID)
	}
	return nil
}

func (m *mockBookingService) ListForManager(ctx context.Context, callerID string, limit int, offset int64) ([]*model.ManagerBookingView, int64, error) {
	if m.listManagerFunc != nil {
		return m.listManagerFunc(ctx, callerID, limit, offset)
	}
	return []*model.ManagerBookingView{}, 0, nil
}

func (m *mockBookingService) ListForRequester(ctx context.Context, callerID string, limit int, offset int64) ([]*model.RequesterBookingView, int64, error) {
	if m.listMineFunc != nil {
		return m.listMineFunc(ctx, callerID, limit, offset)
	}
	return []*model.RequesterBookingView{}, 0, nil
}

func newTestHandler(svc *mockBookingService) *BookingHandler {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.FormatJSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingHandler(svc, log)
}

func TestRequest_InvalidBody(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Request(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRequest_ConflictMapsTo409(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		requestFunc: func(ctx context.Context, callerID string, req *model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.Conflict("The slot is already booked")
		},
	})

	body := `{"complex_id":"65b000000000000000000001","sport_id":"65c000000000000000000001",` +
		`"start_time":"2026-09-01T10:00:00Z","end_time":"2026-09-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Request(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}

	var response struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, response.Code)
	}
}

func TestRequest_Created(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	handler := newTestHandler(&mockBookingService{
		requestFunc: func(ctx context.Context, callerID string, req *model.BookingRequest) (*model.Booking, error) {
			return &model.Booking{
				ID:             "65d000000000000000000001",
				StartTime:      start,
				EndTime:        start.Add(time.Hour),
				ApprovalStatus: model.ApprovalPending,
				Status:         model.StatusPending,
			}, nil
		},
	})

	body := `{"complex_id":"65b000000000000000000001","sport_id":"65c000000000000000000001",` +
		`"start_time":"2026-09-01T10:00:00Z","end_time":"2026-09-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Request(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}

	var response struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.ApprovalStatus != model.ApprovalPending {
		t.Errorf("expected Pending approval status, got %s", response.Data.ApprovalStatus)
	}
}

func TestApprove_ReturnsCascadeCount(t *testing.T) {
	var receivedID string
	handler := newTestHandler(&mockBookingService{
		approveFunc: func(ctx context.Context, callerID, bookingID string) (int64, error) {
			receivedID = bookingID
			return 2, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/65d000000000000000000001/approve", nil)
	w := httptest.NewRecorder()

	handler.Approve(w, req, httprouter.Params{{Key: "id", Value: "65d000000000000000000001"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if receivedID != "65d000000000000000000001" {
		t.Errorf("expected booking id from path, got %q", receivedID)
	}

	var response struct {
		Data approvalResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.ApprovalStatus != model.ApprovalApproved {
		t.Errorf("expected Approved, got %s", response.Data.ApprovalStatus)
	}
	if response.Data.RejectedOverlapping != 2 {
		t.Errorf("expected 2 cascaded rejections, got %d", response.Data.RejectedOverlapping)
	}
}

func TestApprove_ForbiddenMapsTo403(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		approveFunc: func(ctx context.Context, callerID, bookingID string) (int64, error) {
			return 0, apperrors.Forbidden("Only the complex manager can decide this booking")
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/65d000000000000000000001/approve", nil)
	w := httptest.NewRecorder()

	handler.Approve(w, req, httprouter.Params{{Key: "id", Value: "65d000000000000000000001"}})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestReject_Success(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/65d000000000000000000001/reject", nil)
	w := httptest.NewRecorder()

	handler.Reject(w, req, httprouter.Params{{Key: "id", Value: "65d000000000000000000001"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response struct {
		Data approvalResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.ApprovalStatus != model.ApprovalRejected {
		t.Errorf("expected Rejected, got %s", response.Data.ApprovalStatus)
	}
}

func TestListRequests_PaginationNormalized(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	handler := newTestHandler(&mockBookingService{
		listManagerFunc: func(ctx context.Context, callerID string, limit int, offset int64) ([]*model.ManagerBookingView, int64, error) {
			receivedLimit = limit
			receivedOffset = offset
			return []*model.ManagerBookingView{}, 0, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/requests?limit=-5&offset=-3", nil)
	w := httptest.NewRecorder()

	handler.ListRequests(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if receivedLimit <= 0 {
		t.Errorf("expected normalized positive limit, got %d", receivedLimit)
	}
	if receivedOffset != 0 {
		t.Errorf("expected normalized offset 0, got %d", receivedOffset)
	}
}

func TestListRequests_InvalidLimitRejected(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/requests?limit=abc", nil)
	w := httptest.NewRecorder()

	handler.ListRequests(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestListMine_ResponseShape(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		listMineFunc: func(ctx context.Context, callerID string, limit int, offset int64) ([]*model.RequesterBookingView, int64, error) {
			return []*model.RequesterBookingView{
				{Booking: model.Booking{ID: "65d000000000000000000001"}, ComplexName: "Cubbon Courts", SportName: "Badminton"},
			}, 1, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine?limit=10&offset=0", nil)
	w := httptest.NewRecorder()

	handler.ListMine(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response struct {
		Data       []model.RequesterBookingView `json:"data"`
		TotalCount int64                        `json:"total_count"`
		Limit      int                          `json:"limit"`
		Offset     int64                        `json:"offset"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.TotalCount != 1 || len(response.Data) != 1 {
		t.Fatalf("expected one booking, got total=%d len=%d", response.TotalCount, len(response.Data))
	}
	if response.Data[0].ComplexName != "Cubbon Courts" {
		t.Errorf("expected enriched complex name, got %q", response.Data[0].ComplexName)
	}
}
