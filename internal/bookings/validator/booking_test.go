package validator

import (
	"strings"
	"testing"
	"time"

	"arenabook/pkg/logger"
	"arenabook/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.FormatJSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func baseRequest() *model.BookingRequest {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	return &model.BookingRequest{
		ComplexID: "65b000000000000000000001",
		SportID:   "65c000000000000000000001",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateRequest(baseRequest()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *model.BookingRequest)
		wantMsg string
	}{
		{
			name: "missing complex id",
			mutate: func(req *model.BookingRequest) {
				req.ComplexID = ""
			},
			wantMsg: "ComplexID is required",
		},
		{
			name: "malformed complex id",
			mutate: func(req *model.BookingRequest) {
				req.ComplexID = "not-an-object-id"
			},
			wantMsg: "valid MongoDB ObjectID",
		},
		{
			name: "malformed sport id",
			mutate: func(req *model.BookingRequest) {
				req.SportID = "xyz"
			},
			wantMsg: "valid MongoDB ObjectID",
		},
		{
			name: "end before start",
			mutate: func(req *model.BookingRequest) {
				req.EndTime = req.StartTime.Add(-time.Hour)
			},
			wantMsg: "after",
		},
		{
			name: "end equals start",
			mutate: func(req *model.BookingRequest) {
				req.EndTime = req.StartTime
			},
			wantMsg: "after",
		},
		{
			name: "start in past",
			mutate: func(req *model.BookingRequest) {
				req.StartTime = time.Now().Add(-2 * time.Hour)
				req.EndTime = time.Now().Add(2 * time.Hour)
			},
			wantMsg: "cannot be in the past",
		},
		{
			name: "duration too long",
			mutate: func(req *model.BookingRequest) {
				req.EndTime = req.StartTime.Add(15 * 24 * time.Hour)
			},
			wantMsg: "cannot exceed",
		},
		{
			name: "unknown booking type",
			mutate: func(req *model.BookingRequest) {
				req.BookingType = "weekly"
			},
			wantMsg: "must be one of",
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateRequest_BookingTypeOptional(t *testing.T) {
	v := newTestValidator()

	for _, bookingType := range []string{"", "hourly", "daily", "tournament"} {
		req := baseRequest()
		req.BookingType = bookingType
		if err := v.ValidateRequest(req); err != nil {
			t.Errorf("booking type %q should be accepted, got %v", bookingType, err)
		}
	}
}
