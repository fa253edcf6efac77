package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/ports"
	"unidraw/internal/usecase/lottery"
)

type stubLotteryService struct {
	createEvent        func(ctx context.Context, input lottery.CreateEventInput) (lottery.EventView, error)
	getEvent           func(ctx context.Context, eventID string) (lottery.EventView, error)
	enrollParticipants func(ctx context.Context, input lottery.EnrollInput) (lottery.EnrollReport, error)
	draw               func(ctx context.Context, eventID string) (lottery.DrawResult, error)
	resetDraw          func(ctx context.Context, eventID string) (lottery.ResetResult, error)
	setPrizes          func(ctx context.Context, eventID string, prizes []lottery.PrizeInput) ([]lottery.PrizeView, error)
}

func (s *stubLotteryService) CreateEvent(ctx context.Context, input lottery.CreateEventInput) (lottery.EventView, error) {
	return s.createEvent(ctx, input)
}

func (s *stubLotteryService) UpdateEvent(context.Context, string, lottery.UpdateEventInput) (lottery.EventView, error) {
	return lottery.EventView{}, nil
}

func (s *stubLotteryService) SoftDeleteEvent(context.Context, string) error { return nil }

func (s *stubLotteryService) RestoreEvent(context.Context, string) error { return nil }

func (s *stubLotteryService) ListEvents(context.Context, lottery.ListEventsInput) ([]lottery.EventView, error) {
	return nil, nil
}

func (s *stubLotteryService) GetEvent(ctx context.Context, eventID string) (lottery.EventView, error) {
	return s.getEvent(ctx, eventID)
}

func (s *stubLotteryService) SetPrizes(ctx context.Context, eventID string, prizes []lottery.PrizeInput) ([]lottery.PrizeView, error) {
	return s.setPrizes(ctx, eventID, prizes)
}

func (s *stubLotteryService) ListPrizes(context.Context, string) ([]lottery.PrizeView, error) {
	return nil, nil
}

func (s *stubLotteryService) EnrollParticipants(ctx context.Context, input lottery.EnrollInput) (lottery.EnrollReport, error) {
	return s.enrollParticipants(ctx, input)
}

func (s *stubLotteryService) ListParticipants(context.Context, string) ([]lottery.ParticipantView, error) {
	return nil, nil
}

func (s *stubLotteryService) ExportParticipants(context.Context, string) ([]lottery.ParticipantView, error) {
	return nil, nil
}

func (s *stubLotteryService) DeleteParticipant(context.Context, uint64) error { return nil }

func (s *stubLotteryService) DeleteAllParticipants(context.Context, string) (int64, error) {
	return 0, nil
}

func (s *stubLotteryService) Draw(ctx context.Context, eventID string) (lottery.DrawResult, error) {
	return s.draw(ctx, eventID)
}

func (s *stubLotteryService) ResetDraw(ctx context.Context, eventID string) (lottery.ResetResult, error) {
	return s.resetDraw(ctx, eventID)
}

func (s *stubLotteryService) ListWinners(context.Context, string) ([]lottery.PrizeWinners, error) {
	return nil, nil
}

func (s *stubLotteryService) ExportWinners(context.Context, string) ([]lottery.PrizeWinners, error) {
	return nil, nil
}

func TestCreateEventEndpoint(t *testing.T) {
	var gotInput lottery.CreateEventInput
	stub := &stubLotteryService{
		createEvent: func(_ context.Context, input lottery.CreateEventInput) (lottery.EventView, error) {
			gotInput = input
			return lottery.EventView{
				EventID:  "e1",
				Term:     input.Term,
				Name:     input.Name,
				Category: "general",
				Status:   "pending",
			}, nil
		},
	}
	handler := newLotteryAPIHandler(stub)

	body := strings.NewReader(`{"term":"2026-spring","name":"spring draw","category":"general"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotInput.Term != "2026-spring" || gotInput.Name != "spring draw" {
		t.Fatalf("service input = %+v", gotInput)
	}

	var resp eventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.EventID != "e1" || resp.Status != "pending" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCreateEventRejectsInvalidJSON(t *testing.T) {
	handler := newLotteryAPIHandler(&stubLotteryService{})

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEnrollEndpointPassesSurveys(t *testing.T) {
	var gotInput lottery.EnrollInput
	stub := &stubLotteryService{
		enrollParticipants: func(_ context.Context, input lottery.EnrollInput) (lottery.EnrollReport, error) {
			gotInput = input
			return lottery.EnrollReport{Received: len(input.Records), Inserted: 1, Eligible: 1}, nil
		},
	}
	handler := newLotteryAPIHandler(stub)

	body := strings.NewReader(`{"records":[{"student_id":"s1","name":"Alice","surveys":{"required_surveys":5,"completed_surveys":5,"surveys_completed":true,"valid_surveys":true}}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events/e1/participants", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotInput.EventID != "e1" || len(gotInput.Records) != 1 {
		t.Fatalf("service input = %+v", gotInput)
	}
	surveys := gotInput.Records[0].Surveys
	if surveys == nil || surveys.Required != 5 || !surveys.AllDone || !surveys.AllValid {
		t.Fatalf("surveys = %+v", surveys)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "event not found", err: ports.ErrEventNotFound, want: http.StatusNotFound},
		{name: "already drawn", err: domainlottery.ErrEventAlreadyDrawn, want: http.StatusConflict},
		{name: "no prizes", err: domainlottery.ErrNoPrizes, want: http.StatusConflict},
		{name: "no pool", err: domainlottery.ErrNoEligibleParticipants, want: http.StatusConflict},
		{name: "validation", err: lottery.ErrValidation, want: http.StatusBadRequest},
		{name: "unknown", err: context.DeadlineExceeded, want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubLotteryService{
				draw: func(context.Context, string) (lottery.DrawResult, error) {
					return lottery.DrawResult{}, tc.err
				},
			}
			handler := newLotteryAPIHandler(stub)

			req := httptest.NewRequest(http.MethodPost, "/api/events/e1/draw", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	stub := &stubLotteryService{
		draw: func(context.Context, string) (lottery.DrawResult, error) {
			return lottery.DrawResult{}, context.DeadlineExceeded
		},
	}
	handler := newLotteryAPIHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/events/e1/draw", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "internal error" {
		t.Fatalf("error body = %q, want generic message", resp.Error)
	}
}

func TestResetDrawEndpoint(t *testing.T) {
	stub := &stubLotteryService{
		resetDraw: func(_ context.Context, eventID string) (lottery.ResetResult, error) {
			return lottery.ResetResult{EventID: eventID, DeletedWinners: 3, Status: "pending"}, nil
		},
	}
	handler := newLotteryAPIHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/events/e1/winners", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp resetResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.EventID != "e1" || resp.DeletedWinners != 3 || resp.Status != "pending" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSetPrizesEndpoint(t *testing.T) {
	var gotPrizes []lottery.PrizeInput
	stub := &stubLotteryService{
		setPrizes: func(_ context.Context, _ string, prizes []lottery.PrizeInput) ([]lottery.PrizeView, error) {
			gotPrizes = prizes
			views := make([]lottery.PrizeView, 0, len(prizes))
			for i, prize := range prizes {
				views = append(views, lottery.PrizeView{
					PrizeID:  uint64(i + 1),
					Name:     prize.Name,
					Quantity: prize.Quantity,
					Position: i + 1,
				})
			}
			return views, nil
		},
	}
	handler := newLotteryAPIHandler(stub)

	body := strings.NewReader(`{"prizes":[{"name":"grand","quantity":1},{"name":"second","quantity":3}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/events/e1/prizes", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(gotPrizes) != 2 || gotPrizes[1].Quantity != 3 {
		t.Fatalf("service input = %+v", gotPrizes)
	}

	var resp []prizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].Position != 1 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestGetEventEndpointNotFound(t *testing.T) {
	stub := &stubLotteryService{
		getEvent: func(context.Context, string) (lottery.EventView, error) {
			return lottery.EventView{}, ports.ErrEventNotFound
		},
	}
	handler := newLotteryAPIHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/events/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
