package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"unidraw/internal/bootstrap"
	"unidraw/internal/bootstrap/logging"
	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
	"unidraw/internal/ports"
	"unidraw/internal/usecase/lottery"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lottery HTTP API server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *lottery.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}

		server := &http.Server{
			Addr:    addr,
			Handler: newLotteryAPIHandler(svc),
		}

		logging.Info(ctx, "lottery api server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "lottery api server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve lottery api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (defaults to http.addr from config)")
}

// lotteryAPIService is the slice of the usecase service the HTTP layer
// needs; tests substitute a stub.
type lotteryAPIService interface {
	CreateEvent(ctx context.Context, input lottery.CreateEventInput) (lottery.EventView, error)
	UpdateEvent(ctx context.Context, eventID string, input lottery.UpdateEventInput) (lottery.EventView, error)
	SoftDeleteEvent(ctx context.Context, eventID string) error
	RestoreEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, input lottery.ListEventsInput) ([]lottery.EventView, error)
	GetEvent(ctx context.Context, eventID string) (lottery.EventView, error)
	SetPrizes(ctx context.Context, eventID string, prizes []lottery.PrizeInput) ([]lottery.PrizeView, error)
	ListPrizes(ctx context.Context, eventID string) ([]lottery.PrizeView, error)
	EnrollParticipants(ctx context.Context, input lottery.EnrollInput) (lottery.EnrollReport, error)
	ListParticipants(ctx context.Context, eventID string) ([]lottery.ParticipantView, error)
	ExportParticipants(ctx context.Context, eventID string) ([]lottery.ParticipantView, error)
	DeleteParticipant(ctx context.Context, participantID uint64) error
	DeleteAllParticipants(ctx context.Context, eventID string) (int64, error)
	Draw(ctx context.Context, eventID string) (lottery.DrawResult, error)
	ResetDraw(ctx context.Context, eventID string) (lottery.ResetResult, error)
	ListWinners(ctx context.Context, eventID string) ([]lottery.PrizeWinners, error)
	ExportWinners(ctx context.Context, eventID string) ([]lottery.PrizeWinners, error)
}

type lotteryHTTPHandler struct {
	svc lotteryAPIService
}

func newLotteryAPIHandler(svc lotteryAPIService) http.Handler {
	h := &lotteryHTTPHandler{svc: svc}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.createEvent)
			r.Get("/", h.listEvents)
			r.Get("/deleted", h.listDeletedEvents)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", h.getEvent)
				r.Patch("/", h.updateEvent)
				r.Delete("/", h.softDeleteEvent)
				r.Post("/restore", h.restoreEvent)
				r.Put("/prizes", h.setPrizes)
				r.Get("/prizes", h.listPrizes)
				r.Post("/participants", h.enrollParticipants)
				r.Get("/participants", h.listParticipants)
				r.Get("/participants/export", h.exportParticipants)
				r.Delete("/participants", h.deleteAllParticipants)
				r.Post("/draw", h.draw)
				r.Get("/winners", h.listWinners)
				r.Get("/winners/export", h.exportWinners)
				r.Delete("/winners", h.resetDraw)
			})
		})
		r.Delete("/participants/{participantID}", h.deleteParticipant)
	})
	return r
}

type eventRequest struct {
	Term        string `json:"term"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	Category    string `json:"category"`
}

type eventUpdateRequest struct {
	Term        *string `json:"term"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	Category    *string `json:"category"`
}

type prizeRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type setPrizesRequest struct {
	Prizes []prizeRequest `json:"prizes"`
}

type surveyPayload struct {
	Required  int  `json:"required_surveys"`
	Completed int  `json:"completed_surveys"`
	AllDone   bool `json:"surveys_completed"`
	AllValid  bool `json:"valid_surveys"`
}

type importRecordPayload struct {
	StudentID  string         `json:"student_id"`
	Name       string         `json:"name"`
	Department string         `json:"department"`
	Grade      string         `json:"grade"`
	Surveys    *surveyPayload `json:"surveys"`
}

type enrollRequest struct {
	Records []importRecordPayload `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *lotteryHTTPHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	view, err := h.svc.CreateEvent(r.Context(), lottery.CreateEventInput{
		Term:        req.Term,
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(view))
}

func (h *lotteryHTTPHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.svc.ListEvents(r.Context(), lottery.ListEventsInput{
		Category:       query.Get("category"),
		IncludeDeleted: query.Get("include_deleted") == "true",
		Limit:          intQuery(query.Get("limit")),
		Offset:         intQuery(query.Get("offset")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(items))
}

func (h *lotteryHTTPHandler) listDeletedEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEvents(r.Context(), lottery.ListEventsInput{OnlyDeleted: true})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(items))
}

func (h *lotteryHTTPHandler) getEvent(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(view))
}

func (h *lotteryHTTPHandler) updateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	view, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), lottery.UpdateEventInput{
		Term:        req.Term,
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(view))
}

func (h *lotteryHTTPHandler) softDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SoftDeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *lotteryHTTPHandler) restoreEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RestoreEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *lotteryHTTPHandler) setPrizes(w http.ResponseWriter, r *http.Request) {
	var req setPrizesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	prizes := make([]lottery.PrizeInput, 0, len(req.Prizes))
	for _, prize := range req.Prizes {
		prizes = append(prizes, lottery.PrizeInput{Name: prize.Name, Quantity: prize.Quantity})
	}

	items, err := h.svc.SetPrizes(r.Context(), chi.URLParam(r, "eventID"), prizes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrizeResponses(items))
}

func (h *lotteryHTTPHandler) listPrizes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPrizes(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrizeResponses(items))
}

func (h *lotteryHTTPHandler) enrollParticipants(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	records := make([]lottery.ImportRecord, 0, len(req.Records))
	for _, record := range req.Records {
		item := lottery.ImportRecord{
			StudentID:  record.StudentID,
			Name:       record.Name,
			Department: record.Department,
			Grade:      record.Grade,
		}
		if record.Surveys != nil {
			item.Surveys = &lottery.SurveyStatus{
				Required:  record.Surveys.Required,
				Completed: record.Surveys.Completed,
				AllDone:   record.Surveys.AllDone,
				AllValid:  record.Surveys.AllValid,
			}
		}
		records = append(records, item)
	}

	report, err := h.svc.EnrollParticipants(r.Context(), lottery.EnrollInput{
		EventID: chi.URLParam(r, "eventID"),
		Records: records,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEnrollReportResponse(report))
}

func (h *lotteryHTTPHandler) listParticipants(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListParticipants(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponses(items))
}

func (h *lotteryHTTPHandler) exportParticipants(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ExportParticipants(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponses(items))
}

func (h *lotteryHTTPHandler) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := strconv.ParseUint(chi.URLParam(r, "participantID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid participant id")
		return
	}

	if err := h.svc.DeleteParticipant(r.Context(), participantID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *lotteryHTTPHandler) deleteAllParticipants(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteAllParticipants(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted_participants": deleted})
}

func (h *lotteryHTTPHandler) draw(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Draw(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDrawResultResponse(result))
}

func (h *lotteryHTTPHandler) resetDraw(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ResetDraw(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resetResultResponse{
		EventID:        result.EventID,
		DeletedWinners: result.DeletedWinners,
		Status:         result.Status,
	})
}

func (h *lotteryHTTPHandler) listWinners(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListWinners(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrizeWinnersResponses(items))
}

func (h *lotteryHTTPHandler) exportWinners(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ExportWinners(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrizeWinnersResponses(items))
}

func intQuery(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ports.ErrEventNotFound),
		errors.Is(err, ports.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainlottery.ErrEventAlreadyDrawn),
		errors.Is(err, domainlottery.ErrNoPrizes),
		errors.Is(err, domainlottery.ErrNoEligibleParticipants),
		errors.Is(err, domainlottery.ErrNoWinnersToReset),
		errors.Is(err, domainlottery.ErrParticipantsLocked):
		return http.StatusConflict
	case errors.Is(err, lottery.ErrValidation),
		errors.Is(err, domainlottery.ErrInvalidCategory),
		errors.Is(err, domainlottery.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
