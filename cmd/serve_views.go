package cmd

import (
	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/usecase/lottery"
)

type eventResponse struct {
	EventID     string `json:"event_id"`
	Term        string `json:"term"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	IsDeleted   bool   `json:"is_deleted"`
	DrawSeed    *int64 `json:"draw_seed,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type prizeResponse struct {
	PrizeID  uint64 `json:"prize_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Position int    `json:"position"`
}

type enrichmentResponse struct {
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	Grade      string `json:"grade,omitempty"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"national_id,omitempty"`
}

type participantResponse struct {
	ParticipantID uint64              `json:"participant_id"`
	StudentID     string              `json:"student_id"`
	Name          string              `json:"name"`
	Department    string              `json:"department"`
	Grade         string              `json:"grade"`
	Surveys       *surveyPayload      `json:"surveys,omitempty"`
	Enrichment    *enrichmentResponse `json:"enrichment,omitempty"`
	CreatedAt     string              `json:"created_at"`
}

type skippedRecordResponse struct {
	StudentID string   `json:"student_id,omitempty"`
	Reasons   []string `json:"reasons"`
}

type enrollReportResponse struct {
	Received int                     `json:"received"`
	Inserted int                     `json:"inserted"`
	Updated  int                     `json:"updated"`
	Eligible int                     `json:"eligible"`
	Skipped  []skippedRecordResponse `json:"skipped"`
}

type winnerResponse struct {
	WinnerID      uint64 `json:"winner_id,omitempty"`
	ParticipantID uint64 `json:"participant_id"`
	StudentID     string `json:"student_id"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	Grade         string `json:"grade"`
	Email         string `json:"email,omitempty"`
}

type prizeWinnersResponse struct {
	PrizeID   uint64           `json:"prize_id"`
	PrizeName string           `json:"prize_name"`
	Quantity  int              `json:"quantity"`
	Winners   []winnerResponse `json:"winners"`
}

type drawResultResponse struct {
	EventID      string                 `json:"event_id"`
	Seed         int64                  `json:"seed"`
	TotalWinners int                    `json:"total_winners"`
	Prizes       []prizeWinnersResponse `json:"prizes"`
}

type resetResultResponse struct {
	EventID        string `json:"event_id"`
	DeletedWinners int64  `json:"deleted_winners"`
	Status         string `json:"status"`
}

func toEventResponse(view lottery.EventView) eventResponse {
	return eventResponse{
		EventID:     view.EventID,
		Term:        view.Term,
		Name:        view.Name,
		Description: view.Description,
		EventDate:   view.EventDate,
		Category:    view.Category,
		Status:      view.Status,
		IsDeleted:   view.IsDeleted,
		DrawSeed:    view.DrawSeed,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
}

func toEventResponses(views []lottery.EventView) []eventResponse {
	items := make([]eventResponse, 0, len(views))
	for _, view := range views {
		items = append(items, toEventResponse(view))
	}
	return items
}

func toPrizeResponses(views []lottery.PrizeView) []prizeResponse {
	items := make([]prizeResponse, 0, len(views))
	for _, view := range views {
		items = append(items, prizeResponse{
			PrizeID:  view.PrizeID,
			Name:     view.Name,
			Quantity: view.Quantity,
			Position: view.Position,
		})
	}
	return items
}

func toSurveyPayload(status *lottery.SurveyStatus) *surveyPayload {
	if status == nil {
		return nil
	}
	return &surveyPayload{
		Required:  status.Required,
		Completed: status.Completed,
		AllDone:   status.AllDone,
		AllValid:  status.AllValid,
	}
}

func toEnrichmentResponse(e *domainlottery.Enrichment) *enrichmentResponse {
	if e == nil {
		return nil
	}
	return &enrichmentResponse{
		Name:       e.Name,
		Department: e.Department,
		Grade:      e.Grade,
		Email:      e.Email,
		NationalID: e.NationalID,
	}
}

func toParticipantResponses(views []lottery.ParticipantView) []participantResponse {
	items := make([]participantResponse, 0, len(views))
	for _, view := range views {
		items = append(items, participantResponse{
			ParticipantID: view.ParticipantID,
			StudentID:     view.StudentID,
			Name:          view.Name,
			Department:    view.Department,
			Grade:         view.Grade,
			Surveys:       toSurveyPayload(view.Surveys),
			Enrichment:    toEnrichmentResponse(view.Enrichment),
			CreatedAt:     view.CreatedAt,
		})
	}
	return items
}

func toEnrollReportResponse(report lottery.EnrollReport) enrollReportResponse {
	skipped := make([]skippedRecordResponse, 0, len(report.Skipped))
	for _, record := range report.Skipped {
		skipped = append(skipped, skippedRecordResponse{
			StudentID: record.StudentID,
			Reasons:   record.Reasons,
		})
	}
	return enrollReportResponse{
		Received: report.Received,
		Inserted: report.Inserted,
		Updated:  report.Updated,
		Eligible: report.Eligible,
		Skipped:  skipped,
	}
}

func toWinnerResponses(views []lottery.WinnerView) []winnerResponse {
	items := make([]winnerResponse, 0, len(views))
	for _, view := range views {
		items = append(items, winnerResponse{
			WinnerID:      view.WinnerID,
			ParticipantID: view.ParticipantID,
			StudentID:     view.StudentID,
			Name:          view.Name,
			Department:    view.Department,
			Grade:         view.Grade,
			Email:         view.Email,
		})
	}
	return items
}

func toPrizeWinnersResponses(groups []lottery.PrizeWinners) []prizeWinnersResponse {
	items := make([]prizeWinnersResponse, 0, len(groups))
	for _, group := range groups {
		items = append(items, prizeWinnersResponse{
			PrizeID:   group.PrizeID,
			PrizeName: group.PrizeName,
			Quantity:  group.Quantity,
			Winners:   toWinnerResponses(group.Winners),
		})
	}
	return items
}

func toDrawResultResponse(result lottery.DrawResult) drawResultResponse {
	return drawResultResponse{
		EventID:      result.EventID,
		Seed:         result.Seed,
		TotalWinners: result.TotalWinners,
		Prizes:       toPrizeWinnersResponses(result.Prizes),
	}
}
