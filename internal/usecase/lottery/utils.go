package lottery

import (
	"context"
	"encoding/json"
	"time"

	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// getActiveEvent resolves an event that is visible to normal operations.
// Soft-deleted events are reported as not found, matching the listing
// default.
func (s *Service) getActiveEvent(ctx context.Context, eventID string) (ports.Event, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return ports.Event{}, err
	}
	if event.IsDeleted {
		return ports.Event{}, ports.ErrEventNotFound
	}
	return event, nil
}

func encodeEnrichment(e *domainlottery.Enrichment) (string, error) {
	if e == nil {
		return "", nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return "", errs.Wrap(err, "encode enrichment")
	}
	return string(raw), nil
}

func decodeEnrichment(raw string) (*domainlottery.Enrichment, error) {
	if raw == "" {
		return nil, nil
	}
	var e domainlottery.Enrichment
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, errs.Wrap(err, "decode enrichment")
	}
	return &e, nil
}

func surveysFromRecord(surveys *SurveyStatus) (required, completed *int, done, valid *bool) {
	if surveys == nil {
		return nil, nil, nil, nil
	}
	r, c := surveys.Required, surveys.Completed
	d, v := surveys.AllDone, surveys.AllValid
	return &r, &c, &d, &v
}

func surveysFromParticipant(p ports.Participant) *SurveyStatus {
	if p.RequiredSurveys == nil && p.CompletedSurveys == nil && p.SurveysCompleted == nil && p.ValidSurveys == nil {
		return nil
	}
	status := &SurveyStatus{}
	if p.RequiredSurveys != nil {
		status.Required = *p.RequiredSurveys
	}
	if p.CompletedSurveys != nil {
		status.Completed = *p.CompletedSurveys
	}
	if p.SurveysCompleted != nil {
		status.AllDone = *p.SurveysCompleted
	}
	if p.ValidSurveys != nil {
		status.AllValid = *p.ValidSurveys
	}
	return status
}

func mapEventView(event ports.Event) EventView {
	return EventView{
		EventID:     event.EventID,
		Term:        event.Term,
		Name:        event.Name,
		Description: event.Description,
		EventDate:   event.EventDate,
		Category:    event.Category,
		Status:      event.Status,
		IsDeleted:   event.IsDeleted,
		DrawSeed:    event.DrawSeed,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

// participantView builds the read model, masking sensitive enrichment
// fields unless the caller is on the authorized export path.
func participantView(p ports.Participant, masked bool) (ParticipantView, error) {
	enrichment, err := decodeEnrichment(p.EnrichmentJSON)
	if err != nil {
		return ParticipantView{}, err
	}
	if enrichment != nil && masked {
		visible := domainlottery.MaskEnrichment(*enrichment)
		enrichment = &visible
	}

	return ParticipantView{
		ParticipantID: p.ParticipantID,
		StudentID:     p.StudentID,
		Name:          p.Name,
		Department:    p.Department,
		Grade:         p.Grade,
		Surveys:       surveysFromParticipant(p),
		Enrichment:    enrichment,
		CreatedAt:     p.CreatedAt,
	}, nil
}
