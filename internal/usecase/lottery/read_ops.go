package lottery

import (
	"context"
	"errors"
	"strings"

	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

// ListEvents returns event summaries. Soft-deleted events are excluded
// unless the filter asks for them; OnlyDeleted surfaces the recycle-bin
// view.
func (s *Service) ListEvents(ctx context.Context, input ListEventsInput) ([]EventView, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("lottery repository is required")
	}

	events, err := s.repo.ListEvents(ctx, ports.EventFilter{
		Category:       strings.TrimSpace(input.Category),
		IncludeDeleted: input.IncludeDeleted,
		OnlyDeleted:    input.OnlyDeleted,
		Limit:          input.Limit,
		Offset:         input.Offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]EventView, 0, len(events))
	for _, event := range events {
		items = append(items, mapEventView(event))
	}
	return items, nil
}

// GetEvent returns one active event.
func (s *Service) GetEvent(ctx context.Context, eventID string) (EventView, error) {
	if ctx == nil {
		return EventView{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return EventView{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return EventView{}, errors.New("lottery repository is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return EventView{}, errEventIDRequired
	}

	event, err := s.getActiveEvent(ctx, eventID)
	if err != nil {
		return EventView{}, err
	}
	return mapEventView(event), nil
}

// ListParticipants returns the event's participants with sensitive
// enrichment fields masked for general display.
func (s *Service) ListParticipants(ctx context.Context, eventID string) ([]ParticipantView, error) {
	return s.listParticipants(ctx, eventID, true)
}

// ExportParticipants is the unmasked variant for the authorized export
// path.
func (s *Service) ExportParticipants(ctx context.Context, eventID string) ([]ParticipantView, error) {
	return s.listParticipants(ctx, eventID, false)
}

func (s *Service) listParticipants(ctx context.Context, eventID string, masked bool) ([]ParticipantView, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("lottery repository is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, errEventIDRequired
	}

	if _, err := s.getActiveEvent(ctx, eventID); err != nil {
		return nil, err
	}

	participants, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	items := make([]ParticipantView, 0, len(participants))
	for _, participant := range participants {
		view, err := participantView(participant, masked)
		if err != nil {
			return nil, err
		}
		items = append(items, view)
	}
	return items, nil
}

// ListWinners returns the drawn winners grouped by prize in configured
// prize order, with enrichment contact fields masked.
func (s *Service) ListWinners(ctx context.Context, eventID string) ([]PrizeWinners, error) {
	return s.listWinners(ctx, eventID, true)
}

// ExportWinners is the unmasked winner list consumed by the notification
// and export paths: display name plus raw contact fields per winner.
func (s *Service) ExportWinners(ctx context.Context, eventID string) ([]PrizeWinners, error) {
	return s.listWinners(ctx, eventID, false)
}

func (s *Service) listWinners(ctx context.Context, eventID string, masked bool) ([]PrizeWinners, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("lottery repository is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, errEventIDRequired
	}

	if _, err := s.getActiveEvent(ctx, eventID); err != nil {
		return nil, err
	}

	details, err := s.repo.ListWinners(ctx, eventID)
	if err != nil {
		return nil, err
	}

	prizes, err := s.repo.ListPrizes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	quantityByPrize := make(map[uint64]int, len(prizes))
	for _, prize := range prizes {
		quantityByPrize[prize.PrizeID] = prize.Quantity
	}

	groups := make([]PrizeWinners, 0, len(prizes))
	indexByPrize := make(map[uint64]int, len(prizes))
	for _, detail := range details {
		idx, ok := indexByPrize[detail.PrizeID]
		if !ok {
			groups = append(groups, PrizeWinners{
				PrizeID:   detail.PrizeID,
				PrizeName: detail.PrizeName,
				Quantity:  quantityByPrize[detail.PrizeID],
			})
			idx = len(groups) - 1
			indexByPrize[detail.PrizeID] = idx
		}

		view, err := winnerView(detail, masked)
		if err != nil {
			return nil, err
		}
		groups[idx].Winners = append(groups[idx].Winners, view)
	}

	return groups, nil
}

func winnerView(detail ports.WinnerDetail, masked bool) (WinnerView, error) {
	participant, err := participantView(detail.Participant, masked)
	if err != nil {
		return WinnerView{}, err
	}

	email := ""
	if participant.Enrichment != nil {
		email = participant.Enrichment.Email
	}

	return WinnerView{
		WinnerID:      detail.WinnerID,
		ParticipantID: detail.Participant.ParticipantID,
		StudentID:     participant.StudentID,
		Name:          participant.Name,
		Department:    participant.Department,
		Grade:         participant.Grade,
		Email:         email,
	}, nil
}
