package lottery

import (
	"context"
	"errors"
	"strings"

	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

// UpdateEvent mutates descriptive fields of a pending event. Drawn events
// reject updates until they are reset.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, input UpdateEventInput) (EventView, error) {
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

	update := ports.EventUpdate{}
	hasField := false
	if input.Term != nil {
		trimmed := strings.TrimSpace(*input.Term)
		if trimmed == "" {
			return EventView{}, errTermRequired
		}
		update.Term = &trimmed
		hasField = true
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return EventView{}, errEventNameRequired
		}
		update.Name = &trimmed
		hasField = true
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		update.Description = &trimmed
		hasField = true
	}
	if input.EventDate != nil {
		trimmed := strings.TrimSpace(*input.EventDate)
		update.EventDate = &trimmed
		hasField = true
	}
	if input.Category != nil {
		category, err := domainlottery.NormalizeCategory(*input.Category)
		if err != nil {
			return EventView{}, err
		}
		update.Category = &category
		hasField = true
	}
	if !hasField {
		return EventView{}, errNoUpdatableFields
	}

	if s.uow == nil {
		return EventView{}, errors.New("lottery unit of work is required")
	}

	var updated ports.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.getActiveEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		if event.Status != domainlottery.StatusPending {
			return domainlottery.ErrEventAlreadyDrawn
		}

		if err := s.repo.UpdateEventFields(txCtx, eventID, update, nowUTCString()); err != nil {
			return err
		}

		updated, err = s.repo.GetEvent(txCtx, eventID)
		return err
	}); err != nil {
		return EventView{}, err
	}

	return mapEventView(updated), nil
}

// SoftDeleteEvent hides an event from default listings without destroying
// its participants, prizes, or winners.
func (s *Service) SoftDeleteEvent(ctx context.Context, eventID string) error {
	return s.setDeleted(ctx, eventID, true)
}

// RestoreEvent clears the soft-delete flag.
func (s *Service) RestoreEvent(ctx context.Context, eventID string) error {
	return s.setDeleted(ctx, eventID, false)
}

func (s *Service) setDeleted(ctx context.Context, eventID string, deleted bool) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("lottery repository is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return errEventIDRequired
	}

	// Resolve first so that deleting twice or restoring a live event is a
	// visible no-op rather than an error.
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return err
	}

	return s.repo.SetEventDeleted(ctx, eventID, deleted, nowUTCString())
}
