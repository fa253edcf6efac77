package lottery

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

// CreateEvent creates a new lottery event in pending status.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (EventView, error) {
	if ctx == nil {
		return EventView{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return EventView{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return EventView{}, errors.New("lottery repository is required")
	}

	term := strings.TrimSpace(input.Term)
	if term == "" {
		return EventView{}, errTermRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return EventView{}, errEventNameRequired
	}

	category, err := domainlottery.NormalizeCategory(input.Category)
	if err != nil {
		return EventView{}, err
	}

	now := nowUTCString()
	created, err := s.repo.CreateEvent(ctx, ports.Event{
		EventID:     uuid.NewString(),
		Term:        term,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		EventDate:   strings.TrimSpace(input.EventDate),
		Category:    category,
		Status:      domainlottery.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return EventView{}, err
	}

	return mapEventView(created), nil
}
