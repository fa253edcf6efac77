package lottery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

// SetPrizes replaces the full prize list of an event. There is no
// incremental add or remove; the given list becomes the configuration, in
// the given order.
func (s *Service) SetPrizes(ctx context.Context, eventID string, prizes []PrizeInput) ([]PrizeView, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("lottery repository is required")
	}
	if s.uow == nil {
		return nil, errors.New("lottery unit of work is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, errEventIDRequired
	}
	if len(prizes) == 0 {
		return nil, errNoPrizesGiven
	}

	now := nowUTCString()
	rows := make([]ports.Prize, 0, len(prizes))
	for i, prize := range prizes {
		name := strings.TrimSpace(prize.Name)
		if name == "" {
			return nil, fmt.Errorf("prize %d: %w", i+1, errPrizeNameRequired)
		}
		if prize.Quantity <= 0 {
			return nil, fmt.Errorf("prize %q: %w", name, domainlottery.ErrInvalidQuantity)
		}
		rows = append(rows, ports.Prize{
			Name:      name,
			Quantity:  prize.Quantity,
			CreatedAt: now,
		})
	}

	var replaced []ports.Prize
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.getActiveEvent(txCtx, eventID); err != nil {
			return err
		}

		var err error
		replaced, err = s.repo.ReplacePrizes(txCtx, eventID, rows)
		return err
	}); err != nil {
		return nil, err
	}

	return mapPrizeViews(replaced), nil
}

// ListPrizes returns the event's configured prizes in processing order.
func (s *Service) ListPrizes(ctx context.Context, eventID string) ([]PrizeView, error) {
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

	prizes, err := s.repo.ListPrizes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return mapPrizeViews(prizes), nil
}

func mapPrizeViews(prizes []ports.Prize) []PrizeView {
	items := make([]PrizeView, 0, len(prizes))
	for _, prize := range prizes {
		items = append(items, PrizeView{
			PrizeID:  prize.PrizeID,
			Name:     prize.Name,
			Quantity: prize.Quantity,
			Position: prize.Position,
		})
	}
	return items
}
