package lottery

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"unidraw/internal/bootstrap/logging"
	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
)

// ResetDraw deletes every winner of the event and reverts its status to
// pending, enabling a fresh draw. The previous winner set is not kept.
func (s *Service) ResetDraw(ctx context.Context, eventID string) (ResetResult, error) {
	if ctx == nil {
		return ResetResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ResetResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return ResetResult{}, errors.New("lottery repository is required")
	}
	if s.uow == nil {
		return ResetResult{}, errors.New("lottery unit of work is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ResetResult{}, errEventIDRequired
	}

	var deleted int64
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.getActiveEvent(txCtx, eventID); err != nil {
			return err
		}

		hasWinners, err := s.repo.HasWinners(txCtx, eventID)
		if err != nil {
			return err
		}
		if !hasWinners {
			return domainlottery.ErrNoWinnersToReset
		}

		deleted, err = s.repo.DeleteWinners(txCtx, eventID)
		if err != nil {
			return err
		}

		return s.repo.MarkEventPending(txCtx, eventID, nowUTCString())
	}); err != nil {
		return ResetResult{}, err
	}

	logging.Info(ctx, "draw reset",
		slog.String("event_id", eventID),
		slog.Int64("deleted_winners", deleted))

	return ResetResult{
		EventID:        eventID,
		DeletedWinners: deleted,
		Status:         domainlottery.StatusPending,
	}, nil
}
