package lottery

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"unidraw/internal/bootstrap/logging"
	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/errs"
	"unidraw/internal/ports"
)

// Draw performs the one-shot drawing for an event.
//
// Preconditions are checked in order inside one transaction: the event must
// exist and be active, still be pending, have at least one prize, and have
// at least one drawable non-winner participant. The winner writes and the
// pending->drawn flip commit together or not at all; a concurrent second
// draw loses the conditional status update and fails with
// ErrEventAlreadyDrawn.
func (s *Service) Draw(ctx context.Context, eventID string) (DrawResult, error) {
	if ctx == nil {
		return DrawResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return DrawResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return DrawResult{}, errors.New("lottery repository is required")
	}
	if s.uow == nil {
		return DrawResult{}, errors.New("lottery unit of work is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return DrawResult{}, errEventIDRequired
	}

	var result DrawResult
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.getActiveEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		if event.Status != domainlottery.StatusPending {
			return domainlottery.ErrEventAlreadyDrawn
		}

		prizes, err := s.repo.ListPrizes(txCtx, eventID)
		if err != nil {
			return err
		}
		if len(prizes) == 0 {
			return domainlottery.ErrNoPrizes
		}

		pool, err := s.repo.ListNonWinners(txCtx, eventID)
		if err != nil {
			return err
		}
		entrants := make([]domainlottery.Entrant, 0, len(pool))
		participantByID := make(map[uint64]ports.Participant, len(pool))
		for _, participant := range pool {
			entrants = append(entrants, domainlottery.Entrant{
				ParticipantID: participant.ParticipantID,
				Name:          participant.Name,
			})
			participantByID[participant.ParticipantID] = participant
		}
		drawable := domainlottery.DrawablePool(entrants)
		if len(drawable) == 0 {
			return domainlottery.ErrNoEligibleParticipants
		}

		drawPrizes := make([]domainlottery.DrawPrize, 0, len(prizes))
		for _, prize := range prizes {
			drawPrizes = append(drawPrizes, domainlottery.DrawPrize{
				PrizeID:  prize.PrizeID,
				Quantity: prize.Quantity,
			})
		}

		seed := s.drawSeed()
		awards := domainlottery.RunDraw(drawPrizes, drawable, seed)

		now := nowUTCString()
		winners := make([]ports.Winner, 0, len(drawable))
		for _, award := range awards {
			for _, participantID := range award.ParticipantIDs {
				winners = append(winners, ports.Winner{
					EventID:       eventID,
					PrizeID:       award.PrizeID,
					ParticipantID: participantID,
					CreatedAt:     now,
				})
			}
		}
		if err := s.repo.CreateWinners(txCtx, winners); err != nil {
			return err
		}

		flipped, err := s.repo.MarkEventDrawn(txCtx, eventID, seed, now)
		if err != nil {
			return err
		}
		if !flipped {
			return domainlottery.ErrEventAlreadyDrawn
		}

		result, err = drawResult(eventID, seed, prizes, awards, participantByID)
		return err
	}); err != nil {
		return DrawResult{}, err
	}

	logging.Info(ctx, "draw completed",
		slog.String("event_id", eventID),
		slog.Int("winners", result.TotalWinners),
		slog.Int64("seed", result.Seed))

	return result, nil
}

func drawResult(eventID string, seed int64, prizes []ports.Prize, awards []domainlottery.Award, participantByID map[uint64]ports.Participant) (DrawResult, error) {
	prizeByID := make(map[uint64]ports.Prize, len(prizes))
	for _, prize := range prizes {
		prizeByID[prize.PrizeID] = prize
	}

	result := DrawResult{EventID: eventID, Seed: seed}
	for _, award := range awards {
		prize := prizeByID[award.PrizeID]
		group := PrizeWinners{
			PrizeID:   prize.PrizeID,
			PrizeName: prize.Name,
			Quantity:  prize.Quantity,
		}

		for _, participantID := range award.ParticipantIDs {
			participant := participantByID[participantID]
			view, err := participantView(participant, false)
			if err != nil {
				return DrawResult{}, err
			}

			email := ""
			if view.Enrichment != nil {
				email = view.Enrichment.Email
			}
			group.Winners = append(group.Winners, WinnerView{
				ParticipantID: participantID,
				StudentID:     participant.StudentID,
				Name:          participant.Name,
				Department:    participant.Department,
				Grade:         participant.Grade,
				Email:         email,
			})
			result.TotalWinners++
		}

		result.Prizes = append(result.Prizes, group)
	}
	return result, nil
}
