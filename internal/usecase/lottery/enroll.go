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

// EnrollParticipants runs the enrollment pipeline for one batch:
// identifier extraction, best-effort registry enrichment, pre-persistence
// eligibility classification, then insert-or-merge keyed by student id.
//
// Bad records are skipped with a reason and reported back; they never fail
// the batch. A registry outage degrades to enrollment without enrichment.
func (s *Service) EnrollParticipants(ctx context.Context, input EnrollInput) (EnrollReport, error) {
	if ctx == nil {
		return EnrollReport{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return EnrollReport{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return EnrollReport{}, errors.New("lottery repository is required")
	}
	if s.uow == nil {
		return EnrollReport{}, errors.New("lottery unit of work is required")
	}

	eventID := strings.TrimSpace(input.EventID)
	if eventID == "" {
		return EnrollReport{}, errEventIDRequired
	}
	if len(input.Records) == 0 {
		return EnrollReport{}, errNoRecords
	}

	event, err := s.getActiveEvent(ctx, eventID)
	if err != nil {
		return EnrollReport{}, err
	}
	if event.Status != domainlottery.StatusPending {
		return EnrollReport{}, domainlottery.ErrEventAlreadyDrawn
	}

	report := EnrollReport{Received: len(input.Records)}

	// Records without a student id cannot be merged and are dropped here;
	// a repeated id within one batch keeps only the last occurrence.
	accepted := make([]ImportRecord, 0, len(input.Records))
	indexByID := make(map[string]int, len(input.Records))
	for _, record := range input.Records {
		id := strings.TrimSpace(record.StudentID)
		if id == "" {
			report.Skipped = append(report.Skipped, SkippedRecord{
				Reasons: []string{"missing student id"},
			})
			continue
		}
		record.StudentID = id

		if idx, ok := indexByID[id]; ok {
			accepted[idx] = record
			report.Skipped = append(report.Skipped, SkippedRecord{
				StudentID: id,
				Reasons:   []string{"superseded by later record in batch"},
			})
			continue
		}
		indexByID[id] = len(accepted)
		accepted = append(accepted, record)
	}

	enrichmentByID := s.lookupEnrichment(ctx, event.Category, accepted)

	survivors := make([]ImportRecord, 0, len(accepted))
	for _, record := range accepted {
		decision := domainlottery.Classify(toDomainRecord(record), event.Category)
		if !decision.Eligible {
			report.Skipped = append(report.Skipped, SkippedRecord{
				StudentID: record.StudentID,
				Reasons:   decision.Reasons,
			})
			continue
		}
		survivors = append(survivors, record)
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		ids := make([]string, 0, len(survivors))
		for _, record := range survivors {
			ids = append(ids, record.StudentID)
		}

		existing, err := s.repo.FindParticipantsByStudentIDs(txCtx, eventID, ids)
		if err != nil {
			return err
		}
		existingByID := make(map[string]ports.Participant, len(existing))
		for _, participant := range existing {
			existingByID[participant.StudentID] = participant
		}

		now := nowUTCString()
		for _, record := range survivors {
			row, err := participantRowFromRecord(eventID, record, enrichmentByID, now)
			if err != nil {
				return err
			}

			if current, ok := existingByID[record.StudentID]; ok {
				if err := s.repo.ReplaceParticipantPayload(txCtx, current.ParticipantID, row); err != nil {
					return err
				}
				report.Updated++
				continue
			}

			if _, err := s.repo.InsertParticipant(txCtx, row); err != nil {
				return err
			}
			report.Inserted++
		}
		return nil
	}); err != nil {
		return EnrollReport{}, err
	}

	report.Eligible = report.Inserted + report.Updated
	return report, nil
}

// lookupEnrichment queries the student registry for general events. Any
// failure degrades to a nil map: registry availability must never decide
// whether an enrollment batch goes through.
func (s *Service) lookupEnrichment(ctx context.Context, category string, records []ImportRecord) map[string]ports.RegistryRecord {
	if !domainlottery.UsesRegistryEnrichment(category) || s.registry == nil || len(records) == 0 {
		return nil
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.StudentID)
	}

	found, err := s.registry.LookupBatch(ctx, ids)
	if err != nil {
		if errors.Is(err, ports.ErrRegistryUnavailable) {
			logging.Warn(ctx, "student registry unavailable, enrolling without enrichment",
				slog.Int("batch_size", len(ids)))
		} else {
			logging.Warn(ctx, "student registry lookup failed, enrolling without enrichment",
				slog.Int("batch_size", len(ids)), slog.Any("err", errs.Loggable(err)))
		}
		return nil
	}
	return found
}

func toDomainRecord(record ImportRecord) domainlottery.ImportRecord {
	out := domainlottery.ImportRecord{
		StudentID:  record.StudentID,
		Name:       record.Name,
		Department: record.Department,
		Grade:      record.Grade,
	}
	if record.Surveys != nil {
		out.Surveys = &domainlottery.SurveyReport{
			Required:  record.Surveys.Required,
			Completed: record.Surveys.Completed,
			AllDone:   record.Surveys.AllDone,
			AllValid:  record.Surveys.AllValid,
		}
	}
	return out
}

func participantRowFromRecord(eventID string, record ImportRecord, enrichmentByID map[string]ports.RegistryRecord, now string) (ports.Participant, error) {
	required, completed, done, valid := surveysFromRecord(record.Surveys)

	enrichmentJSON := ""
	if registryRecord, ok := enrichmentByID[record.StudentID]; ok {
		encoded, err := encodeEnrichment(&domainlottery.Enrichment{
			Name:       registryRecord.Name,
			Department: registryRecord.Department,
			Grade:      registryRecord.Grade,
			Email:      registryRecord.Email,
			NationalID: registryRecord.NationalID,
		})
		if err != nil {
			return ports.Participant{}, err
		}
		enrichmentJSON = encoded
	}

	return ports.Participant{
		EventID:          eventID,
		StudentID:        record.StudentID,
		Name:             strings.TrimSpace(record.Name),
		Department:       strings.TrimSpace(record.Department),
		Grade:            strings.TrimSpace(record.Grade),
		RequiredSurveys:  required,
		CompletedSurveys: completed,
		SurveysCompleted: done,
		ValidSurveys:     valid,
		EnrichmentJSON:   enrichmentJSON,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// DeleteParticipant removes one participant. Events with recorded winners
// lock their ledger; reset the drawing first.
func (s *Service) DeleteParticipant(ctx context.Context, participantID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("lottery repository is required")
	}
	if s.uow == nil {
		return errors.New("lottery unit of work is required")
	}

	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		participant, err := s.repo.GetParticipant(txCtx, participantID)
		if err != nil {
			return err
		}
		if _, err := s.getActiveEvent(txCtx, participant.EventID); err != nil {
			return err
		}

		hasWinners, err := s.repo.HasWinners(txCtx, participant.EventID)
		if err != nil {
			return err
		}
		if hasWinners {
			return domainlottery.ErrParticipantsLocked
		}

		return s.repo.DeleteParticipant(txCtx, participantID)
	})
}

// DeleteAllParticipants clears the event's ledger under the same lock rule.
func (s *Service) DeleteAllParticipants(ctx context.Context, eventID string) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return 0, errors.New("lottery repository is required")
	}
	if s.uow == nil {
		return 0, errors.New("lottery unit of work is required")
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return 0, errEventIDRequired
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
		if hasWinners {
			return domainlottery.ErrParticipantsLocked
		}

		deleted, err = s.repo.DeleteAllParticipants(txCtx, eventID)
		return err
	}); err != nil {
		return 0, err
	}
	return deleted, nil
}
