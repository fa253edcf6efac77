package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"unidraw/internal/errs"
	"unidraw/internal/infrastructure/persistence/sqlite/model"
	"unidraw/internal/ports"
)

type LotteryRepository struct {
	db *gorm.DB
}

func NewLotteryRepository(db *gorm.DB) *LotteryRepository {
	return &LotteryRepository{db: db}
}

func (r *LotteryRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *LotteryRepository) CreateEvent(ctx context.Context, event ports.Event) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	row := model.Event{
		EventID:     event.EventID,
		Term:        event.Term,
		Name:        event.Name,
		Description: event.Description,
		EventDate:   event.EventDate,
		Category:    event.Category,
		Status:      event.Status,
		IsDeleted:   event.IsDeleted,
		DeletedAt:   event.DeletedAt,
		DrawSeed:    event.DrawSeed,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Event{}, errs.Wrap(err, "insert event")
	}
	return mapEvent(row), nil
}

func (r *LotteryRepository) GetEvent(ctx context.Context, eventID string) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	var row model.Event
	if err := db.Where("event_id = ?", eventID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Event{}, ports.ErrEventNotFound
		}
		return ports.Event{}, errs.Wrap(err, "query event")
	}
	return mapEvent(row), nil
}

func (r *LotteryRepository) ListEvents(ctx context.Context, filter ports.EventFilter) ([]ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Event{})
	switch {
	case filter.OnlyDeleted:
		query = query.Where("is_deleted = ?", true)
	case !filter.IncludeDeleted:
		query = query.Where("is_deleted = ?", false)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []model.Event
	if err := query.Order("created_at desc, event_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query events")
	}

	items := make([]ports.Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapEvent(row))
	}
	return items, nil
}

func (r *LotteryRepository) UpdateEventFields(ctx context.Context, eventID string, update ports.EventUpdate, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	fields := map[string]any{"updated_at": updatedAt}
	if update.Term != nil {
		fields["term"] = *update.Term
	}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.EventDate != nil {
		fields["event_date"] = *update.EventDate
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}

	res := db.Model(&model.Event{}).Where("event_id = ?", eventID).Updates(fields)
	if res.Error != nil {
		return errs.Wrap(res.Error, "update event")
	}
	if res.RowsAffected == 0 {
		return ports.ErrEventNotFound
	}
	return nil
}

func (r *LotteryRepository) SetEventDeleted(ctx context.Context, eventID string, deleted bool, at string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	fields := map[string]any{
		"is_deleted": deleted,
		"updated_at": at,
	}
	if deleted {
		fields["deleted_at"] = at
	} else {
		fields["deleted_at"] = nil
	}

	res := db.Model(&model.Event{}).Where("event_id = ?", eventID).Updates(fields)
	if res.Error != nil {
		return errs.Wrap(res.Error, "update event soft-delete flag")
	}
	if res.RowsAffected == 0 {
		return ports.ErrEventNotFound
	}
	return nil
}

// MarkEventDrawn is the conditional pending->drawn flip. Of two concurrent
// draws only one caller sees RowsAffected > 0; the loser reads the event
// already in drawn status.
func (r *LotteryRepository) MarkEventDrawn(ctx context.Context, eventID string, seed int64, at string) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	res := db.Model(&model.Event{}).
		Where("event_id = ? AND status = ?", eventID, "pending").
		Updates(map[string]any{
			"status":     "drawn",
			"draw_seed":  seed,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, errs.Wrap(res.Error, "mark event drawn")
	}
	return res.RowsAffected > 0, nil
}

func (r *LotteryRepository) MarkEventPending(ctx context.Context, eventID string, at string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	res := db.Model(&model.Event{}).
		Where("event_id = ?", eventID).
		Updates(map[string]any{
			"status":     "pending",
			"draw_seed":  nil,
			"updated_at": at,
		})
	if res.Error != nil {
		return errs.Wrap(res.Error, "mark event pending")
	}
	if res.RowsAffected == 0 {
		return ports.ErrEventNotFound
	}
	return nil
}

func (r *LotteryRepository) ListParticipants(ctx context.Context, eventID string) ([]ports.Participant, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Participant
	if err := db.
		Where("event_id = ?", eventID).
		Order("participant_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query participants")
	}
	return mapParticipants(rows), nil
}

func (r *LotteryRepository) FindParticipantsByStudentIDs(ctx context.Context, eventID string, studentIDs []string) ([]ports.Participant, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return nil, nil
	}

	var rows []model.Participant
	if err := db.
		Where("event_id = ? AND student_id IN ?", eventID, studentIDs).
		Order("participant_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query participants by student id")
	}
	return mapParticipants(rows), nil
}

func (r *LotteryRepository) GetParticipant(ctx context.Context, participantID uint64) (ports.Participant, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Participant{}, err
	}

	var row model.Participant
	if err := db.Where("participant_id = ?", participantID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Participant{}, ports.ErrParticipantNotFound
		}
		return ports.Participant{}, errs.Wrap(err, "query participant")
	}
	return mapParticipant(row), nil
}

func (r *LotteryRepository) InsertParticipant(ctx context.Context, participant ports.Participant) (ports.Participant, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Participant{}, err
	}

	row := participantRow(participant)
	if err := db.Create(&row).Error; err != nil {
		return ports.Participant{}, errs.Wrap(err, "insert participant")
	}
	return mapParticipant(row), nil
}

func (r *LotteryRepository) ReplaceParticipantPayload(ctx context.Context, participantID uint64, participant ports.Participant) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	res := db.Model(&model.Participant{}).
		Where("participant_id = ?", participantID).
		Updates(map[string]any{
			"name":              participant.Name,
			"department":        participant.Department,
			"grade":             participant.Grade,
			"required_surveys":  participant.RequiredSurveys,
			"completed_surveys": participant.CompletedSurveys,
			"surveys_completed": participant.SurveysCompleted,
			"valid_surveys":     participant.ValidSurveys,
			"enrichment":        participant.EnrichmentJSON,
			"updated_at":        participant.UpdatedAt,
		})
	if res.Error != nil {
		return errs.Wrap(res.Error, "replace participant payload")
	}
	if res.RowsAffected == 0 {
		return ports.ErrParticipantNotFound
	}
	return nil
}

func (r *LotteryRepository) DeleteParticipant(ctx context.Context, participantID uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	res := db.Where("participant_id = ?", participantID).Delete(&model.Participant{})
	if res.Error != nil {
		return errs.Wrap(res.Error, "delete participant")
	}
	if res.RowsAffected == 0 {
		return ports.ErrParticipantNotFound
	}
	return nil
}

func (r *LotteryRepository) DeleteAllParticipants(ctx context.Context, eventID string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	res := db.Where("event_id = ?", eventID).Delete(&model.Participant{})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "delete participants")
	}
	return res.RowsAffected, nil
}

func (r *LotteryRepository) ListNonWinners(ctx context.Context, eventID string) ([]ports.Participant, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sub := db.Model(&model.Winner{}).
		Select("participant_id").
		Where("event_id = ?", eventID)

	var rows []model.Participant
	if err := db.
		Where("event_id = ?", eventID).
		Where("participant_id NOT IN (?)", sub).
		Order("participant_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query non-winner participants")
	}
	return mapParticipants(rows), nil
}

func (r *LotteryRepository) ReplacePrizes(ctx context.Context, eventID string, prizes []ports.Prize) ([]ports.Prize, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := db.Where("event_id = ?", eventID).Delete(&model.Prize{}).Error; err != nil {
		return nil, errs.Wrap(err, "delete existing prizes")
	}

	items := make([]ports.Prize, 0, len(prizes))
	for i, prize := range prizes {
		row := model.Prize{
			EventID:   eventID,
			Name:      prize.Name,
			Quantity:  prize.Quantity,
			Position:  i + 1,
			CreatedAt: prize.CreatedAt,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, errs.Wrap(err, "insert prize")
		}
		items = append(items, mapPrize(row))
	}
	return items, nil
}

func (r *LotteryRepository) ListPrizes(ctx context.Context, eventID string) ([]ports.Prize, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Prize
	if err := db.
		Where("event_id = ?", eventID).
		Order("position asc, prize_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query prizes")
	}

	items := make([]ports.Prize, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapPrize(row))
	}
	return items, nil
}

func (r *LotteryRepository) CreateWinners(ctx context.Context, winners []ports.Winner) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	for _, winner := range winners {
		row := model.Winner{
			EventID:       winner.EventID,
			PrizeID:       winner.PrizeID,
			ParticipantID: winner.ParticipantID,
			CreatedAt:     winner.CreatedAt,
		}
		if err := db.Create(&row).Error; err != nil {
			return errs.Wrap(err, "insert winner")
		}
	}
	return nil
}

func (r *LotteryRepository) ListWinners(ctx context.Context, eventID string) ([]ports.WinnerDetail, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var winnerRows []model.Winner
	if err := db.
		Where("event_id = ?", eventID).
		Order("winner_id asc").
		Find(&winnerRows).Error; err != nil {
		return nil, errs.Wrap(err, "query winners")
	}
	if len(winnerRows) == 0 {
		return nil, nil
	}

	prizes, err := r.ListPrizes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	prizeByID := make(map[uint64]ports.Prize, len(prizes))
	for _, prize := range prizes {
		prizeByID[prize.PrizeID] = prize
	}

	participantIDs := make([]uint64, 0, len(winnerRows))
	for _, row := range winnerRows {
		participantIDs = append(participantIDs, row.ParticipantID)
	}

	var participantRows []model.Participant
	if err := db.
		Where("participant_id IN ?", participantIDs).
		Find(&participantRows).Error; err != nil {
		return nil, errs.Wrap(err, "query winner participants")
	}
	participantByID := make(map[uint64]ports.Participant, len(participantRows))
	for _, row := range participantRows {
		participantByID[row.ParticipantID] = mapParticipant(row)
	}

	items := make([]ports.WinnerDetail, 0, len(winnerRows))
	for _, row := range winnerRows {
		prize := prizeByID[row.PrizeID]
		items = append(items, ports.WinnerDetail{
			WinnerID:      row.WinnerID,
			PrizeID:       row.PrizeID,
			PrizeName:     prize.Name,
			PrizePosition: prize.Position,
			Participant:   participantByID[row.ParticipantID],
			CreatedAt:     row.CreatedAt,
		})
	}

	// Winner rows come back in insertion order; present them grouped by the
	// configured prize order instead.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PrizePosition != items[j].PrizePosition {
			return items[i].PrizePosition < items[j].PrizePosition
		}
		return items[i].WinnerID < items[j].WinnerID
	})

	return items, nil
}

func (r *LotteryRepository) HasWinners(ctx context.Context, eventID string) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.Winner{}).
		Where("event_id = ?", eventID).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "count winners")
	}
	return count > 0, nil
}

func (r *LotteryRepository) DeleteWinners(ctx context.Context, eventID string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	res := db.Where("event_id = ?", eventID).Delete(&model.Winner{})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "delete winners")
	}
	return res.RowsAffected, nil
}

func mapEvent(row model.Event) ports.Event {
	return ports.Event{
		EventID:     row.EventID,
		Term:        row.Term,
		Name:        row.Name,
		Description: row.Description,
		EventDate:   row.EventDate,
		Category:    row.Category,
		Status:      row.Status,
		IsDeleted:   row.IsDeleted,
		DeletedAt:   row.DeletedAt,
		DrawSeed:    row.DrawSeed,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapParticipant(row model.Participant) ports.Participant {
	return ports.Participant{
		ParticipantID:    row.ParticipantID,
		EventID:          row.EventID,
		StudentID:        row.StudentID,
		Name:             row.Name,
		Department:       row.Department,
		Grade:            row.Grade,
		RequiredSurveys:  row.RequiredSurveys,
		CompletedSurveys: row.CompletedSurveys,
		SurveysCompleted: row.SurveysCompleted,
		ValidSurveys:     row.ValidSurveys,
		EnrichmentJSON:   row.Enrichment,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func mapParticipants(rows []model.Participant) []ports.Participant {
	items := make([]ports.Participant, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapParticipant(row))
	}
	return items
}

func participantRow(p ports.Participant) model.Participant {
	return model.Participant{
		ParticipantID:    p.ParticipantID,
		EventID:          p.EventID,
		StudentID:        p.StudentID,
		Name:             p.Name,
		Department:       p.Department,
		Grade:            p.Grade,
		RequiredSurveys:  p.RequiredSurveys,
		CompletedSurveys: p.CompletedSurveys,
		SurveysCompleted: p.SurveysCompleted,
		ValidSurveys:     p.ValidSurveys,
		Enrichment:       p.EnrichmentJSON,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func mapPrize(row model.Prize) ports.Prize {
	return ports.Prize{
		PrizeID:   row.PrizeID,
		EventID:   row.EventID,
		Name:      row.Name,
		Quantity:  row.Quantity,
		Position:  row.Position,
		CreatedAt: row.CreatedAt,
	}
}
