package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"unidraw/internal/infrastructure/persistence/sqlite/model"
	"unidraw/internal/ports"
)

func setupLotteryRepository(t *testing.T) *LotteryRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "lottery.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Event{}, &model.Participant{}, &model.Prize{}, &model.Winner{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewLotteryRepository(db)
}

func seedEvent(t *testing.T, repo *LotteryRepository, eventID string) ports.Event {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	event, err := repo.CreateEvent(context.Background(), ports.Event{
		EventID:   eventID,
		Term:      "2026-spring",
		Name:      "spring draw",
		Category:  "general",
		Status:    "pending",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func seedParticipant(t *testing.T, repo *LotteryRepository, eventID, studentID, name string) ports.Participant {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	participant, err := repo.InsertParticipant(context.Background(), ports.Participant{
		EventID:   eventID,
		StudentID: studentID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("insert participant %s: %v", studentID, err)
	}
	return participant
}

func TestGetEventNotFound(t *testing.T) {
	repo := setupLotteryRepository(t)

	if _, err := repo.GetEvent(context.Background(), "missing"); err != ports.ErrEventNotFound {
		t.Fatalf("GetEvent() error = %v, want %v", err, ports.ErrEventNotFound)
	}
}

func TestListEventsExcludesDeletedByDefault(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")
	seedEvent(t, repo, "e2")
	if err := repo.SetEventDeleted(ctx, "e2", true, now); err != nil {
		t.Fatalf("soft-delete event: %v", err)
	}

	items, err := repo.ListEvents(ctx, ports.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(items) != 1 || items[0].EventID != "e1" {
		t.Fatalf("ListEvents() = %v, want only e1", items)
	}

	deleted, err := repo.ListEvents(ctx, ports.EventFilter{OnlyDeleted: true})
	if err != nil {
		t.Fatalf("ListEvents(only deleted) error = %v", err)
	}
	if len(deleted) != 1 || deleted[0].EventID != "e2" {
		t.Fatalf("ListEvents(only deleted) = %v, want only e2", deleted)
	}
	if deleted[0].DeletedAt == nil {
		t.Fatalf("deleted event has no deleted_at")
	}

	all, err := repo.ListEvents(ctx, ports.EventFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("ListEvents(include deleted) error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListEvents(include deleted) len = %d, want 2", len(all))
	}
}

func TestMarkEventDrawnFlipsOnlyOnce(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")

	flipped, err := repo.MarkEventDrawn(ctx, "e1", 42, now)
	if err != nil {
		t.Fatalf("MarkEventDrawn() error = %v", err)
	}
	if !flipped {
		t.Fatalf("MarkEventDrawn() flipped = false on pending event")
	}

	again, err := repo.MarkEventDrawn(ctx, "e1", 43, now)
	if err != nil {
		t.Fatalf("MarkEventDrawn() second call error = %v", err)
	}
	if again {
		t.Fatalf("MarkEventDrawn() flipped = true on already-drawn event")
	}

	event, err := repo.GetEvent(ctx, "e1")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if event.Status != "drawn" {
		t.Fatalf("event status = %q, want drawn", event.Status)
	}
	if event.DrawSeed == nil || *event.DrawSeed != 42 {
		t.Fatalf("event draw seed = %v, want 42 from the winning flip", event.DrawSeed)
	}
}

func TestMarkEventPendingClearsSeed(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")
	if _, err := repo.MarkEventDrawn(ctx, "e1", 42, now); err != nil {
		t.Fatalf("MarkEventDrawn() error = %v", err)
	}

	if err := repo.MarkEventPending(ctx, "e1", now); err != nil {
		t.Fatalf("MarkEventPending() error = %v", err)
	}

	event, err := repo.GetEvent(ctx, "e1")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if event.Status != "pending" {
		t.Fatalf("event status = %q, want pending", event.Status)
	}
	if event.DrawSeed != nil {
		t.Fatalf("event draw seed = %v, want cleared", *event.DrawSeed)
	}
}

func TestReplaceParticipantPayloadKeepsIdentity(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")
	original := seedParticipant(t, repo, "e1", "s1", "Alice")

	if err := repo.ReplaceParticipantPayload(ctx, original.ParticipantID, ports.Participant{
		Name:       "Alice Chen",
		Department: "CS",
		Grade:      "3",
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("ReplaceParticipantPayload() error = %v", err)
	}

	updated, err := repo.GetParticipant(ctx, original.ParticipantID)
	if err != nil {
		t.Fatalf("GetParticipant() error = %v", err)
	}
	if updated.StudentID != "s1" || updated.EventID != "e1" {
		t.Fatalf("replace touched identity columns: %+v", updated)
	}
	if updated.Name != "Alice Chen" || updated.Department != "CS" {
		t.Fatalf("replace did not apply payload: %+v", updated)
	}

	rows, err := repo.ListParticipants(ctx, "e1")
	if err != nil {
		t.Fatalf("ListParticipants() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListParticipants() len = %d, want 1 row after replace", len(rows))
	}
}

func TestFindParticipantsByStudentIDs(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()

	seedEvent(t, repo, "e1")
	seedEvent(t, repo, "e2")
	seedParticipant(t, repo, "e1", "s1", "Alice")
	seedParticipant(t, repo, "e1", "s2", "Bob")
	seedParticipant(t, repo, "e2", "s1", "Alice")

	rows, err := repo.FindParticipantsByStudentIDs(ctx, "e1", []string{"s1", "s9"})
	if err != nil {
		t.Fatalf("FindParticipantsByStudentIDs() error = %v", err)
	}
	if len(rows) != 1 || rows[0].StudentID != "s1" || rows[0].EventID != "e1" {
		t.Fatalf("FindParticipantsByStudentIDs() = %v", rows)
	}

	none, err := repo.FindParticipantsByStudentIDs(ctx, "e1", nil)
	if err != nil {
		t.Fatalf("FindParticipantsByStudentIDs(empty) error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("FindParticipantsByStudentIDs(empty) = %v, want none", none)
	}
}

func TestListNonWinnersExcludesWinnerRows(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")
	p1 := seedParticipant(t, repo, "e1", "s1", "Alice")
	p2 := seedParticipant(t, repo, "e1", "s2", "Bob")
	p3 := seedParticipant(t, repo, "e1", "s3", "Carol")

	prizes, err := repo.ReplacePrizes(ctx, "e1", []ports.Prize{{Name: "grand", Quantity: 1, CreatedAt: now}})
	if err != nil {
		t.Fatalf("ReplacePrizes() error = %v", err)
	}
	if err := repo.CreateWinners(ctx, []ports.Winner{{
		EventID:       "e1",
		PrizeID:       prizes[0].PrizeID,
		ParticipantID: p2.ParticipantID,
		CreatedAt:     now,
	}}); err != nil {
		t.Fatalf("CreateWinners() error = %v", err)
	}

	rows, err := repo.ListNonWinners(ctx, "e1")
	if err != nil {
		t.Fatalf("ListNonWinners() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListNonWinners() len = %d, want 2", len(rows))
	}
	if rows[0].ParticipantID != p1.ParticipantID || rows[1].ParticipantID != p3.ParticipantID {
		t.Fatalf("ListNonWinners() = %v", rows)
	}
}

func TestReplacePrizesAssignsPositions(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")

	if _, err := repo.ReplacePrizes(ctx, "e1", []ports.Prize{
		{Name: "old-a", Quantity: 1, CreatedAt: now},
		{Name: "old-b", Quantity: 1, CreatedAt: now},
	}); err != nil {
		t.Fatalf("ReplacePrizes() first error = %v", err)
	}

	replaced, err := repo.ReplacePrizes(ctx, "e1", []ports.Prize{
		{Name: "grand", Quantity: 1, CreatedAt: now},
		{Name: "second", Quantity: 3, CreatedAt: now},
		{Name: "third", Quantity: 5, CreatedAt: now},
	})
	if err != nil {
		t.Fatalf("ReplacePrizes() second error = %v", err)
	}
	if len(replaced) != 3 {
		t.Fatalf("ReplacePrizes() len = %d, want 3", len(replaced))
	}
	for i, prize := range replaced {
		if prize.Position != i+1 {
			t.Fatalf("prize %q position = %d, want %d", prize.Name, prize.Position, i+1)
		}
	}

	listed, err := repo.ListPrizes(ctx, "e1")
	if err != nil {
		t.Fatalf("ListPrizes() error = %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("ListPrizes() len = %d after replace, want 3", len(listed))
	}
	if listed[0].Name != "grand" || listed[2].Name != "third" {
		t.Fatalf("ListPrizes() order = %v", listed)
	}
}

func TestListWinnersGroupsByPrizePosition(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")
	p1 := seedParticipant(t, repo, "e1", "s1", "Alice")
	p2 := seedParticipant(t, repo, "e1", "s2", "Bob")

	prizes, err := repo.ReplacePrizes(ctx, "e1", []ports.Prize{
		{Name: "grand", Quantity: 1, CreatedAt: now},
		{Name: "second", Quantity: 1, CreatedAt: now},
	})
	if err != nil {
		t.Fatalf("ReplacePrizes() error = %v", err)
	}

	// Insert in reverse prize order; the listing must come back by position.
	if err := repo.CreateWinners(ctx, []ports.Winner{
		{EventID: "e1", PrizeID: prizes[1].PrizeID, ParticipantID: p2.ParticipantID, CreatedAt: now},
		{EventID: "e1", PrizeID: prizes[0].PrizeID, ParticipantID: p1.ParticipantID, CreatedAt: now},
	}); err != nil {
		t.Fatalf("CreateWinners() error = %v", err)
	}

	details, err := repo.ListWinners(ctx, "e1")
	if err != nil {
		t.Fatalf("ListWinners() error = %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("ListWinners() len = %d, want 2", len(details))
	}
	if details[0].PrizeName != "grand" || details[0].Participant.StudentID != "s1" {
		t.Fatalf("ListWinners()[0] = %+v, want grand/s1 first", details[0])
	}
	if details[1].PrizeName != "second" || details[1].Participant.StudentID != "s2" {
		t.Fatalf("ListWinners()[1] = %+v, want second/s2", details[1])
	}
}

func TestDeleteWinnersAndHasWinners(t *testing.T) {
	repo := setupLotteryRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seedEvent(t, repo, "e1")
	p1 := seedParticipant(t, repo, "e1", "s1", "Alice")
	prizes, err := repo.ReplacePrizes(ctx, "e1", []ports.Prize{{Name: "grand", Quantity: 1, CreatedAt: now}})
	if err != nil {
		t.Fatalf("ReplacePrizes() error = %v", err)
	}

	has, err := repo.HasWinners(ctx, "e1")
	if err != nil {
		t.Fatalf("HasWinners() error = %v", err)
	}
	if has {
		t.Fatalf("HasWinners() = true before any draw")
	}

	if err := repo.CreateWinners(ctx, []ports.Winner{{
		EventID:       "e1",
		PrizeID:       prizes[0].PrizeID,
		ParticipantID: p1.ParticipantID,
		CreatedAt:     now,
	}}); err != nil {
		t.Fatalf("CreateWinners() error = %v", err)
	}

	has, err = repo.HasWinners(ctx, "e1")
	if err != nil {
		t.Fatalf("HasWinners() error = %v", err)
	}
	if !has {
		t.Fatalf("HasWinners() = false after insert")
	}

	deleted, err := repo.DeleteWinners(ctx, "e1")
	if err != nil {
		t.Fatalf("DeleteWinners() error = %v", err)
	}
	if deleted != 1 {
		t.Fatalf("DeleteWinners() = %d, want 1", deleted)
	}
}
