package ports

import (
	"context"
	"errors"
)

var (
	ErrEventNotFound       = errors.New("lottery event not found")
	ErrParticipantNotFound = errors.New("lottery participant not found")
)

type EventFilter struct {
	Category       string
	IncludeDeleted bool
	OnlyDeleted    bool
	Limit          int
	Offset         int
}

type Event struct {
	EventID     string
	Term        string
	Name        string
	Description string
	EventDate   string
	Category    string
	Status      string
	IsDeleted   bool
	DeletedAt   *string
	DrawSeed    *int64
	CreatedAt   string
	UpdatedAt   string
}

// EventUpdate carries the descriptive fields of a partial event update.
// Nil means "leave unchanged".
type EventUpdate struct {
	Term        *string
	Name        *string
	Description *string
	EventDate   *string
	Category    *string
}

type Participant struct {
	ParticipantID uint64
	EventID       string
	StudentID     string
	Name          string
	Department    string
	Grade         string

	// Survey fields are present only for final_teaching imports.
	RequiredSurveys  *int
	CompletedSurveys *int
	SurveysCompleted *bool
	ValidSurveys     *bool

	// EnrichmentJSON holds the registry-sourced sub-record serialized as
	// JSON, or "" when no enrichment was available. The usecase layer owns
	// the typed shape; merges replace the whole payload.
	EnrichmentJSON string

	CreatedAt string
	UpdatedAt string
}

type Prize struct {
	PrizeID   uint64
	EventID   string
	Name      string
	Quantity  int
	Position  int
	CreatedAt string
}

type Winner struct {
	WinnerID      uint64
	EventID       string
	PrizeID       uint64
	ParticipantID uint64
	CreatedAt     string
}

// WinnerDetail is the joined view used for winner listings and export:
// one row per winner with its prize and participant fields resolved.
type WinnerDetail struct {
	WinnerID      uint64
	PrizeID       uint64
	PrizeName     string
	PrizePosition int
	Participant   Participant
	CreatedAt     string
}

type LotteryRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	// GetEvent returns the row regardless of the soft-delete flag; callers
	// decide whether a deleted event is visible for their operation.
	GetEvent(ctx context.Context, eventID string) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	UpdateEventFields(ctx context.Context, eventID string, update EventUpdate, updatedAt string) error
	SetEventDeleted(ctx context.Context, eventID string, deleted bool, at string) error
	// MarkEventDrawn flips status pending->drawn as a conditional update and
	// records the draw seed. It reports false when the event was not in
	// pending status, which is how a concurrent double-draw loses the race.
	MarkEventDrawn(ctx context.Context, eventID string, seed int64, at string) (bool, error)
	// MarkEventPending reverts status to pending and clears the draw seed.
	MarkEventPending(ctx context.Context, eventID string, at string) error

	ListParticipants(ctx context.Context, eventID string) ([]Participant, error)
	FindParticipantsByStudentIDs(ctx context.Context, eventID string, studentIDs []string) ([]Participant, error)
	GetParticipant(ctx context.Context, participantID uint64) (Participant, error)
	InsertParticipant(ctx context.Context, participant Participant) (Participant, error)
	// ReplaceParticipantPayload overwrites every payload field of an existing
	// participant (self-reported, survey and enrichment sub-payloads) in one
	// update. This is the merge half of insert-or-merge enrollment.
	ReplaceParticipantPayload(ctx context.Context, participantID uint64, participant Participant) error
	DeleteParticipant(ctx context.Context, participantID uint64) error
	DeleteAllParticipants(ctx context.Context, eventID string) (int64, error)
	// ListNonWinners returns participants of the event with no winner row.
	ListNonWinners(ctx context.Context, eventID string) ([]Participant, error)

	// ReplacePrizes deletes every prize of the event and inserts the given
	// list in order; positions are assigned from slice order.
	ReplacePrizes(ctx context.Context, eventID string, prizes []Prize) ([]Prize, error)
	ListPrizes(ctx context.Context, eventID string) ([]Prize, error)

	CreateWinners(ctx context.Context, winners []Winner) error
	ListWinners(ctx context.Context, eventID string) ([]WinnerDetail, error)
	HasWinners(ctx context.Context, eventID string) (bool, error)
	DeleteWinners(ctx context.Context, eventID string) (int64, error)
}
