package lottery

import (
	"errors"
	"fmt"
	"time"

	domainlottery "unidraw/internal/domain/lottery"
	"unidraw/internal/ports"
)

// ErrValidation marks caller-input failures so the transport layer can map
// them to a bad-request response with errors.Is.
var ErrValidation = errors.New("invalid request")

var (
	errEventIDRequired   = fmt.Errorf("%w: event id is required", ErrValidation)
	errEventNameRequired = fmt.Errorf("%w: event name is required", ErrValidation)
	errTermRequired      = fmt.Errorf("%w: academic term is required", ErrValidation)
	errNoRecords         = fmt.Errorf("%w: at least one record is required", ErrValidation)
	errNoPrizesGiven     = fmt.Errorf("%w: at least one prize is required", ErrValidation)
	errPrizeNameRequired = fmt.Errorf("%w: prize name is required", ErrValidation)
	errNoUpdatableFields = fmt.Errorf("%w: no updatable fields in request", ErrValidation)
)

// Service composes the event lifecycle, participant ledger, and draw engine
// over the repository and unit-of-work ports.
type Service struct {
	repo     ports.LotteryRepository
	uow      ports.UnitOfWork
	registry ports.StudentRegistry
	drawSeed func() int64
}

// NewService wires lottery usecases with repository, unit of work, and the
// student registry used for enrollment enrichment.
func NewService(repo ports.LotteryRepository, uow ports.UnitOfWork, registry ports.StudentRegistry) *Service {
	return &Service{
		repo:     repo,
		uow:      uow,
		registry: registry,
		drawSeed: func() int64 { return time.Now().UnixNano() },
	}
}

type CreateEventInput struct {
	Term        string
	Name        string
	Description string
	EventDate   string
	Category    string
}

type UpdateEventInput struct {
	Term        *string
	Name        *string
	Description *string
	EventDate   *string
	Category    *string
}

type EventView struct {
	EventID     string
	Term        string
	Name        string
	Description string
	EventDate   string
	Category    string
	Status      string
	IsDeleted   bool
	DrawSeed    *int64
	CreatedAt   string
	UpdatedAt   string
}

type ListEventsInput struct {
	Category       string
	IncludeDeleted bool
	OnlyDeleted    bool
	Limit          int
	Offset         int
}

type PrizeInput struct {
	Name     string
	Quantity int
}

type PrizeView struct {
	PrizeID  uint64
	Name     string
	Quantity int
	Position int
}

// SurveyStatus mirrors the survey counters a final_teaching import carries.
type SurveyStatus struct {
	Required  int
	Completed int
	AllDone   bool
	AllValid  bool
}

// ImportRecord is one raw enrollment record from the inbound boundary.
type ImportRecord struct {
	StudentID  string
	Name       string
	Department string
	Grade      string
	Surveys    *SurveyStatus
}

type EnrollInput struct {
	EventID string
	Records []ImportRecord
}

type SkippedRecord struct {
	StudentID string
	Reasons   []string
}

// EnrollReport is the per-batch outcome: bad records are reported here
// instead of failing the batch.
type EnrollReport struct {
	Received int
	Inserted int
	Updated  int
	Eligible int
	Skipped  []SkippedRecord
}

type ParticipantView struct {
	ParticipantID uint64
	StudentID     string
	Name          string
	Department    string
	Grade         string
	Surveys       *SurveyStatus
	Enrichment    *domainlottery.Enrichment
	CreatedAt     string
}

type WinnerView struct {
	WinnerID      uint64
	ParticipantID uint64
	StudentID     string
	Name          string
	Department    string
	Grade         string
	Email         string
}

type PrizeWinners struct {
	PrizeID   uint64
	PrizeName string
	Quantity  int
	Winners   []WinnerView
}

type DrawResult struct {
	EventID      string
	Seed         int64
	TotalWinners int
	Prizes       []PrizeWinners
}

type ResetResult struct {
	EventID        string
	DeletedWinners int64
	Status         string
}
