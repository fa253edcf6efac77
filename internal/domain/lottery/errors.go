package lottery

import "errors"

var (
	ErrInvalidCategory = errors.New("invalid event category")
	ErrInvalidQuantity = errors.New("prize quantity must be positive")

	ErrEventAlreadyDrawn      = errors.New("event already drawn")
	ErrNoPrizes               = errors.New("no prizes configured for event")
	ErrNoEligibleParticipants = errors.New("no eligible participants available for drawing")
	ErrNoWinnersToReset       = errors.New("event has no winners to reset")
	ErrParticipantsLocked     = errors.New("participants are locked once the event has winners")
)
