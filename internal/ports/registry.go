package ports

import (
	"context"
	"errors"
)

// ErrRegistryUnavailable signals that the student registry could not be
// reached at all. It is distinct from "no record for this id", which shows
// up as an id missing from the lookup result.
var ErrRegistryUnavailable = errors.New("student registry unavailable")

// RegistryRecord is the authoritative identity/contact record for one
// student id.
type RegistryRecord struct {
	StudentID  string
	Name       string
	Department string
	Grade      string
	Email      string
	NationalID string
}

// StudentRegistry looks up authoritative records for a batch of student ids.
//
// LookupBatch returns the records it found keyed by student id; ids with no
// registry record are simply absent from the map. An unreachable registry
// yields ErrRegistryUnavailable rather than a partial result, so callers can
// degrade to enrollment without enrichment.
type StudentRegistry interface {
	LookupBatch(ctx context.Context, studentIDs []string) (map[string]RegistryRecord, error)
}
