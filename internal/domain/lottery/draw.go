package lottery

import (
	"math/rand"
	"strings"
)

// DrawPrize is one prize slot as the draw engine sees it. Prizes must be
// passed in their persisted position order; scarce pools fill earlier
// prizes first.
type DrawPrize struct {
	PrizeID  uint64
	Quantity int
}

// Entrant is one drawable pool member.
type Entrant struct {
	ParticipantID uint64
	Name          string
}

// Award is the set of participants selected for one prize.
type Award struct {
	PrizeID        uint64
	ParticipantIDs []uint64
}

// DrawablePool filters out entrants whose display name is empty or
// whitespace-only. Such rows are data-quality rejects and must never win,
// even when they are the last pool members left.
func DrawablePool(pool []Entrant) []Entrant {
	out := make([]Entrant, 0, len(pool))
	for _, e := range pool {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RunDraw assigns winners to prizes from a shared pool.
//
// For each prize, in order, it takes a uniform random sample without
// replacement of size min(quantity, remaining pool) and removes the selected
// entrants from the pool, so no participant can win twice in one draw.
// Under-subscribed prizes award fewer winners instead of failing.
//
// The draw is fully determined by (prizes, pool, seed): re-running with the
// persisted seed and the same inputs reproduces the assignment.
func RunDraw(prizes []DrawPrize, pool []Entrant, seed int64) []Award {
	rng := rand.New(rand.NewSource(seed))

	remaining := make([]Entrant, len(pool))
	copy(remaining, pool)

	awards := make([]Award, 0, len(prizes))
	for _, prize := range prizes {
		count := prize.Quantity
		if count > len(remaining) {
			count = len(remaining)
		}
		if count < 0 {
			count = 0
		}

		// Partial Fisher-Yates: the first count slots become the sample.
		for i := 0; i < count; i++ {
			j := i + rng.Intn(len(remaining)-i)
			remaining[i], remaining[j] = remaining[j], remaining[i]
		}

		selected := make([]uint64, 0, count)
		for _, e := range remaining[:count] {
			selected = append(selected, e.ParticipantID)
		}
		remaining = remaining[count:]

		awards = append(awards, Award{
			PrizeID:        prize.PrizeID,
			ParticipantIDs: selected,
		})
	}

	return awards
}
