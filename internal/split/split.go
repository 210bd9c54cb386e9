// Package split implements the share-distribution algorithm: given a bill
// total and a participant list, it computes the per-participant amounts,
// which always sum back to the total at cent precision.
package split

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrNoParticipants is returned when, after normalization, nobody is left to
// split the bill among. This only happens when the creator is empty and no
// valid participants were supplied.
var ErrNoParticipants = errors.New("no participants")

// Allocation is one participant's computed share of a bill.
type Allocation struct {
	Username string
	Amount   float64
	Paid     bool
	PaidAt   *int64 // Unix timestamp, nil unless Paid
}

// Distribute splits total among participants and returns one Allocation per
// participant, in list order.
//
// Participant names are trimmed, empties dropped, and duplicates removed
// keeping the first occurrence. The creator is appended at the end when not
// already present, so every bill includes its creator.
//
// Without discount everyone pays total/n. With discount the creator pays 75%
// of what each other participant pays:
//
//	total = x + (n-1)*y  with  x = 0.75*y
//	     => y = total / (n - 0.25)
//
// For n == 1 the divisor is 0.75 and x degenerates to total, so no guard is
// needed.
//
// Every exact share is rounded to cents. If the rounded shares no longer sum
// to total, the whole remainder is added to the last participant's share, so
// persisted shares always sum to the total exactly.
//
// The creator's allocation is returned already paid, stamped with now: the
// creator settled their own share by paying the vendor up front.
func Distribute(total float64, participants []string, creator string, discount bool, now time.Time) ([]Allocation, error) {
	names := normalize(participants)
	if creator != "" && !contains(names, creator) {
		names = append(names, creator)
	}

	n := len(names)
	if n == 0 {
		return nil, ErrNoParticipants
	}

	exact := make([]float64, n)
	if discount {
		y := total / (float64(n) - 0.25)
		x := 0.75 * y
		for i, name := range names {
			if name == creator {
				exact[i] = x
			} else {
				exact[i] = y
			}
		}
	} else {
		equal := total / float64(n)
		for i := range exact {
			exact[i] = equal
		}
	}

	rounded := make([]float64, n)
	var sum float64
	for i, v := range exact {
		rounded[i] = roundCents(v)
		sum += rounded[i]
	}
	if diff := roundCents(total - sum); math.Abs(diff) >= 0.01 {
		rounded[n-1] = roundCents(rounded[n-1] + diff)
	}

	paidAt := now.Unix()
	allocs := make([]Allocation, n)
	for i, name := range names {
		allocs[i] = Allocation{Username: name, Amount: rounded[i]}
		if name == creator {
			allocs[i].Paid = true
			allocs[i].PaidAt = &paidAt
		}
	}
	return allocs, nil
}

// normalize trims names, drops empties, and deduplicates preserving
// first-occurrence order.
func normalize(participants []string) []string {
	seen := make(map[string]bool, len(participants))
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// roundCents rounds to 2 decimal places, the currency granularity.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
