package split

import (
	"math"
	"testing"
	"time"
)

var now = time.Unix(1700000000, 0)

func sumAllocs(allocs []Allocation) float64 {
	var sum float64
	for _, a := range allocs {
		sum += a.Amount
	}
	return sum
}

func TestDistribute(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []string
		creator      string
		discount     bool
		wantErr      bool
		validateFunc func(t *testing.T, allocs []Allocation)
	}{
		{
			name:         "equal split with creator in list",
			total:        100.00,
			participants: []string{"a", "b"},
			creator:      "a",
			discount:     false,
			validateFunc: func(t *testing.T, allocs []Allocation) {
				if len(allocs) != 2 {
					t.Fatalf("expected 2 allocations, got %d", len(allocs))
				}
				for _, a := range allocs {
					if a.Amount != 50.00 {
						t.Errorf("%s amount = %v, want 50.00", a.Username, a.Amount)
					}
				}
			},
		},
		{
			name:         "discount split",
			total:        100.00,
			participants: []string{"a", "b"},
			creator:      "a",
			discount:     true,
			validateFunc: func(t *testing.T, allocs []Allocation) {
				// y = 100 / 1.75 = 57.1428... -> 57.14
				// x = 0.75 * y  = 42.8571... -> 42.86
				if allocs[0].Username != "a" || allocs[0].Amount != 42.86 {
					t.Errorf("creator allocation = %+v, want a/42.86", allocs[0])
				}
				if allocs[1].Username != "b" || allocs[1].Amount != 57.14 {
					t.Errorf("other allocation = %+v, want b/57.14", allocs[1])
				}
			},
		},
		{
			name:         "creator appended when absent",
			total:        30.00,
			participants: []string{"x", "y"},
			creator:      "z",
			discount:     false,
			validateFunc: func(t *testing.T, allocs []Allocation) {
				if len(allocs) != 3 {
					t.Fatalf("expected 3 allocations, got %d", len(allocs))
				}
				if allocs[2].Username != "z" {
					t.Errorf("creator should be appended last, got order %v", usernames(allocs))
				}
			},
		},
		{
			name:         "creator-only bill with discount",
			total:        30.00,
			participants: []string{},
			creator:      "solo",
			discount:     true,
			validateFunc: func(t *testing.T, allocs []Allocation) {
				if len(allocs) != 1 {
					t.Fatalf("expected 1 allocation, got %d", len(allocs))
				}
				a := allocs[0]
				if a.Username != "solo" || a.Amount != 30.00 || !a.Paid {
					t.Errorf("allocation = %+v, want solo/30.00/paid", a)
				}
			},
		},
		{
			name:         "duplicates and whitespace normalized",
			total:        60.00,
			participants: []string{" a ", "b", "a", "", "b "},
			creator:      "a",
			discount:     false,
			validateFunc: func(t *testing.T, allocs []Allocation) {
				got := usernames(allocs)
				want := []string{"a", "b"}
				if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
					t.Errorf("participant order = %v, want %v", got, want)
				}
			},
		},
		{
			name:         "three-way split corrects remainder on last",
			total:        100.00,
			participants: []string{"a", "b", "c"},
			creator:      "a",
			discount:     false,
			validateFunc: func(t *testing.T, allocs []Allocation) {
				// 100/3 = 33.333... -> 33.33 each, sum 99.99;
				// last participant absorbs the missing cent.
				if allocs[0].Amount != 33.33 || allocs[1].Amount != 33.33 {
					t.Errorf("first two amounts = %v, %v, want 33.33", allocs[0].Amount, allocs[1].Amount)
				}
				if allocs[2].Amount != 33.34 {
					t.Errorf("last amount = %v, want 33.34", allocs[2].Amount)
				}
			},
		},
		{
			name:         "no creator and no participants",
			total:        10.00,
			participants: []string{},
			creator:      "",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs, err := Distribute(tt.total, tt.participants, tt.creator, tt.discount, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Distribute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			// The rounded shares of any valid distribution sum back to
			// the total at cent precision.
			if sum := sumAllocs(allocs); math.Abs(sum-tt.total) >= 0.005 {
				t.Errorf("shares sum to %v, want %v", sum, tt.total)
			}

			// Exactly the creator's allocation is born paid.
			for _, a := range allocs {
				isCreator := a.Username == tt.creator
				if a.Paid != isCreator {
					t.Errorf("%s paid = %v, want %v", a.Username, a.Paid, isCreator)
				}
				if isCreator {
					if a.PaidAt == nil || *a.PaidAt != now.Unix() {
						t.Errorf("creator PaidAt = %v, want %d", a.PaidAt, now.Unix())
					}
				} else if a.PaidAt != nil {
					t.Errorf("%s PaidAt = %v, want nil", a.Username, *a.PaidAt)
				}
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, allocs)
			}
		})
	}
}

func TestDistributeSumProperty(t *testing.T) {
	// Sweep awkward totals and sizes; every result must sum to the total.
	totals := []float64{0.01, 0.10, 1.00, 9.99, 33.33, 100.00, 123.45, 999.97}
	for n := 1; n <= 7; n++ {
		participants := make([]string, 0, n)
		for i := 0; i < n; i++ {
			participants = append(participants, string(rune('a'+i)))
		}
		for _, total := range totals {
			for _, discount := range []bool{false, true} {
				allocs, err := Distribute(total, participants, "a", discount, now)
				if err != nil {
					t.Fatalf("Distribute(%v, %d, discount=%v) failed: %v", total, n, discount, err)
				}
				if sum := roundCents(sumAllocs(allocs)); sum != total {
					t.Errorf("n=%d total=%v discount=%v: shares sum to %v", n, total, discount, sum)
				}
			}
		}
	}
}

func usernames(allocs []Allocation) []string {
	names := make([]string, len(allocs))
	for i, a := range allocs {
		names[i] = a.Username
	}
	return names
}
