package reconcile

import (
	"time"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// KindReport counts what one kind's pass did.
type KindReport struct {
	Kind          types.Kind `json:"kind"`
	Pushed        int        `json:"pushed"`         // local-only records created remotely
	Pulled        int        `json:"pulled"`         // remote-only records stored locally
	Patched       int        `json:"patched"`        // shared records where the local copy won
	Applied       int        `json:"applied"`        // shared records where the remote copy won
	Unchanged     int        `json:"unchanged"`      // shared records with equal UpdatedAt
	LocalFailures int        `json:"local_failures"` // remote records the local store rejected
}

// Report summarizes a successful pass.
type Report struct {
	Kinds   []KindReport  `json:"kinds"`
	Elapsed time.Duration `json:"elapsed"`
}

// Total sums the per-kind counters.
func (r Report) Total() KindReport {
	var t KindReport
	for _, k := range r.Kinds {
		t.Pushed += k.Pushed
		t.Pulled += k.Pulled
		t.Patched += k.Patched
		t.Applied += k.Applied
		t.Unchanged += k.Unchanged
		t.LocalFailures += k.LocalFailures
	}
	return t
}

// For returns the counters of kind, or a zero report.
func (r Report) For(kind types.Kind) KindReport {
	for _, k := range r.Kinds {
		if k.Kind == kind {
			return k
		}
	}
	return KindReport{Kind: kind}
}
