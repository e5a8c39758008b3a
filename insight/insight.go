// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package insight derives a short human-readable summary from a poll's
// tallies. Compute is a pure function so it can be exercised standalone.
package insight

import (
	"fmt"
	"sort"

	"github.com/quickpoll/backend/models"
)

const (
	// MinSampleSize is the vote total below which no insight is drawn.
	MinSampleSize = 20
	// CloseMarginPct is the lead (as percent of total votes) at or
	// below which the race is reported as close.
	CloseMarginPct = 10.0
)

// Compute returns a leader or closeness summary for the tallies. The
// second return is false while the sample is too small to say anything.
func Compute(tallies []models.OptionTally) (string, bool) {
	total := 0
	for _, t := range tallies {
		total += t.Votes
	}
	if total < MinSampleSize || len(tallies) == 0 {
		return "", false
	}

	// Rank by count descending; stable sort keeps ties in creation
	// order so the result is deterministic.
	ranked := make([]models.OptionTally, len(tallies))
	copy(ranked, tallies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	top := ranked[0]
	topPct := float64(top.Votes) * 100.0 / float64(total)

	if len(ranked) > 1 {
		margin := float64(top.Votes-ranked[1].Votes) * 100.0 / float64(total)
		if margin <= CloseMarginPct {
			return "Results are close between top options.", true
		}
	}

	return fmt.Sprintf("%s leads with %.1f%% votes.", top.OptionText, topPct), true
}
