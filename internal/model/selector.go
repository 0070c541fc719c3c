package model

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// Select picks the outcome with the highest held-out accuracy. Exact ties go
// to the candidate appearing first in the report, which follows candidate
// order, so selection is stable across runs. A ranked comparison is logged
// as an observable side effect only.
func Select(report Report) (Outcome, error) {
	if len(report) == 0 {
		return Outcome{}, fmt.Errorf("model report is empty")
	}

	best := 0
	for i, o := range report {
		if o.Accuracy > report[best].Accuracy {
			best = i
		}
	}
	winner := report[best]

	logComparison(report, winner.Name)
	return winner, nil
}

func logComparison(report Report, bestName string) {
	ranked := make(Report, len(report))
	copy(ranked, report)
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Accuracy > ranked[b].Accuracy })

	log.Info().Str("model", bestName).Msg("best model selected")
	for _, o := range ranked {
		marker := ""
		if o.Name == bestName {
			marker = " <- BEST"
		}
		log.Info().Msgf("  %-25s %.4f%s", o.Name, o.Accuracy, marker)
	}
}
