package raid

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// Summary holds participation statistics for a single raid
type Summary struct {
	Participants    int     `json:"participants"`
	Contributors    int     `json:"contributors"`
	NonContributors int     `json:"non_contributors"`
	TotalScore      float64 `json:"total_score"`
	MeanScore       float64 `json:"mean_score"`
	MedianScore     float64 `json:"median_score"`
}

// Summarize computes participation statistics from records.
// Scores that are neither the Sentinel nor numeric are counted as contributions
// but left out of the score statistics.
func Summarize(records []Record) Summary {
	s := Summary{Participants: len(records)}

	scores := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		if !r.Contributed() {
			s.NonContributors++
			continue
		}
		s.Contributors++

		if v, ok := parseScore(r.Score); ok {
			scores = append(scores, v)
		}
	}

	if len(scores) == 0 {
		return s
	}

	// Errors only occur on empty input, which is excluded above
	s.TotalScore, _ = scores.Sum()
	s.MeanScore, _ = scores.Mean()
	s.MedianScore, _ = scores.Median()

	return s
}

// parseScore converts displayed score text like "1,234,567" to a number
func parseScore(text string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(text)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
