package raid

import (
	"strings"
)

// Sentinel is the displayed score of a member with no recorded contribution.
const Sentinel = "--"

// Record represents one row of the raid results table
type Record struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// NewRecord creates a Record from raw cell text, trimming surrounding whitespace
func NewRecord(name, score string) Record {
	return Record{
		Name:  strings.TrimSpace(name),
		Score: strings.TrimSpace(score),
	}
}

// Contributed reports whether the record has a score other than the Sentinel
func (r Record) Contributed() bool {
	return r.Score != Sentinel
}

// NonContributors returns the names of records whose score equals the Sentinel.
// Order follows the input; names are neither deduplicated nor sorted.
func NonContributors(records []Record) []string {
	names := make([]string, 0)
	for _, r := range records {
		if r.Score == Sentinel {
			names = append(names, r.Name)
		}
	}
	return names
}

// NormalizeID trims whitespace and surrounding slashes from a raid ID,
// so "/bb0ea6749c/ " and "bb0ea6749c" are the same raid.
func NormalizeID(id string) string {
	return strings.Trim(strings.TrimSpace(id), "/")
}

// PageURL builds the raid-history page URL for a raid ID.
// Returns "" when either part is empty.
func PageURL(baseURL, raidID string) string {
	baseURL = strings.TrimSpace(baseURL)
	raidID = NormalizeID(raidID)
	if baseURL == "" || raidID == "" {
		return ""
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + raidID + "/"
}
