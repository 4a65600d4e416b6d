package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pfrederiksen/raid-report/internal/raid"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	RaidID          string        `json:"raid_id"`
	Source          string        `json:"source"`
	CheckedAt       time.Time     `json:"checked_at"`
	Participants    []raid.Record `json:"participants"`
	NonContributors []string      `json:"non_contributors"`
	Summary         raid.Summary  `json:"summary"`
	Message         string        `json:"message"`
	Sent            bool          `json:"sent"`
	DryRun          bool          `json:"dry_run,omitempty"`
	SendError       string        `json:"send_error,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// styles renders console text; colors are dropped when w is not a terminal
type styles struct {
	heading lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		name:    r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:   r.NewStyle().Faint(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("42")),
		err:     r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the non-contributor list as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	st := newStyles(w)

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.heading.Render("=== Players with no raid score ==="))
	fmt.Fprintln(w)

	if len(result.NonContributors) == 0 {
		fmt.Fprintln(w, st.ok.Render("All members contributed!"))
	} else {
		for _, name := range result.NonContributors {
			fmt.Fprintln(w, st.name.Render(name))
		}
	}

	s := result.Summary
	fmt.Fprintf(w, "\nTotal: %d of %d members with no raid score\n", s.NonContributors, s.Participants)

	if verbose {
		fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("Source: %s", result.Source)))
		fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("Total score: %.0f  Mean: %.0f  Median: %.0f",
			s.TotalScore, s.MeanScore, s.MedianScore)))
	}

	return nil
}
