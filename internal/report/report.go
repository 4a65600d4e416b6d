package report

import (
	"fmt"
	"strings"
)

const (
	// AllContributed is the body used when no member is missing a score
	AllContributed = "All members contributed!"

	// NoScoreTitle labels the list of members with no raid score
	NoScoreTitle = "Players with no raid score"

	// Bullet prefixes each listed member
	Bullet = "- "
)

// Format builds the report for a list of non-contributing members.
// A nil or empty list produces the "all contributed" report.
func Format(names []string) string {
	return FormatRaid("", names)
}

// FormatRaid builds the report for a specific raid. The raid ID is shown in the
// title when present; with an empty ID the output matches Format.
func FormatRaid(raidID string, names []string) string {
	label := "Raid"
	if raidID != "" {
		label = fmt.Sprintf("Raid `%s`", raidID)
	}

	if len(names) == 0 {
		return fmt.Sprintf("**%s Report:**\n%s", label, AllContributed)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("**%s - %s:**\n", label, NoScoreTitle))
	msg.WriteString(BulletList(names))
	return msg.String()
}

// BulletList renders one bulleted line per name, in order
func BulletList(names []string) string {
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = Bullet + name
	}
	return strings.Join(lines, "\n")
}
