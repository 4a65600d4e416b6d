package scraper

import (
	"bytes"
	"os"
	"testing"

	"github.com/pfrederiksen/raid-report/internal/raid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SampleRaid(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/sample_raid.html")
	require.NoError(t, err, "failed to load test fixture")

	ext, err := New().Extract(bytes.NewReader(data))
	require.NoError(t, err)

	// The navbar table has no <td> triple and the ad row has a single cell
	assert.True(t, ext.TableFound)
	assert.Equal(t, 2, ext.RowsSkipped)

	want := []raid.Record{
		{Name: "Alice", Score: "2,456,789"},
		{Name: "Antonio", Score: "1,987,000"},
		{Name: "Maya & Co", Score: "1,068,556"},
		{Name: "Bob", Score: "1,000,000"},
		{Name: "Sean", Score: "--"},
		{Name: "Priya", Score: "--"},
	}
	assert.Equal(t, want, ext.Records)

	assert.Equal(t, []string{"Sean", "Priya"}, raid.NonContributors(ext.Records))
}
