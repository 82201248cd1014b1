package templates

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/data443/doctagger/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, binding interface{}) string {
	t.Helper()
	engine, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, name, binding))
	return buf.String()
}

func TestResults_ErrorShortCircuitsRendering(t *testing.T) {
	out := render(t, "results", map[string]interface{}{
		"BatchID": "11111111-2222-3333-4444-555555555555",
		"TagName": "Data Class",
		"Result": &types.ProcessingResult{
			File:           "broken.pdf",
			Timestamp:      time.Now(),
			Classification: "pii",
			MatchesCount:   2,
			Error:          "failed to read document",
		},
	})

	assert.Contains(t, out, "alert-danger")
	assert.Contains(t, out, "failed to read document")
	assert.NotContains(t, out, "Policy Matches")
	assert.NotContains(t, out, "/download/")
	assert.NotContains(t, out, "alert-success")
	assert.NotContains(t, out, "alert-warning")
}

func TestResults_NoMatchTableWhenZeroMatches(t *testing.T) {
	out := render(t, "results", map[string]interface{}{
		"BatchID": "11111111-2222-3333-4444-555555555555",
		"TagName": "Data Class",
		"Result": &types.ProcessingResult{
			File:           "clean.txt",
			Timestamp:      time.Now(),
			Classification: "safe",
			MatchesCount:   0,
		},
	})

	assert.NotContains(t, out, "Policy Matches")
	assert.Contains(t, out, "alert-success")
}

func TestResults_SafeVsWarningBanner(t *testing.T) {
	safe := render(t, "results", map[string]interface{}{
		"BatchID": "b", "TagName": "Data Class",
		"Result": &types.ProcessingResult{
			File: "a.txt", Timestamp: time.Now(), Classification: "safe",
		},
	})
	assert.Contains(t, safe, "alert-success")
	assert.NotContains(t, safe, "alert-warning")

	flagged := render(t, "results", map[string]interface{}{
		"BatchID": "b", "TagName": "Data Class",
		"Result": &types.ProcessingResult{
			File: "a.txt", Timestamp: time.Now(),
			Classification: "pii", Confidence: 0.9, MatchesCount: 1,
			Matches: []types.PolicyMatch{
				{PolicyName: "pii", MatchName: "ssn", Confidence: 0.9},
			},
		},
	})
	assert.Contains(t, flagged, "alert-warning")
	assert.NotContains(t, flagged, "alert-success")
	assert.Contains(t, flagged, "90.0%")
}

func TestResults_DownloadLinkEmbedsBatchIDAndFilename(t *testing.T) {
	out := render(t, "results", map[string]interface{}{
		"BatchID": "11111111-2222-3333-4444-555555555555",
		"TagName": "Data Class",
		"Result": &types.ProcessingResult{
			File: "report.docx", Timestamp: time.Now(), Classification: "safe",
		},
	})

	assert.Contains(t, out, "/download/11111111-2222-3333-4444-555555555555/report.docx")
}

func TestBatchResults_ClassificationRowsMatchDistinctKeys(t *testing.T) {
	out := render(t, "batch_results", map[string]interface{}{
		"BatchID": "b",
		"Batch": &types.BatchResult{
			TotalFiles:     5,
			ProcessedFiles: 5,
			ClassificationResults: map[string]int{
				"safe":      3,
				"pii":       1,
				"financial": 1,
			},
		},
	})

	table := out[strings.Index(out, "Classifications"):]
	table = table[:strings.Index(table, "</table>")]
	assert.Equal(t, 3, strings.Count(table, "<tr>")-1) // minus header row
	for _, key := range []string{"safe", "pii", "financial"} {
		assert.Contains(t, table, key)
	}
}

func TestBatchResults_ErrorShortCircuitsRendering(t *testing.T) {
	out := render(t, "batch_results", map[string]interface{}{
		"BatchID": "b",
		"Batch":   &types.BatchResult{Error: "no files provided"},
	})

	assert.Contains(t, out, "alert-danger")
	assert.Contains(t, out, "no files provided")
	assert.NotContains(t, out, "Summary")
	assert.NotContains(t, out, "Classifications")
}

func TestBatchResults_ListsErrorsAndDownloads(t *testing.T) {
	out := render(t, "batch_results", map[string]interface{}{
		"BatchID": "batch-1",
		"Batch": &types.BatchResult{
			TotalFiles:            2,
			ProcessedFiles:        1,
			ClassificationResults: map[string]int{"safe": 1},
			Errors: []types.FileError{
				{File: "bad.bin", Error: "no text content could be extracted"},
			},
		},
		"Results": []*types.ProcessingResult{
			{File: "good.txt", Classification: "safe"},
			{File: "bad.bin", Error: "no text content could be extracted"},
		},
	})

	assert.Contains(t, out, "bad.bin")
	assert.Contains(t, out, "no text content could be extracted")
	assert.Contains(t, out, "/download/batch-1/good.txt")
	assert.NotContains(t, out, "/download/batch-1/bad.bin")
}

func TestIndex_ShowsUploadForms(t *testing.T) {
	out := render(t, "index", nil)

	assert.Contains(t, out, `action="/upload"`)
	assert.Contains(t, out, `action="/batch"`)
	assert.Contains(t, out, `name="file"`)
	assert.Contains(t, out, `name="files[]"`)
}
