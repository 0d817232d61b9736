package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTablesCoverEveryStatus(t *testing.T) {
	for _, table := range []ProgressTable{DefaultProgress, OrderedProgress} {
		for _, st := range AllStatuses() {
			_, ok := table[st]
			assert.True(t, ok, "missing %q", st)
		}
	}
}

func TestDefaultProgress(t *testing.T) {
	want := map[Status]int{
		StatusApplied:     10,
		StatusOASent:      40,
		StatusOAReceived:  25,
		StatusInterviewed: 60,
		StatusOffered:     85,
		StatusAccepted:    100,
		StatusRejected:    0,
	}
	for st, p := range want {
		assert.Equal(t, p, DefaultProgress.For(st), st)
	}
	assert.Equal(t, 25, OrderedProgress.For(StatusOASent))
	assert.Equal(t, 40, OrderedProgress.For(StatusOAReceived))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("  OA Received ")
	require.NoError(t, err)
	assert.Equal(t, StatusOAReceived, st)

	_, err = ParseStatus("ghosted")
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Contains(t, err.Error(), "applied, oa sent, oa received")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "OA Sent", StatusOASent.Label())
	assert.Equal(t, "Interviewed", StatusInterviewed.Label())
	assert.Equal(t, "Éclair Round", Status("éclair round").Label())
}

func TestProgressTableByName(t *testing.T) {
	tbl, err := ProgressTableByName("")
	require.NoError(t, err)
	assert.Equal(t, 40, tbl.For(StatusOASent))

	tbl, err = ProgressTableByName("Ordered")
	require.NoError(t, err)
	assert.Equal(t, 25, tbl.For(StatusOASent))

	_, err = ProgressTableByName("linear")
	assert.Error(t, err)
}

func TestApplicationDecodesNaiveTimestamps(t *testing.T) {
	raw := `{"id":3,"company":"Acme","position":"SWE","status":"offered","progress":85,
		"created_at":"2024-11-02T10:11:12.123456","updated_at":"2024-11-03T09:00:00"}`

	var app Application
	require.NoError(t, json.Unmarshal([]byte(raw), &app))
	assert.Equal(t, uint(3), app.ID)
	assert.Equal(t, StatusOffered, app.Status)
	assert.Equal(t, 2024, app.CreatedAt.Year())
	assert.Equal(t, 3, app.UpdatedAt.Day())
}

func TestApplicationWithoutTimestamps(t *testing.T) {
	var app Application
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"created_at":null}`), &app))
	assert.True(t, app.CreatedAt.IsZero())
	assert.True(t, app.UpdatedAt.IsZero())
}
