package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boardLists = []List{
	{ID: 1, Title: "Backlog"},
	{ID: 2, Title: "In Progress"},
	{ID: 3, Title: "Code Review"},
	{ID: 4, Title: "Blocked"},
	{ID: 5, Title: "Done"},
}

func TestSuggestListMovement(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		current  int
		wantList int
		reason   string
	}{
		{"in progress", "Started working on the importer", 1, 2, "Keywords suggest task is in progress"},
		{"done", "Finished and merged", 2, 5, "Keywords suggest task is completed"},
		{"review", "Ready for REVIEW", 2, 3, "Keywords suggest task needs testing/review"},
		{"blocked", "waiting on design", 1, 4, "Keywords suggest task is blocked"},
		{"priority order", "blocked, but tests are done", 1, 5, "Keywords suggest task is completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestListMovement(tt.text, tt.current, boardLists)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantList, got.ListID)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestSuggestListMovement_CurrentListFallsThrough(t *testing.T) {
	// Already in Done: the done rule is skipped and the review rule applies.
	got := SuggestListMovement("done, needs review", 5, boardLists)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.ListID)
}

func TestSuggestListMovement_Nothing(t *testing.T) {
	assert.Nil(t, SuggestListMovement("", 1, boardLists))
	assert.Nil(t, SuggestListMovement("update the onboarding copy", 1, boardLists))
	assert.Nil(t, SuggestListMovement("needs review", 3, boardLists))
	assert.Nil(t, SuggestListMovement("needs review", 1, []List{{ID: 1, Title: "Backlog"}}))
}
