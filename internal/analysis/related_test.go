package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRelatedCards_ExcludesTarget(t *testing.T) {
	target := Card{ID: 1, Title: "Migrate billing service", ListID: 1}
	cards := []Card{
		target,
		{ID: 2, Title: "Migrate billing service", ListID: 2},
	}

	got := FindRelatedCards(target, cards, 5, 0.2)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Card.ID)
	assert.Equal(t, 2, got[0].Card.List)
	assert.Equal(t, 1.0, got[0].Similarity)
}

func TestFindRelatedCards_Threshold(t *testing.T) {
	target := Card{ID: 1, Title: "alpha beta gamma"}
	cards := []Card{
		{ID: 2, Title: "alpha omega sigma kappa", Description: "lambda theta iota omicron"},
		{ID: 3, Title: "alpha beta gamma", Description: "delta epsilon zeta"},
	}

	got := FindRelatedCards(target, cards, 5, 0.2)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Card.ID)
	assert.InDelta(t, 0.5, got[0].Similarity, 1e-9)
}

func TestFindRelatedCards_OrderAndLimit(t *testing.T) {
	target := Card{ID: 100, Title: "release checklist mobile app"}
	cards := []Card{
		{ID: 1, Title: "release checklist"},
		{ID: 2, Title: "release checklist mobile app"},
		{ID: 3, Title: "release checklist"},
		{ID: 4, Title: "release checklist mobile"},
		{ID: 5, Title: "release checklist"},
		{ID: 6, Title: "release checklist"},
		{ID: 7, Title: "unrelated grocery list"},
	}

	got := FindRelatedCards(target, cards, 4, 0.2)
	require.Len(t, got, 4)

	ids := make([]int, len(got))
	for i, r := range got {
		ids[i] = r.Card.ID
	}
	// Ties keep their original order.
	assert.Equal(t, []int{2, 4, 1, 3}, ids)
}

func TestFindRelatedCards_Defaults(t *testing.T) {
	target := Card{ID: 1, Title: "write onboarding guide"}
	var cards []Card
	for i := 2; i <= 9; i++ {
		cards = append(cards, Card{ID: i, Title: "write onboarding guide"})
	}

	got := FindRelatedCards(target, cards, 0, -1)
	assert.Len(t, got, DefaultRelatedLimit)
}

func TestFindRelatedCards_EmptyText(t *testing.T) {
	target := Card{ID: 1}
	cards := []Card{{ID: 2}, {ID: 3, Title: "!!"}}

	got := FindRelatedCards(target, cards, 5, 0.2)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindRelatedCards_Ranking(t *testing.T) {
	target := Card{ID: 1, Title: "alpha beta gamma"}
	cards := []Card{
		{ID: 2, Title: "alpha zeta", ListID: 9},
		{ID: 3, Title: "unrelated words"},
		{ID: 4, Title: "alpha beta", ListID: 8},
		{ID: 5, Title: "alpha beta gamma", Description: "delta", ListID: 7},
	}

	want := []RelatedCard{
		{Card: CardSummary{ID: 5, Title: "alpha beta gamma", List: 7}, Similarity: 0.75},
		{Card: CardSummary{ID: 4, Title: "alpha beta", List: 8}, Similarity: 2.0 / 3.0},
		{Card: CardSummary{ID: 2, Title: "alpha zeta", List: 9}, Similarity: 0.25},
	}
	got := FindRelatedCards(target, cards, 0, DefaultSimilarityThreshold)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("FindRelatedCards() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRelatedCards_ZeroThresholdKeepsEveryCandidate(t *testing.T) {
	target := Card{ID: 1, Title: "alpha beta"}
	cards := []Card{
		target,
		{ID: 2, Title: "alpha gamma delta epsilon zeta"},
		{ID: 3, Title: "unrelated words"},
	}

	got := FindRelatedCards(target, cards, 5, 0)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Card.ID)
	assert.InDelta(t, 1.0/6.0, got[0].Similarity, 1e-9)
	assert.Equal(t, 3, got[1].Card.ID)
	assert.Zero(t, got[1].Similarity)

	got = FindRelatedCards(target, cards, 5, DefaultSimilarityThreshold)
	assert.Empty(t, got)
}
