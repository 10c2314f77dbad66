package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-backend/internal/analysis"
)

type fakeGenerator struct {
	reply  string
	err    error
	delay  time.Duration
	panics bool

	calls  int
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

var testNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func testContext() CardContext {
	lists := []analysis.List{
		{ID: 1, Title: "Backlog"},
		{ID: 2, Title: "Testing"},
		{ID: 3, Title: "Done"},
	}
	card := analysis.Card{ID: 10, Title: "Deploy to prod", Description: "after QA signs off", ListID: 1}
	return ContextFor(card, "Platform", 1, lists, testNow)
}

func TestEnrich_Disabled(t *testing.T) {
	res := NewAdapter(nil).Enrich(context.Background(), testContext())
	assert.False(t, res.OK())
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Insights)

	var nilAdapter *Adapter
	assert.False(t, nilAdapter.Enabled())
	assert.NoError(t, nilAdapter.Enrich(context.Background(), testContext()).Err)
}

func TestEnrich_ParsesReply(t *testing.T) {
	gen := &fakeGenerator{reply: "Here is my analysis:\n```json\n" + `{
		"dueDate": {"date": "2026-10-20", "reason": "QA usually takes a few days"},
		"listMovement": {"list": "testing", "reason": "Waiting on QA"},
		"priority": "HIGH",
		"effort": "medium",
		"insights": ["Write a rollback plan", " ", "Announce the deploy window", "Check dashboards", "Extra"]
	}` + "\n```"}

	res := NewAdapter(gen).Enrich(context.Background(), testContext())
	require.True(t, res.OK(), res.Err)

	in := res.Insights
	assert.True(t, in.AIPowered)
	require.NotNil(t, in.DueDateSuggestion)
	assert.True(t, time.Date(2026, time.October, 20, 23, 59, 59, 999000000, time.UTC).Equal(in.DueDateSuggestion.Date))
	require.NotNil(t, in.ListMovement)
	assert.Equal(t, 2, in.ListMovement.ListID)
	assert.Equal(t, "Testing", in.ListMovement.ListTitle)
	assert.Equal(t, "high", in.Insights.Priority)
	assert.Equal(t, "medium", in.Insights.Effort)
	assert.Equal(t, []string{"Write a rollback plan", "Announce the deploy window", "Check dashboards"}, in.Insights.Notes)

	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompt, "card_title: Deploy to prod")
	assert.Contains(t, gen.prompt, "current_list: Backlog")
	assert.Contains(t, gen.prompt, "board_lists: Backlog, Testing, Done")
}

func TestEnrich_DropsUnknownListAndBadDate(t *testing.T) {
	gen := &fakeGenerator{reply: `{"dueDate": {"date": "next friday"}, "listMovement": {"list": "Staging"}, "priority": "urgent"}`}

	res := NewAdapter(gen).Enrich(context.Background(), testContext())
	require.True(t, res.OK())
	assert.Nil(t, res.Insights.DueDateSuggestion)
	assert.Nil(t, res.Insights.ListMovement)
	assert.Empty(t, res.Insights.Insights.Priority)
	assert.NotNil(t, res.Insights.Insights.Notes)
}

func TestEnrich_Failures(t *testing.T) {
	genErr := errors.New("network down")

	tests := []struct {
		name    string
		gen     *fakeGenerator
		opts    []Option
		wantErr error
	}{
		{"generator error", &fakeGenerator{err: genErr}, nil, genErr},
		{"no json", &fakeGenerator{reply: "I'd suggest finishing soon."}, nil, ErrNoJSON},
		{"wrong shape", &fakeGenerator{reply: `{"priority": ["high"]}`}, nil, ErrBadReply},
		{"timeout", &fakeGenerator{delay: time.Second}, []Option{WithTimeout(20 * time.Millisecond)}, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewAdapter(tt.gen, tt.opts...).Enrich(context.Background(), testContext())
			assert.False(t, res.OK())
			assert.Nil(t, res.Insights)
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Equal(t, 1, tt.gen.calls)
		})
	}
}

func TestEnrich_PanicIsContained(t *testing.T) {
	res := NewAdapter(&fakeGenerator{panics: true}).Enrich(context.Background(), testContext())
	assert.Error(t, res.Err)
	assert.Nil(t, res.Insights)
}

func TestEnrich_RateLimitRespectsContext(t *testing.T) {
	gen := &fakeGenerator{reply: `{}`}
	a := NewAdapter(gen, WithRateLimit(1), WithTimeout(50*time.Millisecond))

	require.True(t, a.Enrich(context.Background(), testContext()).OK())

	// The single token is spent; the next call cannot wait a full minute.
	res := a.Enrich(context.Background(), testContext())
	assert.Error(t, res.Err)
	assert.Equal(t, 1, gen.calls)
}

func TestBuildPrompt(t *testing.T) {
	in := testContext()
	due := time.Date(2026, time.October, 30, 0, 0, 0, 0, time.UTC)
	in.Card.DueDate = &due

	p := BuildPrompt(in)
	assert.Contains(t, p, "today: 2026-10-15 (Thursday)")
	assert.Contains(t, p, "board: Platform")
	assert.Contains(t, p, "card_description: after QA signs off")
	assert.Contains(t, p, "current_due_date: 2026-10-30")
	assert.Contains(t, p, "cards_on_board: 1")
	assert.Contains(t, p, `"listMovement"`)
}

func TestContextFor(t *testing.T) {
	card := analysis.Card{ID: 4, Title: "Write docs", ListID: 2}
	lists := []analysis.List{{ID: 2, Title: "Doing"}}

	in := ContextFor(card, "Docs", 12, lists, testNow)
	assert.Equal(t, card, in.Card)
	assert.Equal(t, "Docs", in.BoardTitle)
	assert.Equal(t, 12, in.CardCount)
	assert.Equal(t, lists, in.Lists)
	assert.True(t, testNow.Equal(in.Now))
	assert.Contains(t, BuildPrompt(in), "cards_on_board: 12")
}
