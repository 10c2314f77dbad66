// Package ai asks a generative text model for extra card insights. Every
// failure is reported in the returned Enrichment and never aborts the
// caller's request.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"taskboard-backend/internal/analysis"
)

var (
	ErrNoJSON   = errors.New("ai: reply contains no json object")
	ErrBadReply = errors.New("ai: reply does not match the expected shape")
)

type DueDateHint struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

type ListHint struct {
	ListID    int    `json:"listId"`
	ListTitle string `json:"listTitle"`
	Reason    string `json:"reason"`
}

type Assessment struct {
	Priority string   `json:"priority,omitempty"`
	Effort   string   `json:"effort,omitempty"`
	Notes    []string `json:"notes"`
}

// Insights is the model's suggestion block, merged into the recommendation
// response under "aiInsights".
type Insights struct {
	AIPowered         bool         `json:"aiPowered"`
	DueDateSuggestion *DueDateHint `json:"dueDateSuggestion"`
	ListMovement      *ListHint    `json:"listMovement"`
	Insights          *Assessment  `json:"insights"`
}

// Enrichment is the outcome of one enrichment attempt. Insights is nil when
// enrichment is disabled or failed; Err is set only on failure.
type Enrichment struct {
	Insights *Insights
	Err      error
}

func (e Enrichment) OK() bool { return e.Err == nil && e.Insights != nil }

type Adapter struct {
	gen     Generator
	limiter *rate.Limiter
	timeout time.Duration
}

type Option func(*Adapter)

// WithTimeout bounds a single model call. Non-positive d keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRateLimit caps model calls per minute across all requests.
func WithRateLimit(rpm int) Option {
	return func(a *Adapter) {
		if rpm <= 0 {
			a.limiter = nil
			return
		}
		a.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
	}
}

// NewAdapter wraps gen. A nil gen yields an adapter that never enriches.
func NewAdapter(gen Generator, opts ...Option) *Adapter {
	a := &Adapter{gen: gen, timeout: 15 * time.Second}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Adapter) Enabled() bool { return a != nil && a.gen != nil }

// Enrich makes one best-effort model call for in. There are no retries.
func (a *Adapter) Enrich(ctx context.Context, in CardContext) (res Enrichment) {
	if !a.Enabled() {
		return Enrichment{}
	}
	defer func() {
		if p := recover(); p != nil {
			res = Enrichment{Err: fmt.Errorf("ai: generator panic: %v", p)}
		}
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return Enrichment{Err: fmt.Errorf("ai: rate limit: %w", err)}
		}
	}

	text, err := a.gen.Generate(ctx, cardInsightsSystemPrompt, BuildPrompt(in))
	if err != nil {
		return Enrichment{Err: err}
	}

	block, ok := ExtractJSONBlock(text)
	if !ok {
		return Enrichment{Err: ErrNoJSON}
	}

	var rep modelReply
	if err := json.Unmarshal([]byte(block), &rep); err != nil {
		return Enrichment{Err: fmt.Errorf("%w: %v", ErrBadReply, err)}
	}

	return Enrichment{Insights: rep.insights(in)}
}

type modelReply struct {
	DueDate *struct {
		Date   string `json:"date"`
		Reason string `json:"reason"`
	} `json:"dueDate"`
	ListMovement *struct {
		List   string `json:"list"`
		Reason string `json:"reason"`
	} `json:"listMovement"`
	Priority string   `json:"priority"`
	Effort   string   `json:"effort"`
	Insights []string `json:"insights"`
}

var (
	priorities = map[string]bool{"low": true, "medium": true, "high": true}
	efforts    = map[string]bool{"small": true, "medium": true, "large": true}
)

// insights keeps only the parts of the reply that refer to real lists and
// valid dates.
func (r modelReply) insights(in CardContext) *Insights {
	out := &Insights{
		AIPowered: true,
		Insights:  &Assessment{Notes: []string{}},
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	if r.DueDate != nil {
		if d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(r.DueDate.Date), now.Location()); err == nil {
			y, m, day := d.Date()
			out.DueDateSuggestion = &DueDateHint{
				Date:   time.Date(y, m, day, 23, 59, 59, 999*int(time.Millisecond), d.Location()),
				Reason: strings.TrimSpace(r.DueDate.Reason),
			}
		}
	}

	if r.ListMovement != nil {
		want := strings.ToLower(strings.TrimSpace(r.ListMovement.List))
		for _, l := range in.Lists {
			if strings.ToLower(l.Title) == want && l.ID != in.Card.ListID {
				out.ListMovement = &ListHint{ListID: l.ID, ListTitle: l.Title, Reason: strings.TrimSpace(r.ListMovement.Reason)}
				break
			}
		}
	}

	if p := strings.ToLower(strings.TrimSpace(r.Priority)); priorities[p] {
		out.Insights.Priority = p
	}
	if e := strings.ToLower(strings.TrimSpace(r.Effort)); efforts[e] {
		out.Insights.Effort = e
	}
	for _, note := range r.Insights {
		if note = strings.TrimSpace(note); note != "" && len(out.Insights.Notes) < 3 {
			out.Insights.Notes = append(out.Insights.Notes, note)
		}
	}

	return out
}

// ContextFor builds the model input from the analysis view of a board.
func ContextFor(card analysis.Card, boardTitle string, cardCount int, lists []analysis.List, now time.Time) CardContext {
	return CardContext{
		Card:       card,
		BoardTitle: boardTitle,
		Lists:      lists,
		CardCount:  cardCount,
		Now:        now,
	}
}
