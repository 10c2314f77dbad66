// Package analysis derives due-date, list-movement and related-card
// suggestions from the free text of a card. Everything here is pure and
// safe for concurrent use.
package analysis

import "time"

var smartTips = []Tip{
	{Icon: "📅", Tip: `Mention a timeframe like "tomorrow", "next week" or "in 3 days" to get due date suggestions.`},
	{Icon: "📋", Tip: `Words like "in progress", "done", "testing" or "blocked" help suggest which list a card belongs in.`},
	{Icon: "🔗", Tip: "Descriptive titles and descriptions make it easier to find related cards on the board."},
}

// Analyzer produces recommendations for a single card.
type Analyzer struct {
	now       func() time.Time
	limit     int
	threshold float64
}

type Option func(*Analyzer)

// WithClock overrides the time source used to resolve relative dates.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithRelated sets the related-card limit and similarity threshold.
func WithRelated(limit int, threshold float64) Option {
	return func(a *Analyzer) {
		a.limit = limit
		a.threshold = threshold
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		now:       time.Now,
		limit:     DefaultRelatedLimit,
		threshold: DefaultSimilarityThreshold,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// AnalyzeCard runs every rule against card using the cards and lists of its board.
func (a *Analyzer) AnalyzeCard(card Card, cards []Card, lists []List) Result {
	now := a.now()
	res := Result{
		SuggestedDueDates: []DateSuggestion{},
		RelatedCards:      []RelatedCard{},
	}

	titleDate, hasTitle := ParseDate(card.Title, now)
	if hasTitle {
		res.SuggestedDueDates = append(res.SuggestedDueDates, DateSuggestion{
			Date:       titleDate,
			Source:     SourceTitle,
			Confidence: ConfidenceHigh,
			Reason:     "Date phrase found in card title",
		})
	}
	if descDate, ok := ParseDate(card.Description, now); ok && (!hasTitle || !descDate.Equal(titleDate)) {
		res.SuggestedDueDates = append(res.SuggestedDueDates, DateSuggestion{
			Date:       descDate,
			Source:     SourceDescription,
			Confidence: ConfidenceMedium,
			Reason:     "Date phrase found in card description",
		})
	}

	res.SuggestedListMovement = SuggestListMovement(card.Title+" "+card.Description, card.ListID, lists)
	res.RelatedCards = FindRelatedCards(card, cards, a.limit, a.threshold)

	if len(res.SuggestedDueDates) == 0 && res.SuggestedListMovement == nil && len(res.RelatedCards) == 0 {
		res.SmartTips = append([]Tip(nil), smartTips...)
	}
	return res
}
