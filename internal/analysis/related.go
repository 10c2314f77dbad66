package analysis

import (
	"sort"
	"strings"
)

const (
	DefaultRelatedLimit        = 5
	DefaultSimilarityThreshold = 0.2
)

// FindRelatedCards ranks cards by word overlap with target. The target
// itself is never returned. A non-positive limit or a negative threshold
// falls back to the default; a zero threshold keeps every candidate.
func FindRelatedCards(target Card, cards []Card, limit int, threshold float64) []RelatedCard {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	if threshold < 0 {
		threshold = DefaultSimilarityThreshold
	}

	words := Tokenize(cardText(target))
	related := []RelatedCard{}
	for _, c := range cards {
		if c.ID == target.ID {
			continue
		}
		score := Similarity(words, Tokenize(cardText(c)))
		if score < threshold {
			continue
		}
		related = append(related, RelatedCard{
			Card: CardSummary{
				ID:      c.ID,
				Title:   c.Title,
				List:    c.ListID,
				DueDate: c.DueDate,
			},
			Similarity: score,
		})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Similarity > related[j].Similarity
	})

	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

func cardText(c Card) string {
	return strings.TrimSpace(c.Title + " " + c.Description)
}
