package analysis

import "time"

// Card is the read-only view of a card the analyzer works on.
type Card struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ListID      int        `json:"list_id"`
	BoardID     int        `json:"board_id"`
	DueDate     *time.Time `json:"due_date"`
}

type List struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	BoardID int    `json:"board_id"`
}

type DateSuggestion struct {
	Date       time.Time `json:"date"`
	Source     string    `json:"source"`
	Confidence string    `json:"confidence"`
	Reason     string    `json:"reason"`
}

type ListSuggestion struct {
	ListID    int    `json:"listId"`
	ListTitle string `json:"listTitle"`
	Reason    string `json:"reason"`
}

// CardSummary is the minimal card shape returned with related cards.
type CardSummary struct {
	ID      int        `json:"id"`
	Title   string     `json:"title"`
	List    int        `json:"list"`
	DueDate *time.Time `json:"dueDate"`
}

type RelatedCard struct {
	Card       CardSummary `json:"card"`
	Similarity float64     `json:"similarity"`
}

type Tip struct {
	Icon string `json:"icon"`
	Tip  string `json:"tip"`
}

// Result is the aggregate recommendation for one card.
// SmartTips is set only when the three suggestion categories are all empty.
type Result struct {
	SuggestedDueDates     []DateSuggestion `json:"suggestedDueDates"`
	SuggestedListMovement *ListSuggestion  `json:"suggestedListMovement"`
	RelatedCards          []RelatedCard    `json:"relatedCards"`
	SmartTips             []Tip            `json:"smartTips,omitempty"`
}

const (
	SourceTitle       = "title"
	SourceDescription = "description"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)
