package ai

import (
	"fmt"
	"strings"
	"time"

	"taskboard-backend/internal/analysis"
)

// CardContext is everything the model sees about one card.
type CardContext struct {
	Card       analysis.Card
	BoardTitle string
	Lists      []analysis.List
	CardCount  int
	Now        time.Time
}

func (c CardContext) currentList() string {
	for _, l := range c.Lists {
		if l.ID == c.Card.ListID {
			return l.Title
		}
	}
	return ""
}

const replyShape = `{
  "dueDate": {"date": "YYYY-MM-DD", "reason": "why this date"} or null,
  "listMovement": {"list": "exact name from board_lists", "reason": "why move"} or null,
  "priority": "low|medium|high",
  "effort": "small|medium|large",
  "insights": ["short tip", "..."]
}`

// BuildPrompt renders the user message for one card.
func BuildPrompt(in CardContext) string {
	var b strings.Builder

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	fmt.Fprintf(&b, "today: %s (%s)\n", now.Format(time.DateOnly), now.Weekday())

	if in.BoardTitle != "" {
		b.WriteString("board: ")
		b.WriteString(in.BoardTitle)
		b.WriteString("\n")
	}

	b.WriteString("card_title: ")
	b.WriteString(strings.TrimSpace(in.Card.Title))
	b.WriteString("\n")

	if d := strings.TrimSpace(in.Card.Description); d != "" {
		b.WriteString("card_description: ")
		b.WriteString(d)
		b.WriteString("\n")
	}

	if cur := in.currentList(); cur != "" {
		b.WriteString("current_list: ")
		b.WriteString(cur)
		b.WriteString("\n")
	}

	if in.Card.DueDate != nil {
		b.WriteString("current_due_date: ")
		b.WriteString(in.Card.DueDate.Format(time.DateOnly))
		b.WriteString("\n")
	}

	if len(in.Lists) > 0 {
		titles := make([]string, len(in.Lists))
		for i, l := range in.Lists {
			titles[i] = l.Title
		}
		b.WriteString("board_lists: ")
		b.WriteString(strings.Join(titles, ", "))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "cards_on_board: %d\n\n", in.CardCount)

	b.WriteString("Suggest a due date, a list movement, a priority, an effort estimate and up to three insights.\n")
	b.WriteString("Reply with a JSON object of exactly this shape:\n")
	b.WriteString(replyShape)
	b.WriteString("\n")

	return b.String()
}
