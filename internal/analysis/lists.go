package analysis

import "strings"

type movementRule struct {
	keywords []string
	targets  []string
	reason   string
}

// Checked in order; the first rule with a keyword hit and a usable target list wins.
var movementRules = []movementRule{
	{
		keywords: []string{"in progress", "working on", "started", "starting", "doing", "wip"},
		targets:  []string{"progress", "doing", "working"},
		reason:   "Keywords suggest task is in progress",
	},
	{
		keywords: []string{"done", "completed", "finished", "resolved", "shipped"},
		targets:  []string{"done", "complete", "finished"},
		reason:   "Keywords suggest task is completed",
	},
	{
		keywords: []string{"test", "review", "verify", "qa"},
		targets:  []string{"test", "review", "qa"},
		reason:   "Keywords suggest task needs testing/review",
	},
	{
		keywords: []string{"blocked", "waiting", "stuck", "on hold"},
		targets:  []string{"blocked", "waiting", "hold"},
		reason:   "Keywords suggest task is blocked",
	},
}

// SuggestListMovement maps status keywords in text to a list on the board.
// It returns nil when nothing matches or the only match is the current list.
func SuggestListMovement(text string, currentListID int, lists []List) *ListSuggestion {
	t := strings.ToLower(text)
	if t == "" {
		return nil
	}

	for _, rule := range movementRules {
		if !containsAny(t, rule.keywords) {
			continue
		}
		for _, l := range lists {
			if !containsAny(strings.ToLower(l.Title), rule.targets) {
				continue
			}
			if l.ID == currentListID {
				break
			}
			return &ListSuggestion{ListID: l.ID, ListTitle: l.Title, Reason: rule.reason}
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
