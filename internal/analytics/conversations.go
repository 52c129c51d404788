package analytics

import (
	"sort"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/categorise"
)

// ConversationSummary is one row of the conversation-level rollup.
type ConversationSummary struct {
	ConversationID    string    `json:"conversation_id"`
	ConversationTitle string    `json:"conversation_title"`
	FirstAt           time.Time `json:"first_at"`
	LastAt            time.Time `json:"last_at"`
	Messages          int       `json:"messages"`
	Tokens            int       `json:"tokens"`
	Words             int       `json:"words"`
	UserTokens        int       `json:"user_tokens"`
	AssistantTokens   int       `json:"assistant_tokens"`
	DurationMinutes   float64   `json:"duration_minutes"`
	ActiveMinutes     float64   `json:"active_minutes"`
	// AssistantShare is nil when the conversation has no tokens.
	AssistantShare *float64 `json:"assistant_share"`
	// Category is the conversation's dominant category by tokens.
	Category string `json:"category"`
}

type convKey struct{ id, title string }

// ConversationLevel groups rows by (conversation id, title), ordered by tokens descending.
func ConversationLevel(rows []Row) []ConversationSummary {
	if len(rows) == 0 {
		return nil
	}

	type acc struct {
		sum   ConversationSummary
		times []time.Time
		byCat map[string]int
	}
	groups := make(map[convKey]*acc)
	var order []convKey

	for _, r := range rows {
		k := convKey{r.ConversationID, r.ConversationTitle}
		a, ok := groups[k]
		if !ok {
			a = &acc{
				sum: ConversationSummary{
					ConversationID:    r.ConversationID,
					ConversationTitle: r.ConversationTitle,
					FirstAt:           r.CreatedAt,
					LastAt:            r.CreatedAt,
				},
				byCat: make(map[string]int),
			}
			groups[k] = a
			order = append(order, k)
		}
		s := &a.sum
		if r.CreatedAt.Before(s.FirstAt) {
			s.FirstAt = r.CreatedAt
		}
		if r.CreatedAt.After(s.LastAt) {
			s.LastAt = r.CreatedAt
		}
		s.Messages++
		s.Tokens += r.Tokens
		s.Words += r.Words
		switch {
		case r.IsUser():
			s.UserTokens += r.Tokens
		case r.IsAssistant():
			s.AssistantTokens += r.Tokens
		}
		a.times = append(a.times, r.CreatedAt)
		a.byCat[r.Category] += r.Tokens
	}

	// Deterministic base order before the token sort.
	sort.Slice(order, func(i, j int) bool {
		if order[i].id != order[j].id {
			return order[i].id < order[j].id
		}
		return order[i].title < order[j].title
	})

	out := make([]ConversationSummary, 0, len(order))
	for _, k := range order {
		a := groups[k]
		s := a.sum
		s.DurationMinutes = s.LastAt.Sub(s.FirstAt).Minutes()
		s.ActiveMinutes = ActiveMinutes(a.times)
		if s.Tokens > 0 {
			share := float64(s.AssistantTokens) / float64(s.Tokens)
			s.AssistantShare = &share
		}
		s.Category = dominantCategory(a.byCat)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Tokens > out[j].Tokens })
	return out
}

// dominantCategory picks the category with most tokens; ties go to the higher-priority rule.
func dominantCategory(byCat map[string]int) string {
	best := ""
	bestTokens := -1
	for cat, n := range byCat {
		if n > bestTokens || n == bestTokens && categorise.Priority(cat) < categorise.Priority(best) {
			best, bestTokens = cat, n
		}
	}
	if best == "" {
		return categorise.Default
	}
	return best
}

func timesByConversation(rows []Row) map[string][]time.Time {
	out := make(map[string][]time.Time)
	for _, r := range rows {
		out[r.ConversationID] = append(out[r.ConversationID], r.CreatedAt)
	}
	return out
}
