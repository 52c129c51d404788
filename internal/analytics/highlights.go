package analytics

import (
	"sort"
	"time"
)

// TopConversation describes the conversation with the most tokens.
type TopConversation struct {
	Title    string    `json:"title"`
	Tokens   int       `json:"tokens"`
	Messages int       `json:"messages"`
	FirstAt  time.Time `json:"first_at"`
}

// LongestReply describes the assistant message with the most tokens.
type LongestReply struct {
	ConversationTitle string    `json:"conversation_title"`
	Tokens            int       `json:"tokens"`
	CreatedAt         time.Time `json:"created_at"`
}

// Highlights are the single-value standouts of a row set. Pointer fields are
// nil when the row set has nothing to report.
type Highlights struct {
	PeakDay          *string          `json:"peak_day"`
	PeakDayTokens    int              `json:"peak_day_tokens"`
	BusiestHour      *int             `json:"busiest_hour"`
	TopConversation  *TopConversation `json:"top_conversation"`
	LongestAssistant *LongestReply    `json:"longest_assistant"`
}

// Empty reports whether no highlight is present.
func (h Highlights) Empty() bool {
	return h.PeakDay == nil && h.BusiestHour == nil && h.TopConversation == nil && h.LongestAssistant == nil
}

// ComputeHighlights picks the peak day, busiest hour, top conversation and
// longest assistant reply. conv is the output of ConversationLevel for rows.
//
// Ties resolve to the earliest day, the lowest hour, the first conversation in
// conv and the first reply in row order.
func ComputeHighlights(rows []Row, conv []ConversationSummary) Highlights {
	var h Highlights
	if len(rows) == 0 {
		return h
	}

	dayTokens := make(map[string]int)
	var hourTokens [24]int
	var hourSeen [24]bool
	var longest *Row
	for i := range rows {
		r := &rows[i]
		dayTokens[r.Date] += r.Tokens
		hourTokens[r.Hour] += r.Tokens
		hourSeen[r.Hour] = true
		if r.IsAssistant() && (longest == nil || r.Tokens > longest.Tokens) {
			longest = r
		}
	}

	days := make([]string, 0, len(dayTokens))
	for d := range dayTokens {
		days = append(days, d)
	}
	sort.Strings(days)
	sort.SliceStable(days, func(i, j int) bool { return dayTokens[days[i]] > dayTokens[days[j]] })
	peak := days[0]
	h.PeakDay = &peak
	h.PeakDayTokens = dayTokens[peak]

	best := -1
	for hr := range hourTokens {
		if hourSeen[hr] && (best < 0 || hourTokens[hr] > hourTokens[best]) {
			best = hr
		}
	}
	h.BusiestHour = &best

	if len(conv) > 0 {
		top := conv[0]
		h.TopConversation = &TopConversation{
			Title:    top.ConversationTitle,
			Tokens:   top.Tokens,
			Messages: top.Messages,
			FirstAt:  top.FirstAt,
		}
	}

	if longest != nil {
		h.LongestAssistant = &LongestReply{
			ConversationTitle: longest.ConversationTitle,
			Tokens:            longest.Tokens,
			CreatedAt:         longest.CreatedAt,
		}
	}
	return h
}
