package analytics

// Totals are the headline numbers for a row set.
type Totals struct {
	Messages            int     `json:"messages"`
	Conversations       int     `json:"conversations"`
	Tokens              int     `json:"tokens"`
	UserTokens          int     `json:"user_tokens"`
	AssistantTokens     int     `json:"assistant_tokens"`
	AssistantTokenShare float64 `json:"assistant_token_share"`
	Words               int     `json:"words"`
	ActiveMinutes       float64 `json:"active_minutes"`
}

// ComputeTotals sums the row set. AssistantTokenShare is 0 when there are no tokens.
func ComputeTotals(rows []Row) Totals {
	if len(rows) == 0 {
		return Totals{}
	}

	var t Totals
	convs := make(map[string]bool)
	for _, r := range rows {
		t.Messages++
		t.Tokens += r.Tokens
		t.Words += r.Words
		switch {
		case r.IsUser():
			t.UserTokens += r.Tokens
		case r.IsAssistant():
			t.AssistantTokens += r.Tokens
		}
		convs[r.ConversationID] = true
	}
	t.Conversations = len(convs)
	if t.Tokens > 0 {
		t.AssistantTokenShare = float64(t.AssistantTokens) / float64(t.Tokens)
	}
	for _, times := range timesByConversation(rows) {
		t.ActiveMinutes += ActiveMinutes(times)
	}
	return t
}
