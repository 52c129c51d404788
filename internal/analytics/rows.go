// Package analytics builds the annotated message table and every rollup derived from it.
//
// All functions are pure: they take a row slice, never modify it, and return
// freshly allocated results. An empty row set yields empty results, never an error.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/categorise"
	"github.com/MikeSquared-Agency/wrapped/internal/export"
	"github.com/MikeSquared-Agency/wrapped/internal/tokens"
)

// DateLayout is the layout of Row.Date and all date bucket labels.
const DateLayout = "2006-01-02"

// Row is one annotated message.
type Row struct {
	ConversationID    string    `json:"conversation_id"`
	ConversationTitle string    `json:"conversation_title"`
	MessageID         string    `json:"message_id"`
	Role              string    `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
	Text              string    `json:"text"`
	Tokens            int       `json:"tokens"`
	Category          string    `json:"category"`
	Date              string    `json:"date"`
	Year              int       `json:"year"`
	Month             string    `json:"month"`
	DayOfWeek         string    `json:"dow"`
	Hour              int       `json:"hour"`
	Words             int       `json:"words"`
}

// IsUser reports whether the row was authored by the user.
func (r Row) IsUser() bool { return r.Role == export.RoleUser }

// IsAssistant reports whether the row was authored by the assistant.
func (r Row) IsAssistant() bool { return r.Role == export.RoleAssistant }

// BuildRows annotates messages with tokens, category and calendar fields.
// Calendar fields use each timestamp's own location, which the parser set to
// the configured timezone. Rows come back ordered by creation time.
func BuildRows(msgs []export.Message, counter tokens.Counter) []Row {
	if len(msgs) == 0 {
		return nil
	}

	rows := make([]Row, 0, len(msgs))
	for _, m := range msgs {
		if m.CreatedAt.IsZero() {
			continue
		}
		t := m.CreatedAt
		rows = append(rows, Row{
			ConversationID:    m.ConversationID,
			ConversationTitle: m.ConversationTitle,
			MessageID:         m.MessageID,
			Role:              m.Role,
			CreatedAt:         t,
			Text:              m.Text,
			Tokens:            counter.Count(m.Text),
			Category:          categorise.Categorise(m.Text),
			Date:              t.Format(DateLayout),
			Year:              t.Year(),
			Month:             t.Format("2006-01"),
			DayOfWeek:         t.Weekday().String(),
			Hour:              t.Hour(),
			Words:             len(strings.Fields(m.Text)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows
}
