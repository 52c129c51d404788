package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
)

// Table is a rollup flattened to named columns and string cells.
type Table interface {
	Columns() []string
	Rows() [][]string
}

type table struct {
	columns []string
	rows    [][]string
}

func (t table) Columns() []string { return t.columns }
func (t table) Rows() [][]string  { return t.rows }

// Table names accepted by TableByName.
const (
	TableMessages       = "messages"
	TableConversations  = "conversations"
	TableCategories     = "categories"
	TableCategoryRoles  = "category_roles"
	TableTokensOverTime = "tokens_over_time"
	TableActivity       = "activity"
	TableKeywords       = "keywords"
	TableTimeByCategory = "time_by_category"
	TableTimeOverTime   = "time_over_time"
)

// TableNames lists every table in a stable order.
func TableNames() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var builders = map[string]func(analytics.Rollups) Table{
	TableMessages:       func(r analytics.Rollups) Table { return MessagesTable(r.Rows) },
	TableConversations:  func(r analytics.Rollups) Table { return ConversationsTable(r.Conversations) },
	TableCategories:     func(r analytics.Rollups) Table { return CategoriesTable(r.TokensByCategory) },
	TableCategoryRoles:  func(r analytics.Rollups) Table { return CategoryRolesTable(r.TokensByCategoryRole) },
	TableTokensOverTime: func(r analytics.Rollups) Table { return TokensOverTimeTable(r.TokensOverTime) },
	TableActivity:       func(r analytics.Rollups) Table { return ActivityTable(r.Activity) },
	TableKeywords:       func(r analytics.Rollups) Table { return KeywordsTable(r.Keywords) },
	TableTimeByCategory: func(r analytics.Rollups) Table { return TimeByCategoryTable(r.TimeByCategory) },
	TableTimeOverTime:   func(r analytics.Rollups) Table { return TimeOverTimeTable(r.TimeOverTime) },
}

// TableByName builds the named table from a result.
func TableByName(res *pipeline.Result, name string) (Table, bool) {
	b, ok := builders[name]
	if !ok {
		return nil, false
	}
	return b(res.Rollups), true
}

// WriteCSV writes a header row followed by every table row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// MessagesTable is the annotated row set.
func MessagesTable(rows []analytics.Row) Table {
	t := table{columns: []string{
		"conversation_id", "conversation_title", "message_id", "role", "created_at", "text",
		"tokens", "category", "date", "year", "month", "dow", "hour", "words",
	}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			r.ConversationID, r.ConversationTitle, r.MessageID, r.Role, formatTime(r.CreatedAt), r.Text,
			itoa(r.Tokens), r.Category, r.Date, itoa(r.Year), r.Month, r.DayOfWeek, itoa(r.Hour), itoa(r.Words),
		})
	}
	return t
}

// ConversationsTable is the conversation-level rollup. A missing assistant share is an empty cell.
func ConversationsTable(conv []analytics.ConversationSummary) Table {
	t := table{columns: []string{
		"conversation_id", "conversation_title", "first_at", "last_at", "messages", "tokens", "words",
		"user_tokens", "assistant_tokens", "duration_minutes", "active_minutes", "assistant_share", "category",
	}}
	for _, c := range conv {
		share := ""
		if c.AssistantShare != nil {
			share = ftoa(*c.AssistantShare)
		}
		t.rows = append(t.rows, []string{
			c.ConversationID, c.ConversationTitle, formatTime(c.FirstAt), formatTime(c.LastAt),
			itoa(c.Messages), itoa(c.Tokens), itoa(c.Words), itoa(c.UserTokens), itoa(c.AssistantTokens),
			ftoa(c.DurationMinutes), ftoa(c.ActiveMinutes), share, c.Category,
		})
	}
	return t
}

func CategoriesTable(cats []analytics.CategoryTokens) Table {
	t := table{columns: []string{"category", "tokens"}}
	for _, c := range cats {
		t.rows = append(t.rows, []string{c.Category, itoa(c.Tokens)})
	}
	return t
}

func CategoryRolesTable(cats []analytics.CategoryRoleTokens) Table {
	t := table{columns: []string{"category", "role", "tokens"}}
	for _, c := range cats {
		t.rows = append(t.rows, []string{c.Category, c.Role, itoa(c.Tokens)})
	}
	return t
}

func TokensOverTimeTable(points []analytics.TokenPoint) Table {
	t := table{columns: []string{"time", "role", "tokens"}}
	for _, p := range points {
		t.rows = append(t.rows, []string{p.Time, p.Role, itoa(p.Tokens)})
	}
	return t
}

// ActivityTable has a dow column followed by one column per hour present.
func ActivityTable(m analytics.ActivityMatrix) Table {
	t := table{columns: []string{"dow"}}
	for _, h := range m.Hours {
		t.columns = append(t.columns, itoa(h))
	}
	for d, day := range m.Days {
		row := []string{day}
		for _, v := range m.Tokens[d] {
			row = append(row, itoa(v))
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func KeywordsTable(kws []analytics.KeywordCount) Table {
	t := table{columns: []string{"keyword", "count"}}
	for _, k := range kws {
		t.rows = append(t.rows, []string{k.Keyword, itoa(k.Count)})
	}
	return t
}

func TimeByCategoryTable(cats []analytics.CategoryTime) Table {
	t := table{columns: []string{"category", "active_minutes"}}
	for _, c := range cats {
		t.rows = append(t.rows, []string{c.Category, ftoa(c.ActiveMinutes)})
	}
	return t
}

func TimeOverTimeTable(points []analytics.TimePoint) Table {
	t := table{columns: []string{"time", "active_minutes"}}
	for _, p := range points {
		t.rows = append(t.rows, []string{p.Time, ftoa(p.ActiveMinutes)})
	}
	return t
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
