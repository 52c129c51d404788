package analytics

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/categorise"
	"github.com/MikeSquared-Agency/wrapped/internal/export"
	"github.com/MikeSquared-Agency/wrapped/internal/tokens"
)

// 2026-03-02 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.March, day, hour, minute, 0, 0, time.UTC)
}

func msg(conv, id, role, text string, t time.Time) export.Message {
	return export.Message{
		ConversationID:    conv,
		ConversationTitle: "title " + conv,
		MessageID:         id,
		Role:              role,
		CreatedAt:         t,
		Text:              text,
	}
}

func sqlAnswer() string {
	line := "SELECT id, name FROM users WHERE active = true ORDER BY created_at; "
	return strings.Repeat(line, 10)[:500]
}

func scenarioRows() []Row {
	return BuildRows([]export.Message{
		msg("c1", "m3", export.RoleUser, "Thanks", at(2, 14, 0)),
		msg("c1", "m1", export.RoleUser, "Hello", at(2, 9, 0)),
		msg("c1", "m2", export.RoleAssistant, sqlAnswer(), at(2, 9, 1)),
	}, tokens.Heuristic{})
}

func TestEndToEndScenario(t *testing.T) {
	rows := scenarioRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantCat := map[string]string{
		"m1": categorise.Personal,
		"m2": categorise.DataEngineering,
		"m3": categorise.Personal,
	}
	for _, r := range rows {
		if r.Category != wantCat[r.MessageID] {
			t.Errorf("category(%s) = %q, want %q", r.MessageID, r.Category, wantCat[r.MessageID])
		}
	}

	conv := ConversationLevel(rows)
	if len(conv) != 1 || conv[0].Messages != 3 {
		t.Fatalf("conversation rollup = %+v, want one row with 3 messages", conv)
	}

	m := ActivityHeatmap(rows)
	if !reflect.DeepEqual(m.Hours, []int{9, 14}) {
		t.Errorf("hours = %v, want [9 14]", m.Hours)
	}
	for d, day := range m.Days {
		for h, hr := range m.Hours {
			got := m.Tokens[d][h]
			nonzero := day == "Monday" && (hr == 9 || hr == 14)
			if nonzero && got == 0 || !nonzero && got != 0 {
				t.Errorf("cell %s/%d = %d", day, hr, got)
			}
		}
	}
}

func TestBuildRows_CalendarFields(t *testing.T) {
	mel, err := time.LoadLocation("Australia/Melbourne")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	rows := BuildRows([]export.Message{
		msg("c", "1", export.RoleUser, "hello there", time.Unix(1767225600, 0).In(mel)),
	}, tokens.Heuristic{})

	r := rows[0]
	if r.Date != "2026-01-01" || r.Hour != 11 || r.Year != 2026 || r.Month != "2026-01" {
		t.Errorf("calendar fields = %s %d %d %s", r.Date, r.Hour, r.Year, r.Month)
	}
	if r.DayOfWeek != "Thursday" {
		t.Errorf("dow = %q, want Thursday", r.DayOfWeek)
	}
	if r.Words != 2 {
		t.Errorf("words = %d, want 2", r.Words)
	}
}

func TestBuildRows_OrderedByTime(t *testing.T) {
	rows := scenarioRows()
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.Before(rows[i-1].CreatedAt) {
			t.Fatalf("rows out of order at %d", i)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	rows := scenarioRows()
	rows = append(rows, Row{ConversationID: "c2", Role: export.RoleTool, Tokens: 7, CreatedAt: at(3, 10, 0)})

	got := ComputeTotals(rows)
	if got.Messages != 4 || got.Conversations != 2 {
		t.Errorf("messages/conversations = %d/%d, want 4/2", got.Messages, got.Conversations)
	}
	if got.UserTokens+got.AssistantTokens > got.Tokens {
		t.Errorf("user %d + assistant %d > total %d", got.UserTokens, got.AssistantTokens, got.Tokens)
	}
	if got.Tokens != got.UserTokens+got.AssistantTokens+7 {
		t.Errorf("tokens = %d, want role sums plus tool tokens", got.Tokens)
	}
	want := float64(got.AssistantTokens) / float64(got.Tokens)
	if got.AssistantTokenShare != want {
		t.Errorf("share = %v, want %v", got.AssistantTokenShare, want)
	}
}

func TestComputeTotals_ZeroTokens(t *testing.T) {
	got := ComputeTotals([]Row{{ConversationID: "c", Role: export.RoleAssistant, CreatedAt: at(2, 9, 0)}})
	if got.AssistantTokenShare != 0 {
		t.Errorf("share = %v, want 0", got.AssistantTokenShare)
	}
}

func TestConversationLevel(t *testing.T) {
	rows := []Row{
		{ConversationID: "a", ConversationTitle: "A", Role: export.RoleUser, Tokens: 5, Category: categorise.AI, CreatedAt: at(2, 9, 0)},
		{ConversationID: "a", ConversationTitle: "A", Role: export.RoleAssistant, Tokens: 15, Category: categorise.AI, CreatedAt: at(2, 9, 20)},
		{ConversationID: "b", ConversationTitle: "B", Role: export.RoleUser, Tokens: 30, Category: categorise.Writing, CreatedAt: at(3, 9, 0)},
		{ConversationID: "z", ConversationTitle: "Z", Role: export.RoleUser, Tokens: 0, CreatedAt: at(4, 9, 0)},
	}

	got := ConversationLevel(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(got))
	}
	if got[0].ConversationID != "b" || got[1].ConversationID != "a" || got[2].ConversationID != "z" {
		t.Errorf("order = %s,%s,%s, want b,a,z", got[0].ConversationID, got[1].ConversationID, got[2].ConversationID)
	}

	a := got[1]
	if a.DurationMinutes != 20 || a.ActiveMinutes != 20 {
		t.Errorf("duration/active = %v/%v, want 20/20", a.DurationMinutes, a.ActiveMinutes)
	}
	if a.AssistantShare == nil || *a.AssistantShare != 0.75 {
		t.Errorf("assistant share = %v, want 0.75", a.AssistantShare)
	}
	if a.Category != categorise.AI {
		t.Errorf("category = %q", a.Category)
	}
	if got[2].AssistantShare != nil {
		t.Errorf("zero-token conversation share = %v, want nil", *got[2].AssistantShare)
	}
	if got[0].DurationMinutes != 0 {
		t.Errorf("single message duration = %v, want 0", got[0].DurationMinutes)
	}
}

func TestDominantCategory_TieUsesPriority(t *testing.T) {
	got := dominantCategory(map[string]int{categorise.Writing: 10, categorise.DataEngineering: 10})
	if got != categorise.DataEngineering {
		t.Errorf("dominantCategory = %q, want %q", got, categorise.DataEngineering)
	}
}

func TestSplitSessions(t *testing.T) {
	times := []time.Time{at(2, 10, 0), at(2, 9, 0), at(2, 9, 30), at(2, 10, 45)}
	sessions := SplitSessions(times)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d: %+v", len(sessions), sessions)
	}
	if sessions[0].Messages != 3 || sessions[0].Minutes() != 60 {
		t.Errorf("first session = %d msgs %v min, want 3 / 60", sessions[0].Messages, sessions[0].Minutes())
	}
	if sessions[1].Minutes() != 0 {
		t.Errorf("lone message session = %v min, want 0", sessions[1].Minutes())
	}
	if got := ActiveMinutes(times); got != 60 {
		t.Errorf("ActiveMinutes = %v, want 60", got)
	}
}

func TestFilter(t *testing.T) {
	rows := []Row{
		{Date: "2025-12-31", Year: 2025},
		{Date: "2026-01-01", Year: 2026},
		{Date: "2026-02-15", Year: 2026},
	}
	tests := []struct {
		name             string
		year, start, end string
		want             int
	}{
		{"all time", AllTime, "", "", 3},
		{"empty year", "", "", "", 3},
		{"year", "2026", "", "", 2},
		{"start inclusive", "", "2026-01-01", "", 2},
		{"end inclusive", "", "", "2026-01-01", 2},
		{"range", "", "2026-01-01", "2026-01-31", 1},
		{"year and range", "2025", "2026-01-01", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.year, tt.start, tt.end)
			if err != nil {
				t.Fatalf("ParseFilter: %v", err)
			}
			if got := len(f.Apply(rows)); got != tt.want {
				t.Errorf("Apply kept %d rows, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for _, in := range [][3]string{{"twenty", "", ""}, {"", "2026/01/01", ""}, {"", "", "tomorrow"}} {
		if _, err := ParseFilter(in[0], in[1], in[2]); err == nil {
			t.Errorf("ParseFilter(%q) = nil error, want FilterError", in)
		}
	}
}

func TestFilter_ApplyCopies(t *testing.T) {
	rows := []Row{{Date: "2026-01-01", Tokens: 1}}
	out := Filter{}.Apply(rows)
	out[0].Tokens = 99
	if rows[0].Tokens != 1 {
		t.Error("Apply returned a slice aliasing its input")
	}
}

func TestYearOptions(t *testing.T) {
	got := YearOptions([]Row{{Year: 2026}, {Year: 2024}, {Year: 2026}})
	want := []string{AllTime, "2024", "2026"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("YearOptions = %v, want %v", got, want)
	}
}

func TestTokensByCategory(t *testing.T) {
	rows := []Row{
		{Category: categorise.AI, Role: export.RoleUser, Tokens: 5},
		{Category: categorise.Writing, Role: export.RoleUser, Tokens: 20},
		{Category: categorise.AI, Role: export.RoleAssistant, Tokens: 10},
	}
	got := TokensByCategory(rows)
	want := []CategoryTokens{{categorise.Writing, 20}, {categorise.AI, 15}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokensByCategory = %+v, want %+v", got, want)
	}

	byRole := TokensByCategoryAndRole(rows)
	if len(byRole) != 3 {
		t.Fatalf("expected 3 category/role groups, got %+v", byRole)
	}
	var sum int
	for _, r := range byRole {
		sum += r.Tokens
	}
	if sum != 35 {
		t.Errorf("category/role total = %d, want 35", sum)
	}
}

func TestFreqBucket(t *testing.T) {
	melbourne, err := time.LoadLocation("Australia/Melbourne")
	if err != nil {
		t.Fatal(err)
	}
	wed := time.Date(2026, time.March, 4, 23, 30, 0, 0, time.UTC)
	sun := time.Date(2026, time.March, 8, 1, 0, 0, 0, time.UTC)
	tests := []struct {
		freq Freq
		t    time.Time
		want string
	}{
		{Daily, wed, "2026-03-04"},
		{Weekly, wed, "2026-03-02"},
		{Weekly, sun, "2026-03-02"},
		{Monthly, wed, "2026-03-01"},
		{Weekly, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), "2026-03-02"},
		{Weekly, time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC), "2025-12-29"},
		{Monthly, time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC), "2026-03-01"},
		// 2026-03-08T23:30Z is already Monday in Melbourne.
		{Weekly, time.Date(2026, time.March, 8, 23, 30, 0, 0, time.UTC).In(melbourne), "2026-03-09"},
	}
	for _, tt := range tests {
		if got := tt.freq.Bucket(tt.t); got != tt.want {
			t.Errorf("%s.Bucket(%v) = %q, want %q", tt.freq, tt.t, got, tt.want)
		}
	}
}

func TestParseFreq(t *testing.T) {
	tests := []struct {
		in      string
		want    Freq
		wantErr bool
	}{
		{"", Daily, false},
		{"W", Weekly, false},
		{"month", Monthly, false},
		{"hourly", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFreq(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFreq(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestTokensOverTime(t *testing.T) {
	rows := []Row{
		{Role: export.RoleUser, Tokens: 1, CreatedAt: at(2, 9, 0)},
		{Role: export.RoleUser, Tokens: 2, CreatedAt: at(2, 18, 0)},
		{Role: export.RoleAssistant, Tokens: 4, CreatedAt: at(3, 9, 0)},
		{Role: export.RoleUser, Tokens: 8, CreatedAt: at(4, 9, 0)},
	}
	got := TokensOverTime(rows, Daily)
	want := []TokenPoint{
		{Time: "2026-03-03", Role: export.RoleAssistant, Tokens: 4},
		{Time: "2026-03-02", Role: export.RoleUser, Tokens: 3},
		{Time: "2026-03-04", Role: export.RoleUser, Tokens: 8},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokensOverTime = %+v, want %+v", got, want)
	}
}

func TestTimeRollups(t *testing.T) {
	conv := []ConversationSummary{
		{Category: categorise.AI, ActiveMinutes: 10, FirstAt: at(2, 9, 0)},
		{Category: categorise.Writing, ActiveMinutes: 30, FirstAt: at(3, 9, 0)},
		{Category: categorise.AI, ActiveMinutes: 5, FirstAt: at(3, 12, 0)},
	}
	byCat := TimeByCategory(conv)
	if byCat[0].Category != categorise.Writing || byCat[1].ActiveMinutes != 15 {
		t.Errorf("TimeByCategory = %+v", byCat)
	}
	overTime := TimeOverTime(conv, Monthly)
	if len(overTime) != 1 || overTime[0].ActiveMinutes != 45 {
		t.Errorf("TimeOverTime = %+v", overTime)
	}
}

func TestActivityHeatmap_SevenRows(t *testing.T) {
	// Saturday only.
	m := ActivityHeatmap([]Row{{Tokens: 3, Hour: 22, CreatedAt: time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC)}})
	if !reflect.DeepEqual(m.Days, Weekdays) {
		t.Fatalf("days = %v", m.Days)
	}
	if len(m.Tokens) != 7 {
		t.Fatalf("rows = %d, want 7", len(m.Tokens))
	}
	if m.At("Saturday", 22) != 3 || m.At("Monday", 22) != 0 {
		t.Errorf("cells = %v", m.Tokens)
	}
	for _, h := range m.Hours {
		if h < 0 || h > 23 {
			t.Errorf("hour %d out of range", h)
		}
	}
}

func TestTopKeywords(t *testing.T) {
	rows := []Row{
		{Text: "Kafka topics and kafka consumers"},
		{Text: "the consumers lag; 2026 offsets my_var can't"},
		{Text: "SELECT kafka FROM streams"},
	}
	got := TopKeywords(rows, 3)
	want := []KeywordCount{{"kafka", 3}, {"consumers", 2}, {"topics", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords = %+v, want %+v", got, want)
	}

	all := TopKeywords(rows, 50)
	for _, k := range all {
		if k.Keyword == "2026" || k.Keyword == "my_var" || k.Keyword == "the" || k.Keyword == "select" {
			t.Errorf("unexpected keyword %q", k.Keyword)
		}
	}
}

func TestComputeHighlights(t *testing.T) {
	rows := []Row{
		{ConversationTitle: "A", Role: export.RoleAssistant, Tokens: 10, Date: "2026-03-03", Hour: 14, CreatedAt: at(3, 14, 0)},
		{ConversationTitle: "B", Role: export.RoleAssistant, Tokens: 10, Date: "2026-03-02", Hour: 9, CreatedAt: at(2, 9, 0)},
		{ConversationTitle: "B", Role: export.RoleUser, Tokens: 2, Date: "2026-03-04", Hour: 9, CreatedAt: at(4, 9, 0)},
	}
	conv := ConversationLevel(rows)
	h := ComputeHighlights(rows, conv)

	if h.PeakDay == nil || *h.PeakDay != "2026-03-02" || h.PeakDayTokens != 10 {
		t.Errorf("peak day = %v/%d, want earliest tied day", h.PeakDay, h.PeakDayTokens)
	}
	if h.BusiestHour == nil || *h.BusiestHour != 9 {
		t.Errorf("busiest hour = %v, want 9", h.BusiestHour)
	}
	if h.TopConversation == nil || h.TopConversation.Title != "B" || h.TopConversation.Messages != 2 {
		t.Errorf("top conversation = %+v", h.TopConversation)
	}
	if h.LongestAssistant == nil || h.LongestAssistant.ConversationTitle != "A" {
		t.Errorf("longest assistant = %+v", h.LongestAssistant)
	}
}

func TestEmptyInputs(t *testing.T) {
	var rows []Row
	if got := BuildRows(nil, tokens.Heuristic{}); len(got) != 0 {
		t.Errorf("BuildRows = %v", got)
	}
	if got := ComputeTotals(rows); got != (Totals{}) {
		t.Errorf("ComputeTotals = %+v", got)
	}
	if got := ConversationLevel(rows); len(got) != 0 {
		t.Errorf("ConversationLevel = %v", got)
	}
	if got := TokensByCategory(rows); len(got) != 0 {
		t.Errorf("TokensByCategory = %v", got)
	}
	if got := TokensByCategoryAndRole(rows); len(got) != 0 {
		t.Errorf("TokensByCategoryAndRole = %v", got)
	}
	if got := TokensOverTime(rows, Daily); len(got) != 0 {
		t.Errorf("TokensOverTime = %v", got)
	}
	if got := ActivityHeatmap(rows); !got.Empty() {
		t.Errorf("ActivityHeatmap = %+v", got)
	}
	if got := TopKeywords(rows, 25); len(got) != 0 {
		t.Errorf("TopKeywords = %v", got)
	}
	if got := ComputeHighlights(rows, nil); !got.Empty() {
		t.Errorf("ComputeHighlights = %+v", got)
	}
	if got := TimeByCategory(nil); len(got) != 0 {
		t.Errorf("TimeByCategory = %v", got)
	}
	if got := TimeOverTime(nil, Weekly); len(got) != 0 {
		t.Errorf("TimeOverTime = %v", got)
	}
	if got := SplitSessions(nil); len(got) != 0 {
		t.Errorf("SplitSessions = %v", got)
	}
}

func TestCompute(t *testing.T) {
	r := Compute(scenarioRows(), Options{Filter: Filter{Year: 2026}})
	if r.Totals.Messages != 3 || len(r.Conversations) != 1 {
		t.Errorf("totals = %+v", r.Totals)
	}
	if r.Highlights.BusiestHour == nil || *r.Highlights.BusiestHour != 9 {
		t.Errorf("busiest hour = %v", r.Highlights.BusiestHour)
	}
	if len(r.TokensByCategory) == 0 || r.TokensByCategory[0].Category != categorise.DataEngineering {
		t.Errorf("categories = %+v", r.TokensByCategory)
	}

	none := Compute(scenarioRows(), Options{Filter: Filter{Year: 2020}})
	if none.Totals != (Totals{}) || !none.Activity.Empty() {
		t.Errorf("filtered-out compute = %+v", none.Totals)
	}
}
