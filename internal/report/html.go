package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
)

type bar struct {
	Label string
	Value string
	Width template.CSS
}

type htmlView struct {
	Summary
	Tokens        string
	Messages      string
	Conversations string
	ActiveTime    string
	PeakDay       string
	BusiestHour   string
	Share         string
	Categories    []bar
	Timeline      []bar
	TopTitle      string
}

var htmlTemplate = template.Must(template.New("wrapped").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>ChatGPT Wrapped {{.Year}}</title>
  <style>
    :root { --bg:#ffffff; --panel:#f6f7fb; --text:#0b1220; --muted:#5b6475; --border:#e6e8ef; --accent:#0b5fff; }
    html, body { margin:0; padding:0; background:var(--bg); color:var(--text); font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial; }
    .wrap { max-width: 980px; margin: 0 auto; padding: 28px 18px 54px; }
    .hero { border:1px solid var(--border); background:var(--panel); border-radius: 16px; padding: 18px 18px 14px; }
    .hero h1 { margin: 0; font-size: 28px; letter-spacing: -0.02em; }
    .hero .tag { margin-top: 6px; color: var(--muted); font-size: 14px; }
    .grid { display:grid; grid-template-columns: repeat(4, 1fr); gap: 12px; margin-top: 12px; }
    .card { border:1px solid var(--border); border-radius: 14px; padding: 12px; background: #fff; }
    .k { font-size: 12px; color: var(--muted); }
    .v { font-size: 20px; margin-top: 4px; }
    .section { margin-top: 18px; }
    .section h2 { font-size: 16px; margin: 0 0 10px; letter-spacing: -0.01em; }
    .small { color: var(--muted); font-size: 12px; margin-top: 6px; }
    .pill { display:inline-block; font-size: 12px; padding: 6px 10px; border:1px solid var(--border); border-radius: 999px; background:#fff; margin: 0 8px 6px 0; }
    .bar { display:grid; grid-template-columns: 240px 1fr 90px; gap: 8px; align-items:center; font-size: 13px; margin: 4px 0; }
    .track { background: var(--panel); border-radius: 6px; height: 12px; }
    .fill { background: var(--accent); border-radius: 6px; height: 12px; }
    .num { text-align:right; color: var(--muted); }
    @media (max-width: 780px) { .grid { grid-template-columns: 1fr 1fr; } .bar { grid-template-columns: 1fr 1fr 70px; } }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="hero">
      <h1>{{.Archetype.Emoji}} {{.Archetype.Title}} <span style="color:var(--muted); font-weight:500">· ChatGPT Wrapped {{.Year}}</span></h1>
      <div class="tag">{{.Archetype.Tagline}}</div>
      <div class="grid">
        <div class="card"><div class="k">{{.Tokenizer}}</div><div class="v">{{.Tokens}}</div></div>
        <div class="card"><div class="k">Messages</div><div class="v">{{.Messages}}</div></div>
        <div class="card"><div class="k">Conversations</div><div class="v">{{.Conversations}}</div></div>
        <div class="card"><div class="k">Active time</div><div class="v">{{.ActiveTime}}</div></div>
      </div>
      <div class="small">
        <span class="pill">Peak day: {{.PeakDay}}</span>
        <span class="pill">Busiest hour: {{.BusiestHour}}</span>
        <span class="pill">Assistant share: {{.Share}}</span>
        {{range .Archetype.Traits}}<span class="pill">{{.}}</span>{{end}}
      </div>
    </div>

    <div class="section">
      <h2>What you used ChatGPT for</h2>
      {{range .Categories}}<div class="bar"><div>{{.Label}}</div><div class="track"><div class="fill" style="{{.Width}}"></div></div><div class="num">{{.Value}}</div></div>
      {{else}}<div class="small">No messages in this period.</div>{{end}}
    </div>

    <div class="section">
      <h2>Your activity over time</h2>
      {{range .Timeline}}<div class="bar"><div>{{.Label}}</div><div class="track"><div class="fill" style="{{.Width}}"></div></div><div class="num">{{.Value}}</div></div>
      {{else}}<div class="small">Not enough timestamped data to build a timeline.</div>{{end}}
    </div>

    <div class="section">
      <h2>Highlights</h2>
      {{if .TopTitle}}<div class="small">Top conversation: {{.TopTitle}}</div>{{end}}
      <div class="small">{{.Flair.Intensity}}</div>
      <div class="small">{{.Flair.Cadence}}</div>
      <div class="small">{{.Flair.Style}}</div>
    </div>

    <div class="section">
      <h2>Notes</h2>
      <div class="small">Generated from your ChatGPT export. {{if .TokenizerNote}}{{.TokenizerNote}}{{else}}Token counts come from a subword tokenizer.{{end}}</div>
    </div>
  </div>
</body>
</html>
`))

// WriteHTML renders s as a single self-contained HTML page. All text is escaped.
func WriteHTML(w io.Writer, s Summary) error {
	v := htmlView{
		Summary:       s,
		Tokens:        Int(s.Metrics.Tokens),
		Messages:      Int(s.Metrics.Messages),
		Conversations: Int(s.Metrics.Conversations),
		ActiveTime:    Minutes(s.Metrics.ActiveMinutes),
		PeakDay:       "n/a",
		BusiestHour:   Hour(s.Highlights.BusiestHour),
		Share:         Percent(s.Metrics.AssistantTokenShare),
	}
	if d := s.Highlights.PeakDay; d != nil {
		v.PeakDay = fmt.Sprintf("%s (%s tokens)", *d, Int(s.Highlights.PeakDayTokens))
	}
	if tc := s.Highlights.TopConversation; tc != nil {
		v.TopTitle = fmt.Sprintf("%s (%s tokens, %d messages)", tc.Title, Int(tc.Tokens), tc.Messages)
	}

	var catMax int
	for _, c := range s.TopCategories {
		catMax = max(catMax, c.Tokens)
	}
	for _, c := range s.TopCategories {
		v.Categories = append(v.Categories, bar{Label: c.Category, Value: Int(c.Tokens), Width: width(c.Tokens, catMax)})
	}

	byTime := make(map[string]int)
	for _, p := range s.TokensOverTime {
		byTime[p.Time] += p.Tokens
	}
	times := make([]string, 0, len(byTime))
	var timeMax int
	for t, n := range byTime {
		times = append(times, t)
		timeMax = max(timeMax, n)
	}
	sort.Strings(times)
	for _, t := range times {
		v.Timeline = append(v.Timeline, bar{Label: t, Value: Int(byTime[t]), Width: width(byTime[t], timeMax)})
	}

	if err := htmlTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func width(n, maxN int) template.CSS {
	pct := 0.0
	if maxN > 0 {
		pct = float64(n) / float64(maxN) * 100
	}
	return template.CSS(fmt.Sprintf("width:%.1f%%", pct))
}
