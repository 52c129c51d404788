package categorise

import (
	"reflect"
	"testing"
)

func TestCategorise(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty is default", "", Personal},
		{"no match is default", "What should I cook tonight?", Personal},
		{"sql keyword", "select * from orders", DataEngineering},
		{"sql beats ai", "Ask ChatGPT to SELECT the rows", DataEngineering},
		{"app dev", "My React frontend can't reach the backend", AppDevelopment},
		{"troubleshooting", "npm throws on install", Troubleshooting},
		{"port in use", "port 3000 is in use again", Troubleshooting},
		{"data quality", "how do we dedupe these records", DataQuality},
		{"ai", "Which model hallucinates less?", AI},
		{"security", "Is this GDPR compliant?", Security},
		{"analytics", "Build a Power BI dashboard", Analytics},
		{"visualisation spelling", "a better visualisation", Analytics},
		{"business", "What's a fair valuation for the JV?", BusinessStrategy},
		{"writing", "Draft a LinkedIn carousel", Writing},
		{"whole words only", "I love selections of fromage", Personal},
		{"case insensitive", "POSTGRES tuning", DataEngineering},
		{"error beats prompt", "prompt returned an error", Troubleshooting},
		{"accented letter extends word", "apiñ", Personal},
		{"accented prefix extends word", "émodel", Personal},
		{"digit extends word", "api2", Personal},
		{"accented neighbour is not a match", "Ça marche, café model?", AI},
		{"punctuation bounds word", "(postgres)", DataEngineering},
		{"whole text is keyword", "llm", AI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorise(tt.text); got != tt.want {
				t.Errorf("Categorise(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNames_PriorityOrder(t *testing.T) {
	want := []string{
		DataEngineering, AppDevelopment, Troubleshooting, DataQuality, AI,
		Security, Analytics, BusinessStrategy, Writing, Personal,
	}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestPriority(t *testing.T) {
	if Priority(DataEngineering) != 0 {
		t.Errorf("Priority(%q) = %d, want 0", DataEngineering, Priority(DataEngineering))
	}
	if Priority(Personal) != 9 {
		t.Errorf("Priority(%q) = %d, want 9", Personal, Priority(Personal))
	}
	if Priority("Gardening") <= Priority(Personal) {
		t.Error("unknown categories should sort after the default")
	}
}
