package analytics

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultKeywords is the keyword rollup size when none is configured.
const DefaultKeywords = 25

// KeywordCount is one row of the keyword rollup.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

var wordPattern = regexp.MustCompile(`[a-z0-9_']{3,}`)

var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		the a an and or to of in for on with is it this that be as are
		i you we they he she them us my your our me at from by not but
		can could would should do does did so if then than just like
		select def join null class function return while break continue import export`) {
		stopWords[w] = true
	}
}

// TopKeywords returns the n most frequent words across all row text.
// Equal counts keep the order in which the words first appeared.
func TopKeywords(rows []Row, n int) []KeywordCount {
	if len(rows) == 0 || n <= 0 {
		return nil
	}

	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text
	}
	words := wordPattern.FindAllString(strings.ToLower(strings.Join(texts, " ")), -1)

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if stopWords[w] || isDigits(w) || strings.Contains(w, "_") {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	out := make([]KeywordCount, len(order))
	for i, w := range order {
		out[i] = KeywordCount{Keyword: w, Count: counts[w]}
	}
	return out
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
