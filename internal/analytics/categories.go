package analytics

import "sort"

// CategoryTokens is one row of the category rollup.
type CategoryTokens struct {
	Category string `json:"category"`
	Tokens   int    `json:"tokens"`
}

// CategoryRoleTokens is one row of the category-by-role rollup.
type CategoryRoleTokens struct {
	Category string `json:"category"`
	Role     string `json:"role"`
	Tokens   int    `json:"tokens"`
}

// CategoryTime is one row of the time-by-category rollup.
type CategoryTime struct {
	Category      string  `json:"category"`
	ActiveMinutes float64 `json:"active_minutes"`
}

// TokensByCategory sums tokens per category, descending. Ties keep category name order.
func TokensByCategory(rows []Row) []CategoryTokens {
	if len(rows) == 0 {
		return nil
	}
	sums := make(map[string]int)
	for _, r := range rows {
		sums[r.Category] += r.Tokens
	}
	out := make([]CategoryTokens, 0, len(sums))
	for cat, n := range sums {
		out = append(out, CategoryTokens{Category: cat, Tokens: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tokens > out[j].Tokens })
	return out
}

// TokensByCategoryAndRole sums tokens per (category, role), ordered by category then role.
func TokensByCategoryAndRole(rows []Row) []CategoryRoleTokens {
	if len(rows) == 0 {
		return nil
	}
	type key struct{ cat, role string }
	sums := make(map[key]int)
	for _, r := range rows {
		sums[key{r.Category, r.Role}] += r.Tokens
	}
	out := make([]CategoryRoleTokens, 0, len(sums))
	for k, n := range sums {
		out = append(out, CategoryRoleTokens{Category: k.cat, Role: k.role, Tokens: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Role < out[j].Role
	})
	return out
}

// TimeByCategory sums conversation active minutes per dominant category, descending.
func TimeByCategory(conv []ConversationSummary) []CategoryTime {
	if len(conv) == 0 {
		return nil
	}
	sums := make(map[string]float64)
	for _, c := range conv {
		sums[c.Category] += c.ActiveMinutes
	}
	out := make([]CategoryTime, 0, len(sums))
	for cat, m := range sums {
		out = append(out, CategoryTime{Category: cat, ActiveMinutes: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ActiveMinutes > out[j].ActiveMinutes })
	return out
}
