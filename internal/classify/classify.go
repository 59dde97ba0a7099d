package classify

import "strings"

// Category labels, in the order they are scored.
const (
	Migration = "migration"
	Politics  = "politics"
	Economy   = "economy"
	Health    = "health"
)

type rule struct {
	category string
	weight   float64
	keywords []string
}

// rules is scored top to bottom; on equal scores the earlier category wins.
var rules = []rule{
	{
		category: Migration,
		weight:   3,
		keywords: []string{
			"migrant", "migration", "refugee", "asylum", "border", "deport",
			"smuggl", "visa", "resettle", "detention", "crossing",
		},
	},
	{
		category: Politics,
		weight:   2,
		keywords: []string{
			"election", "government", "minister", "parliament", "president",
			"policy", "vote", "law", "court", "eu ",
		},
	},
	{
		category: Economy,
		weight:   2,
		keywords: []string{
			"economy", "economic", "job", "employment", "labour", "labor",
			"market", "inflation", "trade", "wage", "remittance",
		},
	},
	{
		category: Health,
		weight:   1,
		keywords: []string{
			"health", "hospital", "disease", "covid", "vaccine", "medical",
			"doctor", "outbreak", "mental",
		},
	},
}

// Result holds the chosen category and the score of every category.
type Result struct {
	Category string
	Scores   map[string]float64
}

// Categories returns all categories in scoring order.
func Categories() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.category)
	}
	return out
}

// Classify scores title and description against the keyword table.
// A category earns its weight once if any of its keywords appears as a
// substring of the lower-cased text. Ties, including all zero, go to the
// first category.
func Classify(title, description string) Result {
	text := strings.ToLower(title + " " + description)

	scores := make(map[string]float64, len(rules))
	best := ""
	bestScore := -1.0

	for _, r := range rules {
		score := 0.0
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				score = r.weight
				break
			}
		}
		scores[r.category] = score
		if score > bestScore {
			best = r.category
			bestScore = score
		}
	}

	return Result{Category: best, Scores: scores}
}
