// Package intent provides rule-based intent classification for shopper queries.
//
// Classification is regex-table driven. Each table is an explicit ordered list
// of (label, patterns) rules: evaluation order is load-bearing, the first rule
// with any matching pattern wins. Patterns are matched against the lower-cased
// query and are diacritic-sensitive; accented Vietnamese forms and their
// unaccented transliterations are enumerated as separate patterns rather than
// normalized away.
package intent

import (
	"regexp"
	"strings"

	"github.com/vivohome/assistant/internal/models"
)

type rule struct {
	label    string
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return res
}

// intentRules is ordered: highest_price is tested before lowest_price, which
// matters because "cao nhất" and "thấp nhất" share no patterns but "giá" does
// appear in both phrasings.
var intentRules = []rule{
	{string(models.IntentHighestPrice), compile(
		`giá cao nhất`,
		`đắt nhất`,
		`cao nhất`,
		`mắc nhất`,
		`price.*high`,
		`most expensive`,
	)},
	{string(models.IntentLowestPrice), compile(
		`giá rẻ nhất`,
		`rẻ nhất`,
		`thấp nhất`,
		`price.*low`,
		`cheapest`,
	)},
	{string(models.IntentCompare), compile(
		`so sánh`,
		`khác gì`,
		`compare`,
		`versus`,
		`\bvs\b`,
	)},
}

var categoryRules = []rule{
	{"TV", compile(`\btv\b`, `tivi`, `ti vi`, `television`, `tele`)},
	{"Tủ lạnh", compile(`tủ lạnh`, `tu lanh`, `fridge`, `refrigerator`)},
	{"Máy lọc nước", compile(`máy lọc nước`, `may loc nuoc`, `water filter`)},
	{"Bàn là", compile(`bàn là`, `ban la`, `\biron\b`)},
	{"Bình tắm", compile(`bình tắm`, `binh tam`, `water heater`, `nước nóng`)},
	{"Bếp", compile(`\bbếp\b`, `\bbep\b`, `stove`, `cooker`)},
	{"Nồi", compile(`\bnồi\b`, `\bnoi\b`, `\bpot\b`, `cooker`)},
	{"Máy giặt", compile(`máy giặt`, `may giat`, `washing machine`)},
	{"Máy hút ẩm", compile(`máy hút ẩm`, `may hut am`, `dehumidifier`)},
}

var brandRules = []rule{
	{"Samsung", compile(`samsung`, `sam sung`)},
	{"LG", compile(`\blg\b`)},
	{"Rossi", compile(`rossi`)},
	{"Sunhouse", compile(`sunhouse`, `sun house`)},
	{"Hòa Phát", compile(`hòa phát`, `hoa phat`)},
	{"Korichi", compile(`korichi`)},
	{"Karofi", compile(`karofi`)},
}

func matchAny(q string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(q) {
			return true
		}
	}
	return false
}

// Parse classifies a free-text query into intent, category, and brands.
// It is a pure function: no I/O, deterministic for identical input.
func Parse(query string) models.ParsedIntent {
	q := strings.ToLower(query)

	parsed := models.ParsedIntent{
		Intent:        models.IntentSearch,
		OriginalQuery: query,
	}

	for _, r := range intentRules {
		if matchAny(q, r.patterns) {
			parsed.Intent = models.Intent(r.label)
			break
		}
	}

	for _, r := range categoryRules {
		if matchAny(q, r.patterns) {
			parsed.Category = r.label
			break
		}
	}

	// Brands collect every matching label, in vocabulary order. No match
	// leaves Brands nil rather than an empty list.
	for _, r := range brandRules {
		if matchAny(q, r.patterns) {
			parsed.Brands = append(parsed.Brands, r.label)
		}
	}

	return parsed
}
