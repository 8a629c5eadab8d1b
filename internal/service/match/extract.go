package match

import (
	"regexp"
	"strings"
)

type teamEntry struct {
	abbrev   string
	patterns []string
}

// teamPatterns lists NFL abbreviations with the city/nickname spellings that
// show up in commentary and vision output. Order matters: texts naming more
// than one team resolve to the first entry that matches.
var teamPatterns = []teamEntry{
	{"PHI", []string{"philadelphia", "eagles", "phi"}},
	{"KC", []string{"kansas city", "chiefs", "kc", "kcc"}},
	{"SF", []string{"san francisco", "49ers", "sf", "niners", "sfo"}},
	{"DAL", []string{"dallas", "cowboys", "dal"}},
	{"GB", []string{"green bay", "packers", "gb", "gbp"}},
	{"BUF", []string{"buffalo", "bills", "buf"}},
	{"BAL", []string{"baltimore", "ravens", "bal"}},
	{"CIN", []string{"cincinnati", "bengals", "cin"}},
	{"DET", []string{"detroit", "lions", "det"}},
	{"MIA", []string{"miami", "dolphins", "mia"}},
	{"NYG", []string{"giants", "nyg", "ny giants"}},
	{"NYJ", []string{"jets", "nyj", "ny jets"}},
	{"NE", []string{"new england", "patriots", "ne", "nep"}},
	{"PIT", []string{"pittsburgh", "steelers", "pit"}},
	{"LAC", []string{"chargers", "lac", "la chargers", "san diego"}},
	{"DEN", []string{"denver", "broncos", "den"}},
	{"LV", []string{"las vegas", "raiders", "lv", "oakland"}},
	{"SEA", []string{"seattle", "seahawks", "sea"}},
	{"LA", []string{"rams", "la rams", "lar", "st. louis"}},
	{"ARI", []string{"arizona", "cardinals", "ari", "arz"}},
	{"ATL", []string{"atlanta", "falcons", "atl"}},
	{"CAR", []string{"carolina", "panthers", "car"}},
	{"CHI", []string{"chicago", "bears", "chi"}},
	{"CLE", []string{"cleveland", "browns", "cle"}},
	{"HOU", []string{"houston", "texans", "hou"}},
	{"IND", []string{"indianapolis", "colts", "ind"}},
	{"JAX", []string{"jacksonville", "jaguars", "jax", "jac"}},
	{"MIN", []string{"minnesota", "vikings", "min"}},
	{"NO", []string{"new orleans", "saints", "no", "nos"}},
	{"TB", []string{"tampa bay", "buccaneers", "tb", "bucs", "tbb"}},
	{"TEN", []string{"tennessee", "titans", "ten"}},
	{"WAS", []string{"washington", "commanders", "was", "wsh"}},
}

var abbrevWordRe = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(teamPatterns))
	for i, entry := range teamPatterns {
		out[i] = regexp.MustCompile(`\b` + entry.abbrev + `\b`)
	}
	return out
}()

// ExtractTeam finds an NFL team abbreviation mentioned in free text, or ""
// when none is recognized.
func ExtractTeam(text string) string {
	if text == "" {
		return ""
	}

	textLower := strings.ToLower(text)
	for _, entry := range teamPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(textLower, pattern) {
				return entry.abbrev
			}
		}
	}

	// Whole-word abbreviation match as a fallback.
	textUpper := strings.ToUpper(text)
	for i, re := range abbrevWordRe {
		if re.MatchString(textUpper) {
			return teamPatterns[i].abbrev
		}
	}

	return ""
}

var playerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z]\.\s*[A-Z][a-z]+)`),             // T. Kelce
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`),         // Patrick Mahomes
	regexp.MustCompile(`\b(?:QB|RB|WR|TE|K)\s+([A-Z][a-z]+)`), // QB Mahomes
	regexp.MustCompile(`#\d+\s+([A-Z][a-z]+)`),                // #15 Mahomes
}

// ExtractPlayerName pulls a player name out of an event description, or ""
// when nothing name-shaped is present.
func ExtractPlayerName(details string) string {
	for _, re := range playerPatterns {
		if m := re.FindStringSubmatch(details); m != nil {
			return m[1]
		}
	}
	return ""
}

var knownFormations = []string{
	"shotgun", "i-form", "spread", "pistol", "singleback",
	"empty", "jumbo", "goal line", "nickel", "dime", "4-3", "3-4",
}

// ExtractFormation recognizes a named formation in a description, returned
// in title case, or "" when none matches.
func ExtractFormation(details string) string {
	detailsLower := strings.ToLower(details)
	for _, formation := range knownFormations {
		if strings.Contains(detailsLower, formation) {
			return titleCase(formation)
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsTurnoverText checks event text for turnover language.
func IsTurnoverText(details, eventType string) bool {
	combined := strings.ToLower(details + " " + eventType)
	return containsAny(combined, "interception", "fumble", "turnover", "pick")
}

// IsScoringText checks event text for scoring language.
func IsScoringText(details, eventType string) bool {
	combined := strings.ToLower(details + " " + eventType)
	return containsAny(combined, "touchdown", "field goal", "safety", "score", "td")
}
