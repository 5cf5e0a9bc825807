package intent

import (
	"regexp"
	"strings"
)

var (
	prepositionPattern = regexp.MustCompile(`(?i)\b(?:to|in|at)\s+`)
	cityPrefixPattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s\-]*`)
)

// travelVerbs start phrases like "to travel" or "to stay" that name an
// activity rather than a place.
var travelVerbs = map[string]struct{}{
	"travel": {}, "go": {}, "visit": {}, "stay": {}, "walk": {}, "roam": {},
	"move": {}, "drive": {}, "commute": {}, "explore": {}, "fly": {},
	"head": {}, "be": {}, "live": {}, "wander": {}, "reach": {},
}

// ExtractCity returns the place named after "to", "in" or "at" in text.
// Each candidate ends at the next preposition; the first candidate that does
// not start with a travel verb wins, otherwise the last one.
// "Is it safe to travel to Jaipur at night" yields "Jaipur".
func ExtractCity(text string) (string, bool) {
	matches := prepositionPattern.FindAllStringIndex(text, -1)

	var last string
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		city := strings.TrimSpace(strings.Trim(strings.TrimSpace(cityPrefixPattern.FindString(text[m[1]:end])), "-"))
		if city == "" {
			continue
		}
		if !startsWithTravelVerb(city) {
			return city, true
		}
		last = city
	}
	if last != "" {
		return last, true
	}
	return "", false
}

func startsWithTravelVerb(span string) bool {
	fields := strings.Fields(span)
	if len(fields) == 0 {
		return false
	}
	_, ok := travelVerbs[strings.ToLower(fields[0])]
	return ok
}
