package intent

import (
	"regexp"
	"strings"
)

// Kind 表示用户输入被归入的类别。
type Kind string

const (
	Greeting          Kind = "greeting"
	SafetyQuestion    Kind = "safety_question"
	BareCityCandidate Kind = "bare_city"
	Other             Kind = "other"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

var greetings = map[string]struct{}{
	"hi":    {},
	"hello": {},
	"hey":   {},
	"hii":   {},
	"heyy":  {},
	"yo":    {},
	"hola":  {},
}

var safetyKeywords = []string{
	"safe", "safety", "danger", "risk", "scam", "crime", "theft",
	"emergency", "secure", "threat", "harass", "advisory",
}

var bareCityPattern = regexp.MustCompile(`^[a-zA-Z\s\-]+$`)

// Classify 按固定优先级判断输入类别：问候 > 安全问题 > 城市名 > 其他。
func Classify(text string) Kind {
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)

	if IsGreeting(normalized) {
		return Greeting
	}
	if containsSafetyKeyword(normalized) {
		return SafetyQuestion
	}
	if bareCityPattern.MatchString(trimmed) {
		return BareCityCandidate
	}
	return Other
}

// IsGreeting reports whether text is exactly one of the greeting tokens.
func IsGreeting(text string) bool {
	_, ok := greetings[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

func containsSafetyKeyword(normalized string) bool {
	for _, word := range safetyKeywords {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}
