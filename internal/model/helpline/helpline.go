package helpline

import (
	"fmt"
	"strings"
)

// Helpline is a public emergency number shown alongside city answers.
type Helpline struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Seed provides the national helplines that apply to every Indian city.
func Seed() []Helpline {
	return []Helpline{
		{ID: "police", Name: "Police", Number: "112"},
		{ID: "ambulance", Name: "Ambulance", Number: "102"},
		{ID: "women", Name: "Women’s Helpline", Number: "1090"},
	}
}

// FormatEmergencyLine renders the helpline block. language is the optional
// local-language line produced for the city; it is skipped when empty.
func FormatEmergencyLine(items []Helpline, language string) string {
	var builder strings.Builder
	if language = strings.TrimSpace(language); language != "" {
		builder.WriteString(fmt.Sprintf("🗣️ Local Language(s): %s\n", language))
	}
	builder.WriteString("📞 Emergency Helpline Numbers:")
	for _, item := range items {
		builder.WriteString(fmt.Sprintf("\n- %s: %s", item.Name, item.Number))
	}
	return builder.String()
}
