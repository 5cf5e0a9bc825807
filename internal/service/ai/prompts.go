package ai

import (
	"fmt"
	"strings"

	"github.com/safetrip/backend/internal/analysis/intent"
)

// SystemPrompt frames every generation as the travel safety assistant.
const SystemPrompt = `You are a smart and helpful AI travel safety assistant for travellers in India.
Give practical, specific and up-to-date advice. Use short sections and bullet points.
Keep it clear, friendly, and informative. Never include disclaimers about being an AI.`

// PromptInput carries what the prompt builder needs from one submission.
type PromptInput struct {
	Kind    intent.Kind
	Query   string
	City    string
	Weather string
}

// BuildPrompt returns the instruction for in. The boolean is false for
// greetings, which are answered with a fixed reply instead.
func BuildPrompt(in PromptInput) (string, bool) {
	city := strings.TrimSpace(in.City)
	weather := strings.TrimSpace(in.Weather)

	switch in.Kind {
	case intent.Greeting:
		return "", false
	case intent.SafetyQuestion:
		if city == "" {
			return genericSafetyPrompt(in.Query), true
		}
		return citySafetyPrompt(city, weather, in.Query), true
	case intent.BareCityCandidate:
		if city == "" || weather == "" {
			return assistantPrompt(in.Query), true
		}
		return cityGuidePrompt(city, weather), true
	default:
		return assistantPrompt(in.Query), true
	}
}

// LanguagePrompt asks for the local languages of city in one line.
func LanguagePrompt(city string) string {
	return fmt.Sprintf("What are the main local languages spoken in %s, India? Respond in one line.", strings.TrimSpace(city))
}

// CleanLanguage strips markdown emphasis the model tends to add to one-liners.
func CleanLanguage(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "*", ""))
}

func citySafetyPrompt(city, weather, question string) string {
	var builder strings.Builder
	if weather != "" {
		builder.WriteString(fmt.Sprintf("Current weather context: %s\n\n", weather))
	}
	builder.WriteString(fmt.Sprintf(`The traveller asked: "%s"

Focus on the Indian city: **%s**.
Please provide:
1. The **current risks** a visitor should know about.
2. The **safe areas** to stay in or explore, and areas to avoid at night.
3. Common **local scams** and how to avoid them.

Keep it concise and practical.`, strings.TrimSpace(question), city))
	return builder.String()
}

func genericSafetyPrompt(question string) string {
	return fmt.Sprintf(`The traveller asked: "%s"

Give general travel safety advice for India:
1. Personal and belongings safety.
2. Transport and night-time precautions.
3. Digital safety and useful emergency apps.

Keep it concise and practical.`, strings.TrimSpace(question))
}

func cityGuidePrompt(city, weather string) string {
	return fmt.Sprintf(`The user is interested in visiting the Indian city: **%s**.
The current weather details are: %s.

Please provide:
1. Practical **safety tips** for this weather and city.
2. The **must-see places**.
3. **Local customs** and etiquette to respect.
4. The best **travel options** for getting around.
5. Any current **travel advisories**.

Keep it clear, friendly, and informative.`, city, weather)
}

func assistantPrompt(text string) string {
	return fmt.Sprintf(`Respond as a travel safety assistant for India to this message: "%s"

If it is unclear, politely ask which Indian city they plan to visit.`, strings.TrimSpace(text))
}
