package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safetrip/backend/internal/analysis/intent"
)

const jaipurWeather = "🌦️ Weather in Jaipur: Clear sky, Temp: 30°C, Humidity: 40%, Wind Speed: 3 m/s"

func TestBuildPromptGreetingHasNoPrompt(t *testing.T) {
	prompt, ok := BuildPrompt(PromptInput{Kind: intent.Greeting, Query: "hi"})
	assert.False(t, ok)
	assert.Empty(t, prompt)
}

func TestBuildPromptSafetyWithCityPrependsWeather(t *testing.T) {
	prompt, ok := BuildPrompt(PromptInput{
		Kind:    intent.SafetyQuestion,
		Query:   "Is it safe to travel to Jaipur",
		City:    "Jaipur",
		Weather: jaipurWeather,
	})
	assert.True(t, ok)
	assert.Contains(t, prompt, "Current weather context: "+jaipurWeather)
	assert.Less(t, strings.Index(prompt, jaipurWeather), strings.Index(prompt, "**Jaipur**"))
	assert.Contains(t, prompt, "local scams")
	assert.Contains(t, prompt, "safe areas")
}

func TestBuildPromptSafetyWithCityWithoutWeather(t *testing.T) {
	prompt, _ := BuildPrompt(PromptInput{Kind: intent.SafetyQuestion, Query: "safe in Goa?", City: "Goa"})
	assert.NotContains(t, prompt, "weather")
	assert.Contains(t, prompt, "**Goa**")
}

func TestBuildPromptSafetyWithoutCityIsGeneric(t *testing.T) {
	prompt, ok := BuildPrompt(PromptInput{Kind: intent.SafetyQuestion, Query: "Tell me about safety", Weather: jaipurWeather})
	assert.True(t, ok)
	assert.Contains(t, prompt, "general travel safety advice")
	assert.NotContains(t, prompt, "Weather in")
}

func TestBuildPromptBareCity(t *testing.T) {
	prompt, _ := BuildPrompt(PromptInput{Kind: intent.BareCityCandidate, Query: "Jaipur", City: "Jaipur", Weather: jaipurWeather})
	for _, want := range []string{"safety tips", "must-see places", "Local customs", "travel options", "travel advisories", jaipurWeather} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPromptBareCityFailedWeatherFallsBack(t *testing.T) {
	prompt, _ := BuildPrompt(PromptInput{Kind: intent.BareCityCandidate, Query: "Atlantis", City: "Atlantis"})
	assert.Contains(t, prompt, "Respond as a travel safety assistant")
	assert.NotContains(t, prompt, "weather")
}

func TestBuildPromptOther(t *testing.T) {
	prompt, _ := BuildPrompt(PromptInput{Kind: intent.Other, Query: "what's up?"})
	assert.Contains(t, prompt, `"what's up?"`)
}

func TestLanguagePromptAndClean(t *testing.T) {
	assert.Equal(t, "What are the main local languages spoken in Jaipur, India? Respond in one line.", LanguagePrompt(" Jaipur "))
	assert.Equal(t, "Hindi and Rajasthani", CleanLanguage("**Hindi** and *Rajasthani*\n"))
}
