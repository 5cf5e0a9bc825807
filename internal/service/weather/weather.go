package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FailureNotice is shown in place of the weather line when a lookup fails.
const FailureNotice = "⚠️ Couldn't fetch weather info. Please check the city name."

var (
	ErrEmptyCity   = errors.New("city is required")
	ErrUnavailable = errors.New("weather service unavailable")
	ErrBadStatus   = errors.New("weather service returned non-success status")
	ErrMalformed   = errors.New("malformed weather payload")
)

// Conditions is the current weather for a city.
type Conditions struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperatureC"`
	HumidityPct  float64 `json:"humidityPct"`
	WindSpeedMs  float64 `json:"windSpeedMs"`
	IconRef      string  `json:"iconRef,omitempty"`
}

// Result is the outcome of one lookup. Exactly one of Conditions and Err is set.
type Result struct {
	City       string
	Conditions *Conditions
	Err        error
}

// OK reports whether the lookup produced conditions.
func (r Result) OK() bool {
	return r.Err == nil && r.Conditions != nil
}

// Display renders the chat line for the result, or FailureNotice.
func (r Result) Display() string {
	if !r.OK() {
		return FailureNotice
	}
	c := r.Conditions
	return fmt.Sprintf("🌦️ Weather in %s: %s, Temp: %s°C, Humidity: %s%%, Wind Speed: %s m/s",
		titleCity(r.City),
		capitalize(c.Description),
		formatNumber(c.TemperatureC),
		formatNumber(c.HumidityPct),
		formatNumber(c.WindSpeedMs),
	)
}

func failure(city string, err error) Result {
	return Result{City: city, Err: err}
}

var titleCaser = cases.Title(language.English)

func titleCity(city string) string {
	return titleCaser.String(strings.TrimSpace(city))
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
