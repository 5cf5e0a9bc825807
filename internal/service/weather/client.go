package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	applog "github.com/safetrip/backend/pkg/log"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"

// maxBodyBytes caps the response read; a current-weather payload is ~1KB.
const maxBodyBytes = 1 << 20

// Config 描述天气服务配置。
type Config struct {
	BaseURL string
	APIKey  string
	Country string
	Timeout time.Duration
}

// Client queries the current-weather endpoint for a city.
type Client struct {
	baseURL    string
	apiKey     string
	country    string
	httpClient *http.Client
}

// NewClient builds a Client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	country := strings.TrimSpace(cfg.Country)
	if country == "" {
		country = "IN"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		country:    country,
		httpClient: httpClient,
	}
}

type owmResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Lookup fetches current conditions for city. It never returns an error
// directly; failures are carried by Result.Err.
func (c *Client) Lookup(ctx context.Context, city string) Result {
	city = strings.TrimSpace(city)
	if city == "" {
		return failure(city, ErrEmptyCity)
	}

	result := c.lookup(ctx, city)
	if result.Err != nil {
		applog.WithCtx(ctx).Warn("weather lookup failed", zap.String("city", city), zap.Error(result.Err))
	}
	return result
}

func (c *Client) lookup(ctx context.Context, city string) Result {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return failure(city, fmt.Errorf("%w: base url: %v", ErrUnavailable, err))
	}
	params := endpoint.Query()
	params.Set("q", city+","+c.country)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return failure(city, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(city, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failure(city, fmt.Errorf("%w: read body: %v", ErrUnavailable, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(city, fmt.Errorf("%w: http %d", ErrBadStatus, resp.StatusCode))
	}

	var payload owmResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return failure(city, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	if code := parseCod(payload.Cod); code != http.StatusOK {
		return failure(city, fmt.Errorf("%w: cod %d %s", ErrBadStatus, code, payload.Message))
	}

	if len(payload.Weather) == 0 || payload.Main == nil || payload.Wind == nil {
		return failure(city, fmt.Errorf("%w: missing weather, main or wind", ErrMalformed))
	}

	return Result{
		City: city,
		Conditions: &Conditions{
			Description:  payload.Weather[0].Description,
			TemperatureC: payload.Main.Temp,
			HumidityPct:  payload.Main.Humidity,
			WindSpeedMs:  payload.Wind.Speed,
			IconRef:      payload.Weather[0].Icon,
		},
	}
}

// parseCod accepts both 200 and "200"; anything unreadable is 0.
func parseCod(raw json.RawMessage) int {
	raw = bytes.Trim(bytes.TrimSpace(raw), `"`)
	if len(raw) == 0 {
		return 0
	}
	code, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return code
}
