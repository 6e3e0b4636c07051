package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"familyconnect/internal/logging"
)

// WeatherService fetches current conditions from an OpenWeatherMap-compatible
// API and formats them as a short French report.
//
// API-level failures (unknown city, bad key) come back as a readable message
// string with a nil error, matching the collaborator contract: only transport
// and decoding failures are errors.
type WeatherService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger
}

// WeatherConfig carries the endpoint and credentials.
type WeatherConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewWeatherService builds a WeatherService.
func NewWeatherService(cfg WeatherConfig) *WeatherService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WeatherService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger("Weather"),
	}
}

// Report holds the extracted weather fields, pre-formatted for display.
type Report struct {
	City        string `json:"city"`
	CurrentTime string `json:"current_time"`
	Description string `json:"description"`
	TempMax     string `json:"temp_max"`
	TempMin     string `json:"temp_min"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
}

// owmCode tolerates both encodings the API uses: a number on success and a
// quoted string on errors.
type owmCode int

func (c *owmCode) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fmt.Errorf("weather status code %q: %w", trimmed, err)
	}
	*c = owmCode(n)
	return nil
}

type owmResponse struct {
	Cod  owmCode `json:"cod"`
	Main struct {
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Dt      int64  `json:"dt"`
	Message string `json:"message"`
}

// Lookup queries current weather for city and returns a formatted report. An
// API error (unknown city, quota) produces a message string, not an error.
func (w *WeatherService) Lookup(ctx context.Context, city string) (string, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", w.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "fr")

	endpoint := fmt.Sprintf("%s/weather?%s", w.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var data owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}

	if data.Cod != http.StatusOK {
		msg := data.Message
		if msg == "" {
			msg = "Impossible de récupérer les données météo."
		}
		w.logger.Warn("Weather lookup for %q failed: %s", city, msg)
		return fmt.Sprintf("Erreur météo : %s", msg), nil
	}

	report := buildReport(city, data)
	return report.Format(), nil
}

func buildReport(city string, data owmResponse) Report {
	description := ""
	if len(data.Weather) > 0 {
		description = capitalize(data.Weather[0].Description)
	}
	return Report{
		City:        capitalize(city),
		CurrentTime: time.Unix(data.Dt, 0).Format("2006-01-02 15:04:05"),
		Description: description,
		TempMax:     fmt.Sprintf("%g°C", data.Main.TempMax),
		TempMin:     fmt.Sprintf("%g°C", data.Main.TempMin),
		Humidity:    fmt.Sprintf("%d%%", data.Main.Humidity),
		WindSpeed:   fmt.Sprintf("%g m/s (%s)", data.Wind.Speed, degToDirection(data.Wind.Deg)),
		Sunrise:     time.Unix(data.Sys.Sunrise, 0).Format("15:04:05"),
		Sunset:      time.Unix(data.Sys.Sunset, 0).Format("15:04:05"),
	}
}

// Format renders the report as the user-facing French summary.
func (r Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Météo à %s (%s) :\n", r.City, r.CurrentTime)
	fmt.Fprintf(&b, "%s\n", r.Description)
	fmt.Fprintf(&b, "Températures : %s à %s, humidité %s\n", r.TempMin, r.TempMax, r.Humidity)
	fmt.Fprintf(&b, "Vent : %s\n", r.WindSpeed)
	fmt.Fprintf(&b, "Lever du soleil : %s, coucher : %s", r.Sunrise, r.Sunset)
	return b.String()
}

var compassDirections = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// degToDirection maps wind degrees onto an 8-point compass rose. The API
// contract says 0-360 but the value is not validated upstream, so the index
// is normalized to stay in range for negative or oversized degrees.
func degToDirection(deg float64) string {
	ix := ((int(math.Round(deg/45)) % 8) + 8) % 8
	return compassDirections[ix]
}

// capitalize upper-cases the first rune; French descriptions can start with
// an accented letter, so byte slicing would corrupt them.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
