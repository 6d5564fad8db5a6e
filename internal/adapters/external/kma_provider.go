// Package external provides adapters for external services:
// observation sources, cache providers, and their composition.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// missingValue is the sentinel the KMA API Hub uses for absent readings
const missingValue = -999

// stationCodes maps supported cities to their KMA surface station codes
var stationCodes = map[string]string{
	"Seoul":   "108",
	"Busan":   "159",
	"Daegu":   "143",
	"Incheon": "112",
	"Gwangju": "156",
	"Daejeon": "133",
	"Ulsan":   "152",
	"Jeju":    "184",
}

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

// KMAProviderAdapter implements the ObservationSource port for the
// KMA API Hub daily observation endpoint.
type KMAProviderAdapter struct {
	authKey string
	baseURL string
	client  HTTPClient
	logger  ports.Logger
}

// KMAProviderParams holds parameters for creating the KMA provider
type KMAProviderParams struct {
	AuthKey string
	BaseURL string
	Logger  ports.Logger
}

// NewKMAProviderAdapter creates a new KMA observation source adapter
func NewKMAProviderAdapter(params KMAProviderParams) *KMAProviderAdapter {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://apihub.kma.go.kr/api/json"
	}

	return &KMAProviderAdapter{
		authKey: params.AuthKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  params.Logger,
	}
}

// kmaItem mirrors one observation record from the API Hub. Numeric fields
// arrive as either numbers or strings depending on the endpoint revision.
type kmaItem struct {
	TM json.RawMessage `json:"TM"`
	TA json.RawMessage `json:"TA"`
	HM json.RawMessage `json:"HM"`
}

// FetchRange retrieves daily observations for the city between start and end
func (p *KMAProviderAdapter) FetchRange(ctx context.Context, city string, start, end time.Time) ([]ports.ObservationRow, error) {
	if city == "" {
		return nil, errors.NewValidationError("city cannot be empty")
	}
	if end.Before(start) {
		return nil, errors.NewValidationError("end date cannot precede start date")
	}
	if p.authKey == "" {
		return nil, errors.NewExternalAPIError("KMA auth key not configured", nil)
	}

	station, ok := stationCodes[city]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("unsupported city: %s", city))
	}

	query := url.Values{}
	query.Set("authKey", p.authKey)
	query.Set("stn", station)
	query.Set("tm", start.Format("20060102"))
	query.Set("tm2", end.Format("20060102"))
	query.Set("help", "0")

	resp, err := p.client.Get(p.baseURL + "?" + query.Encode())
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to call KMA API Hub", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			p.logger.Warn("Failed to close KMA response body", ports.F("error", closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("KMA API Hub returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to read KMA response", err)
	}

	items, err := extractItems(body)
	if err != nil {
		return nil, err
	}

	rows := make([]ports.ObservationRow, 0, len(items))
	for _, item := range items {
		row, ok := p.parseItem(city, item)
		if !ok {
			continue
		}
		if row.Date.Before(start) || row.Date.After(end.AddDate(0, 0, 1)) {
			continue
		}
		rows = append(rows, row)
	}

	p.logger.Debug("KMA fetch completed",
		ports.F("city", city),
		ports.F("station", station),
		ports.F("rows", len(rows)))

	return rows, nil
}

// GetSourceName returns the name of this observation source
func (p *KMAProviderAdapter) GetSourceName() string {
	return "kma"
}

// extractItems normalizes the three response shapes the API Hub returns:
// a bare JSON array, the public-data portal envelope, or a single object.
func extractItems(body []byte) ([]kmaItem, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, errors.NewExternalAPIError("empty KMA response", nil)
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []kmaItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, errors.NewExternalAPIError("failed to decode KMA response array", err)
		}
		return items, nil
	}

	var envelope struct {
		Response *struct {
			Body struct {
				Items struct {
					Item []kmaItem `json:"item"`
				} `json:"items"`
			} `json:"body"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Response != nil {
		return envelope.Response.Body.Items.Item, nil
	}

	var single kmaItem
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode KMA response", err)
	}
	return []kmaItem{single}, nil
}

func (p *KMAProviderAdapter) parseItem(city string, item kmaItem) (ports.ObservationRow, bool) {
	temp, ok := parseReading(item.TA)
	if !ok {
		return ports.ObservationRow{}, false
	}
	humidity, ok := parseReading(item.HM)
	if !ok {
		return ports.ObservationRow{}, false
	}
	date, ok := parseObservationTime(rawString(item.TM))
	if !ok {
		return ports.ObservationRow{}, false
	}

	return ports.ObservationRow{
		City:        city,
		Date:        date,
		Temperature: temp,
		Humidity:    humidity,
	}, true
}

// parseReading decodes a numeric field, rejecting the -999 missing sentinel
func parseReading(raw json.RawMessage) (float64, bool) {
	s := rawString(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == missingValue {
		return 0, false
	}
	return v, true
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "null" {
		return ""
	}
	return strings.TrimSpace(s)
}

// parseObservationTime handles the time layouts the API Hub has used:
// YYYYMMDDHHMM, YYYYMMDD, ISO 8601, YYYYMMDDHHMMSS, and two space-separated
// forms.
func parseObservationTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	var layouts []string
	switch {
	case strings.Contains(s, "T"):
		layouts = []string{time.RFC3339, "2006-01-02T15:04:05"}
	case len(s) == 12:
		layouts = []string{"200601021504"}
	case len(s) == 8:
		layouts = []string{"20060102"}
	case len(s) == 14:
		layouts = []string{"20060102150405"}
	case len(s) == 19:
		layouts = []string{"2006-01-02 15:04:05"}
	default:
		layouts = []string{"2006-01-02 15:04"}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
