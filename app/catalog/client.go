package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w342"

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to a TMDB-style catalog API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// NewHTTPClient creates a catalog client with a per-call timeout so a
// slow lookup cannot stall a whole feed page.
func NewHTTPClient(baseURL, apiKey, userAgent string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type detailsResponse struct {
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	PosterPath   string `json:"poster_path"`
}

type providersResponse struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

func (c *HTTPClient) Lookup(ctx context.Context, mediaKind, subjectID, region string) (*Title, error) {
	kindPath, err := kindPath(mediaKind)
	if err != nil {
		return nil, err
	}

	var details detailsResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%s", kindPath, url.PathEscape(subjectID)), &details); err != nil {
		return nil, fmt.Errorf("failed to fetch title details: %w", err)
	}

	title := &Title{
		Title:       details.Title,
		ReleaseYear: parseYear(details.ReleaseDate),
	}
	if title.Title == "" {
		title.Title = details.Name
	}
	if title.ReleaseYear == nil {
		title.ReleaseYear = parseYear(details.FirstAirDate)
	}
	if details.PosterPath != "" {
		title.PosterURL = posterBaseURL + details.PosterPath
	}

	// Availability is a separate catalog endpoint; a missing region entry
	// simply means no known providers there.
	var providers providersResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%s/watch/providers", kindPath, url.PathEscape(subjectID)), &providers); err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}
	if regional, ok := providers.Results[region]; ok {
		for _, p := range regional.Flatrate {
			title.Providers = append(title.Providers, p.ProviderName)
		}
	}

	return title, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	u := c.baseURL + path
	if c.apiKey != "" {
		u += "?api_key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return nil
}

func kindPath(mediaKind string) (string, error) {
	switch mediaKind {
	case "movie":
		return "movie", nil
	case "series":
		return "tv", nil
	default:
		return "", fmt.Errorf("unknown media kind: %s", mediaKind)
	}
}

func parseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	year := t.Year()
	return &year
}
