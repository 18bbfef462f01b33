package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the Google Places API settings
type Config struct {
	APIKey   string
	BaseURL  string // e.g. https://maps.googleapis.com/maps/api/place
	Language string // e.g. nl
}

// Client is a minimal Google Places Details API client
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PlaceReview is one review as returned by the Places Details API
type PlaceReview struct {
	AuthorName              string  `json:"author_name"`
	Rating                  int     `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description"`
	Time                    int64   `json:"time"`
	ProfilePhotoURL         *string `json:"profile_photo_url"`
}

// PlaceDetails is the subset of place details the site uses
type PlaceDetails struct {
	Name             string        `json:"name"`
	Rating           float64       `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	Reviews          []PlaceReview `json:"reviews"`
}

type detailsResponse struct {
	Result       PlaceDetails `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

// Details fetches name, rating, review count and the most recent reviews
// for a place.
func (c *Client) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c.config.APIKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,rating,user_ratings_total,reviews")
	params.Set("reviews_sort", "newest")
	params.Set("key", c.config.APIKey)
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}

	endpoint := fmt.Sprintf("%s/details/json?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrAPIError, resp.StatusCode)
	}

	var detailsResp detailsResponse
	if err := json.Unmarshal(body, &detailsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal details response: %w", err)
	}

	if detailsResp.Status != "OK" {
		return nil, fmt.Errorf("%w: status %s: %s", ErrAPIError, detailsResp.Status, detailsResp.ErrorMessage)
	}

	return &detailsResp.Result, nil
}
