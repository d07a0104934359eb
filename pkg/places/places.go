// Package places proxies the Google Places autocomplete and details APIs.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/whttp"
)

const (
	DefaultEndpoint = "https://maps.googleapis.com/maps/api/place"
	defaultTimeout  = 10 * time.Second

	// maxSuggestions caps autocomplete results.
	maxSuggestions = 6
	detailFields   = "name,formatted_address,geometry,address_component,place_id"
)

var (
	ErrMissingAPIKey  = errors.New("missing GOOGLE_MAPS_API_KEY")
	ErrMissingPlaceID = errors.New("missing placeId")
)

// UpstreamError is a non-OK status reported by the places API.
type UpstreamError struct {
	Status  string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != "" {
		return e.Status
	}
	return "places lookup failed"
}

// Suggestion is one autocomplete hit.
type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// Details is the normalized result of a place lookup.
type Details struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Country          string   `json:"country"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
}

// Apply copies the place name and address onto the venue fields of a.
func (d Details) Apply(a advance.Advance) advance.Advance {
	out := a.Clone()
	if d.Name != "" {
		out.VenueName = d.Name
	}
	if d.FormattedAddress != "" {
		out.Address = d.FormattedAddress
	}
	return out
}

// Config configures a Client.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	Proxy    string
}

type Client struct {
	apiKey   string
	endpoint string
	http     *retryablehttp.Client
}

// New builds a client. An empty API key is an error.
func New(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc, err := whttp.NewClient(whttp.ClientOptions{Timeout: timeout, Proxy: cfg.Proxy})
	if err != nil {
		return nil, err
	}
	return &Client{apiKey: key, endpoint: endpoint, http: hc}, nil
}

// Autocomplete returns up to six suggestions for q. A blank query returns
// an empty list without calling upstream.
func (c *Client) Autocomplete(ctx context.Context, q string) ([]Suggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Suggestion{}, nil
	}
	params := url.Values{}
	params.Set("input", q)
	params.Set("types", "establishment|geocode")

	doc, err := c.get(ctx, "/autocomplete/json", params)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(doc, "OK", "ZERO_RESULTS"); err != nil {
		return nil, err
	}

	out := []Suggestion{}
	doc.Get("predictions").ForEach(func(_, p gjson.Result) bool {
		out = append(out, Suggestion{
			PlaceID:     p.Get("place_id").String(),
			Description: p.Get("description").String(),
		})
		return len(out) < maxSuggestions
	})
	return out, nil
}

// Details looks up one place by id.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrMissingPlaceID
	}
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)

	doc, err := c.get(ctx, "/details/json", params)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(doc, "OK"); err != nil {
		return nil, err
	}

	r := doc.Get("result")
	comps := r.Get("address_components")
	d := &Details{
		PlaceID:          r.Get("place_id").String(),
		Name:             r.Get("name").String(),
		FormattedAddress: r.Get("formatted_address").String(),
		City:             utils.FirstNonEmpty(component(comps, "locality"), component(comps, "sublocality")),
		State:            component(comps, "administrative_area_level_1"),
		Country:          component(comps, "country"),
	}
	if v := r.Get("geometry.location.lat"); v.Type == gjson.Number {
		lat := v.Float()
		d.Lat = &lat
	}
	if v := r.Get("geometry.location.lng"); v.Type == gjson.Number {
		lng := v.Float()
		d.Lng = &lng
	}
	return d, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	params.Set("key", c.apiKey)
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    c.endpoint + path + "?" + params.Encode(),
	}, c.http)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("places request: %s", whttp.Scrub(err.Error(), c.apiKey))
	}
	if !gjson.ValidBytes(res.Body) {
		utils.Log.Warnf("places: unreadable response (HTTP %d)", res.StatusCode)
		return gjson.Result{}, fmt.Errorf("places: %s", whttp.ErrorMessage(res))
	}
	return gjson.ParseBytes(res.Body), nil
}

func checkStatus(doc gjson.Result, accepted ...string) error {
	status := doc.Get("status").String()
	for _, a := range accepted {
		if status == a {
			return nil
		}
	}
	return &UpstreamError{Status: status, Message: doc.Get("error_message").String()}
}

// component returns the long_name of the first address component tagged typ.
func component(comps gjson.Result, typ string) string {
	name := ""
	comps.ForEach(func(_, c gjson.Result) bool {
		for _, t := range c.Get("types").Array() {
			if t.String() == typ {
				name = c.Get("long_name").String()
				return false
			}
		}
		return true
	})
	return name
}
