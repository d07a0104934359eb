package places

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := New(Config{APIKey: "test-key", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	return c, &calls
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(Config{APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAutocomplete(t *testing.T) {
	var preds []string
	for i := 0; i < 9; i++ {
		preds = append(preds, fmt.Sprintf(`{"place_id":"p%d","description":"Place %d","types":["bar"]}`, i, i))
	}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/autocomplete/json", r.URL.Path)
		assert.Equal(t, "pier 9", r.URL.Query().Get("input"))
		assert.Equal(t, "establishment|geocode", r.URL.Query().Get("types"))
		fmt.Fprintf(w, `{"status":"OK","predictions":[%s]}`, strings.Join(preds, ","))
	})

	got, err := c.Autocomplete(context.Background(), "  pier 9 ")
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, Suggestion{PlaceID: "p0", Description: "Place 0"}, got[0])
	assert.Equal(t, "p5", got[5].PlaceID)
}

func TestAutocompleteBlankQuery(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	got, err := c.Autocomplete(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, *calls)
}

func TestAutocompleteStatuses(t *testing.T) {
	tests := []struct {
		body    string
		wantErr string
	}{
		{`{"status":"ZERO_RESULTS","predictions":[]}`, ""},
		{`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`, "The provided API key is invalid."},
		{`{"status":"OVER_QUERY_LIMIT"}`, "OVER_QUERY_LIMIT"},
	}
	for _, tt := range tests {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(tt.body)) })
		got, err := c.Autocomplete(context.Background(), "x")
		if tt.wantErr == "" {
			require.NoError(t, err)
			assert.Empty(t, got)
			continue
		}
		var ue *UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, tt.wantErr, err.Error())
	}
}

func TestDetails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("place_id"))
		assert.Equal(t, detailFields, r.URL.Query().Get("fields"))
		w.Write([]byte(`{"status":"OK","result":{
			"place_id":"abc","name":"Pier 9","formatted_address":"9 Embarcadero, San Francisco, CA",
			"geometry":{"location":{"lat":37.8,"lng":-122.39}},
			"address_components":[
				{"long_name":"Embarcadero","types":["route"]},
				{"long_name":"Mission Bay","types":["sublocality","political"]},
				{"long_name":"California","short_name":"CA","types":["administrative_area_level_1","political"]},
				{"long_name":"United States","types":["country","political"]}
			]}}`))
	})

	d, err := c.Details(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Pier 9", d.Name)
	assert.Equal(t, "Mission Bay", d.City)
	assert.Equal(t, "California", d.State)
	assert.Equal(t, "United States", d.Country)
	require.NotNil(t, d.Lat)
	assert.InDelta(t, 37.8, *d.Lat, 1e-9)
	assert.InDelta(t, -122.39, *d.Lng, 1e-9)
}

func TestDetailsMissingPieces(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"place_id":"abc","address_components":[{"long_name":"Reno","types":["locality"]},{"long_name":"Old Town","types":["sublocality"]}]}}`))
	})
	d, err := c.Details(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Reno", d.City)
	assert.Equal(t, "", d.State)
	assert.Equal(t, "", d.Name)
	assert.Nil(t, d.Lat)
}

func TestDetailsErrors(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})
	_, err := c.Details(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingPlaceID)
	assert.Equal(t, 0, *calls)

	_, err = c.Details(context.Background(), "gone")
	assert.EqualError(t, err, "NOT_FOUND")
}

func TestDetailsUnreadableBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	})
	_, err := c.Details(context.Background(), "abc")
	assert.EqualError(t, err, "places: HTTP 503 Service Unavailable")
}

func TestApply(t *testing.T) {
	a := advance.Default("2026-03-14")
	out := Details{Name: "Pier 9", FormattedAddress: "9 Embarcadero"}.Apply(a)
	assert.Equal(t, "Pier 9", out.VenueName)
	assert.Equal(t, "9 Embarcadero", out.Address)
	assert.Equal(t, "Venue / Location Name", a.VenueName)

	kept := Details{}.Apply(a)
	assert.Equal(t, a, kept)
}

func TestTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c, err := New(Config{APIKey: "SECRET-KEY-123", Endpoint: endpoint})
	require.NoError(t, err)

	_, err = c.Autocomplete(context.Background(), "hotel")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")

	_, err = c.Details(context.Background(), "p1")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
}
