package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postalServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupPincodeSuccess(t *testing.T) {
	srv := postalServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pincode/411001", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"Name":"Pune City","State":"Maharashtra"}]}]`))
	})

	client := NewPostalAPIClient(srv.URL, "", "Maharashtra", 5*time.Second)
	inRegion, err := client.LookupPincode(context.Background(), "411001")
	require.NoError(t, err)
	assert.True(t, inRegion)
}

func TestLookupPincodeOtherState(t *testing.T) {
	srv := postalServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"Name":"Gurgaon","State":"Haryana"}]}]`))
	})

	client := NewPostalAPIClient(srv.URL, "", "Maharashtra", 5*time.Second)
	inRegion, err := client.LookupPincode(context.Background(), "122001")
	require.NoError(t, err)
	assert.False(t, inRegion)
}

func TestLookupPincodeNonSuccessStatusIsUnknown(t *testing.T) {
	srv := postalServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Status":"Error","PostOffice":null}]`))
	})

	client := NewPostalAPIClient(srv.URL, "", "Maharashtra", 5*time.Second)
	inRegion, err := client.LookupPincode(context.Background(), "000000")
	require.NoError(t, err, "an unknown pincode is not an error")
	assert.False(t, inRegion)
}

func TestLookupPincodeServerError(t *testing.T) {
	srv := postalServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client := NewPostalAPIClient(srv.URL, "", "Maharashtra", 5*time.Second)
	_, err := client.LookupPincode(context.Background(), "411001")
	assert.Error(t, err)
}

func TestFetchRegionPincodes(t *testing.T) {
	srv := postalServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["411001","411002","411003"]`))
	})

	client := NewPostalAPIClient(srv.URL, srv.URL+"/region-pincodes", "Maharashtra", 5*time.Second)
	pincodes, err := client.FetchRegionPincodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, pincodes, 3)
}

func TestFetchRegionPincodesUnconfigured(t *testing.T) {
	client := NewPostalAPIClient("http://localhost:0", "", "Maharashtra", time.Second)
	_, err := client.FetchRegionPincodes(context.Background())
	assert.Error(t, err)
}
