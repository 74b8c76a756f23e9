package handler

import (
	"net/http"
	"testing"

	"github.com/hadesigndz/Ha-Design/internal/domain/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionHandler_List(t *testing.T) {
	env := newTestEnv(t, trackingCarrier("X"))

	w, resp := env.do(t, http.MethodGet, "/regions", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries := decode[[]region.PriceEntry](t, resp)
	assert.Len(t, entries, len(region.All()))
	assert.Equal(t, "01", entries[0].Code)
	assert.Contains(t, w.Body.String(), `"homeFee"`)
}

func TestRegionHandler_Price(t *testing.T) {
	env := newTestEnv(t, trackingCarrier("X"))

	tests := []struct {
		name  string
		input string
		code  string
		price int64
		known bool
	}{
		{"algiers", "16", "16", 350, true},
		{"unpadded code", "9", "09", 500, true},
		{"by name", "Tamanrasset", "11", 1100, true},
		{"known without zone", "30", "30", 650, true},
		{"unknown", "99", "99", 650, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodGet, "/regions/"+tt.input+"/price", nil, nil)
			require.Equal(t, http.StatusOK, w.Code)

			data := decode[PriceData](t, resp)
			assert.Equal(t, tt.code, data.Code)
			assert.Equal(t, tt.price, data.Price)
			assert.Equal(t, tt.known, data.Known)
		})
	}
}
