package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/hadesigndz/Ha-Design/internal/application/catalog"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_Public(t *testing.T) {
	env := newTestEnv(t, trackingCarrier("X"))
	calligraphy := env.createProduct(t, "Calligraphie arabe", 3500)
	env.createProduct(t, "Coucher de soleil", 2200)

	t.Run("list all", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/products", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]catalogapp.ProductResponse](t, resp), 2)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/products?search=CALLI", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		products := decode[[]catalogapp.ProductResponse](t, resp)
		require.Len(t, products, 1)
		assert.Equal(t, calligraphy.ID, products[0].ID)
	})

	t.Run("unknown category", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/products?category=Baroque", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCategory, resp.Error.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/products/"+calligraphy.ID, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[catalogapp.ProductResponse](t, resp)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(3500)))
	})

	t.Run("get missing", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/products/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestProductHandler_Admin(t *testing.T) {
	env := newTestEnv(t, trackingCarrier("X"))
	headers := env.adminHeaders(t)

	t.Run("requires a token", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/admin/products", map[string]any{"name": "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	var created catalogapp.ProductResponse
	t.Run("create", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/admin/products", map[string]any{
			"name":     "Ayat al-Kursi",
			"price":    4200,
			"category": "Islamic",
		}, headers)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created = decode[catalogapp.ProductResponse](t, resp)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Islamic", created.Category)
	})

	t.Run("create without name", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/admin/products", map[string]any{
			"price":    4200,
			"category": "Islamic",
		}, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("update is partial", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPut, "/admin/products/"+created.ID, map[string]any{
			"price": 3900,
		}, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		p := decode[catalogapp.ProductResponse](t, resp)
		assert.Equal(t, "Ayat al-Kursi", p.Name)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(3900)))
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := env.do(t, http.MethodDelete, "/admin/products/"+created.ID, nil, headers)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, _ = env.do(t, http.MethodGet, "/products/"+created.ID, nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler_UploadImage(t *testing.T) {
	env := newTestEnv(t, trackingCarrier("X"))
	headers := env.adminHeaders(t)

	t.Run("missing file", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/admin/media/images", nil, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})

	t.Run("storage not configured", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "canvas.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/admin/media/images", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", headers["Authorization"])
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeStorageUnavailable)
	})
}
