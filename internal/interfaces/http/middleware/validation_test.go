package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationErrors_Binding(t *testing.T) {
	type address struct {
		Wilaya string `json:"wilaya" binding:"required,wilaya"`
	}
	type request struct {
		Email   string  `json:"email" binding:"required,email"`
		Name    string  `json:"name" binding:"required,max=5"`
		Address address `json:"address"`
	}

	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("reports json field paths", func(t *testing.T) {
		body := strings.NewReader(`{"email":"nope","name":"too long name","address":{"wilaya":"99"}}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		got := map[string]string{}
		for _, d := range resp.Error.Details {
			got[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid email format", got["email"])
		assert.Equal(t, "Must be at most 5 characters", got["name"])
		assert.Equal(t, "Unknown wilaya", got["address.wilaya"])
	})

	t.Run("accepts wilaya names", func(t *testing.T) {
		body := strings.NewReader(`{"email":"a@b.dz","name":"Amina","address":{"wilaya":"Oran"}}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"email":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})
}

func TestFormatValidationErrors_Domain(t *testing.T) {
	verr := shared.NewValidationError()
	verr.Add("customer.phone", "This field is required")

	resp := FormatValidationErrors(verr, "req-1")
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "customer.phone", resp.Error.Details[0].Field)

	other := FormatValidationErrors(errors.New("EOF"), "")
	assert.Equal(t, dto.ErrCodeInvalidJSON, other.Error.Code)
}
