package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hadesigndz/Ha-Design/internal/domain/region"
)

// RegionHandler serves the wilaya price table
type RegionHandler struct {
	BaseHandler
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler() *RegionHandler {
	return &RegionHandler{}
}

// List godoc
// @Summary      List wilayas with delivery fees
// @Tags         regions
// @Produce      json
// @Success      200 {object} APIResponse[[]region.PriceEntry]
// @Router       /regions [get]
func (h *RegionHandler) List(c *gin.Context) {
	h.Success(c, region.PriceTable())
}

// Price godoc
// @Summary      Home delivery fee for a wilaya
// @Description  Accepts a code ("16", "9") or a name ("Alger"). Unknown codes get the fallback fee.
// @Tags         regions
// @Produce      json
// @Param        code path string true "Wilaya code or name"
// @Success      200 {object} APIResponse[PriceData]
// @Router       /regions/{code}/price [get]
func (h *RegionHandler) Price(c *gin.Context) {
	raw := c.Param("code")
	code, known := region.ParseCode(raw)
	if !known {
		code = raw
	}
	h.Success(c, PriceData{
		Code:  code,
		Name:  region.NameFor(code),
		Price: region.PriceFor(code),
		Known: known,
	})
}
