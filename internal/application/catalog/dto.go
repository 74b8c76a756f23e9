package catalog

import (
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"oldPrice"`
	Category    string           `json:"category" binding:"required"`
	Description string           `json:"description" binding:"max=5000"`
	Image       string           `json:"image" binding:"omitempty,url,max=1000"`
	IsPromo     bool             `json:"isPromo"`
}

// UpdateProductRequest is a partial update. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price"`
	OldPrice    *decimal.Decimal `json:"oldPrice"`
	ClearOld    bool             `json:"clearOldPrice"`
	Category    *string          `json:"category"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Image       *string          `json:"image" binding:"omitempty,max=1000"`
	IsPromo     *bool            `json:"isPromo"`
}

// ProductListFilter narrows the public product listing
type ProductListFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	OldPrice       *decimal.Decimal `json:"oldPrice,omitempty"`
	Discount       decimal.Decimal  `json:"discount"`
	Category       string           `json:"category"`
	Description    string           `json:"description"`
	Image          string           `json:"image"`
	OptimizedImage string           `json:"optimizedImage,omitempty"`
	IsPromo        bool             `json:"isPromo"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ToProductResponse converts a domain Product. width sizes the optimized
// image URL.
func ToProductResponse(p *catalog.Product, width int) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		OldPrice:       p.OldPrice,
		Discount:       p.Discount(),
		Category:       string(p.Category),
		Description:    p.Description,
		Image:          p.Image,
		OptimizedImage: OptimizeImageURL(p.Image, width),
		IsPromo:        p.IsPromo,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product, width int) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], width)
	}
	return responses
}

// UploadImageRequest describes an uploaded product image
type UploadImageRequest struct {
	Filename    string
	ContentType string
	Size        int64
}

// UploadImageResponse is returned after a successful upload
type UploadImageResponse struct {
	URL          string `json:"url"`
	OptimizedURL string `json:"optimizedUrl"`
	Key          string `json:"key"`
}
