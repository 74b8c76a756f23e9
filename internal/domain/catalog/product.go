package catalog

import (
	"strings"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category is the artwork style a product is filed under
type Category string

const (
	CategoryModern     Category = "Modern"
	CategoryClassic    Category = "Classic"
	CategoryAbstract   Category = "Abstract"
	CategoryIslamic    Category = "Islamic"
	CategoryLandscape  Category = "Landscape"
	CategoryMinimalist Category = "Minimalist"
	CategoryFloral     Category = "Floral"
)

// Categories lists the storefront categories in display order
var Categories = []Category{
	CategoryModern,
	CategoryClassic,
	CategoryAbstract,
	CategoryIslamic,
	CategoryLandscape,
	CategoryMinimalist,
	CategoryFloral,
}

// ParseCategory matches a category case-insensitively
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", shared.NewDomainError("INVALID_CATEGORY", "Unknown category: "+s)
}

// Product is an artwork offered in the storefront
type Product struct {
	shared.BaseEntity
	Name        string           `gorm:"type:varchar(200);not null"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OldPrice    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Category    Category         `gorm:"type:varchar(50);not null;index"`
	Description string           `gorm:"type:text"`
	Image       string           `gorm:"type:varchar(1000)"`
	IsPromo     bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, category string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Price:      price,
		Category:   cat,
	}, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.UpdatedAt = time.Now()
	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// SetOldPrice sets the crossed-out price shown next to a promotion.
// Nil clears it.
func (p *Product) SetOldPrice(old *decimal.Decimal) error {
	if old != nil && !old.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Old price must be positive")
	}
	p.OldPrice = old
	p.UpdatedAt = time.Now()
	return nil
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(category string) error {
	cat, err := ParseCategory(category)
	if err != nil {
		return err
	}
	p.Category = cat
	p.UpdatedAt = time.Now()
	return nil
}

// SetDescription updates the description
func (p *Product) SetDescription(description string) {
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
}

// SetImage updates the image URL
func (p *Product) SetImage(url string) {
	p.Image = strings.TrimSpace(url)
	p.UpdatedAt = time.Now()
}

// SetPromo flags the product as on promotion
func (p *Product) SetPromo(promo bool) {
	p.IsPromo = promo
	p.UpdatedAt = time.Now()
}

// Discount returns OldPrice - Price, or zero when there is no old price
func (p *Product) Discount() decimal.Decimal {
	if p.OldPrice == nil || p.OldPrice.LessThanOrEqual(p.Price) {
		return decimal.Zero
	}
	return p.OldPrice.Sub(p.Price)
}

// MatchesSearch reports whether the name contains term, ignoring case
func (p *Product) MatchesSearch(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	return nil
}
