package catalog

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxUploadSize is the image size limit when none is configured
const DefaultMaxUploadSize int64 = 5 << 20

// ObjectStorage stores uploaded media and returns its public URL
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Config tunes the product service
type Config struct {
	CacheTTL      time.Duration
	MaxUploadSize int64
	ImageWidth    int
}

// ProductService serves the storefront listing and admin product management
type ProductService struct {
	repo    catalog.ProductRepository
	cache   catalog.ListCache
	storage ObjectStorage
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures the ProductService
type Option func(*ProductService)

// WithObjectStorage enables image uploads
func WithObjectStorage(s ObjectStorage) Option {
	return func(ps *ProductService) {
		ps.storage = s
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(ps *ProductService) {
		if l != nil {
			ps.logger = l
		}
	}
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.ProductRepository, cache catalog.ListCache, cfg Config, opts ...Option) *ProductService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}
	s := &ProductService{
		repo:   repo,
		cache:  cache,
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the filtered product list. The full list is read through
// the cache; a stale snapshot is served when the repository fails.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	var category catalog.Category
	if c := strings.TrimSpace(filter.Category); c != "" && !strings.EqualFold(c, "all") {
		parsed, err := catalog.ParseCategory(c)
		if err != nil {
			return nil, err
		}
		category = parsed
	}

	products, err := s.allProducts(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]catalog.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if category != "" && p.Category != category {
			continue
		}
		if !p.MatchesSearch(filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	return ToProductResponses(matched, s.cfg.ImageWidth), nil
}

func (s *ProductService) allProducts(ctx context.Context) ([]catalog.Product, error) {
	now := s.now()

	snap, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("product cache read failed", zap.Error(err))
		snap = nil
	}
	if snap.FreshAt(now, s.cfg.CacheTTL) {
		return snap.Products, nil
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		if snap != nil {
			s.logger.Warn("serving stale product list",
				zap.Error(err),
				zap.Time("fetched_at", snap.FetchedAt),
				zap.Int("count", len(snap.Products)),
			)
			return snap.Products, nil
		}
		return nil, err
	}

	if err := s.cache.Put(ctx, &catalog.Snapshot{Products: products, FetchedAt: now}); err != nil {
		s.logger.Warn("product cache write failed", zap.Error(err))
	}
	return products, nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id string) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p, s.cfg.ImageWidth)
	return &resp, nil
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := catalog.NewProduct(req.Name, req.Price, req.Category)
	if err != nil {
		return nil, err
	}
	if err := p.SetOldPrice(req.OldPrice); err != nil {
		return nil, err
	}
	p.SetDescription(req.Description)
	p.SetImage(req.Image)
	p.SetPromo(req.IsPromo)

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToProductResponse(p, s.cfg.ImageWidth)
	return &resp, nil
}

// Update applies a partial update
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := p.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := p.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearOld:
		_ = p.SetOldPrice(nil)
	case req.OldPrice != nil:
		if err := p.SetOldPrice(req.OldPrice); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if err := p.SetCategory(*req.Category); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		p.SetDescription(*req.Description)
	}
	if req.Image != nil {
		p.SetImage(*req.Image)
	}
	if req.IsPromo != nil {
		p.SetPromo(*req.IsPromo)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToProductResponse(p, s.cfg.ImageWidth)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Count returns the number of products
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

// UploadImage stores a product image under products/<uuid><ext>
func (s *ProductService) UploadImage(ctx context.Context, req UploadImageRequest, body io.Reader) (*UploadImageResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Media storage is not configured")
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	// SVG can carry scripts
	if !strings.HasPrefix(contentType, "image/") || contentType == "image/svg+xml" {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Only image uploads are allowed")
	}
	if req.Size <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is empty")
	}
	if req.Size > s.cfg.MaxUploadSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the upload limit")
	}

	key := "products/" + uuid.NewString() + imageExtension(req.Filename, contentType)
	url, err := s.storage.Put(ctx, key, io.LimitReader(body, req.Size), req.Size, contentType)
	if err != nil {
		return nil, err
	}

	return &UploadImageResponse{
		URL:          url,
		OptimizedURL: OptimizeImageURL(url, s.cfg.ImageWidth),
		Key:          key,
	}, nil
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

func imageExtension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && len(ext) <= 6 {
		return ext
	}
	return mimeExtensions[contentType]
}
