package service

import (
	"context"
	"errors"
	"strings"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"
	"go-dulceria-api/pkg/slug"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = apperr.NotFound("category_not_found", "Categoría no encontrada")
	ErrCategoryExists   = apperr.Conflict("category_exists", "Ya existe una categoría con ese slug")
	ErrCategoryInUse    = apperr.Conflict("category_in_use", "La categoría tiene productos asociados")
	ErrProductNotFound  = apperr.NotFound("product_not_found", "Producto no encontrado")
	ErrProductExists    = apperr.Conflict("product_exists", "Ya existe un producto con ese slug")
	ErrInvalidSlug      = apperr.Validation("invalid_slug", "El slug solo admite minúsculas, números y guiones")
	ErrInvalidQuantity  = apperr.Validation("invalid_quantity", "La cantidad debe ser mayor a cero")
)

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"max=160"`
	Description string `json:"description" validate:"max=1000"`
}

type ProductRequest struct {
	Name             string     `json:"name" validate:"required,max=255"`
	Slug             string     `json:"slug" validate:"max=160"`
	ShortDescription string     `json:"short_description" validate:"max=500"`
	Description      string     `json:"description"`
	Price            int64      `json:"price" validate:"gte=0"`
	Tag              string     `json:"tag" validate:"max=40"`
	ImageURL         string     `json:"image_url" validate:"omitempty,url,max=500"`
	IsFeatured       bool       `json:"is_featured"`
	IsActive         *bool      `json:"is_active"`
	Stock            *int       `json:"stock" validate:"omitempty,gte=0"`
	TrackStock       bool       `json:"track_stock"`
	CategoryID       *uuid.UUID `json:"category_id"`
}

// ProductQuery are the public catalog filters
type ProductQuery struct {
	Category string `query:"category"`
	Featured bool   `query:"featured"`
	Search   string `query:"search"`
}

type SellRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, slug string) (*model.Category, error)
	CreateCategory(ctx context.Context, req *CategoryRequest, actor string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *CategoryRequest, actor string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListProducts is the storefront listing, active products only
	ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, error)
	ListAllProducts(ctx context.Context, q ProductQuery) ([]model.Product, error)
	GetProduct(ctx context.Context, slug string) (*model.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, req *ProductRequest, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// Sell takes qty units out of stock for a sale made outside the storefront
	Sell(ctx context.Context, id uuid.UUID, qty int, actor string) (*model.Product, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	notifier   Notifier
	lowStock   int
}

func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository, notifier Notifier, lowStockThreshold int) CatalogService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &catalogService{
		categories: categories,
		products:   products,
		notifier:   notifier,
		lowStock:   lowStockThreshold,
	}
}

// resolveSlug derives the slug from name when none was given
func resolveSlug(given, name string) (string, error) {
	given = strings.TrimSpace(given)
	if given == "" {
		if s := slug.Make(name); s != "" {
			return s, nil
		}
		return "", ErrInvalidSlug
	}
	if !slug.Valid(given) {
		return "", ErrInvalidSlug
	}
	return given, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, internalError("catalog: list categories", err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupError("catalog: get category", err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req *CategoryRequest, actor string) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}
	sl, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Slug: sl, Name: req.Name, Description: req.Description}
	category.CreatedBy = actor
	category.UpdatedBy = actor
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, internalError("catalog: create category", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *CategoryRequest, actor string) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}
	sl, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("catalog: update category", err, ErrCategoryNotFound)
	}
	category.Slug = sl
	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedBy = actor

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, internalError("catalog: update category", err)
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	n, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return internalError("catalog: delete category", err)
	}
	if n > 0 {
		return ErrCategoryInUse
	}

	err = s.categories.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInUse):
		// a product was assigned between the count and the delete
		return ErrCategoryInUse
	default:
		return lookupError("catalog: delete category", err, ErrCategoryNotFound)
	}
}

func (s *catalogService) ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	return s.listProducts(ctx, q, true)
}

func (s *catalogService) ListAllProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	return s.listProducts(ctx, q, false)
}

func (s *catalogService) listProducts(ctx context.Context, q ProductQuery, activeOnly bool) ([]model.Product, error) {
	products, err := s.products.FindAll(ctx, repository.ProductFilter{
		CategorySlug: strings.TrimSpace(q.Category),
		FeaturedOnly: q.Featured,
		ActiveOnly:   activeOnly,
		Search:       strings.TrimSpace(q.Search),
	})
	if err != nil {
		return nil, internalError("catalog: list products", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupError("catalog: get product", err, ErrProductNotFound)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("catalog: get product", err, ErrProductNotFound)
	}
	return product, nil
}

func (s *catalogService) checkProductRequest(ctx context.Context, req *ProductRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return "", err
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return "", lookupError("catalog: check category", err, ErrCategoryNotFound)
		}
	}
	return resolveSlug(req.Slug, req.Name)
}

func applyProductRequest(p *model.Product, req *ProductRequest, sl string) {
	p.Slug = sl
	p.Name = req.Name
	p.ShortDescription = req.ShortDescription
	p.Description = req.Description
	p.Price = req.Price
	p.Tag = req.Tag
	p.ImageURL = req.ImageURL
	p.IsFeatured = req.IsFeatured
	p.TrackStock = req.TrackStock
	p.CategoryID = req.CategoryID
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *ProductRequest, actor string) (*model.Product, error) {
	sl, err := s.checkProductRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	product := &model.Product{IsActive: true}
	applyProductRequest(product, req, sl)
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, internalError("catalog: create product", err)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error) {
	sl, err := s.checkProductRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("catalog: update product", err, ErrProductNotFound)
	}
	applyProductRequest(product, req, sl)
	product.UpdatedBy = actor

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, internalError("catalog: update product", err)
	}
	// stock is only overwritten when staff send a counted value
	if req.Stock != nil {
		if err := s.products.SetStock(ctx, id, *req.Stock, actor); err != nil {
			return nil, lookupError("catalog: set stock", err, ErrProductNotFound)
		}
		product.Stock = *req.Stock
	}
	return product, nil
}

// DeleteProduct removes the product; past order items keep their snapshot
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return lookupError("catalog: delete product", err, ErrProductNotFound)
	}
	return nil
}

func (s *catalogService) Sell(ctx context.Context, id uuid.UUID, qty int, actor string) (*model.Product, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("catalog: sell", err, ErrProductNotFound)
	}
	if !product.TrackStock {
		return product, nil
	}
	if !product.Available(qty) {
		return nil, outOfStock(product)
	}

	ok, err := s.products.DecrementStock(ctx, id, qty, actor)
	if err != nil {
		return nil, internalError("catalog: sell", err)
	}
	if !ok {
		// stock moved since we read it
		fresh, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, internalError("catalog: sell", err)
		}
		return nil, outOfStock(fresh)
	}

	product.Stock -= qty
	product.UpdatedBy = actor
	if s.lowStock > 0 && product.Stock < s.lowStock {
		s.notifier.Publish(EventStockLow, *product)
	}
	return product, nil
}
