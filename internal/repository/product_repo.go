package repository

import (
	"context"

	"go-dulceria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows product listings. Zero value lists everything.
type ProductFilter struct {
	CategorySlug string
	FeaturedOnly bool
	ActiveOnly   bool
	Search       string
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	// Update writes everything but stock, which orders change concurrently
	Update(ctx context.Context, product *model.Product) error
	// SetStock overwrites the stock with a counted value
	SetStock(ctx context.Context, id uuid.UUID, stock int, updatedBy string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	// FindByIDsForUpdate loads and row-locks the given products for the rest of the transaction
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
	// DecrementStock subtracts qty from a tracked product only if enough stock is left
	DecrementStock(ctx context.Context, id uuid.UUID, qty int, updatedBy string) (bool, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	FindLowStock(ctx context.Context, threshold int) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations, "stock").Save(product).Error)
}

func (r *productRepo) SetStock(ctx context.Context, id uuid.UUID, stock int, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"stock": stock, "updated_by": updatedBy})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Product{}, id)
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")
	if filter.ActiveOnly {
		q = q.Where("products.is_active = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("products.is_featured = ?", true)
	}
	if filter.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		like := containsPattern(filter.Search)
		q = q.Where("(products.name ILIKE ? OR products.short_description ILIKE ?)", like, like)
	}

	var products []model.Product
	err := q.Order("products.is_featured DESC, products.name ASC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	var products []model.Product
	// Orden fijo por id para evitar deadlocks entre pedidos concurrentes
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int, updatedBy string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND track_stock = ? AND stock >= ?", id, true, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err)
}

func (r *productRepo) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("track_stock = ? AND is_active = ? AND stock < ?", true, true, threshold).
		Order("stock ASC, name ASC").
		Find(&products).Error
	return products, translate(err)
}
