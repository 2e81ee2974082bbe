package repository

import (
	"context"
	"time"

	"go-dulceria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter drives the admin order list. From is inclusive, To exclusive.
type OrderFilter struct {
	Status   model.OrderStatus
	Branch   model.Branch
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

func (f OrderFilter) offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// DailyOrders feeds the dashboard chart
type DailyOrders struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type BranchRevenue struct {
	Branch  model.Branch `json:"branch"`
	Orders  int64        `json:"orders"`
	Revenue int64        `json:"revenue"`
}

type OrderRepository interface {
	// Create inserts the order and its items. Inside a transaction it runs
	// under a savepoint so a failed insert leaves the outer transaction usable.
	Create(ctx context.Context, order *model.Order) error
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	// CountByStatus applies every filter except Status
	CountByStatus(ctx context.Context, filter OrderFilter) (map[model.OrderStatus]int64, error)
	// UpdateStatus moves the order from -> to only if it is still in from
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string, updatedBy string) error
	DailySummary(ctx context.Context, from, to time.Time) ([]DailyOrders, error)
	RevenueByBranch(ctx context.Context, from, to time.Time) ([]BranchRevenue, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Coupon").Create(order).Error
	})
	return translate(err)
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.position ASC")
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items", preloadItems).
		First(&order, "order_number = ?", number).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items", preloadItems).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepo) filtered(ctx context.Context, f OrderFilter, withStatus bool) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if withStatus && f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Branch != "" {
		q = q.Where("selected_branch = ?", f.Branch)
	}
	if f.Search != "" {
		like := containsPattern(f.Search)
		q = q.Where("(order_number ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?)", like, like, like)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}

func (r *orderRepo) List(ctx context.Context, f OrderFilter) ([]model.Order, int64, error) {
	var total int64
	if err := r.filtered(ctx, f, true).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var orders []model.Order
	err := r.filtered(ctx, f, true).
		Preload("Items", preloadItems).
		Order("created_at DESC, id DESC").
		Offset(f.offset()).
		Limit(f.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, f OrderFilter) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := r.filtered(ctx, f, false).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[model.OrderStatus]int64, len(model.OrderLifecycle))
	for _, st := range model.OrderLifecycle {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *orderRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"admin_notes": notes,
			"updated_by":  updatedBy,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepo) DailySummary(ctx context.Context, from, to time.Time) ([]DailyOrders, error) {
	var results []DailyOrders

	rows, err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS orders,
			COALESCE(SUM(total), 0) AS revenue
		`).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyOrders
		if err := rows.Scan(&d.Date, &d.Orders, &d.Revenue); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// RevenueByBranch only counts delivered orders
func (r *orderRepo) RevenueByBranch(ctx context.Context, from, to time.Time) ([]BranchRevenue, error) {
	var results []BranchRevenue
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("selected_branch AS branch, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.StatusDelivered, from, to).
		Group("selected_branch").
		Order("selected_branch").
		Scan(&results).Error
	return results, translate(err)
}
