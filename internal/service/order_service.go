package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/pricing"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = apperr.NotFound("order_not_found", "Pedido no encontrado")
	ErrProductUnavailable  = apperr.Rejected("product_unavailable", "Uno de los productos ya no está disponible")
	ErrOutOfStock          = apperr.Rejected("out_of_stock", "No hay unidades suficientes de un producto")
	ErrPriceChanged        = apperr.Rejected("price_changed", "Los precios cambiaron, revisa tu carrito")
	ErrNothingToUpdate     = apperr.Validation("nothing_to_update", "Indica un estado o una nota")
	ErrInvalidStatus       = apperr.Validation("invalid_status", "Estado de pedido no válido")
	ErrInvalidTransition   = apperr.Rejected("invalid_transition", "Transición de estado no permitida")
	ErrOrderChanged        = apperr.Conflict("order_changed", "El pedido fue actualizado por otra persona, recarga la página")
	ErrInvalidBranchFilter = apperr.Validation("invalid_branch", "Sede no válida")
	ErrInvalidDate         = apperr.Validation("invalid_date", "Fecha no válida, usa AAAA-MM-DD")
)

// storefrontActor signs writes made by anonymous customers
const storefrontActor = "storefront"

// Event types pushed to the back office
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventStockLow           = "stock_low"
)

// Notifier receives back-office events once the change is committed
type Notifier interface {
	Publish(eventType string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, interface{}) {}

type PlaceOrderItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	// Price is the unit price the customer saw; nil skips the check
	Price    *int64 `json:"price" validate:"omitempty,gte=0"`
	Quantity int    `json:"quantity" validate:"gt=0,lte=999"`
}

type PlaceOrderRequest struct {
	CustomerName    string           `json:"customer_name" validate:"required,max=120"`
	CustomerPhone   string           `json:"customer_phone" validate:"required,max=30"`
	DeliveryAddress string           `json:"delivery_address" validate:"max=500"`
	SelectedBranch  model.Branch     `json:"selected_branch" validate:"required,branch"`
	Items           []PlaceOrderItem `json:"items" validate:"required,min=1,max=50,dive"`
	CouponCode      string           `json:"coupon_code" validate:"max=40"`

	// Amounts computed by the cart. When sent they must match the server's.
	Subtotal       *int64 `json:"subtotal"`
	DiscountAmount *int64 `json:"discount_amount"`
	Total          *int64 `json:"total"`
}

func (r *PlaceOrderRequest) normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.DeliveryAddress = strings.TrimSpace(r.DeliveryAddress)
	r.SelectedBranch = model.Branch(strings.ToLower(strings.TrimSpace(string(r.SelectedBranch))))
	r.CouponCode = normalizeCode(r.CouponCode)
}

type PlacedOrder struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	Total       int64     `json:"total"`
	WhatsAppURL string    `json:"whatsapp_url,omitempty"`
}

// ListOrdersQuery are the admin list filters as received over HTTP.
// Dates are YYYY-MM-DD in the store timezone, both inclusive.
type ListOrdersQuery struct {
	Status string `query:"status"`
	Branch string `query:"branch"`
	Search string `query:"search"`
	From   string `query:"from"`
	To     string `query:"to"`
	Page   int    `query:"page"`
}

type OrderPage struct {
	Orders       []model.Order               `json:"orders"`
	Total        int64                       `json:"total"`
	Page         int                         `json:"page"`
	PageSize     int                         `json:"page_size"`
	TotalPages   int                         `json:"total_pages"`
	StatusCounts map[model.OrderStatus]int64 `json:"status_counts"`
}

type UpdateOrderRequest struct {
	Status     *model.OrderStatus `json:"status"`
	AdminNotes *string            `json:"admin_notes" validate:"omitempty,max=2000"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlacedOrder, error)
	GetByNumber(ctx context.Context, number string) (*model.OrderTracking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, q ListOrdersQuery) (*OrderPage, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest, actor string) (*model.Order, error)
}

type OrderServiceConfig struct {
	PageSize          int
	LowStockThreshold int
	WhatsApp          WhatsAppNumbers
	Location          *time.Location
}

type orderService struct {
	uow      repository.UnitOfWork
	orders   repository.OrderRepository
	notifier Notifier
	cfg      OrderServiceConfig
	numbers  OrderNumberFunc
	now      func() time.Time
}

func NewOrderService(uow repository.UnitOfWork, orders repository.OrderRepository, notifier Notifier, cfg OrderServiceConfig) OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &orderService{
		uow:      uow,
		orders:   orders,
		notifier: notifier,
		cfg:      cfg,
		numbers:  NewOrderNumber,
		now:      time.Now,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlacedOrder, error) {
	req.normalize()
	if err := validationError(req); err != nil {
		return nil, err
	}

	now := s.now()
	order := &model.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		SelectedBranch:  req.SelectedBranch,
		Status:          model.StatusReceived,
	}
	order.CreatedBy = storefrontActor
	order.UpdatedBy = storefrontActor

	// units per product, a product may appear on several lines
	wanted := make(map[uuid.UUID]int)
	var ids []uuid.UUID
	for _, line := range req.Items {
		if _, seen := wanted[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		wanted[line.ProductID] += line.Quantity
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var lowStock []model.Product

	err := s.uow.Do(ctx, func(repos repository.TxRepos) error {
		order.Items = order.Items[:0]
		lowStock = lowStock[:0]

		products, err := repos.Products.FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		for i, line := range req.Items {
			p, ok := products[line.ProductID]
			if !ok || !p.IsActive {
				name := line.Name
				if ok {
					name = p.Name
				}
				return productUnavailable(name)
			}
			if line.Price != nil && *line.Price != p.Price {
				return ErrPriceChanged
			}
			productID := p.ID
			order.Items = append(order.Items, model.OrderItem{
				ProductID:    &productID,
				ProductName:  p.Name,
				ProductImage: p.ImageURL,
				PriceAtTime:  p.Price,
				Quantity:     line.Quantity,
				Total:        pricing.LineTotal(p.Price, line.Quantity),
				Position:     i,
			})
		}

		order.Subtotal = order.ItemsTotal()
		order.DiscountAmount = 0
		order.CouponID = nil
		order.CouponCode = ""

		if req.CouponCode != "" {
			coupon, err := repos.Coupons.FindByCodeForUpdate(ctx, req.CouponCode)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCouponNotFound
			}
			if err != nil {
				return err
			}
			discount, err := evaluateCoupon(coupon, order.Subtotal, now)
			if err != nil {
				return err
			}
			used, err := repos.Coupons.IncrementUsage(ctx, coupon.ID)
			if err != nil {
				return err
			}
			if !used {
				return ErrCouponExhausted
			}
			couponID := coupon.ID
			order.CouponID = &couponID
			order.CouponCode = coupon.Code
			order.DiscountAmount = discount.DiscountAmount
		}
		order.Total = order.Subtotal - order.DiscountAmount

		if mismatch(req.Subtotal, order.Subtotal) || mismatch(req.DiscountAmount, order.DiscountAmount) || mismatch(req.Total, order.Total) {
			return ErrPriceChanged
		}

		for _, id := range ids {
			p := products[id]
			if !p.TrackStock {
				continue
			}
			qty := wanted[id]
			if !p.Available(qty) {
				return outOfStock(p)
			}
			ok, err := repos.Products.DecrementStock(ctx, id, qty, storefrontActor)
			if err != nil {
				return err
			}
			if !ok {
				return outOfStock(p)
			}
			p.Stock -= qty
			if s.cfg.LowStockThreshold > 0 && p.Stock < s.cfg.LowStockThreshold {
				lowStock = append(lowStock, *p)
			}
		}

		return s.insertWithNumber(ctx, repos.Orders, order, now)
	})
	if err != nil {
		return nil, internalError("order: place failed", err)
	}

	log.Printf("order %s placed for %s (%s)", order.OrderNumber, order.SelectedBranch, pricing.FormatCOP(order.Total))
	s.notifier.Publish(EventOrderCreated, order)
	for i := range lowStock {
		s.notifier.Publish(EventStockLow, lowStock[i])
	}

	return &PlacedOrder{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		WhatsAppURL: s.cfg.WhatsApp.OrderLink(order),
	}, nil
}

// insertWithNumber assigns a fresh order number and retries on collisions
func (s *orderService) insertWithNumber(ctx context.Context, orders repository.OrderRepository, order *model.Order, now time.Time) error {
	var err error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order.OrderNumber, err = s.numbers(now.In(s.cfg.Location))
		if err != nil {
			return err
		}
		err = orders.Create(ctx, order)
		if !errors.Is(err, repository.ErrOrderNumberTaken) {
			return err
		}
		log.Printf("order: number %s taken, retrying (%d/%d)", order.OrderNumber, attempt, maxOrderNumberAttempts)
	}
	return fmt.Errorf("no free order number after %d attempts: %w", maxOrderNumberAttempts, err)
}

func mismatch(sent *int64, actual int64) bool {
	return sent != nil && *sent != actual
}

func productUnavailable(name string) error {
	if name == "" {
		return ErrProductUnavailable
	}
	return ErrProductUnavailable.WithMessage(fmt.Sprintf("El producto \"%s\" ya no está disponible", name))
}

func outOfStock(p *model.Product) error {
	return ErrOutOfStock.WithMessage(fmt.Sprintf("Solo quedan %d unidades de \"%s\"", p.Stock, p.Name))
}

func normalizeOrderNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

func (s *orderService) GetByNumber(ctx context.Context, number string) (*model.OrderTracking, error) {
	number = normalizeOrderNumber(number)
	if number == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, lookupError("order: get by number", err, ErrOrderNotFound)
	}
	tracking := order.ToTracking()
	return &tracking, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("order: get", err, ErrOrderNotFound)
	}
	return order, nil
}

func (s *orderService) parseDay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, s.cfg.Location)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &day, nil
}

func (s *orderService) filterFrom(q ListOrdersQuery) (repository.OrderFilter, error) {
	f := repository.OrderFilter{
		Search:   strings.TrimSpace(q.Search),
		Page:     q.Page,
		PageSize: s.cfg.PageSize,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if q.Status != "" {
		f.Status = model.OrderStatus(q.Status)
		if !f.Status.Valid() {
			return f, ErrInvalidStatus
		}
	}
	if q.Branch != "" {
		f.Branch = model.Branch(q.Branch)
		if !f.Branch.Valid() {
			return f, ErrInvalidBranchFilter
		}
	}

	from, err := s.parseDay(q.From)
	if err != nil {
		return f, err
	}
	to, err := s.parseDay(q.To)
	if err != nil {
		return f, err
	}
	f.From = from
	if to != nil {
		// the whole "to" day is included
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}
	return f, nil
}

func (s *orderService) List(ctx context.Context, q ListOrdersQuery) (*OrderPage, error) {
	f, err := s.filterFrom(q)
	if err != nil {
		return nil, err
	}

	orders, total, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, internalError("order: list", err)
	}
	counts, err := s.orders.CountByStatus(ctx, f)
	if err != nil {
		return nil, internalError("order: count by status", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}
	totalPages := int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	return &OrderPage{
		Orders:       orders,
		Total:        total,
		Page:         f.Page,
		PageSize:     f.PageSize,
		TotalPages:   totalPages,
		StatusCounts: counts,
	}, nil
}

func (s *orderService) Update(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest, actor string) (*model.Order, error) {
	if req.Status == nil && req.AdminNotes == nil {
		return nil, ErrNothingToUpdate
	}
	if err := validationError(req); err != nil {
		return nil, err
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		updated *model.Order
		from    model.OrderStatus
	)
	err := s.uow.Do(ctx, func(repos repository.TxRepos) error {
		order, err := repos.Orders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		from = order.Status

		if req.Status != nil {
			target := *req.Status
			if !order.Status.CanTransitionTo(target) {
				return invalidTransition(order.Status, target)
			}
			ok, err := repos.Orders.UpdateStatus(ctx, id, order.Status, target, actor)
			if err != nil {
				return err
			}
			if !ok {
				return ErrOrderChanged
			}
		}
		if req.AdminNotes != nil {
			if err := repos.Orders.UpdateNotes(ctx, id, strings.TrimSpace(*req.AdminNotes), actor); err != nil {
				return err
			}
		}

		updated, err = repos.Orders.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, internalError("order: update", err)
	}

	if updated.Status != from {
		log.Printf("order %s: %s -> %s by %s", updated.OrderNumber, from, updated.Status, actor)
		s.notifier.Publish(EventOrderStatusChanged, map[string]interface{}{
			"id":           updated.ID,
			"order_number": updated.OrderNumber,
			"from":         from,
			"status":       updated.Status,
		})
	}
	return updated, nil
}

func invalidTransition(from, to model.OrderStatus) error {
	next, ok := from.Next()
	if !ok {
		return ErrInvalidTransition.WithMessage(fmt.Sprintf("El pedido ya está %s", strings.ToLower(from.Label())))
	}
	return ErrInvalidTransition.WithMessage(fmt.Sprintf(
		"No se puede pasar de %s a %s; el siguiente estado es %s",
		from.Label(), to.Label(), next.Label()))
}
