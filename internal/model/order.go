package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch is one of the two physical stores an order is routed to
type Branch string

const (
	BranchOutlet      Branch = "outlet"
	BranchSupercentro Branch = "supercentro"
)

var Branches = []Branch{BranchOutlet, BranchSupercentro}

func (b Branch) Valid() bool {
	return b == BranchOutlet || b == BranchSupercentro
}

// DisplayName is the name customers know the store by
func (b Branch) DisplayName() string {
	switch b {
	case BranchOutlet:
		return "Outlet"
	case BranchSupercentro:
		return "Supercentro"
	default:
		return string(b)
	}
}

type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
)

// OrderLifecycle is the linear order of states. There is no cancelled state.
var OrderLifecycle = []OrderStatus{StatusReceived, StatusConfirmed, StatusPreparing, StatusDelivered}

func (s OrderStatus) index() int {
	for i, st := range OrderLifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool { return s.index() >= 0 }

// Next returns the only state reachable from s; false for delivered or unknown.
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := s.index()
	if i < 0 || i == len(OrderLifecycle)-1 {
		return "", false
	}
	return OrderLifecycle[i+1], true
}

func (s OrderStatus) Terminal() bool { return s == StatusDelivered }

// CanTransitionTo reports whether target is exactly one step ahead of s
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// Label is the Spanish status shown on the tracking page
func (s OrderStatus) Label() string {
	switch s {
	case StatusReceived:
		return "Recibido"
	case StatusConfirmed:
		return "Confirmado"
	case StatusPreparing:
		return "En preparación"
	case StatusDelivered:
		return "Entregado"
	default:
		return string(s)
	}
}

// OrderNumberIndex is the unique index guarding order numbers; its name is
// used to tell order number collisions apart from other unique violations.
const OrderNumberIndex = "idx_orders_order_number"

type Order struct {
	BaseModel
	OrderNumber     string `gorm:"type:varchar(32);uniqueIndex:idx_orders_order_number;not null" json:"order_number"`
	CustomerName    string `gorm:"type:varchar(120);not null" json:"customer_name"`
	CustomerPhone   string `gorm:"type:varchar(30);not null" json:"customer_phone"`
	DeliveryAddress string `gorm:"type:varchar(500)" json:"delivery_address,omitempty"`
	SelectedBranch  Branch `gorm:"type:varchar(20);not null;index" json:"selected_branch"`

	Subtotal       int64      `gorm:"not null" json:"subtotal"`
	CouponID       *uuid.UUID `gorm:"type:uuid;index" json:"coupon_id,omitempty"`
	Coupon         *Coupon    `gorm:"foreignKey:CouponID;constraint:OnDelete:SET NULL" json:"-"`
	CouponCode     string     `gorm:"type:varchar(40)" json:"coupon_code,omitempty"`
	DiscountAmount int64      `gorm:"not null;default:0" json:"discount_amount"`
	Total          int64      `gorm:"not null" json:"total"`

	Status     OrderStatus `gorm:"type:varchar(20);not null;default:received;index" json:"status"`
	AdminNotes string      `gorm:"type:text" json:"admin_notes,omitempty"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the product as it was sold. ProductID is a weak
// reference: deleting the product nulls it and leaves the snapshot intact.
type OrderItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product      *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
	ProductName  string     `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImage string     `gorm:"type:varchar(500)" json:"product_image"`
	PriceAtTime  int64      `gorm:"not null" json:"price_at_time"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	Total        int64      `gorm:"not null" json:"total"`
	Position     int        `gorm:"not null;default:0" json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ItemsTotal sums the line totals
func (o *Order) ItemsTotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.Total
	}
	return sum
}

// OrderTracking is the public view of an order; admin notes stay internal
type OrderTracking struct {
	OrderNumber     string         `json:"order_number"`
	CustomerName    string         `json:"customer_name"`
	DeliveryAddress string         `json:"delivery_address,omitempty"`
	SelectedBranch  Branch         `json:"selected_branch"`
	BranchName      string         `json:"branch_name"`
	Subtotal        int64          `json:"subtotal"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	DiscountAmount  int64          `json:"discount_amount"`
	Total           int64          `json:"total"`
	Status          OrderStatus    `json:"status"`
	StatusLabel     string         `json:"status_label"`
	Steps           []TrackingStep `json:"steps"`
	Items           []OrderItem    `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type TrackingStep struct {
	Status OrderStatus `json:"status"`
	Label  string      `json:"label"`
	Done   bool        `json:"done"`
}

func (o *Order) ToTracking() OrderTracking {
	current := o.Status.index()
	steps := make([]TrackingStep, len(OrderLifecycle))
	for i, st := range OrderLifecycle {
		steps[i] = TrackingStep{Status: st, Label: st.Label(), Done: i <= current}
	}
	return OrderTracking{
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		DeliveryAddress: o.DeliveryAddress,
		SelectedBranch:  o.SelectedBranch,
		BranchName:      o.SelectedBranch.DisplayName(),
		Subtotal:        o.Subtotal,
		CouponCode:      o.CouponCode,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		Status:          o.Status,
		StatusLabel:     o.Status.Label(),
		Steps:           steps,
		Items:           o.Items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
