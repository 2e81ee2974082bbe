package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory catalog store. Transactions run one at a time
// and roll back by restoring a snapshot.
type memStore struct {
	txMu sync.Mutex

	products   map[uuid.UUID]*model.Product
	categories map[uuid.UUID]*model.Category
	coupons    map[uuid.UUID]*model.Coupon
	orders     map[uuid.UUID]*model.Order

	clock time.Time
	// createOrderErr makes every order insert fail
	createOrderErr error
	txCount        int
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[uuid.UUID]*model.Product{},
		categories: map[uuid.UUID]*model.Category{},
		coupons:    map[uuid.UUID]*model.Coupon{},
		orders:     map[uuid.UUID]*model.Order{},
		clock:      time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func copyOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp
}

type memSnapshot struct {
	products map[uuid.UUID]model.Product
	coupons  map[uuid.UUID]model.Coupon
	orders   map[uuid.UUID]*model.Order
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products: map[uuid.UUID]model.Product{},
		coupons:  map[uuid.UUID]model.Coupon{},
		orders:   map[uuid.UUID]*model.Order{},
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for id, c := range s.coupons {
		snap.coupons[id] = *c
	}
	for id, o := range s.orders {
		snap.orders[id] = copyOrder(o)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = map[uuid.UUID]*model.Product{}
	for id, p := range snap.products {
		p := p
		s.products[id] = &p
	}
	s.coupons = map[uuid.UUID]*model.Coupon{}
	for id, c := range snap.coupons {
		c := c
		s.coupons[id] = &c
	}
	s.orders = snap.orders
}

// ---- seed helpers ----

func (s *memStore) addProduct(p model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = &p
	return &p
}

func (s *memStore) addCoupon(c model.Coupon) *model.Coupon {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.coupons[c.ID] = &c
	return &c
}

func (s *memStore) addCategory(c model.Category) *model.Category {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.categories[c.ID] = &c
	return &c
}

func (s *memStore) addOrder(o model.Order) *model.Order {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.tick()
	}
	if o.Status == "" {
		o.Status = model.StatusReceived
	}
	s.orders[o.ID] = &o
	return &o
}

// ---- unit of work ----

type memUnitOfWork struct{ s *memStore }

func (u memUnitOfWork) Do(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()
	u.s.txCount++

	snap := u.s.snapshot()
	err := fn(repository.TxRepos{
		Products: memProducts{u.s},
		Coupons:  memCoupons{u.s},
		Orders:   memOrders{u.s},
	})
	if err != nil {
		u.s.restore(snap)
	}
	return err
}

// ---- products ----

type memProducts struct{ s *memStore }

func (r memProducts) slugTaken(slug string, except uuid.UUID) bool {
	for id, p := range r.s.products {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r memProducts) Create(_ context.Context, p *model.Product) error {
	if r.slugTaken(p.Slug, uuid.Nil) {
		return repository.ErrDuplicate
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) Update(_ context.Context, p *model.Product) error {
	current, ok := r.s.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.slugTaken(p.Slug, p.ID) {
		return repository.ErrDuplicate
	}
	cp := *p
	cp.Stock = current.Stock
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) SetStock(_ context.Context, id uuid.UUID, stock int, updatedBy string) error {
	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedBy = updatedBy
	return nil
}

func (r memProducts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r memProducts) FindAll(_ context.Context, f repository.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.CategorySlug != "" {
			if p.CategoryID == nil {
				continue
			}
			c, ok := r.s.categories[*p.CategoryID]
			if !ok || c.Slug != f.CategorySlug {
				continue
			}
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) FindBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range r.s.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProducts) FindByIDsForUpdate(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	out := map[uuid.UUID]*model.Product{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r memProducts) DecrementStock(_ context.Context, id uuid.UUID, qty int, updatedBy string) (bool, error) {
	p, ok := r.s.products[id]
	if !ok || !p.TrackStock || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	p.UpdatedBy = updatedBy
	return true, nil
}

func (r memProducts) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r memProducts) FindLowStock(_ context.Context, threshold int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.TrackStock && p.IsActive && p.Stock < threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ---- categories ----

type memCategories struct{ s *memStore }

func (r memCategories) slugTaken(slug string, except uuid.UUID) bool {
	for id, c := range r.s.categories {
		if id != except && c.Slug == slug {
			return true
		}
	}
	return false
}

func (r memCategories) Create(_ context.Context, c *model.Category) error {
	if r.slugTaken(c.Slug, uuid.Nil) {
		return repository.ErrDuplicate
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r memCategories) Update(_ context.Context, c *model.Category) error {
	if r.slugTaken(c.Slug, c.ID) {
		return repository.ErrDuplicate
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r memCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r memCategories) FindAll(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r memCategories) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCategories) FindBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, c := range r.s.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ---- coupons ----

type memCoupons struct{ s *memStore }

func (r memCoupons) codeTaken(code string, except uuid.UUID) bool {
	for id, c := range r.s.coupons {
		if id != except && strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

func (r memCoupons) Create(_ context.Context, c *model.Coupon) error {
	if r.codeTaken(c.Code, uuid.Nil) {
		return repository.ErrDuplicate
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.s.coupons[c.ID] = &cp
	return nil
}

func (r memCoupons) Update(_ context.Context, c *model.Coupon) error {
	current, ok := r.s.coupons[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.codeTaken(c.Code, c.ID) {
		return repository.ErrDuplicate
	}
	cp := *c
	cp.UsedCount = current.UsedCount
	r.s.coupons[c.ID] = &cp
	return nil
}

func (r memCoupons) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.coupons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.coupons, id)
	return nil
}

func (r memCoupons) FindAll(_ context.Context) ([]model.Coupon, error) {
	var out []model.Coupon
	for _, c := range r.s.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (r memCoupons) FindByID(_ context.Context, id uuid.UUID) (*model.Coupon, error) {
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCoupons) FindByCode(_ context.Context, code string) (*model.Coupon, error) {
	for _, c := range r.s.coupons {
		if strings.EqualFold(c.Code, strings.TrimSpace(code)) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCoupons) FindByCodeForUpdate(ctx context.Context, code string) (*model.Coupon, error) {
	return r.FindByCode(ctx, code)
}

func (r memCoupons) IncrementUsage(_ context.Context, id uuid.UUID) (bool, error) {
	c, ok := r.s.coupons[id]
	if !ok || !c.IsActive || c.Exhausted() {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

// ---- orders ----

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, o *model.Order) error {
	if r.s.createOrderErr != nil {
		return r.s.createOrderErr
	}
	for _, existing := range r.s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return repository.ErrOrderNumberTaken
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = r.s.tick()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.s.orders[o.ID] = copyOrder(o)
	return nil
}

func (r memOrders) FindByNumber(_ context.Context, number string) (*model.Order, error) {
	for _, o := range r.s.orders {
		if o.OrderNumber == number {
			return copyOrder(o), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memOrders) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyOrder(o), nil
}

func (r memOrders) match(o *model.Order, f repository.OrderFilter, withStatus bool) bool {
	if withStatus && f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Branch != "" && o.SelectedBranch != f.Branch {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.OrderNumber), q) &&
			!strings.Contains(strings.ToLower(o.CustomerName), q) &&
			!strings.Contains(o.CustomerPhone, q) {
			return false
		}
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !o.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

func (r memOrders) List(_ context.Context, f repository.OrderFilter) ([]model.Order, int64, error) {
	var all []model.Order
	for _, o := range r.s.orders {
		if r.match(o, f, true) {
			all = append(all, *copyOrder(o))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := 0
	if f.Page > 1 {
		start = (f.Page - 1) * f.PageSize
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r memOrders) CountByStatus(_ context.Context, f repository.OrderFilter) (map[model.OrderStatus]int64, error) {
	counts := map[model.OrderStatus]int64{}
	for _, st := range model.OrderLifecycle {
		counts[st] = 0
	}
	for _, o := range r.s.orders {
		if r.match(o, f, false) {
			counts[o.Status]++
		}
	}
	return counts, nil
}

func (r memOrders) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error) {
	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedBy = updatedBy
	return true, nil
}

func (r memOrders) UpdateNotes(_ context.Context, id uuid.UUID, notes string, updatedBy string) error {
	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.AdminNotes = notes
	o.UpdatedBy = updatedBy
	return nil
}

func (r memOrders) DailySummary(_ context.Context, from, to time.Time) ([]repository.DailyOrders, error) {
	byDay := map[string]*repository.DailyOrders{}
	for _, o := range r.s.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &repository.DailyOrders{Date: day}
			byDay[day] = d
		}
		d.Orders++
		d.Revenue += o.Total
	}
	var out []repository.DailyOrders
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r memOrders) RevenueByBranch(_ context.Context, from, to time.Time) ([]repository.BranchRevenue, error) {
	byBranch := map[model.Branch]*repository.BranchRevenue{}
	for _, o := range r.s.orders {
		if o.Status != model.StatusDelivered || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		b, ok := byBranch[o.SelectedBranch]
		if !ok {
			b = &repository.BranchRevenue{Branch: o.SelectedBranch}
			byBranch[o.SelectedBranch] = b
		}
		b.Orders++
		b.Revenue += o.Total
	}
	var out []repository.BranchRevenue
	for _, b := range byBranch {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out, nil
}

// ---- notifier ----

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Publish(eventType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

func (n *recordingNotifier) count(eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e == eventType {
			c++
		}
	}
	return c
}
