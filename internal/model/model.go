package model

// All lists every persisted entity, in dependency order, for auto-migration
func All() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Category{}, &Product{},
		&Coupon{},
		&Order{}, &OrderItem{},
		&Review{}, &ReviewImage{},
		&EmailSubscriber{},
		&Banner{}, &Countdown{},
	}
}
