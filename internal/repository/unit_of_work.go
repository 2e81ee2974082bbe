package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// TxRepos are repositories bound to one database transaction
type TxRepos struct {
	Products ProductRepository
	Coupons  CouponRepository
	Orders   OrderRepository
}

// UnitOfWork runs fn inside a single transaction. Returning an error from fn
// rolls back every write made through the given repositories.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Products: NewProductRepo(tx),
			Coupons:  NewCouponRepo(tx),
			Orders:   NewOrderRepo(tx),
		})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}
