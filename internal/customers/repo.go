package customers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
)

// Repository manages persistence for customers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	// CreateIfAbsent inserts the customer unless the email already exists.
	// It reports whether a row was actually written.
	CreateIfAbsent(ctx context.Context, customer *models.Customer) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) CreateIfAbsent(ctx context.Context, customer *models.Customer) (bool, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(customer)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
