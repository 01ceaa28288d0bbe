package persistence

import (
	"context"
	"errors"

	"github.com/estate/backend/internal/domain/purchase"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Create persists a new purchase together with its down payment record
// in a single transaction
func (r *GormPurchaseRepository) Create(ctx context.Context, p *purchase.Purchase, downPayment *purchase.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.PurchaseModelFromDomain(p)).Error; err != nil {
			return err
		}
		return tx.Create(models.PaymentModelFromDomain(downPayment)).Error
	})
}

// SaveWithPayment persists the purchase's updated balance and the new
// payment record in a single transaction, guarded by the version column
// so racing payments against the same purchase cannot both commit.
func (r *GormPurchaseRepository) SaveWithPayment(ctx context.Context, p *purchase.Purchase, payment *purchase.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PurchaseModelFromDomain(p)
		result := tx.Model(model).
			Select("*").
			Where("id = ? AND version = ?", p.ID, p.Version-1).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return tx.Create(models.PaymentModelFromDomain(payment)).Error
	})
}

// Save persists changes to the purchase with optimistic locking
func (r *GormPurchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	model := models.PurchaseModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a purchase by ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyer returns all purchases made by the given buyer
func (r *GormPurchaseRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*purchase.Purchase, error) {
	var purchaseModels []models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("purchase_date DESC").
		Find(&purchaseModels).Error; err != nil {
		return nil, err
	}

	purchases := make([]*purchase.Purchase, len(purchaseModels))
	for i := range purchaseModels {
		purchases[i] = purchaseModels[i].ToDomain()
	}
	return purchases, nil
}

// FindAll returns purchases matching the filter with the total count
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter purchase.PurchaseFilter) ([]*purchase.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "purchase_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var purchaseModels []models.PurchaseModel
	if err := query.Find(&purchaseModels).Error; err != nil {
		return nil, 0, err
	}

	purchases := make([]*purchase.Purchase, len(purchaseModels))
	for i := range purchaseModels {
		purchases[i] = purchaseModels[i].ToDomain()
	}
	return purchases, total, nil
}

// ExistsByProperty reports whether any purchase references the property
func (r *GormPurchaseRepository) ExistsByProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseModel{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ purchase.PurchaseRepository = (*GormPurchaseRepository)(nil)

// GormPaymentRepository implements PaymentRepository using GORM.
// It is read-only; payments are written through GormPurchaseRepository
// together with the purchase row.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPurchase returns the ledger for a purchase, oldest first
func (r *GormPaymentRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*purchase.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("payment_date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*purchase.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return payments, nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ purchase.PaymentRepository = (*GormPaymentRepository)(nil)
