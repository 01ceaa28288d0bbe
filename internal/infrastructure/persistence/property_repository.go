package persistence

import (
	"context"
	"errors"

	"github.com/estate/backend/internal/domain/listing"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// Create creates a new property
func (r *GormPropertyRepository) Create(ctx context.Context, property *listing.Property) error {
	model := models.PropertyModelFromDomain(property)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save persists changes to an existing property
func (r *GormPropertyRepository) Save(ctx context.Context, property *listing.Property) error {
	model := models.PropertyModelFromDomain(property)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormPropertyRepository) SaveWithLock(ctx context.Context, property *listing.Property) error {
	model := models.PropertyModelFromDomain(property)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", property.ID, property.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a property by ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns properties matching the filter with the total count
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter listing.PropertyFilter) ([]*listing.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PropertyModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var propertyModels []models.PropertyModel
	if err := r.applyPagination(query, filter).Find(&propertyModels).Error; err != nil {
		return nil, 0, err
	}

	properties := make([]*listing.Property, len(propertyModels))
	for i := range propertyModels {
		properties[i] = propertyModels[i].ToDomain()
	}
	return properties, total, nil
}

// FindByAgent returns properties assigned to the given agent
func (r *GormPropertyRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter listing.PropertyFilter) ([]*listing.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PropertyModel{}).
		Where("agent_id = ?", agentID)
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var propertyModels []models.PropertyModel
	if err := r.applyPagination(query, filter).Find(&propertyModels).Error; err != nil {
		return nil, 0, err
	}

	properties := make([]*listing.Property, len(propertyModels))
	for i := range propertyModels {
		properties[i] = propertyModels[i].ToDomain()
	}
	return properties, total, nil
}

// Delete removes a property. Deletion is refused while any purchase
// references the listing.
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchases int64
		if err := tx.Model(&models.PurchaseModel{}).
			Where("property_id = ?", id).
			Count(&purchases).Error; err != nil {
			return err
		}
		if purchases > 0 {
			return shared.NewDomainError("PROPERTY_HAS_PURCHASES", "Cannot delete a property that has purchases")
		}

		result := tx.Delete(&models.PropertyModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyPagination applies sorting and pagination to the query
func (r *GormPropertyRepository) applyPagination(query *gorm.DB, filter listing.PropertyFilter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, PropertySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPropertyRepository) applyFilterWithoutPagination(query *gorm.DB, filter listing.PropertyFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.City != "" {
		query = query.Where("address->>'city' ILIKE ?", filter.City)
	}
	if filter.Province != "" {
		query = query.Where("address->>'province' ILIKE ?", filter.Province)
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.Bedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.Bedrooms)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ listing.PropertyRepository = (*GormPropertyRepository)(nil)
