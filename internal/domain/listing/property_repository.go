package listing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/google/uuid"
)

// PropertyRepository defines the interface for listing persistence
type PropertyRepository interface {
	// Create creates a new property
	Create(ctx context.Context, property *Property) error

	// Save persists changes to an existing property
	Save(ctx context.Context, property *Property) error

	// SaveWithLock persists changes with optimistic concurrency control
	SaveWithLock(ctx context.Context, property *Property) error

	// FindByID finds a property by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindAll returns properties matching the filter with the total count
	FindAll(ctx context.Context, filter PropertyFilter) ([]*Property, int64, error)

	// FindByAgent returns properties assigned to the given agent
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter PropertyFilter) ([]*Property, int64, error)

	// Delete removes a property. Implementations must refuse to delete
	// a property that is referenced by any purchase.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PropertyFilter contains filter options for querying listings
type PropertyFilter struct {
	Status   *PropertyStatus
	Type     *PropertyType
	City     string
	Province string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Bedrooms *int
	OwnerID  *uuid.UUID

	// Search keyword for title and description
	Keyword string

	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
