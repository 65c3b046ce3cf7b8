package domain

import (
	"context"
	"time"
)

// Location represents a stock-holding site (store, warehouse, backroom)
type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Location) TableName() string {
	return "locations"
}

// LocationRepository defines the contract for location data access
type LocationRepository interface {
	Create(ctx context.Context, location *Location) error
	FindByID(ctx context.Context, id uint) (*Location, error)
	FindByName(ctx context.Context, name string) (*Location, error)
	FindAll(ctx context.Context) ([]Location, error)
	Update(ctx context.Context, location *Location) error
	Count(ctx context.Context) (int64, error)
}
