package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PropertyModel mirrors the 'properties' table. Coordinates are stored as
// separate latitude/longitude columns plus a geohash for prefix lookups.
type PropertyModel struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Owner           *UserModel                  `gorm:"foreignKey:OwnerID"`
	Title           string                      `gorm:"type:varchar(200);not null"`
	Description     string                      `gorm:"type:text;not null"`
	Price           float64                     `gorm:"not null;index"`
	Location        string                      `gorm:"type:varchar(500);not null"`
	Latitude        *float64                    `gorm:"index:idx_properties_lat_lng"`
	Longitude       *float64                    `gorm:"index:idx_properties_lat_lng"`
	Geohash         string                      `gorm:"type:varchar(12);index"`
	Images          datatypes.JSONSlice[string] `gorm:"not null"`
	Amenities       []PropertyAmenityModel      `gorm:"foreignKey:PropertyID"`
	IsAvailable     bool                        `gorm:"not null;default:true"`
	PropertyType    string                      `gorm:"type:varchar(16);not null;default:'apartment';index"`
	Bedrooms        int                         `gorm:"not null;default:1"`
	Bathrooms       int                         `gorm:"not null;default:1"`
	SquareFeet      *float64
	AvailableFrom   *time.Time
	SharingType     *string `gorm:"type:varchar(16)"`
	AvailableBeds   *int
	Status          string    `gorm:"type:varchar(16);not null;default:'pending';index"`
	IsApproved      bool      `gorm:"not null;default:false"`
	IsResubmitted   bool      `gorm:"not null;default:false"`
	RejectionReason *string   `gorm:"type:text"`
	Views           int       `gorm:"not null;default:0"`
	AverageRating   float64   `gorm:"not null;default:0"`
	ReviewCount     int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (PropertyModel) TableName() string {
	return "properties"
}

// BeforeCreate assigns the primary key.
func (m *PropertyModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// PropertyAmenityModel mirrors the 'property_amenities' table. Position keeps the submitted order.
type PropertyAmenityModel struct {
	PropertyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(100);primaryKey;index"`
	Position   int       `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (PropertyAmenityModel) TableName() string {
	return "property_amenities"
}
