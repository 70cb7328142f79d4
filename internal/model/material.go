package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material is a catalog item trackable by unit of measure and unit price
type Material struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	TypeID          uint            `gorm:"not null;index" json:"type_id"`
	Type            *MaterialType   `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	UnitOfMeasureID uint            `gorm:"not null;index" json:"unit_of_measure_id"`
	UnitOfMeasure   *UnitOfMeasure  `gorm:"foreignKey:UnitOfMeasureID" json:"unit_of_measure,omitempty"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	PhotoKey        *string         `gorm:"type:varchar(512)" json:"photo_key,omitempty"` // opaque object-store key
	Active          bool            `gorm:"not null;default:true;index" json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// MaterialType is a static reference entry grouping catalog materials
type MaterialType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// UnitOfMeasure is a static reference entry (UN, CX, KG, ...)
type UnitOfMeasure struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Abbreviation string `gorm:"type:varchar(10);not null" json:"abbreviation"`
}
