package model

import "github.com/shopspring/decimal"

// ProductCatalog is a sellable design. Exchanges reference it as the
// replacement item.
type ProductCatalog struct {
	Model
	Name                string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU                 string          `gorm:"type:varchar(50);uniqueIndex" json:"sku"`
	Category            string          `gorm:"type:varchar(100)" json:"category"`
	MetalType           string          `gorm:"type:varchar(50)" json:"metal_type"`
	Purity              string          `gorm:"type:varchar(20)" json:"purity"`
	HSNCode             string          `gorm:"type:varchar(20)" json:"hsn_code"`
	GrossWeight         decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"gross_weight" validate:"gte=0"`
	NetWeight           decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"net_weight" validate:"gte=0"`
	DefaultMakingCharge decimal.Decimal `gorm:"type:decimal(6,2);default:0" json:"default_making_charge" validate:"gte=0"`
	VendorID            *uint           `gorm:"index" json:"vendor_id"`
	Vendor              *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty" validate:"-"`
	IsActive            bool            `gorm:"default:true" json:"is_active"`
}
