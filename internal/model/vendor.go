package model

type Vendor struct {
	Model
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person"`
	Mobile        string `gorm:"type:varchar(20)" json:"mobile" validate:"omitempty,mobile"`
	Email         string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address       string `gorm:"type:text" json:"address"`
	GSTIN         string `gorm:"type:varchar(20)" json:"gstin"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}
