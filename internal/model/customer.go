package model

type Customer struct {
	Model
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Mobile  string `gorm:"type:varchar(20);uniqueIndex;not null" json:"mobile" validate:"required,mobile"`
	Email   string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address string `gorm:"type:text" json:"address"`
	GSTIN   string `gorm:"type:varchar(20)" json:"gstin"`
}
