package model

// BankDetails is printed on invoices. The QR-code image lives in object
// storage under QRCodeKey.
type BankDetails struct {
	Model
	BankName          string `gorm:"type:varchar(255);not null" json:"bank_name" validate:"required"`
	AccountHolderName string `gorm:"type:varchar(255)" json:"account_holder_name"`
	AccountNumber     string `gorm:"type:varchar(50);not null" json:"account_number" validate:"required"`
	IFSCCode          string `gorm:"type:varchar(20)" json:"ifsc_code"`
	BranchName        string `gorm:"type:varchar(255)" json:"branch_name"`
	UPIID             string `gorm:"type:varchar(100)" json:"upi_id"`
	QRCodeKey         string `gorm:"type:varchar(255)" json:"qr_code_key"`
	QRCodeURL         string `gorm:"-" json:"qr_code_url,omitempty"`
}

// CompanyDetails heads printed invoices; the first record is used.
type CompanyDetails struct {
	Model
	CompanyName        string `gorm:"type:varchar(255);not null" json:"company_name" validate:"required"`
	Address            string `gorm:"type:text" json:"address"`
	Phone              string `gorm:"type:varchar(30)" json:"phone"`
	Email              string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	GSTIN              string `gorm:"type:varchar(20)" json:"gstin"`
	PAN                string `gorm:"type:varchar(20)" json:"pan"`
	Website            string `gorm:"type:varchar(255)" json:"website"`
	TermsAndConditions string `gorm:"type:text" json:"terms_and_conditions"`
}
