package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g. "invoice:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView            = "user:view"
	PrivUserCreate          = "user:create"
	PrivUserUpdate          = "user:update"
	PrivUserDelete          = "user:delete"
	PrivUserUpdatePrivilege = "user:update_privilege"
	PrivInvoiceView         = "invoice:view"
	PrivInvoiceCreate       = "invoice:create"
	PrivInvoiceUpdate       = "invoice:update"
	PrivPaymentCreate       = "payment:create"
	PrivReturnCreate        = "return:create"
	PrivMasterView          = "master:view"
	PrivMasterManage        = "master:manage"
	PrivReportExport        = "report:export"
	PrivDashboardView       = "dashboard:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivUserUpdatePrivilege, Name: "Update User Privileges"},
	{Code: PrivInvoiceView, Name: "View Invoice"},
	{Code: PrivInvoiceCreate, Name: "Create Invoice"},
	{Code: PrivInvoiceUpdate, Name: "Update Invoice"},
	{Code: PrivPaymentCreate, Name: "Record Payment"},
	{Code: PrivReturnCreate, Name: "Record Return or Exchange"},
	{Code: PrivMasterView, Name: "View Master Data"},
	{Code: PrivMasterManage, Name: "Manage Master Data"},
	{Code: PrivReportExport, Name: "Export Reports"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}

// IsUserAdminPrivilege reports whether code belongs to user administration.
func IsUserAdminPrivilege(code string) bool {
	switch code {
	case PrivUserCreate, PrivUserUpdate, PrivUserDelete, PrivUserUpdatePrivilege:
		return true
	}
	return false
}

// IsCashierPrivilege reports whether code is granted to counter staff.
func IsCashierPrivilege(code string) bool {
	switch code {
	case PrivInvoiceView, PrivInvoiceCreate, PrivPaymentCreate, PrivMasterView, PrivDashboardView:
		return true
	}
	return false
}
