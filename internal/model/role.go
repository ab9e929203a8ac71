package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleCashier     = "CASHIER"
)

var DefaultRoles = []Role{
	{Code: RoleMasterAdmin, Name: "Master Administrator", Description: "Full system access with all privileges"},
	{Code: RoleAdmin, Name: "Administrator", Description: "Store management without user administration"},
	{Code: RoleCashier, Name: "Cashier", Description: "Billing counter: invoices and payments"},
}

// PrivilegesFor filters all down to what role code receives at seed time.
func PrivilegesFor(code string, all []Privilege) []Privilege {
	out := make([]Privilege, 0, len(all))
	for _, p := range all {
		switch code {
		case RoleMasterAdmin:
			out = append(out, p)
		case RoleAdmin:
			if !IsUserAdminPrivilege(p.Code) {
				out = append(out, p)
			}
		case RoleCashier:
			if IsCashierPrivilege(p.Code) {
				out = append(out, p)
			}
		}
	}
	return out
}
