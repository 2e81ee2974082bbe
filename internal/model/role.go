package model

// Role groups the privileges a staff member receives by default
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

var DefaultRoles = []Role{
	{
		Code:        RoleOwner,
		Name:        "Propietario",
		Description: "Acceso completo al panel administrativo",
	},
	{
		Code:        RoleStaff,
		Name:        "Personal de tienda",
		Description: "Gestión de pedidos de la sede",
	},
}

// StaffPrivileges are the privileges granted to RoleStaff
var StaffPrivileges = []string{PrivOrderView, PrivOrderUpdate, PrivDashboardView}
