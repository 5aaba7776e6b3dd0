package middleware

import (
	"garage_manager/internal/apperr"
	"garage_manager/internal/models"

	"github.com/gin-gonic/gin"
)

type Resource string

type Action string

const (
	ResourceTickets      Resource = "tickets"
	ResourceVehicles     Resource = "vehicles"
	ResourceCarModels    Resource = "car-models"
	ResourceServices     Resource = "services"
	ResourceParts        Resource = "parts"
	ResourceAppointments Resource = "appointments"
	ResourceUsers        Resource = "users"
	ResourceStaff        Resource = "staff"
	ResourceCustomers    Resource = "customers"
)

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionStockIn Action = "stock-in"
	ActionImport  Action = "import"
	ActionLookup  Action = "lookup"
)

var (
	anyRole       = []models.UserRole{models.RoleAdmin, models.RoleStaff, models.RoleCustomer}
	employees     = []models.UserRole{models.RoleAdmin, models.RoleStaff}
	administrator = []models.UserRole{models.RoleAdmin}
)

// Policy maps resource and action to the roles allowed to perform it.
type Policy map[Resource]map[Action][]models.UserRole

// DefaultPolicy is the garage's access table. Row-level rules, such as staff
// deleting only customers, live in the services.
var DefaultPolicy = Policy{
	ResourceTickets: {
		ActionRead:   employees,
		ActionCreate: employees,
		ActionUpdate: employees,
	},
	ResourceVehicles: {
		ActionRead:   anyRole,
		ActionCreate: employees,
		ActionUpdate: employees,
		ActionDelete: employees,
	},
	ResourceCarModels: {
		ActionRead:   anyRole,
		ActionCreate: administrator,
		ActionUpdate: administrator,
		ActionDelete: administrator,
	},
	ResourceServices: {
		ActionRead:   anyRole,
		ActionCreate: employees,
		ActionUpdate: employees,
		ActionDelete: employees,
	},
	ResourceParts: {
		ActionRead:    employees,
		ActionCreate:  employees,
		ActionUpdate:  employees,
		ActionDelete:  administrator,
		ActionStockIn: administrator,
		ActionImport:  administrator,
	},
	ResourceAppointments: {
		ActionRead:   employees,
		ActionCreate: anyRole,
		ActionUpdate: employees,
		ActionDelete: employees,
	},
	ResourceUsers: {
		ActionCreate: administrator,
		ActionDelete: employees,
		ActionLookup: employees,
	},
	ResourceStaff: {
		ActionRead:   administrator,
		ActionCreate: administrator,
		ActionUpdate: administrator,
	},
	ResourceCustomers: {
		ActionRead:   administrator,
		ActionCreate: administrator,
		ActionUpdate: administrator,
	},
}

// Allows reports whether role may perform action on resource. Unknown pairs
// are denied.
func (p Policy) Allows(role string, resource Resource, action Action) bool {
	for _, r := range p[resource][action] {
		if string(r) == role {
			return true
		}
	}
	return false
}

// Authorize must run after Authenticate.
func (p Policy) Authorize(resource Resource, action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			abort(c, apperr.KindUnauthorized, "Không có token, truy cập bị từ chối")
			return
		}
		if !p.Allows(claims.Role, resource, action) {
			abort(c, apperr.KindForbidden, "Bạn không có quyền thực hiện thao tác này")
			return
		}
		c.Next()
	}
}
