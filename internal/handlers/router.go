package handlers

import (
	"context"
	"net/http"
	"time"

	"garage_manager/internal/auth"
	"garage_manager/internal/middleware"
	"garage_manager/internal/models"
	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthCheck is a named dependency check reported by GET /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type RouterConfig struct {
	Users        services.UserService
	Vehicles     services.VehicleService
	Catalog      services.CatalogService
	Appointments services.AppointmentService
	Tickets      services.TicketService

	Tokens       *auth.TokenIssuer
	Revocations  middleware.Revocations
	Policy       middleware.Policy
	CookieSecure bool
	Health       []HealthCheck
	Log          zerolog.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	policy := cfg.Policy
	if policy == nil {
		policy = middleware.DefaultPolicy
	}
	can := policy.Authorize

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(cfg.Log), middleware.Recoverer(cfg.Log))

	router.GET("/healthz", healthz(cfg.Health))

	authH := NewAuthHandler(cfg.Users, cfg.CookieSecure, cfg.Log)
	userH := NewUserHandler(cfg.Users, cfg.Log)
	vehicleH := NewVehicleHandler(cfg.Vehicles, cfg.Log)
	catalogH := NewCatalogHandler(cfg.Catalog, cfg.Log)
	apptH := NewAppointmentHandler(cfg.Appointments, cfg.Log)
	ticketH := NewTicketHandler(cfg.Tickets, cfg.Log)

	api := router.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	secured := api.Group("")
	secured.Use(middleware.Authenticate(cfg.Tokens, cfg.Revocations, cfg.Log))
	{
		secured.POST("/auth/logout", authH.Logout)
		secured.GET("/auth/me", authH.Me)
		secured.POST("/auth/users", can(middleware.ResourceUsers, middleware.ActionCreate), authH.CreateUser)

		users := secured.Group("/users")
		users.PUT("/change-password", userH.ChangePassword)
		users.GET("/staff", can(middleware.ResourceStaff, middleware.ActionRead), userH.List(models.RoleStaff))
		users.POST("/staff", can(middleware.ResourceStaff, middleware.ActionCreate), userH.Create(models.RoleStaff))
		users.PUT("/staff/:id", can(middleware.ResourceStaff, middleware.ActionUpdate), userH.Update(models.RoleStaff))
		users.GET("/customers", can(middleware.ResourceCustomers, middleware.ActionRead), userH.List(models.RoleCustomer))
		users.POST("/customers", can(middleware.ResourceCustomers, middleware.ActionCreate), userH.Create(models.RoleCustomer))
		users.PUT("/customers/:id", can(middleware.ResourceCustomers, middleware.ActionUpdate), userH.Update(models.RoleCustomer))
		users.GET("/find-by-phone/:phone", can(middleware.ResourceUsers, middleware.ActionLookup), userH.FindByPhone)
		users.DELETE("/:id", can(middleware.ResourceUsers, middleware.ActionDelete), userH.Delete)

		vehicles := secured.Group("/vehicles")
		vehicles.GET("", can(middleware.ResourceVehicles, middleware.ActionRead), vehicleH.List)
		vehicles.POST("", can(middleware.ResourceVehicles, middleware.ActionCreate), vehicleH.Register)
		vehicles.PUT("/:plate", can(middleware.ResourceVehicles, middleware.ActionUpdate), vehicleH.Update)
		vehicles.DELETE("/:plate", can(middleware.ResourceVehicles, middleware.ActionDelete), vehicleH.Delete)

		carModels := secured.Group("/car-models")
		carModels.GET("", can(middleware.ResourceCarModels, middleware.ActionRead), catalogH.ListCarModels)
		carModels.POST("", can(middleware.ResourceCarModels, middleware.ActionCreate), catalogH.CreateCarModel)
		carModels.PUT("/:id", can(middleware.ResourceCarModels, middleware.ActionUpdate), catalogH.UpdateCarModel)
		carModels.DELETE("/:id", can(middleware.ResourceCarModels, middleware.ActionDelete), catalogH.DeleteCarModel)

		svc := secured.Group("/services")
		svc.GET("", can(middleware.ResourceServices, middleware.ActionRead), catalogH.ListServices)
		svc.POST("", can(middleware.ResourceServices, middleware.ActionCreate), catalogH.CreateService)
		svc.PUT("/:id", can(middleware.ResourceServices, middleware.ActionUpdate), catalogH.UpdateService)
		svc.DELETE("/:id", can(middleware.ResourceServices, middleware.ActionDelete), catalogH.DeleteService)

		parts := secured.Group("/parts")
		parts.GET("", can(middleware.ResourceParts, middleware.ActionRead), catalogH.ListParts)
		parts.GET("/low-stock", can(middleware.ResourceParts, middleware.ActionRead), catalogH.LowStockParts)
		parts.POST("", can(middleware.ResourceParts, middleware.ActionCreate), catalogH.CreatePart)
		parts.POST("/stock-in", can(middleware.ResourceParts, middleware.ActionStockIn), catalogH.StockIn)
		parts.POST("/import", can(middleware.ResourceParts, middleware.ActionImport), catalogH.ImportParts)
		parts.PUT("/:id", can(middleware.ResourceParts, middleware.ActionUpdate), catalogH.UpdatePart)
		parts.DELETE("/:id", can(middleware.ResourceParts, middleware.ActionDelete), catalogH.DeletePart)

		appts := secured.Group("/appointments")
		appts.GET("", can(middleware.ResourceAppointments, middleware.ActionRead), apptH.List)
		appts.POST("", can(middleware.ResourceAppointments, middleware.ActionCreate), apptH.Create)
		appts.PUT("/:id", can(middleware.ResourceAppointments, middleware.ActionUpdate), apptH.UpdateStatus)
		appts.DELETE("/:id", can(middleware.ResourceAppointments, middleware.ActionDelete), apptH.Delete)

		tickets := secured.Group("/tickets")
		tickets.POST("", can(middleware.ResourceTickets, middleware.ActionCreate), ticketH.Create)
		tickets.GET("", can(middleware.ResourceTickets, middleware.ActionRead), ticketH.List)
		tickets.GET("/:id", can(middleware.ResourceTickets, middleware.ActionRead), ticketH.Get)
		tickets.PUT("/:id", can(middleware.ResourceTickets, middleware.ActionUpdate), ticketH.Update)
		tickets.POST("/:id/service-items", can(middleware.ResourceTickets, middleware.ActionUpdate), ticketH.AddServiceItem)
		tickets.POST("/:id/part-items", can(middleware.ResourceTickets, middleware.ActionUpdate), ticketH.AddPartItem)
		tickets.POST("/:id/status", can(middleware.ResourceTickets, middleware.ActionUpdate), ticketH.SetStatus)
		tickets.GET("/:id/items", can(middleware.ResourceTickets, middleware.ActionRead), ticketH.Items)
		tickets.GET("/:id/history", can(middleware.ResourceTickets, middleware.ActionRead), ticketH.History)
	}

	return router
}

func healthz(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := gin.H{}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[hc.Name] = err.Error()
				continue
			}
			report[hc.Name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
	}
}
