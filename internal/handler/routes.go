package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	mw "jewel-erp/internal/middleware"
	"jewel-erp/internal/model"
	"jewel-erp/internal/ws"
)

// Routes bundles the handlers mounted by Register.
type Routes struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Roles     *RoleHandler
	Dashboard *DashboardHandler
	Sales     *SaleHandler
	Returns   *ReturnHandler
	Customers *CustomerHandler
	Vendors   *CrudHandler[model.Vendor]
	Products  *CrudHandler[model.ProductCatalog]
	Company   *CrudHandler[model.CompanyDetails]
	Banks     *BankHandler

	// RequireAuth guards every protected route.
	RequireAuth fiber.Handler
	// Metrics serves the Prometheus scrape endpoint when set.
	Metrics fiber.Handler
	Hub     *ws.Hub
}

func Register(app *fiber.App, r Routes) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if r.Metrics != nil {
		app.Get("/metrics", r.Metrics)
	}

	api := app.Group("/api/v1")

	// public
	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/reset-password", r.Auth.ResetPassword)
	auth.Post("/validate-token", r.Auth.ValidateToken)
	auth.Post("/heartbeat", r.RequireAuth, r.Auth.Heartbeat)

	protected := api.Group("", r.RequireAuth)

	protected.Get("/dashboard/stats", mw.RequirePrivilege(model.PrivDashboardView), r.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/collections", mw.RequirePrivilege(model.PrivDashboardView), r.Dashboard.GetCollections)

	view := mw.RequirePrivilege(model.PrivInvoiceView)
	export := mw.RequirePrivilege(model.PrivReportExport)
	inv := protected.Group("/invoices")
	inv.Get("/", view, r.Sales.ListInvoices)
	inv.Get("/search", view, r.Sales.SearchInvoices)
	inv.Get("/next-number", view, r.Sales.NextInvoiceNumber)
	inv.Get("/audit", export, r.Sales.GetSalesAudit)
	inv.Get("/export/excel", export, r.Sales.ExportExcel)
	inv.Get("/:id", view, r.Sales.GetInvoice)
	inv.Get("/:id/items", view, r.Sales.GetItems)
	inv.Get("/:id/payments", view, r.Sales.ListPayments)
	inv.Get("/:id/audit-trail", view, r.Sales.GetAuditTrail)
	inv.Get("/:id/pdf", view, r.Sales.ExportPdf)
	inv.Post("/", mw.RequirePrivilege(model.PrivInvoiceCreate), r.Sales.CreateSale)
	inv.Put("/:id", mw.RequirePrivilege(model.PrivInvoiceUpdate), r.Sales.UpdateSale)
	inv.Post("/:id/payments", mw.RequirePrivilege(model.PrivPaymentCreate), r.Sales.AddPayment)

	protected.Post("/returns", mw.RequirePrivilege(model.PrivReturnCreate), r.Returns.CreateReturn)
	protected.Get("/returns", view, r.Returns.ListReturns)
	protected.Post("/exchanges", mw.RequirePrivilege(model.PrivReturnCreate), r.Returns.CreateExchange)
	protected.Get("/exchanges", view, r.Returns.ListExchanges)

	protected.Get("/customers", mw.RequireAnyPrivilege(model.PrivMasterView, model.PrivInvoiceCreate), r.Customers.List)
	protected.Get("/customers/:id", mw.RequireAnyPrivilege(model.PrivMasterView, model.PrivInvoiceCreate), r.Customers.Get)
	protected.Post("/customers", mw.RequireAnyPrivilege(model.PrivMasterManage, model.PrivInvoiceCreate), r.Customers.Create)
	protected.Put("/customers/:id", mw.RequirePrivilege(model.PrivMasterManage), r.Customers.Update)

	registerCrud(protected, "/vendors", r.Vendors)
	registerCrud(protected, "/products", r.Products)
	registerCrud(protected, "/company-details", r.Company)

	masterView := mw.RequirePrivilege(model.PrivMasterView)
	masterManage := mw.RequirePrivilege(model.PrivMasterManage)
	protected.Get("/bank-details", masterView, r.Banks.List)
	protected.Post("/bank-details", masterManage, r.Banks.Create)
	protected.Put("/bank-details/:id", masterManage, r.Banks.Update)
	protected.Delete("/bank-details/:id", masterManage, r.Banks.Delete)

	protected.Get("/users", mw.RequirePrivilege(model.PrivUserView), r.Users.GetUsers)
	protected.Get("/users/:id", mw.RequirePrivilege(model.PrivUserView), r.Users.GetUser)
	protected.Post("/users", mw.RequirePrivilege(model.PrivUserCreate), r.Users.CreateUser)
	protected.Put("/users/:id", mw.RequirePrivilege(model.PrivUserUpdate), r.Users.UpdateUser)
	protected.Delete("/users/:id", mw.RequirePrivilege(model.PrivUserDelete), r.Users.DeleteUser)
	protected.Put("/users/:id/privileges", mw.RequirePrivilege(model.PrivUserUpdatePrivilege), r.Users.UpdateUserPrivileges)

	protected.Get("/roles", r.Roles.GetRoles)
	protected.Get("/privileges", r.Roles.GetPrivileges)

	if r.Hub != nil {
		registerWebsocket(app, r.Hub)
	}
}

func registerCrud[T any](router fiber.Router, path string, h *CrudHandler[T]) {
	view := mw.RequirePrivilege(model.PrivMasterView)
	manage := mw.RequirePrivilege(model.PrivMasterManage)
	router.Get(path, view, h.List)
	router.Get(path+"/:id", view, h.Get)
	router.Post(path, manage, h.Create)
	router.Put(path+"/:id", manage, h.Update)
	router.Delete(path+"/:id", manage, h.Delete)
}

func registerWebsocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
