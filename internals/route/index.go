package route

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditSvc "aduanet_backend/internals/features/audit/service"
	invoiceRoute "aduanet_backend/internals/features/billing/invoices/route"
	invoiceSvc "aduanet_backend/internals/features/billing/invoices/service"
	lineRoute "aduanet_backend/internals/features/billing/lines/route"
	transferRoute "aduanet_backend/internals/features/billing/transfers/route"
	transferSvc "aduanet_backend/internals/features/billing/transfers/service"
	catalogRoute "aduanet_backend/internals/features/catalog/route"
	orderRoute "aduanet_backend/internals/features/orders/route"
	userRoute "aduanet_backend/internals/features/users/route"
	"aduanet_backend/internals/locks"
	authmw "aduanet_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature behind the JWT middleware. Login is
// the only public endpoint besides /health.
func SetupRoutes(app *fiber.App, db *gorm.DB, guard locks.Guard) {
	userRoute.AuthRoutes(app, db)

	audit := auditSvc.NewRecorder()
	notifier := auditSvc.LogNotifier{}

	payable := &transferSvc.PayableService{DB: db, Guard: guard, Audit: audit, Notifier: notifier}
	receivable := &invoiceSvc.ReceivableService{DB: db, Guard: guard, Audit: audit, Notifier: notifier}

	api := app.Group("/api", authmw.AuthJWT(authmw.AuthJWTOpts{
		Secret:              os.Getenv("JWT_SECRET"),
		AllowCookieFallback: true,
	}))

	catalogRoute.CatalogRoutes(api, db)
	orderRoute.OrderRoutes(api, db, guard, audit)
	lineRoute.ChargeLineRoutes(api, db, audit)
	transferRoute.TransferRoutes(api, db, payable)
	invoiceRoute.InvoiceRoutes(api, db, receivable)
}
