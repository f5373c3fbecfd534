package handlers

import (
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// Services bundles the service facades the HTTP layer depends on.
type Services struct {
	Accounts  portssvc.AccountSvcFacade
	Events    portssvc.EventSvcFacade
	Poster    portssvc.PosterSvcFacade
	Processor portssvc.ProcessorSvcFacade
	Reporting portssvc.ReportingSvcFacade
}

// RegisterHandlers wires all tenant-scoped routes onto the router group.
// Every route is nested under the tenant id so no handler can ever touch
// another tenant's rows.
func RegisterHandlers(rg *gin.RouterGroup, svcs Services) {
	eventH := newEventHandler(svcs.Processor, svcs.Events)
	accountH := newAccountHandler(svcs.Accounts)
	txnH := newTransactionHandler(svcs.Poster)
	reportH := newReportingHandler(svcs.Reporting)

	tenant := rg.Group("/tenants/:tenantID")
	{
		tenant.POST("/events", eventH.submitEvent)
		tenant.GET("/events/unresolved", eventH.listUnresolved)
		tenant.POST("/events/:eventID/retry", eventH.retryEvent)

		tenant.GET("/accounts", accountH.listAccounts)

		tenant.GET("/transactions/:transactionID", txnH.getTransaction)
		tenant.POST("/transactions/:transactionID/reverse", txnH.reverseTransaction)

		tenant.GET("/report", reportH.getReport)
		tenant.GET("/summary", reportH.getSummary)
	}
}
