package handler

import (
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/router"
)

// BillRoutes creates the route group for bills and their receipts
func BillRoutes(bills *BillHandler, receipts *ReceiptHandler) *router.DomainGroup {
	group := router.NewDomainGroup("bills", "/bills")

	group.POST("", bills.Create)
	group.GET("", bills.List)
	group.GET("/next-number", bills.NextNumber)
	group.GET("/number/:number", bills.GetByNumber)
	group.GET("/:id", bills.Get)

	// Receipt of a stored bill
	group.GET("/:id/receipt", receipts.Preview)
	group.POST("/:id/receipt/pdf", receipts.GeneratePDF)
	group.GET("/:id/print-jobs", receipts.ListJobs)

	return group
}

// ReceiptRoutes creates the route group for receipts of bills not stored here
func ReceiptRoutes(receipts *ReceiptHandler) *router.DomainGroup {
	group := router.NewDomainGroup("receipts", "/receipts")

	group.POST("/render", receipts.Render)
	group.GET("/words", receipts.AmountInWords)
	group.GET("/paper-sizes", receipts.PaperSizes)

	return group
}

// PrintJobRoutes creates the route group for print jobs
func PrintJobRoutes(receipts *ReceiptHandler) *router.DomainGroup {
	group := router.NewDomainGroup("print-jobs", "/print-jobs")

	group.GET("/:id", receipts.GetJob)
	group.GET("/:id/file", receipts.DownloadJob)

	return group
}

// SystemRoutes creates the versioned system endpoints
func SystemRoutes(system *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "")

	group.GET("/ping", system.Ping)
	group.GET("/system/info", system.GetSystemInfo)

	return group
}

// FileRoutes serves stored receipt PDFs. It is mounted outside /api so the
// URLs recorded on print jobs resolve directly.
func FileRoutes(receipts *ReceiptHandler, baseURL string) *router.DomainGroup {
	group := router.NewDomainGroup("files", baseURL)

	group.GET("/receipts/:year/:month/:filename", receipts.ServePDF)

	return group
}
