package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/techverse-private-limited/stock-blueprints-54/internal/application/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/logger"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader lets a till retry a bill save without storing it twice
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayedHeader marks a response answered from an earlier request
	IdempotentReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
	billIdempotencyPrefix   = "bill:"
)

// BillHandler handles bill-related API endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
	idempotency shared.IdempotencyStore
	idemCfg     shared.IdempotencyConfig
}

// BillHandlerOption configures a BillHandler
type BillHandlerOption func(*BillHandler)

// WithIdempotencyStore enables Idempotency-Key handling on bill creation
func WithIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) BillHandlerOption {
	return func(h *BillHandler) {
		h.idempotency = store
		h.idemCfg = cfg
	}
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService, opts ...BillHandlerOption) *BillHandler {
	h := &BillHandler{
		billService: billService,
		idemCfg:     shared.DefaultIdempotencyConfig(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create stores a finalised bill.
//
// POST /api/v1/bills
//
// A request carrying an Idempotency-Key that was already used answers with the
// stored bill instead of saving a second copy.
func (h *BillHandler) Create(c *gin.Context) {
	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getCashierID(c)

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" || h.idempotency == nil {
		h.create(c, req)
		return
	}
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key must be at most 255 characters")
		return
	}

	ctx := c.Request.Context()
	storeKey := billIdempotencyPrefix + key
	log := logger.GetGinLogger(c).With(zap.String("idempotency_key", key))

	if h.replay(c, storeKey) {
		return
	}

	reserved, err := h.idempotency.Reserve(ctx, storeKey, h.idemCfg.PendingTTL)
	if err != nil {
		// Without the store the bill is still saved, only retries are not deduplicated
		log.Warn("idempotency store unavailable", zap.Error(err))
		h.create(c, req)
		return
	}
	if !reserved {
		if !h.replay(c, storeKey) {
			h.Conflict(c, dto.ErrCodeRequestInFlight, "A request with this Idempotency-Key is still being processed")
		}
		return
	}

	resp, err := h.billService.CreateBill(ctx, req)
	if err != nil {
		if relErr := h.idempotency.Release(context.WithoutCancel(ctx), storeKey); relErr != nil {
			log.Warn("failed to release idempotency key", zap.Error(relErr))
		}
		h.HandleError(c, err)
		return
	}

	if err := h.idempotency.Complete(context.WithoutCancel(ctx), storeKey, resp.ID, h.idemCfg.TTL); err != nil {
		log.Warn("failed to record idempotency result",
			zap.String("bill_id", resp.ID),
			zap.Error(err))
	}
	h.Created(c, resp)
}

func (h *BillHandler) create(c *gin.Context, req billingapp.CreateBillRequest) {
	resp, err := h.billService.CreateBill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// replay answers from a completed key. It writes a 409 while the key is
// pending and reports whether a response was written.
func (h *BillHandler) replay(c *gin.Context, storeKey string) bool {
	ctx := c.Request.Context()
	result, found, err := h.idempotency.Lookup(ctx, storeKey)
	if err != nil || !found {
		return false
	}
	if result == shared.IdempotencyPending {
		h.Conflict(c, dto.ErrCodeRequestInFlight, "A request with this Idempotency-Key is still being processed")
		return true
	}

	billID, err := uuid.Parse(result)
	if err != nil {
		logger.GetGinLogger(c).Warn("unreadable idempotency result",
			zap.String("result", result))
		return false
	}
	resp, err := h.billService.GetBill(ctx, billID)
	if err != nil {
		h.HandleError(c, err)
		return true
	}
	c.Header(IdempotentReplayedHeader, "true")
	h.Success(c, resp)
	return true
}

// List returns a page of bills.
//
// GET /api/v1/bills?page=&page_size=&search=&from=&to=
func (h *BillHandler) List(c *gin.Context) {
	var req billingapp.ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.billService.ListBills(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.Size)
}

// Get returns a bill with its items.
//
// GET /api/v1/bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	billID, ok := h.parseUUIDParam(c, "id", "bill")
	if !ok {
		return
	}

	resp, err := h.billService.GetBill(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns the most recent bill carrying a bill number.
//
// GET /api/v1/bills/number/:number
func (h *BillHandler) GetByNumber(c *gin.Context) {
	resp, err := h.billService.GetBillByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// NextNumber suggests a bill number for a till that does not number its own bills.
//
// GET /api/v1/bills/next-number
func (h *BillHandler) NextNumber(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.billService.GenerateBillNumber()))
}
