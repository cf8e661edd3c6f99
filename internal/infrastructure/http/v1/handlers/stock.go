package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/orders"
	"stitchline/internal/domain/stock"
	"stitchline/internal/infrastructure/http/v1/dto"
)

// StockHandler serves stock movement endpoints.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
	queue   orders.Queue
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service, queue orders.Queue) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
		queue:       queue,
	}
}

// Input handles POST /stock/input - book goods into a warehouse.
func (h *StockHandler) Input(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.StockInputRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.Input(c.Request.Context(), actor, svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntry(entry))
}

// Output handles POST /stock/output - stage a transfer or book a terminal outbound.
func (h *StockHandler) Output(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.StockOutputRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.Output(c.Request.Context(), actor, svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntry(entry))
}

// Defective handles POST /stock/defective - write off defective goods.
func (h *StockHandler) Defective(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.StockDefectiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.Defective(c.Request.Context(), actor, svcReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntry(entry))
}

// ResolveTransfer handles POST /stock/transfers/:id/resolve - confirm or cancel.
func (h *StockHandler) ResolveTransfer(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	entryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ResolveTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.ResolveTransfer(c.Request.Context(), actor, entryID, req.Decision)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromEntry(entry))
}

// PendingTransfers handles GET /stock/transfers/pending?warehouseId=...
func (h *StockHandler) PendingTransfers(c *gin.Context) {
	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id").
			WithDetail("warehouseId", c.Query("warehouseId")))
		return
	}

	entries, err := h.service.PendingTransfers(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": dto.FromEntries(entries)})
}

// EntryDetail handles GET /stock/entries/:id - entry with lines and attachments.
func (h *StockHandler) EntryDetail(c *gin.Context) {
	entryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.EntryDetail(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromEntryDetail(detail))
}

// Balances handles GET /stock/balances?warehouseId=...
func (h *StockHandler) Balances(c *gin.Context) {
	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id").
			WithDetail("warehouseId", c.Query("warehouseId")))
		return
	}

	balances, err := h.service.Balances(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, dto.FromBalance(b))
	}
	h.OK(c, gin.H{"items": items})
}

// History handles GET /stock/history?warehouseId=... - movement trail, newest first.
func (h *StockHandler) History(c *gin.Context) {
	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id").
			WithDetail("warehouseId", c.Query("warehouseId")))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	records, total, err := h.service.History(c.Request.Context(), warehouseID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.HistoryResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.FromHistory(r))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}

// AttachFiles handles POST /stock/entries/:id/attachments.
func (h *StockHandler) AttachFiles(c *gin.Context) {
	entryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AttachFilesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	atts, err := h.service.AttachFiles(c.Request.Context(), entryID, req.ToInputs())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AttachmentResponse, 0, len(atts))
	for _, a := range atts {
		items = append(items, dto.FromAttachment(a))
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// Reconcile handles POST /stock/reconcile - queue order reconciliation.
// The booking itself happens asynchronously in the worker; a second request
// for the same unprocessed order is rejected with a conflict.
func (h *StockHandler) Reconcile(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	orderID, err := id.Parse(req.OrderID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid order id").WithDetail("orderId", req.OrderID))
		return
	}

	job := orders.NewJob(orderID, actor.StaffID)
	if err := h.queue.Enqueue(c.Request.Context(), job); err != nil {
		h.Error(c, err)
		return
	}
	h.Accepted(c, job.ID.String())
}
