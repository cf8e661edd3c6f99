package dto

import (
	"time"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
	"stitchline/internal/domain/stock"
)

// --- Request DTOs ---

// StockLineRequest is one item position of a stock operation.
type StockLineRequest struct {
	ItemID  string         `json:"itemId" binding:"required"`
	Amount  types.Quantity `json:"amount" binding:"required"`
	Price   *string        `json:"price"`
	Comment string         `json:"comment"`
}

// ToLineInput converts the request line to a service input.
func (r *StockLineRequest) ToLineInput() (stock.LineInput, error) {
	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return stock.LineInput{}, apperror.NewValidation("invalid item id").
			WithDetail("itemId", r.ItemID)
	}

	price := types.Zero()
	if r.Price != nil {
		price, err = types.NewMoneyFromString(*r.Price)
		if err != nil {
			return stock.LineInput{}, apperror.NewValidation("invalid price").
				WithDetail("price", *r.Price)
		}
	}

	return stock.LineInput{
		ItemID:  itemID,
		Amount:  r.Amount,
		Price:   price,
		Comment: r.Comment,
	}, nil
}

func toLineInputs(lines []StockLineRequest) ([]stock.LineInput, error) {
	inputs := make([]stock.LineInput, 0, len(lines))
	for _, l := range lines {
		in, err := l.ToLineInput()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// StockInputRequest books goods into a warehouse.
type StockInputRequest struct {
	WarehouseID string             `json:"warehouseId" binding:"required"`
	Lines       []StockLineRequest `json:"lines" binding:"required,min=1"`
}

// ToServiceRequest converts the DTO to a service request.
func (r *StockInputRequest) ToServiceRequest() (stock.InputRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return stock.InputRequest{}, apperror.NewValidation("invalid warehouse id").
			WithDetail("warehouseId", r.WarehouseID)
	}
	lines, err := toLineInputs(r.Lines)
	if err != nil {
		return stock.InputRequest{}, err
	}
	return stock.InputRequest{WarehouseID: warehouseID, Lines: lines}, nil
}

// StockOutputRequest moves goods out of a warehouse. With destWarehouseId it
// stages a transfer; with reason it is a terminal outbound.
type StockOutputRequest struct {
	SourceWarehouseID string             `json:"sourceWarehouseId" binding:"required"`
	DestWarehouseID   *string            `json:"destWarehouseId"`
	Reason            string             `json:"reason"`
	Lines             []StockLineRequest `json:"lines" binding:"required,min=1"`
}

// ToServiceRequest converts the DTO to a service request.
func (r *StockOutputRequest) ToServiceRequest() (stock.OutputRequest, error) {
	sourceID, err := id.Parse(r.SourceWarehouseID)
	if err != nil {
		return stock.OutputRequest{}, apperror.NewValidation("invalid warehouse id").
			WithDetail("sourceWarehouseId", r.SourceWarehouseID)
	}

	req := stock.OutputRequest{
		SourceWarehouseID: sourceID,
		Reason:            stock.OutboundReason(r.Reason),
	}

	if r.DestWarehouseID != nil {
		destID, err := id.Parse(*r.DestWarehouseID)
		if err != nil {
			return stock.OutputRequest{}, apperror.NewValidation("invalid warehouse id").
				WithDetail("destWarehouseId", *r.DestWarehouseID)
		}
		req.DestWarehouseID = &destID
	} else if r.Reason == "" {
		return stock.OutputRequest{}, apperror.NewValidation("either destWarehouseId or reason is required")
	}

	req.Lines, err = toLineInputs(r.Lines)
	if err != nil {
		return stock.OutputRequest{}, err
	}
	return req, nil
}

// StockDefectiveRequest writes off defective goods.
type StockDefectiveRequest struct {
	WarehouseID string             `json:"warehouseId" binding:"required"`
	Lines       []StockLineRequest `json:"lines" binding:"required,min=1"`
}

// ToServiceRequest converts the DTO to a service request.
func (r *StockDefectiveRequest) ToServiceRequest() (stock.DefectiveRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return stock.DefectiveRequest{}, apperror.NewValidation("invalid warehouse id").
			WithDetail("warehouseId", r.WarehouseID)
	}
	lines, err := toLineInputs(r.Lines)
	if err != nil {
		return stock.DefectiveRequest{}, err
	}
	return stock.DefectiveRequest{WarehouseID: warehouseID, Lines: lines}, nil
}

// ResolveTransferRequest confirms or cancels a pending transfer.
type ResolveTransferRequest struct {
	Decision stock.TransferDecision `json:"decision" binding:"required"`
}

// AttachmentRequest is file metadata to link to an entry.
type AttachmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Size        int64  `json:"size" binding:"min=0"`
	ContentType string `json:"contentType"`
	StoragePath string `json:"storagePath" binding:"required"`
}

// AttachFilesRequest links uploaded files to an entry.
type AttachFilesRequest struct {
	Files []AttachmentRequest `json:"files" binding:"required,min=1"`
}

// ToInputs converts the DTO to service inputs.
func (r *AttachFilesRequest) ToInputs() []stock.AttachmentInput {
	inputs := make([]stock.AttachmentInput, 0, len(r.Files))
	for _, f := range r.Files {
		inputs = append(inputs, stock.AttachmentInput{
			Name:        f.Name,
			Size:        f.Size,
			ContentType: f.ContentType,
			StoragePath: f.StoragePath,
		})
	}
	return inputs
}

// ReconcileRequest queues stock reconciliation for a completed order.
type ReconcileRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// --- Response DTOs ---

// EntryResponse is the response body for a ledger entry.
type EntryResponse struct {
	ID                string    `json:"id"`
	Kind              string    `json:"kind"`
	Status            string    `json:"status"`
	SourceWarehouseID string    `json:"sourceWarehouseId"`
	DestWarehouseID   *string   `json:"destWarehouseId,omitempty"`
	OrderID           *string   `json:"orderId,omitempty"`
	CreatedByID       string    `json:"createdById"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int       `json:"version"`
}

// FromEntry creates response DTO from a ledger entry.
func FromEntry(e *stock.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:                e.ID.String(),
		Kind:              string(e.Kind),
		Status:            string(e.Status),
		SourceWarehouseID: e.SourceWarehouseID.String(),
		CreatedByID:       e.CreatedByID.String(),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		Version:           e.Version,
	}
	if e.DestWarehouseID != nil {
		s := e.DestWarehouseID.String()
		resp.DestWarehouseID = &s
	}
	if e.OrderID != nil {
		s := e.OrderID.String()
		resp.OrderID = &s
	}
	return resp
}

// FromEntries creates response DTOs from ledger entries.
func FromEntries(entries []*stock.Entry) []*EntryResponse {
	out := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}

// LineResponse is one item position of an entry.
type LineResponse struct {
	ID      string         `json:"id"`
	ItemID  string         `json:"itemId"`
	Amount  types.Quantity `json:"amount"`
	Price   string         `json:"price"`
	Comment *string        `json:"comment,omitempty"`
}

// FromLine creates response DTO from a ledger line.
func FromLine(l *stock.Line) LineResponse {
	return LineResponse{
		ID:      l.ID.String(),
		ItemID:  l.ItemID.String(),
		Amount:  l.Amount,
		Price:   l.Price.String(),
		Comment: l.Comment,
	}
}

// AttachmentResponse is file metadata linked to an entry.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	StoragePath string    `json:"storagePath"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromAttachment creates response DTO from attachment metadata.
func FromAttachment(a *stock.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Size:        a.Size,
		ContentType: a.ContentType,
		StoragePath: a.StoragePath,
		CreatedAt:   a.CreatedAt,
	}
}

// TrailRecordResponse is one status change of an entry with the acting staff.
type TrailRecordResponse struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	StaffID      string    `json:"staffId"`
	StaffName    string    `json:"staffName"`
	StaffSurname string    `json:"staffSurname"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromTrailRecord creates response DTO from a history record.
func FromTrailRecord(h *stock.HistoryRecord) TrailRecordResponse {
	return TrailRecordResponse{
		ID:           h.ID.String(),
		Status:       string(h.Status),
		StaffID:      h.StaffID.String(),
		StaffName:    h.StaffName,
		StaffSurname: h.StaffSurname,
		CreatedAt:    h.CreatedAt,
	}
}

// EntryDetailResponse aggregates an entry with lines, attachments and trail.
type EntryDetailResponse struct {
	Entry       *EntryResponse        `json:"entry"`
	Lines       []LineResponse        `json:"lines"`
	Attachments []AttachmentResponse  `json:"attachments"`
	Trail       []TrailRecordResponse `json:"trail"`
}

// FromEntryDetail creates response DTO from the service aggregate.
func FromEntryDetail(d *stock.EntryDetail) *EntryDetailResponse {
	resp := &EntryDetailResponse{
		Entry:       FromEntry(d.Entry),
		Lines:       make([]LineResponse, 0, len(d.Lines)),
		Attachments: make([]AttachmentResponse, 0, len(d.Attachments)),
		Trail:       make([]TrailRecordResponse, 0, len(d.Trail)),
	}
	for _, l := range d.Lines {
		resp.Lines = append(resp.Lines, FromLine(l))
	}
	for _, a := range d.Attachments {
		resp.Attachments = append(resp.Attachments, FromAttachment(a))
	}
	for _, h := range d.Trail {
		resp.Trail = append(resp.Trail, FromTrailRecord(h))
	}
	return resp
}

// BalanceResponse is one snapshot row of a warehouse.
type BalanceResponse struct {
	ItemID    string         `json:"itemId"`
	ItemCode  string         `json:"itemCode"`
	ItemName  string         `json:"itemName"`
	Unit      string         `json:"unit"`
	Amount    types.Quantity `json:"amount"`
	CostPrice string         `json:"costPrice"`
}

// FromBalance creates response DTO from a balance view row.
func FromBalance(b *stock.Balance) BalanceResponse {
	return BalanceResponse{
		ItemID:    b.ItemID.String(),
		ItemCode:  b.ItemCode,
		ItemName:  b.ItemName,
		Unit:      b.Unit,
		Amount:    b.Amount,
		CostPrice: b.CostPrice.String(),
	}
}

// HistoryResponse is one movement trail row.
type HistoryResponse struct {
	ID                string    `json:"id"`
	EntryID           string    `json:"entryId"`
	Kind              string    `json:"kind"`
	Status            string    `json:"status"`
	SourceWarehouseID string    `json:"sourceWarehouseId"`
	DestWarehouseID   *string   `json:"destWarehouseId,omitempty"`
	StaffID           string    `json:"staffId"`
	StaffName         string    `json:"staffName"`
	StaffSurname      string    `json:"staffSurname"`
	CreatedAt         time.Time `json:"createdAt"`
}

// FromHistory creates response DTO from a history view row.
func FromHistory(h *stock.HistoryView) HistoryResponse {
	resp := HistoryResponse{
		ID:                h.ID.String(),
		EntryID:           h.EntryID.String(),
		Kind:              string(h.Kind),
		Status:            string(h.Status),
		SourceWarehouseID: h.SourceWarehouseID.String(),
		StaffID:           h.StaffID.String(),
		StaffName:         h.StaffName,
		StaffSurname:      h.StaffSurname,
		CreatedAt:         h.CreatedAt,
	}
	if h.DestWarehouseID != nil {
		s := h.DestWarehouseID.String()
		resp.DestWarehouseID = &s
	}
	return resp
}
