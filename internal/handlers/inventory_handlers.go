package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"savor/internal/common"
	"savor/internal/models"
	"savor/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles pantry HTTP requests
type InventoryHandlers struct {
	inventoryService services.InventoryService
	reconcileService services.ReconcileService
	expiringDays     int
}

// NewInventoryHandlers creates a new inventory handlers instance. expiringDays
// is the window used when a request does not pass ?days.
func NewInventoryHandlers(inventoryService services.InventoryService, reconcileService services.ReconcileService, expiringDays int) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
		reconcileService: reconcileService,
		expiringDays:     expiringDays,
	}
}

// ListInventoryRequest represents query parameters for listing the pantry
type ListInventoryRequest struct {
	Sort  string `query:"sort"`
	Order string `query:"order"`
}

// ListInventory returns active items ordered by the requested column
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListInventoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	sortKey := models.ParseSortKey(strings.TrimSpace(req.Sort))
	items, err := h.inventoryService.ListActive(ctx, sortKey, common.ValidateSortOrder(req.Order))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
		"sort":  sortKey,
	})
}

// AddItemRequest represents a manual pantry add
type AddItemRequest struct {
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category"`
	Quantity       float64  `json:"quantity" validate:"gt=0"`
	Unit           string   `json:"unit"`
	StandardUnit   string   `json:"standard_unit" validate:"omitempty,oneof=g ml count"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	ExpirationDate string   `json:"expiration_date"`
}

// AddItem handles creating a pantry item
func (h *InventoryHandlers) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	expiration, err := common.ParseDate(req.ExpirationDate, "expiration_date")
	if err != nil {
		return respondError(c, err)
	}

	input := &models.NewInventoryItem{
		Name:           req.Name,
		Category:       common.OptionalString(strings.ToLower(req.Category)),
		Quantity:       req.Quantity,
		UserUnit:       req.Unit,
		StandardUnit:   models.StandardUnit(req.StandardUnit),
		Price:          req.Price,
		ExpirationDate: expiration,
	}
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		input.UserID = &userID
	}

	item, err := h.inventoryService.AddItem(ctx, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

// GetItem handles getting a pantry item by ID
func (h *InventoryHandlers) GetItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	item, err := h.inventoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

// RemoveItem deletes an item that has been used up
func (h *InventoryHandlers) RemoveItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkExpired flags an item as expired without deleting it
func (h *InventoryHandlers) MarkExpired(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.MarkExpired(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Item marked as expired",
		"id":      id.String(),
	})
}

// ListExpiring returns active items expiring within ?days (inclusive)
func (h *InventoryHandlers) ListExpiring(c echo.Context) error {
	days, err := h.daysParam(c)
	if err != nil {
		return respondError(c, err)
	}

	items, err := h.inventoryService.ListExpiringWithin(c.Request().Context(), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
		"days":  days,
	})
}

// ListExpired returns items flagged as expired
func (h *InventoryHandlers) ListExpired(c echo.Context) error {
	items, err := h.inventoryService.ListExpired(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// GetStats returns the pantry dashboard counters
func (h *InventoryHandlers) GetStats(c echo.Context) error {
	days, err := h.daysParam(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.inventoryService.Stats(c.Request().Context(), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// UpdateExpiryRequest sets or clears (empty string) the expiration date
type UpdateExpiryRequest struct {
	ExpirationDate string `json:"expiration_date"`
}

func (h *InventoryHandlers) UpdateExpiry(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateExpiryRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	date, err := common.ParseDate(req.ExpirationDate, "expiration_date")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.UpdateExpiry(c.Request().Context(), id, date); err != nil {
		return respondError(c, err)
	}

	return h.respondWithItem(c, id)
}

type UpdateQuantityRequest struct {
	Quantity *float64 `json:"quantity" validate:"required,gte=0"`
}

func (h *InventoryHandlers) UpdateQuantity(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.UpdateQuantity(c.Request().Context(), id, *req.Quantity); err != nil {
		return respondError(c, err)
	}

	return h.respondWithItem(c, id)
}

// UpdatePriceRequest sets the price; null clears it
type UpdatePriceRequest struct {
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

func (h *InventoryHandlers) UpdatePrice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdatePriceRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.UpdatePrice(c.Request().Context(), id, req.Price); err != nil {
		return respondError(c, err)
	}

	return h.respondWithItem(c, id)
}

// UsageRequest records a partial consumption
type UsageRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Action string  `json:"action" validate:"omitempty,oneof=consumed spoiled adjusted added"`
}

// LogUsage decrements an item and appends a usage log entry
func (h *InventoryHandlers) LogUsage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UsageRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.inventoryService.LogPartialUsage(c.Request().Context(), id, req.Amount, models.ActionType(req.Action))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// ListLogs returns the usage history of one item, newest first
func (h *InventoryHandlers) ListLogs(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return respondError(c, err)
	}

	logs, err := h.inventoryService.ListLogs(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_id": id,
		"logs":    logs,
	})
}

// BatchRequest carries reviewed receipt rows to store. Rows are checked
// one by one during reconciliation, so a bad row only fails itself.
type BatchRequest struct {
	Items []BatchItem `json:"items" validate:"required,min=1"`
}

// BatchItem is one reviewed receipt row as the client sends it
type BatchItem struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Quantity       *float64 `json:"quantity"`
	Unit           string   `json:"unit"`
	Price          *float64 `json:"price"`
	ExpirationDate string   `json:"expiration_date"`
	ExpDate        string   `json:"expDate"`
}

// toLineItem applies the receipt defaults: an absent quantity is 1 and an
// absent price is unknown.
func (b BatchItem) toLineItem() models.RawLineItem {
	row := models.RawLineItem{
		Name:           b.Name,
		Category:       b.Category,
		Quantity:       1,
		Unit:           b.Unit,
		ExpirationDate: b.ExpirationDate,
	}
	if b.Quantity != nil {
		row.Quantity = *b.Quantity
	}
	if b.Price != nil {
		row.Price = *b.Price
	}
	if row.ExpirationDate == "" {
		row.ExpirationDate = b.ExpDate
	}
	return row
}

// ReconcileBatch stores reviewed receipt rows; rows fail independently
func (h *InventoryHandlers) ReconcileBatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	rows := make([]models.RawLineItem, len(req.Items))
	for i, item := range req.Items {
		rows[i] = item.toLineItem()
	}

	var userID *uuid.UUID
	if id, ok := common.GetUserIDFromContext(ctx); ok {
		userID = &id
	}

	result := h.reconcileService.Reconcile(ctx, userID, rows)
	return c.JSON(reconcileStatusCode(result), map[string]interface{}{
		"result":  result,
		"message": result.Summary(),
	})
}

func reconcileStatusCode(result *models.ReconcileResult) int {
	switch result.Status {
	case services.ReconcileCompleted:
		return http.StatusCreated
	case services.ReconcilePartial:
		return http.StatusMultiStatus
	}
	return http.StatusUnprocessableEntity
}

func (h *InventoryHandlers) daysParam(c echo.Context) (int, error) {
	raw := strings.TrimSpace(c.QueryParam("days"))
	if raw == "" {
		return h.expiringDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError("days", "must be a whole number")
	}
	return days, nil
}

func (h *InventoryHandlers) respondWithItem(c echo.Context, id uuid.UUID) error {
	item, err := h.inventoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
