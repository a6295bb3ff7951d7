package handlers

import (
	"io"
	"net/http"

	"savor/internal/common"
	"savor/internal/services"

	"github.com/labstack/echo/v4"
)

// ReceiptFormField is the multipart field carrying the receipt photo.
const ReceiptFormField = "receipt"

// ReceiptHandlers handles receipt photo uploads
type ReceiptHandlers struct {
	receiptService services.ReceiptService
	maxBytes       int64
}

func NewReceiptHandlers(receiptService services.ReceiptService, maxBytes int64) *ReceiptHandlers {
	return &ReceiptHandlers{
		receiptService: receiptService,
		maxBytes:       maxBytes,
	}
}

// ExtractReceipt returns the parsed rows for review without storing them
func (h *ReceiptHandlers) ExtractReceipt(c echo.Context) error {
	upload, err := h.readUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	scan, err := h.receiptService.Extract(c.Request().Context(), upload)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, scan)
}

// ScanReceipt extracts the rows and stores them in one step
func (h *ReceiptHandlers) ScanReceipt(c echo.Context) error {
	upload, err := h.readUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	scan, err := h.receiptService.Scan(c.Request().Context(), upload)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(reconcileStatusCode(scan.Result), map[string]interface{}{
		"scan":    scan,
		"message": scan.Result.Summary(),
	})
}

func (h *ReceiptHandlers) readUpload(c echo.Context) (*services.ReceiptUpload, error) {
	fileHeader, err := c.FormFile(ReceiptFormField)
	if err != nil {
		return nil, common.NewValidationError(ReceiptFormField, "file is required")
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		return nil, common.NewValidationError(ReceiptFormField, "file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, common.NewValidationError(ReceiptFormField, "file could not be read")
	}
	defer file.Close()

	// One byte over the limit is enough for the service to reject it
	reader := io.Reader(file)
	if h.maxBytes > 0 {
		reader = io.LimitReader(file, h.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, common.NewValidationError(ReceiptFormField, "file could not be read")
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	upload := &services.ReceiptUpload{
		Data:        data,
		ContentType: contentType,
		ClientKey:   c.RealIP(),
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		upload.UserID = &userID
		upload.ClientKey = userID.String()
	}

	return upload, nil
}
