package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransactionHandler handles transactions, payment links and payment confirmation
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *logger.Logger
}

// NewTransactionHandler creates a new TransactionHandler instance
func NewTransactionHandler(transactionService service.TransactionService, logger *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

func parsePaymentStatus(raw string) (*models.PaymentStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	status := models.PaymentStatus(strings.ToUpper(raw))
	switch status {
	case models.PaymentUnpaid, models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
		return &status, nil
	}
	return nil, fmt.Errorf("unknown payment status %q", raw)
}

// ListTransactions lists the transactions visible to the caller
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by payment status" Enums(UNPAID, PENDING, PAID, FAILED)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.Transaction} "Transactions retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid status"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	status, err := parsePaymentStatus(c.Query("status"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid status", err)
		return
	}
	page, perPage := utils.GetPagination(c)

	list, total, err := h.transactionService.List(actor, status, page, perPage)
	if err != nil {
		respondError(c, h.logger, "Failed to list transactions", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Transactions retrieved successfully", list, page, perPage, total)
}

// GetTransaction returns one transaction
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} utils.APIResponse{data=models.Transaction} "Transaction retrieved"
// @Failure 403 {object} utils.APIResponse "Not visible to the caller"
// @Failure 404 {object} utils.APIResponse "Transaction not found"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", err)
		return
	}

	trx, err := h.transactionService.Get(actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to get transaction", err)
		return
	}

	utils.SuccessResponse(c, "Transaction retrieved successfully", trx)
}

// CreatePaymentLink creates one Mayar payment link for several transactions
// @Summary Create payment link
// @Description Create a Mayar payment link covering the caller's UNPAID or FAILED transactions
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PaymentLinkRequest true "Transaction IDs"
// @Success 200 {object} utils.APIResponse{data=response.PaymentLinkResponse} "Payment link created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid transaction IDs"
// @Failure 404 {object} utils.APIResponse "Transaction not found"
// @Failure 409 {object} utils.APIResponse "Transaction is not payable"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/transactions/payment-link [post]
func (h *TransactionHandler) CreatePaymentLink(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "transaction_ids is required and must be an array of numbers", err)
		return
	}

	link, err := h.transactionService.CreatePaymentLink(c.Request.Context(), actor, req.TransactionIDs)
	if err != nil {
		respondError(c, h.logger, "Failed to create payment link", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"transaction_ids": link.TransactionIDs,
		"amount":          link.Amount,
		"payment_url":     link.PaymentURL,
	}).Info("Payment link created successfully")

	utils.SuccessResponse(c, "Payment link created successfully", link)
}

// ConfirmPaymentWebhook receives Mayar payment notifications
// @Summary Confirm payment webhook (Mayar)
// @Description Receive Mayar payment gateway webhook and mark the transactions in its description as paid. Replays are harmless.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body service.MayarWebhookRequest true "Mayar webhook payload"
// @Success 200 {object} utils.APIResponse{data=service.WebhookResult} "Webhook received"
// @Failure 400 {object} utils.APIResponse "Invalid payload"
// @Router /api/v1/transactions/confirm-payment [post]
func (h *TransactionHandler) ConfirmPaymentWebhook(c *gin.Context) {
	var req service.MayarWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid webhook payload")
		utils.BadRequestResponse(c, "Invalid webhook payload", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"event":               req.Event,
		"transaction_id":      req.Data.TransactionID,
		"status":              req.Data.Status,
		"amount":              req.Data.Amount,
		"product_description": req.Data.ProductDescription,
	}).Info("Received Mayar payment webhook")

	result, err := h.transactionService.ConfirmPaymentWebhook(&req)
	if err != nil {
		respondError(c, h.logger, "Failed to process webhook", err)
		return
	}

	message := "Webhook received and payment confirmed"
	if result.Ignored {
		message = "Webhook received and ignored"
	}
	utils.SuccessResponse(c, message, result)
}

// ConfirmCashPayment settles a transaction in cash
// @Summary Confirm cash payment
// @Description The assigned TPS or an admin marks an UNPAID or PENDING transaction as paid in cash
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} utils.APIResponse{data=models.Transaction} "Payment confirmed"
// @Failure 403 {object} utils.APIResponse "Not the assigned TPS"
// @Failure 409 {object} utils.APIResponse "Already paid"
// @Router /api/v1/transactions/{id}/confirm-cash [post]
func (h *TransactionHandler) ConfirmCashPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", err)
		return
	}

	trx, err := h.transactionService.ConfirmCashPayment(actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to confirm payment", err)
		return
	}

	utils.SuccessResponse(c, "Payment confirmed", trx)
}

func parseDateQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected YYYY-MM-DD", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ExportTransactions downloads transactions as an Excel workbook
// @Summary Export transactions to Excel
// @Description Export the filtered transactions as an .xlsx file
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Filter by payment status" Enums(UNPAID, PENDING, PAID, FAILED)
// @Param kecamatan query string false "Filter by kecamatan"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {file} file "Excel file"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/admin/transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	status, err := parsePaymentStatus(c.Query("status"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid status", err)
		return
	}
	from, err := parseDateQuery(c, "from", false)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid from date", err)
		return
	}
	to, err := parseDateQuery(c, "to", true)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid to date", err)
		return
	}

	content, filename, err := h.transactionService.Export(service.TransactionExportFilter{
		Status:    status,
		Kecamatan: strings.TrimSpace(c.Query("kecamatan")),
		From:      from,
		To:        to,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to export transactions", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, xlsxContentType, content)
}
