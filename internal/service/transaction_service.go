package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

const (
	mayarEventPaymentReceived = "payment.received"
	maxPaymentLinkItems       = 50
)

// PaymentLinkRequest lists the transactions paid together through one link
type PaymentLinkRequest struct {
	TransactionIDs []uint `json:"transaction_ids" binding:"required,min=1,dive,gt=0" example:"6,2"`
}

// MayarWebhookRequest represents the payload sent by Mayar payment webhooks
type MayarWebhookRequest struct {
	Event string `json:"event" example:"payment.received"`
	Data  struct {
		ID                 string `json:"id"`
		TransactionID      string `json:"transactionId"`
		Status             string `json:"status" example:"SUCCESS"`
		TransactionStatus  string `json:"transactionStatus"`
		CustomerName       string `json:"customerName"`
		CustomerEmail      string `json:"customerEmail"`
		Amount             int64  `json:"amount"`
		ProductDescription string `json:"productDescription" example:"6,2 (DocumentID: 1f0c...)"`
		PaymentMethod      string `json:"paymentMethod"`
	} `json:"data"`
}

// WebhookResult summarizes how a webhook was handled
type WebhookResult struct {
	TransactionIDs []uint `json:"transaction_ids"`
	Updated        []uint `json:"updated"`
	Ignored        bool   `json:"ignored"`
}

// TransactionExportFilter narrows a spreadsheet export
type TransactionExportFilter struct {
	Status    *models.PaymentStatus
	Kecamatan string
	From      *time.Time
	To        *time.Time
}

// TransactionService defines the interface for transaction and payment operations
type TransactionService interface {
	List(actor Actor, status *models.PaymentStatus, page, perPage int) ([]*models.Transaction, int64, error)
	Get(actor Actor, id uint) (*models.Transaction, error)
	CreatePaymentLink(ctx context.Context, actor Actor, ids []uint) (*response.PaymentLinkResponse, error)
	ConfirmPaymentWebhook(req *MayarWebhookRequest) (*WebhookResult, error)
	ConfirmCashPayment(actor Actor, id uint) (*models.Transaction, error)
	Export(filter TransactionExportFilter) ([]byte, string, error)
}

// transactionService implements TransactionService
type transactionService struct {
	trxRepo       repository.TransactionRepository
	userRepo      repository.UserRepository
	gateway       PaymentGateway
	notifications NotificationService
	logger        *logger.Logger
	now           func() time.Time
}

// NewTransactionService creates a new instance of TransactionService
func NewTransactionService(
	trxRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	notifications NotificationService,
	logger *logger.Logger,
) TransactionService {
	return &transactionService{
		trxRepo:       trxRepo,
		userRepo:      userRepo,
		gateway:       gateway,
		notifications: notifications,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// transactionScope turns the caller's role into a transaction visibility filter
func transactionScope(actor Actor) (repository.TransactionFilter, error) {
	var filter repository.TransactionFilter
	switch {
	case actor.IsAdmin():
	case actor.IsUser():
		userID := actor.UserID
		filter.UserID = &userID
	case actor.IsTPS():
		tpsID := actor.TPSID
		filter.TPSID = &tpsID
	default:
		return filter, ErrForbidden
	}
	return filter, nil
}

func canViewTransaction(actor Actor, trx *models.Transaction) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsUser():
		return trx.UserID == actor.UserID
	case actor.IsTPS():
		return trx.TPSID == actor.TPSID
	}
	return false
}

func (s *transactionService) List(actor Actor, status *models.PaymentStatus, page, perPage int) ([]*models.Transaction, int64, error) {
	filter, err := transactionScope(actor)
	if err != nil {
		return nil, 0, err
	}
	filter.Status = status

	list, total, err := s.trxRepo.List(filter, page, perPage)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", actor.UserID).Error("Failed to list transactions")
		return nil, 0, err
	}
	return list, total, nil
}

func (s *transactionService) Get(actor Actor, id uint) (*models.Transaction, error) {
	trx, err := s.trxRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !canViewTransaction(actor, trx) {
		return nil, ErrForbidden
	}
	return trx, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// paymentDescription encodes the transaction IDs so the webhook can find them again
func paymentDescription(ids []uint, documentID string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("%s (DocumentID: %s)", strings.Join(parts, ","), documentID)
}

// parsePaymentDescription reads the transaction IDs from the first token of a description
func parsePaymentDescription(description string) ([]uint, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: empty description", ErrInvalidInput)
	}

	first := strings.Fields(description)[0]
	var ids []uint
	for _, raw := range strings.Split(first, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: invalid transaction id %q", ErrInvalidInput, raw)
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no transaction ids in description", ErrInvalidInput)
	}
	return uniqueIDs(ids), nil
}

// CreatePaymentLink issues one Mayar link covering the caller's unpaid transactions
func (s *transactionService) CreatePaymentLink(ctx context.Context, actor Actor, ids []uint) (*response.PaymentLinkResponse, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: transaction ids cannot be empty", ErrInvalidInput)
	}
	if len(ids) > maxPaymentLinkItems {
		return nil, fmt.Errorf("%w: at most %d transactions per payment link", ErrInvalidInput, maxPaymentLinkItems)
	}

	list, err := s.trxRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(list) != len(ids) {
		return nil, ErrNotFound
	}

	var total int64
	for _, trx := range list {
		if trx.UserID != actor.UserID {
			return nil, ErrForbidden
		}
		if !trx.PaymentStatus.Payable() {
			return nil, fmt.Errorf("%w: transaction %d is %s", ErrInvalidTransition, trx.ID, trx.PaymentStatus)
		}
		total += trx.TotalAmount
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: nothing to pay", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(actor.UserID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	description := paymentDescription(ids, list[0].DocumentID)
	link, err := s.gateway.CreatePaymentLink(ctx, total, description, MayarCustomer{
		Name:   user.Name,
		Email:  user.Email,
		Mobile: user.Phone,
	})
	if err != nil {
		s.logger.WithError(err).WithField("transaction_ids", ids).Error("Failed to create payment link")
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}

	if err := s.trxRepo.MarkPending(ids, link.URL, link.Reference); err != nil {
		s.logger.WithError(err).WithField("transaction_ids", ids).Error("Failed to mark transactions pending")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"transaction_ids": ids,
		"amount":          total,
	}).Info("Payment link created")

	return &response.PaymentLinkResponse{
		TransactionIDs: ids,
		Amount:         total,
		PaymentURL:     link.URL,
		Description:    description,
	}, nil
}

func isPaidStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "PAID":
		return true
	}
	return false
}

// ConfirmPaymentWebhook marks the transactions named in a Mayar webhook as paid.
// Replays are harmless: rows already PAID are skipped. The named rows must be waiting on one
// issued link and the paid amount must cover them exactly.
func (s *transactionService) ConfirmPaymentWebhook(req *MayarWebhookRequest) (*WebhookResult, error) {
	ids, err := parsePaymentDescription(req.Data.ProductDescription)
	if err != nil {
		return nil, err
	}
	result := &WebhookResult{TransactionIDs: ids, Updated: []uint{}}

	status := req.Data.Status
	if status == "" {
		status = req.Data.TransactionStatus
	}
	if req.Event != mayarEventPaymentReceived || !isPaidStatus(status) {
		s.logger.WithFields(map[string]interface{}{
			"event":           req.Event,
			"status":          status,
			"transaction_ids": ids,
		}).Info("Ignoring payment webhook")
		result.Ignored = true
		return result, nil
	}

	if err := s.verifyWebhookPayment(ids, req.Data.Amount); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"transaction_ids": ids,
			"amount":          req.Data.Amount,
		}).Warn("Rejecting payment webhook")
		return nil, err
	}

	var reference *string
	if ref := firstNonEmpty(req.Data.TransactionID, req.Data.ID); ref != "" {
		reference = &ref
	}

	changed, err := s.trxRepo.MarkPaid(ids, models.PaymentOnline, reference, s.now())
	if err != nil {
		s.logger.WithError(err).WithField("transaction_ids", ids).Error("Failed to confirm payment")
		return nil, translateRepoError(err)
	}
	result.Updated = changed

	s.logger.WithFields(map[string]interface{}{
		"transaction_ids": ids,
		"updated":         changed,
	}).Info("Payment webhook processed")

	s.notifyPaid(changed)
	return result, nil
}

// verifyWebhookPayment checks that every unpaid row was put on the same payment link and that
// amount equals the total of all named rows
func (s *transactionService) verifyWebhookPayment(ids []uint, amount int64) error {
	list, err := s.trxRepo.GetByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(list) != len(ids) {
		return fmt.Errorf("%w: unknown transaction in payment", ErrInvalidInput)
	}

	var total int64
	var link string
	for _, trx := range list {
		total += trx.TotalAmount
		if trx.PaymentStatus == models.PaymentPaid {
			continue
		}
		if trx.PaymentStatus != models.PaymentPending || trx.PaymentReference == nil || *trx.PaymentReference == "" {
			return fmt.Errorf("%w: transaction %d has no payment link", ErrInvalidInput, trx.ID)
		}
		if link == "" {
			link = *trx.PaymentReference
		} else if link != *trx.PaymentReference {
			return fmt.Errorf("%w: transactions belong to different payment links", ErrInvalidInput)
		}
	}
	if total != amount {
		return fmt.Errorf("%w: paid amount %d does not match %d due", ErrInvalidInput, amount, total)
	}
	return nil
}

// ConfirmCashPayment lets the assigned TPS or an admin settle a transaction in cash
func (s *transactionService) ConfirmCashPayment(actor Actor, id uint) (*models.Transaction, error) {
	trx, err := s.trxRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	switch {
	case actor.IsAdmin():
	case actor.IsTPS() && trx.TPSID == actor.TPSID:
	default:
		return nil, ErrForbidden
	}
	if trx.PaymentStatus != models.PaymentUnpaid && trx.PaymentStatus != models.PaymentPending {
		return nil, fmt.Errorf("%w: transaction is %s", ErrInvalidTransition, trx.PaymentStatus)
	}

	changed, err := s.trxRepo.MarkPaid([]uint{id}, models.PaymentCash, nil, s.now())
	if err != nil {
		return nil, translateRepoError(err)
	}
	if len(changed) == 0 {
		return nil, ErrConflict
	}

	s.logger.WithFields(map[string]interface{}{
		"transaction_id": id,
		"actor_id":       actor.UserID,
	}).Info("Cash payment confirmed")

	s.notifyPaid(changed)

	updated, err := s.trxRepo.GetByID(id)
	return updated, translateRepoError(err)
}

func (s *transactionService) notifyPaid(ids []uint) {
	if len(ids) == 0 {
		return
	}
	paid, err := s.trxRepo.GetByIDs(ids)
	if err != nil {
		s.logger.WithError(err).WithField("transaction_ids", ids).Warn("Failed to load paid transactions for notification")
		return
	}
	s.notifications.NotifyPaymentReceived(paid)
}

// Export renders the filtered transactions as an xlsx workbook
func (s *transactionService) Export(filter TransactionExportFilter) ([]byte, string, error) {
	rows, err := s.trxRepo.ListForExport(repository.TransactionFilter{
		Status:    filter.Status,
		Kecamatan: filter.Kecamatan,
		From:      filter.From,
		To:        filter.To,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get transaction data: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"No", "Pickup", "User", "TPS", "Kecamatan", "Weight (kg)", "Subtotal", "Fee", "Total", "Method", "Status", "Paid At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#C6EFCE"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)
	}

	for i, row := range rows {
		method := ""
		if row.PaymentMethod != nil {
			method = *row.PaymentMethod
		}
		paidAt := ""
		if row.PaidAt != nil {
			paidAt = row.PaidAt.UTC().Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			i + 1, row.PickupID, row.UserName, row.TPSName, row.Kecamatan, row.TotalWeightKg,
			row.Subtotal, row.ServiceFee, row.TotalAmount, method, row.PaymentStatus, paidAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 16)
	}

	if f.GetSheetName(0) == "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	filename := fmt.Sprintf("transactions_export_%s.xlsx", s.now().Format("20060102_150405"))

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.WithField("rows", len(rows)).Info("Transactions exported")
	return buffer.Bytes(), filename, nil
}
