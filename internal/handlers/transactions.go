package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/student-finance/backend/internal/analytics"
	"example.com/student-finance/backend/internal/auth"
	"example.com/student-finance/backend/internal/models"
	"example.com/student-finance/backend/internal/notifications"
	"example.com/student-finance/backend/internal/repository"
)

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	Transactions *repository.TransactionRepository
	Notifier     *notifications.Hub
}

// NewTransactionHandler создает обработчик транзакций.
func NewTransactionHandler(transactions *repository.TransactionRepository, notifier *notifications.Hub) *TransactionHandler {
	return &TransactionHandler{
		Transactions: transactions,
		Notifier:     notifier,
	}
}

type TransactionRequest struct {
	Date     string  `json:"date" validate:"required"`
	Merchant string  `json:"merchant" validate:"required,max=200"`
	Amount   float64 `json:"amount" validate:"required"`
	Category string  `json:"category" validate:"omitempty,max=50"`
	Type     string  `json:"type" validate:"omitempty,oneof=income expense"`
}

type TransactionResponse struct {
	ID       uuid.UUID              `json:"id"`
	Date     string                 `json:"date"`
	Merchant string                 `json:"merchant"`
	Amount   float64                `json:"amount"`
	Category models.Category        `json:"category"`
	Type     models.TransactionType `json:"type"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Income       float64               `json:"income"`
	Expenses     float64               `json:"expenses"`
	Balance      float64               `json:"balance"`
}

// List возвращает транзакции пользователя и сводку по балансу.
func (h *TransactionHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactions, err := h.Transactions.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	summary, err := h.Transactions.Summary(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		response = append(response, toTransactionResponse(txn))
	}

	return c.JSON(http.StatusOK, TransactionListResponse{
		Transactions: response,
		Income:       summary.Income,
		Expenses:     summary.Expenses,
		Balance:      summary.Balance,
	})
}

// Create сохраняет транзакцию, при пустой категории подбирает ее по продавцу.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := bindTransactionRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	txn, err := h.Transactions.Create(c.Request().Context(), userID, input.date, input.merchant, input.amount, input.category, input.txnType)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "merchant is required")
		}
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventTransactionCreated, map[string]string{"id": txn.ID.String()})
	return c.JSON(http.StatusCreated, toTransactionResponse(txn))
}

// Update заменяет поля транзакции.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	input, err := bindTransactionRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	txn, err := h.Transactions.Update(c.Request().Context(), userID, id, input.date, input.merchant, input.amount, input.category, input.txnType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "merchant is required")
		}
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventTransactionUpdated, map[string]string{"id": txn.ID.String()})
	return c.JSON(http.StatusOK, toTransactionResponse(txn))
}

// Delete удаляет транзакцию.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	if err := h.Transactions.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventTransactionDeleted, map[string]string{"id": id.String()})
	return c.NoContent(http.StatusNoContent)
}

// ExportJSON выгружает транзакции в JSON-файл.
func (h *TransactionHandler) ExportJSON(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactions, err := h.Transactions.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		response = append(response, toTransactionResponse(txn))
	}

	filename := "transactions-" + time.Now().Format(dateLayout) + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, map[string][]TransactionResponse{"transactions": response})
}

// ExportCSV выгружает транзакции в CSV-файл.
func (h *TransactionHandler) ExportCSV(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactions, err := h.Transactions.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "date", "merchant", "amount", "category", "type"}
	if err := writer.Write(header); err != nil {
		return serverError(c)
	}

	for _, txn := range transactions {
		record := []string{
			txn.ID.String(),
			txn.Date.Format(dateLayout),
			txn.Merchant,
			fmt.Sprintf("%.2f", txn.Amount),
			string(txn.Category),
			string(txn.Type),
		}
		if err := writer.Write(record); err != nil {
			return serverError(c)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "transactions-" + time.Now().Format(dateLayout) + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type transactionInput struct {
	date     time.Time
	merchant string
	amount   float64
	category models.Category
	txnType  models.TransactionType
}

func bindTransactionRequest(c echo.Context) (transactionInput, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return transactionInput{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return transactionInput{}, errors.New("validation failed")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return transactionInput{}, errors.New("date must be in YYYY-MM-DD format")
	}

	merchant := strings.TrimSpace(req.Merchant)
	if merchant == "" {
		return transactionInput{}, errors.New("merchant is required")
	}

	amount, txnType := normalizeAmount(req.Amount, models.TransactionType(req.Type))

	category := models.Category(strings.TrimSpace(req.Category))
	if category == "" {
		category = analytics.Categorize(merchant)
	}

	return transactionInput{
		date:     date,
		merchant: merchant,
		amount:   amount,
		category: category,
		txnType:  txnType,
	}, nil
}

// normalizeAmount приводит сумму к знаковому виду: доход положительный,
// расход отрицательный. Варианты «только модуль» нормализуются по типу.
func normalizeAmount(amount float64, txnType models.TransactionType) (float64, models.TransactionType) {
	switch txnType {
	case models.TransactionTypeIncome:
		return math.Abs(amount), models.TransactionTypeIncome
	case models.TransactionTypeExpense:
		return -math.Abs(amount), models.TransactionTypeExpense
	}

	if amount > 0 {
		return amount, models.TransactionTypeIncome
	}

	return amount, models.TransactionTypeExpense
}

func toTransactionResponse(txn models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:       txn.ID,
		Date:     txn.Date.Format(dateLayout),
		Merchant: txn.Merchant,
		Amount:   txn.Amount,
		Category: txn.Category,
		Type:     txn.Type,
	}
}
