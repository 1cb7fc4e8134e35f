package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dashboard views refreshed after a write.
const (
	PathLimitExpenses = "/dashboard/limit-expenses"
	PathCashFlow      = "/dashboard/cash-flow"
	PathBalanceSheet  = "/dashboard/balancesheet"
	PathRequestBudget = "/dashboard/request-budget"
	PathEmployees     = "/dashboard/company/employee"
)

const timeLayout = time.RFC3339

// Notifier publishes revalidation signals to the dashboards of one
// organization. Delivery is best effort.
type Notifier interface {
	Revalidate(orgID uuid.UUID, paths ...string)
}

// NopNotifier drops every signal.
type NopNotifier struct{}

func (NopNotifier) Revalidate(uuid.UUID, ...string) {}

// storageErr maps a repository failure onto the error taxonomy.
func storageErr(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Storage(err, message)
}

// lookupErr is storageErr for single-row reads, turning a missing row into NotFound.
func lookupErr(err error, notFound string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound, args...)
	}
	return storageErr(err, "failed to load record")
}

// parseAmount parses a non-negative currency magnitude.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperr.Validation("%q is not a valid amount", raw)
	}
	return checkAmount(amount)
}

const (
	// integer precision of the decimal(18,2) columns
	maxAmountDigits = 16
	maxAmountScale  = 18
)

func checkAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperr.Validation("amount must not be negative")
	}
	// checked before rounding, which would expand a huge exponent
	if amount.Exponent() > maxAmountDigits || amount.NumDigits()+int(amount.Exponent()) > maxAmountDigits {
		return decimal.Zero, apperr.Validation("amount exceeds the supported range")
	}
	if amount.Exponent() < -maxAmountScale {
		return decimal.Zero, apperr.Validation("amount has too many decimal places")
	}
	return amount.Round(2), nil
}

// auditRecord is an audit row whose details are encoded on write.
type auditRecord struct {
	entry   *model.AuditLog
	details map[string]interface{}
}

func auditEntry(actor *auth.Actor, orgID uuid.UUID, action, entityID, entityName string, details map[string]interface{}) auditRecord {
	entry := &model.AuditLog{
		OrganizationID: &orgID,
		Action:         action,
		EntityID:       entityID,
		EntityName:     entityName,
	}
	if actor != nil && actor.UserID != uuid.Nil {
		uid := actor.UserID
		entry.UserID = &uid
	}
	return auditRecord{entry: entry, details: details}
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, rec auditRecord) error {
	payload, err := json.Marshal(rec.details)
	if err != nil {
		return apperr.Storage(err, "failed to encode audit details")
	}
	rec.entry.Details = string(payload)
	if err := repo.Log(ctx, rec.entry); err != nil {
		return storageErr(err, "failed to write audit log")
	}
	return nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}
