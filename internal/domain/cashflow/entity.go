package cashflow

import (
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/review"
	"github.com/shopspring/decimal"
)

type AdvanceType string

const (
	AdvancePersonal AdvanceType = "personal"
	AdvanceSupport  AdvanceType = "support"
)

func (t AdvanceType) Valid() bool {
	return t == AdvancePersonal || t == AdvanceSupport
}

// CashAdvance entity. One shared status field moves through the two review
// levels; the levels themselves are kept for audit.
type CashAdvance struct {
	ID         string
	EmployeeID string

	Amount  decimal.Decimal
	Purpose string
	Type    AdvanceType

	Status review.Status
	Level1 review.Level
	Level2 review.Level

	// Top-level approval bookkeeping, stamped when the second level closes
	// the request. Cleared together with the levels on reopen.
	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// OriginatorPosition is joined in for the confidentiality filter.
	OriginatorPosition string
}

// Editable reports whether the submitter may still edit or delete.
func (c CashAdvance) Editable() bool {
	return c.Status == review.StatusPending && c.Level1.IsPending()
}

// Liquidation reconciles a cash advance against actual expenses.
type Liquidation struct {
	ID            string
	CashAdvanceID string
	EmployeeID    string

	Remarks string

	TotalAmount     decimal.Decimal
	ReturnToCompany decimal.Decimal
	Reimbursement   decimal.Decimal

	Status review.Status
	Level1 review.Level
	Level2 review.Level

	ApprovedBy *string
	ApprovedAt *time.Time

	Items       []LiquidationItem
	Attachments []Attachment

	CreatedAt time.Time
	UpdatedAt time.Time

	OriginatorPosition string
}

func (l Liquidation) Editable() bool {
	return l.Status == review.StatusPending && l.Level1.IsPending()
}

// LiquidationItem is one expense line. Item lists are replaced wholesale on
// edit, never patched.
type LiquidationItem struct {
	ID            string
	LiquidationID string
	Category      string
	Description   string
	Amount        decimal.Decimal
}

// Attachment is receipt metadata; the bytes live in blob storage under
// StorageKey.
type Attachment struct {
	ID            string
	LiquidationID string
	FileName      string
	StorageKey    string
	ContentType   string
	SizeBytes     int64
	CreatedAt     time.Time
}

// SumItems totals the expense lines.
func SumItems(items []LiquidationItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// Reconcile computes the signed difference between the advance and the
// liquidated total, split into its two non-negative components. At most one
// of the results is non-zero.
func Reconcile(advanceAmount, total decimal.Decimal) (returnToCompany, reimbursement decimal.Decimal) {
	diff := advanceAmount.Sub(total)
	if diff.IsPositive() {
		return diff, decimal.Zero
	}
	return decimal.Zero, diff.Neg()
}
