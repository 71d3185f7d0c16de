package cashflow

import "context"

type CashAdvanceRepository interface {
	Create(ctx context.Context, advance CashAdvance) (CashAdvance, error)
	GetByID(ctx context.Context, id string) (CashAdvance, error)
	GetByIDForUpdate(ctx context.Context, id string) (CashAdvance, error)

	// UpdateReview persists status, both levels and top-level bookkeeping in
	// one statement. A reopen is the same write with everything cleared.
	UpdateReview(ctx context.Context, advance CashAdvance) error

	UpdateDetails(ctx context.Context, advance CashAdvance) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter ListFilter) ([]CashAdvance, int64, error)
}

type LiquidationRepository interface {
	Create(ctx context.Context, liquidation Liquidation) (Liquidation, error)
	GetByID(ctx context.Context, id string) (Liquidation, error)
	GetByIDForUpdate(ctx context.Context, id string) (Liquidation, error)

	UpdateReview(ctx context.Context, liquidation Liquidation) error

	// ReplaceItems deletes all existing expense lines and inserts the new
	// set, updating the stored totals in the same transaction.
	ReplaceItems(ctx context.Context, liquidation Liquidation, items []LiquidationItem) error

	List(ctx context.Context, filter ListFilter) ([]Liquidation, int64, error)

	AddAttachment(ctx context.Context, attachment Attachment) (Attachment, error)
	GetAttachment(ctx context.Context, id string) (Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

type CashAdvanceService interface {
	Submit(ctx context.Context, req SubmitAdvanceRequest) (CashAdvance, error)
	Review(ctx context.Context, req ReviewRequest) (CashAdvance, error)
	Edit(ctx context.Context, req EditAdvanceRequest) (CashAdvance, error)
	Delete(ctx context.Context, requestID, employeeID string) error
	Reopen(ctx context.Context, req ReopenRequest) (CashAdvance, error)
	List(ctx context.Context, callerID string, filter ListFilter) ([]CashAdvance, int64, error)
}

type LiquidationService interface {
	Submit(ctx context.Context, req SubmitLiquidationRequest) (Liquidation, error)
	Review(ctx context.Context, req ReviewRequest) (Liquidation, error)
	EditItems(ctx context.Context, req EditItemsRequest) (Liquidation, error)
	Reopen(ctx context.Context, req ReopenRequest) (Liquidation, error)
	List(ctx context.Context, callerID string, filter ListFilter) ([]Liquidation, int64, error)
	AttachReceipt(ctx context.Context, liquidationID, employeeID string, upload ReceiptUpload) (Attachment, error)
}
