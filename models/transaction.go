package models

// Transaction is one signed ledger entry. Rows with a nil DonorID are
// operator payments (funds leaving the pool); everything else is a donation,
// with donor 0 meaning anonymous. Rows are never updated or deleted.
type Transaction struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	DonorID   *int64  `gorm:"index" json:"donorId"`
	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	Timestamp int64   `gorm:"index" json:"timestamp"` // unix seconds, UTC
	TxnID     string  `gorm:"size:50;index" json:"txnId"` // gateway transaction id, kept for manual reconciliation
}
