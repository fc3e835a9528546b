package services

import (
	"time"

	"github.com/calmisko/donation-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultLeaderboardSize = 10

// DateRange is an inclusive UTC calendar-date window over transaction
// timestamps. A nil boundary leaves that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Scope applies the range as a query predicate. The end date is inclusive:
// rows up to the last second of that UTC day are kept.
func (r DateRange) Scope(tx *gorm.DB) *gorm.DB {
	if r.From != nil {
		tx = tx.Where("timestamp >= ?", startOfDayUTC(*r.From).Unix())
	}
	if r.To != nil {
		tx = tx.Where("timestamp < ?", startOfDayUTC(*r.To).AddDate(0, 0, 1).Unix())
	}
	return tx
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Ledger is the append-only transaction store and its read-side aggregates.
// Every query recomputes from source rows; there is no caching.
type Ledger struct {
	db   *gorm.DB
	feed *Feed
}

func NewLedger(db *gorm.DB, feed *Feed) *Ledger {
	return &Ledger{db: db, feed: feed}
}

// RecordDonation appends one donation row. Donor 0 marks an anonymous
// donation. The ledger is a dumb append store and does not validate amounts.
func (l *Ledger) RecordDonation(donorID int64, amount, fee float64, ts int64, txnID string) error {
	id := donorID
	row := models.Transaction{
		ID:        uuid.NewString(),
		DonorID:   &id,
		Amount:    amount,
		Fee:       fee,
		Timestamp: ts,
		TxnID:     txnID,
	}
	if err := l.db.Create(&row).Error; err != nil {
		return err
	}
	l.publish(row)
	return nil
}

// RecordPayment appends an operator payment: funds leaving the pool, no donor
// reference. Amount is negative by convention.
func (l *Ledger) RecordPayment(amount, fee float64, ts int64, txnID string) error {
	row := models.Transaction{
		ID:        uuid.NewString(),
		Amount:    amount,
		Fee:       fee,
		Timestamp: ts,
		TxnID:     txnID,
	}
	if err := l.db.Create(&row).Error; err != nil {
		return err
	}
	l.publish(row)
	return nil
}

func (l *Ledger) publish(row models.Transaction) {
	if l.feed != nil {
		l.feed.Broadcast(row)
	}
}

// Funds returns SUM(amount - fee) over every matching row, payments included:
// the net funds held for the range.
func (l *Ledger) Funds(r DateRange) (float64, error) {
	return l.sum(r, "COALESCE(SUM(amount - fee), 0)", false)
}

// Fees returns SUM(fee) over every matching row.
func (l *Ledger) Fees(r DateRange) (float64, error) {
	return l.sum(r, "COALESCE(SUM(fee), 0)", false)
}

// Donated returns SUM(amount - fee) over donation rows only; operator
// payments are excluded.
func (l *Ledger) Donated(r DateRange) (float64, error) {
	return l.sum(r, "COALESCE(SUM(amount - fee), 0)", true)
}

func (l *Ledger) sum(r DateRange, expr string, donationsOnly bool) (float64, error) {
	var total float64
	tx := l.db.Model(&models.Transaction{}).Select(expr).Scopes(r.Scope)
	if donationsOnly {
		tx = tx.Where("donor_id IS NOT NULL")
	}
	err := tx.Scan(&total).Error
	return total, err
}

// LeaderboardEntry is one ranked donor with net contribution and fees.
type LeaderboardEntry struct {
	Name   string  `json:"name"`
	Avatar string  `json:"avatar"`
	Total  float64 `json:"total"`
	Fees   float64 `json:"fees"`
}

// Leaderboard groups donation rows by donor over the range, keeps the top
// donors by net total, and joins donor metadata. The limit is applied inside
// the grouped subquery and the kept rows are re-sorted descending after the
// join; donor_id breaks ties so equal totals rank deterministically. Donors
// with no matching rows are absent (inner join, no zero-fill).
func (l *Ledger) Leaderboard(r DateRange, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	grouped := l.db.Model(&models.Transaction{}).
		Select("donor_id, SUM(amount - fee) AS total, SUM(fee) AS fees").
		Where("donor_id IS NOT NULL").
		Scopes(r.Scope).
		Group("donor_id").
		Order("total DESC, donor_id ASC").
		Limit(limit)

	entries := make([]LeaderboardEntry, 0, limit)
	err := l.db.Table("(?) AS top", grouped).
		Select("donors.name, donors.avatar, top.total, top.fees").
		Joins("JOIN donors ON donors.id = top.donor_id").
		Order("top.total DESC, top.donor_id ASC").
		Scan(&entries).Error
	return entries, err
}
