package services

import (
	"strconv"
	"time"

	"github.com/calmisko/donation-backend/models"
	"github.com/calmisko/donation-backend/utils/logger"
)

// IPNPayload is the subset of gateway notification fields the backend
// consumes. Payloads have already passed IPN signature validation before
// they reach Ingest; nothing here re-checks the signature.
type IPNPayload struct {
	Custom   string  `form:"custom"`
	Gross    float64 `form:"mc_gross"`
	Fee      float64 `form:"mc_fee"`
	Currency string  `form:"mc_currency"`
	TxnID    string  `form:"txn_id"`
}

// Ingestor normalizes validated gateway notifications into ledger writes.
type Ingestor struct {
	ledger *Ledger
	payout float64
	now    func() time.Time
}

func NewIngestor(ledger *Ledger, payout float64) *Ingestor {
	return &Ingestor{ledger: ledger, payout: payout, now: time.Now}
}

// Ingest classifies the notification and appends exactly one ledger row.
// A gross equal to the negative configured payout is an operator payment;
// everything else is a donation, attributed to the custom donor reference or
// to the anonymous donor when none was sent.
func (i *Ingestor) Ingest(p IPNPayload) error {
	ts := i.now().UTC().Unix()

	if i.payout > 0 && p.Gross == -i.payout {
		logger.Infof("Recording a %.2f %s payout (txn %s)", -p.Gross, p.Currency, p.TxnID)
		return i.ledger.RecordPayment(p.Gross, p.Fee, ts, p.TxnID)
	}

	donorID := models.AnonymousDonorID
	if p.Custom != "" {
		id, err := strconv.ParseInt(p.Custom, 10, 64)
		if err != nil {
			logger.Warnf("Malformed donor reference %q on txn %s, treating as anonymous", p.Custom, p.TxnID)
		} else {
			donorID = id
		}
	}

	if donorID == models.AnonymousDonorID {
		logger.Infof("Got an anonymous %.2f %s donation (txn %s)", p.Gross, p.Currency, p.TxnID)
	} else {
		logger.Infof("Got a %.2f %s donation from donor %d (txn %s)", p.Gross, p.Currency, donorID, p.TxnID)
	}

	return i.ledger.RecordDonation(donorID, p.Gross, p.Fee, ts, p.TxnID)
}
