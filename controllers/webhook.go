package controllers

import (
	"net/http"

	"github.com/calmisko/donation-backend/services"
	"github.com/calmisko/donation-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// PaypalWebhook ingests a gateway notification that already passed IPN
// signature validation upstream. Malformed payloads never reach the ledger.
func (a *API) PaypalWebhook(c *gin.Context) {
	var payload services.IPNPayload
	if err := c.ShouldBind(&payload); err != nil {
		logger.Warnf("Rejected malformed IPN payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Ingestor.Ingest(payload); err != nil {
		logger.Errorf("Failed to record notification (txn %s): %v", payload.TxnID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record notification"})
		return
	}

	c.Status(http.StatusOK)
}
