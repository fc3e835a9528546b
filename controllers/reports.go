package controllers

import (
	"net/http"
	"time"

	"github.com/calmisko/donation-backend/services"
	"github.com/calmisko/donation-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// monthRange returns the current UTC calendar month as an inclusive range.
func monthRange(now time.Time) services.DateRange {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return services.DateRange{From: &first, To: &last}
}

// Donations reports the aggregates the front end renders: the static target,
// the all-time pool balance, this month's net donations and fees, and the
// month's leaderboard.
func (a *API) Donations(c *gin.Context) {
	month := monthRange(time.Now())

	balance, err := a.Ledger.Funds(services.DateRange{})
	if err != nil {
		logger.Errorf("Funds query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	thisMonth, err := a.Ledger.Donated(month)
	if err != nil {
		logger.Errorf("Donated query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	fees, err := a.Ledger.Fees(month)
	if err != nil {
		logger.Errorf("Fees query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	leaderboard, err := a.Ledger.Leaderboard(month, a.LeaderboardSize)
	if err != nil {
		logger.Errorf("Leaderboard query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"target":      a.Target,
		"balance":     balance,
		"thisMonth":   thisMonth,
		"fees":        fees,
		"leaderboard": leaderboard,
	})
}
