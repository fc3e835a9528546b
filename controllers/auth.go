package controllers

import (
	"fmt"
	"net/http"

	"github.com/calmisko/donation-backend/models"
	"github.com/calmisko/donation-backend/services"
	"github.com/calmisko/donation-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "session_id"

// Small self-closing page returned to the OAuth popup window.
const closePage = `<html><body onload="window.close()">%s</body></html>`

// API bundles the services the HTTP layer needs.
type API struct {
	Registry *services.Registry
	Ledger   *services.Ledger
	Ingestor *services.Ingestor
	Sessions *services.SessionStore
	Discord  *services.DiscordClient
	Feed     *services.Feed

	Target          float64
	LeaderboardSize int
}

// session resolves the caller's session from the cookie, minting and setting
// a fresh one when the cookie is absent or expired.
func (a *API) session(c *gin.Context) models.Session {
	id, _ := c.Cookie(sessionCookie)
	sess := a.Sessions.Get(id)
	if sess.ID != id {
		c.SetCookie(sessionCookie, sess.ID, int(a.Sessions.TTL().Seconds()), "/", "", false, true)
	}
	return sess
}

func closeHTML(c *gin.Context, status int, msg string) {
	c.Data(status, "text/html; charset=utf-8", []byte(fmt.Sprintf(closePage, msg)))
}

// DiscordCallback completes the OAuth flow and stores the tokens in the
// caller's session.
func (a *API) DiscordCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam == "access_denied" {
		closeHTML(c, http.StatusBadRequest, "Authorisation cancelled, you may now close this window.")
		return
	} else if errParam != "" {
		closeHTML(c, http.StatusBadRequest, "Authorisation failed, you may now close this window.")
		return
	}

	code := c.Query("code")
	if code == "" {
		closeHTML(c, http.StatusBadRequest, "Authorisation failed for an unknown reason.")
		return
	}

	access, refresh, err := a.Discord.ExchangeCode(code)
	if err != nil {
		logger.Errorf("Token exchange failed: %v", err)
		closeHTML(c, http.StatusBadGateway, "Failed to get an access token, you may now close this window.")
		return
	}

	sess := a.session(c)
	sess.Token = access
	sess.RefreshToken = refresh
	if err := a.Sessions.Put(sess); err != nil {
		logger.Errorf("Failed to store session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	closeHTML(c, http.StatusOK, "Authorisation successful, you may now close this window.")
}

// DiscordAuthorised reports whether the session holds a working token. A
// successful lookup also syncs the donor registry and caches the identity on
// the session.
func (a *API) DiscordAuthorised(c *gin.Context) {
	sess := a.session(c)
	if sess.Token == "" {
		c.JSON(http.StatusOK, gin.H{"authorised": false})
		return
	}

	identity, err := a.Discord.FetchIdentity(sess.Token)
	if err != nil {
		logger.Errorf("Identity lookup failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"authorised": false})
		return
	}

	if err := a.Registry.UpsertDonor(identity.ID, identity.Name, identity.Avatar); err != nil {
		logger.Errorf("Failed to upsert donor %d: %v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"authorised": false})
		return
	}

	sess.DiscordID = &identity.ID
	sess.Name = identity.Name
	sess.Avatar = identity.Avatar
	if err := a.Sessions.Put(sess); err != nil {
		logger.Errorf("Failed to store session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"authorised": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authorised": true})
}

// DiscordProfile returns the cached identity for the session.
func (a *API) DiscordProfile(c *gin.Context) {
	sess := a.session(c)
	if sess.DiscordID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     *sess.DiscordID,
		"name":   sess.Name,
		"avatar": sess.Avatar,
	})
}
