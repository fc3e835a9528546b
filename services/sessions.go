package services

import (
	"time"

	"github.com/calmisko/donation-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore persists OAuth sessions server-side, keyed by the uuid carried
// in the session_id cookie. Handlers resolve the session up front and pass
// the identity into core calls; nothing below the controllers reads ambient
// session state.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Get loads a live session. Unknown or expired ids yield a fresh unsaved
// session, so callers always hold a usable record.
func (s *SessionStore) Get(id string) models.Session {
	if id != "" {
		var sess models.Session
		err := s.db.First(&sess, "id = ?", id).Error
		if err == nil && sess.ExpiresAt.After(time.Now()) {
			return sess
		}
	}
	return models.Session{
		ID:        uuid.NewString(),
		ExpiresAt: time.Now().Add(s.ttl),
	}
}

// Put writes the session back, inserting or updating as needed. CreatedAt is
// deliberately absent from the update set so it keeps marking the first write.
func (s *SessionStore) Put(sess models.Session) error {
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"token", "refresh_token", "discord_id", "name", "avatar",
			"expires_at", "updated_at",
		}),
	}).Create(&sess).Error
}
