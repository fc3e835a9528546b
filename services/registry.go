package services

import (
	"fmt"

	"github.com/calmisko/donation-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Registry keeps the donor table in sync with the identity provider.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// UpsertDonor inserts a donor or refreshes name/avatar on an existing row.
// The conflict update only fires when something actually changed, so repeated
// identity lookups with the same details never touch the row.
func (r *Registry) UpsertDonor(id int64, name, avatar string) error {
	if name == "" || avatar == "" {
		return fmt.Errorf("donor %d: name and avatar must be non-empty", id)
	}

	donor := models.Donor{ID: id, Name: name, Avatar: avatar}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "avatar"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Or(
				clause.Neq{Column: clause.Column{Name: "name"}, Value: name},
				clause.Neq{Column: clause.Column{Name: "avatar"}, Value: avatar},
			),
		}},
	}).Create(&donor).Error
}

// EnsureAnonymousDonor seeds the reserved donor row for unattributed
// donations. Run once at startup; an existing row is left untouched.
func (r *Registry) EnsureAnonymousDonor() error {
	donor := models.Donor{
		ID:     models.AnonymousDonorID,
		Name:   models.AnonymousDonorName,
		Avatar: models.AnonymousDonorAvatar,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&donor).Error
}
