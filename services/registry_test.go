package services

import (
	"testing"

	"github.com/calmisko/donation-backend/models"

	"gorm.io/gorm"
)

// trackWrites records how many rows each create/upsert actually touched, so
// tests can prove a no-op upsert skipped the write.
func trackWrites(t *testing.T, db *gorm.DB) *int64 {
	t.Helper()
	var affected int64
	err := db.Callback().Create().After("gorm:create").Register("test:affected", func(tx *gorm.DB) {
		affected += tx.RowsAffected
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return &affected
}

func TestUpsertDonorInsertsAndUpdates(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db)

	if err := r.UpsertDonor(42, "zoe", "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var donor models.Donor
	if err := db.First(&donor, "id = ?", 42).Error; err != nil {
		t.Fatalf("load donor: %v", err)
	}
	if donor.Name != "zoe" {
		t.Fatalf("name = %q, want zoe", donor.Name)
	}

	// Changed avatar must overwrite the stored row.
	if err := r.UpsertDonor(42, "zoe", "https://cdn.example.com/b.png"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := db.First(&donor, "id = ?", 42).Error; err != nil {
		t.Fatalf("load donor: %v", err)
	}
	if donor.Avatar != "https://cdn.example.com/b.png" {
		t.Fatalf("avatar = %q, not updated", donor.Avatar)
	}
}

func TestUpsertDonorIdenticalCallSkipsWrite(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db)
	affected := trackWrites(t, db)

	if err := r.UpsertDonor(42, "zoe", "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if *affected != 1 {
		t.Fatalf("first upsert touched %d rows, want 1", *affected)
	}

	*affected = 0
	if err := r.UpsertDonor(42, "zoe", "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if *affected != 0 {
		t.Fatalf("identical upsert touched %d rows, want 0", *affected)
	}

	*affected = 0
	if err := r.UpsertDonor(42, "zoey", "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("third upsert: %v", err)
	}
	if *affected != 1 {
		t.Fatalf("changed upsert touched %d rows, want 1", *affected)
	}
}

func TestUpsertDonorRejectsEmptyFields(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db)

	if err := r.UpsertDonor(7, "", "https://cdn.example.com/a.png"); err == nil {
		t.Fatal("empty name accepted")
	}
	if err := r.UpsertDonor(7, "zoe", ""); err == nil {
		t.Fatal("empty avatar accepted")
	}

	var count int64
	if err := db.Model(&models.Donor{}).Count(&count).Error; err != nil {
		t.Fatalf("count donors: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d donor rows written from rejected upserts, want 0", count)
	}
}

func TestEnsureAnonymousDonor(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db)

	if err := r.EnsureAnonymousDonor(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	var donor models.Donor
	if err := db.First(&donor, "id = ?", models.AnonymousDonorID).Error; err != nil {
		t.Fatalf("anonymous donor missing: %v", err)
	}
	if donor.Name != models.AnonymousDonorName {
		t.Fatalf("name = %q, want %q", donor.Name, models.AnonymousDonorName)
	}

	// Re-running never overwrites an existing row.
	if err := db.Model(&models.Donor{}).Where("id = ?", models.AnonymousDonorID).
		Update("avatar", "custom.png").Error; err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if err := r.EnsureAnonymousDonor(); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if err := db.First(&donor, "id = ?", models.AnonymousDonorID).Error; err != nil {
		t.Fatalf("anonymous donor missing after re-run: %v", err)
	}
	if donor.Avatar != "custom.png" {
		t.Fatalf("avatar = %q, ensure must not overwrite", donor.Avatar)
	}
}
