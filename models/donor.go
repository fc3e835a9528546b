package models

// AnonymousDonorID is the reserved donor row that collects donations arriving
// without an attributed identity. It must always exist.
const AnonymousDonorID int64 = 0

const (
	AnonymousDonorName   = "Anonymous donors"
	AnonymousDonorAvatar = "images/unknown.png"
)

type Donor struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null;check:chk_donor_name,name <> ''" json:"name"`
	Avatar string `gorm:"not null;check:chk_donor_avatar,avatar <> ''" json:"avatar"`
}
