package model

import (
	"time"
)

/*

User is the relational source-of-truth record for an account. The feed
subsystem only reads display fields from it; account lifecycle is owned by the
auth service.

Id: primary key
Username: display name shown on feed items
ProfilePictureUrl: avatar shown on feed items

*/
type User struct {
	Id                int64 `gorm:"primaryKey"`
	CreatedAt         time.Time
	Username          string
	ProfilePictureUrl string
}
