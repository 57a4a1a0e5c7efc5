package internal

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// staffEntry is the public shape of a coach: no email, no role flags.
type staffEntry struct {
	UserID      uint   `json:"userId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsSenior    bool   `json:"isSenior"`
	StaffImgUrl string `json:"staffImgUrl"`
}

// ListStaff feeds the public staff page: active coaches, senior staff first.
func ListStaff(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []User
		err := db.Preload("Coach").Preload("Images").
			Where("is_coach = true AND is_active = true").Find(&users).Error
		if err != nil {
			fail(c, 500, err)
			return
		}

		senior := []staffEntry{}
		junior := []staffEntry{}
		for _, u := range users {
			if u.Coach == nil {
				continue
			}
			entry := staffEntry{
				UserID:      u.ID,
				FirstName:   u.FirstName,
				LastName:    u.LastName,
				Title:       u.Coach.Title,
				Description: u.Coach.Description,
				IsSenior:    u.Coach.IsSenior,
			}
			if u.Images != nil {
				entry.StaffImgUrl = u.Images.StaffImgUrl
			}
			if entry.IsSenior {
				senior = append(senior, entry)
			} else {
				junior = append(junior, entry)
			}
		}
		ok(c, append(senior, junior...))
	}
}
