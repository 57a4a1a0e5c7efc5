package internal

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListTryouts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tryouts []Tryout
		q := db.Order("created_at DESC")
		if c.Query("unread") == "1" {
			q = q.Where("read_status = false")
		}
		if err := q.Find(&tryouts).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, tryouts)
	}
}

// CreateTryout is the public intake form; no auth.
func CreateTryout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tryout := Tryout{
			FirstName:   c.PostForm("firstName"),
			LastName:    c.PostForm("lastName"),
			Age:         formInt(c, "age", 0),
			Experience:  c.PostForm("experience"),
			ClubHistory: c.PostForm("clubHistory"),
			Email:       c.PostForm("email"),
			Phone:       c.PostForm("phone"),
			Message:     c.PostForm("message"),
		}
		if tryout.FirstName == "" || tryout.LastName == "" {
			fail(c, 400, "firstName and lastName are required")
			return
		}
		if err := db.Create(&tryout).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, tryout)
	}
}

// UpdateTryout edits the submission, most commonly flipping readStatus.
func UpdateTryout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("tryoutId"))
		if err != nil {
			fail(c, 400, "invalid tryout id")
			return
		}
		var tryout Tryout
		if err := db.First(&tryout, id).Error; err != nil {
			fail(c, 404, "No tryout found")
			return
		}

		tryout.FirstName = formString(c, "firstName", tryout.FirstName)
		tryout.LastName = formString(c, "lastName", tryout.LastName)
		tryout.Age = formInt(c, "age", tryout.Age)
		tryout.Experience = formString(c, "experience", tryout.Experience)
		tryout.ClubHistory = formString(c, "clubHistory", tryout.ClubHistory)
		tryout.Email = formString(c, "email", tryout.Email)
		tryout.Phone = formString(c, "phone", tryout.Phone)
		tryout.Message = formString(c, "message", tryout.Message)
		tryout.ReadStatus = formBool(c, "readStatus", tryout.ReadStatus)

		if err := db.Save(&tryout).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, tryout)
	}
}

func DeleteTryout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("tryoutId"))
		if err != nil {
			fail(c, 400, "invalid tryout id")
			return
		}
		res := db.Delete(&Tryout{}, id)
		if res.Error != nil {
			fail(c, 500, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, 404, "No tryout found")
			return
		}
		ok(c, nil)
	}
}
