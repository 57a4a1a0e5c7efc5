package internal

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// athleteFor resolves the athlete row behind /api/users/:userId/... paths.
func athleteFor(db *gorm.DB, c *gin.Context) (*Athlete, bool) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		fail(c, 400, "invalid user id")
		return nil, false
	}
	var athlete Athlete
	if err := db.Where("user_id = ?", id).First(&athlete).Error; err != nil {
		fail(c, 404, "No athlete found")
		return nil, false
	}
	return &athlete, true
}

func CreateScore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		athlete, found := athleteFor(db, c)
		if !found {
			return
		}
		score := Score{
			AthleteID: athlete.ID,
			Meet:      c.PostForm("meet"),
			Event:     c.PostForm("event"),
			Score:     formFloat(c, "score", 0),
			Placement: formInt(c, "placement", 0),
			Date:      c.PostForm("date"),
		}
		if err := db.Create(&score).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, score)
	}
}

func DeleteScore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		athlete, found := athleteFor(db, c)
		if !found {
			return
		}
		scoreID, err := strconv.Atoi(c.Param("scoreId"))
		if err != nil {
			fail(c, 400, "invalid score id")
			return
		}
		if err := db.Where("athlete_id = ?", athlete.ID).Delete(&Score{}, scoreID).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, nil)
	}
}

func CreateAchievement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		athlete, found := athleteFor(db, c)
		if !found {
			return
		}
		achievement := Achievement{
			AthleteID:   athlete.ID,
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Date:        c.PostForm("date"),
		}
		if err := db.Create(&achievement).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, achievement)
	}
}

// DeleteAchievement is deliberately tolerant: deleting an achievement that is
// already gone answers success with a null body.
func DeleteAchievement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		athlete, found := athleteFor(db, c)
		if !found {
			return
		}
		achievementID, err := strconv.Atoi(c.Param("achievementId"))
		if err != nil {
			fail(c, 400, "invalid achievement id")
			return
		}
		if err := db.Where("athlete_id = ?", athlete.ID).Delete(&Achievement{}, achievementID).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, nil)
	}
}

// CreateAthleteMedia uploads one athlete gallery item, thumbnailing videos
// the same way the site gallery does.
func CreateAthleteMedia(db *gorm.DB, store ObjectStore, thumbs *Thumbnailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		athlete, found := athleteFor(db, c)
		if !found {
			return
		}
		file, err := c.FormFile("mediaFile")
		if err != nil {
			fail(c, 400, "mediaFile is required")
			return
		}

		media, thumb, mediaType, err := processMediaUpload(c.Request.Context(), store, thumbs, "athlete", file)
		if err != nil {
			fail(c, 500, err)
			return
		}

		row := Media{
			AthleteID:         athlete.ID,
			Type:              mediaType,
			MediaUrl:          media.URL,
			MediaKey:          media.Key,
			VideoThumbnail:    thumb.URL,
			VideoThumbnailKey: thumb.Key,
		}
		if err := db.Create(&row).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, row)
	}
}

func DeleteAthleteMedia(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		athlete, found := athleteFor(db, c)
		if !found {
			return
		}
		mediaID, err := strconv.Atoi(c.Param("mediaId"))
		if err != nil {
			fail(c, 400, "invalid media id")
			return
		}
		var row Media
		if err := db.Where("athlete_id = ?", athlete.ID).First(&row, mediaID).Error; err != nil {
			fail(c, 404, "No media found")
			return
		}
		if err := db.Delete(&row).Error; err != nil {
			fail(c, 500, err)
			return
		}
		deleteObjects(c.Request.Context(), store, []string{row.MediaKey, row.VideoThumbnailKey})
		ok(c, nil)
	}
}
