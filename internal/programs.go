package internal

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListPrograms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var programs []Program
		q := db.Order("name ASC")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if err := q.Find(&programs).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, programs)
	}
}

func GetProgram(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		var program Program
		err = db.Preload("Groups").Preload("Groups.Coaches").First(&program, id).Error
		if err == gorm.ErrRecordNotFound {
			fail(c, 404, "No program found")
			return
		}
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, program)
	}
}

func CreateProgram(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		program := Program{
			Category:    c.PostForm("category"),
			Name:        c.PostForm("name"),
			Description: c.PostForm("description"),
			Length:      formInt(c, "length", 0),
			AgeMin:      formInt(c, "ageMin", 0),
			AgeMax:      formInt(c, "ageMax", 0),
		}
		if program.Name == "" {
			fail(c, 400, "name is required")
			return
		}

		if file, err := c.FormFile("programImgFile"); err == nil {
			obj, err := uploadMultipart(c.Request.Context(), store, "program", file)
			if err != nil {
				fail(c, 500, err)
				return
			}
			program.ProgramImgUrl, program.ProgramImgKey = obj.URL, obj.Key
		}

		if err := db.Create(&program).Error; err != nil {
			fail(c, 500, err)
			return
		}
		actor := adminID(c)
		logAction(db, &actor, "create_program", "program_id="+strconv.Itoa(int(program.ID)))
		ok(c, program)
	}
}

// UpdateProgram swaps the stored image when a new programImgFile arrives:
// the fresh object is uploaded first, then the stale one is deleted.
func UpdateProgram(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		var program Program
		if err := db.First(&program, id).Error; err != nil {
			fail(c, 404, "No program found")
			return
		}

		program.Category = formString(c, "category", program.Category)
		program.Name = formString(c, "name", program.Name)
		program.Description = formString(c, "description", program.Description)
		program.Length = formInt(c, "length", program.Length)
		program.AgeMin = formInt(c, "ageMin", program.AgeMin)
		program.AgeMax = formInt(c, "ageMax", program.AgeMax)

		replaceSlot(c.Request.Context(), c, store, "programImgFile", "program", &program.ProgramImgUrl, &program.ProgramImgKey)

		if err := db.Save(&program).Error; err != nil {
			fail(c, 500, err)
			return
		}
		actor := adminID(c)
		logAction(db, &actor, "update_program", "program_id="+strconv.Itoa(id))
		ok(c, program)
	}
}

// DeleteProgram cascades through the program's groups and their coach links
// before removing the program row, then deletes the stored image.
func DeleteProgram(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		var program Program
		if err := db.First(&program, id).Error; err != nil {
			fail(c, 404, "No program found")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var groupIDs []uint
			if err := tx.Model(&Group{}).Where("program_id = ?", program.ID).Pluck("id", &groupIDs).Error; err != nil {
				return err
			}
			if len(groupIDs) > 0 {
				if err := tx.Where("group_id IN ?", groupIDs).Delete(&CoachGroupLine{}).Error; err != nil {
					return err
				}
				if err := tx.Where("program_id = ?", program.ID).Delete(&Group{}).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&Program{}, program.ID).Error
		})
		if err != nil {
			fail(c, 500, err)
			return
		}

		deleteObjects(c.Request.Context(), store, []string{program.ProgramImgKey})
		actor := adminID(c)
		logAction(db, &actor, "delete_program", "program_id="+strconv.Itoa(id))
		ok(c, nil)
	}
}

/* ===================== GROUPS ===================== */

func ListGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		var groups []Group
		err = db.Preload("Coaches").Where("program_id = ?", programID).
			Order("day ASC, start_time ASC").Find(&groups).Error
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, groups)
	}
}

func CreateGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		if err := db.First(&Program{}, programID).Error; err != nil {
			fail(c, 404, "No program found")
			return
		}

		group := Group{
			ProgramID: uint(programID),
			Name:      c.PostForm("name"),
			Day:       c.PostForm("day"),
			StartTime: c.PostForm("startTime"),
			EndTime:   c.PostForm("endTime"),
			StartDate: c.PostForm("startDate"),
			EndDate:   c.PostForm("endDate"),
			IsActive:  formBool(c, "isActive", true),
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			return setGroupCoaches(tx, group.ID, c.PostFormArray("coachIds"))
		})
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, group)
	}
}

func UpdateGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		groupID, err := strconv.Atoi(c.Param("groupId"))
		if err != nil {
			fail(c, 400, "invalid group id")
			return
		}
		var group Group
		if err := db.Where("program_id = ?", programID).First(&group, groupID).Error; err != nil {
			fail(c, 404, "No group found")
			return
		}

		group.Name = formString(c, "name", group.Name)
		group.Day = formString(c, "day", group.Day)
		group.StartTime = formString(c, "startTime", group.StartTime)
		group.EndTime = formString(c, "endTime", group.EndTime)
		group.StartDate = formString(c, "startDate", group.StartDate)
		group.EndDate = formString(c, "endDate", group.EndDate)
		group.IsActive = formBool(c, "isActive", group.IsActive)

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&group).Error; err != nil {
				return err
			}
			if coachIDs, present := c.GetPostFormArray("coachIds"); present {
				if err := tx.Where("group_id = ?", group.ID).Delete(&CoachGroupLine{}).Error; err != nil {
					return err
				}
				return setGroupCoaches(tx, group.ID, coachIDs)
			}
			return nil
		})
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, group)
	}
}

func DeleteGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := strconv.Atoi(c.Param("programId"))
		if err != nil {
			fail(c, 400, "invalid program id")
			return
		}
		groupID, err := strconv.Atoi(c.Param("groupId"))
		if err != nil {
			fail(c, 400, "invalid group id")
			return
		}
		var group Group
		if err := db.Where("program_id = ?", programID).First(&group, groupID).Error; err != nil {
			fail(c, 404, "No group found")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("group_id = ?", group.ID).Delete(&CoachGroupLine{}).Error; err != nil {
				return err
			}
			return tx.Delete(&Group{}, group.ID).Error
		})
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, nil)
	}
}

func setGroupCoaches(tx *gorm.DB, groupID uint, coachIDs []string) error {
	for _, raw := range coachIDs {
		coachID, err := strconv.Atoi(raw)
		if err != nil {
			continue // skip unparseable ids, matching the loose form coercion
		}
		line := CoachGroupLine{CoachID: uint(coachID), GroupID: groupID}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	}
	return nil
}
