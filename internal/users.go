package internal

import (
	"context"
	"log"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []User
		err := db.Preload("Images").Preload("Coach").Preload("Athlete").
			Preload("Prospect").Preload("Alumni").
			Order("last_name ASC, first_name ASC").Find(&users).Error
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, users)
	}
}

func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("userId"))
		if err != nil {
			fail(c, 400, "invalid user id")
			return
		}
		var user User
		err = db.Preload("Images").Preload("Coach").
			Preload("Athlete").Preload("Athlete.Scores").
			Preload("Athlete.Media").Preload("Athlete.Achievements").
			Preload("Prospect").Preload("Alumni").
			First(&user, id).Error
		if err == gorm.ErrRecordNotFound {
			fail(c, 404, "No user found")
			return
		}
		if err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, user)
	}
}

func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := User{
			FirstName: c.PostForm("firstName"),
			LastName:  c.PostForm("lastName"),
			Email:     c.PostForm("email"),
			IsActive:  true,
		}
		if user.FirstName == "" || user.LastName == "" {
			fail(c, 400, "firstName and lastName are required")
			return
		}
		if err := db.Create(&user).Error; err != nil {
			fail(c, 500, err)
			return
		}
		// Every user carries an image row; slots start empty.
		if err := db.Create(&UserImages{UserID: user.ID}).Error; err != nil {
			fail(c, 500, err)
			return
		}
		actor := adminID(c)
		logAction(db, &actor, "create_user", "user_id="+strconv.Itoa(int(user.ID)))
		ok(c, user)
	}
}

// PatchUser flips the small standalone flags without touching roles.
func PatchUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("userId"))
		if err != nil {
			fail(c, 400, "invalid user id")
			return
		}
		var req struct {
			IsActive  *bool `json:"isActive"`
			IsScouted *bool `json:"isScouted"`
		}
		if err := c.BindJSON(&req); err != nil {
			fail(c, 400, "bad json")
			return
		}

		var user User
		if err := db.First(&user, id).Error; err != nil {
			fail(c, 404, "No user found")
			return
		}
		updates := map[string]any{}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.IsScouted != nil {
			updates["is_scouted"] = *req.IsScouted
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				fail(c, 500, err)
				return
			}
		}
		ok(c, user)
	}
}

// UpdateUser is the role lifecycle handler: PUT /api/users/:userId with a
// multipart form carrying the requested flags, the per-role detail fields and
// up to four replacement photos.
//
// Each removed role's cascade and each present role's upsert runs in its own
// transaction; stored objects are deleted only after the owning transaction
// commits. One role failing is logged and does not stop the others.
func UpdateUser(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("userId"))
		if err != nil {
			fail(c, 400, "invalid user id")
			return
		}

		var user User
		if err := db.First(&user, id).Error; err != nil {
			fail(c, 404, "No user found")
			return
		}
		img, err := imagesFor(db, user.ID)
		if err != nil {
			fail(c, 500, err)
			return
		}

		ctx := c.Request.Context()
		actor := adminID(c)

		// Base identity fields ride along on the same form.
		if v := c.PostForm("firstName"); v != "" {
			user.FirstName = v
		}
		if v := c.PostForm("lastName"); v != "" {
			user.LastName = v
		}
		if v, present := c.GetPostForm("email"); present {
			user.Email = v
		}
		user.IsActive = formBool(c, "isActive", user.IsActive)
		user.IsScouted = formBool(c, "isScouted", user.IsScouted)

		prev := roleSetOf(&user)
		next := RoleSet{
			Coach:    formBool(c, "isCoach", prev.Coach),
			Athlete:  formBool(c, "isAthlete", prev.Athlete),
			Prospect: formBool(c, "isProspect", prev.Prospect),
			Alumni:   formBool(c, "isAlumni", prev.Alumni),
		}.Normalize()
		diff := DiffRoles(prev, next)

		for _, role := range diff.Removed {
			if err := removeRole(ctx, db, store, role, &user, img); err != nil {
				log.Printf("user %d: remove %s: %v", user.ID, role, err)
			}
		}
		for _, role := range diff.Present {
			if err := upsertRole(ctx, c, db, store, role, &user, img); err != nil {
				log.Printf("user %d: upsert %s: %v", user.ID, role, err)
			}
		}

		user.IsCoach = next.Coach
		user.IsAthlete = next.Athlete
		user.IsProspect = next.Prospect
		user.IsAlumni = next.Alumni
		if err := db.Save(&user).Error; err != nil {
			fail(c, 500, err)
			return
		}
		if err := db.Save(img).Error; err != nil {
			fail(c, 500, err)
			return
		}

		logAction(db, &actor, "update_user", "user_id="+strconv.Itoa(int(user.ID)))

		var out User
		if err := db.Preload("Images").Preload("Coach").Preload("Athlete").
			Preload("Prospect").Preload("Alumni").First(&out, user.ID).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, out)
	}
}

func DeleteUser(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("userId"))
		if err != nil {
			fail(c, 400, "invalid user id")
			return
		}
		var user User
		if err := db.First(&user, id).Error; err != nil {
			fail(c, 404, "No user found")
			return
		}
		img, err := imagesFor(db, user.ID)
		if err != nil {
			fail(c, 500, err)
			return
		}

		var staleKeys []string
		err = db.Transaction(func(tx *gorm.DB) error {
			keys, err := cleanupAthleteTx(tx, user.ID, img)
			if err != nil {
				return err
			}
			staleKeys = append(staleKeys, keys...)

			keys, err = cleanupCoachTx(tx, user.ID, img)
			if err != nil {
				return err
			}
			staleKeys = append(staleKeys, keys...)

			if err := tx.Where("user_id = ?", user.ID).Delete(&UserImages{}).Error; err != nil {
				return err
			}
			return tx.Delete(&User{}, user.ID).Error
		})
		if err != nil {
			fail(c, 500, err)
			return
		}

		deleteObjects(c.Request.Context(), store, staleKeys)
		actor := adminID(c)
		logAction(db, &actor, "delete_user", "user_id="+strconv.Itoa(id))
		ok(c, nil)
	}
}

/* ===================== ROLE TRANSITIONS ===================== */

// removeRole runs one role's cascade cleanup in its own transaction, then
// deletes the stale objects as compensations after commit. The cleanup
// helpers clear slot fields on img in memory; a rollback must undo those
// too, or the caller's later save would orphan keys still owned by rows.
func removeRole(ctx context.Context, db *gorm.DB, store ObjectStore, role Role, user *User, img *UserImages) error {
	snapshot := *img
	var staleKeys []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		var keys []string
		switch role {
		case RoleAthlete:
			keys, err = cleanupAthleteTx(tx, user.ID, img)
		case RoleCoach:
			keys, err = cleanupCoachTx(tx, user.ID, img)
		case RoleProspect:
			keys, err = cleanupProspectTx(tx, user.ID, img)
		case RoleAlumni:
			keys, err = cleanupAlumniTx(tx, user.ID, img)
		}
		if err != nil {
			return err
		}
		staleKeys = keys
		return tx.Save(img).Error
	})
	if err != nil {
		*img = snapshot
		return err
	}
	deleteObjects(ctx, store, staleKeys)
	return nil
}

// upsertRole refreshes one role's detail row from the form and swaps in a
// replacement photo when one was submitted.
func upsertRole(ctx context.Context, c *gin.Context, db *gorm.DB, store ObjectStore, role Role, user *User, img *UserImages) error {
	switch role {
	case RoleCoach:
		replaceSlot(ctx, c, store, "staffImgFile", "coach", &img.StaffImgUrl, &img.StaffImgKey)
		return db.Transaction(func(tx *gorm.DB) error {
			var coach Coach
			err := tx.Where("user_id = ?", user.ID).First(&coach).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			coach.UserID = user.ID
			coach.Title = formString(c, "title", coach.Title)
			coach.Description = formString(c, "coachDescription", coach.Description)
			coach.IsSenior = formBool(c, "isSenior", coach.IsSenior)
			if err := tx.Save(&coach).Error; err != nil {
				return err
			}
			return tx.Save(img).Error
		})

	case RoleAthlete:
		replaceSlot(ctx, c, store, "athleteImgFile", "athlete", &img.AthleteImgUrl, &img.AthleteImgKey)
		return db.Transaction(func(tx *gorm.DB) error {
			var athlete Athlete
			err := tx.Where("user_id = ?", user.ID).First(&athlete).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			athlete.UserID = user.ID
			athlete.SkillLevel = formString(c, "skillLevel", athlete.SkillLevel)
			if err := tx.Save(&athlete).Error; err != nil {
				return err
			}
			return tx.Save(img).Error
		})

	case RoleProspect:
		replaceSlot(ctx, c, store, "prospectImgFile", "prospect", &img.ProspectImgUrl, &img.ProspectImgKey)
		return db.Transaction(func(tx *gorm.DB) error {
			var p Prospect
			err := tx.Where("user_id = ?", user.ID).First(&p).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			p.UserID = user.ID
			fillRecruitingProfile(c, &p.GPA, &p.Major, &p.Institution, &p.GraduationYear, &p.Instagram, &p.Twitter, &p.YouTube)
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			return tx.Save(img).Error
		})

	case RoleAlumni:
		replaceSlot(ctx, c, store, "alumniImgFile", "alumni", &img.AlumniImgUrl, &img.AlumniImgKey)
		return db.Transaction(func(tx *gorm.DB) error {
			var a Alumni
			err := tx.Where("user_id = ?", user.ID).First(&a).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			a.UserID = user.ID
			fillRecruitingProfile(c, &a.GPA, &a.Major, &a.Institution, &a.GraduationYear, &a.Instagram, &a.Twitter, &a.YouTube)
			if err := tx.Save(&a).Error; err != nil {
				return err
			}
			return tx.Save(img).Error
		})
	}
	return nil
}

// fillRecruitingProfile covers the fields Prospect and Alumni share.
func fillRecruitingProfile(c *gin.Context, gpa, major, institution *string, gradYear *int, instagram, twitter, youtube *string) {
	*gpa = formString(c, "gpa", *gpa)
	*major = formString(c, "major", *major)
	*institution = formString(c, "institution", *institution)
	*gradYear = formInt(c, "graduationYear", *gradYear)
	*instagram = formString(c, "instagram", *instagram)
	*twitter = formString(c, "twitter", *twitter)
	*youtube = formString(c, "youtube", *youtube)
}

/* ===================== CASCADE CLEANUP ===================== */

// cleanupAthleteTx removes everything that exists only because the user is
// an athlete: scores, media (collecting stored keys), achievements, the
// prospect/alumni rows and photos, the athlete/prospect/alumni image slots,
// then the athlete row itself. Returned keys are deleted after commit.
func cleanupAthleteTx(tx *gorm.DB, userID uint, img *UserImages) ([]string, error) {
	var athlete Athlete
	err := tx.Where("user_id = ?", userID).First(&athlete).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string

	var media []Media
	if err := tx.Where("athlete_id = ?", athlete.ID).Find(&media).Error; err != nil {
		return nil, err
	}
	for _, m := range media {
		keys = append(keys, m.MediaKey, m.VideoThumbnailKey)
	}

	if err := tx.Where("athlete_id = ?", athlete.ID).Delete(&Score{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("athlete_id = ?", athlete.ID).Delete(&Media{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("athlete_id = ?", athlete.ID).Delete(&Achievement{}).Error; err != nil {
		return nil, err
	}

	k, err := cleanupProspectTx(tx, userID, img)
	if err != nil {
		return nil, err
	}
	keys = append(keys, k...)
	k, err = cleanupAlumniTx(tx, userID, img)
	if err != nil {
		return nil, err
	}
	keys = append(keys, k...)

	keys = append(keys, img.AthleteImgKey)
	img.AthleteImgUrl, img.AthleteImgKey = "", ""

	if err := tx.Delete(&Athlete{}, athlete.ID).Error; err != nil {
		return nil, err
	}
	return compactKeys(keys), nil
}

// cleanupCoachTx removes the group links, the staff photo slot and the coach
// row.
func cleanupCoachTx(tx *gorm.DB, userID uint, img *UserImages) ([]string, error) {
	var coach Coach
	err := tx.Where("user_id = ?", userID).First(&coach).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Where("coach_id = ?", coach.ID).Delete(&CoachGroupLine{}).Error; err != nil {
		return nil, err
	}

	keys := []string{img.StaffImgKey}
	img.StaffImgUrl, img.StaffImgKey = "", ""

	if err := tx.Delete(&Coach{}, coach.ID).Error; err != nil {
		return nil, err
	}
	return compactKeys(keys), nil
}

func cleanupProspectTx(tx *gorm.DB, userID uint, img *UserImages) ([]string, error) {
	res := tx.Where("user_id = ?", userID).Delete(&Prospect{})
	if res.Error != nil {
		return nil, res.Error
	}
	keys := []string{img.ProspectImgKey}
	img.ProspectImgUrl, img.ProspectImgKey = "", ""
	return compactKeys(keys), nil
}

func cleanupAlumniTx(tx *gorm.DB, userID uint, img *UserImages) ([]string, error) {
	res := tx.Where("user_id = ?", userID).Delete(&Alumni{})
	if res.Error != nil {
		return nil, res.Error
	}
	keys := []string{img.AlumniImgKey}
	img.AlumniImgUrl, img.AlumniImgKey = "", ""
	return compactKeys(keys), nil
}

/* ===================== MEDIA SLOTS ===================== */

// replaceSlot swaps one photo slot: delete the old object by its stored key,
// upload the replacement, write the new key and URL back. A failed upload is
// logged and leaves the slot untouched; a failed delete can leak an object,
// which the storage sweep reclaims.
func replaceSlot(ctx context.Context, c *gin.Context, store ObjectStore, field, folder string, url, key *string) {
	file, err := c.FormFile(field)
	if err != nil {
		return // no file submitted for this slot
	}

	obj, err := uploadMultipart(ctx, store, folder, file)
	if err != nil {
		log.Printf("upload %s: %v", field, err)
		return
	}

	if *key != "" {
		if err := store.Delete(ctx, *key); err != nil {
			log.Printf("delete stale %s: %v", *key, err)
		}
	}
	*url, *key = obj.URL, obj.Key
}

func uploadMultipart(ctx context.Context, store ObjectStore, folder string, file *multipart.FileHeader) (StoredObject, error) {
	src, err := file.Open()
	if err != nil {
		return StoredObject{}, err
	}
	defer src.Close()
	return store.Upload(ctx, folder, file.Filename, file.Header.Get("Content-Type"), src)
}

func deleteObjects(ctx context.Context, store ObjectStore, keys []string) {
	for _, key := range compactKeys(keys) {
		if err := store.Delete(ctx, key); err != nil {
			log.Printf("delete object %s: %v", key, err)
		}
	}
}

func compactKeys(keys []string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func imagesFor(db *gorm.DB, userID uint) (*UserImages, error) {
	var img UserImages
	err := db.Where("user_id = ?", userID).First(&img).Error
	if err == gorm.ErrRecordNotFound {
		img = UserImages{UserID: userID}
		if err := db.Create(&img).Error; err != nil {
			return nil, err
		}
		return &img, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

/* ===================== FORM COERCION ===================== */

// Form fields coerce loosely: absent strings keep the current value, numbers
// default to zero on parse failure.

func formString(c *gin.Context, field, current string) string {
	if v, present := c.GetPostForm(field); present {
		return v
	}
	return current
}

func formBool(c *gin.Context, field string, current bool) bool {
	if v, present := c.GetPostForm(field); present {
		return v == "true" || v == "1" || v == "on"
	}
	return current
}

func formInt(c *gin.Context, field string, current int) int {
	if v, present := c.GetPostForm(field); present {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	}
	return current
}

func formFloat(c *gin.Context, field string, current float64) float64 {
	if v, present := c.GetPostForm(field); present {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return current
}
