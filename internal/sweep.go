package internal

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SweepStorage reconciles the bucket against the database: any stored object
// whose key no row references is deleted. This reclaims objects leaked when a
// compensating delete failed after a committed transaction.
func SweepStorage(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		keys, err := store.ListKeys(ctx)
		if err != nil {
			fail(c, 500, err)
			return
		}

		referenced, err := referencedKeys(db)
		if err != nil {
			fail(c, 500, err)
			return
		}

		removed := 0
		for _, key := range keys {
			if referenced[key] {
				continue
			}
			if err := store.Delete(ctx, key); err != nil {
				log.Printf("sweep: delete %s: %v", key, err)
				continue
			}
			removed++
		}

		actor := adminID(c)
		logAction(db, &actor, "storage_sweep", "removed="+strconv.Itoa(removed))
		ok(c, gin.H{"scanned": len(keys), "removed": removed})
	}
}

// referencedKeys collects every object key persisted anywhere in the schema.
func referencedKeys(db *gorm.DB) (map[string]bool, error) {
	referenced := map[string]bool{}

	add := func(keys []string, err error) error {
		if err != nil {
			return err
		}
		for _, k := range keys {
			if k != "" {
				referenced[k] = true
			}
		}
		return nil
	}

	var keys []string
	for _, column := range []struct {
		model any
		cols  []string
	}{
		{&UserImages{}, []string{"staff_img_key", "athlete_img_key", "prospect_img_key", "alumni_img_key"}},
		{&Media{}, []string{"media_key", "video_thumbnail_key"}},
		{&GalleryItem{}, []string{"media_key", "video_thumbnail_key"}},
		{&Program{}, []string{"program_img_key"}},
		{&Sponsor{}, []string{"logo_key"}},
		{&Product{}, []string{"image_key"}},
	} {
		for _, col := range column.cols {
			keys = keys[:0]
			err := db.Model(column.model).Pluck(col, &keys).Error
			if err := add(keys, err); err != nil {
				return nil, err
			}
		}
	}

	return referenced, nil
}
