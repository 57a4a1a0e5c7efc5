package internal

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListGallery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []GalleryItem
		if err := db.Order("date DESC, id DESC").Find(&items).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, items)
	}
}

// CreateGalleryItem accepts a multipart form with name/description/date and a
// mediaFile. Videos get probed and thumbnailed before anything is persisted;
// the row is inserted only after every upload succeeded.
func CreateGalleryItem(db *gorm.DB, store ObjectStore, thumbs *Thumbnailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("mediaFile")
		if err != nil {
			fail(c, 400, "mediaFile is required")
			return
		}

		ctx := c.Request.Context()
		media, thumb, mediaType, err := processMediaUpload(ctx, store, thumbs, "gallery", file)
		if err != nil {
			fail(c, 500, err)
			return
		}

		item := GalleryItem{
			Name:              c.PostForm("name"),
			Description:       c.PostForm("description"),
			Date:              c.PostForm("date"),
			Type:              mediaType,
			MediaUrl:          media.URL,
			MediaKey:          media.Key,
			VideoThumbnail:    thumb.URL,
			VideoThumbnailKey: thumb.Key,
		}
		if err := db.Create(&item).Error; err != nil {
			fail(c, 500, err)
			return
		}
		actor := adminID(c)
		logAction(db, &actor, "create_gallery_item", "gallery_id="+strconv.Itoa(int(item.ID)))
		ok(c, item)
	}
}

// UpdateGalleryItem edits metadata only; the media itself is immutable
// (delete and re-create to replace it).
func UpdateGalleryItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("galleryId"))
		if err != nil {
			fail(c, 400, "invalid gallery id")
			return
		}
		var item GalleryItem
		if err := db.First(&item, id).Error; err != nil {
			fail(c, 404, "No gallery item found")
			return
		}
		item.Name = formString(c, "name", item.Name)
		item.Description = formString(c, "description", item.Description)
		item.Date = formString(c, "date", item.Date)
		if err := db.Save(&item).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, item)
	}
}

func DeleteGalleryItem(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("galleryId"))
		if err != nil {
			fail(c, 400, "invalid gallery id")
			return
		}
		var item GalleryItem
		if err := db.First(&item, id).Error; err != nil {
			fail(c, 404, "No gallery item found")
			return
		}
		if err := db.Delete(&item).Error; err != nil {
			fail(c, 500, err)
			return
		}
		deleteObjects(c.Request.Context(), store, []string{item.MediaKey, item.VideoThumbnailKey})
		actor := adminID(c)
		logAction(db, &actor, "delete_gallery_item", "gallery_id="+strconv.Itoa(id))
		ok(c, nil)
	}
}

/* ===================== UPLOAD PIPELINE ===================== */

// processMediaUpload uploads the file under folder/. For videos it first
// spools the upload to disk, probes the dimensions and captures an
// orientation-sized JPEG frame, uploading that under folder/thumbnails/. Any
// probe or capture error aborts before anything is written to the database.
func processMediaUpload(ctx context.Context, store ObjectStore, thumbs *Thumbnailer, folder string, file *multipart.FileHeader) (media, thumb StoredObject, mediaType string, err error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		media, err = uploadMultipart(ctx, store, folder, file)
		return media, StoredObject{}, "image", err
	}

	tmpPath, err := spoolToTemp(file)
	if err != nil {
		return StoredObject{}, StoredObject{}, "", err
	}
	defer os.Remove(tmpPath)

	thumbPath, err := thumbs.CaptureThumbnail(ctx, tmpPath)
	if err != nil {
		return StoredObject{}, StoredObject{}, "", err
	}
	defer os.Remove(thumbPath)

	src, err := os.Open(tmpPath)
	if err != nil {
		return StoredObject{}, StoredObject{}, "", err
	}
	defer src.Close()
	media, err = store.Upload(ctx, folder, file.Filename, contentType, src)
	if err != nil {
		return StoredObject{}, StoredObject{}, "", err
	}

	tf, err := os.Open(thumbPath)
	if err != nil {
		return StoredObject{}, StoredObject{}, "", err
	}
	defer tf.Close()
	thumb, err = store.Upload(ctx, folder+"/thumbnails", file.Filename+".jpg", "image/jpeg", tf)
	if err != nil {
		// The original is already up; leave it for the sweep to reclaim.
		log.Printf("thumbnail upload for %s failed: %v", media.Key, err)
		return StoredObject{}, StoredObject{}, "", err
	}

	return media, thumb, "video", nil
}

func spoolToTemp(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*"+sanitizeFilename(file.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
