package internal

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListSponsors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sponsors []Sponsor
		if err := db.Order("tier ASC, name ASC").Find(&sponsors).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, sponsors)
	}
}

func CreateSponsor(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sponsor := Sponsor{
			Name:       c.PostForm("name"),
			Tier:       c.PostForm("tier"),
			Website:    c.PostForm("website"),
			Highlights: c.PostForm("highlights"),
		}
		if sponsor.Name == "" {
			fail(c, 400, "name is required")
			return
		}
		if file, err := c.FormFile("logoFile"); err == nil {
			obj, err := uploadMultipart(c.Request.Context(), store, "sponsor", file)
			if err != nil {
				fail(c, 500, err)
				return
			}
			sponsor.LogoUrl, sponsor.LogoKey = obj.URL, obj.Key
		}
		if err := db.Create(&sponsor).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, sponsor)
	}
}

func UpdateSponsor(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("sponsorId"))
		if err != nil {
			fail(c, 400, "invalid sponsor id")
			return
		}
		var sponsor Sponsor
		if err := db.First(&sponsor, id).Error; err != nil {
			fail(c, 404, "No sponsor found")
			return
		}

		sponsor.Name = formString(c, "name", sponsor.Name)
		sponsor.Tier = formString(c, "tier", sponsor.Tier)
		sponsor.Website = formString(c, "website", sponsor.Website)
		sponsor.Highlights = formString(c, "highlights", sponsor.Highlights)
		replaceSlot(c.Request.Context(), c, store, "logoFile", "sponsor", &sponsor.LogoUrl, &sponsor.LogoKey)

		if err := db.Save(&sponsor).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, sponsor)
	}
}

func DeleteSponsor(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("sponsorId"))
		if err != nil {
			fail(c, 400, "invalid sponsor id")
			return
		}
		var sponsor Sponsor
		if err := db.First(&sponsor, id).Error; err != nil {
			fail(c, 404, "No sponsor found")
			return
		}
		if err := db.Delete(&sponsor).Error; err != nil {
			fail(c, 500, err)
			return
		}
		deleteObjects(c.Request.Context(), store, []string{sponsor.LogoKey})
		ok(c, nil)
	}
}

/* ===================== PRODUCTS ===================== */

func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []Product
		q := db.Order("name ASC")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if err := q.Find(&products).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, products)
	}
}

func CreateProduct(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		product := Product{
			Name:        c.PostForm("name"),
			Category:    c.PostForm("category"),
			Description: c.PostForm("description"),
			Price:       formFloat(c, "price", 0),
		}
		if product.Name == "" {
			fail(c, 400, "name is required")
			return
		}
		if file, err := c.FormFile("imageFile"); err == nil {
			obj, err := uploadMultipart(c.Request.Context(), store, "product", file)
			if err != nil {
				fail(c, 500, err)
				return
			}
			product.ImageUrl, product.ImageKey = obj.URL, obj.Key
		}
		if err := db.Create(&product).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, product)
	}
}

func UpdateProduct(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("productId"))
		if err != nil {
			fail(c, 400, "invalid product id")
			return
		}
		var product Product
		if err := db.First(&product, id).Error; err != nil {
			fail(c, 404, "No product found")
			return
		}

		product.Name = formString(c, "name", product.Name)
		product.Category = formString(c, "category", product.Category)
		product.Description = formString(c, "description", product.Description)
		product.Price = formFloat(c, "price", product.Price)
		replaceSlot(c.Request.Context(), c, store, "imageFile", "product", &product.ImageUrl, &product.ImageKey)

		if err := db.Save(&product).Error; err != nil {
			fail(c, 500, err)
			return
		}
		ok(c, product)
	}
}

func DeleteProduct(db *gorm.DB, store ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("productId"))
		if err != nil {
			fail(c, 400, "invalid product id")
			return
		}
		var product Product
		if err := db.First(&product, id).Error; err != nil {
			fail(c, 404, "No product found")
			return
		}
		if err := db.Delete(&product).Error; err != nil {
			fail(c, 500, err)
			return
		}
		deleteObjects(c.Request.Context(), store, []string{product.ImageKey})
		ok(c, nil)
	}
}
