package internal

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Login(db *gorm.DB, secret string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			fail(c, 400, "bad json")
			return
		}

		var admin AdminUser
		if err := db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
			fail(c, 401, "invalid credentials")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.PassHash), []byte(req.Password)) != nil {
			fail(c, 401, "invalid credentials")
			return
		}

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			AdminID: admin.ID,
			Email:   admin.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Issuer:    "shenderey-web",
			},
		})
		s, _ := tok.SignedString([]byte(secret))

		c.SetCookie(cookieName, s, 86400, "/", "", cookieSecure, true)

		logAction(db, &admin.ID, "login", "success")
		ok(c, gin.H{"email": admin.Email})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		ok(c, nil)
	}
}

// EnsureAdmin seeds the first back-office login from ADMIN_EMAIL and
// ADMIN_PASSWORD when the admin table is empty. No-op otherwise.
func EnsureAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&AdminUser{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("no admin accounts and no ADMIN_EMAIL/ADMIN_PASSWORD set; back-office login unavailable")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	if err := db.Create(&AdminUser{Email: email, PassHash: string(hash)}).Error; err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	log.Printf("seeded admin account %s", email)
}

func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admin AdminUser
		if err := db.First(&admin, adminID(c)).Error; err != nil {
			fail(c, http.StatusNotFound, "no admin found")
			return
		}
		ok(c, admin)
	}
}
