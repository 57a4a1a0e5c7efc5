package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CodyMacMLE/ShendereyWebApp-sub001/internal"
)

func main() {
	cfg := internal.LoadConfig()

	db := internal.MustDB(cfg.DatabaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := internal.NewS3Store(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	thumbs := internal.NewThumbnailer(cfg)

	internal.EnsureAdmin(db)

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	api := r.Group("/api")
	{
		// Public marketing site
		api.GET("/programs", internal.ListPrograms(db))
		api.GET("/programs/:programId", internal.GetProgram(db))
		api.GET("/groups/:programId", internal.ListGroups(db))
		api.GET("/gallery", internal.ListGallery(db))
		api.GET("/sponsors", internal.ListSponsors(db))
		api.GET("/products", internal.ListProducts(db))
		api.GET("/staff", internal.ListStaff(db))
		api.POST("/tryouts", internal.CreateTryout(db))

		// Admin session
		api.POST("/auth/login", internal.Login(db, cfg.JWTSecret, cfg.CookieSecure))
		api.POST("/auth/logout", internal.Logout())
		api.GET("/me", internal.Auth(cfg.JWTSecret), internal.Me(db))

		// Admin back-office
		admin := api.Group("", internal.Auth(cfg.JWTSecret))
		{
			admin.GET("/users", internal.ListUsers(db))
			admin.POST("/users", internal.CreateUser(db))
			admin.GET("/users/:userId", internal.GetUser(db))
			admin.PUT("/users/:userId", internal.UpdateUser(db, store))
			admin.PATCH("/users/:userId", internal.PatchUser(db))
			admin.DELETE("/users/:userId", internal.DeleteUser(db, store))

			admin.POST("/users/:userId/scores", internal.CreateScore(db))
			admin.DELETE("/users/:userId/scores/:scoreId", internal.DeleteScore(db))
			admin.POST("/users/:userId/achievements", internal.CreateAchievement(db))
			admin.DELETE("/users/:userId/achievements/:achievementId", internal.DeleteAchievement(db))
			admin.POST("/users/:userId/media", internal.CreateAthleteMedia(db, store, thumbs))
			admin.DELETE("/users/:userId/media/:mediaId", internal.DeleteAthleteMedia(db, store))

			admin.POST("/programs", internal.CreateProgram(db, store))
			admin.PUT("/programs/:programId", internal.UpdateProgram(db, store))
			admin.DELETE("/programs/:programId", internal.DeleteProgram(db, store))

			admin.POST("/groups/:programId", internal.CreateGroup(db))
			admin.PUT("/groups/:programId/:groupId", internal.UpdateGroup(db))
			admin.DELETE("/groups/:programId/:groupId", internal.DeleteGroup(db))

			admin.GET("/tryouts", internal.ListTryouts(db))
			admin.PUT("/tryouts/:tryoutId", internal.UpdateTryout(db))
			admin.DELETE("/tryouts/:tryoutId", internal.DeleteTryout(db))

			admin.POST("/gallery", internal.CreateGalleryItem(db, store, thumbs))
			admin.PUT("/gallery/:galleryId", internal.UpdateGalleryItem(db))
			admin.DELETE("/gallery/:galleryId", internal.DeleteGalleryItem(db, store))

			admin.POST("/sponsors", internal.CreateSponsor(db, store))
			admin.PUT("/sponsors/:sponsorId", internal.UpdateSponsor(db, store))
			admin.DELETE("/sponsors/:sponsorId", internal.DeleteSponsor(db, store))

			admin.POST("/products", internal.CreateProduct(db, store))
			admin.PUT("/products/:productId", internal.UpdateProduct(db, store))
			admin.DELETE("/products/:productId", internal.DeleteProduct(db, store))

			admin.POST("/admin/storage/sweep", internal.SweepStorage(db, store))
		}
	}

	log.Printf("Listening on :%s", cfg.Port)
	_ = r.Run(":" + cfg.Port)
}
