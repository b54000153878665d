package routes

import (
	"os"
	"time"

	"promo-backoffice/catalog"
	"promo-backoffice/embedded"
	"promo-backoffice/handlers"
	"promo-backoffice/ingest"
	"promo-backoffice/middleware"
	"promo-backoffice/partners"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, embeddedClient embedded.Client) {
	cat := catalog.New(db)
	ingestor := ingest.New(db, cat)
	sync := partners.NewService(db, embeddedClient)
	confirmationPassword := os.Getenv("DELETE_CONFIRMATION_PASSWORD")

	campaignHandler := &handlers.CampaignHandler{DB: db}
	circularHandler := &handlers.CircularHandler{DB: db}
	campaignProductHandler := &handlers.CampaignProductHandler{
		DB:                   db,
		Catalog:              cat,
		Ingestor:             ingestor,
		ConfirmationPassword: confirmationPassword,
	}
	circularProductHandler := &handlers.CircularProductHandler{
		DB:       db,
		Catalog:  cat,
		Ingestor: ingestor,
	}
	partnerHandler := &handlers.PartnerHandler{
		DB:                   db,
		Sync:                 sync,
		ConfirmationPassword: confirmationPassword,
	}
	catalogHandler := &handlers.CatalogHandler{Catalog: cat}

	// Uploads rewrite a promo's full line-item set; keep them throttled.
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		// Campaigns
		api.GET("/campaigns", campaignHandler.GetCampaigns)
		api.GET("/campaigns/:id", campaignHandler.GetCampaign)
		api.POST("/campaigns", campaignHandler.CreateCampaign)
		api.PUT("/campaigns/:id", campaignHandler.UpdateCampaign)
		api.DELETE("/campaigns/:id", campaignHandler.DeleteCampaign)

		// Campaign products
		api.GET("/campaigns/:id/products", campaignProductHandler.GetProducts)
		api.POST("/campaigns/:id/products", campaignProductHandler.AddProduct)
		api.PUT("/campaigns/:id/products", campaignProductHandler.UpdateProducts)
		api.POST("/campaigns/:id/products/delete", campaignProductHandler.DeleteProducts)
		api.POST("/campaigns/:id/products/upload", uploadLimiter.Middleware(), campaignProductHandler.UploadProducts)
		api.GET("/campaigns/:id/products/export", campaignProductHandler.ExportProducts)

		// Circulars
		api.GET("/circulars", circularHandler.GetCirculars)
		api.GET("/circulars/:id", circularHandler.GetCircular)
		api.POST("/circulars", circularHandler.CreateCircular)
		api.PUT("/circulars/:id", circularHandler.UpdateCircular)
		api.POST("/circulars/:id/deactivate", circularHandler.DeactivateCircular)
		api.DELETE("/circulars/:id", circularHandler.DeleteCircular)

		// Circular products
		api.GET("/circulars/:id/products", circularProductHandler.GetProducts)
		api.POST("/circulars/:id/products", circularProductHandler.AddProduct)
		api.PUT("/circulars/:id/products", circularProductHandler.UpdateProducts)
		api.POST("/circulars/:id/products/delete", circularProductHandler.DeleteProducts)
		api.POST("/circulars/:id/products/upload", uploadLimiter.Middleware(), circularProductHandler.UploadProducts)
		api.GET("/circulars/:id/products/export", circularProductHandler.ExportProducts)

		// Partners
		api.GET("/partners", partnerHandler.GetPartners)
		api.GET("/partners/:id", partnerHandler.GetPartner)
		api.POST("/partners", partnerHandler.CreatePartner)
		api.PUT("/partners/:id", partnerHandler.UpdatePartner)
		api.POST("/partners/:id/delete", partnerHandler.DeletePartner)
		api.POST("/partners/:id/password", partnerHandler.SetPassword)

		// Catalog
		api.POST("/catalog/validate-barcodes", catalogHandler.ValidateBarcodes)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
