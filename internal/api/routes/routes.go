// server/internal/api/routes/routes.go
package routes

import (
	"farmlink-api-server/config"
	"farmlink-api-server/internal/api/handlers"
	"farmlink-api-server/internal/api/middleware"
	"farmlink-api-server/internal/ledger"
	"farmlink-api-server/internal/policy"
	"farmlink-api-server/internal/s3"
	"farmlink-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires every handler into the HTTP surface. Role middleware is
// only the coarse gate; per-resource decisions happen in the policy engine.
func SetupRouter(cfg config.Config, db *mongo.Database, ldg *ledger.Ledger, engine *policy.Engine, uploader *s3.Uploader, hub *socket.Hub) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	userHandler := &handlers.UserHandler{DB: db}
	farmHandler := &handlers.FarmHandler{DB: db, Engine: engine}
	associationHandler := &handlers.AssociationHandler{DB: db, Ledger: ldg, Engine: engine, Hub: hub}
	cropHandler := &handlers.CropHandler{DB: db, Engine: engine}
	livestockHandler := &handlers.LivestockHandler{DB: db, Engine: engine, Uploader: uploader}
	healthRecordHandler := &handlers.HealthRecordHandler{DB: db, Engine: engine}
	pregnancyHandler := &handlers.PregnancyHandler{DB: db, Engine: engine}
	saleHandler := &handlers.SaleHandler{DB: db, Engine: engine}
	inventoryHandler := &handlers.InventoryHandler{DB: db, Engine: engine}
	vetContactHandler := &handlers.VetContactHandler{DB: db, Engine: engine}
	notebookHandler := &handlers.NotebookHandler{DB: db, Engine: engine}
	marketplaceHandler := &handlers.MarketplaceHandler{DB: db, Engine: engine, Uploader: uploader}
	wsHandler := &handlers.WebSocketHandler{Hub: hub}

	router.GET("/ws", wsHandler.ServeWs)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", userHandler.Signup)
			authGroup.POST("/login", userHandler.Login)
			authGroup.GET("/me", middleware.Authenticate(), userHandler.Me)
		}

		// Public storefront. No token required to browse.
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("", marketplaceHandler.BrowseListings)
			marketplace.GET("/:id", marketplaceHandler.GetListing)
		}

		authed := v1.Group("")
		authed.Use(middleware.Authenticate())
		{
			farmerOnly := middleware.Authorize(string(policy.RoleFarmer))
			farmerOrVet := middleware.Authorize(string(policy.RoleFarmer), string(policy.RoleVet))
			vetOnly := middleware.Authorize(string(policy.RoleVet))
			agrovetsOnly := middleware.Authorize(string(policy.RoleAgrovets))

			farms := authed.Group("/farms")
			{
				farms.POST("", farmerOnly, farmHandler.CreateFarm)
				farms.GET("", farmerOrVet, farmHandler.GetMyFarms)
				farms.GET("/:id", farmerOrVet, farmHandler.GetFarm)
				farms.PUT("/:id", farmerOnly, farmHandler.UpdateFarm)
				farms.DELETE("/:id", farmerOnly, farmHandler.DeleteFarm)

				farms.POST("/:id/associations", farmerOnly, associationHandler.InviteVet)
				farms.GET("/:id/associations", farmerOrVet, associationHandler.ListFarmAssociations)

				farms.POST("/:id/crops", farmerOnly, cropHandler.CreateCrop)
				farms.POST("/:id/livestock", farmerOnly, livestockHandler.CreateLivestock)
				farms.POST("/:id/sales", farmerOnly, saleHandler.CreateSale)
				farms.POST("/:id/inventory", farmerOnly, inventoryHandler.CreateItem)
				farms.POST("/:id/vet-contacts", farmerOnly, vetContactHandler.CreateVetContact)
			}

			associations := authed.Group("/associations")
			{
				associations.GET("/me", vetOnly, associationHandler.ListMyInvites)
				associations.PATCH("/:id/respond", vetOnly, associationHandler.Respond)
				associations.PATCH("/:id/visit", vetOnly, associationHandler.RecordVisit)
				associations.DELETE("/:id", farmerOnly, associationHandler.Revoke)
			}

			crops := authed.Group("/crops", farmerOrVet)
			{
				crops.GET("", cropHandler.ListCrops)
				crops.GET("/:id", cropHandler.GetCrop)
				crops.PUT("/:id", cropHandler.UpdateCrop)
				crops.DELETE("/:id", farmerOnly, cropHandler.DeleteCrop)
			}

			livestock := authed.Group("/livestock", farmerOrVet)
			{
				livestock.GET("", livestockHandler.ListLivestock)
				livestock.GET("/:id", livestockHandler.GetLivestock)
				livestock.PUT("/:id", livestockHandler.UpdateLivestock)
				livestock.DELETE("/:id", farmerOnly, livestockHandler.DeleteLivestock)
				livestock.POST("/:id/photo", livestockHandler.UploadPhoto)

				livestock.POST("/:id/calves", farmerOnly, livestockHandler.CreateCalf)
				livestock.GET("/:id/calves", livestockHandler.ListCalves)

				livestock.POST("/:id/health-records", healthRecordHandler.CreateHealthRecord)
				livestock.GET("/:id/health-records", healthRecordHandler.ListHealthRecords)

				livestock.POST("/:id/pregnancies", pregnancyHandler.CreatePregnancy)
				livestock.GET("/:id/pregnancies", pregnancyHandler.ListPregnancies)
			}

			healthRecords := authed.Group("/health-records", farmerOrVet)
			{
				healthRecords.GET("/:id", healthRecordHandler.GetHealthRecord)
				healthRecords.PUT("/:id", healthRecordHandler.UpdateHealthRecord)
				healthRecords.DELETE("/:id", healthRecordHandler.DeleteHealthRecord)
			}

			pregnancies := authed.Group("/pregnancies", farmerOrVet)
			{
				pregnancies.PUT("/:id", pregnancyHandler.UpdatePregnancy)
				pregnancies.DELETE("/:id", pregnancyHandler.DeletePregnancy)
			}

			sales := authed.Group("/sales", farmerOrVet)
			{
				sales.GET("", saleHandler.ListSales)
				sales.GET("/:id", saleHandler.GetSale)
				sales.PUT("/:id", farmerOnly, saleHandler.UpdateSale)
				sales.DELETE("/:id", farmerOnly, saleHandler.DeleteSale)
			}

			inventory := authed.Group("/inventory", farmerOrVet)
			{
				inventory.GET("", inventoryHandler.ListItems)
				inventory.GET("/:id", inventoryHandler.GetItem)
				inventory.PUT("/:id", farmerOnly, inventoryHandler.UpdateItem)
				inventory.POST("/:id/consumption", farmerOnly, inventoryHandler.LogConsumption)
				inventory.DELETE("/:id", farmerOnly, inventoryHandler.DeleteItem)
			}

			vetContacts := authed.Group("/vet-contacts", farmerOrVet)
			{
				vetContacts.GET("", vetContactHandler.ListVetContacts)
				vetContacts.PUT("/:id", farmerOnly, vetContactHandler.UpdateVetContact)
				vetContacts.DELETE("/:id", farmerOnly, vetContactHandler.DeleteVetContact)
			}

			// Every role keeps a notebook; farm scoping is enforced per entry.
			notebook := authed.Group("/notebook")
			{
				notebook.POST("", notebookHandler.CreateEntry)
				notebook.GET("", notebookHandler.ListEntries)
				notebook.GET("/:id", notebookHandler.GetEntry)
				notebook.PUT("/:id", notebookHandler.UpdateEntry)
				notebook.DELETE("/:id", notebookHandler.DeleteEntry)
			}

			listings := authed.Group("/listings", agrovetsOnly)
			{
				listings.POST("", marketplaceHandler.CreateListing)
				listings.GET("", marketplaceHandler.ListMyListings)
				listings.PUT("/:id", marketplaceHandler.UpdateListing)
				listings.DELETE("/:id", marketplaceHandler.DeleteListing)
				listings.POST("/:id/photo", marketplaceHandler.UploadListingPhoto)
			}
		}
	}

	return router
}
