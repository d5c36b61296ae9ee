package FiberConfig

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"CarJournal/Controllers"
	"CarJournal/Journal"
	"CarJournal/middleware"
)

// SetupRoutes wires the journal API onto the app.
func SetupRoutes(app *fiber.App, service *Journal.RecordService) {
	recordController := Controllers.NewRecordController(service)

	api := app.Group("/api")

	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/Logout", Controllers.Logout)
	app.Get("/api/User", middleware.Verify(1), Controllers.CurrentUser)
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)

	// Record routes
	records := api.Group("/records", middleware.Verify(1))

	// Analytics and export routes - place these BEFORE the ID route to avoid conflicts
	records.Get("/analytics/cost-per-km", recordController.GetCostPerKm)
	records.Get("/analytics/fuel-anomalies", recordController.GetFuelAnomalies)
	records.Get("/analytics/next-maintenance", recordController.GetNextMaintenance)
	records.Post("/analytics/update-statuses", middleware.Verify(2), recordController.RunStatusSweep)
	records.Get("/export", recordController.ExportRecords)

	// ID-based routes
	records.Get("/", recordController.GetRecords)
	records.Get("/:id", recordController.GetRecord)
	records.Post("/", middleware.Verify(2), recordController.CreateRecord)
	records.Put("/:id", middleware.Verify(2), recordController.UpdateRecord)
	records.Delete("/:id", middleware.Verify(2), recordController.DeleteRecord)
}

// FiberConfig builds the app, wires middleware and routes, and listens.
func FiberConfig(service *Journal.RecordService) {
	log.Println("Server Up...")
	app := fiber.New()

	app.Use(middleware.Logger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, service)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
