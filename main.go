package main

import (
	"context"
	"log"
	"os"

	"chemlab_inventory/app"
	"chemlab_inventory/config"
	"chemlab_inventory/db"
	"chemlab_inventory/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	app.BootstrapFirstAdmin(context.Background(), application.Config, db.NewRepo(application.DB))

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
