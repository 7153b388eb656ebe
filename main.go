package main

import (
	"log"

	"fanhub-backend/db"
	"fanhub-backend/routes"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// @title FanHub API
// @version 1.0
// @description Backend for the FanHub fanwork sharing platform
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	if err := utils.InitCloudinary(); err != nil {
		log.Printf("Warning: Cloudinary initialization failed: %v", err)
		log.Println("Artwork and comic uploads will not work correctly.")
	}

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
