package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"projecthub/config"
	"projecthub/db"
	"projecthub/logging"
	"projecthub/main/routes"
)

func main() {
	// Load .env; a real environment may provide the variables directly.
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	cfg := config.MustLoad()
	logging.Setup(cfg.Env)

	database, err := db.InitDB(cfg.DBFile)
	if err != nil {
		logrus.WithError(err).Fatal("Error opening database")
	}
	defer db.CloseDB(database)

	if err := db.EnsureSchema(database); err != nil {
		logrus.WithError(err).Fatal("Error ensuring database schema")
	}

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.PublicBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Uploaded avatars are served straight from the public directory.
	r.Static("/avatars", cfg.AvatarDir)

	routes.SetupAPIRoutes(r, database, cfg)

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
