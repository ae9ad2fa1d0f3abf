package main

import (
	"github.com/dvkotov/kidswap/config"
	"github.com/dvkotov/kidswap/models"
	"github.com/dvkotov/kidswap/routes"
	"github.com/dvkotov/kidswap/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Announcement{})

	if err := utils.EnsureUploadDir(cfg.UploadDir); err != nil {
		utils.Sugar.Fatalf("cannot prepare upload directory %s: %v", cfg.UploadDir, err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
