package main

import (
	"fmt"
	"log"
	"net/http"

	handler "corporate-backend-refactor/api"
	"corporate-backend-refactor/pkg/config"
	"corporate-backend-refactor/pkg/database"
)

// 独立HTTP服务器入口；与Vercel函数共用同一个路由器
func main() {
	cfg := config.GetCached()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	db := database.GetDatabase(database.DatabaseConfig{
		UseLocalDB:  cfg.UseLocalDB,
		PostgresDSN: cfg.PostgresDSN,
		Debug:       cfg.Debug,
	})
	defer db.Close()

	router := handler.NewRouter(cfg, db)

	addr := ":" + cfg.Port
	fmt.Printf("✅ Server listening on %s (env: %s)\n", addr, cfg.Environment)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}
