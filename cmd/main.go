package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/favytech/fta-backend/config"
	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/routes"
	"github.com/favytech/fta-backend/services"
	"github.com/favytech/fta-backend/store"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	db := config.InitDB()
	kv := kvstore.NewGormStore(db)

	// Tạo dữ liệu mặc định cho lần chạy đầu
	if err := services.SeedDefaults(context.Background(), kv); err != nil {
		log.Fatal("seed dữ liệu mặc định lỗi: ", err)
	}

	creds := store.NewCredentialStore(kv)
	sessions := store.NewSessionStore(kv)
	content := store.NewContentStore(kv)
	auth := services.NewAuthService(creds, sessions)

	r := gin.Default()

	// Bật CORS cho client web
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        600,
	}))

	r = routes.SetupRouter(r, routes.Deps{
		Auth:       auth,
		Creds:      creds,
		Content:    content,
		DB:         db,
		AnonSecret: config.AnonKeySecret(),
	})

	// Lấy PORT từ env
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}
