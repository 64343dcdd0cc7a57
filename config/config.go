package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/favytech/fta-backend/kvstore"
)

// InitDB mở kết nối theo DB_DRIVER (postgres mặc định, sqlite cho local)
// và migrate bảng kv_store.
func InitDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	switch os.Getenv("DB_DRIVER") {
	case "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "fta.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	default:
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		dbUser := os.Getenv("DB_USER")
		dbPass := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			dbHost, dbUser, dbPass, dbName, dbPort,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}
	if err != nil {
		log.Fatal("Không thể kết nối database:", err)
	}

	// Connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Không thể lấy sql.DB từ gorm:", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(&kvstore.KVEntry{}); err != nil {
		log.Fatal("autoMigrate lỗi: ", err)
	}
	log.Println("Database connected & migrated successfully!")

	return db
}

// AnonKeySecret đọc secret ký anon key; bắt buộc phải set.
func AnonKeySecret() string {
	secret := os.Getenv("ANON_KEY_SECRET")
	if secret == "" {
		log.Fatal("ANON_KEY_SECRET chưa được set")
	}
	return secret
}
