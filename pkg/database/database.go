package database

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	// 连接一小时后标记过期，避免 MySQL wait_timeout 掐掉存活连接
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")

	if migrate {
		if err := MigrateTables(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

func MigrateTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Submission{},
		&model.Attachment{},
	)
}
