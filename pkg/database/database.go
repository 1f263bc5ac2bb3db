package database

import (
	"fmt"
	"log"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Surfaces driver duplicate-key errors as gorm.ErrDuplicatedKey so
		// services can map unique-index conflicts.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// Release deployments migrate only when explicitly asked to.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Course{},
			&model.CourseModule{},
			&model.ContentItem{},
			&model.QuizQuestion{},
			&model.CourseEnrollment{},
			&model.StudentResponse{},
		)
		if err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	// Bootstrap administrator account when the users table is empty.
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count == 0 && cfg.Admin.Email != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		admin := &model.User{
			Name:     "admin",
			Email:    cfg.Admin.Email,
			Password: string(hashed),
			Role:     model.Admin,
		}
		if err := db.Create(admin).Error; err != nil {
			return nil, err
		}
		log.Printf("Bootstrap admin account created: %s", cfg.Admin.Email)
	}

	return db, nil
}
