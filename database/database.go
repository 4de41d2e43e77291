package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"massage-service-server/config"
	"massage-service-server/models"
)

var DB *gorm.DB

// Initialize sets up the database connection and runs migrations
func Initialize() error {
	connString := os.Getenv("DB_URL")
	if connString == "" {
		// Fall back to discrete config vars for local development
		db := config.AppConfig.Database
		connString = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return nil
}

// runMigrations creates or updates database tables
func runMigrations() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Service{},
		&models.Therapist{},
		&models.TherapistService{},
		&models.TherapistTimeSlot{},
		&models.Booking{},
		&models.Order{},
		&models.UserCoupon{},
		&models.Notification{},
		&models.PushToken{},
		&models.NotificationSettings{},
	); err != nil {
		return err
	}

	return migrateTimeSlotUniqueness()
}

// migrateTimeSlotUniqueness enforces one slot row per therapist/date/start.
// AutoMigrate builds the lookup index but not the uniqueness guarantee the
// slot claim relies on.
func migrateTimeSlotUniqueness() error {
	if !DB.Migrator().HasTable(&models.TherapistTimeSlot{}) {
		return nil
	}

	err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_therapist_slot
		ON therapist_time_slots (therapist_id, date, start_time)`).Error
	if err != nil {
		log.Printf("⚠️  Could not create unique slot index: %v", err)
		return err
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
