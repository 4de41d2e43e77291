package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// runSeedData populates a development database with a customer, a therapist,
// services, a week of open time slots and a welcome coupon. Inserts are
// idempotent so the seed can run on every boot of a dev environment.
func runSeedData() {
	dbHost := seedEnv("DB_HOST", "localhost")
	dbPort := seedEnv("DB_PORT", "5432")
	dbUser := seedEnv("DB_USER", "postgres")
	dbPassword := seedEnv("DB_PASSWORD", "")
	dbName := seedEnv("DB_NAME", "massage_service_db")
	dbSSLMode := seedEnv("DB_SSL_MODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("✅ Seed: connected to database")

	seedUsers(db)
	seedServices(db)
	seedTherapist(db)
	seedTimeSlots(db)
	seedCoupon(db)

	log.Println("🎉 Seed data complete")
}

func seedUsers(db *sql.DB) {
	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash seed password:", err)
	}

	users := []struct {
		nickname string
		phone    string
		role     string
		points   int
	}{
		{"Test Customer", "13800138000", "customer", 5000},
		{"Li Na", "13800138001", "therapist", 0},
	}

	for _, u := range users {
		_, err := db.Exec(`
			INSERT INTO users (nickname, phone_number, password_hash, role, points, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
			ON CONFLICT (phone_number) DO NOTHING`,
			u.nickname, u.phone, string(password), u.role, u.points)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.nickname, err)
		}
	}
	log.Printf("✅ Seeded %d users", len(users))
}

func seedServices(db *sql.DB) {
	services := []struct {
		name      string
		duration  int
		basePrice float64
	}{
		{"Swedish Massage", 60, 298},
		{"Deep Tissue Massage", 90, 398},
		{"Foot Reflexology", 45, 198},
	}

	for _, s := range services {
		_, err := db.Exec(`
			INSERT INTO services (name, duration, base_price, is_active, created_at, updated_at)
			SELECT $1, $2, $3, true, NOW(), NOW()
			WHERE NOT EXISTS (SELECT 1 FROM services WHERE name = $1)`,
			s.name, s.duration, s.basePrice)
		if err != nil {
			log.Fatalf("Failed to seed service %s: %v", s.name, err)
		}
	}
	log.Printf("✅ Seeded %d services", len(services))
}

func seedTherapist(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO therapists (user_id, name, title, bio, years_of_exp, base_price, rating, is_active, created_at, updated_at)
		SELECT u.id, 'Li Na', 'Senior Therapist', 'Specializes in deep tissue and sports massage.', 8, 298, 4.9, true, NOW(), NOW()
		FROM users u
		WHERE u.phone_number = '13800138001'
		  AND NOT EXISTS (SELECT 1 FROM therapists t WHERE t.user_id = u.id)`)
	if err != nil {
		log.Fatal("Failed to seed therapist:", err)
	}

	// Offer every seeded service, with an override price on the first one
	_, err = db.Exec(`
		INSERT INTO therapist_services (therapist_id, service_id, price, is_active, created_at, updated_at)
		SELECT t.id, s.id,
		       CASE WHEN s.name = 'Swedish Massage' THEN 328 ELSE NULL END,
		       true, NOW(), NOW()
		FROM therapists t, services s
		WHERE NOT EXISTS (
			SELECT 1 FROM therapist_services ts
			WHERE ts.therapist_id = t.id AND ts.service_id = s.id
		)`)
	if err != nil {
		log.Fatal("Failed to seed therapist services:", err)
	}

	log.Println("✅ Seeded therapist profile")
}

func seedTimeSlots(db *sql.DB) {
	slots := []struct{ start, end string }{
		{"10:00", "11:00"},
		{"14:00", "15:00"},
		{"16:00", "17:00"},
		{"19:00", "20:00"},
	}

	count := 0
	for day := 0; day < 7; day++ {
		date := time.Now().AddDate(0, 0, day).Format("2006-01-02")
		for _, slot := range slots {
			res, err := db.Exec(`
				INSERT INTO therapist_time_slots (therapist_id, date, start_time, end_time, is_available, is_booked, created_at, updated_at)
				SELECT t.id, $1, $2, $3, true, false, NOW(), NOW()
				FROM therapists t
				WHERE NOT EXISTS (
					SELECT 1 FROM therapist_time_slots s
					WHERE s.therapist_id = t.id AND s.date = $1 AND s.start_time = $2
				)`, date, slot.start, slot.end)
			if err != nil {
				log.Fatal("Failed to seed time slots:", err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				count += int(n)
			}
		}
	}
	log.Printf("✅ Seeded %d time slots", count)
}

func seedCoupon(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO user_coupons (user_id, name, coupon_type, value, min_order_amount, max_discount, status, valid_start, valid_end, created_at, updated_at)
		SELECT u.id, 'Welcome Coupon', 'fixed', 50, 200, NULL, 'active', NOW(), NOW() + INTERVAL '30 days', NOW(), NOW()
		FROM users u
		WHERE u.phone_number = '13800138000'
		  AND NOT EXISTS (
			SELECT 1 FROM user_coupons c WHERE c.user_id = u.id AND c.name = 'Welcome Coupon'
		  )`)
	if err != nil {
		log.Fatal("Failed to seed coupon:", err)
	}
	log.Println("✅ Seeded welcome coupon")
}

func seedEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
