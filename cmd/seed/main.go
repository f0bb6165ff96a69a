package main

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"jobmarket/internal/config"
	"jobmarket/internal/database"
	"jobmarket/internal/domain/chat"
	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
	"jobmarket/internal/domain/notification"
	jwtsvc "jobmarket/internal/pkg/jwt"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	// AutoMigrate to ensure schema is up to date
	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&contractor.Profile{},
		&job.Posting{},
		&chat.Room{},
		&chat.Message{},
		&notification.Preference{},
		&notification.DeviceToken{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM chat_messages")
	db.Exec("DELETE FROM chat_rooms")
	db.Exec("DELETE FROM user_device_tokens")
	db.Exec("DELETE FROM user_notification_preferences")
	db.Exec("DELETE FROM job_postings")
	db.Exec("DELETE FROM contractor_profiles")

	// ================== CONTRACTORS ==================
	log.Println("Creating contractor profiles...")

	weekdaySchedule := contractor.WorkingHours{
		"monday":    {Enabled: true, Start: "08:00", End: "18:00"},
		"tuesday":   {Enabled: true, Start: "08:00", End: "18:00"},
		"wednesday": {Enabled: true, Start: "08:00", End: "18:00"},
		"thursday":  {Enabled: true, Start: "08:00", End: "18:00"},
		"friday":    {Enabled: true, Start: "08:00", End: "18:00"},
		"saturday":  {Enabled: true, Start: "09:00", End: "14:00"},
		"sunday":    {Enabled: false},
	}

	contractors := []contractor.Profile{
		{
			ID:                 uuid.NewString(),
			UserID:             "demo-contractor-1",
			FullName:           "Maria Quispe",
			Bio:                "Pintora profesional con acabados de primera.",
			Specialties:        []string{"painting", "drywall"},
			ServiceAreas:       []string{"Lima", "Callao"},
			WorkingHours:       datatypes.NewJSONType(weekdaySchedule),
			AvailabilityStatus: contractor.StatusAvailable,
			AverageRating:      4.8,
			YearsExperience:    7,
		},
		{
			ID:                 uuid.NewString(),
			UserID:             "demo-contractor-2",
			FullName:           "Jorge Huaman",
			Bio:                "Electricista certificado, instalaciones y reparaciones.",
			Specialties:        []string{"electrical"},
			ServiceAreas:       []string{"Lima"},
			WorkingHours:       datatypes.NewJSONType(weekdaySchedule),
			AvailabilityStatus: contractor.StatusBusy,
			BusyUntil:          sql.NullTime{Time: time.Now().Add(48 * time.Hour), Valid: true},
			AverageRating:      4.6,
			YearsExperience:    12,
		},
		{
			ID:       uuid.NewString(),
			UserID:   "demo-contractor-3",
			FullName: "Rosa Mamani",
			Bio:      "Gasfiteria y mantenimiento general.",
			// legacy profile shape: no specialties/service_areas arrays yet
			RegionText:         "Callao",
			SpecialtyTags:      []string{"plumbing"},
			AvailabilityStatus: contractor.StatusAvailable,
			YearsExperience:    4,
		},
		{
			ID:                 uuid.NewString(),
			UserID:             "demo-contractor-4",
			FullName:           "Luis Condori",
			Bio:                "Carpintero, muebles a medida.",
			Specialties:        []string{"carpentry", "painting"},
			ServiceAreas:       []string{"Arequipa"},
			AvailabilityStatus: contractor.StatusOffline,
			AverageRating:      4.2,
			YearsExperience:    9,
		},
	}
	for i := range contractors {
		if err := db.Create(&contractors[i]).Error; err != nil {
			log.Fatal("create contractor failed:", err)
		}
	}

	// ================== JOBS ==================
	log.Println("Creating job postings...")

	jobs := []job.Posting{
		{
			ID:                uuid.NewString(),
			Title:             "Pintar sala y comedor",
			Description:       "Departamento de 80 m2, dos ambientes.",
			LocationText:      "Lima",
			CompensationRange: "S/ 800 - S/ 1200",
			CategoryID:        "cat-painting",
			CategoryName:      "Painting",
			RequiredSkills:    []string{"painting"},
			PaymentStatus:     job.PaymentPaid,
			Status:            job.StatusOpen,
			PostedByUserID:    "demo-client-1",
		},
		{
			ID:                uuid.NewString(),
			Title:             "Revisar tablero electrico",
			Description:       "Saltan los breakers en la cocina.",
			LocationText:      "Callao",
			CompensationRange: "S/ 200 - S/ 350",
			CategoryID:        "cat-electrical",
			CategoryName:      "Electrical",
			RequiredSkills:    []string{"electrical"},
			PaymentStatus:     job.PaymentPaid,
			Status:            job.StatusOpen,
			PostedByUserID:    "demo-client-2",
		},
		{
			ID:                uuid.NewString(),
			Title:             "Mueble de cocina a medida",
			LocationText:      "Lima",
			CompensationRange: "S/ 1500 - S/ 2500",
			CategoryID:        "cat-carpentry",
			CategoryName:      "Carpentry",
			RequiredSkills:    []string{"carpentry"},
			PaymentStatus:     job.PaymentUnpaid,
			Status:            job.StatusOpen,
			PostedByUserID:    "demo-client-1",
		},
	}
	for i := range jobs {
		if err := db.Create(&jobs[i]).Error; err != nil {
			log.Fatal("create job failed:", err)
		}
	}

	// One already-assigned job so the chat reconcile sweep has work to do.
	assigned := job.Posting{
		ID:                   uuid.NewString(),
		Title:                "Gasfiteria bano principal",
		LocationText:         "Callao",
		CompensationRange:    "S/ 300 - S/ 500",
		CategoryID:           "cat-plumbing",
		CategoryName:         "Plumbing",
		RequiredSkills:       []string{"plumbing"},
		PaymentStatus:        job.PaymentPaid,
		Status:               job.StatusAssigned,
		PostedByUserID:       "demo-client-2",
		SelectedContractorID: sql.NullString{String: "demo-contractor-3", Valid: true},
	}
	if err := db.Create(&assigned).Error; err != nil {
		log.Fatal("create assigned job failed:", err)
	}

	// ================== NOTIFICATION SETUP ==================
	log.Println("Creating device tokens and preferences...")

	for i, c := range contractors {
		db.Create(&notification.DeviceToken{
			ID:       uuid.NewString(),
			UserID:   c.UserID,
			Token:    fmt.Sprintf("demo-fcm-token-%d", i+1),
			Platform: []string{"android", "ios"}[i%2],
		})
		db.Create(&notification.Preference{
			UserID:                    c.UserID,
			EnableNewJobNotifications: true,
			EnableChatNotifications:   true,
		})
	}

	// One contractor sleeps 22:00-07:00; useful for quiet-hours demos.
	db.Model(&notification.Preference{}).
		Where("user_id = ?", "demo-contractor-1").
		Updates(map[string]any{
			"quiet_hours_start": "22:00:00",
			"quiet_hours_end":   "07:00:00",
		})

	// ================== DEMO TOKENS ==================
	j := jwtsvc.New(cfg.JWTSecret, 30*24*time.Hour)
	log.Println("Seed completed!")
	log.Println("Demo JWTs (30 days):")
	for _, id := range []string{"demo-contractor-1", "demo-client-1"} {
		token, err := j.GenerateToken(id, "user")
		if err != nil {
			log.Fatal("token generation failed:", err)
		}
		fmt.Fprintf(os.Stdout, "  %s: %s\n", id, token)
	}
}
