package main

import (
	"context"
	"fmt"
	"time"

	"tourmarket/internal/config"
	"tourmarket/internal/database"
	"tourmarket/internal/domain"
	"tourmarket/internal/modules/review"
	"tourmarket/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}

	log.Info("running migrations...")
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	if err := seed(context.Background(), db, log); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.Info("seed completed")
}

func seed(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) error {
	// Cleanup old data (children first)
	log.Info("cleaning old data...")
	for _, table := range []string{
		"custom_tour_participants", "custom_tour_requests", "reviews", "bookings", "tours", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}

	users := repository.NewUserRepository(db)
	tours := repository.NewTourRepository(db)
	bookings := repository.NewBookingRepository(db)
	reviews := repository.NewReviewRepository(db)
	customTours := repository.NewCustomTourRepository(db)

	// ================== USERS ==================
	newUser := func(first, last, email, password string, role domain.UserRole) (*domain.User, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u := &domain.User{FirstName: first, LastName: last, Email: email, PasswordHash: string(hash), Role: role}
		if err := users.Create(ctx, u); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"email": email, "password": password, "role": role}).Info("user created")
		return u, nil
	}

	if _, err := newUser("Site", "Admin", "admin@tourmarket.local", "admin1234", domain.RoleAdmin); err != nil {
		return err
	}
	guide, err := newUser("Karim", "Hassan", "guide@tourmarket.local", "guide1234", domain.RoleGuide)
	if err != nil {
		return err
	}
	traveler, err := newUser("Lena", "Fischer", "traveler@tourmarket.local", "traveler1234", domain.RoleTraveler)
	if err != nil {
		return err
	}

	// ================== TOURS ==================
	start := time.Now().UTC().AddDate(0, 0, 14)
	dates := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		dates = append(dates, start.AddDate(0, 0, 7*i).Format(domain.DateLayout))
	}

	samples := []domain.Tour{
		{
			Title: "Valley of the Kings at Dawn", Price: 85, DurationHours: 6, MaxGroupSize: 12,
			Category: domain.CategoryHistorical, City: "Luxor", MeetingPoint: "Winter Palace Hotel",
			Description: "Tombs of the New Kingdom before the crowds arrive", AvailableDates: dates,
			Status: domain.TourApproved, IsPublished: true,
		},
		{
			Title: "White Desert Overnight", Price: 240, DurationHours: 36, MaxGroupSize: 8,
			Category: domain.CategoryAdventure, City: "Bahariya", MeetingPoint: "Bawiti main square",
			Description: "Camping among the chalk formations", AvailableDates: dates[:2],
			Status: domain.TourApproved, IsPublished: true,
		},
		{
			Title: "Old Cairo Walking Tour", Price: 30, DurationHours: 3, MaxGroupSize: 20,
			Category: domain.CategoryCityTour, City: "Cairo", MeetingPoint: "Mar Girgis metro station",
			Description: "Coptic Cairo and Ben Ezra synagogue", Status: domain.TourPending,
		},
	}
	created := make([]*domain.Tour, 0, len(samples))
	for i := range samples {
		t := samples[i]
		t.GuideID = guide.ID
		t.RatingsAverage = domain.DefaultRatingsAverage
		if err := tours.Create(ctx, &t); err != nil {
			return err
		}
		created = append(created, &t)
	}
	log.WithField("count", len(created)).Info("tours created")

	// ================== BOOKINGS & REVIEWS ==================
	past := created[0]
	b := &domain.Booking{
		UserID:         traveler.ID,
		BookingType:    domain.BookingTypeTour,
		TourID:         past.ID,
		TourDate:       time.Now().UTC().AddDate(0, 0, -10).Format(domain.DateLayout),
		NumberOfPeople: 2,
		TotalPrice:     past.Price * 2,
		Status:         domain.BookingCompleted,
	}
	if err := bookings.Create(ctx, b); err != nil {
		return err
	}
	upcoming := &domain.Booking{
		UserID:         traveler.ID,
		BookingType:    domain.BookingTypeTour,
		TourID:         past.ID,
		TourDate:       dates[0],
		NumberOfPeople: 3,
		TotalPrice:     past.Price * 3,
		Status:         domain.BookingPending,
	}
	if err := bookings.Create(ctx, upcoming); err != nil {
		return err
	}

	rv := &domain.Review{TourID: past.ID, UserID: traveler.ID, Rating: 5, Text: "Worth the early alarm"}
	if err := reviews.Create(ctx, rv); err != nil {
		return err
	}
	if _, _, err := review.NewAggregator(reviews, tours).Recompute(ctx, past.ID); err != nil {
		return err
	}

	// ================== COMMUNITY TOURS ==================
	ct := &domain.CustomTourRequest{
		Title:         "Sunrise on Mount Sinai",
		Description:   "Looking for hikers to share a guide and jeep",
		City:          "Saint Catherine",
		RequestedDate: dates[1],
		MaxGroupSize:  6,
		CreatorID:     traveler.ID,
		Participants:  []int64{traveler.ID},
		Status:        domain.CustomTourApproved,
	}
	if err := customTours.Create(ctx, ct); err != nil {
		return err
	}

	return nil
}
