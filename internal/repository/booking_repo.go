package repository

import (
	"context"
	"time"

	"tourmarket/internal/domain"

	"gorm.io/gorm"
)

const (
	bookingNotFound  = "Booking not found"
	bookingDuplicate = "You have already booked this tour for the selected date"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:idx_bookings_user_tour_date,priority:1"`
	BookingType    string    `gorm:"column:booking_type;size:16;not null"`
	TourID         int64     `gorm:"column:tour_id;not null;uniqueIndex:idx_bookings_user_tour_date,priority:2;index:idx_bookings_tour_date,priority:1"`
	TourDate       string    `gorm:"column:tour_date;size:10;not null;uniqueIndex:idx_bookings_user_tour_date,priority:3;index:idx_bookings_tour_date,priority:2"`
	NumberOfPeople int       `gorm:"column:number_of_people;not null"`
	TotalPrice     float64   `gorm:"column:total_price;not null"`
	Status         string    `gorm:"column:status;size:16;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:             m.ID,
		UserID:         m.UserID,
		BookingType:    domain.BookingType(m.BookingType),
		TourID:         m.TourID,
		TourDate:       m.TourDate,
		NumberOfPeople: m.NumberOfPeople,
		TotalPrice:     m.TotalPrice,
		Status:         domain.BookingStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:             b.ID,
		UserID:         b.UserID,
		BookingType:    string(b.BookingType),
		TourID:         b.TourID,
		TourDate:       b.TourDate,
		NumberOfPeople: b.NumberOfPeople,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return mapError("repo.bookings.create", err, "", bookingDuplicate)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, mapError("repo.bookings.get", err, bookingNotFound, "")
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := forUpdate(conn(ctx, r.db)).First(&m, id).Error; err != nil {
		return nil, mapError("repo.bookings.get_for_update", err, bookingNotFound, "")
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	res := conn(ctx, r.db).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if res.Error != nil {
		return mapError("repo.bookings.update_status", res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(bookingNotFound)
	}
	return nil
}

// SumPeople totals numberOfPeople for (tour, date). With no statuses given every booking counts.
func (r *BookingRepository) SumPeople(ctx context.Context, tourID int64, date string, statuses ...domain.BookingStatus) (int, error) {
	q := conn(ctx, r.db).
		Model(&bookingModel{}).
		Where("tour_id = ? AND tour_date = ?", tourID, date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(statuses))
	}

	var total int64
	if err := q.Select("COALESCE(SUM(number_of_people), 0)").Scan(&total).Error; err != nil {
		return 0, mapError("repo.bookings.sum_people", err, "", "")
	}
	return int(total), nil
}

// ExistsForUserTourDate looks at bookings in any status, cancelled included.
func (r *BookingRepository) ExistsForUserTourDate(ctx context.Context, userID, tourID int64, date string) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&bookingModel{}).
		Where("user_id = ? AND tour_id = ? AND tour_date = ?", userID, tourID, date).
		Count(&cnt).Error
	if err != nil {
		return false, mapError("repo.bookings.exists", err, "", "")
	}
	return cnt > 0, nil
}

func (r *BookingRepository) HasCompletedBooking(ctx context.Context, userID, tourID int64) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&bookingModel{}).
		Where("user_id = ? AND tour_id = ? AND status = ?", userID, tourID, string(domain.BookingCompleted)).
		Count(&cnt).Error
	if err != nil {
		return false, mapError("repo.bookings.has_completed", err, "", "")
	}
	return cnt > 0, nil
}

type userBookingRow struct {
	bookingModel
	TourTitle      string `gorm:"column:tour_title"`
	TourCoverImage string `gorm:"column:tour_cover_image"`
	TourCity       string `gorm:"column:tour_city"`
	TourCategory   string `gorm:"column:tour_category"`
}

// ListByUserWithTour returns the user's bookings newest first with a tour summary attached.
func (r *BookingRepository) ListByUserWithTour(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var rows []userBookingRow
	err := conn(ctx, r.db).
		Table("bookings AS b").
		Select(`b.*, t.title AS tour_title, t.cover_image AS tour_cover_image,
			t.city AS tour_city, t.category AS tour_category`).
		Joins("LEFT JOIN tours AS t ON t.id = b.tour_id").
		Where("b.user_id = ?", userID).
		Order("b.created_at DESC").Order("b.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, mapError("repo.bookings.list_by_user", err, "", "")
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		b := toDomainBooking(row.bookingModel)
		if row.TourTitle != "" {
			b.Tour = &domain.TourSummary{
				ID:         row.TourID,
				Title:      row.TourTitle,
				CoverImage: row.TourCoverImage,
				City:       row.TourCity,
				Category:   domain.TourCategory(row.TourCategory),
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) DeleteByTour(ctx context.Context, tourID int64) error {
	if err := conn(ctx, r.db).Where("tour_id = ?", tourID).Delete(&bookingModel{}).Error; err != nil {
		return mapError("repo.bookings.delete_by_tour", err, "", "")
	}
	return nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
