package repository

import (
	"context"
	"database/sql"
	"time"

	"tourmarket/internal/domain"

	"gorm.io/gorm"
)

const (
	reviewNotFound  = "Review not found"
	reviewDuplicate = "You have already reviewed this tour"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TourID    int64     `gorm:"column:tour_id;not null;uniqueIndex:idx_reviews_tour_user,priority:1"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_reviews_tour_user,priority:2"`
	Rating    int       `gorm:"column:rating;not null"`
	Text      string    `gorm:"column:review;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		TourID:    m.TourID,
		UserID:    m.UserID,
		Rating:    m.Rating,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toReviewModel(r *domain.Review) reviewModel {
	return reviewModel{
		ID:        r.ID,
		TourID:    r.TourID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return mapError("repo.reviews.create", err, "", reviewDuplicate)
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, mapError("repo.reviews.get", err, reviewNotFound, "")
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ExistsForTourUser(ctx context.Context, tourID, userID int64) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).
		Model(&reviewModel{}).
		Where("tour_id = ? AND user_id = ?", tourID, userID).
		Count(&cnt).Error
	if err != nil {
		return false, mapError("repo.reviews.exists", err, "", "")
	}
	return cnt > 0, nil
}

// Update writes rating and text; the tour and author never change.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	res := conn(ctx, r.db).
		Model(&reviewModel{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{"rating": rv.Rating, "review": rv.Text, "updated_at": time.Now()})
	if res.Error != nil {
		return mapError("repo.reviews.update", res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(reviewNotFound)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&reviewModel{}, id)
	if res.Error != nil {
		return mapError("repo.reviews.delete", res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(reviewNotFound)
	}
	return nil
}

func (r *ReviewRepository) ListByTour(ctx context.Context, tourID int64) ([]domain.Review, error) {
	var rows []reviewModel
	err := conn(ctx, r.db).
		Where("tour_id = ?", tourID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("repo.reviews.list_by_tour", err, "", "")
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

// Stats returns the review count and the raw mean rating for a tour.
func (r *ReviewRepository) Stats(ctx context.Context, tourID int64) (int, float64, error) {
	var row struct {
		Count   int64
		Average sql.NullFloat64
	}
	err := conn(ctx, r.db).
		Model(&reviewModel{}).
		Select("COUNT(*) AS count, AVG(CAST(rating AS FLOAT)) AS average").
		Where("tour_id = ?", tourID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, mapError("repo.reviews.stats", err, "", "")
	}
	return int(row.Count), row.Average.Float64, nil
}

func (r *ReviewRepository) DeleteByTour(ctx context.Context, tourID int64) error {
	if err := conn(ctx, r.db).Where("tour_id = ?", tourID).Delete(&reviewModel{}).Error; err != nil {
		return mapError("repo.reviews.delete_by_tour", err, "", "")
	}
	return nil
}
