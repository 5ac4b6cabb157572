package repository

import (
	"context"
	"strings"
	"time"

	"tourmarket/internal/domain"
	"tourmarket/internal/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	tourNotFound     = "Tour not found"
	tourTitleTaken   = "A tour with this title already exists"
	defaultTourOrder = "created_at DESC"
)

// TourFilters are the fixed list filters; Status is ignored when PublicOnly is set.
type TourFilters struct {
	City       string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	Status     string
	PublicOnly bool
	Sort       string
	Limit      int
	Offset     int
}

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

type tourModel struct {
	ID              int64          `gorm:"column:id;primaryKey"`
	Title           string         `gorm:"column:title;size:200;uniqueIndex:idx_tours_title;not null"`
	Description     string         `gorm:"column:description;type:text"`
	Price           float64        `gorm:"column:price;not null"`
	DurationHours   int            `gorm:"column:duration_hours;not null"`
	MaxGroupSize    int            `gorm:"column:max_group_size;not null"`
	Category        string         `gorm:"column:category;size:32;index"`
	City            string         `gorm:"column:city;size:120;index"`
	MeetingPoint    string         `gorm:"column:meeting_point"`
	CoverImage      string         `gorm:"column:cover_image"`
	Images          datatypes.JSON `gorm:"column:images"`
	AvailableDates  datatypes.JSON `gorm:"column:available_dates"`
	RatingsAverage  float64        `gorm:"column:ratings_average;not null"`
	RatingsQuantity int            `gorm:"column:ratings_quantity;not null"`
	GuideID         int64          `gorm:"column:guide_id;index;not null"`
	Status          string         `gorm:"column:status;size:16;index;not null"`
	IsPublished     bool           `gorm:"column:is_published;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at;index"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (tourModel) TableName() string { return "tours" }

func toDomainTour(m tourModel) *domain.Tour {
	return &domain.Tour{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Price:           m.Price,
		DurationHours:   m.DurationHours,
		MaxGroupSize:    m.MaxGroupSize,
		Category:        domain.TourCategory(m.Category),
		City:            m.City,
		MeetingPoint:    m.MeetingPoint,
		CoverImage:      m.CoverImage,
		Images:          utils.JSONToStrings(m.Images),
		AvailableDates:  utils.JSONToStrings(m.AvailableDates),
		RatingsAverage:  m.RatingsAverage,
		RatingsQuantity: m.RatingsQuantity,
		GuideID:         m.GuideID,
		Status:          domain.TourStatus(m.Status),
		IsPublished:     m.IsPublished,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toTourModel(t *domain.Tour) tourModel {
	return tourModel{
		ID:              t.ID,
		Title:           strings.TrimSpace(t.Title),
		Description:     t.Description,
		Price:           t.Price,
		DurationHours:   t.DurationHours,
		MaxGroupSize:    t.MaxGroupSize,
		Category:        string(t.Category),
		City:            strings.TrimSpace(t.City),
		MeetingPoint:    t.MeetingPoint,
		CoverImage:      t.CoverImage,
		Images:          utils.StringsToJSON(t.Images),
		AvailableDates:  utils.StringsToJSON(t.AvailableDates),
		RatingsAverage:  t.RatingsAverage,
		RatingsQuantity: t.RatingsQuantity,
		GuideID:         t.GuideID,
		Status:          string(t.Status),
		IsPublished:     t.IsPublished,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (r *TourRepository) Create(ctx context.Context, t *domain.Tour) error {
	m := toTourModel(t)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return mapError("repo.tours.create", err, "", tourTitleTaken)
	}
	*t = *toDomainTour(m)
	return nil
}

func (r *TourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	var m tourModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, mapError("repo.tours.get", err, tourNotFound, "")
	}
	return toDomainTour(m), nil
}

// GetByIDForUpdate reads the tour with a row lock held until the surrounding transaction ends.
func (r *TourRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Tour, error) {
	var m tourModel
	if err := forUpdate(conn(ctx, r.db)).First(&m, id).Error; err != nil {
		return nil, mapError("repo.tours.get_for_update", err, tourNotFound, "")
	}
	return toDomainTour(m), nil
}

// Update persists every mutable column of t.
func (r *TourRepository) Update(ctx context.Context, t *domain.Tour) error {
	m := toTourModel(t)
	err := conn(ctx, r.db).
		Model(&tourModel{ID: t.ID}).
		Select("title", "description", "price", "duration_hours", "max_group_size", "category",
			"city", "meeting_point", "cover_image", "images", "available_dates", "status", "is_published", "updated_at").
		Updates(&m).Error
	if err != nil {
		return mapError("repo.tours.update", err, tourNotFound, tourTitleTaken)
	}
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&tourModel{}, id)
	if res.Error != nil {
		return mapError("repo.tours.delete", res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(tourNotFound)
	}
	return nil
}

func (r *TourRepository) SetStatus(ctx context.Context, id int64, status domain.TourStatus) error {
	return r.updateColumns(ctx, "repo.tours.set_status", id, map[string]any{"status": string(status)})
}

func (r *TourRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	return r.updateColumns(ctx, "repo.tours.set_published", id, map[string]any{"is_published": published})
}

func (r *TourRepository) UpdateRatings(ctx context.Context, id int64, average float64, quantity int) error {
	return r.updateColumns(ctx, "repo.tours.update_ratings", id, map[string]any{
		"ratings_average":  average,
		"ratings_quantity": quantity,
	})
}

func (r *TourRepository) updateColumns(ctx context.Context, op string, id int64, cols map[string]any) error {
	cols["updated_at"] = time.Now()
	res := conn(ctx, r.db).Model(&tourModel{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return mapError(op, res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(tourNotFound)
	}
	return nil
}

// List returns a page of tours and the total number matching f.
func (r *TourRepository) List(ctx context.Context, f TourFilters) ([]domain.Tour, int64, error) {
	q := conn(ctx, r.db).Model(&tourModel{})

	if f.PublicOnly {
		q = q.Where("status = ? AND is_published = ?", string(domain.TourApproved), true)
	} else if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(city) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError("repo.tours.count", err, "", "")
	}

	var rows []tourModel
	err := q.Order(tourOrder(f.Sort)).Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapError("repo.tours.list", err, "", "")
	}

	return toDomainTours(rows), total, nil
}

func (r *TourRepository) ListByGuide(ctx context.Context, guideID int64) ([]domain.Tour, error) {
	var rows []tourModel
	err := conn(ctx, r.db).
		Where("guide_id = ?", guideID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("repo.tours.list_by_guide", err, "", "")
	}
	return toDomainTours(rows), nil
}

func toDomainTours(rows []tourModel) []domain.Tour {
	out := make([]domain.Tour, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTour(m))
	}
	return out
}

var tourSortColumns = map[string]string{
	"price":          "price",
	"ratingsAverage": "ratings_average",
	"createdAt":      "created_at",
	"title":          "title",
	"durationHours":  "duration_hours",
}

// tourOrder turns "price" / "-price" into an ORDER BY clause over whitelisted columns.
func tourOrder(sort string) string {
	sort = strings.TrimSpace(sort)
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}
	col, ok := tourSortColumns[sort]
	if !ok {
		return defaultTourOrder
	}
	return col + " " + dir
}
