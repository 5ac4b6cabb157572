package repository

import (
	"context"
	"time"

	"tourmarket/internal/domain"

	"gorm.io/gorm"
)

const (
	customTourNotFound = "Custom tour request not found"
	alreadyJoined      = "You have already joined this tour"
)

type CustomTourRepository struct {
	db *gorm.DB
}

func NewCustomTourRepository(db *gorm.DB) *CustomTourRepository {
	return &CustomTourRepository{db: db}
}

type customTourModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Title         string    `gorm:"column:title;size:200;not null"`
	Description   string    `gorm:"column:description;type:text"`
	City          string    `gorm:"column:city;size:120"`
	CoverImage    string    `gorm:"column:cover_image"`
	RequestedDate string    `gorm:"column:requested_date;size:10"`
	MaxGroupSize  int       `gorm:"column:max_group_size;not null"`
	CreatorID     int64     `gorm:"column:creator_id;index;not null"`
	Status        string    `gorm:"column:status;size:16;index;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (customTourModel) TableName() string { return "custom_tour_requests" }

type customTourParticipantModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	RequestID int64     `gorm:"column:request_id;not null;uniqueIndex:idx_custom_tour_participant,priority:1"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_custom_tour_participant,priority:2;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (customTourParticipantModel) TableName() string { return "custom_tour_participants" }

func toDomainCustomTour(m customTourModel, participants []int64) *domain.CustomTourRequest {
	if participants == nil {
		participants = []int64{}
	}
	return &domain.CustomTourRequest{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		City:          m.City,
		CoverImage:    m.CoverImage,
		RequestedDate: m.RequestedDate,
		MaxGroupSize:  m.MaxGroupSize,
		CreatorID:     m.CreatorID,
		Participants:  participants,
		Status:        domain.CustomTourStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toCustomTourModel(r *domain.CustomTourRequest) customTourModel {
	return customTourModel{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		City:          r.City,
		CoverImage:    r.CoverImage,
		RequestedDate: r.RequestedDate,
		MaxGroupSize:  r.MaxGroupSize,
		CreatorID:     r.CreatorID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Create inserts the request together with its initial participants.
func (r *CustomTourRepository) Create(ctx context.Context, req *domain.CustomTourRequest) error {
	m := toCustomTourModel(req)
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for _, userID := range req.Participants {
			p := customTourParticipantModel{RequestID: m.ID, UserID: userID}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapError("repo.custom_tours.create", err, "", alreadyJoined)
	}
	*req = *toDomainCustomTour(m, append([]int64(nil), req.Participants...))
	return nil
}

func (r *CustomTourRepository) GetByID(ctx context.Context, id int64) (*domain.CustomTourRequest, error) {
	return r.get(ctx, conn(ctx, r.db), id)
}

// GetByIDForUpdate locks the request row until the surrounding transaction ends.
func (r *CustomTourRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.CustomTourRequest, error) {
	return r.get(ctx, forUpdate(conn(ctx, r.db)), id)
}

func (r *CustomTourRepository) get(ctx context.Context, q *gorm.DB, id int64) (*domain.CustomTourRequest, error) {
	var m customTourModel
	if err := q.First(&m, id).Error; err != nil {
		return nil, mapError("repo.custom_tours.get", err, customTourNotFound, "")
	}
	out, err := r.withParticipants(ctx, []customTourModel{m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *CustomTourRepository) AddParticipant(ctx context.Context, requestID, userID int64) error {
	p := customTourParticipantModel{RequestID: requestID, UserID: userID}
	if err := conn(ctx, r.db).Create(&p).Error; err != nil {
		return mapError("repo.custom_tours.add_participant", err, "", alreadyJoined)
	}
	return nil
}

func (r *CustomTourRepository) UpdateStatus(ctx context.Context, id int64, status domain.CustomTourStatus) error {
	res := conn(ctx, r.db).
		Model(&customTourModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if res.Error != nil {
		return mapError("repo.custom_tours.update_status", res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(customTourNotFound)
	}
	return nil
}

// ListByStatus returns requests newest first; no statuses means all of them.
func (r *CustomTourRepository) ListByStatus(ctx context.Context, statuses ...domain.CustomTourStatus) ([]domain.CustomTourRequest, error) {
	q := conn(ctx, r.db).Model(&customTourModel{})
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, string(s))
		}
		q = q.Where("status IN ?", names)
	}
	return r.find(ctx, q, "repo.custom_tours.list_by_status")
}

func (r *CustomTourRepository) ListByCreator(ctx context.Context, creatorID int64) ([]domain.CustomTourRequest, error) {
	q := conn(ctx, r.db).Model(&customTourModel{}).Where("creator_id = ?", creatorID)
	return r.find(ctx, q, "repo.custom_tours.list_by_creator")
}

// ListJoinedNotCreated returns requests userID participates in without being their creator.
func (r *CustomTourRepository) ListJoinedNotCreated(ctx context.Context, userID int64) ([]domain.CustomTourRequest, error) {
	joined := conn(ctx, r.db).
		Model(&customTourParticipantModel{}).
		Select("request_id").
		Where("user_id = ?", userID)
	q := conn(ctx, r.db).
		Model(&customTourModel{}).
		Where("id IN (?) AND creator_id <> ?", joined, userID)
	return r.find(ctx, q, "repo.custom_tours.list_joined")
}

func (r *CustomTourRepository) find(ctx context.Context, q *gorm.DB, op string) ([]domain.CustomTourRequest, error) {
	var rows []customTourModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, mapError(op, err, "", "")
	}
	return r.withParticipants(ctx, rows)
}

// withParticipants attaches participant ids in join order with one batched query.
func (r *CustomTourRepository) withParticipants(ctx context.Context, rows []customTourModel) ([]domain.CustomTourRequest, error) {
	out := make([]domain.CustomTourRequest, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}

	var parts []customTourParticipantModel
	err := conn(ctx, r.db).
		Where("request_id IN ?", ids).
		Order("id ASC").
		Find(&parts).Error
	if err != nil {
		return nil, mapError("repo.custom_tours.participants", err, "", "")
	}

	byRequest := make(map[int64][]int64, len(rows))
	for _, p := range parts {
		byRequest[p.RequestID] = append(byRequest[p.RequestID], p.UserID)
	}
	for _, m := range rows {
		out = append(out, *toDomainCustomTour(m, byRequest[m.ID]))
	}
	return out, nil
}
