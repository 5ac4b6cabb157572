package catalog

import (
	"context"
	"strings"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service struct {
	tours    TourRepository
	bookings TourDependents
	reviews  TourDependents
	tx       TxRunner
	policy   Authorizer
	log      logrus.FieldLogger
}

func NewService(
	tours TourRepository,
	bookings TourDependents,
	reviews TourDependents,
	tx TxRunner,
	policy Authorizer,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		tours:    tours,
		bookings: bookings,
		reviews:  reviews,
		tx:       tx,
		policy:   policy,
		log:      log,
	}
}

// CreateTour stores a new listing owned by the caller. It always starts pending and unpublished.
func (s *Service) CreateTour(ctx context.Context, caller domain.Caller, req CreateTourRequest) (*domain.Tour, error) {
	if err := s.policy.Authorize(caller, policy.TourCreate); err != nil {
		return nil, err
	}

	dates, err := domain.NormalizeDates(req.AvailableDates)
	if err != nil {
		return nil, err
	}

	t := &domain.Tour{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Price:          req.Price,
		DurationHours:  req.DurationHours,
		MaxGroupSize:   req.MaxGroupSize,
		Category:       domain.TourCategory(strings.ToLower(strings.TrimSpace(req.Category))),
		City:           strings.TrimSpace(req.City),
		MeetingPoint:   req.MeetingPoint,
		CoverImage:     req.CoverImage,
		Images:         req.Images,
		AvailableDates: dates,
		RatingsAverage: domain.DefaultRatingsAverage,
		GuideID:        caller.ID,
		Status:         domain.TourPending,
		IsPublished:    false,
	}
	if err := validateTour(t); err != nil {
		return nil, err
	}

	if err := s.tours.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tour_id": t.ID, "guide_id": t.GuideID}).Info("tour created")
	return t, nil
}

// UpdateTour applies a partial update. Guides cannot touch status or publication;
// those fields are dropped from their payload without an error.
func (s *Service) UpdateTour(ctx context.Context, caller domain.Caller, id int64, req UpdateTourRequest) (*domain.Tour, error) {
	if err := s.policy.Authorize(caller, policy.TourUpdate); err != nil {
		return nil, err
	}

	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !t.OwnedBy(caller) {
		return nil, domain.Forbidden("You can only modify your own tours")
	}

	if !caller.IsAdmin() {
		req.Status = nil
		req.IsPublished = nil
	}

	if err := applyUpdate(t, req); err != nil {
		return nil, err
	}
	if err := validateTour(t); err != nil {
		return nil, err
	}

	if err := s.tours.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.tours.GetByID(ctx, id)
}

// DeleteTour removes the tour with all its bookings and reviews in one transaction.
func (s *Service) DeleteTour(ctx context.Context, caller domain.Caller, id int64) error {
	if err := s.policy.Authorize(caller, policy.TourDelete); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tours.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() && !t.OwnedBy(caller) {
			return domain.Forbidden("You can only delete your own tours")
		}
		if err := s.bookings.DeleteByTour(ctx, id); err != nil {
			return err
		}
		if err := s.reviews.DeleteByTour(ctx, id); err != nil {
			return err
		}
		return s.tours.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"tour_id": id, "user_id": caller.ID}).Info("tour deleted")
	return nil
}

// GetTour hides tours the caller may not see behind NotFound.
func (s *Service) GetTour(ctx context.Context, caller domain.Caller, id int64) (*domain.Tour, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.VisibleTo(caller) {
		return nil, domain.NotFound("Tour not found")
	}
	return t, nil
}

// ListTours lists public tours; admins see every tour and may filter by status.
func (s *Service) ListTours(ctx context.Context, caller domain.Caller, q ListToursQuery) (*TourPage, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, domain.InvalidInput("price[gte] must not exceed price[lte]")
	}

	page, limit := normalizePage(q.Page, q.Limit)
	f := repository.TourFilters{
		City:       strings.TrimSpace(q.City),
		Category:   strings.TrimSpace(q.Category),
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Search:     q.Search,
		PublicOnly: !caller.IsAdmin(),
		Sort:       q.Sort,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if caller.IsAdmin() {
		f.Status = statusFilter(q.Status)
	}

	tours, total, err := s.tours.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &TourPage{
		Tours:      tours,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *Service) ListMyTours(ctx context.Context, caller domain.Caller) ([]domain.Tour, error) {
	if err := s.policy.Authorize(caller, policy.TourListMine); err != nil {
		return nil, err
	}
	return s.tours.ListByGuide(ctx, caller.ID)
}

func applyUpdate(t *domain.Tour, req UpdateTourRequest) error {
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.DurationHours != nil {
		t.DurationHours = *req.DurationHours
	}
	if req.MaxGroupSize != nil {
		t.MaxGroupSize = *req.MaxGroupSize
	}
	if req.Category != nil {
		t.Category = domain.TourCategory(strings.ToLower(strings.TrimSpace(*req.Category)))
	}
	if req.City != nil {
		t.City = strings.TrimSpace(*req.City)
	}
	if req.MeetingPoint != nil {
		t.MeetingPoint = *req.MeetingPoint
	}
	if req.CoverImage != nil {
		t.CoverImage = *req.CoverImage
	}
	if req.Images != nil {
		t.Images = *req.Images
	}
	if req.AvailableDates != nil {
		dates, err := domain.NormalizeDates(*req.AvailableDates)
		if err != nil {
			return err
		}
		t.AvailableDates = dates
	}
	if req.Status != nil {
		status := domain.TourStatus(*req.Status)
		if status != domain.TourPending && status != domain.TourApproved && status != domain.TourRejected {
			return domain.InvalidInput("status must be one of: pending, approved, rejected")
		}
		t.Status = status
	}
	if req.IsPublished != nil {
		t.IsPublished = *req.IsPublished
	}
	if t.IsPublished && t.Status != domain.TourApproved {
		return domain.InvalidState("Only approved tours can be published")
	}
	return nil
}

func validateTour(t *domain.Tour) error {
	switch {
	case t.Title == "":
		return domain.InvalidInput("A tour must have a title")
	case t.Price < 0:
		return domain.InvalidInput("Price must be a positive number")
	case t.DurationHours < 1:
		return domain.InvalidInput("Duration must be at least 1 hour")
	case t.MaxGroupSize < 1:
		return domain.InvalidInput("Group size must be at least 1")
	case !t.Category.Valid():
		return domain.InvalidInput("Category is either: historical, nature, adventure, cultural, religious, city-tour")
	case t.City == "":
		return domain.InvalidInput("A tour must have a city")
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// statusFilter treats "all" like no filter.
func statusFilter(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "all" {
		return ""
	}
	return status
}
