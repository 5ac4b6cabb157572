package catalog

import (
	"context"
	"testing"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"
	"tourmarket/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	svc := NewService(
		repository.NewTourRepository(db),
		repository.NewBookingRepository(db),
		repository.NewReviewRepository(db),
		repository.NewTxManager(db),
		policy.MustNew(),
		testutil.Logger(),
	)
	return svc, db
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool     { return &b }
func intPtr(i int) *int        { return &i }

func validCreate(title string) CreateTourRequest {
	return CreateTourRequest{
		Title:          title,
		Price:          120,
		DurationHours:  36,
		MaxGroupSize:   8,
		Category:       "Nature",
		City:           "Aswan",
		MeetingPoint:   "Corniche",
		AvailableDates: []string{"2024-06-01T18:30:00Z", "2024-06-01", "2024-06-02"},
	}
}

func TestCreateTour_StartsPendingUnpublished(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)

	tour, err := svc.CreateTour(context.Background(), guide, validCreate("Nile sunset"))
	require.NoError(t, err)

	assert.Equal(t, domain.TourPending, tour.Status)
	assert.False(t, tour.IsPublished)
	assert.Equal(t, guide.ID, tour.GuideID)
	assert.Equal(t, domain.CategoryNature, tour.Category)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02"}, tour.AvailableDates)
	assert.Equal(t, 4.5, tour.RatingsAverage)
	assert.Equal(t, 0, tour.RatingsQuantity)
	assert.Equal(t, 1.5, tour.DurationDays())
}

func TestCreateTour_Rules(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	ctx := context.Background()

	_, err := svc.CreateTour(ctx, traveler, validCreate("Not mine"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CreateTour(ctx, domain.Caller{}, validCreate("Anonymous"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	bad := validCreate("Bad category")
	bad.Category = "beach"
	_, err = svc.CreateTour(ctx, guide, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateTour(ctx, guide, validCreate("Same title"))
	require.NoError(t, err)
	_, err = svc.CreateTour(ctx, guide, validCreate("Same title"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateTour_GuideCannotSelfApprove(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	tour := testutil.Tour(t, db, guide.ID, testutil.WithStatus(domain.TourPending, false))

	updated, err := svc.UpdateTour(context.Background(), guide, tour.ID, UpdateTourRequest{
		Status:      strPtr("approved"),
		IsPublished: boolPtr(true),
		City:        strPtr("Giza"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TourPending, updated.Status)
	assert.False(t, updated.IsPublished)
	assert.Equal(t, "Giza", updated.City)
}

func TestUpdateTour_Ownership(t *testing.T) {
	svc, db := newTestService(t)
	owner := testutil.User(t, db, domain.RoleGuide)
	other := testutil.User(t, db, domain.RoleGuide)
	admin := testutil.User(t, db, domain.RoleAdmin)
	tour := testutil.Tour(t, db, owner.ID, testutil.WithStatus(domain.TourPending, false))
	ctx := context.Background()

	_, err := svc.UpdateTour(ctx, other, tour.ID, UpdateTourRequest{MaxGroupSize: intPtr(3)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.UpdateTour(ctx, admin, tour.ID, UpdateTourRequest{Status: strPtr("approved"), IsPublished: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, domain.TourApproved, updated.Status)
	assert.True(t, updated.IsPublished)

	_, err = svc.UpdateTour(ctx, owner, 9999, UpdateTourRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTour_Visibility(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	admin := testutil.User(t, db, domain.RoleAdmin)
	hidden := testutil.Tour(t, db, guide.ID, testutil.WithStatus(domain.TourApproved, false))
	ctx := context.Background()

	_, err := svc.GetTour(ctx, domain.Caller{}, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetTour(ctx, traveler, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetTour(ctx, guide, hidden.ID)
	assert.NoError(t, err)
	_, err = svc.GetTour(ctx, admin, hidden.ID)
	assert.NoError(t, err)
}

func TestListTours_VisibilityFilter(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	admin := testutil.User(t, db, domain.RoleAdmin)

	visible := testutil.Tour(t, db, guide.ID)
	testutil.Tour(t, db, guide.ID, testutil.WithStatus(domain.TourPending, false))
	testutil.Tour(t, db, guide.ID, testutil.WithStatus(domain.TourApproved, false))
	testutil.Tour(t, db, guide.ID, testutil.WithStatus(domain.TourRejected, true))
	ctx := context.Background()

	for _, caller := range []domain.Caller{{}, traveler} {
		page, err := svc.ListTours(ctx, caller, ListToursQuery{})
		require.NoError(t, err)
		require.Len(t, page.Tours, 1)
		assert.Equal(t, visible.ID, page.Tours[0].ID)
	}

	page, err := svc.ListTours(ctx, admin, ListToursQuery{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Tours, 4)

	page, err = svc.ListTours(ctx, admin, ListToursQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, page.Tours, 1)

	mine, err := svc.ListMyTours(ctx, guide)
	require.NoError(t, err)
	assert.Len(t, mine, 4)
}

func TestListTours_Filters(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	testutil.Tour(t, db, guide.ID, testutil.WithCity("Cairo"), testutil.WithPrice(50))
	testutil.Tour(t, db, guide.ID, testutil.WithCity("Cairo"), testutil.WithPrice(150))
	testutil.Tour(t, db, guide.ID, testutil.WithCity("Aswan"), testutil.WithPrice(300))
	ctx := context.Background()

	page, err := svc.ListTours(ctx, domain.Caller{}, ListToursQuery{City: "cai"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	minPrice, maxPrice := 100.0, 200.0
	page, err = svc.ListTours(ctx, domain.Caller{}, ListToursQuery{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, page.Tours, 1)
	assert.Equal(t, 150.0, page.Tours[0].Price)

	page, err = svc.ListTours(ctx, domain.Caller{}, ListToursQuery{Sort: "-price", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Tours, 2)
	assert.Equal(t, 300.0, page.Tours[0].Price)
	assert.Equal(t, 2, page.TotalPages)

	_, err = svc.ListTours(ctx, domain.Caller{}, ListToursQuery{MinPrice: &maxPrice, MaxPrice: &minPrice})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteTour_Cascades(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID)
	testutil.Booking(t, db, traveler.ID, tour.ID, "2024-06-01", 2, domain.BookingCompleted)
	ctx := context.Background()

	require.NoError(t, repository.NewReviewRepository(db).Create(ctx, &domain.Review{TourID: tour.ID, UserID: traveler.ID, Rating: 5}))

	other := testutil.User(t, db, domain.RoleGuide)
	assert.ErrorIs(t, svc.DeleteTour(ctx, other, tour.ID), domain.ErrForbidden)

	require.NoError(t, svc.DeleteTour(ctx, guide, tour.ID))

	var bookings, reviews int64
	require.NoError(t, db.Table("bookings").Where("tour_id = ?", tour.ID).Count(&bookings).Error)
	require.NoError(t, db.Table("reviews").Where("tour_id = ?", tour.ID).Count(&reviews).Error)
	assert.Zero(t, bookings)
	assert.Zero(t, reviews)

	_, err := svc.GetTour(ctx, guide, tour.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
