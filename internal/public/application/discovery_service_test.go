package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

func provider(id string, status domain.Status, loc *domain.Location) domain.Listing {
	return domain.Listing{
		ID:         id,
		Kind:       domain.KindProvider,
		Title:      "Provider " + id,
		Status:     status,
		Location:   loc,
		IsVerified: true,
		CreatedAt:  baseTime,
	}
}

func service(id, providerID string, status domain.Status, loc *domain.Location) domain.Listing {
	return domain.Listing{
		ID:         id,
		Kind:       domain.KindService,
		ProviderID: providerID,
		Title:      "Service " + id,
		Category:   "cleaning",
		Price:      domain.Price{Amount: 40, Unit: "hour"},
		Status:     status,
		Location:   loc,
		CreatedAt:  baseTime,
	}
}

func at(lat, lng float64) *domain.Location {
	return &domain.Location{Latitude: lat, Longitude: lng}
}

func newTestDiscovery(listings *fakeListings, reviews *fakeReviews) DiscoveryQueries {
	return NewDiscoveryService(listings, reviews, nil, DiscoveryConfig{AggregationConcurrency: 4, ViewTimeout: time.Second})
}

func defaultQuery() domain.SearchQuery {
	return domain.SearchQuery{Sort: domain.SortRating, Order: domain.OrderDesc, Page: 1, PageSize: 10}
}

func TestDiscover_RadiusScenario(t *testing.T) {
	listings := newFakeListings(
		provider("p1", domain.StatusApproved, at(0, 0)),
		service("s1", "p1", domain.StatusApproved, at(0, 0.1)),
	)
	svc := newTestDiscovery(listings, newFakeReviews())

	query := defaultQuery()
	query.Origin = at(0, 0)

	query.RadiusKm = ptrFloat(10)
	page, err := svc.Discover(context.Background(), domain.KindService, query)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalItems)

	query.RadiusKm = ptrFloat(12)
	page, err = svc.Discover(context.Background(), domain.KindService, query)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].DistanceKm)
	assert.Equal(t, 11.1, *page.Items[0].DistanceKm)
}

func TestDiscover_RadiusExcludesUnlocated(t *testing.T) {
	listings := newFakeListings(
		provider("p1", domain.StatusApproved, nil),
		service("located", "p1", domain.StatusApproved, at(0, 0.01)),
		service("unlocated", "p1", domain.StatusApproved, nil),
	)
	query := defaultQuery()
	query.Origin = at(0, 0)
	query.RadiusKm = ptrFloat(50)

	page, err := newTestDiscovery(listings, newFakeReviews()).Discover(context.Background(), domain.KindService, query)
	require.NoError(t, err)
	assert.Equal(t, []string{"located"}, ids(page.Items))
}

func TestDiscover_OnlyApprovedWithApprovedProvider(t *testing.T) {
	listings := newFakeListings(
		provider("p-ok", domain.StatusApproved, nil),
		provider("p-suspended", domain.StatusSuspended, nil),
		service("visible", "p-ok", domain.StatusApproved, nil),
		service("pending", "p-ok", domain.StatusPending, nil),
		service("orphaned", "p-suspended", domain.StatusApproved, nil),
	)
	page, err := newTestDiscovery(listings, newFakeReviews()).Discover(context.Background(), domain.KindService, defaultQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, ids(page.Items))
	for _, r := range page.Items {
		assert.Equal(t, domain.StatusApproved, r.Listing.Status)
	}
	assert.Equal(t, domain.StatusApproved, listings.lastQuery.Status())
}

func TestDiscover_EnrichesRatingsAndProviders(t *testing.T) {
	listings := newFakeListings(
		provider("p1", domain.StatusApproved, at(1, 1)),
		service("s1", "p1", domain.StatusApproved, nil),
		service("s2", "p1", domain.StatusApproved, nil),
	)
	reviews := newFakeReviews()
	reviews.add("s1", 5, 4)
	reviews.add("s2", 3)
	reviews.add("p1", 4, 4, 5)

	page, err := newTestDiscovery(listings, reviews).Discover(context.Background(), domain.KindService, defaultQuery())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, "s1", page.Items[0].Listing.ID)
	assert.Equal(t, domain.Rating{Average: 4.5, Count: 2}, page.Items[0].Rating)
	assert.Equal(t, domain.Rating{Average: 3, Count: 1}, page.Items[1].Rating)
	for _, item := range page.Items {
		require.NotNil(t, item.Provider)
		assert.Equal(t, "p1", item.Provider.ID)
		assert.Equal(t, "Provider p1", item.Provider.Name)
		assert.Equal(t, 3, item.Provider.Rating.Count)
		assert.True(t, item.Provider.IsVerified)
	}
}

func TestDiscover_ProvidersHaveNoProviderBlock(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusApproved, nil))
	page, err := newTestDiscovery(listings, newFakeReviews()).Discover(context.Background(), domain.KindProvider, defaultQuery())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].Provider)
	assert.Nil(t, page.Items[0].DistanceKm)
}

func TestDiscover_Idempotent(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusApproved, at(0, 0)))
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		listings.listings[domain.KindService] = append(listings.listings[domain.KindService], service(id, "p1", domain.StatusApproved, at(0, 0.05)))
	}
	reviews := newFakeReviews()
	reviews.add("b", 5)
	reviews.add("d", 5)
	reviews.add("e", 2)

	svc := newTestDiscovery(listings, reviews)
	query := defaultQuery()
	query.PageSize = 4

	first, err := svc.Discover(context.Background(), domain.KindService, query)
	require.NoError(t, err)
	second, err := svc.Discover(context.Background(), domain.KindService, query)
	require.NoError(t, err)
	assert.Equal(t, ids(first.Items), ids(second.Items))
	assert.Equal(t, []string{"b", "d", "e", "a"}, ids(first.Items))
	assert.True(t, first.HasNextPage)
	assert.Equal(t, 6, first.TotalItems)
}

func TestDiscover_ClampsPageSize(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusApproved, nil))
	svc := NewDiscoveryService(listings, newFakeReviews(), nil, DiscoveryConfig{MaxPageSize: 2})
	for _, id := range []string{"a", "b", "c"} {
		listings.listings[domain.KindService] = append(listings.listings[domain.KindService], service(id, "p1", domain.StatusApproved, nil))
	}
	query := defaultQuery()
	query.PageSize = 50

	page, err := svc.Discover(context.Background(), domain.KindService, query)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)
}

func TestDiscover_UpstreamFailures(t *testing.T) {
	t.Run("candidate fetch", func(t *testing.T) {
		listings := newFakeListings()
		listings.findErr = errors.New("mongo down")
		_, err := newTestDiscovery(listings, newFakeReviews()).Discover(context.Background(), domain.KindService, defaultQuery())
		var ue *domain.UpstreamError
		require.ErrorAs(t, err, &ue)
	})

	t.Run("rating fetch", func(t *testing.T) {
		listings := newFakeListings(
			provider("p1", domain.StatusApproved, nil),
			service("s1", "p1", domain.StatusApproved, nil),
		)
		reviews := newFakeReviews()
		reviews.failFor["s1"] = errors.New("timeout")
		page, err := newTestDiscovery(listings, reviews).Discover(context.Background(), domain.KindService, defaultQuery())
		require.Error(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestDiscover_UnknownKind(t *testing.T) {
	_, err := newTestDiscovery(newFakeListings(), newFakeReviews()).Discover(context.Background(), domain.ListingKind("store"), defaultQuery())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "kind", ve.Field)
}

func TestDetail_RecordsView(t *testing.T) {
	listings := newFakeListings(
		provider("p1", domain.StatusApproved, at(0, 0)),
		service("s1", "p1", domain.StatusApproved, at(0, 0.1)),
	)
	reviews := newFakeReviews()
	reviews.add("s1", 4)

	result, err := newTestDiscovery(listings, reviews).Detail(context.Background(), domain.KindService, "s1", at(0, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 4, Count: 1}, result.Rating)
	require.NotNil(t, result.DistanceKm)
	assert.Equal(t, 11.1, *result.DistanceKm)
	require.NotNil(t, result.Provider)

	select {
	case id := <-listings.viewed:
		assert.Equal(t, "s1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("view counter was not incremented")
	}
	assert.Eventually(t, func() bool {
		listings.mu.Lock()
		defer listings.mu.Unlock()
		return listings.views["s1"] == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDetail_ViewFailureIsNotSurfaced(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusApproved, nil))
	listings.viewErr = errors.New("write conflict")

	ctx, cancel := context.WithCancel(context.Background())
	result, err := newTestDiscovery(listings, newFakeReviews()).Detail(ctx, domain.KindProvider, "p1", nil)
	cancel()
	require.NoError(t, err)
	assert.Equal(t, "p1", result.Listing.ID)

	select {
	case <-listings.viewed:
	case <-time.After(2 * time.Second):
		t.Fatal("view increment was not attempted")
	}
}

func TestDetail_HidesNonDiscoverable(t *testing.T) {
	listings := newFakeListings(
		provider("p-ok", domain.StatusApproved, nil),
		provider("p-pending", domain.StatusPending, nil),
		service("s-rejected", "p-ok", domain.StatusRejected, nil),
		service("s-orphan", "p-pending", domain.StatusApproved, nil),
	)
	svc := newTestDiscovery(listings, newFakeReviews())

	cases := []struct {
		kind domain.ListingKind
		id   string
	}{
		{domain.KindService, "missing"},
		{domain.KindService, "s-rejected"},
		{domain.KindService, "s-orphan"},
		{domain.KindProvider, "p-pending"},
	}
	for _, tc := range cases {
		_, err := svc.Detail(context.Background(), tc.kind, tc.id, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound, tc.id)
	}
	assert.Empty(t, listings.views)
}

func TestTopRated(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusApproved, nil))
	for _, id := range []string{"one-star", "perfect-few", "great-many", "unrated"} {
		listings.listings[domain.KindService] = append(listings.listings[domain.KindService], service(id, "p1", domain.StatusApproved, nil))
	}
	reviews := newFakeReviews()
	reviews.add("one-star", 1)
	reviews.add("perfect-few", 5, 5, 5, 5, 5)
	for i := 0; i < 20; i++ {
		reviews.add("great-many", 5)
	}
	reviews.add("great-many", 1)

	top, err := newTestDiscovery(listings, reviews).TopRated(context.Background(), domain.KindService, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"great-many", "perfect-few", "one-star"}, ids(top))
}

func TestReviews_NewestFirst(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusApproved, nil))
	reviews := newFakeReviews()
	reviews.bySubject["p1"] = []domain.Review{
		{ID: "old", Rating: 3, CreatedAt: baseTime.Add(-time.Hour)},
		{ID: "new", Rating: 5, CreatedAt: baseTime},
		{ID: "mid", Rating: 4, CreatedAt: baseTime.Add(-time.Minute)},
	}

	page, err := newTestDiscovery(listings, reviews).Reviews(context.Background(), domain.KindProvider, "p1", 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "new", page.Items[0].ID)
	assert.Equal(t, "mid", page.Items[1].ID)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, 3, page.TotalItems)
}

func TestReviews_HiddenListing(t *testing.T) {
	listings := newFakeListings(provider("p1", domain.StatusRejected, nil))
	_, err := newTestDiscovery(listings, newFakeReviews()).Reviews(context.Background(), domain.KindProvider, "p1", 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptrFloat(v float64) *float64 { return &v }
