package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/geo"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/metrics"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// TopRatedLimit is the number of listings returned by the top-rated views.
const TopRatedLimit = 3

const defaultViewTimeout = 2 * time.Second

// DiscoveryConfig tunes the discovery service.
type DiscoveryConfig struct {
	MaxPageSize            int
	AggregationConcurrency int
	ViewTimeout            time.Duration
}

// discoveryService implements DiscoveryQueries.
type discoveryService struct {
	listings    ListingRepository
	ratings     *RatingAggregator
	logger      *zap.Logger
	maxPageSize int
	viewTimeout time.Duration
}

// NewDiscoveryService wires the discovery engine to its store collaborators.
func NewDiscoveryService(listings ListingRepository, reviews ReviewRepository, logger *zap.Logger, cfg DiscoveryConfig) DiscoveryQueries {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize <= 0 || maxPageSize > domain.MaxPageSize {
		maxPageSize = domain.MaxPageSize
	}
	viewTimeout := cfg.ViewTimeout
	if viewTimeout <= 0 {
		viewTimeout = defaultViewTimeout
	}
	return &discoveryService{
		listings:    listings,
		ratings:     NewRatingAggregator(reviews, cfg.AggregationConcurrency),
		logger:      logger,
		maxPageSize: maxPageSize,
		viewTimeout: viewTimeout,
	}
}

// Discover fetches approved candidates, enriches them with rating and distance,
// applies the radius filter, ranks and paginates.
func (s *discoveryService) Discover(ctx context.Context, kind domain.ListingKind, query domain.SearchQuery) (domain.Page[domain.RankedResult], error) {
	if !kind.Valid() {
		return domain.Page[domain.RankedResult]{}, domain.Invalid("kind", "unknown listing kind %q", kind)
	}
	if query.PageSize > s.maxPageSize {
		query.PageSize = s.maxPageSize
	}

	filter := domain.BuildFilter(query)
	candidates, err := s.listings.FindApproved(ctx, kind, filter)
	if err != nil {
		return domain.Page[domain.RankedResult]{}, domain.Upstream("find approved "+string(kind)+"s", err)
	}
	metrics.ObserveCandidates(string(kind), len(candidates))

	// distance is cheap, so the radius scan runs before any review fetch
	results := make([]domain.RankedResult, 0, len(candidates))
	for _, listing := range candidates {
		distance := distanceFrom(query.Origin, listing.Location)
		if !filter.WithinRadius(distance) {
			continue
		}
		results = append(results, domain.RankedResult{Listing: listing, DistanceKm: distance})
	}

	if err := s.enrichRatings(ctx, results); err != nil {
		return domain.Page[domain.RankedResult]{}, err
	}

	page := Paginate(Rank(results, query), query.Page, query.PageSize)

	if kind == domain.KindService {
		if err := s.attachProviders(ctx, page.Items); err != nil {
			return domain.Page[domain.RankedResult]{}, err
		}
	}

	s.logger.Debug("discovery",
		zap.String("kind", string(kind)),
		zap.String("sort", string(query.Sort)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", page.TotalItems),
		zap.Int("page", page.CurrentPage),
	)
	return page, nil
}

// Detail returns a single discoverable listing and records a view.
func (s *discoveryService) Detail(ctx context.Context, kind domain.ListingKind, id string, origin *domain.Location) (domain.RankedResult, error) {
	listing, err := s.discoverable(ctx, kind, id)
	if err != nil {
		return domain.RankedResult{}, err
	}

	rating, err := s.ratings.Aggregate(ctx, listing.Subject())
	if err != nil {
		return domain.RankedResult{}, err
	}

	result := domain.RankedResult{
		Listing:    *listing,
		Rating:     rating,
		DistanceKm: distanceFrom(origin, listing.Location),
		Score:      rating.Average,
	}
	if kind == domain.KindService {
		items := []domain.RankedResult{result}
		if err := s.attachProviders(ctx, items); err != nil {
			return domain.RankedResult{}, err
		}
		result = items[0]
	}

	s.recordView(ctx, kind, listing.ID)
	return result, nil
}

// TopRated returns the best listings by weighted score.
func (s *discoveryService) TopRated(ctx context.Context, kind domain.ListingKind, limit int) ([]domain.RankedResult, error) {
	if limit <= 0 {
		limit = TopRatedLimit
	}
	page, err := s.Discover(ctx, kind, domain.SearchQuery{
		Sort:     domain.SortWeightedScore,
		Order:    domain.OrderDesc,
		Page:     1,
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Reviews lists a discoverable listing's reviews, newest first.
func (s *discoveryService) Reviews(ctx context.Context, kind domain.ListingKind, id string, page, pageSize int) (domain.Page[domain.Review], error) {
	listing, err := s.discoverable(ctx, kind, id)
	if err != nil {
		return domain.Page[domain.Review]{}, err
	}
	reviews, err := s.ratings.reviews.FindBySubject(ctx, listing.Subject())
	if err != nil {
		return domain.Page[domain.Review]{}, domain.Upstream("find reviews "+id, err)
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID < reviews[j].ID
	})
	return Paginate(reviews, page, min(pageSize, s.maxPageSize)), nil
}

// discoverable loads a listing and hides it unless it and its provider are approved.
func (s *discoveryService) discoverable(ctx context.Context, kind domain.ListingKind, id string) (*domain.Listing, error) {
	if !kind.Valid() {
		return nil, domain.Invalid("kind", "unknown listing kind %q", kind)
	}
	listing, err := s.listings.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.Upstream("find "+string(kind)+" "+id, err)
	}
	if listing.Status != domain.StatusApproved {
		return nil, domain.ErrNotFound
	}
	if kind == domain.KindService {
		provider, err := s.listings.FindByID(ctx, domain.KindProvider, listing.ProviderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.Upstream("find provider "+listing.ProviderID, err)
		}
		if provider.Status != domain.StatusApproved {
			return nil, domain.ErrNotFound
		}
	}
	return listing, nil
}

func (s *discoveryService) enrichRatings(ctx context.Context, results []domain.RankedResult) error {
	subjects := make([]domain.Subject, len(results))
	for i := range results {
		subjects[i] = results[i].Listing.Subject()
	}
	ratings, err := s.ratings.AggregateAll(ctx, subjects)
	if err != nil {
		return err
	}
	for i := range results {
		results[i].Rating = ratings[i]
	}
	return nil
}

// attachProviders fills the provider summary of service results in place.
func (s *discoveryService) attachProviders(ctx context.Context, results []domain.RankedResult) error {
	if len(results) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(results))
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Listing.ProviderID]; ok || r.Listing.ProviderID == "" {
			continue
		}
		seen[r.Listing.ProviderID] = struct{}{}
		ids = append(ids, r.Listing.ProviderID)
	}

	providers, err := s.listings.FindByIDs(ctx, domain.KindProvider, ids)
	if err != nil {
		return domain.Upstream("find providers", err)
	}
	subjects := make([]domain.Subject, len(providers))
	for i, p := range providers {
		subjects[i] = p.Subject()
	}
	ratings, err := s.ratings.AggregateAll(ctx, subjects)
	if err != nil {
		return err
	}

	summaries := make(map[string]*domain.ProviderSummary, len(providers))
	for i, p := range providers {
		summaries[p.ID] = &domain.ProviderSummary{
			ID:         p.ID,
			Name:       p.Title,
			Location:   p.Location,
			Rating:     ratings[i],
			IsVerified: p.IsVerified,
		}
	}
	for i := range results {
		results[i].Provider = summaries[results[i].Listing.ProviderID]
	}
	return nil
}

// recordView increments the view counter without blocking or failing the read.
func (s *discoveryService) recordView(ctx context.Context, kind domain.ListingKind, id string) {
	go func() {
		viewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.viewTimeout)
		defer cancel()

		err := s.listings.IncrementView(viewCtx, kind, id)
		metrics.ViewIncremented(string(kind), err)
		if err != nil {
			s.logger.Warn("view counter increment failed",
				zap.String("kind", string(kind)),
				zap.String("id", id),
				zap.Error(err),
			)
		}
	}()
}

func distanceFrom(origin, location *domain.Location) *float64 {
	if origin == nil || location == nil {
		return nil
	}
	d := geo.DistanceKm(origin.Latitude, origin.Longitude, location.Latitude, location.Longitude)
	return &d
}
