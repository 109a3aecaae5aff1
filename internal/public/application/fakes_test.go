package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// --- Fakes ---

type fakeListings struct {
	mu        sync.Mutex
	listings  map[domain.ListingKind][]domain.Listing
	findErr   error
	byIDErr   error
	viewErr   error
	views     map[string]int
	lastQuery domain.Filter
	viewed    chan string
}

func newFakeListings(listings ...domain.Listing) *fakeListings {
	f := &fakeListings{
		listings: map[domain.ListingKind][]domain.Listing{},
		views:    map[string]int{},
		viewed:   make(chan string, 16),
	}
	for _, l := range listings {
		f.listings[l.Kind] = append(f.listings[l.Kind], l)
	}
	return f
}

func (f *fakeListings) FindApproved(_ context.Context, kind domain.ListingKind, filter domain.Filter) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = filter
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []domain.Listing
	for _, l := range f.listings[kind] {
		if !filter.Matches(l) {
			continue
		}
		if kind == domain.KindService && !f.providerApproved(l.ProviderID) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeListings) providerApproved(id string) bool {
	for _, p := range f.listings[domain.KindProvider] {
		if p.ID == id {
			return p.Status == domain.StatusApproved
		}
	}
	return false
}

func (f *fakeListings) FindByID(_ context.Context, kind domain.ListingKind, id string) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	for _, l := range f.listings[kind] {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeListings) FindByIDs(_ context.Context, kind domain.ListingKind, ids []string) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Listing
	for _, l := range f.listings[kind] {
		if want[l.ID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListings) IncrementView(_ context.Context, _ domain.ListingKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.viewed <- id }()
	if f.viewErr != nil {
		return f.viewErr
	}
	f.views[id]++
	return nil
}

type fakeReviews struct {
	mu        sync.Mutex
	bySubject map[string][]domain.Review
	failFor   map[string]error
	calls     int
	created   []domain.Review
	createErr error
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{bySubject: map[string][]domain.Review{}, failFor: map[string]error{}}
}

func (f *fakeReviews) add(subjectID string, ratings ...int) {
	for _, r := range ratings {
		f.bySubject[subjectID] = append(f.bySubject[subjectID], domain.Review{Rating: r})
	}
}

func (f *fakeReviews) FindBySubject(ctx context.Context, subject domain.Subject) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.failFor[subject.ID]; ok {
		return nil, err
	}
	return append([]domain.Review(nil), f.bySubject[subject.ID]...), nil
}

func (f *fakeReviews) Create(_ context.Context, review *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.created {
		if r.Subject == review.Subject && r.ReviewerID == review.ReviewerID {
			return domain.ErrDuplicateReview
		}
	}
	review.ID = fmt.Sprintf("r%d", len(f.created)+1)
	f.created = append(f.created, *review)
	return nil
}

type recordingHook struct {
	calls     []domain.Review
	providers []string
}

func (h *recordingHook) ReviewCreated(_ context.Context, event ReviewCreatedEvent) {
	h.calls = append(h.calls, event.Review)
	h.providers = append(h.providers, event.Provider.ID)
}
