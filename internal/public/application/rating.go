package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

const defaultAggregationConcurrency = 8

// RatingAggregator derives ratings from the review store on every call.
type RatingAggregator struct {
	reviews     ReviewRepository
	concurrency int
}

// NewRatingAggregator creates an aggregator that fans out at most concurrency fetches.
func NewRatingAggregator(reviews ReviewRepository, concurrency int) *RatingAggregator {
	if concurrency <= 0 {
		concurrency = defaultAggregationConcurrency
	}
	return &RatingAggregator{reviews: reviews, concurrency: concurrency}
}

// Aggregate returns the average and count of the subject's reviews.
// A fetch failure is returned as an error, never as an empty rating.
func (a *RatingAggregator) Aggregate(ctx context.Context, subject domain.Subject) (domain.Rating, error) {
	reviews, err := a.reviews.FindBySubject(ctx, subject)
	if err != nil {
		return domain.Rating{}, domain.Upstream("find reviews "+subject.ID, err)
	}
	return summarize(reviews), nil
}

// AggregateAll aggregates each subject independently. The result is aligned with
// subjects. The first failure cancels the remaining fetches.
func (a *RatingAggregator) AggregateAll(ctx context.Context, subjects []domain.Subject) ([]domain.Rating, error) {
	ratings := make([]domain.Rating, len(subjects))
	if len(subjects) == 0 {
		return ratings, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, subject := range subjects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := a.Aggregate(gctx, subject)
			if err != nil {
				return err
			}
			ratings[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.Upstream("aggregate ratings", err)
	}
	return ratings, nil
}

func summarize(reviews []domain.Review) domain.Rating {
	if len(reviews) == 0 {
		return domain.Rating{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return domain.Rating{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}
