package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	admindomain "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/domain"
	publicdomain "github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

const defaultModerationPageSize = 20

type moderationService struct {
	repo   ModerationRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewModerationService creates the admin moderation service.
func NewModerationService(repo ModerationRepository, logger *zap.Logger) ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &moderationService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *moderationService) List(ctx context.Context, kind publicdomain.ListingKind, rawStatus string, page, limit int) (publicdomain.Page[admindomain.Listing], error) {
	if !kind.Valid() {
		return publicdomain.Page[admindomain.Listing]{}, publicdomain.Invalid("kind", "unknown listing kind %q", kind)
	}
	var status *publicdomain.Status
	if raw := strings.TrimSpace(rawStatus); raw != "" {
		parsed, ok := publicdomain.ParseStatus(strings.ToLower(raw))
		if !ok {
			return publicdomain.Page[admindomain.Listing]{}, publicdomain.Invalid("status", "unknown status %q", raw)
		}
		status = &parsed
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultModerationPageSize
	}
	if limit > publicdomain.MaxPageSize {
		limit = publicdomain.MaxPageSize
	}

	items, total, err := s.repo.List(ctx, kind, status, page, limit)
	if err != nil {
		return publicdomain.Page[admindomain.Listing]{}, publicdomain.Upstream("list "+string(kind)+"s", err)
	}
	totalPages := (total + limit - 1) / limit
	return publicdomain.Page[admindomain.Listing]{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

func (s *moderationService) ChangeStatus(ctx context.Context, kind publicdomain.ListingKind, id, rawStatus string) (*admindomain.Listing, error) {
	if !kind.Valid() {
		return nil, publicdomain.Invalid("kind", "unknown listing kind %q", kind)
	}
	to, ok := publicdomain.ParseStatus(strings.ToLower(strings.TrimSpace(rawStatus)))
	if !ok {
		return nil, publicdomain.Invalid("status", "unknown status %q", rawStatus)
	}

	listing, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, publicdomain.ErrNotFound) {
			return nil, publicdomain.ErrNotFound
		}
		return nil, publicdomain.Upstream("find "+string(kind)+" "+id, err)
	}

	from := listing.Status
	if err := listing.Transition(to, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, kind, id, from, to, listing.UpdatedAt); err != nil {
		return nil, publicdomain.Upstream("update "+string(kind)+" status", err)
	}

	s.logger.Info("listing status changed",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return listing, nil
}
