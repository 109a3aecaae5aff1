package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// GeoPointDocument is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// PriceDocument is the embedded price of a service.
type PriceDocument struct {
	Amount float64 `bson:"amount"`
	Unit   string  `bson:"unit,omitempty"`
}

// ProviderDocument is the MongoDB schema of a provider.
type ProviderDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	OwnerID     string             `bson:"ownerId,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Tags        []string           `bson:"tags,omitempty"`
	Price       *PriceDocument     `bson:"price,omitempty"`
	Location    *GeoPointDocument  `bson:"location,omitempty"`
	Address     string             `bson:"address,omitempty"`
	Status      string             `bson:"status"`
	IsVerified  bool               `bson:"isVerified"`
	ImageURLs   []string           `bson:"imageURLs,omitempty"`
	Views       int64              `bson:"views"`
	CreatedAt   *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time         `bson:"updatedAt,omitempty"`
}

// ServiceDocument is the MongoDB schema of a service offered by a provider.
type ServiceDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	ProviderID  primitive.ObjectID `bson:"providerId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Tags        []string           `bson:"tags,omitempty"`
	Price       *PriceDocument     `bson:"price,omitempty"`
	Location    *GeoPointDocument  `bson:"location,omitempty"`
	Address     string             `bson:"address,omitempty"`
	Status      string             `bson:"status"`
	ImageURLs   []string           `bson:"imageURLs,omitempty"`
	Views       int64              `bson:"views"`
	CreatedAt   *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time         `bson:"updatedAt,omitempty"`
}

// ReviewDocument is the MongoDB schema of a review. providerId is denormalised so
// provider ratings aggregate without joining services.
type ReviewDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	SubjectType  string             `bson:"subjectType"`
	SubjectID    primitive.ObjectID `bson:"subjectId"`
	ProviderID   primitive.ObjectID `bson:"providerId"`
	ReviewerID   string             `bson:"reviewerId"`
	ReviewerName string             `bson:"reviewerName,omitempty"`
	Rating       int                `bson:"rating"`
	Comment      string             `bson:"comment,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

// FailedNotificationDocument records a notification that exhausted its retries.
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Target      string             `bson:"target"`
	Key         string             `bson:"key"`
	Payload     map[string]any     `bson:"payload"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastTriedAt time.Time          `bson:"lastTriedAt"`
}

func newGeoPoint(loc *domain.Location) *GeoPointDocument {
	if loc == nil {
		return nil
	}
	return &GeoPointDocument{Type: "Point", Coordinates: []float64{loc.Longitude, loc.Latitude}}
}

func (g *GeoPointDocument) location() *domain.Location {
	if g == nil || len(g.Coordinates) != 2 {
		return nil
	}
	return &domain.Location{Latitude: g.Coordinates[1], Longitude: g.Coordinates[0]}
}

func (p *PriceDocument) price() domain.Price {
	if p == nil {
		return domain.Price{}
	}
	return domain.Price{Amount: p.Amount, Unit: p.Unit}
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func mapProviderDocument(doc ProviderDocument) domain.Listing {
	return domain.Listing{
		ID:          doc.ID.Hex(),
		Kind:        domain.KindProvider,
		OwnerID:     doc.OwnerID,
		Title:       doc.Name,
		Description: doc.Description,
		Category:    doc.Category,
		Tags:        append([]string{}, doc.Tags...),
		Price:       doc.Price.price(),
		Location:    doc.Location.location(),
		Address:     doc.Address,
		Status:      domain.Status(doc.Status),
		IsVerified:  doc.IsVerified,
		ImageURLs:   append([]string{}, doc.ImageURLs...),
		Views:       doc.Views,
		CreatedAt:   timeValue(doc.CreatedAt),
		UpdatedAt:   timeValue(doc.UpdatedAt),
	}
}

func mapServiceDocument(doc ServiceDocument) domain.Listing {
	return domain.Listing{
		ID:          doc.ID.Hex(),
		Kind:        domain.KindService,
		ProviderID:  doc.ProviderID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Category:    doc.Category,
		Tags:        append([]string{}, doc.Tags...),
		Price:       doc.Price.price(),
		Location:    doc.Location.location(),
		Address:     doc.Address,
		Status:      domain.Status(doc.Status),
		ImageURLs:   append([]string{}, doc.ImageURLs...),
		Views:       doc.Views,
		CreatedAt:   timeValue(doc.CreatedAt),
		UpdatedAt:   timeValue(doc.UpdatedAt),
	}
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	return domain.Review{
		ID:           doc.ID.Hex(),
		Subject:      domain.Subject{Kind: domain.ListingKind(doc.SubjectType), ID: doc.SubjectID.Hex()},
		ProviderID:   doc.ProviderID.Hex(),
		ReviewerID:   doc.ReviewerID,
		ReviewerName: doc.ReviewerName,
		Rating:       doc.Rating,
		Comment:      doc.Comment,
		CreatedAt:    doc.CreatedAt,
	}
}
