package domain

import "time"

// ListingKind distinguishes the two listing types ranked by the discovery engine.
type ListingKind string

const (
	KindService  ListingKind = "service"
	KindProvider ListingKind = "provider"
)

// Valid reports whether k is a known kind.
func (k ListingKind) Valid() bool {
	return k == KindService || k == KindProvider
}

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
)

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuspended:
		return s, true
	}
	return "", false
}

// Location is a WGS84 point in degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Price is the advertised price of a listing.
type Price struct {
	Amount float64
	Unit   string
}

// Listing is a service or provider record eligible for discovery.
// Rating is never stored on the listing; it is derived from reviews at read time.
type Listing struct {
	ID          string
	Kind        ListingKind
	ProviderID  string
	// OwnerID is the account managing a provider. Empty for services.
	OwnerID     string
	Title       string
	Description string
	Category    string
	Tags        []string
	Price       Price
	Location    *Location
	Address     string
	Status      Status
	IsVerified  bool
	ImageURLs   []string
	Views       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Subject identifies whose reviews are aggregated for this listing.
func (l Listing) Subject() Subject {
	return Subject{Kind: l.Kind, ID: l.ID}
}

// ProviderSummary is the provider block attached to service results.
type ProviderSummary struct {
	ID         string
	Name       string
	Location   *Location
	Rating     Rating
	IsVerified bool
}
