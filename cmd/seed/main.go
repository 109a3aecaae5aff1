package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	mongodoc "github.com/Rhey-Ranido/service-hub-sub001/internal/infrastructure/mongo"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/logger"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

type seedOptions struct {
	envFile         string
	providerCount   int
	maxServices     int
	maxReviews      int
	dropCollections bool
	randomSeed      int64
}

type city struct {
	name string
	lat  float64
	lng  float64
}

func main() {
	opts := parseFlags()

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load env file: %v", err)
	}

	zl, err := logger.NewLogger("local", envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	cols := mongodoc.Collections{
		Providers:           envOrDefault("PROVIDER_COLLECTION", "providers"),
		Services:            envOrDefault("SERVICE_COLLECTION", "services"),
		Reviews:             envOrDefault("REVIEW_COLLECTION", "reviews"),
		FailedNotifications: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
	}
	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "service-hub")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		zl.Fatal("connect mongo", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		for _, name := range []string{cols.Providers, cols.Services, cols.Reviews, cols.FailedNotifications} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				zl.Warn("drop collection", zap.String("collection", name), zap.Error(err))
			}
		}
		zl.Info("dropped existing collections")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cols); err != nil {
		zl.Fatal("ensure indexes", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()

	providers := generateProviders(rng, opts.providerCount, now)
	services := generateServices(rng, providers, opts.maxServices, now)
	reviews := generateReviews(rng, providers, services, opts.maxReviews, now)

	if err := insertMany(ctx, db.Collection(cols.Providers), providers); err != nil {
		zl.Fatal("insert providers", zap.Error(err))
	}
	if err := insertMany(ctx, db.Collection(cols.Services), services); err != nil {
		zl.Fatal("insert services", zap.Error(err))
	}
	if err := insertMany(ctx, db.Collection(cols.Reviews), reviews); err != nil {
		zl.Fatal("insert reviews", zap.Error(err))
	}

	zl.Info("seed complete",
		zap.Int("providers", len(providers)),
		zap.Int("services", len(services)),
		zap.Int("reviews", len(reviews)),
		zap.String("database", dbName),
		zap.Int64("seed", opts.randomSeed),
	)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", ".env", "optional env file to preload")
	flag.IntVar(&opts.providerCount, "providers", 12, "number of providers to generate")
	flag.IntVar(&opts.maxServices, "services", 4, "maximum services per provider")
	flag.IntVar(&opts.maxReviews, "reviews", 25, "maximum reviews per listing")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop existing collections before seeding")
	flag.Int64Var(&opts.randomSeed, "seed", 42, "random seed; the same seed yields the same data")
	flag.Parse()

	if opts.providerCount <= 0 {
		log.Fatal("providers must be at least 1")
	}
	if opts.maxServices < 1 {
		opts.maxServices = 1
	}
	if opts.maxReviews < 0 {
		opts.maxReviews = 0
	}
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func generateProviders(rng *rand.Rand, count int, now time.Time) []mongodoc.ProviderDocument {
	docs := make([]mongodoc.ProviderDocument, 0, count)
	for i := 0; i < count; i++ {
		c := cities[i%len(cities)]
		category := categories[rng.Intn(len(categories))]
		created := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)

		docs = append(docs, mongodoc.ProviderDocument{
			ID:          primitive.NewObjectID(),
			OwnerID:     fmt.Sprintf("owner-%03d", i+1),
			Name:        fmt.Sprintf("%s %s", providerNames[i%len(providerNames)], c.name),
			Description: descriptions[rng.Intn(len(descriptions))],
			Category:    category,
			Tags:        pickUnique(rng, tagOptions, 1+rng.Intn(3)),
			Location:    jitter(rng, c),
			Address:     fmt.Sprintf("%d Main St, %s", 10+rng.Intn(900), c.name),
			Status:      string(randomStatus(rng)),
			IsVerified:  rng.Float64() < 0.6,
			ImageURLs:   []string{fmt.Sprintf("providers/%d/cover.jpg", i+1)},
			Views:       int64(rng.Intn(5000)),
			CreatedAt:   &created,
			UpdatedAt:   &created,
		})
	}
	return docs
}

func generateServices(rng *rand.Rand, providers []mongodoc.ProviderDocument, maxPerProvider int, now time.Time) []mongodoc.ServiceDocument {
	var docs []mongodoc.ServiceDocument
	for _, p := range providers {
		n := 1 + rng.Intn(maxPerProvider)
		for j := 0; j < n; j++ {
			created := now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour)
			title := serviceTitles[p.Category][rng.Intn(len(serviceTitles[p.Category]))]
			docs = append(docs, mongodoc.ServiceDocument{
				ID:          primitive.NewObjectID(),
				ProviderID:  p.ID,
				Title:       title,
				Description: fmt.Sprintf("%s by %s", title, p.Name),
				Category:    p.Category,
				Tags:        pickUnique(rng, tagOptions, rng.Intn(3)),
				Price: &mongodoc.PriceDocument{
					Amount: round(20+rng.Float64()*180, 2),
					Unit:   priceUnits[rng.Intn(len(priceUnits))],
				},
				Location:  p.Location,
				Address:   p.Address,
				Status:    string(randomStatus(rng)),
				ImageURLs: []string{fmt.Sprintf("services/%s/1.jpg", p.ID.Hex())},
				Views:     int64(rng.Intn(2000)),
				CreatedAt: &created,
				UpdatedAt: &created,
			})
		}
	}
	return docs
}

func generateReviews(rng *rand.Rand, providers []mongodoc.ProviderDocument, services []mongodoc.ServiceDocument, maxPerListing int, now time.Time) []mongodoc.ReviewDocument {
	var docs []mongodoc.ReviewDocument
	add := func(kind domain.ListingKind, subject, provider primitive.ObjectID) {
		if maxPerListing == 0 {
			return
		}
		// a per-listing bias keeps averages spread across the ranking
		bias := 1 + rng.Float64()*4
		for r := 0; r < rng.Intn(maxPerListing+1); r++ {
			rating := int(math.Round(bias + rng.NormFloat64()*0.8))
			rating = max(domain.MinRating, min(domain.MaxRating, rating))
			docs = append(docs, mongodoc.ReviewDocument{
				ID:           primitive.NewObjectID(),
				SubjectType:  string(kind),
				SubjectID:    subject,
				ProviderID:   provider,
				ReviewerID:   fmt.Sprintf("client-%04d", r+1),
				ReviewerName: reviewerNames[rng.Intn(len(reviewerNames))],
				Rating:       rating,
				Comment:      comments[rating-1],
				CreatedAt:    now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour),
			})
		}
	}

	for _, p := range providers {
		add(domain.KindProvider, p.ID, p.ID)
	}
	for _, s := range services {
		add(domain.KindService, s.ID, s.ProviderID)
	}
	return docs
}

func randomStatus(rng *rand.Rand) domain.Status {
	switch n := rng.Intn(10); {
	case n < 7:
		return domain.StatusApproved
	case n < 9:
		return domain.StatusPending
	default:
		return domain.StatusSuspended
	}
}

// jitter places a point within roughly 15km of the city centre.
func jitter(rng *rand.Rand, c city) *mongodoc.GeoPointDocument {
	lat := c.lat + (rng.Float64()-0.5)*0.27
	lng := c.lng + (rng.Float64()-0.5)*0.27/math.Cos(c.lat*math.Pi/180)
	return &mongodoc.GeoPointDocument{Type: "Point", Coordinates: []float64{round(lng, 6), round(lat, 6)}}
}

func insertMany[T any](ctx context.Context, col *mongo.Collection, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	out := make([]any, len(docs))
	for i := range docs {
		out[i] = docs[i]
	}
	_, err := col.InsertMany(ctx, out)
	return err
}

func pickUnique(rng *rand.Rand, source []string, count int) []string {
	if count >= len(source) {
		return append([]string(nil), source...)
	}
	perm := rng.Perm(len(source))[:count]
	result := make([]string, 0, count)
	for _, idx := range perm {
		result = append(result, source[idx])
	}
	return result
}

func round(val float64, precision int) float64 {
	mul := math.Pow(10, float64(precision))
	return math.Round(val*mul) / mul
}

var (
	cities = []city{
		{name: "Manila", lat: 14.5995, lng: 120.9842},
		{name: "Cebu", lat: 10.3157, lng: 123.8854},
		{name: "Davao", lat: 7.1907, lng: 125.4553},
		{name: "Baguio", lat: 16.4023, lng: 120.5960},
	}

	providerNames = []string{
		"BrightFix", "CleanNest", "Sparkle Crew", "PipeWorks", "GreenLeaf Gardens", "VoltPro",
		"TutorHub", "PawCare", "FreshCut Studio", "HomeChef", "SafeMove", "CodeCraft",
	}

	categories = []string{"cleaning", "plumbing", "electrical", "tutoring", "beauty", "moving"}

	serviceTitles = map[string][]string{
		"cleaning":   {"Deep house cleaning", "Move-out cleaning", "Sofa shampoo"},
		"plumbing":   {"Leak repair", "Drain unclogging", "Water heater install"},
		"electrical": {"Outlet installation", "Wiring inspection", "Lighting setup"},
		"tutoring":   {"Math tutoring", "English lessons", "Exam preparation"},
		"beauty":     {"Haircut at home", "Manicure", "Bridal makeup"},
		"moving":     {"Apartment move", "Furniture assembly", "Same-day delivery"},
	}

	tagOptions = []string{"same-day", "weekends", "eco-friendly", "insured", "family-owned", "24h"}
	priceUnits = []string{"hour", "job", "session"}

	descriptions = []string{
		"Licensed team serving the metro area for over ten years.",
		"Small family business focused on careful, on-time work.",
		"Flexible scheduling with transparent upfront pricing.",
	}

	reviewerNames = []string{"Ana", "Ben", "Carla", "Diego", "Elena", "Felix", "Grace", "Hugo"}

	comments = []string{
		"Did not show up on time and the job was unfinished.",
		"Below expectations, had to call them back twice.",
		"Okay overall, nothing special.",
		"Good work and friendly staff.",
		"Excellent, would book again!",
	}
)
