package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

const collectionServices = "services"

type ServiceRepository struct {
	col *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{col: db.Collection(collectionServices)}
}

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

type serviceDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	Category     string             `bson:"category"`
	Price        float64            `bson:"price"`
	PriceUnit    string             `bson:"price_unit"`
	Duration     string             `bson:"duration,omitempty"`
	Availability string             `bson:"availability,omitempty"`
	Location     string             `bson:"location,omitempty"`
	Tags         []string           `bson:"tags"`
	ProviderID   primitive.ObjectID `bson:"provider_id"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// sortKeys maps whitelisted sort fields to document keys.
var sortKeys = map[ports.SortField]string{
	ports.SortCreatedAt: "created_at",
	ports.SortPrice:     "price",
	ports.SortTitle:     "title",
}

func toServiceDoc(s *domain.Service, provider primitive.ObjectID) serviceDoc {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return serviceDoc{
		Title:        s.Title,
		Description:  s.Description,
		Category:     s.Category,
		Price:        s.Price,
		PriceUnit:    s.PriceUnit,
		Duration:     s.Duration,
		Availability: s.Availability,
		Location:     s.Location,
		Tags:         tags,
		ProviderID:   provider,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
	}
}

func (d serviceDoc) toDomain() *domain.Service {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Service{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Price:        d.Price,
		PriceUnit:    d.PriceUnit,
		Duration:     d.Duration,
		Availability: d.Availability,
		Location:     d.Location,
		Tags:         tags,
		ProviderID:   d.ProviderID.Hex(),
		Status:       domain.ServiceStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	provider, ok := objectID(s.ProviderID)
	if !ok {
		return nil, domain.NewValidationError("invalid provider id")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toServiceDoc(s, provider)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID returns domain.ErrNotFound for unknown or malformed ids.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc serviceDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ServiceRepository) List(ctx context.Context, f ports.ListServicesFilter) ([]*domain.Service, int64, error) {
	filter, ok := serviceFilter(f)
	if !ok {
		return []*domain.Service{}, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	key, known := sortKeys[f.SortBy]
	if !known {
		key = "created_at"
	}
	dir := 1
	if f.SortDesc {
		dir = -1
	}
	opts := skipLimit(f.Page, f.Limit).SetSort(bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find services: %w", err)
	}
	defer cur.Close(ctx)

	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode services: %w", err)
	}

	out := make([]*domain.Service, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// serviceFilter translates f into a query. ok is false when the filter can
// match nothing, such as a malformed provider id.
func serviceFilter(f ports.ListServicesFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.Location != "" {
		filter["location"] = containsFold(f.Location)
	}
	if f.Availability != "" {
		filter["availability"] = f.Availability
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ProviderID != "" {
		oid, ok := objectID(f.ProviderID)
		if !ok {
			return nil, false
		}
		filter["provider_id"] = oid
	}
	if f.Search != "" {
		re := containsFold(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}
	return filter, true
}

// Update writes s only while its provider is still ownerID, so a stale
// ownership check cannot overwrite another provider's service.
func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service, ownerID string) error {
	oid, ok := objectID(s.ID)
	if !ok {
		return domain.ErrNotFound
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return domain.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toServiceDoc(s, owner)
	update := bson.M{"$set": bson.M{
		"title":        doc.Title,
		"description":  doc.Description,
		"category":     doc.Category,
		"price":        doc.Price,
		"price_unit":   doc.PriceUnit,
		"duration":     doc.Duration,
		"availability": doc.Availability,
		"location":     doc.Location,
		"tags":         doc.Tags,
		"status":       doc.Status,
		"updated_at":   doc.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "provider_id": owner}, update)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrForbidden(ctx, oid)
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrNotFound
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return domain.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "provider_id": owner})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.missOrForbidden(ctx, oid)
	}
	return nil
}

func (r *ServiceRepository) missOrForbidden(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("check service: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrForbidden
}

func (r *ServiceRepository) DeleteByProvider(ctx context.Context, providerID string) (int64, error) {
	owner, ok := objectID(providerID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"provider_id": owner})
	if err != nil {
		return 0, fmt.Errorf("delete provider services: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes the catalog queries rely on.
func (r *ServiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
