package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

const collectionAccounts = "users"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

type accountDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	Role              string             `bson:"role"`
	Profile           domain.Profile     `bson:"profile"`
	ProfileComplete   bool               `bson:"profile_complete"`
	Active            bool               `bson:"active"`
	EmailVerified     bool               `bson:"email_verified"`
	VerificationToken string             `bson:"verification_token,omitempty"`
	ResetTokenHash    string             `bson:"reset_token_hash,omitempty"`
	ResetTokenExpiry  *time.Time         `bson:"reset_token_expiry,omitempty"`
	LastLogin         *time.Time         `bson:"last_login,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	doc := accountDoc{
		Name:              a.Name,
		Email:             a.Email,
		PasswordHash:      a.PasswordHash,
		Role:              string(a.Role),
		Profile:           a.Profile,
		ProfileComplete:   a.ProfileComplete,
		Active:            a.Active,
		EmailVerified:     a.EmailVerified,
		VerificationToken: a.VerificationToken,
		ResetTokenHash:    a.ResetTokenHash,
		LastLogin:         a.LastLogin,
		CreatedAt:         a.CreatedAt.UTC(),
		UpdatedAt:         a.UpdatedAt.UTC(),
	}
	if !a.ResetTokenExpiry.IsZero() {
		exp := a.ResetTokenExpiry.UTC()
		doc.ResetTokenExpiry = &exp
	}
	return doc
}

func (d accountDoc) toDomain() *domain.Account {
	a := &domain.Account{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Role:              domain.Role(d.Role),
		Profile:           d.Profile,
		ProfileComplete:   d.ProfileComplete,
		Active:            d.Active,
		EmailVerified:     d.EmailVerified,
		VerificationToken: d.VerificationToken,
		ResetTokenHash:    d.ResetTokenHash,
		LastLogin:         d.LastLogin,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.ResetTokenExpiry != nil {
		a.ResetTokenExpiry = *d.ResetTokenExpiry
	}
	if a.Profile.Provider.Skills == nil {
		a.Profile.Provider.Skills = []string{}
	}
	return a
}

// Create inserts a new account. The unique email index turns a racing
// duplicate signup into domain.ErrDuplicateAccount.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAccountDoc(a)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"verification_token": token})
}

func (r *AccountRepository) FindByResetTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"reset_token_hash": hash})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces every mutable field. Token fields cleared on the domain
// object are unset in the document.
func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAccountDoc(a)
	set := bson.M{
		"name":             doc.Name,
		"email":            doc.Email,
		"password_hash":    doc.PasswordHash,
		"role":             doc.Role,
		"profile":          doc.Profile,
		"profile_complete": doc.ProfileComplete,
		"active":           doc.Active,
		"email_verified":   doc.EmailVerified,
		"updated_at":       doc.UpdatedAt,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "verification_token", doc.VerificationToken, doc.VerificationToken != "")
	setOrUnset(set, unset, "reset_token_hash", doc.ResetTokenHash, doc.ResetTokenHash != "")
	setOrUnset(set, unset, "reset_token_expiry", doc.ResetTokenExpiry, doc.ResetTokenExpiry != nil)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAccount
		}
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func setOrUnset(set, unset bson.M, key string, value any, present bool) {
	if present {
		set[key] = value
		return
	}
	unset[key] = ""
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"last_login": at.UTC()}})
	return err
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ListProviders returns active providers matching filter, newest first.
func (r *AccountRepository) ListProviders(ctx context.Context, f ports.ListProvidersFilter) ([]*domain.Account, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := providerFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}

	opts := skipLimit(f.Page, f.Limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password_hash": 0, "reset_token_hash": 0, "verification_token": 0})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find providers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode providers: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func providerFilter(f ports.ListProvidersFilter) bson.M {
	filter := bson.M{
		"role":   string(domain.RoleProvider),
		"active": true,
	}
	if f.ServiceType != "" {
		filter["profile.provider.service_type"] = f.ServiceType
	}
	if f.Location != "" {
		filter["profile.location"] = containsFold(f.Location)
	}
	if f.Skill != "" {
		filter["profile.provider.skills"] = containsFold(f.Skill)
	}
	return filter
}

// EnsureIndexes creates the indexes the account queries rely on.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "profile.provider.service_type", Value: 1}}},
		{Keys: bson.D{{Key: "verification_token", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "reset_token_hash", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
