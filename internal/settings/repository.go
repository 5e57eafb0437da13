package settings

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository provides access to the singleton settings document
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// MongoRepository implements Repository using a Mongo collection holding at
// most one document.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// Get returns the settings document, creating it with defaults on first
// access so callers never observe an absent singleton.
func (r *MongoRepository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.col.FindOne(ctx, bson.M{}).Decode(&s)
	if err == nil {
		return &s, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	def := Defaults()
	now := time.Now().UTC()
	def.CreatedAt = now
	def.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, def); err != nil {
		// a concurrent first access may have created it already
		var s2 Settings
		if ferr := r.col.FindOne(ctx, bson.M{}).Decode(&s2); ferr == nil {
			return &s2, nil
		}
		return nil, err
	}
	return def, nil
}

// Save upserts the singleton document.
func (r *MongoRepository) Save(ctx context.Context, s *Settings) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	set := bson.M{
		"name":           s.Name,
		"headline":       s.Headline,
		"summary":        s.Summary,
		"avatarUrl":      s.AvatarURL,
		"avatarPublicId": s.AvatarPublicID,
		"githubUrl":      s.GithubURL,
		"linkedinUrl":    s.LinkedinURL,
		"twitterUrl":     s.TwitterURL,
		"contactEmail":   s.ContactEmail,
		"heroTitle":      s.HeroTitle,
		"heroSubtitle":   s.HeroSubtitle,
		"ctaText":        s.CTAText,
		"timeline":       s.Timeline,
		"skills":         s.Skills,
		"testimonials":   s.Testimonials,
		"notes":          s.Notes,
		"createdAt":      s.CreatedAt,
		"updatedAt":      s.UpdatedAt,
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{}, bson.M{"$set": set}, opts)
	return err
}
