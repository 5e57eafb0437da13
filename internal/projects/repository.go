package projects

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("project not found")

	// ErrDuplicateSlug is surfaced when a commit loses the check-then-act
	// race and hits the unique slug index.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// Repository defines persistence operations for projects
type Repository interface {
	Insert(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	ListFeatured(ctx context.Context, limit int64) ([]*Project, error)
	Count(ctx context.Context) (int64, error)
	SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a repository for the given collection and
// ensures the unique slug index, the storage-layer backstop for the
// uniqueness probe.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, p *Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":       p.Title,
		"description": p.Description,
		"imageUrl":    p.ImageURL,
		"imagePublicId": p.ImagePublicID,
		"githubUrl":   p.GithubURL,
		"demoUrl":     p.DemoURL,
		"tech":        p.Tech,
		"year":        p.Year,
		"featured":    p.Featured,
		"slug":        p.Slug,
		"updatedAt":   p.UpdatedAt,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	var p Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	var p Project
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects, most recently updated first. The ordering also
// drives the backfill pass so recently edited projects keep their slugs when
// older duplicates need re-suffixing.
func (r *MongoRepository) List(ctx context.Context) ([]*Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Project{}
	for cur.Next(ctx) {
		var p Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *MongoRepository) ListFeatured(ctx context.Context, limit int64) ([]*Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"featured": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Project{}
	for cur.Next(ctx) {
		var p Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// SlugExists reports whether any project other than excludeID already holds
// the slug.
func (r *MongoRepository) SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug, "_id": bson.M{"$ne": excludeID}}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
