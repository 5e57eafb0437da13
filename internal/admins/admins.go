package admins

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/portfoliokit/portfolio/pkg/logger"
)

var ErrNotFound = errors.New("admin not found")

// Admin is a panel account with locally stored credentials.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Repository defines persistence operations for admin accounts
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	Insert(ctx context.Context, a *Admin) error
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates the repository and ensures the unique username index.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) Insert(ctx context.Context, a *Admin) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, a)
	return err
}

// Service wraps credential checks and bootstrap around the repository
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Authenticate returns the admin when the username/password pair is valid,
// nil otherwise. A lookup miss and a bad password are indistinguishable to
// the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Admin, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return a, nil
}

// Bootstrap creates the admin account from configuration when it does not
// exist yet. A no-op when either value is empty or the account is present.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, &Admin{Username: username, PasswordHash: string(hash)}); err != nil {
		return err
	}
	logger.Infof("admin account %q bootstrapped", username)
	return nil
}
