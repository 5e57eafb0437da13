package projects

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a portfolio entry managed through the admin panel and rendered
// on the public pages. Slug is the public URL path segment and is unique
// across the collection.
type Project struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImagePublicID string             `bson:"imagePublicId,omitempty" json:"imagePublicId,omitempty"`
	GithubURL     string             `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	DemoURL       string             `bson:"demoUrl,omitempty" json:"demoUrl,omitempty"`
	Tech          []string           `bson:"tech" json:"tech"`
	Year          string             `bson:"year,omitempty" json:"year,omitempty"`
	Featured      bool               `bson:"featured" json:"featured"`
	Slug          string             `bson:"slug" json:"slug"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
