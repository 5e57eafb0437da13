package settings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is the site-wide profile document. Exactly one instance exists;
// it is created with defaults on first access and only ever mutated through
// the admin panel.
type Settings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Headline       string             `bson:"headline" json:"headline"`
	Summary        string             `bson:"summary" json:"summary"`
	AvatarURL      string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	AvatarPublicID string             `bson:"avatarPublicId,omitempty" json:"avatarPublicId,omitempty"`

	GithubURL    string `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	LinkedinURL  string `bson:"linkedinUrl,omitempty" json:"linkedinUrl,omitempty"`
	TwitterURL   string `bson:"twitterUrl,omitempty" json:"twitterUrl,omitempty"`
	ContactEmail string `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`

	HeroTitle    string `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string `bson:"heroSubtitle" json:"heroSubtitle"`
	CTAText      string `bson:"ctaText" json:"ctaText"`

	Timeline     []TimelineEntry `bson:"timeline" json:"timeline"`
	Skills       []SkillEntry    `bson:"skills" json:"skills"`
	Testimonials []Testimonial   `bson:"testimonials" json:"testimonials"`
	Notes        string          `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TimelineEntry is one row of the about-page career timeline.
type TimelineEntry struct {
	Title       string `bson:"title" json:"title"`
	Company     string `bson:"company,omitempty" json:"company,omitempty"`
	Start       string `bson:"start,omitempty" json:"start,omitempty"`
	End         string `bson:"end,omitempty" json:"end,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type SkillEntry struct {
	Name  string `bson:"name" json:"name"`
	Level string `bson:"level,omitempty" json:"level,omitempty"`
}

type Testimonial struct {
	Author string `bson:"author" json:"author"`
	Role   string `bson:"role,omitempty" json:"role,omitempty"`
	Quote  string `bson:"quote" json:"quote"`
}

// Defaults returns the settings document used until the admin fills in their
// profile, and the value served when no snapshot has ever loaded.
func Defaults() *Settings {
	return &Settings{
		Name:         "Your Name",
		Headline:     "Full-Stack Developer",
		Summary:      "I build fast, accessible, and delightful web apps with clean code and solid engineering practices.",
		HeroTitle:    "Hi, I build things for the web.",
		HeroSubtitle: "Projects, experiments, and notes.",
		CTAText:      "Get in touch",
		Timeline:     []TimelineEntry{},
		Skills:       []SkillEntry{},
		Testimonials: []Testimonial{},
	}
}
