package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return user
}

// CreateWorkingGroup creates a test working group coordinated by the
// given user.
func (f *Fixtures) CreateWorkingGroup(ctx context.Context, name, slug string, coordinatorID primitive.ObjectID) models.WorkingGroup {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.WorkingGroup{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Slug:          slug,
		Description:   "Test working group",
		CoordinatorID: coordinatorID,
		MemberIDs:     []primitive.ObjectID{coordinatorID},
		Visibility:    models.VisibilityPublic,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("working_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("create test working group: %v", err)
	}
	return g
}

// CreateThread creates a test thread by the given author. Pass no slugs
// for a general discussion thread.
func (f *Fixtures) CreateThread(ctx context.Context, title string, authorID primitive.ObjectID, groupSlugs ...string) models.Thread {
	f.t.Helper()

	now := time.Now().UTC()
	if groupSlugs == nil {
		groupSlugs = []string{}
	}
	th := models.Thread{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Slug:          text.Fold(title),
		WorkingGroups: groupSlugs,
		Status:        models.ThreadOpen,
		AuthorID:      authorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("create test thread: %v", err)
	}
	return th
}

// CreatePost creates a test post in the given thread, optionally with
// attachments.
func (f *Fixtures) CreatePost(ctx context.Context, threadID, authorID primitive.ObjectID, content string, atts ...models.Attachment) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Post{
		ID:          primitive.NewObjectID(),
		ThreadID:    threadID,
		AuthorID:    authorID,
		Content:     content,
		Attachments: atts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("create test post: %v", err)
	}
	return p
}

// CreatePublication creates a test publication.
func (f *Fixtures) CreatePublication(ctx context.Context, title, slug string, authorID primitive.ObjectID, published bool) models.Publication {
	f.t.Helper()

	now := time.Now().UTC()
	pub := models.Publication{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Slug:      slug,
		Body:      "Test publication body",
		AuthorID:  authorID,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if published {
		pub.PublishedAt = &now
	}

	if _, err := f.db.Collection("publications").InsertOne(ctx, pub); err != nil {
		f.t.Fatalf("create test publication: %v", err)
	}
	return pub
}
