// internal/app/store/posts/poststore_test.go
package poststore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	poststore "github.com/lumenarts/lumenhub/internal/app/store/posts"
	"github.com/lumenarts/lumenhub/internal/testutil"
)

func TestMarkDeletedByThreadIDsSkipsAlreadyDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	th := fx.CreateThread(ctx, "Thread", author.ID)
	p1 := fx.CreatePost(ctx, th.ID, author.ID, "first")
	p2 := fx.CreatePost(ctx, th.ID, author.ID, "second")

	earlier := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	if _, err := store.MarkDeleted(ctx, p2.ID, author.ID, earlier); err != nil {
		t.Fatalf("pre-delete p2: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Millisecond)
	marked, err := store.MarkDeletedByThreadIDs(ctx, []primitive.ObjectID{th.ID}, author.ID, at)
	if err != nil {
		t.Fatalf("MarkDeletedByThreadIDs: %v", err)
	}
	if len(marked) != 1 || marked[0].ID != p1.ID {
		t.Fatalf("marked %d posts, want just p1", len(marked))
	}

	got, err := store.GetByID(ctx, p2.ID)
	if err != nil {
		t.Fatalf("reload p2: %v", err)
	}
	if got.DeletedAt == nil || !got.DeletedAt.Equal(earlier) {
		t.Fatalf("p2 DeletedAt = %v, want its original %v", got.DeletedAt, earlier)
	}
}

func TestRestoreByThreadIDsMatchesCascadeStamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	th := fx.CreateThread(ctx, "Thread", author.ID)
	cascaded := fx.CreatePost(ctx, th.ID, author.ID, "cascaded")
	independent := fx.CreatePost(ctx, th.ID, author.ID, "independent")

	earlier := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	at := time.Now().UTC().Truncate(time.Millisecond)
	if _, err := store.MarkDeleted(ctx, independent.ID, author.ID, earlier); err != nil {
		t.Fatalf("delete independent: %v", err)
	}
	if _, err := store.MarkDeleted(ctx, cascaded.ID, author.ID, at); err != nil {
		t.Fatalf("delete cascaded: %v", err)
	}

	n, err := store.RestoreByThreadIDs(ctx, []primitive.ObjectID{th.ID}, at)
	if err != nil {
		t.Fatalf("RestoreByThreadIDs: %v", err)
	}
	if n != 1 {
		t.Fatalf("restored %d posts, want 1", n)
	}

	got, err := store.GetByID(ctx, cascaded.ID)
	if err != nil {
		t.Fatalf("reload cascaded: %v", err)
	}
	if got.Deleted {
		t.Fatal("cascaded post should be restored")
	}

	got, err = store.GetByID(ctx, independent.ID)
	if err != nil {
		t.Fatalf("reload independent: %v", err)
	}
	if !got.Deleted {
		t.Fatal("independently deleted post must stay deleted")
	}
}

func TestListByThreadHidesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	th := fx.CreateThread(ctx, "Thread", author.ID)
	visible := fx.CreatePost(ctx, th.ID, author.ID, "visible")
	hidden := fx.CreatePost(ctx, th.ID, author.ID, "hidden")

	if _, err := store.MarkDeleted(ctx, hidden.ID, author.ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}

	posts, err := store.ListByThread(ctx, th.ID, 25, 0)
	if err != nil {
		t.Fatalf("ListByThread: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != visible.ID {
		t.Fatalf("ListByThread returned %d posts, want only the visible one", len(posts))
	}

	n, err := store.CountByThread(ctx, th.ID)
	if err != nil {
		t.Fatalf("CountByThread: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountByThread = %d, want 1", n)
	}
}

func TestPurgeByThreadIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	th := fx.CreateThread(ctx, "Doomed", author.ID)
	other := fx.CreateThread(ctx, "Kept", author.ID)
	fx.CreatePost(ctx, th.ID, author.ID, "one")
	fx.CreatePost(ctx, th.ID, author.ID, "two")
	kept := fx.CreatePost(ctx, other.ID, author.ID, "kept")

	n, err := store.PurgeByThreadIDs(ctx, []primitive.ObjectID{th.ID})
	if err != nil {
		t.Fatalf("PurgeByThreadIDs: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged %d, want 2", n)
	}
	if _, err := store.GetByID(ctx, kept.ID); err != nil {
		t.Fatalf("post under another thread should remain: %v", err)
	}
}
