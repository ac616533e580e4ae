// internal/app/store/threads/threadstore_test.go
package threadstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	threadstore "github.com/lumenarts/lumenhub/internal/app/store/threads"
	"github.com/lumenarts/lumenhub/internal/testutil"
)

func TestMarkDeletedIsGuarded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	th := fx.CreateThread(ctx, "First Thread", author.ID)

	at := time.Now().UTC().Truncate(time.Millisecond)
	matched, err := store.MarkDeleted(ctx, th.ID, author.ID, at)
	if err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d, want 1", matched)
	}

	// A second mark matches nothing: the thread is already deleted.
	matched, err = store.MarkDeleted(ctx, th.ID, author.ID, at.Add(time.Minute))
	if err != nil {
		t.Fatalf("second MarkDeleted: %v", err)
	}
	if matched != 0 {
		t.Fatalf("second mark matched = %d, want 0", matched)
	}

	got, err := store.GetByID(ctx, th.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DeletedAt == nil || !got.DeletedAt.Equal(at) {
		t.Fatalf("DeletedAt = %v, want %v (first mark wins)", got.DeletedAt, at)
	}
}

func TestCascadeMarkAndRestoreByGroupSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	fx.CreateWorkingGroup(ctx, "Print Studio", "print-studio", admin.ID)
	t1 := fx.CreateThread(ctx, "Inks", admin.ID, "print-studio")
	t2 := fx.CreateThread(ctx, "Presses", admin.ID, "print-studio")
	other := fx.CreateThread(ctx, "General Chat", admin.ID)

	earlier := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	if _, err := store.MarkDeleted(ctx, t2.ID, admin.ID, earlier); err != nil {
		t.Fatalf("pre-delete t2: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Millisecond)
	marked, err := store.MarkDeletedByGroupSlug(ctx, "print-studio", admin.ID, at)
	if err != nil {
		t.Fatalf("MarkDeletedByGroupSlug: %v", err)
	}
	// t2 was already deleted and must not be re-stamped.
	if len(marked) != 1 || marked[0].ID != t1.ID {
		t.Fatalf("marked %d threads, want just t1", len(marked))
	}

	restored, err := store.RestoreByGroupSlug(ctx, "print-studio", at)
	if err != nil {
		t.Fatalf("RestoreByGroupSlug: %v", err)
	}
	if len(restored) != 1 || restored[0].ID != t1.ID {
		t.Fatalf("restored %d threads, want just t1", len(restored))
	}

	// t2 keeps its earlier, independent deletion stamp.
	got, err := store.GetByID(ctx, t2.ID)
	if err != nil {
		t.Fatalf("reload t2: %v", err)
	}
	if got.DeletedAt == nil || !got.DeletedAt.Equal(earlier) {
		t.Fatalf("t2 DeletedAt = %v, want %v", got.DeletedAt, earlier)
	}

	// The unrelated thread was never touched.
	got, err = store.GetByID(ctx, other.ID)
	if err != nil {
		t.Fatalf("reload other: %v", err)
	}
	if got.DeletedAt != nil {
		t.Fatal("general thread must not be affected by the group cascade")
	}
}

func TestListHidesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	visible := fx.CreateThread(ctx, "Visible", author.ID)
	hidden := fx.CreateThread(ctx, "Hidden", author.ID)

	if _, err := store.MarkDeleted(ctx, hidden.ID, author.ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}

	threads, err := store.List(ctx, "", 25, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(threads) != 1 || threads[0].ID != visible.ID {
		t.Fatalf("List returned %d threads, want only the visible one", len(threads))
	}
}

func TestIncReplyCountClampsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	th := fx.CreateThread(ctx, "Counted", author.ID)

	for i := 0; i < 2; i++ {
		if err := store.IncReplyCount(ctx, th.ID, 1); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	for i := 0; i < 4; i++ {
		if err := store.IncReplyCount(ctx, th.ID, -1); err != nil {
			t.Fatalf("decrement: %v", err)
		}
	}

	got, err := store.GetByID(ctx, th.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ReplyCount != 0 {
		t.Fatalf("ReplyCount = %d, want 0", got.ReplyCount)
	}
}

func TestFindExpiredBoundary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	old := fx.CreateThread(ctx, "Old", author.ID)
	edge := fx.CreateThread(ctx, "Edge", author.ID)

	cutoff := time.Now().UTC().Truncate(time.Millisecond)
	if _, err := store.MarkDeleted(ctx, old.ID, author.ID, cutoff.Add(-time.Second)); err != nil {
		t.Fatalf("mark old: %v", err)
	}
	if _, err := store.MarkDeleted(ctx, edge.ID, author.ID, cutoff); err != nil {
		t.Fatalf("mark edge: %v", err)
	}

	expired, err := store.FindExpired(ctx, cutoff)
	if err != nil {
		t.Fatalf("FindExpired: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != old.ID {
		t.Fatalf("expired = %d threads, want only the one strictly before the cutoff", len(expired))
	}
}

func TestFindExpiredByGroupSlugSkipsLiveAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	fx.CreateWorkingGroup(ctx, "Archive", "archive", author.ID)
	expired := fx.CreateThread(ctx, "Expired", author.ID, "archive")
	recent := fx.CreateThread(ctx, "Recent", author.ID, "archive")
	live := fx.CreateThread(ctx, "Live", author.ID, "archive")
	elsewhere := fx.CreateThread(ctx, "Elsewhere", author.ID, "ceramics")

	cutoff := time.Now().UTC().Truncate(time.Millisecond)
	if _, err := store.MarkDeleted(ctx, expired.ID, author.ID, cutoff.Add(-time.Hour)); err != nil {
		t.Fatalf("mark expired: %v", err)
	}
	if _, err := store.MarkDeleted(ctx, recent.ID, author.ID, cutoff.Add(time.Hour)); err != nil {
		t.Fatalf("mark recent: %v", err)
	}
	if _, err := store.MarkDeleted(ctx, elsewhere.ID, author.ID, cutoff.Add(-time.Hour)); err != nil {
		t.Fatalf("mark elsewhere: %v", err)
	}

	got, err := store.FindExpiredByGroupSlug(ctx, "archive", cutoff)
	if err != nil {
		t.Fatalf("FindExpiredByGroupSlug: %v", err)
	}
	if len(got) != 1 || got[0].ID != expired.ID {
		t.Fatalf("got %d threads, want only the expired one in the group", len(got))
	}
	_ = live
}

func TestPurgeByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	author := fx.CreateUser(ctx, "Ann Author", "ann@lumenarts.org", "member")
	t1 := fx.CreateThread(ctx, "One", author.ID)
	t2 := fx.CreateThread(ctx, "Two", author.ID)
	keep := fx.CreateThread(ctx, "Keep", author.ID)

	n, err := store.PurgeByIDs(ctx, []primitive.ObjectID{t1.ID, t2.ID})
	if err != nil {
		t.Fatalf("PurgeByIDs: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged %d, want 2", n)
	}
	if _, err := store.GetByID(ctx, keep.ID); err != nil {
		t.Fatalf("untouched thread should remain: %v", err)
	}
}
