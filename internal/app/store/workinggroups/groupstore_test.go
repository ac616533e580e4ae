// internal/app/store/workinggroups/groupstore_test.go
package groupstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	"github.com/lumenarts/lumenhub/internal/domain/models"
	"github.com/lumenarts/lumenhub/internal/testutil"
)

func TestCreateNormalizesAndRejectsDuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")

	g, err := store.Create(ctx, models.WorkingGroup{
		Name:          "Print Studio",
		Slug:          "  Print-Studio ",
		CoordinatorID: admin.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Slug != "print-studio" {
		t.Fatalf("Slug = %q, want %q", g.Slug, "print-studio")
	}
	if g.Visibility != models.VisibilityPublic {
		t.Fatalf("Visibility = %q, want default public", g.Visibility)
	}
	if !g.Active {
		t.Fatal("new group should be active")
	}

	_, err = store.Create(ctx, models.WorkingGroup{
		Name:          "Another Print Studio",
		Slug:          "print-studio",
		CoordinatorID: admin.ID,
	})
	if err != groupstore.ErrDuplicateSlug {
		t.Fatalf("duplicate slug err = %v, want ErrDuplicateSlug", err)
	}
}

func TestGetBySlugIsCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", admin.ID)

	got, err := store.GetBySlug(ctx, "  CERAMICS ")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Name != "Ceramics" {
		t.Fatalf("Name = %q, want %q", got.Name, "Ceramics")
	}

	if _, err := store.GetBySlug(ctx, "no-such-group"); err != mongo.ErrNoDocuments {
		t.Fatalf("missing slug err = %v, want ErrNoDocuments", err)
	}
}

func TestListRespectsVisibilityAndDeletion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	pub := fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", admin.ID)

	priv, err := store.Create(ctx, models.WorkingGroup{
		Name:          "Board Planning",
		Slug:          "board-planning",
		Visibility:    models.VisibilityPrivate,
		CoordinatorID: admin.ID,
	})
	if err != nil {
		t.Fatalf("Create private: %v", err)
	}
	gone := fx.CreateWorkingGroup(ctx, "Darkroom", "darkroom", admin.ID)
	if _, err := store.MarkDeleted(ctx, gone.ID, admin.ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}

	all, err := store.List(ctx, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List(all) = %d groups, want 2", len(all))
	}

	public, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List public: %v", err)
	}
	if len(public) != 1 || public[0].ID != pub.ID {
		t.Fatalf("List(publicOnly) returned wrong groups: %+v", public)
	}
	_ = priv
}

func TestMarkDeletedAndClearDeletedAreGuarded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	g := fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", admin.ID)

	at := time.Now().UTC().Truncate(time.Millisecond)
	matched, err := store.MarkDeleted(ctx, g.ID, admin.ID, at)
	if err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d, want 1", matched)
	}

	// Marking again matches nothing.
	matched, err = store.MarkDeleted(ctx, g.ID, admin.ID, at.Add(time.Hour))
	if err != nil {
		t.Fatalf("second MarkDeleted: %v", err)
	}
	if matched != 0 {
		t.Fatalf("second mark matched = %d, want 0", matched)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DeletedAt == nil || !got.DeletedAt.Equal(at) {
		t.Fatalf("DeletedAt = %v, want %v", got.DeletedAt, at)
	}

	matched, err = store.ClearDeleted(ctx, g.ID)
	if err != nil {
		t.Fatalf("ClearDeleted: %v", err)
	}
	if matched != 1 {
		t.Fatalf("ClearDeleted matched = %d, want 1", matched)
	}

	// Clearing a live group matches nothing.
	matched, err = store.ClearDeleted(ctx, g.ID)
	if err != nil {
		t.Fatalf("second ClearDeleted: %v", err)
	}
	if matched != 0 {
		t.Fatalf("second clear matched = %d, want 0", matched)
	}

	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID after restore: %v", err)
	}
	if got.Deleted || got.DeletedAt != nil {
		t.Fatalf("group still carries delete markers: %+v", got)
	}
}

func TestFindExpiredUsesStrictCutoff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	old := fx.CreateWorkingGroup(ctx, "Darkroom", "darkroom", admin.ID)
	edge := fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", admin.ID)

	cutoff := time.Now().UTC().Truncate(time.Millisecond)
	if _, err := store.MarkDeleted(ctx, old.ID, admin.ID, cutoff.Add(-time.Second)); err != nil {
		t.Fatalf("MarkDeleted old: %v", err)
	}
	if _, err := store.MarkDeleted(ctx, edge.ID, admin.ID, cutoff); err != nil {
		t.Fatalf("MarkDeleted edge: %v", err)
	}

	expired, err := store.FindExpired(ctx, cutoff)
	if err != nil {
		t.Fatalf("FindExpired: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != old.ID {
		t.Fatalf("FindExpired returned wrong groups: %+v", expired)
	}
}

func TestMembershipAndDriveFolder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	member := fx.CreateUser(ctx, "Manny Member", "manny@lumenarts.org", "member")
	g := fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", admin.ID)

	if err := store.AddMember(ctx, g.ID, member.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	// Adding twice must not duplicate the entry.
	if err := store.AddMember(ctx, g.ID, member.ID); err != nil {
		t.Fatalf("second AddMember: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.MemberIDs) != 2 {
		t.Fatalf("MemberIDs = %d, want 2", len(got.MemberIDs))
	}

	if err := store.RemoveMember(ctx, g.ID, member.ID); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if err := store.SetDriveFolderID(ctx, g.ID, "folder-abc123"); err != nil {
		t.Fatalf("SetDriveFolderID: %v", err)
	}

	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if len(got.MemberIDs) != 1 || got.MemberIDs[0] != admin.ID {
		t.Fatalf("MemberIDs after remove = %+v", got.MemberIDs)
	}
	if got.DriveFolderID != "folder-abc123" {
		t.Fatalf("DriveFolderID = %q", got.DriveFolderID)
	}
}

func TestPurgeRemovesDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	admin := fx.CreateUser(ctx, "Ada Admin", "ada@lumenarts.org", "admin")
	g := fx.CreateWorkingGroup(ctx, "Ceramics", "ceramics", admin.ID)

	n, err := store.Purge(ctx, g.ID)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("Purge deleted %d, want 1", n)
	}
	if _, err := store.GetByID(ctx, g.ID); err != mongo.ErrNoDocuments {
		t.Fatalf("GetByID after purge err = %v, want ErrNoDocuments", err)
	}
}
