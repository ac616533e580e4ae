// internal/app/system/trash/trash.go

// Package trash implements soft deletion with cascade, restore, the
// retention sweeper, and attachment disposition for working groups,
// threads, and posts.
//
// Deleting never removes rows immediately: entities are flagged and carry
// a deletion timestamp, and the sweeper permanently purges anything whose
// timestamp is older than the retention window. Every entity marked in a
// single cascade shares the exact same timestamp, which is what allows a
// later restore to bring back precisely the entities that cascade touched
// and nothing deleted before or after it.
package trash

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// RetentionWindow is how long a soft-deleted entity is kept before the
// sweeper purges it permanently.
const RetentionWindow = 7 * 24 * time.Hour

// deletedFolderPrefix marks a working group's Drive folder as belonging
// to a deleted group without moving or destroying it.
const deletedFolderPrefix = "[DELETED] "

// deletedAttachmentsFolder is the subfolder inside a working group's
// Drive folder where attachments of deleted posts are parked.
const deletedAttachmentsFolder = "Deleted Attachments"

var (
	ErrNotFound       = errors.New("trash: entity not found")
	ErrAlreadyDeleted = errors.New("trash: entity already deleted")
	ErrNotDeleted     = errors.New("trash: entity is not deleted")
	ErrParentDeleted  = errors.New("trash: parent entity is deleted")
	ErrForbidden      = errors.New("trash: action not permitted for role")
)

// Actor identifies who is performing a moderation action.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// GroupStore is the slice of the working-group store the service needs.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.WorkingGroup, error)
	GetBySlug(ctx context.Context, slug string) (models.WorkingGroup, error)
	MarkDeleted(ctx context.Context, id, by primitive.ObjectID, at time.Time) (int64, error)
	ClearDeleted(ctx context.Context, id primitive.ObjectID) (int64, error)
	ListDeleted(ctx context.Context) ([]models.WorkingGroup, error)
	FindExpired(ctx context.Context, cutoff time.Time) ([]models.WorkingGroup, error)
	Purge(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// ThreadStore is the slice of the thread store the service needs.
type ThreadStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Thread, error)
	IncReplyCount(ctx context.Context, id primitive.ObjectID, delta int64) error
	MarkDeleted(ctx context.Context, id, by primitive.ObjectID, at time.Time) (int64, error)
	MarkDeletedByGroupSlug(ctx context.Context, slug string, by primitive.ObjectID, at time.Time) ([]models.Thread, error)
	ClearDeleted(ctx context.Context, id primitive.ObjectID) (int64, error)
	RestoreByGroupSlug(ctx context.Context, slug string, at time.Time) ([]models.Thread, error)
	ListDeleted(ctx context.Context) ([]models.Thread, error)
	FindExpiredByGroupSlug(ctx context.Context, slug string, cutoff time.Time) ([]models.Thread, error)
	FindExpired(ctx context.Context, cutoff time.Time) ([]models.Thread, error)
	Purge(ctx context.Context, id primitive.ObjectID) (int64, error)
	PurgeByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// PostStore is the slice of the post store the service needs.
type PostStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error)
	MarkDeleted(ctx context.Context, id, by primitive.ObjectID, at time.Time) (int64, error)
	MarkDeletedByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID, by primitive.ObjectID, at time.Time) ([]models.Post, error)
	ClearDeleted(ctx context.Context, id primitive.ObjectID) (int64, error)
	RestoreByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID, at time.Time) (int64, error)
	ListDeleted(ctx context.Context) ([]models.Post, error)
	FindExpired(ctx context.Context, cutoff time.Time) ([]models.Post, error)
	Purge(ctx context.Context, id primitive.ObjectID) (int64, error)
	PurgeByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID) (int64, error)
}

// ObjectStore deletes files held in object storage.
type ObjectStore interface {
	Delete(ctx context.Context, path string) error
}

// Drive is the Google Drive surface the service needs for folders and
// attachment relocation.
type Drive interface {
	RenameFolder(ctx context.Context, folderID, name string) error
	EnsureSubfolder(ctx context.Context, parentID, name string) (string, error)
	MoveFile(ctx context.Context, fileID, newParentID string) error
	DeleteFolder(ctx context.Context, folderID string) error
}

// Service coordinates soft deletes, restores, and retention sweeps.
type Service struct {
	groups  GroupStore
	threads ThreadStore
	posts   PostStore
	objects ObjectStore
	drive   Drive
	log     *zap.Logger
	now     func() time.Time
}

// New builds the service. objects and drive may be nil when the
// corresponding backend is not configured; attachment disposition for
// that backend is then skipped with a logged warning.
func New(groups GroupStore, threads ThreadStore, posts PostStore, objects ObjectStore, drive Drive, log *zap.Logger) *Service {
	return &Service{
		groups:  groups,
		threads: threads,
		posts:   posts,
		objects: objects,
		drive:   drive,
		log:     log,
		now:     time.Now,
	}
}

// SetClock overrides the service's time source. Test use only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// cascadeStamp returns the shared timestamp for one cascade. Truncated to
// milliseconds so the value survives a BSON round trip and equality
// matches on restore.
func (s *Service) cascadeStamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// CascadeResult reports what a delete touched.
type CascadeResult struct {
	Threads      int64 `json:"threads"`
	Posts        int64 `json:"posts"`
	StorageFiles int64 `json:"storage_files"`
	DriveFiles   int64 `json:"drive_files"`
}

// RestoreResult reports what a restore brought back.
type RestoreResult struct {
	Threads int64  `json:"threads"`
	Posts   int64  `json:"posts"`
	Note    string `json:"note,omitempty"`
}

// SweepResult reports one retention sweep. Errors holds per-item failure
// descriptions; a non-empty slice does not abort the sweep.
type SweepResult struct {
	Groups       int64    `json:"groups"`
	Threads      int64    `json:"threads"`
	Posts        int64    `json:"posts"`
	DriveFolders int64    `json:"drive_folders"`
	Errors       []string `json:"errors,omitempty"`
}
