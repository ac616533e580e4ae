// internal/app/system/trash/restore.go

package trash

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/system/authz"
)

// Entity kinds accepted by Restore.
const (
	KindWorkingGroup = "working_group"
	KindThread       = "thread"
	KindPost         = "post"
)

// Restore brings a soft-deleted entity back. For groups and threads the
// restore cascades to exactly the children that were marked in the same
// delete, identified by a shared deletion timestamp; children deleted
// earlier or later stay deleted.
func (s *Service) Restore(ctx context.Context, kind string, id primitive.ObjectID, actor Actor) (*RestoreResult, error) {
	switch kind {
	case KindWorkingGroup:
		return s.restoreWorkingGroup(ctx, id, actor)
	case KindThread:
		return s.restoreThread(ctx, id, actor)
	case KindPost:
		return s.restorePost(ctx, id, actor)
	default:
		return nil, fmt.Errorf("trash: unknown entity kind %q", kind)
	}
}

func (s *Service) restoreWorkingGroup(ctx context.Context, id primitive.ObjectID, actor Actor) (*RestoreResult, error) {
	if !authz.Can(actor.Role, authz.ActionRestoreGroup) {
		return nil, ErrForbidden
	}

	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !g.Deleted || g.DeletedAt == nil {
		return nil, ErrNotDeleted
	}
	at := *g.DeletedAt

	matched, err := s.groups.ClearDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrNotDeleted
	}

	if g.DriveFolderID != "" && s.drive != nil {
		if err := s.drive.RenameFolder(ctx, g.DriveFolderID, g.Name); err != nil {
			s.log.Warn("rename drive folder on group restore failed",
				zap.String("group", g.Slug),
				zap.String("folder_id", g.DriveFolderID),
				zap.Error(err))
		}
	}

	threads, err := s.threads.RestoreByGroupSlug(ctx, g.Slug, at)
	if err != nil {
		return nil, err
	}

	res := &RestoreResult{Threads: int64(len(threads))}
	if len(threads) > 0 {
		ids := make([]primitive.ObjectID, 0, len(threads))
		for _, t := range threads {
			ids = append(ids, t.ID)
		}
		n, err := s.posts.RestoreByThreadIDs(ctx, ids, at)
		if err != nil {
			return nil, err
		}
		res.Posts = n
	}
	res.Note = "drive attachments moved on deletion remain in the Deleted Attachments folder"

	s.log.Info("working group restored",
		zap.String("group", g.Slug),
		zap.Int64("threads", res.Threads),
		zap.Int64("posts", res.Posts))
	return res, nil
}

func (s *Service) restoreThread(ctx context.Context, id primitive.ObjectID, actor Actor) (*RestoreResult, error) {
	if !authz.Can(actor.Role, authz.ActionRestoreThread) {
		return nil, ErrForbidden
	}

	t, err := s.threads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !t.Deleted || t.DeletedAt == nil {
		return nil, ErrNotDeleted
	}
	at := *t.DeletedAt

	// A cross-posted thread only needs one live group to come back to.
	if len(t.WorkingGroups) > 0 && !s.hasLiveGroup(ctx, t.WorkingGroups) {
		return nil, ErrParentDeleted
	}

	matched, err := s.threads.ClearDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrNotDeleted
	}

	n, err := s.posts.RestoreByThreadIDs(ctx, []primitive.ObjectID{id}, at)
	if err != nil {
		return nil, err
	}

	res := &RestoreResult{Posts: n}
	res.Note = "drive attachments moved on deletion remain in the Deleted Attachments folder"

	s.log.Info("thread restored",
		zap.String("thread_id", id.Hex()),
		zap.Int64("posts", n))
	return res, nil
}

func (s *Service) restorePost(ctx context.Context, id primitive.ObjectID, actor Actor) (*RestoreResult, error) {
	if !authz.Can(actor.Role, authz.ActionRestorePost) {
		return nil, ErrForbidden
	}

	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.Deleted {
		return nil, ErrNotDeleted
	}

	t, err := s.threads.GetByID(ctx, p.ThreadID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrParentDeleted
		}
		return nil, err
	}
	if t.Deleted {
		return nil, ErrParentDeleted
	}

	matched, err := s.posts.ClearDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrNotDeleted
	}

	if err := s.threads.IncReplyCount(ctx, p.ThreadID, 1); err != nil {
		s.log.Warn("increment reply count failed",
			zap.String("thread_id", p.ThreadID.Hex()),
			zap.Error(err))
	}

	res := &RestoreResult{Posts: 1}
	if len(p.Attachments) > 0 {
		res.Note = "drive attachments moved on deletion remain in the Deleted Attachments folder"
	}

	s.log.Info("post restored",
		zap.String("post_id", id.Hex()),
		zap.String("thread_id", p.ThreadID.Hex()))
	return res, nil
}
