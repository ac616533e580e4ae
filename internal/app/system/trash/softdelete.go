// internal/app/system/trash/softdelete.go

package trash

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// DeleteWorkingGroup soft-deletes a working group and cascades to every
// non-deleted thread referencing the group and to every non-deleted post
// under those threads. The group's Drive folder, when present, is renamed
// with the deleted prefix; rename failures are logged and do not fail the
// delete.
func (s *Service) DeleteWorkingGroup(ctx context.Context, id primitive.ObjectID, actor Actor) (*CascadeResult, error) {
	if !authz.Can(actor.Role, authz.ActionDeleteGroup) {
		return nil, ErrForbidden
	}

	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if g.Deleted {
		return nil, ErrAlreadyDeleted
	}

	at := s.cascadeStamp()

	matched, err := s.groups.MarkDeleted(ctx, id, actor.ID, at)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		// Raced with another delete.
		return nil, ErrAlreadyDeleted
	}

	if g.DriveFolderID != "" && s.drive != nil {
		if err := s.drive.RenameFolder(ctx, g.DriveFolderID, deletedFolderPrefix+g.Name); err != nil {
			s.log.Warn("rename drive folder on group delete failed",
				zap.String("group", g.Slug),
				zap.String("folder_id", g.DriveFolderID),
				zap.Error(err))
		}
	}

	threads, err := s.threads.MarkDeletedByGroupSlug(ctx, g.Slug, actor.ID, at)
	if err != nil {
		return nil, err
	}

	res := &CascadeResult{Threads: int64(len(threads))}
	if len(threads) == 0 {
		s.log.Info("working group soft-deleted",
			zap.String("group", g.Slug),
			zap.Time("deleted_at", at))
		return res, nil
	}

	ids := make([]primitive.ObjectID, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
	}

	posts, err := s.posts.MarkDeletedByThreadIDs(ctx, ids, actor.ID, at)
	if err != nil {
		return nil, err
	}
	res.Posts = int64(len(posts))

	s.disposeAttachmentsForPosts(ctx, &g, posts, res)

	s.log.Info("working group soft-deleted",
		zap.String("group", g.Slug),
		zap.Int64("threads", res.Threads),
		zap.Int64("posts", res.Posts),
		zap.Time("deleted_at", at))
	return res, nil
}

// DeleteThread soft-deletes a thread and cascades to its non-deleted
// posts, disposing their attachments.
func (s *Service) DeleteThread(ctx context.Context, id primitive.ObjectID, actor Actor) (*CascadeResult, error) {
	if !authz.Can(actor.Role, authz.ActionDeleteThread) {
		return nil, ErrForbidden
	}

	t, err := s.threads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.Deleted {
		return nil, ErrAlreadyDeleted
	}

	at := s.cascadeStamp()

	matched, err := s.threads.MarkDeleted(ctx, id, actor.ID, at)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrAlreadyDeleted
	}

	posts, err := s.posts.MarkDeletedByThreadIDs(ctx, []primitive.ObjectID{id}, actor.ID, at)
	if err != nil {
		return nil, err
	}

	res := &CascadeResult{Posts: int64(len(posts))}
	s.disposeAttachmentsForPosts(ctx, s.groupForThread(ctx, &t), posts, res)

	s.log.Info("thread soft-deleted",
		zap.String("thread_id", id.Hex()),
		zap.Int64("posts", res.Posts),
		zap.Time("deleted_at", at))
	return res, nil
}

// DeletePost soft-deletes a single post, disposes its attachments, and
// decrements the parent thread's reply count.
func (s *Service) DeletePost(ctx context.Context, id primitive.ObjectID, actor Actor) (*CascadeResult, error) {
	if !authz.Can(actor.Role, authz.ActionDeletePost) {
		return nil, ErrForbidden
	}

	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Deleted {
		return nil, ErrAlreadyDeleted
	}

	at := s.cascadeStamp()

	matched, err := s.posts.MarkDeleted(ctx, id, actor.ID, at)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrAlreadyDeleted
	}

	if err := s.threads.IncReplyCount(ctx, p.ThreadID, -1); err != nil {
		s.log.Warn("decrement reply count failed",
			zap.String("thread_id", p.ThreadID.Hex()),
			zap.Error(err))
	}

	var grp *models.WorkingGroup
	if t, terr := s.threads.GetByID(ctx, p.ThreadID); terr == nil {
		grp = s.groupForThread(ctx, &t)
	}

	res := &CascadeResult{}
	s.disposeAttachmentsForPosts(ctx, grp, []models.Post{p}, res)

	s.log.Info("post soft-deleted",
		zap.String("post_id", id.Hex()),
		zap.String("thread_id", p.ThreadID.Hex()),
		zap.Time("deleted_at", at))
	return res, nil
}

// groupForThread resolves the working group whose Drive folder should
// receive relocated attachments for posts under the given thread. General
// threads belong to no group, so there is no folder to use.
//
// Cross-posted threads use the first listed group's folder even when a
// file was uploaded under another group. The upload flow records no
// source group per attachment, so the first group is the convention
// everywhere.
func (s *Service) groupForThread(ctx context.Context, t *models.Thread) *models.WorkingGroup {
	if t == nil || len(t.WorkingGroups) == 0 {
		return nil
	}
	g, err := s.groups.GetBySlug(ctx, t.WorkingGroups[0])
	if err != nil {
		s.log.Warn("resolve group for attachment disposition failed",
			zap.String("slug", t.WorkingGroups[0]),
			zap.Error(err))
		return nil
	}
	return &g
}

// hasLiveGroup reports whether any of the slugs names a group that still
// exists and is not soft-deleted.
func (s *Service) hasLiveGroup(ctx context.Context, slugs []string) bool {
	for _, slug := range slugs {
		g, err := s.groups.GetBySlug(ctx, slug)
		if err != nil {
			continue
		}
		if !g.Deleted {
			return true
		}
	}
	return false
}
