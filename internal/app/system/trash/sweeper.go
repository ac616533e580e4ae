// internal/app/system/trash/sweeper.go

package trash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/system/authz"
)

// Sweep permanently purges every soft-deleted entity whose deletion
// timestamp is strictly older than the retention window. Groups go first
// so their threads and posts are gone before the standalone passes run.
// Each item is handled independently: a failure is recorded in the result
// and the sweep moves on.
func (s *Service) Sweep(ctx context.Context) (*SweepResult, error) {
	cutoff := s.now().UTC().Add(-RetentionWindow)
	res := &SweepResult{}

	groups, err := s.groups.FindExpired(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find expired groups: %w", err)
	}
	for i := range groups {
		g := &groups[i]
		if err := s.purgeGroup(ctx, g.ID, g.Slug, g.DriveFolderID, cutoff, res); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("group %s: %v", g.Slug, err))
			continue
		}
		res.Groups++
	}

	threads, err := s.threads.FindExpired(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find expired threads: %w", err)
	}
	for i := range threads {
		t := &threads[i]
		if _, err := s.posts.PurgeByThreadIDs(ctx, []primitive.ObjectID{t.ID}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("thread %s posts: %v", t.ID.Hex(), err))
			continue
		}
		if _, err := s.threads.Purge(ctx, t.ID); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("thread %s: %v", t.ID.Hex(), err))
			continue
		}
		res.Threads++
	}

	posts, err := s.posts.FindExpired(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find expired posts: %w", err)
	}
	for i := range posts {
		p := &posts[i]
		if _, err := s.posts.Purge(ctx, p.ID); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("post %s: %v", p.ID.Hex(), err))
			continue
		}
		res.Posts++
	}

	s.log.Info("retention sweep finished",
		zap.Int64("groups", res.Groups),
		zap.Int64("threads", res.Threads),
		zap.Int64("posts", res.Posts),
		zap.Int64("drive_folders", res.DriveFolders),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

// purgeGroup removes an expired group with the expired deleted threads
// under it. A thread restored into another group, or deleted too recently
// to be eligible itself, is left alone; the standalone thread pass picks
// it up once its own stamp expires.
func (s *Service) purgeGroup(ctx context.Context, id primitive.ObjectID, slug, driveFolderID string, cutoff time.Time, res *SweepResult) error {
	threads, err := s.threads.FindExpiredByGroupSlug(ctx, slug, cutoff)
	if err != nil {
		return fmt.Errorf("list threads: %w", err)
	}
	if len(threads) > 0 {
		ids := make([]primitive.ObjectID, 0, len(threads))
		for _, t := range threads {
			ids = append(ids, t.ID)
		}
		if _, err := s.posts.PurgeByThreadIDs(ctx, ids); err != nil {
			return fmt.Errorf("purge posts: %w", err)
		}
		if _, err := s.threads.PurgeByIDs(ctx, ids); err != nil {
			return fmt.Errorf("purge threads: %w", err)
		}
	}

	if driveFolderID != "" && s.drive != nil {
		if err := s.drive.DeleteFolder(ctx, driveFolderID); err != nil {
			s.log.Warn("delete drive folder for purged group failed",
				zap.String("group", slug),
				zap.String("folder_id", driveFolderID),
				zap.Error(err))
		} else {
			res.DriveFolders++
		}
	}

	_, err = s.groups.Purge(ctx, id)
	return err
}

// DeletedItem is one entry in the moderation trash listing.
type DeletedItem struct {
	Kind           string             `json:"kind"`
	ID             primitive.ObjectID `json:"id"`
	Label          string             `json:"label"`
	DeletedAt      time.Time          `json:"deleted_at"`
	DeletedBy      string             `json:"deleted_by,omitempty"`
	DaysUntilPurge int                `json:"days_until_purge"`
	ExpiringSoon   bool               `json:"expiring_soon"`
}

// ListDeleted reports everything currently in the trash, newest first
// within each kind, flagging items within two days of being purged.
func (s *Service) ListDeleted(ctx context.Context, actor Actor) ([]DeletedItem, error) {
	if !authz.Can(actor.Role, authz.ActionViewDeleted) {
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	items := make([]DeletedItem, 0, 16)

	groups, err := s.groups.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		items = append(items, s.deletedItem(KindWorkingGroup, g.ID, g.Name, g.DeletedAt, g.DeletedBy, now))
	}

	threads, err := s.threads.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range threads {
		items = append(items, s.deletedItem(KindThread, t.ID, t.Title, t.DeletedAt, t.DeletedBy, now))
	}

	posts, err := s.posts.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		items = append(items, s.deletedItem(KindPost, p.ID, postLabel(p.Content), p.DeletedAt, p.DeletedBy, now))
	}

	return items, nil
}

func (s *Service) deletedItem(kind string, id primitive.ObjectID, label string, deletedAt *time.Time, deletedBy *primitive.ObjectID, now time.Time) DeletedItem {
	item := DeletedItem{Kind: kind, ID: id, Label: label}
	if deletedBy != nil {
		item.DeletedBy = deletedBy.Hex()
	}
	if deletedAt != nil {
		item.DeletedAt = *deletedAt
		purgeAt := deletedAt.Add(RetentionWindow)
		remaining := purgeAt.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		item.DaysUntilPurge = int(remaining / (24 * time.Hour))
		item.ExpiringSoon = remaining <= 48*time.Hour
	}
	return item
}

// postLabel shortens post content for the trash listing.
func postLabel(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) > 80 {
		return string(runes[:77]) + "..."
	}
	return content
}
