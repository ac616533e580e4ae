// internal/app/system/trash/attachments.go

package trash

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// disposeAttachmentsForPosts routes the attachments of the given posts by
// backend: object-storage files are deleted permanently, Drive files are
// moved into the owning group's "Deleted Attachments" subfolder. All
// failures are best effort: the database marks are already committed, so
// disposition errors are logged and counted but never unwind the delete.
func (s *Service) disposeAttachmentsForPosts(ctx context.Context, group *models.WorkingGroup, posts []models.Post, res *CascadeResult) {
	var deletedSubfolder string

	for _, p := range posts {
		for _, a := range p.Attachments {
			switch a.Backend {
			case models.BackendObjectStorage:
				if s.objects == nil {
					s.log.Warn("object storage not configured, attachment left in place",
						zap.String("post_id", p.ID.Hex()),
						zap.String("object_key", a.ObjectKey))
					continue
				}
				if err := s.objects.Delete(ctx, a.ObjectKey); err != nil {
					s.log.Warn("delete stored attachment failed",
						zap.String("post_id", p.ID.Hex()),
						zap.String("object_key", a.ObjectKey),
						zap.Error(err))
					continue
				}
				res.StorageFiles++

			case models.BackendExternalDrive:
				if s.drive == nil {
					s.log.Warn("drive not configured, attachment left in place",
						zap.String("post_id", p.ID.Hex()),
						zap.String("drive_file_id", a.DriveFileID))
					continue
				}
				if group == nil || group.DriveFolderID == "" {
					// No folder to park the file under. Leave it where
					// it is rather than guess at a destination.
					s.log.Warn("no drive folder for group, attachment left in place",
						zap.String("post_id", p.ID.Hex()),
						zap.String("drive_file_id", a.DriveFileID))
					continue
				}
				if deletedSubfolder == "" {
					id, err := s.drive.EnsureSubfolder(ctx, group.DriveFolderID, deletedAttachmentsFolder)
					if err != nil {
						s.log.Warn("ensure deleted-attachments folder failed",
							zap.String("group", group.Slug),
							zap.Error(err))
						continue
					}
					deletedSubfolder = id
				}
				if err := s.drive.MoveFile(ctx, a.DriveFileID, deletedSubfolder); err != nil {
					s.log.Warn("move drive attachment failed",
						zap.String("post_id", p.ID.Hex()),
						zap.String("drive_file_id", a.DriveFileID),
						zap.Error(err))
					continue
				}
				res.DriveFiles++

			default:
				s.log.Warn("attachment with unknown backend skipped",
					zap.String("post_id", p.ID.Hex()),
					zap.String("backend", a.Backend))
			}
		}
	}
}
