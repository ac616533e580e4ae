// internal/app/system/drive/drive.go

// Package drive wraps the Google Drive v3 API for the folder and
// attachment operations the app performs: group folders, renames on
// delete and restore, relocating attachments, and purging folders.
package drive

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client talks to Google Drive with service-account credentials.
type Client struct {
	svc *drivev3.Service
	log *zap.Logger
}

// NewClient builds a Drive client from service-account JSON credentials.
func NewClient(ctx context.Context, credentialsJSON []byte, log *zap.Logger) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, drivev3.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}
	svc, err := drivev3.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc, log: log}, nil
}

// CreateFolder creates a folder under the given parent and returns its ID.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	f := &drivev3.File{
		Name:     name,
		MimeType: folderMimeType,
	}
	if parentID != "" {
		f.Parents = []string{parentID}
	}
	created, err := c.svc.Files.Create(f).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	return created.Id, nil
}

// RenameFolder changes a folder's display name.
func (c *Client) RenameFolder(ctx context.Context, folderID, name string) error {
	_, err := c.svc.Files.Update(folderID, &drivev3.File{Name: name}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rename folder %s: %w", folderID, err)
	}
	return nil
}

// EnsureSubfolder returns the ID of the named child folder under
// parentID, creating it when it does not exist.
func (c *Client) EnsureSubfolder(ctx context.Context, parentID, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), parentID, folderMimeType)
	list, err := c.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find subfolder %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}
	return c.CreateFolder(ctx, parentID, name)
}

// MoveFile reparents a file to newParentID, detaching it from its
// current parents.
func (c *Client) MoveFile(ctx context.Context, fileID, newParentID string) error {
	f, err := c.svc.Files.Get(fileID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get file %s: %w", fileID, err)
	}
	call := c.svc.Files.Update(fileID, &drivev3.File{}).AddParents(newParentID)
	if len(f.Parents) > 0 {
		call = call.RemoveParents(strings.Join(f.Parents, ","))
	}
	if _, err := call.Context(ctx).Do(); err != nil {
		return fmt.Errorf("move file %s: %w", fileID, err)
	}
	return nil
}

// DeleteFolder permanently removes a folder and everything in it.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	if err := c.svc.Files.Delete(folderID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete folder %s: %w", folderID, err)
	}
	return nil
}

// escapeQuery escapes single quotes in Drive query string values.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
