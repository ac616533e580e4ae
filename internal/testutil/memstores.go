package testutil

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// In-memory stores satisfying the moderation service's store interfaces.
// They mirror the guarded-update semantics of the Mongo stores so
// handler tests run without a database.

// MemGroups is an in-memory working-group store.
type MemGroups struct {
	ByID map[primitive.ObjectID]*models.WorkingGroup
}

// NewMemGroups creates an empty in-memory group store.
func NewMemGroups() *MemGroups {
	return &MemGroups{ByID: make(map[primitive.ObjectID]*models.WorkingGroup)}
}

// Add inserts a group, assigning an ID when missing.
func (m *MemGroups) Add(g models.WorkingGroup) models.WorkingGroup {
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	m.ByID[g.ID] = &g
	return g
}

func (m *MemGroups) GetByID(_ context.Context, id primitive.ObjectID) (models.WorkingGroup, error) {
	g, ok := m.ByID[id]
	if !ok {
		return models.WorkingGroup{}, mongo.ErrNoDocuments
	}
	return *g, nil
}

func (m *MemGroups) GetBySlug(_ context.Context, slug string) (models.WorkingGroup, error) {
	for _, g := range m.ByID {
		if g.Slug == slug {
			return *g, nil
		}
	}
	return models.WorkingGroup{}, mongo.ErrNoDocuments
}

func (m *MemGroups) MarkDeleted(_ context.Context, id, by primitive.ObjectID, at time.Time) (int64, error) {
	g, ok := m.ByID[id]
	if !ok || g.Deleted {
		return 0, nil
	}
	g.Deleted = true
	g.DeletedAt = &at
	g.DeletedBy = &by
	return 1, nil
}

func (m *MemGroups) ClearDeleted(_ context.Context, id primitive.ObjectID) (int64, error) {
	g, ok := m.ByID[id]
	if !ok || !g.Deleted {
		return 0, nil
	}
	g.Deleted = false
	g.DeletedAt = nil
	g.DeletedBy = nil
	return 1, nil
}

func (m *MemGroups) ListDeleted(_ context.Context) ([]models.WorkingGroup, error) {
	var out []models.WorkingGroup
	for _, g := range m.ByID {
		if g.Deleted {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *MemGroups) FindExpired(_ context.Context, cutoff time.Time) ([]models.WorkingGroup, error) {
	var out []models.WorkingGroup
	for _, g := range m.ByID {
		if g.Deleted && g.DeletedAt != nil && g.DeletedAt.Before(cutoff) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *MemGroups) Purge(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.ByID[id]; !ok {
		return 0, nil
	}
	delete(m.ByID, id)
	return 1, nil
}

// MemThreads is an in-memory thread store.
type MemThreads struct {
	ByID map[primitive.ObjectID]*models.Thread
}

// NewMemThreads creates an empty in-memory thread store.
func NewMemThreads() *MemThreads {
	return &MemThreads{ByID: make(map[primitive.ObjectID]*models.Thread)}
}

// Add inserts a thread, assigning an ID when missing.
func (m *MemThreads) Add(t models.Thread) models.Thread {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.ByID[t.ID] = &t
	return t
}

func (m *MemThreads) GetByID(_ context.Context, id primitive.ObjectID) (models.Thread, error) {
	t, ok := m.ByID[id]
	if !ok {
		return models.Thread{}, mongo.ErrNoDocuments
	}
	return *t, nil
}

func (m *MemThreads) IncReplyCount(_ context.Context, id primitive.ObjectID, delta int64) error {
	t, ok := m.ByID[id]
	if !ok {
		return nil
	}
	if delta < 0 && t.ReplyCount == 0 {
		return nil
	}
	t.ReplyCount += delta
	return nil
}

func (m *MemThreads) MarkDeleted(_ context.Context, id, by primitive.ObjectID, at time.Time) (int64, error) {
	t, ok := m.ByID[id]
	if !ok || t.Deleted {
		return 0, nil
	}
	t.Deleted = true
	t.DeletedAt = &at
	t.DeletedBy = &by
	return 1, nil
}

func (m *MemThreads) MarkDeletedByGroupSlug(_ context.Context, slug string, by primitive.ObjectID, at time.Time) ([]models.Thread, error) {
	var marked []models.Thread
	for _, t := range m.ByID {
		if t.Deleted || !inGroup(t, slug) {
			continue
		}
		t.Deleted = true
		t.DeletedAt = &at
		t.DeletedBy = &by
		marked = append(marked, *t)
	}
	return marked, nil
}

func (m *MemThreads) ClearDeleted(_ context.Context, id primitive.ObjectID) (int64, error) {
	t, ok := m.ByID[id]
	if !ok || !t.Deleted {
		return 0, nil
	}
	t.Deleted = false
	t.DeletedAt = nil
	t.DeletedBy = nil
	return 1, nil
}

func (m *MemThreads) RestoreByGroupSlug(_ context.Context, slug string, at time.Time) ([]models.Thread, error) {
	var restored []models.Thread
	for _, t := range m.ByID {
		if !t.Deleted || !inGroup(t, slug) {
			continue
		}
		if t.DeletedAt == nil || !t.DeletedAt.Equal(at) {
			continue
		}
		t.Deleted = false
		t.DeletedAt = nil
		t.DeletedBy = nil
		restored = append(restored, *t)
	}
	return restored, nil
}

func (m *MemThreads) ListDeleted(_ context.Context) ([]models.Thread, error) {
	var out []models.Thread
	for _, t := range m.ByID {
		if t.Deleted {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MemThreads) FindExpiredByGroupSlug(_ context.Context, slug string, cutoff time.Time) ([]models.Thread, error) {
	var out []models.Thread
	for _, t := range m.ByID {
		if inGroup(t, slug) && t.Deleted && t.DeletedAt != nil && t.DeletedAt.Before(cutoff) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MemThreads) FindExpired(_ context.Context, cutoff time.Time) ([]models.Thread, error) {
	var out []models.Thread
	for _, t := range m.ByID {
		if t.Deleted && t.DeletedAt != nil && t.DeletedAt.Before(cutoff) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MemThreads) Purge(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.ByID[id]; !ok {
		return 0, nil
	}
	delete(m.ByID, id)
	return 1, nil
}

func (m *MemThreads) PurgeByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.ByID[id]; ok {
			delete(m.ByID, id)
			n++
		}
	}
	return n, nil
}

func inGroup(t *models.Thread, slug string) bool {
	for _, s := range t.WorkingGroups {
		if s == slug {
			return true
		}
	}
	return false
}

// MemPosts is an in-memory post store.
type MemPosts struct {
	ByID map[primitive.ObjectID]*models.Post
}

// NewMemPosts creates an empty in-memory post store.
func NewMemPosts() *MemPosts {
	return &MemPosts{ByID: make(map[primitive.ObjectID]*models.Post)}
}

// Add inserts a post, assigning an ID when missing.
func (m *MemPosts) Add(p models.Post) models.Post {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.ByID[p.ID] = &p
	return p
}

func (m *MemPosts) GetByID(_ context.Context, id primitive.ObjectID) (models.Post, error) {
	p, ok := m.ByID[id]
	if !ok {
		return models.Post{}, mongo.ErrNoDocuments
	}
	return *p, nil
}

func (m *MemPosts) MarkDeleted(_ context.Context, id, by primitive.ObjectID, at time.Time) (int64, error) {
	p, ok := m.ByID[id]
	if !ok || p.Deleted {
		return 0, nil
	}
	p.Deleted = true
	p.DeletedAt = &at
	p.DeletedBy = &by
	return 1, nil
}

func (m *MemPosts) MarkDeletedByThreadIDs(_ context.Context, threadIDs []primitive.ObjectID, by primitive.ObjectID, at time.Time) ([]models.Post, error) {
	var marked []models.Post
	for _, p := range m.ByID {
		if p.Deleted || !containsID(threadIDs, p.ThreadID) {
			continue
		}
		p.Deleted = true
		p.DeletedAt = &at
		p.DeletedBy = &by
		marked = append(marked, *p)
	}
	return marked, nil
}

func (m *MemPosts) ClearDeleted(_ context.Context, id primitive.ObjectID) (int64, error) {
	p, ok := m.ByID[id]
	if !ok || !p.Deleted {
		return 0, nil
	}
	p.Deleted = false
	p.DeletedAt = nil
	p.DeletedBy = nil
	return 1, nil
}

func (m *MemPosts) RestoreByThreadIDs(_ context.Context, threadIDs []primitive.ObjectID, at time.Time) (int64, error) {
	var n int64
	for _, p := range m.ByID {
		if !p.Deleted || !containsID(threadIDs, p.ThreadID) {
			continue
		}
		if p.DeletedAt == nil || !p.DeletedAt.Equal(at) {
			continue
		}
		p.Deleted = false
		p.DeletedAt = nil
		p.DeletedBy = nil
		n++
	}
	return n, nil
}

func (m *MemPosts) ListDeleted(_ context.Context) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.ByID {
		if p.Deleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MemPosts) FindExpired(_ context.Context, cutoff time.Time) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.ByID {
		if p.Deleted && p.DeletedAt != nil && p.DeletedAt.Before(cutoff) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MemPosts) Purge(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.ByID[id]; !ok {
		return 0, nil
	}
	delete(m.ByID, id)
	return 1, nil
}

func (m *MemPosts) PurgeByThreadIDs(_ context.Context, threadIDs []primitive.ObjectID) (int64, error) {
	var n int64
	for id, p := range m.ByID {
		if containsID(threadIDs, p.ThreadID) {
			delete(m.ByID, id)
			n++
		}
	}
	return n, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// MemObjects records object-storage deletions.
type MemObjects struct {
	Deleted []string
}

func (m *MemObjects) Delete(_ context.Context, path string) error {
	m.Deleted = append(m.Deleted, path)
	return nil
}

// MemDrive is an in-memory Drive folder tree.
type MemDrive struct {
	Names      map[string]string
	Subfolders map[string]string
	Parents    map[string]string
	Trashed    []string
	nextID     int
}

// NewMemDrive creates an empty in-memory Drive.
func NewMemDrive() *MemDrive {
	return &MemDrive{
		Names:      make(map[string]string),
		Subfolders: make(map[string]string),
		Parents:    make(map[string]string),
	}
}

func (m *MemDrive) RenameFolder(_ context.Context, folderID, name string) error {
	m.Names[folderID] = name
	return nil
}

func (m *MemDrive) EnsureSubfolder(_ context.Context, parentID, name string) (string, error) {
	key := parentID + "/" + name
	if id, ok := m.Subfolders[key]; ok {
		return id, nil
	}
	m.nextID++
	id := fmt.Sprintf("memfolder-%d", m.nextID)
	m.Subfolders[key] = id
	return id, nil
}

func (m *MemDrive) MoveFile(_ context.Context, fileID, newParentID string) error {
	m.Parents[fileID] = newParentID
	return nil
}

func (m *MemDrive) DeleteFolder(_ context.Context, folderID string) error {
	m.Trashed = append(m.Trashed, folderID)
	return nil
}

func (m *MemDrive) CreateFolder(_ context.Context, parentID, name string) (string, error) {
	m.nextID++
	id := fmt.Sprintf("memfolder-%d", m.nextID)
	m.Names[id] = name
	if parentID != "" {
		m.Parents[id] = parentID
	}
	return id, nil
}
