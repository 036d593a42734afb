package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/storage"
)

const (
	sessionPrefix = "sessions/"
	exportPrefix  = "exports/"
)

// SessionRepository persists wizard sessions as flat JSON objects.
type SessionRepository interface {
	Save(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]SessionSummary, error)
	SaveExport(ctx context.Context, sessionID, name string, data []byte) (string, error)
}

// SessionSummary is the listing view of a stored session.
type SessionSummary struct {
	ID        string    `json:"id"`
	StoreName string    `json:"store_name"`
	WeekStart string    `json:"week_start,omitempty"`
	Products  int       `json:"products"`
	UpdatedAt time.Time `json:"updated_at"`
}

type objectSessionRepository struct {
	store storage.ObjectStorage
}

func NewSessionRepository(store storage.ObjectStorage) SessionRepository {
	return &objectSessionRepository{store: store}
}

func sessionKey(id string) string {
	return sessionPrefix + id + ".json"
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\.`)
}

func (r *objectSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	if !validID(s.ID) {
		return fmt.Errorf("invalid session id %q", s.ID)
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.UploadObject(ctx, sessionKey(s.ID), payload); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *objectSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if !validID(id) {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	payload, err := r.store.GetObject(ctx, sessionKey(id))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *objectSessionRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	err := r.store.DeleteObject(ctx, sessionKey(id))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return err
}

// List returns the stored sessions, most recently updated first.
func (r *objectSessionRepository) List(ctx context.Context) ([]SessionSummary, error) {
	objects, err := r.store.ListObjects(ctx, sessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(objects))
	for _, obj := range objects {
		if path.Ext(obj.Key) != ".json" {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(obj.Key, sessionPrefix), ".json")
		s, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		summary := SessionSummary{ID: s.ID, StoreName: s.Store.Name, Products: len(s.Products), UpdatedAt: s.UpdatedAt}
		if !s.Week.WeekStart.IsZero() {
			summary.WeekStart = s.Week.WeekStart.String()
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt) })
	return summaries, nil
}

// SaveExport stores a generated file next to the session and returns its key.
func (r *objectSessionRepository) SaveExport(ctx context.Context, sessionID, name string, data []byte) (string, error) {
	if !validID(sessionID) {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	key := exportPrefix + sessionID + "/" + path.Base(name)
	if err := r.store.UploadObject(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}
	return key, nil
}
