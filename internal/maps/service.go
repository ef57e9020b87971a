package maps

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tablewick/tablewick/backend-go/internal/scene"
	"github.com/tablewick/tablewick/backend-go/internal/typeid"
	"github.com/tablewick/tablewick/backend-go/internal/vision"
)

var ErrNotFound = errors.New("map not found")

// Service is the in-memory map registry. Maps are authored here over HTTP and
// served to collab rooms; the visibility engine itself never touches this
// state, it only reads snapshots.
type Service struct {
	mu   sync.RWMutex
	docs map[string]*scene.MapDocument
}

func NewService() *Service {
	return &Service{docs: make(map[string]*scene.MapDocument)}
}

// Seed registers an existing document, keeping its ID.
func (s *Service) Seed(doc *scene.MapDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Map.ID] = doc
}

func (s *Service) Create(name string, width, height float64) (*scene.MapDocument, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("map size must be positive")
	}
	doc := scene.NewEmptyMap(typeid.NewMapID(), name, width, height)
	now := time.Now().UTC().Format(time.RFC3339)
	doc.Map.CreatedAt = now
	doc.Map.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Map.ID] = doc
	return doc, nil
}

func (s *Service) ImportUVTT(name string, data []byte) (*scene.MapDocument, error) {
	doc, err := scene.ImportUVTT(name, data)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	doc.Map.CreatedAt = now
	doc.Map.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Map.ID] = doc
	return doc, nil
}

func (s *Service) Get(mapID string) (*scene.MapDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[mapID]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// GetJSON marshals the document while holding the service lock, so a
// concurrent AddToken/AddLight never mutates the entity maps mid-serialize.
func (s *Service) GetJSON(mapID string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[mapID]
	if !ok {
		return nil, ErrNotFound
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal map: %w", err)
	}
	return data, nil
}

// GetCopy returns a deep copy of the document. Collab rooms take a copy so
// their session mutations never race HTTP reads of the authored state.
func (s *Service) GetCopy(mapID string) (*scene.MapDocument, error) {
	data, err := s.GetJSON(mapID)
	if err != nil {
		return nil, err
	}
	var copied scene.MapDocument
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("copy map: %w", err)
	}
	return &copied, nil
}

func (s *Service) List() []scene.MapInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]scene.MapInfo, 0, len(s.docs))
	for _, doc := range s.docs {
		infos = append(infos, doc.Map)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Service) Delete(mapID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[mapID]; !ok {
		return ErrNotFound
	}
	delete(s.docs, mapID)
	return nil
}

func (s *Service) AddToken(mapID string, t scene.Token) (scene.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[mapID]
	if !ok {
		return scene.Token{}, ErrNotFound
	}
	if t.ID == "" {
		t.ID = typeid.NewTokenID()
	}
	t.Vision.Modality = scene.ParseVisionModality(string(t.Vision.Modality))
	doc.Tokens[t.ID] = t
	doc.Map.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return t, nil
}

func (s *Service) AddLight(mapID string, l scene.Light) (scene.Light, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[mapID]
	if !ok {
		return scene.Light{}, ErrNotFound
	}
	if l.ID == "" {
		l.ID = typeid.NewLightID()
	}
	doc.Lights[l.ID] = l
	doc.Map.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return l, nil
}

// Visibility computes a one-shot visibility snapshot of the authored state,
// for debug overlays and non-live consumers.
func (s *Service) Visibility(mapID string) (*vision.Result, error) {
	s.mu.RLock()
	doc, ok := s.docs[mapID]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrNotFound
	}
	in := vision.InputFromDocument(doc)
	s.mu.RUnlock()

	return vision.ComputeSceneVisibility(in), nil
}
