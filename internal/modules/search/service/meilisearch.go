package service

import (
	"encoding/json"
	"fmt"
	"log"

	"anoa.com/inventorybackend/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

// CategoryIndex keeps the category search index in sync with the store and
// answers keyword lookups. All writes are best-effort from the caller's
// point of view.
type CategoryIndex interface {
	IndexCategory(category *entity.Category) error
	DeleteCategory(id string) error
	SearchCategories(keyword string) ([]uuid.UUID, error)
}

type meiliCategoryDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type meiliCategoryIndex struct {
	client meilisearch.ServiceManager
}

// NewMeiliCategoryIndex wires a Meilisearch-backed CategoryIndex. A nil
// client yields a nil index; callers treat that as "search via the store".
func NewMeiliCategoryIndex(client meilisearch.ServiceManager) CategoryIndex {
	if client == nil {
		return nil
	}

	s := &meiliCategoryIndex{client: client}
	s.initIndex()
	return s
}

func (s *meiliCategoryIndex) initIndex() {
	// Only the name is matched; the description rides along for display.
	searchable := []string{"name"}
	if _, err := s.client.Index("categories").UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("Failed to update categories searchable attributes: %v", err)
	}

	filterable := []any{"is_active"}
	if _, err := s.client.Index("categories").UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update categories filterable attributes: %v", err)
	}

	sortable := []string{"display_order"}
	if _, err := s.client.Index("categories").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update categories sortable attributes: %v", err)
	}
}

func (s *meiliCategoryIndex) IndexCategory(category *entity.Category) error {
	doc := meiliCategoryDoc{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		IsActive:    category.IsActive,
	}

	task, err := s.client.Index("categories").AddDocuments([]meiliCategoryDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed category %s, task id: %d", category.ID, task.TaskUID)
	return nil
}

func (s *meiliCategoryIndex) DeleteCategory(id string) error {
	_, err := s.client.Index("categories").DeleteDocument(id)
	return err
}

func (s *meiliCategoryIndex) SearchCategories(keyword string) ([]uuid.UUID, error) {
	resp, err := s.client.Index("categories").Search(keyword, &meilisearch.SearchRequest{
		Filter: "is_active = true",
		Limit:  200,
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc meiliCategoryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			log.Printf("Skipping category hit with malformed id %q", doc.ID)
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
