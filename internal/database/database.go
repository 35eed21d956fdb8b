package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sweetshop/internal/models"

	"github.com/shopspring/decimal"
)

// DocumentStore reads and rewrites the shop document as a whole.
type DocumentStore interface {
	Read() (*models.Document, error)
	Write(doc *models.Document) error
}

// JSONDatabase keeps the shop document in a single JSON file. Every Read goes
// to disk and every Write replaces the file. There is no read-modify-write
// isolation between callers: the last writer wins.
type JSONDatabase struct {
	mu       sync.RWMutex
	filePath string
}

// NewDatabase returns a store for filePath, creating the parent directory and
// an empty document when the file does not exist yet.
func NewDatabase(filePath string) (*JSONDatabase, error) {
	db := &JSONDatabase{filePath: filePath}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		if err := db.Write(models.NewDocument()); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Path returns the backing file path.
func (db *JSONDatabase) Path() string {
	return db.filePath
}

// Read loads the document fresh from disk.
func (db *JSONDatabase) Read() (*models.Document, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	fileData, err := os.ReadFile(db.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	// An empty file is treated as an empty document.
	if len(fileData) == 0 {
		return models.NewDocument(), nil
	}

	doc := &models.Document{}
	if err := json.Unmarshal(fileData, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// Write replaces the file with doc.
func (db *JSONDatabase) Write(doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if err := os.WriteFile(db.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Seed fills an empty catalog with the sample categories, products and banner
// the shop ships with. Non-empty collections are left alone.
func (db *JSONDatabase) Seed() error {
	doc, err := db.Read()
	if err != nil {
		return err
	}

	changed := false
	if len(doc.Categories) == 0 {
		doc.Categories = append(doc.Categories,
			models.Category{ID: 1, Name: "Chocolates"},
			models.Category{ID: 2, Name: "Gift Packs"},
		)
		changed = true
	}
	if len(doc.Products) == 0 {
		doc.Products = append(doc.Products,
			models.Product{
				ID: 1, Name: "Melted Milk Chocolate", Category: 1,
				Description: "Delicious milk chocolate",
				Price:       decimal.NewFromInt(120), CartoonSize: 20,
				Image: "/media/placeholder-product.png", Stock: 20,
			},
			models.Product{
				ID: 2, Name: "Dark Chocolate Box", Category: 1,
				Description: "Assorted dark chocolates",
				Price:       decimal.NewFromInt(250), CartoonSize: 20,
				Image: "/media/placeholder-product.png", Stock: 10,
			},
		)
		changed = true
	}
	if len(doc.Banners) == 0 {
		doc.Banners = append(doc.Banners, models.Banner{ID: 1, Title: "Welcome Banner", Image: "/media/placeholder-banner.png"})
		changed = true
	}

	if !changed {
		return nil
	}
	return db.Write(doc)
}
