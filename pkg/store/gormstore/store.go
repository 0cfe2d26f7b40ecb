package gormstore

import (
	"context"
	"encoding/json"
	"fmt"

	"turkgpt/pkg/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is the single table every collection shares. Seq gives the
// insertion order used to break ties between equal sort keys.
type Document struct {
	Seq        uint64         `gorm:"primaryKey;autoIncrement"`
	Collection string         `gorm:"type:varchar(64);not null;index:idx_documents_collection"`
	Body       datatypes.JSON `gorm:"not null"`
}

func (Document) TableName() string {
	return "documents"
}

// Store implements store.Store on top of postgres (jsonb) or sqlite (json1).
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps db and migrates the documents table.
func New(db *gorm.DB) (*Store, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Migrate creates or updates the documents table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return fmt.Errorf("auto migrate documents: %w", err)
	}
	return nil
}

func (s *Store) where(db *gorm.DB, collection string, filter store.Filter) *gorm.DB {
	db = db.Where("collection = ?", collection)
	for field, value := range filter {
		db = db.Where(datatypes.JSONQuery("body").Equals(value, field))
	}
	return db
}

// fieldExpr extracts a top-level JSON field as text. Field names are
// validated before they reach this point.
func (s *Store) fieldExpr(field string) string {
	switch s.db.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("body->>'%s'", field)
	default:
		return fmt.Sprintf("json_extract(body, '$.%s')", field)
	}
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) error {
	if err := store.Validate(collection, nil, nil); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	row := &Document{
		Collection: collection,
		Body:       datatypes.JSON(body),
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, sorts []store.Sort, limit int) ([]store.Document, error) {
	if err := store.Validate(collection, filter, sorts); err != nil {
		return nil, err
	}

	query := s.where(s.db.WithContext(ctx), collection, filter)
	for _, sort := range sorts {
		direction := "ASC"
		if sort.Desc {
			direction = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", s.fieldExpr(sort.Field), direction))
	}
	query = query.Order("seq ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*Document
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(rows))
	for _, row := range rows {
		var doc store.Document
		if err := json.Unmarshal(row.Body, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document %d: %w", row.Seq, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	if err := store.Validate(collection, filter, nil); err != nil {
		return 0, err
	}

	result := s.where(s.db.WithContext(ctx), collection, filter).Delete(&Document{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
