package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	apperrors "starwars/internal/errors"
	"starwars/internal/model"
	"starwars/internal/repository"
)

// CatalogService exposes CRUD and catalog import for one entity type.
type CatalogService[T model.CatalogEntity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id uint) error
	BulkImport(ctx context.Context, records []map[string]any) (*ImportResult[T], error)
}

// CharacterService manages characters.
type CharacterService = CatalogService[model.Character]

// PlanetService manages planets.
type PlanetService = CatalogService[model.Planet]

// ImportResult reports what a bulk import created and what it skipped.
type ImportResult[T model.CatalogEntity] struct {
	Created []T             `json:"created"`
	Skipped []SkippedRecord `json:"skipped"`
}

// SkippedRecord describes an import record that was not inserted.
type SkippedRecord struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

type catalogService[T model.CatalogEntity] struct {
	kind   string
	store  repository.Store
	repo   func(repository.Tx) repository.CatalogRepository[T]
	fields fieldSchema[T]
	log    *slog.Logger
}

// NewCharacterService creates a character service.
func NewCharacterService(store repository.Store, log *slog.Logger) CharacterService {
	return &catalogService[model.Character]{
		kind:   "character",
		store:  store,
		repo:   repository.Tx.Characters,
		fields: characterFields,
		log:    log.With("service", "characters"),
	}
}

// NewPlanetService creates a planet service.
func NewPlanetService(store repository.Store, log *slog.Logger) PlanetService {
	return &catalogService[model.Planet]{
		kind:   "planet",
		store:  store,
		repo:   repository.Tx.Planets,
		fields: planetFields,
		log:    log.With("service", "planets"),
	}
}

func (s *catalogService[T]) List(ctx context.Context) ([]T, error) {
	var entities []T
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		entities, err = s.repo(tx).List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", s.kind, err)
	}
	if entities == nil {
		entities = []T{}
	}
	return entities, nil
}

func (s *catalogService[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity *T
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		entity, err = s.repo(tx).FindByID(ctx, id)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("%s %d not found", s.kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	return entity, nil
}

// Create validates fields against the allow-list and inserts the entity.
// Unknown keys are ignored; a missing or malformed known field is a validation error.
func (s *catalogService[T]) Create(ctx context.Context, fields map[string]any) (*T, error) {
	entity, results := s.fields.decode(fields)
	if bad := rejected(results, false); len(bad) > 0 {
		return nil, apperrors.Validation("invalid %s: %s", s.kind, describe(bad))
	}

	if err := s.insert(ctx, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *catalogService[T]) insert(ctx context.Context, entity *T) error {
	name := (*entity).DisplayName()
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		repo := s.repo(tx)
		existing, err := repo.FindByName(ctx, name)
		if err == nil && existing != nil {
			return repository.ErrDuplicateKey
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check %s existence: %w", s.kind, err)
		}
		return repo.Create(ctx, entity)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return apperrors.Conflict("%s %q already exists", s.kind, name)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", s.kind, err)
	}
	return nil
}

func (s *catalogService[T]) Delete(ctx context.Context, id uint) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		return s.repo(tx).Delete(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %d not found", s.kind, id)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	return nil
}

// BulkImport inserts catalog records one unit of work at a time. Fields that
// are unknown or fail to parse are dropped. A record that still lacks a
// required field, or that clashes with an existing name, is skipped and the
// batch carries on. Only context cancellation stops the batch early.
func (s *catalogService[T]) BulkImport(ctx context.Context, records []map[string]any) (*ImportResult[T], error) {
	result := &ImportResult[T]{Created: []T{}, Skipped: []SkippedRecord{}}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name, _ := record["name"].(string)
		entity, results := s.fields.decode(record)

		for _, dropped := range rejected(results, true) {
			s.log.Debug("dropping field", "index", i, "name", name, "field", dropped.Field, "reason", dropped.Err)
		}

		if missing := s.fields.missingRequired(results); len(missing) > 0 {
			reason := fmt.Sprintf("missing or invalid required fields: %v", missing)
			s.log.Warn("skipping record", "index", i, "name", name, "reason", reason)
			result.Skipped = append(result.Skipped, SkippedRecord{Index: i, Name: name, Reason: reason})
			continue
		}

		if err := s.insert(ctx, &entity); err != nil {
			s.log.Warn("skipping record", "index", i, "name", name, "error", err)
			reason := "could not be stored"
			if errors.Is(err, apperrors.ErrConflict) {
				reason = err.Error()
			}
			result.Skipped = append(result.Skipped, SkippedRecord{Index: i, Name: name, Reason: reason})
			continue
		}
		result.Created = append(result.Created, entity)
	}

	s.log.Info("catalog import finished", "created", len(result.Created), "skipped", len(result.Skipped))
	return result, nil
}
