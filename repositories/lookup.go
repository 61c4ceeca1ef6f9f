package repositories

import (
	"context"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
)

// LookupTypes are the metadata lists the report filters offer.
var LookupTypes = []string{
	models.MetadataTypeGender,
	models.MetadataTypeStatus,
	models.MetadataTypeRegistrationPlayMode,
	models.MetadataTypeLanguage,
	models.MetadataTypePlatform,
	models.MetadataTypeTracker,
}

// MetadataItemRepository serves the lookup table. Every list is ordered by
// display order, then name.
type MetadataItemRepository struct {
	*repositorycache.Repository[models.MetadataItem, int64]
}

func NewMetadataItemRepository(s store.EntityStore[models.MetadataItem, int64], c cache.CacheService, opts ...repositorycache.Option) *MetadataItemRepository {
	return &MetadataItemRepository{newRepository(s, c, withActiveFlag(), opts)}
}

// GetByType returns the items of one metadata list. Inactive items are left
// out unless includeInactive is set.
func (r *MetadataItemRepository) GetByType(ctx context.Context, metadataType string, includeInactive bool) ([]models.MetadataItem, error) {
	if err := repositorycache.RequireNonBlank("metadata type", metadataType); err != nil {
		return nil, err
	}

	criteria := []store.Criteria{repository.SelectBy("metadata_type", "=", metadataType)}
	if !includeInactive {
		criteria = append(criteria, store.WhereColumn(ActiveColumn, true))
	}
	criteria = append(criteria, repository.OrderBy("display_order ASC", "name ASC"))

	return r.FindMany(ctx, r.KeyFor("Type", metadataType, includeInactive), criteria...)
}

// GetByTypeAndCode returns the item with code in one metadata list, or nil.
// Inactive items are returned too.
func (r *MetadataItemRepository) GetByTypeAndCode(ctx context.Context, metadataType, code string) (*models.MetadataItem, error) {
	if err := repositorycache.RequireNonBlank("metadata type", metadataType); err != nil {
		return nil, err
	}
	if err := repositorycache.RequireNonBlank("code", code); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Type", metadataType, "Code", code),
		repository.SelectBy("metadata_type", "=", metadataType),
		repository.SelectBy("code", "=", code),
	)
}

func (r *MetadataItemRepository) GetGenders(ctx context.Context, includeInactive bool) ([]models.MetadataItem, error) {
	return r.GetByType(ctx, models.MetadataTypeGender, includeInactive)
}

func (r *MetadataItemRepository) GetStatuses(ctx context.Context, includeInactive bool) ([]models.MetadataItem, error) {
	return r.GetByType(ctx, models.MetadataTypeStatus, includeInactive)
}

func (r *MetadataItemRepository) GetRegistrationPlayModes(ctx context.Context, includeInactive bool) ([]models.MetadataItem, error) {
	return r.GetByType(ctx, models.MetadataTypeRegistrationPlayMode, includeInactive)
}

func (r *MetadataItemRepository) GetLanguages(ctx context.Context, includeInactive bool) ([]models.MetadataItem, error) {
	return r.GetByType(ctx, models.MetadataTypeLanguage, includeInactive)
}

func (r *MetadataItemRepository) GetPlatforms(ctx context.Context, includeInactive bool) ([]models.MetadataItem, error) {
	return r.GetByType(ctx, models.MetadataTypePlatform, includeInactive)
}

func (r *MetadataItemRepository) GetTrackers(ctx context.Context, includeInactive bool) ([]models.MetadataItem, error) {
	return r.GetByType(ctx, models.MetadataTypeTracker, includeInactive)
}

// Warmup loads the active items of every lookup list.
func (r *MetadataItemRepository) Warmup(ctx context.Context) error {
	if !r.CachingEnabled() {
		return nil
	}
	for _, metadataType := range LookupTypes {
		if _, err := r.GetByType(ctx, metadataType, false); err != nil {
			return err
		}
	}
	return nil
}
