package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"nutripae-rh/internal/dto"
	"nutripae-rh/internal/entities"
	"nutripae-rh/internal/repositories"
	apperrors "nutripae-rh/pkg/errors"
)

const (
	optionsLimit = 200

	cacheKeyPrefix       = "parametric:"
	operationalRolesKey  = cacheKeyPrefix + "operational_roles"
	defaultParametricTTL = 10 * time.Minute
)

type ParametricServiceInterface interface {
	ListDocumentTypes(ctx context.Context) ([]dto.CatalogItemDTO, error)
	ListGenders(ctx context.Context) ([]dto.CatalogItemDTO, error)
	ListAvailabilityStatuses(ctx context.Context) ([]dto.CatalogItemDTO, error)
	ListOperationalRoles(ctx context.Context) ([]dto.OperationalRoleWithCountDTO, error)
	InvalidateOperationalRoles(ctx context.Context)
}

// ParametricService serves the option lists. Reads go through the cache; a broken cache
// only costs a database round-trip.
type ParametricService struct {
	parametricRepo repositories.ParametricRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	cacheTTL       time.Duration
	logger         *zap.Logger
}

func NewParametricService(
	parametricRepo repositories.ParametricRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ParametricService {
	if cacheTTL <= 0 {
		cacheTTL = defaultParametricTTL
	}
	return &ParametricService{
		parametricRepo: parametricRepo,
		cacheRepo:      cacheRepo,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

// cached reads key from the cache, falling back to load when the key is missing or unreadable,
// and stores what load returned.
func cached[T any](ctx context.Context, s *ParametricService, key string, load func() (T, error)) (T, error) {
	var value T

	raw, err := s.cacheRepo.Get(ctx, key)
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			s.logger.Debug("options served from cache", zap.String("key", key))
			return value, nil
		}
		s.logger.Warn("corrupt options cache entry", zap.String("key", key), zap.Error(err))
	} else if !repositories.IsCacheMiss(err) {
		s.logger.Warn("options cache unavailable", zap.String("key", key), zap.Error(err))
	}

	value, err = load()
	if err != nil {
		s.logger.Error("failed to load options", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, apperrors.ErrInternalServer
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode options for cache", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := s.cacheRepo.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache options", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func (s *ParametricService) listCatalog(ctx context.Context, catalog repositories.Catalog) ([]dto.CatalogItemDTO, error) {
	return cached(ctx, s, cacheKeyPrefix+string(catalog), func() ([]dto.CatalogItemDTO, error) {
		items, err := s.parametricRepo.ListCatalog(ctx, catalog, optionsLimit)
		if err != nil {
			return nil, err
		}
		dtos := make([]dto.CatalogItemDTO, 0, len(items))
		for i := range items {
			dtos = append(dtos, *catalogItemToDTO(&items[i]))
		}
		return dtos, nil
	})
}

func (s *ParametricService) ListDocumentTypes(ctx context.Context) ([]dto.CatalogItemDTO, error) {
	return s.listCatalog(ctx, repositories.CatalogDocumentTypes)
}

func (s *ParametricService) ListGenders(ctx context.Context) ([]dto.CatalogItemDTO, error) {
	return s.listCatalog(ctx, repositories.CatalogGenders)
}

func (s *ParametricService) ListAvailabilityStatuses(ctx context.Context) ([]dto.CatalogItemDTO, error) {
	return s.listCatalog(ctx, repositories.CatalogAvailabilityStatuses)
}

func (s *ParametricService) ListOperationalRoles(ctx context.Context) ([]dto.OperationalRoleWithCountDTO, error) {
	return cached(ctx, s, operationalRolesKey, func() ([]dto.OperationalRoleWithCountDTO, error) {
		roles, err := s.parametricRepo.ListOperationalRolesWithCount(ctx, optionsLimit)
		if err != nil {
			return nil, err
		}
		dtos := make([]dto.OperationalRoleWithCountDTO, 0, len(roles))
		for _, r := range roles {
			dtos = append(dtos, operationalRoleWithCountToDTO(r))
		}
		return dtos, nil
	})
}

func operationalRoleWithCountToDTO(r entities.OperationalRoleWithCount) dto.OperationalRoleWithCountDTO {
	return dto.OperationalRoleWithCountDTO{
		OperationalRoleDTO: dto.OperationalRoleDTO{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
		},
		EmployeeCount: r.EmployeeCount,
	}
}

// InvalidateOperationalRoles drops the cached role list so employee counts are recomputed.
func (s *ParametricService) InvalidateOperationalRoles(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, operationalRolesKey); err != nil {
		s.logger.Warn("failed to invalidate operational roles cache", zap.Error(err))
		return
	}
	s.logger.Debug("operational roles cache invalidated")
}
