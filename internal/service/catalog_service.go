package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/snapcart/storefront/internal/domain"
	"github.com/snapcart/storefront/internal/events"
	"github.com/snapcart/storefront/internal/repository"
	apperrors "github.com/snapcart/storefront/pkg/util"
)

const productListCacheKey = "catalog:products"

// CatalogService manages the product catalog with a cache-aside list cache.
type CatalogService struct {
	products   repository.ProductRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCatalogService builds the service. Cache may be nil when Redis is not
// configured; all operations then go straight to Postgres.
func NewCatalogService(products repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		cache:      cache,
		cacheTTL:   cacheTTL,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List returns the full catalog, served from cache when warm.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, productListCacheKey).Bytes()
		if err == nil {
			var products []domain.Product
			if jsonErr := json.Unmarshal(raw, &products); jsonErr == nil {
				return products, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, productListCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return products, nil
}

// Get fetches a single product.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	return product, nil
}

func mapNotFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

// Create lists a new product for the seller.
func (s *CatalogService) Create(ctx context.Context, sellerID string, product *domain.Product) error {
	product.SellerID = sellerID
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, events.EventProductCreated, sellerID, events.ProductPayload{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
	})
	return nil
}

// Update modifies an existing product. Only the owning seller or a platform
// admin may mutate a listing.
func (s *CatalogService) Update(ctx context.Context, actor ActorRef, product *domain.Product) error {
	existing, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return mapNotFound(err, "product")
	}
	if err := s.authorize(actor, existing); err != nil {
		return err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return mapNotFound(err, "product")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a product listing.
func (s *CatalogService) Delete(ctx context.Context, actor ActorRef, id string) error {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "product")
	}
	if err := s.authorize(actor, existing); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return mapNotFound(err, "product")
	}
	s.invalidate(ctx)
	s.publish(ctx, events.EventProductDeleted, actor.ID, events.ProductPayload{
		ProductID: existing.ID,
		Title:     existing.Title,
		Price:     existing.Price,
	})
	return nil
}

// ActorRef identifies the caller of a catalog mutation.
type ActorRef struct {
	ID   string
	Role domain.Role
}

func (s *CatalogService) authorize(actor ActorRef, product *domain.Product) error {
	if actor.Role == domain.RolePlatformAdmin {
		return nil
	}
	if product.SellerID != actor.ID {
		return apperrors.NewForbidden("not the owner of this listing")
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productListCacheKey).Err(); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
