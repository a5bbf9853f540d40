package controllers

import (
	"context"
	"time"

	"catalog-service/models"
	"catalog-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
)

// ProductServiceAPI defines the product operations the controllers depend
// on. Tests back it with fakes.
type ProductServiceAPI interface {
	CreateProduct(ctx context.Context, req services.ProductCreateRequest, images []services.ImageUpload) (*models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	FilterProducts(ctx context.Context, params services.FilterParams) ([]*models.Product, error)
	RelatedProducts(ctx context.Context, id primitive.ObjectID) ([]*models.Product, error)
	ProductsByCollectionName(ctx context.Context, name string) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}, newImages []services.ImageUpload) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// CollectionServiceAPI defines the collection operations the controllers
// depend on.
type CollectionServiceAPI interface {
	CreateCollection(ctx context.Context, req services.CollectionCreateRequest) (*models.Collection, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	GetCollection(ctx context.Context, id primitive.ObjectID) (*models.Collection, error)
	UpdateCollection(ctx context.Context, id primitive.ObjectID, req services.CollectionCreateRequest) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id primitive.ObjectID) error
}
