package repository

import (
	"context"
	"errors"

	"catalog-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors surfaced by repository adapters. Services and controllers
// test these with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already exists")
)

// ProductQuery holds the filter criteria understood by the product
// repository. Zero values mean "no constraint". Criteria combine with AND;
// Tags matches products carrying at least one of the given tags.
type ProductQuery struct {
	Brand        string
	Size         string
	Color        string
	Tags         []string
	MinPrice     *float64
	MaxPrice     *float64
	Featured     *bool
	CollectionID primitive.ObjectID
	ExcludeID    primitive.ObjectID
	Limit        int64
}

// ProductRepo defines the product operations used by the catalog service.
// The interface sticks to plain Go types and model structs so fakes can back
// it in tests.
type ProductRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, q ProductQuery) ([]*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// CollectionRepo defines the collection operations used by the catalog
// service.
type CollectionRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collection, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collection, error)
	FindByName(ctx context.Context, name string) (*models.Collection, error)
	FindAll(ctx context.Context) ([]models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}
