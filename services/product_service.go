package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// relatedLimit caps the related-products result set.
	relatedLimit = 4

	MinProductImages = 1
	MaxProductImages = 4
)

type ProductService struct {
	products    repository.ProductRepo
	collections repository.CollectionRepo
	images      ImageStore
	events      EventPublisher
}

func NewProductService(pr repository.ProductRepo, cr repository.CollectionRepo, images ImageStore, events EventPublisher) *ProductService {
	return &ProductService{
		products:    pr,
		collections: cr,
		images:      images,
		events:      events,
	}
}

// CreateProduct resolves the collection by name, uploads the images and
// inserts the product document. Upload failures abort the operation; nothing
// is inserted without its full image set.
func (s *ProductService) CreateProduct(ctx context.Context, req ProductCreateRequest, images []ImageUpload) (*models.Product, error) {
	// Step 1: Validate the payload
	if err := validateCreateRequest(req, len(images)); err != nil {
		return nil, err
	}

	// Step 2: Resolve the collection reference by exact name
	collection, err := s.collections.FindByName(ctx, req.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", req.CollectionName, err)
	}

	// Step 3: Upload images under a fresh folder and collect public URLs
	imageURLs, err := s.uploadImages(ctx, uuid.New().String(), images)
	if err != nil {
		return nil, err
	}

	// Step 4: Insert the document
	now := time.Now().UTC()
	product := &models.Product{
		ID:            primitive.NewObjectID(),
		Name:          req.Name,
		CollectionID:  collection.ID,
		Brand:         req.Brand,
		Tags:          req.Tags,
		Images:        imageURLs,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Colors:        req.Colors,
		Sizes:         req.Sizes,
		Featured:      req.Featured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	product.CollectionName = collection.Name
	s.publishProductEvent(ctx, models.EventProductCreated, product)
	return product, nil
}

// GetProduct returns the product with its collection name joined in.
func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachCollectionNames(ctx, []*models.Product{product})
	return product, nil
}

// ListProducts returns all products with collection names joined in.
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.products.Find(ctx, repository.ProductQuery{})
	if err != nil {
		return nil, err
	}
	s.attachCollectionNames(ctx, products)
	return products, nil
}

// FilterProducts returns the products matching every provided criterion.
func (s *ProductService) FilterProducts(ctx context.Context, params FilterParams) ([]*models.Product, error) {
	products, err := s.products.Find(ctx, repository.ProductQuery{
		Brand:    params.Brand,
		Size:     params.Size,
		Color:    params.Color,
		Tags:     params.Tags,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
		Featured: params.Featured,
	})
	if err != nil {
		return nil, err
	}
	s.attachCollectionNames(ctx, products)
	return products, nil
}

// RelatedProducts returns up to 4 other products sharing at least one tag
// with the given product, in storage order.
func (s *ProductService) RelatedProducts(ctx context.Context, id primitive.ObjectID) ([]*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related := make([]*models.Product, 0, relatedLimit)
	if len(product.Tags) == 0 {
		return related, nil
	}

	candidates, err := s.products.Find(ctx, repository.ProductQuery{
		Tags:      product.Tags,
		ExcludeID: product.ID,
		Limit:     relatedLimit + 1,
	})
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if candidate.ID == product.ID {
			continue
		}
		related = append(related, candidate)
		if len(related) == relatedLimit {
			break
		}
	}
	s.attachCollectionNames(ctx, related)
	return related, nil
}

// ProductsByCollectionName resolves the collection and lists its products.
// An existing but empty collection is reported as not found, which is the
// contract the storefront collection pages rely on.
func (s *ProductService) ProductsByCollectionName(ctx context.Context, name string) ([]*models.Product, error) {
	collection, err := s.collections.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, err)
	}

	products, err := s.products.Find(ctx, repository.ProductQuery{CollectionID: collection.ID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products in collection %q: %w", name, repository.ErrNotFound)
	}
	for _, product := range products {
		product.CollectionName = collection.Name
	}
	return products, nil
}

// UpdateProduct applies field updates; when new images are supplied the old
// objects are removed best-effort and the new set replaces them.
func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}, newImages []ImageUpload) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(newImages) > 0 {
		if len(newImages) > MaxProductImages {
			return nil, invalid("images", fmt.Sprintf("a product must have between %d and %d images", MinProductImages, MaxProductImages))
		}
		s.removeImages(ctx, existing.Images)
		imageURLs, err := s.uploadImages(ctx, id.Hex(), newImages)
		if err != nil {
			return nil, err
		}
		updates["images"] = imageURLs
	}

	for _, protected := range []string{"_id", "id", "created_at", "createdAt"} {
		delete(updates, protected)
	}
	if len(updates) == 0 {
		return nil, invalid("", "no update fields provided")
	}

	if err := s.products.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishProductEvent(ctx, models.EventProductUpdated, updated)
	return updated, nil
}

// DeleteProduct removes the document, then attempts to remove its images
// from storage. Image cleanup failures are logged and never surfaced.
func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.removeImages(ctx, product.Images)
	s.publishProductEvent(ctx, models.EventProductDeleted, product)
	return product, nil
}

func validateCreateRequest(req ProductCreateRequest, imageCount int) error {
	if req.Name == "" {
		return invalid("name", "name is required")
	}
	if req.CollectionName == "" {
		return invalid("collectionName", "collectionName is required")
	}
	if req.Brand == "" {
		return invalid("brand", "brand is required")
	}
	if len(req.Tags) == 0 {
		return invalid("tags", "at least one tag is required")
	}
	if req.Price <= 0 {
		return invalid("price", "price must be greater than zero")
	}
	if imageCount < MinProductImages || imageCount > MaxProductImages {
		return invalid("images", fmt.Sprintf("a product must have between %d and %d images", MinProductImages, MaxProductImages))
	}
	return nil
}

// uploadImages stores each image under folder/<uuid>.<ext> and returns the
// public URLs in input order. The first failed upload aborts.
func (s *ProductService) uploadImages(ctx context.Context, folder string, images []ImageUpload) ([]string, error) {
	imageURLs := make([]string, 0, len(images))
	for _, img := range images {
		name := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(img.Filename))
		url, err := s.images.Upload(ctx, name, img.ContentType, img.Body)
		if err != nil {
			return nil, fmt.Errorf("upload image %s: %w", img.Filename, err)
		}
		imageURLs = append(imageURLs, url)
	}
	return imageURLs, nil
}

// removeImages attempts every deletion and logs failures. A failed removal
// never aborts the remaining deletions or the parent operation.
func (s *ProductService) removeImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.images.Remove(ctx, url); err != nil {
			zap.L().Warn("Failed to remove product image",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}
}

// attachCollectionNames joins collection names onto products in one batch
// lookup. Products whose collection no longer exists keep an empty name.
func (s *ProductService) attachCollectionNames(ctx context.Context, products []*models.Product) {
	if len(products) == 0 {
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, product := range products {
		if !seen[product.CollectionID] {
			ids = append(ids, product.CollectionID)
			seen[product.CollectionID] = true
		}
	}

	collections, err := s.collections.FindByIDs(ctx, ids)
	if err != nil {
		zap.L().Warn("Failed to resolve collection names", zap.Error(err))
		return
	}
	names := make(map[primitive.ObjectID]string, len(collections))
	for _, collection := range collections {
		names[collection.ID] = collection.Name
	}
	for _, product := range products {
		product.CollectionName = names[product.CollectionID]
	}
}

func (s *ProductService) publishProductEvent(ctx context.Context, eventType string, product *models.Product) {
	if s.events == nil {
		return
	}

	event := models.CatalogEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		ProductID: product.ID.Hex(),
		Product:   product,
	}
	body, err := event.ToJSON()
	if err != nil {
		zap.L().Warn("Failed to marshal catalog event", zap.Error(err))
		return
	}
	if err := s.events.Publish(ctx, body); err != nil {
		zap.L().Warn("Failed to publish catalog event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
