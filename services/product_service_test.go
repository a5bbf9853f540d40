package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"catalog-service/models"
	"catalog-service/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeProductRepo struct {
	byID      map[primitive.ObjectID]*models.Product
	findFn    func(q repository.ProductQuery) ([]*models.Product, error)
	lastQuery repository.ProductQuery
	created   []*models.Product
	updated   map[string]interface{}
	deleted   []primitive.ObjectID
	createErr error
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProductRepo) Find(ctx context.Context, q repository.ProductQuery) ([]*models.Product, error) {
	f.lastQuery = q
	if f.findFn != nil {
		return f.findFn(q)
	}
	return []*models.Product{}, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, product)
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	f.updated = updates
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProductRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeCollectionRepo struct {
	byName map[string]*models.Collection
}

func (f *fakeCollectionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collection, error) {
	for _, c := range f.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCollectionRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collection, error) {
	var out []models.Collection
	for _, c := range f.byName {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (f *fakeCollectionRepo) FindByName(ctx context.Context, name string) (*models.Collection, error) {
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCollectionRepo) FindAll(ctx context.Context) ([]models.Collection, error) {
	return nil, nil
}

func (f *fakeCollectionRepo) Create(ctx context.Context, collection *models.Collection) error {
	if f.byName == nil {
		f.byName = map[string]*models.Collection{}
	}
	if _, ok := f.byName[collection.Name]; ok {
		return repository.ErrDuplicateName
	}
	f.byName[collection.Name] = collection
	return nil
}

func (f *fakeCollectionRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeCollectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (f *fakeCollectionRepo) EnsureIndexes(ctx context.Context) error { return nil }

// memoryImageStore records Upload and Remove calls. failAfter > 0 makes
// uploads fail once that many have succeeded.
type memoryImageStore struct {
	uploaded  []string
	removed   []string
	failAfter int
	removeErr error
}

func (s *memoryImageStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if s.failAfter > 0 && len(s.uploaded) >= s.failAfter {
		return "", errors.New("upload failed")
	}
	s.uploaded = append(s.uploaded, name)
	return s.urlFor(name), nil
}

func (s *memoryImageStore) Remove(ctx context.Context, publicURL string) error {
	s.removed = append(s.removed, publicURL)
	return s.removeErr
}

func (s *memoryImageStore) urlFor(name string) string {
	return "https://cdn.test/" + name
}

type fakePublisher struct {
	published [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, body []byte) error {
	f.published = append(f.published, body)
	return nil
}

func newProduct(name string, tags ...string) *models.Product {
	return &models.Product{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Tags:  tags,
		Price: 10,
	}
}

func uploads(n int) []ImageUpload {
	out := make([]ImageUpload, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ImageUpload{
			Filename:    fmt.Sprintf("photo-%d.jpg", i),
			ContentType: "image/jpeg",
			Body:        strings.NewReader("fake image bytes"),
		})
	}
	return out
}

func validCreateRequest() ProductCreateRequest {
	return ProductCreateRequest{
		Name:           "Linen Shirt",
		CollectionName: "Summer",
		Brand:          "Acme",
		Tags:           []string{"shirt", "linen"},
		Price:          49.99,
	}
}

func newTestService(products *fakeProductRepo, collections *fakeCollectionRepo, images ImageStore, events EventPublisher) *ProductService {
	return NewProductService(products, collections, images, events)
}

func TestCreateProductUnknownCollection(t *testing.T) {
	products := &fakeProductRepo{}
	collections := &fakeCollectionRepo{}
	store := &memoryImageStore{}

	svc := newTestService(products, collections, store, nil)
	_, err := svc.CreateProduct(context.Background(), validCreateRequest(), uploads(2))
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.uploaded) != 0 {
		t.Fatalf("expected no uploads, got %d", len(store.uploaded))
	}
	if len(products.created) != 0 {
		t.Fatalf("expected no insert, got %d", len(products.created))
	}
}

func TestCreateProductUploadsImagesInOrder(t *testing.T) {
	summer := &models.Collection{ID: primitive.NewObjectID(), Name: "Summer"}
	products := &fakeProductRepo{}
	collections := &fakeCollectionRepo{byName: map[string]*models.Collection{"Summer": summer}}
	store := &memoryImageStore{}
	events := &fakePublisher{}

	svc := newTestService(products, collections, store, events)
	product, err := svc.CreateProduct(context.Background(), validCreateRequest(), uploads(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(product.Images) != 3 {
		t.Fatalf("expected 3 image URLs, got %d", len(product.Images))
	}
	if len(store.uploaded) != 3 {
		t.Fatalf("expected 3 uploads, got %d", len(store.uploaded))
	}
	for i, url := range product.Images {
		if url != store.urlFor(store.uploaded[i]) {
			t.Fatalf("image %d out of order: got %q", i, url)
		}
	}

	if product.CollectionID != summer.ID {
		t.Fatalf("expected collection id %s, got %s", summer.ID.Hex(), product.CollectionID.Hex())
	}
	if product.CollectionName != "Summer" {
		t.Fatalf("expected collection name joined in, got %q", product.CollectionName)
	}
	if len(products.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(products.created))
	}
	if len(events.published) != 1 {
		t.Fatalf("expected one event, got %d", len(events.published))
	}
}

func TestCreateProductImageCountBounds(t *testing.T) {
	summer := &models.Collection{ID: primitive.NewObjectID(), Name: "Summer"}

	for _, tc := range []struct {
		count int
		ok    bool
	}{
		{0, false},
		{1, true},
		{4, true},
		{5, false},
	} {
		products := &fakeProductRepo{}
		collections := &fakeCollectionRepo{byName: map[string]*models.Collection{"Summer": summer}}
		svc := newTestService(products, collections, &memoryImageStore{}, nil)

		_, err := svc.CreateProduct(context.Background(), validCreateRequest(), uploads(tc.count))
		if tc.ok && err != nil {
			t.Fatalf("count %d: unexpected error: %v", tc.count, err)
		}
		if !tc.ok {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("count %d: expected validation error, got %v", tc.count, err)
			}
		}
	}
}

func TestCreateProductUploadFailureAborts(t *testing.T) {
	summer := &models.Collection{ID: primitive.NewObjectID(), Name: "Summer"}
	products := &fakeProductRepo{}
	collections := &fakeCollectionRepo{byName: map[string]*models.Collection{"Summer": summer}}
	store := &memoryImageStore{failAfter: 1}

	svc := newTestService(products, collections, store, nil)
	_, err := svc.CreateProduct(context.Background(), validCreateRequest(), uploads(3))
	if err == nil {
		t.Fatal("expected upload failure to abort creation")
	}
	if len(products.created) != 0 {
		t.Fatalf("expected no insert after failed upload, got %d", len(products.created))
	}
}

func TestRelatedProductsSharedTags(t *testing.T) {
	cotton := newProduct("Cotton Tee", "shirt", "cotton")
	linen := newProduct("Linen Shirt", "shirt", "linen")
	shorts := newProduct("Beach Shorts", "shorts")

	products := &fakeProductRepo{
		byID: map[primitive.ObjectID]*models.Product{cotton.ID: cotton},
		findFn: func(q repository.ProductQuery) ([]*models.Product, error) {
			var out []*models.Product
			for _, p := range []*models.Product{cotton, linen, shorts} {
				if p.ID == q.ExcludeID {
					continue
				}
				for _, tag := range q.Tags {
					if hasTag(p, tag) {
						out = append(out, p)
						break
					}
				}
			}
			return out, nil
		},
	}

	svc := newTestService(products, &fakeCollectionRepo{}, &memoryImageStore{}, nil)
	related, err := svc.RelatedProducts(context.Background(), cotton.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(related) != 1 || related[0].ID != linen.ID {
		t.Fatalf("expected only the linen shirt, got %d results", len(related))
	}
}

func TestRelatedProductsCapsAtFour(t *testing.T) {
	base := newProduct("Base", "shirt")
	others := make([]*models.Product, 0, 6)
	for i := 0; i < 6; i++ {
		others = append(others, newProduct(fmt.Sprintf("Other %d", i), "shirt"))
	}

	products := &fakeProductRepo{
		byID: map[primitive.ObjectID]*models.Product{base.ID: base},
		findFn: func(q repository.ProductQuery) ([]*models.Product, error) {
			// Include the base product to verify the service skips it even
			// when the storage filter misses the exclusion.
			out := append([]*models.Product{base}, others...)
			if q.Limit > 0 && int64(len(out)) > q.Limit {
				out = out[:q.Limit]
			}
			return out, nil
		},
	}

	svc := newTestService(products, &fakeCollectionRepo{}, &memoryImageStore{}, nil)
	related, err := svc.RelatedProducts(context.Background(), base.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(related) != 4 {
		t.Fatalf("expected 4 related products, got %d", len(related))
	}
	for _, p := range related {
		if p.ID == base.ID {
			t.Fatal("related products must not include the product itself")
		}
	}
}

func TestRelatedProductsUnknownID(t *testing.T) {
	svc := newTestService(&fakeProductRepo{}, &fakeCollectionRepo{}, &memoryImageStore{}, nil)
	_, err := svc.RelatedProducts(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductsByCollectionNameEmpty(t *testing.T) {
	summer := &models.Collection{ID: primitive.NewObjectID(), Name: "Summer"}
	products := &fakeProductRepo{
		findFn: func(q repository.ProductQuery) ([]*models.Product, error) {
			return []*models.Product{}, nil
		},
	}
	collections := &fakeCollectionRepo{byName: map[string]*models.Collection{"Summer": summer}}

	svc := newTestService(products, collections, &memoryImageStore{}, nil)
	_, err := svc.ProductsByCollectionName(context.Background(), "Summer")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty collection, got %v", err)
	}
	if products.lastQuery.CollectionID != summer.ID {
		t.Fatalf("expected query scoped to collection %s", summer.ID.Hex())
	}
}

func TestFilterProductsMapsParams(t *testing.T) {
	min, max := 10.0, 100.0
	featured := true
	products := &fakeProductRepo{}

	svc := newTestService(products, &fakeCollectionRepo{}, &memoryImageStore{}, nil)
	_, err := svc.FilterProducts(context.Background(), FilterParams{
		Brand:    "Acme",
		Size:     "M",
		Color:    "blue",
		Tags:     []string{"shirt", "cotton"},
		MinPrice: &min,
		MaxPrice: &max,
		Featured: &featured,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := products.lastQuery
	if q.Brand != "Acme" || q.Size != "M" || q.Color != "blue" {
		t.Fatalf("unexpected scalar criteria: %+v", q)
	}
	if len(q.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(q.Tags))
	}
	if q.MinPrice == nil || *q.MinPrice != 10.0 || q.MaxPrice == nil || *q.MaxPrice != 100.0 {
		t.Fatalf("unexpected price bounds: %+v", q)
	}
	if q.Featured == nil || !*q.Featured {
		t.Fatalf("expected featured=true, got %v", q.Featured)
	}
}

func TestUpdateProductReplacesImages(t *testing.T) {
	existing := newProduct("Linen Shirt", "shirt")
	existing.Images = []string{"https://cdn.test/old/a.jpg", "https://cdn.test/old/b.jpg"}
	products := &fakeProductRepo{byID: map[primitive.ObjectID]*models.Product{existing.ID: existing}}
	store := &memoryImageStore{}

	svc := newTestService(products, &fakeCollectionRepo{}, store, nil)
	_, err := svc.UpdateProduct(context.Background(), existing.ID, map[string]interface{}{}, uploads(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.removed) != 2 {
		t.Fatalf("expected 2 removals, got %d", len(store.removed))
	}
	if len(store.uploaded) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(store.uploaded))
	}
	newImages, ok := products.updated["images"].([]string)
	if !ok || len(newImages) != 2 {
		t.Fatalf("expected 2 replacement image URLs in updates, got %v", products.updated["images"])
	}
}

func TestUpdateProductStripsProtectedFields(t *testing.T) {
	existing := newProduct("Linen Shirt", "shirt")
	products := &fakeProductRepo{byID: map[primitive.ObjectID]*models.Product{existing.ID: existing}}

	svc := newTestService(products, &fakeCollectionRepo{}, &memoryImageStore{}, nil)
	_, err := svc.UpdateProduct(context.Background(), existing.ID, map[string]interface{}{
		"_id":       "tampered",
		"createdAt": "tampered",
	}, nil)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error once protected fields are stripped, got %v", err)
	}
	if products.updated != nil {
		t.Fatal("expected no repository update")
	}
}

func TestDeleteProductRemovesImagesBestEffort(t *testing.T) {
	existing := newProduct("Linen Shirt", "shirt")
	existing.Images = []string{"https://cdn.test/old/a.jpg", "https://cdn.test/old/b.jpg"}
	products := &fakeProductRepo{byID: map[primitive.ObjectID]*models.Product{existing.ID: existing}}
	store := &memoryImageStore{removeErr: errors.New("bucket unavailable")}
	events := &fakePublisher{}

	svc := newTestService(products, &fakeCollectionRepo{}, store, events)
	product, err := svc.DeleteProduct(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("image cleanup failure must not fail the delete: %v", err)
	}
	if product.ID != existing.ID {
		t.Fatalf("expected deleted product back, got %s", product.ID.Hex())
	}
	if len(products.deleted) != 1 {
		t.Fatalf("expected one repository delete, got %d", len(products.deleted))
	}
	if len(store.removed) != 2 {
		t.Fatalf("expected both removals attempted, got %d", len(store.removed))
	}
	if len(events.published) != 1 {
		t.Fatalf("expected one event, got %d", len(events.published))
	}
}

func hasTag(p *models.Product, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
