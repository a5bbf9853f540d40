package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-service/models"
	"catalog-service/repository"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCollectionService struct {
	lastCreate   services.CollectionCreateRequest
	lastUpdateID primitive.ObjectID
	lastDeleteID primitive.ObjectID

	createCalled int
	deleteCalled int

	getFn func(ctx context.Context, id primitive.ObjectID) (*models.Collection, error)
}

func (f *fakeCollectionService) CreateCollection(ctx context.Context, req services.CollectionCreateRequest) (*models.Collection, error) {
	f.createCalled++
	f.lastCreate = req
	return &models.Collection{ID: primitive.NewObjectID(), Name: req.Name}, nil
}

func (f *fakeCollectionService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return []models.Collection{}, nil
}

func (f *fakeCollectionService) GetCollection(ctx context.Context, id primitive.ObjectID) (*models.Collection, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return &models.Collection{ID: id}, nil
}

func (f *fakeCollectionService) UpdateCollection(ctx context.Context, id primitive.ObjectID, req services.CollectionCreateRequest) (*models.Collection, error) {
	f.lastUpdateID = id
	return &models.Collection{ID: id, Name: req.Name}, nil
}

func (f *fakeCollectionService) DeleteCollection(ctx context.Context, id primitive.ObjectID) error {
	f.deleteCalled++
	f.lastDeleteID = id
	return nil
}

func newCollectionRouter(service CollectionServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewCollectionController(service)
	router := gin.New()
	router.GET("/collections/collections", controller.GetCollections)
	router.GET("/collections/collections/:id", controller.GetCollectionByID)
	router.POST("/collections/create", controller.CreateCollection)
	router.POST("/collections/update", controller.UpdateCollection)
	router.POST("/collections/delete", controller.DeleteCollection)
	return router
}

func TestCreateCollectionJSON(t *testing.T) {
	fakeService := &fakeCollectionService{}
	router := newCollectionRouter(fakeService)

	body := `{"name":"Summer","description":"Warm weather picks","colorStart":"#111111","colorEnd":"#222222"}`
	req := httptest.NewRequest(http.MethodPost, "/collections/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if fakeService.createCalled != 1 {
		t.Fatalf("expected create to be called once, got %d", fakeService.createCalled)
	}
	created := fakeService.lastCreate
	if created.Name != "Summer" || created.ColorStart != "#111111" || created.ColorEnd != "#222222" {
		t.Fatalf("unexpected create request: %+v", created)
	}
}

func TestGetCollectionByIDNotFound(t *testing.T) {
	fakeService := &fakeCollectionService{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*models.Collection, error) {
			return nil, repository.ErrNotFound
		},
	}
	router := newCollectionRouter(fakeService)

	req := httptest.NewRequest(http.MethodGet, "/collections/collections/"+primitive.NewObjectID().Hex(), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestUpdateCollectionIDInBody(t *testing.T) {
	fakeService := &fakeCollectionService{}
	router := newCollectionRouter(fakeService)

	id := primitive.NewObjectID()
	body := `{"id":"` + id.Hex() + `","name":"Renamed"}`
	req := httptest.NewRequest(http.MethodPost, "/collections/update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if fakeService.lastUpdateID != id {
		t.Fatalf("expected update for %s, got %s", id.Hex(), fakeService.lastUpdateID.Hex())
	}
}

func TestDeleteCollectionRejectsBadID(t *testing.T) {
	fakeService := &fakeCollectionService{}
	router := newCollectionRouter(fakeService)

	req := httptest.NewRequest(http.MethodPost, "/collections/delete", strings.NewReader(`{"id":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if fakeService.deleteCalled != 0 {
		t.Fatalf("expected delete not to be called, got %d", fakeService.deleteCalled)
	}
}
