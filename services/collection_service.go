package services

import (
	"context"
	"time"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Gradient defaults applied when the admin form leaves the colors blank.
const (
	DefaultColorStart = "#1e293b"
	DefaultColorEnd   = "#0f172a"
)

type CollectionService struct {
	collections repository.CollectionRepo
	events      EventPublisher
}

func NewCollectionService(cr repository.CollectionRepo, events EventPublisher) *CollectionService {
	return &CollectionService{
		collections: cr,
		events:      events,
	}
}

func (s *CollectionService) CreateCollection(ctx context.Context, req CollectionCreateRequest) (*models.Collection, error) {
	if req.Name == "" {
		return nil, invalid("name", "name is required")
	}
	if req.ColorStart == "" {
		req.ColorStart = DefaultColorStart
	}
	if req.ColorEnd == "" {
		req.ColorEnd = DefaultColorEnd
	}

	now := time.Now().UTC()
	collection := &models.Collection{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		ColorStart:  req.ColorStart,
		ColorEnd:    req.ColorEnd,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, err
	}

	s.publishCollectionEvent(ctx, models.EventCollectionCreated, collection)
	return collection, nil
}

func (s *CollectionService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return s.collections.FindAll(ctx)
}

func (s *CollectionService) GetCollection(ctx context.Context, id primitive.ObjectID) (*models.Collection, error) {
	return s.collections.FindByID(ctx, id)
}

func (s *CollectionService) UpdateCollection(ctx context.Context, id primitive.ObjectID, req CollectionCreateRequest) (*models.Collection, error) {
	if req.Name == "" {
		return nil, invalid("name", "name is required")
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
	}
	if req.ColorStart != "" {
		updates["color_start"] = req.ColorStart
	}
	if req.ColorEnd != "" {
		updates["color_end"] = req.ColorEnd
	}
	if err := s.collections.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	collection, err := s.collections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishCollectionEvent(ctx, models.EventCollectionUpdated, collection)
	return collection, nil
}

// DeleteCollection removes the collection document. Dependent products are
// left untouched and keep a dangling collection_id.
func (s *CollectionService) DeleteCollection(ctx context.Context, id primitive.ObjectID) error {
	collection, err := s.collections.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.collections.Delete(ctx, id); err != nil {
		return err
	}

	s.publishCollectionEvent(ctx, models.EventCollectionDeleted, collection)
	return nil
}

func (s *CollectionService) publishCollectionEvent(ctx context.Context, eventType string, collection *models.Collection) {
	if s.events == nil {
		return
	}

	event := models.CatalogEvent{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		Timestamp:    time.Now().UTC(),
		CollectionID: collection.ID.Hex(),
		Collection:   collection,
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
