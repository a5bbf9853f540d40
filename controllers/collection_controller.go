package controllers

import (
	"net/http"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CollectionController struct {
	service CollectionServiceAPI
}

func NewCollectionController(service CollectionServiceAPI) *CollectionController {
	return &CollectionController{service: service}
}

func (ctrl *CollectionController) CreateCollection(c *gin.Context) {
	var req services.CollectionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	collection, err := ctrl.service.CreateCollection(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err, "Failed to create collection")
		return
	}

	zap.L().Info("Collection created",
		zap.String("id", collection.ID.Hex()),
		zap.String("name", collection.Name),
	)
	c.JSON(http.StatusCreated, gin.H{"message": "Collection created successfully", "collection": collection})
}

func (ctrl *CollectionController) GetCollections(c *gin.Context) {
	collections, err := ctrl.service.ListCollections(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "Failed to fetch collections")
		return
	}
	c.JSON(http.StatusOK, collections)
}

func (ctrl *CollectionController) GetCollectionByID(c *gin.Context) {
	collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID format"})
		return
	}

	collection, err := ctrl.service.GetCollection(c.Request.Context(), collectionID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch collection")
		return
	}
	c.JSON(http.StatusOK, collection)
}

// updateCollectionRequest is the admin dashboard's update payload: the
// target id travels in the body, not the path.
type updateCollectionRequest struct {
	ID string `json:"id" binding:"required"`
	services.CollectionCreateRequest
}

func (ctrl *CollectionController) UpdateCollection(c *gin.Context) {
	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	collectionID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID format"})
		return
	}

	collection, err := ctrl.service.UpdateCollection(c.Request.Context(), collectionID, req.CollectionCreateRequest)
	if err != nil {
		handleServiceError(c, err, "Failed to update collection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection updated successfully", "collection": collection})
}

func (ctrl *CollectionController) DeleteCollection(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	collectionID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID format"})
		return
	}

	if err := ctrl.service.DeleteCollection(c.Request.Context(), collectionID); err != nil {
		handleServiceError(c, err, "Failed to delete collection")
		return
	}

	zap.L().Info("Collection deleted", zap.String("id", req.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted successfully"})
}
