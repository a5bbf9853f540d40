package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductController struct {
	service   ProductServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(service ProductServiceAPI, redisClient *redis.Client) *ProductController {
	return &ProductController{
		service:   service,
		cache:     NewCacheManager(redisClient),
		validator: NewRequestValidator(),
	}
}

// GetProducts returns all products with collection names joined in.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	if cached, found := ctrl.cache.GetProductList(c.Request.Context(), "all"); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := ctrl.service.ListProducts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "Failed to fetch products")
		return
	}

	ctrl.cache.SetProductListAsync("all", products)
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns a single product.
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if cached, found := ctrl.cache.GetProduct(c.Request.Context(), id); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := ctrl.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch product")
		return
	}

	ctrl.cache.SetProductAsync(id, product)
	c.JSON(http.StatusOK, product)
}

// FilterProducts returns the products matching every provided criterion.
func (ctrl *ProductController) FilterProducts(c *gin.Context) {
	params, err := ctrl.validator.ParseFilterQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := FilterScope(params)
	if cached, found := ctrl.cache.GetProductList(c.Request.Context(), scope); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := ctrl.service.FilterProducts(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, "Failed to filter products")
		return
	}

	ctrl.cache.SetProductListAsync(scope, products)
	c.JSON(http.StatusOK, products)
}

// GetRelatedProducts returns up to 4 products sharing a tag with the given
// one.
func (ctrl *ProductController) GetRelatedProducts(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	related, err := ctrl.service.RelatedProducts(c.Request.Context(), productID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch related products")
		return
	}
	c.JSON(http.StatusOK, related)
}

// GetProductsByCollectionName lists the products of the named collection.
func (ctrl *ProductController) GetProductsByCollectionName(c *gin.Context) {
	products, err := ctrl.service.ProductsByCollectionName(c.Request.Context(), c.Param("collectionName"))
	if err != nil {
		handleServiceError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct creates a product from a multipart form, uploading its
// images first.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	req, images, err := ctrl.validator.ParseCreateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.service.CreateProduct(c.Request.Context(), req, images)
	if err != nil {
		handleServiceError(c, err, "Failed to create product")
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), product.ID.Hex())
	zap.L().Info("Product created",
		zap.String("id", product.ID.Hex()),
		zap.String("name", product.Name),
	)
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

// UpdateProduct applies a multipart update; new images replace the old set.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	updates, images, err := ctrl.validator.ParseUpdateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.service.UpdateProduct(c.Request.Context(), productID, updates, images)
	if err != nil {
		handleServiceError(c, err, "Failed to update product")
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct deletes the product and best-effort removes its images.
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	product, err := ctrl.service.DeleteProduct(c.Request.Context(), productID)
	if err != nil {
		handleServiceError(c, err, "Failed to delete product")
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	zap.L().Info("Product deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "product": product})
}
