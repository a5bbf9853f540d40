package routes

import (
	"catalog-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the storefront and admin endpoints. Reads are public;
// mutations sit behind the auth middleware.
func RegisterRoutes(r *gin.Engine, products *controllers.ProductController, collections *controllers.CollectionController, auth gin.HandlerFunc) {
	collectionRoutes := r.Group("/collections")
	{
		collectionRoutes.GET("/collections", collections.GetCollections)
		collectionRoutes.GET("/collections/:id", collections.GetCollectionByID)
		collectionRoutes.POST("/create", auth, collections.CreateCollection)
		collectionRoutes.POST("/update", auth, collections.UpdateCollection)
		collectionRoutes.POST("/delete", auth, collections.DeleteCollection)
	}

	productRoutes := r.Group("/products")
	{
		// More specific routes first, matching the storefront client.
		productRoutes.GET("/filter/products", products.FilterProducts)
		productRoutes.GET("/collections/name/:collectionName/products", products.GetProductsByCollectionName)
		productRoutes.GET("", products.GetProducts)
		productRoutes.GET("/:id", products.GetProductByID)
		productRoutes.GET("/:id/related", products.GetRelatedProducts)
		productRoutes.POST("/create", auth, products.CreateProduct)
		productRoutes.PUT("/:id", auth, products.UpdateProduct)
		productRoutes.DELETE("/:id", auth, products.DeleteProduct)
	}
}
