package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a sellable catalog item. CollectionName is not persisted; read
// paths fill it in from the referenced collection (denormalized join).
type Product struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	CollectionID   primitive.ObjectID `json:"collectionId" bson:"collection_id"`
	CollectionName string             `json:"collectionName,omitempty" bson:"-"`
	Brand          string             `json:"brand" bson:"brand"`
	Tags           []string           `json:"tags" bson:"tags"`
	Images         []string           `json:"images" bson:"images"`
	Price          float64            `json:"price" bson:"price"`
	DiscountPrice  *float64           `json:"discountPrice,omitempty" bson:"discount_price,omitempty"`
	Colors         []string           `json:"colors" bson:"colors"`
	Sizes          []string           `json:"sizes" bson:"sizes"`
	Featured       bool               `json:"featured" bson:"featured"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}
