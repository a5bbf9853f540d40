package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection groups products into a named line. ColorStart/ColorEnd are the
// gradient stops the storefront renders collection cards with.
type Collection struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	ColorStart  string             `json:"colorStart" bson:"color_start"`
	ColorEnd    string             `json:"colorEnd" bson:"color_end"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}
