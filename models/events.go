package models

import (
	"encoding/json"
	"time"
)

const (
	EventProductCreated    = "product_created"
	EventProductUpdated    = "product_updated"
	EventProductDeleted    = "product_deleted"
	EventCollectionCreated = "collection_created"
	EventCollectionUpdated = "collection_updated"
	EventCollectionDeleted = "collection_deleted"
)

// CatalogEvent is published to the message broker on catalog mutations.
type CatalogEvent struct {
	EventID      string      `json:"event_id"`
	EventType    string      `json:"event_type"`
	Timestamp    time.Time   `json:"timestamp"`
	ProductID    string      `json:"product_id,omitempty"`
	Product      *Product    `json:"product,omitempty"`
	CollectionID string      `json:"collection_id,omitempty"`
	Collection   *Collection `json:"collection,omitempty"`
}

func (e *CatalogEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
