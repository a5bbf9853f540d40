package services

import (
	"context"
	"io"
)

// ImageStore abstracts the object storage the product images live in.
// Upload returns the public URL of the stored object; Remove takes a public
// URL previously returned by Upload.
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, publicURL string) error
}

// EventPublisher pushes catalog events to the message broker. Implementations
// must be safe to skip: a nil publisher disables eventing.
type EventPublisher interface {
	Publish(ctx context.Context, body []byte) error
}

// ImageUpload carries one uploaded image from the HTTP layer into the
// service without dragging multipart types across the boundary.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProductCreateRequest is the payload for creating a product. The collection
// is referenced by name and resolved to an id during creation.
type ProductCreateRequest struct {
	Name           string
	CollectionName string
	Brand          string
	Tags           []string
	Price          float64
	DiscountPrice  *float64
	Colors         []string
	Sizes          []string
	Featured       bool
}

// FilterParams are the storefront filter criteria. Provided fields combine
// with AND; within Tags a single shared tag is enough to match.
type FilterParams struct {
	Brand    string
	Size     string
	Color    string
	Tags     []string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
}

// CollectionCreateRequest is the payload for creating or updating a
// collection.
type CollectionCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	ColorStart  string `json:"colorStart"`
	ColorEnd    string `json:"colorEnd"`
}
