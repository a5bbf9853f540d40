package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const MaxUploadSize = 32 << 20 // 32MB multipart memory limit

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// CreateProductRequest is the multipart form shape for product creation.
// tags, colors and sizes arrive as comma-separated values; images as up to
// four file parts named "images".
type CreateProductRequest struct {
	Name           string  `form:"name" validate:"required"`
	CollectionName string  `form:"collectionName" validate:"required"`
	Brand          string  `form:"brand" validate:"required"`
	Tags           string  `form:"tags" validate:"required"`
	Price          float64 `form:"price" validate:"required,gt=0"`
	DiscountPrice  string  `form:"discountPrice"`
	Colors         string  `form:"colors"`
	Sizes          string  `form:"sizes"`
	Featured       bool    `form:"featured"`
}

// RequestValidator handles all input validation for the product endpoints.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParseFilterQuery validates and parses the storefront filter parameters.
// A malformed priceRange is rejected, not silently dropped.
func (rv *RequestValidator) ParseFilterQuery(c *gin.Context) (services.FilterParams, error) {
	params := services.FilterParams{
		Brand: strings.TrimSpace(c.Query("brand")),
		Size:  strings.TrimSpace(c.Query("size")),
		Color: strings.TrimSpace(c.Query("color")),
	}

	for _, raw := range c.QueryArray("tags") {
		params.Tags = append(params.Tags, splitCSV(raw)...)
	}

	if featuredStr := strings.TrimSpace(c.Query("featured")); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			return params, errors.New("invalid boolean value for 'featured'")
		}
		params.Featured = &featured
	}

	if priceRange := strings.TrimSpace(c.Query("priceRange")); priceRange != "" {
		min, max, err := parsePriceRange(priceRange)
		if err != nil {
			return params, err
		}
		params.MinPrice = &min
		params.MaxPrice = &max
	}

	return params, nil
}

// parsePriceRange parses a "min-max" pair with min <= max.
func parsePriceRange(priceRange string) (float64, float64, error) {
	minStr, maxStr, ok := strings.Cut(priceRange, "-")
	if !ok {
		return 0, 0, errors.New("priceRange must be in 'min-max' form")
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
	if err != nil {
		return 0, 0, errors.New("invalid priceRange minimum")
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(maxStr), 64)
	if err != nil {
		return 0, 0, errors.New("invalid priceRange maximum")
	}
	if min > max {
		return 0, 0, errors.New("priceRange minimum must not exceed maximum")
	}
	return min, max, nil
}

// ParseCreateProductRequest validates the multipart creation form and reads
// the image parts.
func (rv *RequestValidator) ParseCreateProductRequest(c *gin.Context) (services.ProductCreateRequest, []services.ImageUpload, error) {
	var req CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		return services.ProductCreateRequest{}, nil, fmt.Errorf("invalid form data: %w", err)
	}
	if err := rv.validate.Struct(&req); err != nil {
		return services.ProductCreateRequest{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	serviceReq := services.ProductCreateRequest{
		Name:           req.Name,
		CollectionName: req.CollectionName,
		Brand:          req.Brand,
		Tags:           splitCSV(req.Tags),
		Price:          req.Price,
		Colors:         splitCSV(req.Colors),
		Sizes:          splitCSV(req.Sizes),
		Featured:       req.Featured,
	}
	if req.DiscountPrice != "" {
		discount, err := strconv.ParseFloat(req.DiscountPrice, 64)
		if err != nil {
			return services.ProductCreateRequest{}, nil, errors.New("invalid discountPrice value")
		}
		serviceReq.DiscountPrice = &discount
	}

	images, err := rv.readImageParts(c)
	if err != nil {
		return services.ProductCreateRequest{}, nil, err
	}
	if len(images) == 0 {
		return services.ProductCreateRequest{}, nil, errors.New("at least one image is required")
	}

	return serviceReq, images, nil
}

// ParseUpdateProductRequest turns the multipart update form into a field
// update map plus any replacement images.
func (rv *RequestValidator) ParseUpdateProductRequest(c *gin.Context) (map[string]interface{}, []services.ImageUpload, error) {
	if err := c.Request.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, nil, errors.New("expected multipart form data")
	}

	updates := make(map[string]interface{})
	form := c.Request.MultipartForm

	if v, ok := formValue(form, "name"); ok {
		updates["name"] = v
	}
	if v, ok := formValue(form, "brand"); ok {
		updates["brand"] = v
	}
	if v, ok := formValue(form, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price <= 0 {
			return nil, nil, errors.New("invalid price value")
		}
		updates["price"] = price
	}
	if v, ok := formValue(form, "discountPrice"); ok {
		discount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, errors.New("invalid discountPrice value")
		}
		updates["discount_price"] = discount
	}
	if v, ok := formValue(form, "tags"); ok {
		tags := splitCSV(v)
		if len(tags) == 0 {
			return nil, nil, errors.New("at least one tag is required")
		}
		updates["tags"] = tags
	}
	if v, ok := formValue(form, "colors"); ok {
		updates["colors"] = splitCSV(v)
	}
	if v, ok := formValue(form, "sizes"); ok {
		updates["sizes"] = splitCSV(v)
	}
	if v, ok := formValue(form, "featured"); ok {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, errors.New("invalid featured value")
		}
		updates["featured"] = featured
	}

	images, err := rv.readImageParts(c)
	if err != nil {
		return nil, nil, err
	}

	return updates, images, nil
}

// readImageParts validates and buffers the "images" file parts.
func (rv *RequestValidator) readImageParts(c *gin.Context) ([]services.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("expected multipart form data")
	}

	fileHeaders := form.File["images"]
	if len(fileHeaders) > services.MaxProductImages {
		return nil, fmt.Errorf("a product must have at most %d images", services.MaxProductImages)
	}

	images := make([]services.ImageUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if !rv.IsValidImageType(fh) {
			return nil, fmt.Errorf("invalid image type for file %s. Allowed: jpeg, jpg, png, webp, gif", fh.Filename)
		}
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s", fh.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s", fh.Filename)
		}
		images = append(images, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        bytes.NewReader(data),
		})
	}
	return images, nil
}

// IsValidImageType checks the file by content type, falling back to the
// extension.
func (rv *RequestValidator) IsValidImageType(file *multipart.FileHeader) bool {
	if allowedImageTypes[file.Header.Get("Content-Type")] {
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values := form.Value[key]
	if len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
