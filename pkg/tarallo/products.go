package tarallo

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

func productPath(brand, model, variant string) string {
	path := "/products/" + url.PathEscape(brand) + "/" + url.PathEscape(model)
	if variant != "" {
		path += "/" + url.PathEscape(variant)
	}
	return path
}

// GetProduct fetches one product by its full brand/model/variant key.
func (c *Client) GetProduct(ctx context.Context, brand, model, variant string) (*Product, error) {
	if variant == "" {
		variant = DefaultVariant
	}

	resp, err := c.get(ctx, productPath(brand, model, variant))
	if err != nil {
		return nil, err
	}

	switch resp.Status {
	case http.StatusOK:
		return ParseProduct(resp.Body)
	case http.StatusNotFound:
		return nil, &ProductNotFoundError{Brand: brand, Model: model, Variant: variant}
	default:
		return nil, unexpectedStatus(resp)
	}
}

// GetProducts fetches every variant of a brand/model pair.
func (c *Client) GetProducts(ctx context.Context, brand, model string) ([]*Product, error) {
	resp, err := c.get(ctx, productPath(brand, model, ""))
	if err != nil {
		return nil, err
	}

	switch resp.Status {
	case http.StatusOK:
		return ParseProducts(resp.Body)
	case http.StatusNotFound:
		return nil, &ProductNotFoundError{Brand: brand, Model: model}
	default:
		return nil, unexpectedStatus(resp)
	}
}

// AddProduct creates a product. Identity travels in the URL; the body
// carries only the features.
func (c *Client) AddProduct(ctx context.Context, product *ProductToUpload) error {
	if err := product.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(product)
	if err != nil {
		return err
	}

	resp, err := c.put(ctx, productPath(product.Brand, product.Model, product.Variant), body)
	if err != nil {
		return err
	}

	switch resp.Status {
	case http.StatusCreated:
		return nil
	case http.StatusBadRequest, http.StatusNotFound:
		return &ValidationError{Message: serverMessage(resp.Body, "cannot add product")}
	case http.StatusForbidden:
		return &NotAuthorizedError{Operation: "add products"}
	default:
		return unexpectedStatus(resp)
	}
}

// UpdateProductFeatures patches a product's features. A nil value
// removes the feature; an empty patch is rejected locally, same as for
// items.
func (c *Client) UpdateProductFeatures(ctx context.Context, brand, model, variant string, features map[string]any) error {
	if len(features) == 0 {
		return &ValidationError{Message: "empty feature patch"}
	}
	if variant == "" {
		variant = DefaultVariant
	}

	body, err := json.Marshal(features)
	if err != nil {
		return err
	}

	resp, err := c.patch(ctx, productPath(brand, model, variant)+"/features", body)
	if err != nil {
		return err
	}

	switch resp.Status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return &ValidationError{Message: serverMessage(resp.Body, "cannot update product features")}
	case http.StatusNotFound:
		return &ProductNotFoundError{Brand: brand, Model: model, Variant: variant}
	case http.StatusForbidden:
		return &NotAuthorizedError{Operation: "update products"}
	default:
		return unexpectedStatus(resp)
	}
}

// DeleteProduct removes a product. "Already gone" is an expected
// outcome, reported as false; privilege and validation failures still
// come back as errors.
func (c *Client) DeleteProduct(ctx context.Context, brand, model, variant string) (bool, error) {
	if variant == "" {
		variant = DefaultVariant
	}

	resp, err := c.delete(ctx, productPath(brand, model, variant))
	if err != nil {
		return false, err
	}

	switch resp.Status {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusBadRequest:
		return false, &ValidationError{Message: serverMessage(resp.Body, "cannot delete product")}
	case http.StatusForbidden:
		return false, &NotAuthorizedError{Operation: "delete products"}
	default:
		return false, unexpectedStatus(resp)
	}
}
