package tarallo

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-json"
)

// DefaultVariant is the variant the server assumes when none is given.
const DefaultVariant = "default"

// Product describes a hardware model shared by many physical items,
// keyed by brand, model and variant. The identity is fixed once the
// product exists; only its features change.
//
// Product features live in their own namespace, separate from item
// features, even though the two are structurally identical.
type Product struct {
	Brand    string         `json:"brand,omitempty"`
	Model    string         `json:"model,omitempty"`
	Variant  string         `json:"variant,omitempty"`
	Features map[string]any `json:"features"`
}

// ParseProduct decodes a single product from its wire format.
func ParseProduct(data []byte) (*Product, error) {
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &InvalidObjectError{Reason: "malformed product payload: " + err.Error()}
	}
	if p.Features == nil {
		p.Features = map[string]any{}
	}
	return &p, nil
}

// ParseProducts decodes a list of products, as returned by the
// brand+model endpoint that spans all variants.
func ParseProducts(data []byte) ([]*Product, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidObjectError{Reason: "malformed product list: " + err.Error()}
	}
	products := make([]*Product, 0, len(raw))
	for _, r := range raw {
		p, err := ParseProduct(r)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// AddFeature sets a feature on the product.
func (p *Product) AddFeature(key string, value any) {
	if p.Features == nil {
		p.Features = map[string]any{}
	}
	p.Features[key] = value
}

// ProductToUpload is the write-intent projection of a product. Brand,
// model and variant travel in the request path, so the wire form emits
// only the features.
type ProductToUpload struct {
	Brand    string
	Model    string
	Variant  string
	Features map[string]any
}

// NewProductToUpload builds an upload for the given identity. An empty
// variant falls back to DefaultVariant.
func NewProductToUpload(brand, model, variant string) *ProductToUpload {
	if variant == "" {
		variant = DefaultVariant
	}
	return &ProductToUpload{
		Brand:    brand,
		Model:    model,
		Variant:  variant,
		Features: map[string]any{},
	}
}

// AddFeature sets a feature on the upload.
func (p *ProductToUpload) AddFeature(key string, value any) {
	if p.Features == nil {
		p.Features = map[string]any{}
	}
	p.Features[key] = value
}

// Validate checks that the upload identifies a product. Violations come
// back as InvalidObjectError.
func (p *ProductToUpload) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Brand, validation.Required),
		validation.Field(&p.Model, validation.Required),
		validation.Field(&p.Variant, validation.Required),
	)
	if err != nil {
		return &InvalidObjectError{Reason: err.Error()}
	}
	return nil
}

// MarshalJSON emits only the features; the server infers brand, model
// and variant from the URL.
func (p *ProductToUpload) MarshalJSON() ([]byte, error) {
	features := p.Features
	if features == nil {
		features = map[string]any{}
	}
	return json.Marshal(map[string]any{"features": features})
}
