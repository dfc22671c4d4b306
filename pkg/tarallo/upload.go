package tarallo

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-json"
)

// ItemToUpload is the write-intent projection of an item, used only for
// create requests. Where a fetched Item carries the full location path,
// an upload carries a single Parent: the immediate destination.
//
// An upload is consumed by one AddItem call; on success the
// server-assigned code is written back onto it. The server does not
// return the full path on creation, so the item's location is unknown
// until a follow-up fetch.
type ItemToUpload struct {
	Code     string
	Parent   string
	Features map[string]any
	Contents []*ItemToUpload
}

// NewItemToUpload returns a blank upload item.
func NewItemToUpload() *ItemToUpload {
	return &ItemToUpload{Features: map[string]any{}}
}

// CloneItem builds an upload projection from a fetched item: code,
// features and contents are deep-copied, and Parent is derived from the
// last element of the source's location path.
func CloneItem(src *Item) *ItemToUpload {
	up := &ItemToUpload{
		Code:     src.Code,
		Parent:   src.Parent(),
		Features: copyFeatures(src.Features),
	}
	for _, child := range src.Contents {
		up.Contents = append(up.Contents, CloneItem(child))
	}
	return up
}

func copyFeatures(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// AddFeature sets a feature on the upload. A nil value means "unset".
func (i *ItemToUpload) AddFeature(key string, value any) {
	if i.Features == nil {
		i.Features = map[string]any{}
	}
	i.Features[key] = value
}

// AddContent appends a child upload item.
func (i *ItemToUpload) AddContent(child *ItemToUpload) {
	i.Contents = append(i.Contents, child)
}

// SetParent sets the immediate destination for the upload.
func (i *ItemToUpload) SetParent(parent string) {
	i.Parent = parent
}

// Validate checks the upload against the wire contract before it is
// serialized. Violations come back as InvalidObjectError.
func (i *ItemToUpload) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Features, validation.By(validFeatureKeys)),
	)
	if err != nil {
		return &InvalidObjectError{Reason: err.Error()}
	}
	for _, child := range i.Contents {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validFeatureKeys(value any) error {
	features, _ := value.(map[string]any)
	for k := range features {
		if k == "" {
			return validation.NewError("validation_feature_key", "feature keys must be non-empty")
		}
	}
	return nil
}

// MarshalJSON emits the write-side wire form: parent instead of
// location, never a product reference.
func (i *ItemToUpload) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"features": i.featuresOrEmpty(),
	}
	if i.Code != "" {
		out["code"] = i.Code
	}
	if i.Parent != "" {
		out["parent"] = i.Parent
	}
	if len(i.Contents) > 0 {
		out["contents"] = i.Contents
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the same wire form MarshalJSON emits, so
// batches can be round-tripped through files.
func (i *ItemToUpload) UnmarshalJSON(data []byte) error {
	var wire struct {
		Code     string          `json:"code"`
		Parent   string          `json:"parent"`
		Features map[string]any  `json:"features"`
		Contents []*ItemToUpload `json:"contents"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	i.Code = wire.Code
	i.Parent = wire.Parent
	i.Features = wire.Features
	if i.Features == nil {
		i.Features = map[string]any{}
	}
	i.Contents = wire.Contents
	return nil
}

func (i *ItemToUpload) featuresOrEmpty() map[string]any {
	if i.Features == nil {
		return map[string]any{}
	}
	return i.Features
}
