package tarallo

import (
	"github.com/goccy/go-json"
)

// Item is a node in the inventory tree as the server returns it.
//
// Location is the full path from root to the immediate container; the
// last element is where the item currently sits. Contents are owned by
// the item and recurse as deep as the depth limit used on the fetch.
type Item struct {
	Code     string
	Features map[string]any
	Location []string
	Product  *Product
	Contents []*Item
}

// wireItem is the closed set of keys recognized in an item payload.
// Anything else the server sends is ignored rather than becoming state.
type wireItem struct {
	Code     *string           `json:"code"`
	Features map[string]any    `json:"features"`
	Location []string          `json:"location"`
	Product  *Product          `json:"product"`
	Contents []json.RawMessage `json:"contents"`
}

// ParseItem decodes a top-level item tree from its wire format.
//
// A top-level item with a missing or empty location is a contract
// violation and fails with InvalidObjectError; nested contents may
// legitimately omit it.
func ParseItem(data []byte) (*Item, error) {
	return parseItemNode(data, true)
}

func parseItemNode(data []byte, topLevel bool) (*Item, error) {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &InvalidObjectError{Reason: "malformed item payload: " + err.Error()}
	}

	item := &Item{Features: map[string]any{}}

	if w.Code != nil {
		if *w.Code == "" {
			return nil, &InvalidObjectError{Reason: "item code is present but empty"}
		}
		item.Code = *w.Code
	}
	if w.Features != nil {
		item.Features = w.Features
	}
	if topLevel && len(w.Location) == 0 {
		return nil, &InvalidObjectError{Reason: "top-level item has no location"}
	}
	item.Location = w.Location
	item.Product = w.Product

	for _, raw := range w.Contents {
		child, err := parseItemNode(raw, false)
		if err != nil {
			return nil, err
		}
		item.Contents = append(item.Contents, child)
	}

	return item, nil
}

// Parent returns the item's immediate container, the last element of its
// location path. Empty for a conceptual root.
func (i *Item) Parent() string {
	if len(i.Location) == 0 {
		return ""
	}
	return i.Location[len(i.Location)-1]
}

// AddFeature sets a feature on the item. A nil value means "unset".
func (i *Item) AddFeature(key string, value any) {
	if i.Features == nil {
		i.Features = map[string]any{}
	}
	i.Features[key] = value
}

// AddContent appends a child item. The read-side and write-side variants
// never mix inside one tree; the type system enforces that here.
func (i *Item) AddContent(child *Item) {
	i.Contents = append(i.Contents, child)
}

// MarshalJSON emits the read-side wire form: code and location when set,
// features always, contents when non-empty. The product reference is
// never echoed back to the server.
func (i *Item) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"features": i.featuresOrEmpty(),
	}
	if i.Code != "" {
		out["code"] = i.Code
	}
	if len(i.Location) > 0 {
		out["location"] = i.Location
	}
	if len(i.Contents) > 0 {
		out["contents"] = i.Contents
	}
	return json.Marshal(out)
}

func (i *Item) featuresOrEmpty() map[string]any {
	if i.Features == nil {
		return map[string]any{}
	}
	return i.Features
}
