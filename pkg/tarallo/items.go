package tarallo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

// GetItem fetches an item and its contents. A depth of 0 means no limit;
// depth 1 returns the item with only its direct children, and so on.
func (c *Client) GetItem(ctx context.Context, code string, depth int) (*Item, error) {
	path := "/items/" + url.PathEscape(code)
	if depth > 0 {
		path += "?depth=" + strconv.Itoa(depth)
	}

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	switch resp.Status {
	case http.StatusOK:
		return ParseItem(resp.Body)
	case http.StatusNotFound:
		return nil, &ItemNotFoundError{Code: code}
	default:
		return nil, unexpectedStatus(resp)
	}
}

// AddItem creates the item on the server. With an explicit code the
// create is an idempotent PUT; without one the server assigns a code
// via POST, which is written back onto the upload. Either way the
// item's full path is unknown until a follow-up fetch.
func (c *Client) AddItem(ctx context.Context, item *ItemToUpload) error {
	if err := item.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(item)
	if err != nil {
		return err
	}

	var resp *Response
	if item.Code != "" {
		resp, err = c.put(ctx, "/items/"+url.PathEscape(item.Code), body)
	} else {
		resp, err = c.post(ctx, "/items", body)
	}
	if err != nil {
		return err
	}

	switch resp.Status {
	case http.StatusCreated:
		var code string
		if err := json.Unmarshal(resp.Body, &code); err != nil {
			return &InvalidObjectError{Reason: "server returned an unreadable item code: " + err.Error()}
		}
		item.Code = code
		return nil
	case http.StatusBadRequest, http.StatusNotFound:
		return &ValidationError{Message: serverMessage(resp.Body, "cannot add item")}
	case http.StatusForbidden:
		return &NotAuthorizedError{Operation: "add items"}
	default:
		return unexpectedStatus(resp)
	}
}

// UpdateFeatures patches an item's features. A nil value removes the
// feature. An empty patch is rejected locally: a zero-length PATCH is a
// contract violation, not a no-op.
func (c *Client) UpdateFeatures(ctx context.Context, code string, features map[string]any) error {
	if len(features) == 0 {
		return &ValidationError{Message: "empty feature patch"}
	}

	body, err := json.Marshal(features)
	if err != nil {
		return err
	}

	resp, err := c.patch(ctx, "/items/"+url.PathEscape(code)+"/features", body)
	if err != nil {
		return err
	}

	switch resp.Status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return &ValidationError{Message: serverMessage(resp.Body, "cannot update features")}
	case http.StatusNotFound:
		return &ItemNotFoundError{Code: code}
	default:
		return unexpectedStatus(resp)
	}
}

// MoveItem places the item inside another location. On a 404 the
// response body names the missing resource: if it is the destination,
// the location doesn't exist; otherwise the named item doesn't.
func (c *Client) MoveItem(ctx context.Context, code, location string) error {
	body, err := json.Marshal(location)
	if err != nil {
		return err
	}

	resp, err := c.put(ctx, "/items/"+url.PathEscape(code)+"/parent", body)
	if err != nil {
		return err
	}

	switch resp.Status {
	case http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return &ValidationError{Message: fmt.Sprintf("cannot move %s into %s", code, location)}
	case http.StatusNotFound:
		var missing struct {
			Item *string `json:"item"`
		}
		if err := json.Unmarshal(resp.Body, &missing); err != nil || missing.Item == nil {
			return &ServerError{Status: resp.Status, Body: "server didn't say which resource is missing"}
		}
		if *missing.Item == location {
			return &LocationNotFoundError{Location: location}
		}
		return &ItemNotFoundError{Code: *missing.Item}
	default:
		return unexpectedStatus(resp)
	}
}

// RemoveResult is the three-valued outcome of RemoveItem.
type RemoveResult int

const (
	// NotRemoved means the item still exists after the delete attempt.
	NotRemoved RemoveResult = iota
	// Removed means a follow-up check confirmed the item is deleted.
	Removed
	// NeverExisted means the item was absent both before and after.
	NeverExisted
)

// RemoveItem soft-deletes an item and confirms the deletion with a
// second request against the deleted-items endpoint. Absence is an
// expected outcome here, so it is reported in the result rather than as
// an error.
func (c *Client) RemoveItem(ctx context.Context, code string) (RemoveResult, error) {
	deleteResp, err := c.delete(ctx, "/items/"+url.PathEscape(code))
	if err != nil {
		return NotRemoved, err
	}

	checkResp, err := c.get(ctx, "/deleted/"+url.PathEscape(code))
	if err != nil {
		return NotRemoved, err
	}

	switch {
	case checkResp.Status == http.StatusOK:
		return Removed, nil
	case deleteResp.Status == http.StatusNotFound && checkResp.Status == http.StatusNotFound:
		return NeverExisted, nil
	default:
		return NotRemoved, nil
	}
}

// RestoreItem brings a soft-deleted item back under the given location.
// Failure to restore is an expected outcome and reported as false.
func (c *Client) RestoreItem(ctx context.Context, code, location string) (bool, error) {
	body, err := json.Marshal(location)
	if err != nil {
		return false, err
	}

	resp, err := c.put(ctx, "/deleted/"+url.PathEscape(code)+"/parent", body)
	if err != nil {
		return false, err
	}

	return resp.Status == http.StatusCreated, nil
}

// Travaso moves every direct child of an item to a new location,
// leaving the item itself in place. The first failing move aborts and
// propagates; children already moved stay moved.
func (c *Client) Travaso(ctx context.Context, code, location string) error {
	item, err := c.GetItem(ctx, code, 1)
	if err != nil {
		return err
	}

	for _, child := range item.Contents {
		if child.Code == "" {
			continue
		}
		if err := c.MoveItem(ctx, child.Code, location); err != nil {
			return fmt.Errorf("travaso of %s interrupted at %s: %w", code, child.Code, err)
		}
	}
	return nil
}

// GetHistory returns the audit trail of an item, most significant
// ordering decided by the server. A limit of 0 means server default.
func (c *Client) GetHistory(ctx context.Context, code string, limit int) ([]AuditEntry, error) {
	path := "/items/" + url.PathEscape(code) + "/history"
	if limit > 0 {
		path += "?length=" + strconv.Itoa(limit)
	}

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	switch resp.Status {
	case http.StatusOK:
		return ParseAuditEntries(resp.Body)
	case http.StatusNotFound:
		return nil, &ItemNotFoundError{Code: code}
	default:
		return nil, unexpectedStatus(resp)
	}
}

// GetCodesByFeature returns the codes of all items whose feature has
// exactly the given value. An empty result is a valid answer; a feature
// that doesn't support exact matching is a ValidationError.
func (c *Client) GetCodesByFeature(ctx context.Context, feature, value string) ([]string, error) {
	path := "/features/" + url.PathEscape(feature) + "/" + url.PathEscape(value)

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	switch resp.Status {
	case http.StatusOK:
		var codes []string
		if err := json.Unmarshal(resp.Body, &codes); err != nil {
			return nil, &InvalidObjectError{Reason: "malformed code list: " + err.Error()}
		}
		return codes, nil
	case http.StatusBadRequest:
		return nil, &ValidationError{Message: serverMessage(resp.Body, "cannot search by this feature")}
	default:
		return nil, unexpectedStatus(resp)
	}
}

// serverMessage extracts the server's human-readable rejection message,
// falling back when the body carries none.
func serverMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}

// unexpectedStatus fails closed on a whitelisted status that has no
// meaning for the endpoint at hand.
func unexpectedStatus(resp *Response) error {
	return &ServerError{Status: resp.Status, Body: string(resp.Body)}
}
