package tarallo

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// BulkAdd imports a pre-built batch of item trees in one request.
//
// The identifier makes the import idempotent: retrying with the same
// identifier and overwrite=false is a no-op failure instead of a
// duplicate. An empty identifier gets a generated one, so a retry of
// the same call stays safe. Returns true when the server accepted the
// batch; a duplicate identifier or a rejected batch is an expected
// outcome and comes back as false.
func (c *Client) BulkAdd(ctx context.Context, items []*ItemToUpload, identifier string, overwrite bool) (bool, error) {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return false, err
		}
	}

	if identifier == "" {
		identifier = uuid.NewString()
	}

	body, err := json.Marshal(items)
	if err != nil {
		return false, err
	}

	path := "/bulk/add/" + url.PathEscape(identifier)
	if overwrite {
		path += "?overwrite=true"
	}

	resp, err := c.post(ctx, path, body)
	if err != nil {
		// A conflicting identifier comes back as 409, outside the
		// transport's recognized set. It is an expected outcome here,
		// not the server misbehaving.
		var srvErr *ServerError
		if errors.As(err, &srvErr) && srvErr.Status == http.StatusConflict {
			c.logger.Debug("bulk import identifier already used", "identifier", identifier)
			return false, nil
		}
		return false, err
	}

	switch resp.Status {
	case http.StatusNoContent:
		return true, nil
	case http.StatusBadRequest, http.StatusNotFound:
		c.logger.Debug("bulk import rejected", "identifier", identifier, "status", resp.Status)
		return false, nil
	case http.StatusForbidden:
		return false, &NotAuthorizedError{Operation: "bulk import"}
	default:
		return false, unexpectedStatus(resp)
	}
}
