package tarallo

import "fmt"

// AuthenticationError means the credential itself was rejected (HTTP 401
// or a failed login). The client retries authentication at most once per
// request before surfacing this.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// NotAuthorizedError means the credential is valid but lacks the
// privilege for the attempted operation (HTTP 403).
type NotAuthorizedError struct {
	Operation string
}

func (e *NotAuthorizedError) Error() string {
	if e.Operation == "" {
		return "not authorized"
	}
	return "not authorized to " + e.Operation
}

// ItemNotFoundError means the referenced item does not exist.
type ItemNotFoundError struct {
	Code string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s doesn't exist", e.Code)
}

// ProductNotFoundError means the referenced product does not exist.
type ProductNotFoundError struct {
	Brand   string
	Model   string
	Variant string
}

func (e *ProductNotFoundError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("product %s %s doesn't exist", e.Brand, e.Model)
	}
	return fmt.Sprintf("product %s %s (%s) doesn't exist", e.Brand, e.Model, e.Variant)
}

// LocationNotFoundError means the destination of a move or restore does
// not exist, as opposed to the item being moved. Both come back as 404;
// the response body tells them apart.
type LocationNotFoundError struct {
	Location string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("location %s doesn't exist", e.Location)
}

// ValidationError means the server understood the request but rejected
// it on business rules (HTTP 400, or 404 folded into the same meaning on
// feature-update endpoints).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "request rejected by server-side validation"
	}
	return e.Message
}

// InvalidObjectError means local data violated the wire contract before
// any request was made: a top-level item without a location, an empty
// code, an upload entity that fails validation.
type InvalidObjectError struct {
	Reason string
}

func (e *InvalidObjectError) Error() string {
	return "invalid object: " + e.Reason
}

// ServerError covers every 5xx and any status code outside the
// recognized set for a call. Unanticipated server behavior fails closed
// instead of passing as success.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned unexpected status %d", e.Status)
	}
	return fmt.Sprintf("server returned unexpected status %d: %s", e.Status, e.Body)
}

// ConnectivityError means the server could not be reached at all.
// Distinct from ServerError so callers can tell "no network" from "the
// server is broken".
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "cannot reach server: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
