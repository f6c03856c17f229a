package foundation

import "net/http"

// DataResult is the result of a data route. It is written as JSON.
type DataResult struct {
	responseMeta
	status int
	value  any
}

// DataOk returns a success result. The status is 200 when value is non-empty
// and 204 otherwise.
func DataOk(value any, opts ...Option) DataResult {
	if isEmpty(value) {
		return DataResult{responseMeta: newMeta(opts), status: http.StatusNoContent}
	}
	return DataResult{responseMeta: newMeta(opts), status: http.StatusOK, value: value}
}

// DataError returns a 400 result whose body is value.
func DataError(value any, opts ...Option) DataResult {
	return DataResult{responseMeta: newMeta(opts), status: http.StatusBadRequest, value: value}
}

// DataNotFound returns a 404 result without a body.
func DataNotFound(opts ...Option) DataResult {
	return DataResult{responseMeta: newMeta(opts), status: http.StatusNotFound}
}

// DataUnauthorized returns a 401 result without a body.
func DataUnauthorized(opts ...Option) DataResult {
	return DataResult{responseMeta: newMeta(opts), status: http.StatusUnauthorized}
}

// Status returns the HTTP status code. It is 0 for the zero DataResult.
func (r DataResult) Status() int { return r.status }

// Value returns the body value, or nil.
func (r DataResult) Value() any { return r.value }

// IsOk reports whether the result is a 200 or 204 success.
func (r DataResult) IsOk() bool {
	return r.status == http.StatusOK || r.status == http.StatusNoContent
}

// HasError reports whether the result is a 400 error.
func (r DataResult) HasError() bool { return r.status == http.StatusBadRequest }

// NotFound reports whether the result is a 404.
func (r DataResult) NotFound() bool { return r.status == http.StatusNotFound }

// Unauthorized reports whether the result is a 401.
func (r DataResult) Unauthorized() bool { return r.status == http.StatusUnauthorized }

// Valid reports whether the result was built by one of the constructors.
func (r DataResult) Valid() bool { return r.status != 0 }
