package foundation

// ErrorModel is the error body of service and data results.
type ErrorModel struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error implements error.
func (e ErrorModel) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}

type serviceState int

const (
	serviceOk serviceState = iota + 1
	serviceError
	serviceNotFound
)

// ServiceResult is the outcome of a service call: a value, an error or not
// found. At most one of value and error is set.
type ServiceResult[V any] struct {
	state serviceState
	value V
	err   *ErrorModel
}

// ServiceOk returns a successful result holding value.
func ServiceOk[V any](value V) ServiceResult[V] {
	return ServiceResult[V]{state: serviceOk, value: value}
}

// ServiceErr returns a failed result holding err.
func ServiceErr[V any](err ErrorModel) ServiceResult[V] {
	return ServiceResult[V]{state: serviceError, err: &err}
}

// ServiceNotFound returns a result holding neither a value nor an error.
func ServiceNotFound[V any]() ServiceResult[V] {
	return ServiceResult[V]{state: serviceNotFound}
}

// IsOk reports whether the call succeeded.
func (r ServiceResult[V]) IsOk() bool { return r.state == serviceOk }

// HasError reports whether the call failed.
func (r ServiceResult[V]) HasError() bool { return r.state == serviceError }

// NotFound reports whether the call found nothing.
func (r ServiceResult[V]) NotFound() bool { return r.state == serviceNotFound }

// Value returns the value; it is the zero V unless IsOk.
func (r ServiceResult[V]) Value() V { return r.value }

// Err returns the error, or nil unless HasError.
func (r ServiceResult[V]) Err() *ErrorModel { return r.err }

// Data converts the result for a data route: ok becomes DataOk, error
// becomes DataError and not found becomes DataNotFound.
func (r ServiceResult[V]) Data(opts ...Option) DataResult {
	switch r.state {
	case serviceOk:
		return DataOk(r.value, opts...)
	case serviceError:
		return DataError(*r.err, opts...)
	default:
		return DataNotFound(opts...)
	}
}
