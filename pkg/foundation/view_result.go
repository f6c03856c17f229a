package foundation

import (
	"fmt"
	"net/http"
)

// ViewResult is the result of a view route: a rendered template or a redirect.
type ViewResult struct {
	responseMeta
	status   int
	template string
	redirect string
	model    any
}

// ViewOk returns a 200 result rendering template with model.
func ViewOk(template string, model any, opts ...Option) ViewResult {
	return ViewResult{responseMeta: newMeta(opts), status: http.StatusOK, template: template, model: model}
}

// Redirect returns a 302 redirect to url.
func Redirect(url string, opts ...Option) ViewResult {
	return ViewResult{responseMeta: newMeta(opts), status: http.StatusFound, redirect: url}
}

// RedirectPermanent returns a 301 redirect to url.
func RedirectPermanent(url string, opts ...Option) ViewResult {
	return ViewResult{responseMeta: newMeta(opts), status: http.StatusMovedPermanently, redirect: url}
}

// ViewError returns a 400 result. An empty template selects the backend's
// error template.
func ViewError(template string, model any, opts ...Option) ViewResult {
	return ViewResult{responseMeta: newMeta(opts), status: http.StatusBadRequest, template: template, model: model}
}

// ViewNotFound returns a 404 result. An empty template selects the backend's
// not found template.
func ViewNotFound(template string, model any, opts ...Option) ViewResult {
	return ViewResult{responseMeta: newMeta(opts), status: http.StatusNotFound, template: template, model: model}
}

// ViewUnauthorized returns a 401 result. An empty template selects the
// backend's unauthorized template.
func ViewUnauthorized(template string, model any, opts ...Option) ViewResult {
	return ViewResult{responseMeta: newMeta(opts), status: http.StatusUnauthorized, template: template, model: model}
}

// Status returns the HTTP status code. It is 0 for the zero ViewResult.
func (r ViewResult) Status() int { return r.status }

// Template returns the template name, or "".
func (r ViewResult) Template() string { return r.template }

// RedirectURL returns the redirect target, or "".
func (r ViewResult) RedirectURL() string { return r.redirect }

// Model returns the value passed to the template.
func (r ViewResult) Model() any { return r.model }

// IsRedirect reports whether the result is a 301 or 302 redirect.
func (r ViewResult) IsRedirect() bool {
	return r.status == http.StatusMovedPermanently || r.status == http.StatusFound
}

// IsTemplate reports whether the result renders a template.
func (r ViewResult) IsTemplate() bool {
	return r.status != 0 && !r.IsRedirect()
}

// Validate checks that exactly one of template and redirect target is set.
// Error, not found and unauthorized results may leave the template empty.
func (r ViewResult) Validate() error {
	switch {
	case r.status == 0:
		return fmt.Errorf("%w: empty view result", ErrInvalidResult)
	case r.template != "" && r.redirect != "":
		return fmt.Errorf("%w: view result has both template %q and redirect %q", ErrInvalidResult, r.template, r.redirect)
	case r.IsRedirect() && r.redirect == "":
		return fmt.Errorf("%w: redirect without a target", ErrInvalidResult)
	case r.status == http.StatusOK && r.template == "":
		return fmt.Errorf("%w: view without a template", ErrInvalidResult)
	}
	return nil
}
