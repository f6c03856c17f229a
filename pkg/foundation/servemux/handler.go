package servemux

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/epandco/unthink/pkg/foundation"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

var (
	unknownError      = foundation.ErrorModel{Type: "unknown", Message: "unknown error"}
	bodyTooLargeError = foundation.ErrorModel{Type: "request", Message: "request body too large"}
)

func (b *Backend) routeContext(w http.ResponseWriter, r *http.Request, params []string) (*foundation.RouteContext, error) {
	rc := &foundation.RouteContext{
		Query:   r.URL.Query(),
		Params:  make(map[string]string, len(params)),
		Header:  r.Header,
		Cookies: r.Cookies(),
	}
	for _, name := range params {
		rc.Params[name] = r.PathValue(name)
	}

	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, b.bodyLimit))
		if err != nil {
			return nil, err
		}
		rc.Body = body
	}
	return rc, nil
}

func (b *Backend) dataHandler(bind Binding) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, err := b.routeContext(w, r, bind.Params)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, bodyTooLargeError)
				return
			}
			b.dataFailure(w, r, bind, err)
			return
		}

		res, err := invokeData(r.Context(), bind.Data, rc)
		if err == nil && !res.Valid() {
			err = fmt.Errorf("%w: empty data result", foundation.ErrInvalidResult)
		}
		if err != nil {
			b.dataFailure(w, r, bind, err)
			return
		}

		var body []byte
		if res.Status() != http.StatusNoContent && res.Value() != nil {
			body, err = json.Marshal(res.Value())
			if err != nil {
				b.dataFailure(w, r, bind, fmt.Errorf("encoding response: %w", err))
				return
			}
		}

		applyMeta(w, res)
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(res.Status())
		if body != nil {
			_, _ = w.Write(body)
		}
	})
}

func (b *Backend) dataFailure(w http.ResponseWriter, r *http.Request, bind Binding, err error) {
	b.logger.Error("data route failed",
		"method", r.Method, "path", r.URL.Path, "pattern", bind.FullPath, "resource", bind.Resource, "err", err)
	writeJSON(w, http.StatusInternalServerError, unknownError)
}

func (b *Backend) viewHandler(bind Binding) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, err := b.routeContext(w, r, bind.Params)
		if err != nil {
			b.viewFailure(w, r, bind, err)
			return
		}

		res, err := invokeView(r.Context(), bind.View, rc)
		if err == nil {
			err = res.Validate()
		}
		if err != nil {
			b.viewFailure(w, r, bind, err)
			return
		}

		if res.IsRedirect() {
			applyMeta(w, res)
			http.Redirect(w, r, res.RedirectURL(), res.Status())
			return
		}

		name := res.Template()
		if name == "" {
			name = b.templates.forStatus(res.Status())
		}
		if name == "" {
			b.viewFailure(w, r, bind, fmt.Errorf("%w: no template for status %d", foundation.ErrInvalidResult, res.Status()))
			return
		}

		var buf bytes.Buffer
		if err := b.renderer.Render(&buf, name, res.Model()); err != nil {
			b.viewFailure(w, r, bind, fmt.Errorf("rendering %s: %w", name, err))
			return
		}

		applyMeta(w, res)
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(res.Status())
		_, _ = buf.WriteTo(w)
	})
}

func (b *Backend) viewFailure(w http.ResponseWriter, r *http.Request, bind Binding, err error) {
	b.logger.Error("view route failed",
		"method", r.Method, "path", r.URL.Path, "pattern", bind.FullPath, "resource", bind.Resource, "err", err)

	if b.templates.Fatal != "" {
		var buf bytes.Buffer
		rerr := b.renderer.Render(&buf, b.templates.Fatal, nil)
		if rerr == nil {
			w.Header().Set("Content-Type", contentTypeHTML)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = buf.WriteTo(w)
			return
		}
		b.logger.Error("fatal template failed", "template", b.templates.Fatal, "err", rerr)
	}

	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, unknownError.Message)
}

func invokeData(ctx context.Context, fn foundation.DataFunc, rc *foundation.RouteContext) (res foundation.DataResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return fn(ctx, rc)
}

func invokeView(ctx context.Context, fn foundation.ViewFunc, rc *foundation.RouteContext) (res foundation.ViewResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return fn(ctx, rc)
}

func applyMeta(w http.ResponseWriter, res foundation.Result) {
	for _, c := range res.Cookies() {
		http.SetCookie(w, c)
	}
	for key, values := range res.Header() {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, _ := json.Marshal(v)
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
