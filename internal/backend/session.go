package backend

import (
	"context"
	"net/http"
)

type contextKey string

const (
	cookiesCtxKey        contextKey = "cookies"
	responseHeaderCtxKey contextKey = "responseHeader"
)

// WithCookies binds the browser's cookies to ctx; every API call made with
// this ctx carries them to the backend.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesCtxKey, cookies)
}

// WithResponseHeader binds the header of the browser response to ctx so that
// Set-Cookie replies of the backend (login, logout, refresh) reach the browser.
func WithResponseHeader(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, responseHeaderCtxKey, h)
}

func attachCookies(ctx context.Context, req *http.Request) {
	cookies, _ := ctx.Value(cookiesCtxKey).([]*http.Cookie)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

func relayCookies(ctx context.Context, resp *http.Response) {
	h, ok := ctx.Value(responseHeaderCtxKey).(http.Header)
	if !ok || h == nil {
		return
	}
	for _, v := range resp.Header.Values("Set-Cookie") {
		h.Add("Set-Cookie", v)
	}
}
