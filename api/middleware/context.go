package middleware

import (
	"context"

	"github.com/shopstack/storefront-gateway/internal/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the authenticated session seeded by Auth.
// The zero Session (empty token) means the request is anonymous.
func SessionFromContext(ctx context.Context) session.Session {
	if ctx == nil {
		return session.Session{}
	}
	if sess, ok := ctx.Value(ctxSession).(session.Session); ok {
		return sess
	}
	return session.Session{}
}

// WithSession injects the session into the context, for tests and handlers
// called outside the middleware chain.
func WithSession(ctx context.Context, sess session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
