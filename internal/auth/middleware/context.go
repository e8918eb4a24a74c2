package auth

import "context"

type ctxKey string

const ctxKeyLocale ctxKey = "locale"

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, locale)
}

// LocaleFromContext returns the acting user's grade locale, or "" when the
// token carried none (callers fall back to the configured default).
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyLocale).(string); ok {
		return v
	}
	return ""
}
