package middleware

import (
	"context"
	"net/http"

	"github.com/dom/account-store/internal/domain"
)

const LocaleKey contextKey = "locale"

// Locale resolves the request locale from the lang query parameter, falling
// back to Accept-Language and then the default locale.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := domain.NegotiateLocale(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), LocaleKey, locale)
		w.Header().Set("Content-Language", string(locale))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetLocale(ctx context.Context) domain.Locale {
	if l, ok := ctx.Value(LocaleKey).(domain.Locale); ok {
		return l
	}
	return domain.DefaultLocale
}
