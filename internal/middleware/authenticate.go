package middleware

import (
	"net/http"
)

type Authenticator interface {
	Authenticate(header string, r *http.Request) (*http.Request, error)
}

// Authenticate возвращает middleware для проверки токена из заголовка
// Authorization. Запросы без действующего токена получают ответ с кодом 401.
func Authenticate(a Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, err := a.Authenticate(r.Header.Get("Authorization"), r)
			if err != nil {
				unauthorized(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"Unauthorized"}`))
}
