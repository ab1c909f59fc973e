package middleware

import (
	"github.com/ivanpodgorny/bakesale/internal/security"
	"log/slog"
	"net/http"
)

// CronSecretHeader - заголовок, в котором планировщик передает общий секрет.
const CronSecretHeader = "X-Cron-Secret"

// CronSecret возвращает middleware, пропускающее только запросы с секретом
// планировщика. Если секрет не задан, проверка отключена и эндпоинт открыт.
func CronSecret(secret string, l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !security.SecretMatches(secret, r.Header.Get(CronSecretHeader)) {
				l.WarnContext(
					r.Context(),
					"отклонен запрос планировщика с неверным секретом",
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("path", r.URL.Path),
				)
				unauthorized(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
