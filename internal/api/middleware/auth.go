package middleware

import (
	"net/http"

	"oraclex/pkg/crypto"
)

// APIKeyAuth - middleware для аутентификации по API ключу
//
// Назначение:
// Защищает мутирующие API endpoints от неавторизованного доступа.
// Ключ передается в заголовке X-API-Key и сверяется с bcrypt хешем
// из конфигурации (API_KEY_HASH).
//
// Поведение:
// - Хеш не настроен: аутентификация выключена, все запросы проходят
//   (локальное развертывание на одну машину)
// - Ключ отсутствует или не совпадает: 401 Unauthorized
//
// Использование:
//
//	api.Use(middleware.APIKeyAuth(cfg.Security.APIKeyHash))
func APIKeyAuth(apiKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKeyHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if err := crypto.VerifyAPIKey(key, apiKeyHash); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
