package rest

import (
	"net/http"

	"catalog-service/internal/contextkeys"

	"github.com/google/uuid"
)

// ClientIDMiddleware извлекает анонимный идентификатор клиента из
// заголовка X-Client-ID. Если заголовок отсутствует или это не UUID,
// генерируется новый. Идентификатор всегда возвращается в ответе тем же
// заголовком: браузер сохраняет его и присылает в следующих запросах,
// на нем держится избранное без регистрации.
func ClientIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := r.Header.Get("X-Client-ID")
		if _, err := uuid.Parse(clientID); err != nil {
			clientID = uuid.New().String()
		}

		w.Header().Set("X-Client-ID", clientID)

		ctx := contextkeys.ContextWithClientID(r.Context(), clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
