// openapi.go - валидация входящих запросов по OpenAPI контракту.
// Применяется после маршрутизации: операция контракта определяется
// по шаблону маршрута chi, параметры пути берутся из контекста chi.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/symds-dashboard/internal/api/errors"
)

// regexpParam - параметр chi с регулярным выражением: {name:regexp}.
var regexpParam = regexp.MustCompile(`\{([^}:]+):[^}]*\}`)

// OpenAPIValidator возвращает middleware, проверяющий параметры запроса
// по контракту doc. Маршруты, которых нет в контракте, пропускаются.
// Нарушение контракта - 400 VALIDATION_ERROR.
func OpenAPIValidator(doc *openapi3.T) func(http.Handler) http.Handler {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := chi.RouteContext(r.Context())
			if rctx == nil {
				next.ServeHTTP(w, r)
				return
			}

			path := regexpParam.ReplaceAllString(rctx.RoutePattern(), "{$1}")
			pathItem := doc.Paths.Find(path)
			if pathItem == nil {
				next.ServeHTTP(w, r)
				return
			}
			operation := pathItem.GetOperation(r.Method)
			if operation == nil {
				next.ServeHTTP(w, r)
				return
			}

			pathParams := make(map[string]string, len(rctx.URLParams.Keys))
			for i, key := range rctx.URLParams.Keys {
				pathParams[key] = rctx.URLParams.Values[i]
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route: &routers.Route{
					Spec:      doc,
					Path:      path,
					PathItem:  pathItem,
					Method:    r.Method,
					Operation: operation,
				},
				Options: options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				apierrors.ValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validationMessage формирует сообщение об ошибке без внутренних деталей схемы.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		reason := reqErr.Reason
		if reason == "" && reqErr.Err != nil {
			reason = reqErr.Err.Error()
		}
		return fmt.Sprintf("некорректный параметр %s (%s): %s", reqErr.Parameter.Name, reqErr.Parameter.In, reason)
	}
	return err.Error()
}
