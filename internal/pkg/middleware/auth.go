package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/token"
)

// ContextKey é o tipo das chaves que este pacote grava no contexto.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa a identidade verificada extraída do JWT.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o JWT do header Authorization e anexa as claims
// (UserID e Role) ao contexto da requisição. Sem token válido responde 401.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				writeError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			// 3. Papel fora do conjunto fechado é tratado como token inválido
			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				writeError(w, apperror.NewUnauthorizedError("Token com papel desconhecido."))
				return
			}

			ctx := WithUserClaims(r.Context(), UserClaims{UserID: claims.UserID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserClaims grava as claims no contexto.
func WithUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// RequireCapability permite a passagem apenas de identidades cujo papel possui a
// capacidade informada. Qualquer violação responde 403 {"error":"Unauthorized"}.
func RequireCapability(capability domain.Capability) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				// O AuthMiddleware não foi executado nesta rota
				writeError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			if !claims.Role.Can(capability) {
				writeError(w, apperror.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Error: message})
}
