// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"readquest/internal/model"
	"readquest/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証し、
// sub クレームのユーザーIDをコンテキストにセットするミドルウェア
func JWTAuthMiddleware(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			tokenString, err := bearerToken(r)
			if err != nil {
				logger.Warn("JWT auth failed", slog.Any("error", err))
				webutil.HandleError(w, logger, err)
				return
			}

			userID, err := ParseUserToken(tokenString, secretKey)
			if err != nil {
				logger.Warn("JWT auth failed: invalid token", slog.Any("error", err))
				webutil.HandleError(w, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken は "Bearer {token}" 形式のヘッダー、なければ access_token クエリからトークンを取得します。
// ブラウザの WebSocket はヘッダーを付けられないためクエリも受け付けます。
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if t := r.URL.Query().Get("access_token"); t != "" {
			return t, nil
		}
		return "", model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrUnauthorized)
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrUnauthorized)
	}
	return headerParts[1], nil
}

// ParseUserToken はHS256のJWTを検証し、sub クレームをユーザーIDとして返します
func ParseUserToken(tokenString, secretKey string) (uuid.UUID, error) {
	if secretKey == "" {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンを検証できません。", "", fmt.Errorf("%w: jwt secret key is not configured", model.ErrUnauthorized))
	}

	// jwt.Parse は署名と有効期限(exp)の両方を検証してくれる
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		msg := "トークンが無効です。"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "トークンの有効期限が切れています。"
		}
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", msg, "", fmt.Errorf("%w: %v", model.ErrUnauthorized, err))
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンにユーザー情報が含まれていません。", "", model.ErrUnauthorized)
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンのユーザー情報が不正です。", "", fmt.Errorf("%w: %v", model.ErrUnauthorized, err))
	}
	return userID, nil
}

// WithUserID は認証済みユーザーIDをコンテキストにセットします
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, model.UserIDKey, userID)
}

// GetUserIDFromContext は認証ミドルウェアがセットしたユーザーIDを取得します
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok || value == uuid.Nil {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
	}
	return value, nil
}
