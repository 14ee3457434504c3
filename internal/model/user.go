// internal/model/user.go
package model

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)
