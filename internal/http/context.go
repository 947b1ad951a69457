package http

import (
	"context"

	"github.com/example/hr-timesheet/internal/application"
)

type contextKey string

const (
	principalContextKey  contextKey = "principal"
	employeeIDContextKey contextKey = "employee_id"
	entryIDContextKey    contextKey = "entry_id"
	fileIDContextKey     contextKey = "file_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithEmployeeID injects the employee identifier resolved from the request path.
func ContextWithEmployeeID(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, employeeIDContextKey, employeeID)
}

// EmployeeIDFromContext extracts an employee identifier previously associated with the context.
func EmployeeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDContextKey).(string)
	return id, ok
}

// ContextWithEntryID injects the timesheet entry identifier resolved from the request path.
func ContextWithEntryID(ctx context.Context, entryID string) context.Context {
	return context.WithValue(ctx, entryIDContextKey, entryID)
}

// EntryIDFromContext extracts a timesheet entry identifier previously associated with the context.
func EntryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entryIDContextKey).(string)
	return id, ok
}

// ContextWithFileID injects the attachment identifier resolved from the request path.
func ContextWithFileID(ctx context.Context, fileID string) context.Context {
	return context.WithValue(ctx, fileIDContextKey, fileID)
}

// FileIDFromContext extracts an attachment identifier previously associated with the context.
func FileIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(fileIDContextKey).(string)
	return id, ok
}
