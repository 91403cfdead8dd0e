package services

import "github.com/junaidrashid-git/storefront-api/models"

type Action string

const (
	ActionUserRead      Action = "user:read"
	ActionUserUpdate    Action = "user:update"
	ActionUserDelete    Action = "user:delete"
	ActionUserList      Action = "user:list"
	ActionUserCreate    Action = "user:create"
	ActionCatalogManage Action = "catalog:manage"
)

// Authorize is the single access-control decision point. Admins may do
// anything; regular users may only read and update their own record. The
// targetUserID is the owner of the resource being touched, empty for
// non-user-scoped resources.
func Authorize(subjectRole models.Role, subjectID string, action Action, targetUserID string) bool {
	if subjectRole == models.RoleAdmin {
		return true
	}
	switch action {
	case ActionUserRead, ActionUserUpdate:
		return subjectID != "" && subjectID == targetUserID
	default:
		return false
	}
}
