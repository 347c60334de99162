// Package authz gates mutations behind the admin role carried by each request.
package authz

import (
	"fmt"
	"strings"

	"health-tracker/internal/domain"
	"health-tracker/internal/metrics"
)

// RoleHeader is the request header that carries the caller's role.
const RoleHeader = "X-User-Role"

// AdminRole is the only role allowed to mutate data.
const AdminRole = "admin"

// Operation names a mutation subject to the admin check.
type Operation string

const (
	CreateUser           Operation = "create_user"
	UpdateUser           Operation = "update_user"
	DeleteUser           Operation = "delete_user"
	CreateActivity       Operation = "create_activity"
	CreateMapActivity    Operation = "create_map_activity"
	UpdateActivity       Operation = "update_activity"
	DeleteActivity       Operation = "delete_activity"
	DeleteUserActivities Operation = "delete_user_activities"
	CreateMilestone      Operation = "create_milestone"
	UpdateMilestone      Operation = "update_milestone"
	DeleteMilestone      Operation = "delete_milestone"
	CreateAchievement    Operation = "create_achievement"
	UpdateAchievement    Operation = "update_achievement"
	DeleteAchievement    Operation = "delete_achievement"
)

// Operations lists every gated mutation.
var Operations = []Operation{
	CreateUser, UpdateUser, DeleteUser,
	CreateActivity, CreateMapActivity, UpdateActivity, DeleteActivity, DeleteUserActivities,
	CreateMilestone, UpdateMilestone, DeleteMilestone,
	CreateAchievement, UpdateAchievement, DeleteAchievement,
}

// IsAdmin reports whether role is "admin", ignoring case. Surrounding
// whitespace is not stripped.
func IsAdmin(role string) bool {
	return strings.EqualFold(role, AdminRole)
}

// Authorize returns nil when role may perform op, otherwise an error wrapping
// domain.ErrForbidden.
func Authorize(role string, op Operation) error {
	if IsAdmin(role) {
		return nil
	}
	metrics.AuthorizationDeniedTotal.WithLabelValues(string(op)).Inc()
	return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
}
