package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Absence Management
	PermissionAbsenceViewOwn         Permission = "absence.view_own"
	PermissionAbsenceCreate          Permission = "absence.create"
	PermissionAbsenceCreateForOthers Permission = "absence.create_for_others"
	PermissionAbsenceViewAll         Permission = "absence.view_all"
	PermissionAbsenceApprove         Permission = "absence.approve"
	PermissionAbsenceDelete          Permission = "absence.delete"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		// Admin has all permissions
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAbsenceViewOwn,
		PermissionAbsenceCreate,
		PermissionAbsenceCreateForOthers,
		PermissionAbsenceViewAll,
		PermissionAbsenceApprove,
		PermissionAbsenceDelete,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
		PermissionUserManage,
	},
	RoleHR: {
		// HR staff can file on behalf of employees and resolve requests
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAbsenceViewOwn,
		PermissionAbsenceCreate,
		PermissionAbsenceCreateForOthers,
		PermissionAbsenceViewAll,
		PermissionAbsenceApprove,
		PermissionEmployeeViewAll,
		PermissionReportsView,
	},
	RoleManager: {
		// Manager can approve and view team data
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAbsenceViewOwn,
		PermissionAbsenceCreate,
		PermissionAbsenceViewAll,
		PermissionAbsenceApprove,
		PermissionEmployeeViewAll,
		PermissionReportsView,
	},
	RoleEmployee: {
		// Employee has basic access
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAbsenceViewOwn,
		PermissionAbsenceCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
