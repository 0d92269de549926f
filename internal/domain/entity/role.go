package entity

// Roles
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
	RolePilot  = "pilot"
	RoleUser   = "user"
)

// Roles lists every assignable role.
var Roles = []string{RoleUser, RoleClient, RolePilot, RoleAdmin}

// Permissions
const (
	PermManageUsers    = "manage_users"
	PermManageSettings = "manage_settings"
	PermViewAnalytics  = "view_analytics"
	PermManageBookings = "manage_bookings"
	PermManageMissions = "manage_missions"
	PermManagePromos   = "manage_promos"
	PermCreateJobs     = "create_jobs"
	PermManageOwnJobs  = "manage_own_jobs"
	PermViewAssets     = "view_assets"
	PermDownloadAssets = "download_assets"
	PermUploadAssets   = "upload_assets"
	PermViewFlightData = "view_flight_data"
	PermViewProfile    = "view_profile"
	PermEditProfile    = "edit_profile"
)

var basePermissions = []string{PermViewProfile, PermEditProfile}

var clientPermissions = []string{
	PermCreateJobs,
	PermManageOwnJobs,
	PermViewAssets,
	PermDownloadAssets,
}

var pilotPermissions = []string{
	PermUploadAssets,
	PermManageMissions,
	PermViewFlightData,
}

var adminPermissions = []string{
	PermManageUsers,
	PermManageSettings,
	PermViewAnalytics,
	PermManageBookings,
	PermManageMissions,
	PermManagePromos,
}

// RolePermissions maps a role to its full permission set. Admin carries every
// client and pilot capability on top of its own; every role carries the base
// profile pair.
func RolePermissions(role string) []string {
	switch role {
	case RoleAdmin:
		perms := append([]string{}, adminPermissions...)
		perms = append(perms, clientPermissions...)
		perms = append(perms, pilotPermissions...)
		return append(perms, basePermissions...)
	case RoleClient:
		return append(append([]string{}, clientPermissions...), basePermissions...)
	case RolePilot:
		return append(append([]string{}, pilotPermissions...), basePermissions...)
	default:
		return append([]string{}, basePermissions...)
	}
}

// ValidRole reports whether the given string is one of the four roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
