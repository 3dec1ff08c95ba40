// AngelaMos | 2026
// dto.go

package role

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor"`
}

type RolesResponse struct {
	Roles []string `json:"roles"`
}

type SettingsResponse struct {
	Settings RoleRequest `json:"settings"`
}
