package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"learner": {
		"course:view",
		"session:create",
		"session:check",
		"session:advance",
		"session:view",
		"progress:view-own",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
