package domain

import "strings"

// Role is a canonical role tag for a user of the platform.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleSupportManager Role = "SupportManager"
	RoleManager        Role = "manager"
	RoleUserManager    Role = "UserManager"
)

// roleAliases maps legacy role spellings still sent by older clients to their
// canonical tags. Kept as a closed table so the canonical role set stays
// enumerable.
var roleAliases = map[string]Role{
	"CustomerCareOfficer": RoleSupportManager,
}

// NormalizeRole maps a raw role string to its canonical tag. Whitespace is
// trimmed, legacy aliases are rewritten, anything else passes through
// unchanged. An empty role defaults to customer, the least privileged tag.
func NormalizeRole(raw string) Role {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RoleCustomer
	}
	if canonical, ok := roleAliases[trimmed]; ok {
		return canonical
	}
	return Role(trimmed)
}

// IsSupportStaff reports whether the role may author support replies and
// trigger the automatic answered transition.
func IsSupportStaff(role Role) bool {
	return squashRole(NormalizeRole(string(role))) == "supportmanager"
}

// IsAdminBoard reports whether the role may view every ticket and reply
// regardless of ownership. Support staff is always part of the admin board.
func IsAdminBoard(role Role) bool {
	switch squashRole(NormalizeRole(string(role))) {
	case "supportmanager", "manager", "usermanager":
		return true
	}
	return false
}

// squashRole folds case and strips separators so "Support_Manager",
// "support-manager" and "SupportManager" compare equal.
func squashRole(role Role) string {
	var b strings.Builder
	b.Grow(len(role))
	for _, r := range strings.ToLower(string(role)) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
