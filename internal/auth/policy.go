package auth

import "strings"

// DashboardPath is both the protected area prefix and where signed-in users
// land when they open a public page.
const DashboardPath = "/dashboard"

type Decision int

const (
	Allow Decision = iota
	Deny
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case RedirectToDashboard:
		return "redirect_to_dashboard"
	default:
		return "unknown"
	}
}

// IsDashboardPath reports whether path falls under the dashboard area.
// It is a plain prefix match, so "/dashboardx" counts too.
func IsDashboardPath(path string) bool {
	return strings.HasPrefix(path, DashboardPath)
}

// Authorize decides what happens to a request for path. Dashboard pages need
// a session; everything else is public, except that signed-in users are sent
// to the dashboard instead.
func Authorize(isLoggedIn bool, path string) Decision {
	if IsDashboardPath(path) {
		if isLoggedIn {
			return Allow
		}
		return Deny
	}
	if isLoggedIn {
		return RedirectToDashboard
	}
	return Allow
}
