package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name          string
		role          domain.Role
		authenticated bool
		path          string
		want          Action
	}{
		// Guests.
		{"guest admin zone", domain.RoleUser, false, "/admin/shipments", redirect(LoginPath)},
		{"guest seller zone", domain.RoleUser, false, "/seller/orders", redirect(LoginPath)},
		{"guest customer zone", domain.RoleUser, false, "/dashboard", redirect(LoginPath)},
		// The driver zone is deliberately open to unauthenticated requests.
		{"guest driver zone", domain.RoleUser, false, "/driver/runsheet", actionAllow},
		{"guest unzoned", domain.RoleUser, false, "/about", actionAllow},
		{"guest login page", domain.RoleUser, false, "/login", actionAllow},

		// Authenticated users revisiting auth-entry routes go home.
		{"admin on login", domain.RoleAdmin, true, "/login", redirect("/admin")},
		{"seller on signup", domain.RoleSeller, true, "/signup", redirect("/seller")},
		{"customer on login", domain.RoleUser, true, "/login", redirect("/dashboard")},
		{"staff on login", domain.RoleStaff, true, "/login", redirect("/driver")},

		// Zone isolation: cross-zone access redirects home, never rejects.
		{"seller into admin", domain.RoleSeller, true, "/admin/shipments", redirect("/seller")},
		{"admin into seller", domain.RoleAdmin, true, "/seller/orders", redirect("/admin")},
		{"customer into driver", domain.RoleUser, true, "/driver/runsheet", redirect("/dashboard")},
		{"staff into admin", domain.RoleStaff, true, "/admin", redirect("/driver")},

		// Own zone and unzoned paths pass through.
		{"admin own zone", domain.RoleAdmin, true, "/admin/shipments/bulk-status", actionAllow},
		{"seller own zone", domain.RoleSeller, true, "/seller", actionAllow},
		{"staff own zone", domain.RoleStaff, true, "/driver/runsheet", actionAllow},
		{"customer own zone", domain.RoleUser, true, "/dashboard/orders", actionAllow},
		{"admin unzoned", domain.RoleAdmin, true, "/about", actionAllow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.role, tc.authenticated, tc.path)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, "/admin", HomePath(domain.RoleAdmin))
	assert.Equal(t, "/seller", HomePath(domain.RoleSeller))
	assert.Equal(t, "/driver", HomePath(domain.RoleStaff))
	assert.Equal(t, "/dashboard", HomePath(domain.RoleUser))
}
