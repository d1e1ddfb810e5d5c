package session

import (
	"testing"

	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func TestCapabilitiesForRole(t *testing.T) {
	tests := []struct {
		role zonaazul.Role
		want Capabilities
	}{
		{zonaazul.RoleAdmin, Capabilities{
			AccessDashboard:      true,
			ManageZones:          true,
			ViewMetrics:          true,
			IssueNotifications:   true,
			CreateFiscalParkings: true,
			GenerateSettlements:  true,
			ReviewSettlements:    true,
			CreateFiscals:        true,
		}},
		{zonaazul.RoleFiscal, Capabilities{
			AccessDashboard:      true,
			IssueNotifications:   true,
			CreateFiscalParkings: true,
			GenerateSettlements:  true,
		}},
		{zonaazul.RoleOperator, Capabilities{}},
		{zonaazul.RoleDriver, Capabilities{}},
		{zonaazul.Role("unknown"), Capabilities{}},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := CapabilitiesFor(tc.role); got != tc.want {
				t.Errorf("CapabilitiesFor(%q) = %+v, want %+v", tc.role, got, tc.want)
			}
		})
	}
}

func TestOnlyDashboardRolesMayReview(t *testing.T) {
	for _, role := range []zonaazul.Role{zonaazul.RoleFiscal, zonaazul.RoleDriver, zonaazul.RoleOperator} {
		if CapabilitiesFor(role).ReviewSettlements {
			t.Errorf("role %q may review settlements", role)
		}
	}
}
