package session

import "github.com/picosparking/zonaazul-admin/internal/zonaazul"

// Capabilities is the closed set of things a signed-in role may do. Workflows
// check these at their boundary instead of switching on role strings per page.
type Capabilities struct {
	AccessDashboard      bool
	ManageZones          bool
	ViewMetrics          bool
	IssueNotifications   bool
	CreateFiscalParkings bool
	GenerateSettlements  bool
	ReviewSettlements    bool
	CreateFiscals        bool
}

// CapabilitiesFor maps a role to its capability set. Roles outside
// admin/fiscal get the zero value and cannot even sign in.
func CapabilitiesFor(role zonaazul.Role) Capabilities {
	switch role {
	case zonaazul.RoleAdmin:
		return Capabilities{
			AccessDashboard:      true,
			ManageZones:          true,
			ViewMetrics:          true,
			IssueNotifications:   true,
			CreateFiscalParkings: true,
			GenerateSettlements:  true,
			ReviewSettlements:    true,
			CreateFiscals:        true,
		}
	case zonaazul.RoleFiscal:
		return Capabilities{
			AccessDashboard:      true,
			IssueNotifications:   true,
			CreateFiscalParkings: true,
			GenerateSettlements:  true,
		}
	default:
		return Capabilities{}
	}
}
