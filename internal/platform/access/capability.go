package access

// Capability is a named permission checked against a role's granted set.
type Capability string

const (
	CapViewVitals           Capability = "viewVitals"
	CapLogVitals            Capability = "logVitals"
	CapViewMedications      Capability = "viewMedications"
	CapLogMedications       Capability = "logMedications"
	CapViewAppointments     Capability = "viewAppointments"
	CapScheduleAppointments Capability = "scheduleAppointments"
	CapViewNutrition        Capability = "viewNutrition"
	CapLogMeals             Capability = "logMeals"
	CapManagePatients       Capability = "managePatients"
)

// Role is the caller's relationship to a patient's owning account.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleFamily    Role = "family"
	RoleCaregiver Role = "caregiver"
)

// implicitGrants is the static capability table. Owners implicitly hold
// every capability over their own patients; family and caregiver roles
// start from these sets and are extended per-edge, never shrunk.
var implicitGrants = map[Role]map[Capability]bool{
	RoleFamily: {
		CapViewVitals:       true,
		CapViewMedications:  true,
		CapViewAppointments: true,
	},
	RoleCaregiver: {
		CapViewVitals:           true,
		CapLogVitals:            true,
		CapViewMedications:      true,
		CapLogMedications:       true,
		CapViewAppointments:     true,
		CapScheduleAppointments: true,
		CapViewNutrition:        true,
		CapLogMeals:             true,
	},
}

var validCapabilities = map[Capability]bool{
	CapViewVitals:           true,
	CapLogVitals:            true,
	CapViewMedications:      true,
	CapLogMedications:       true,
	CapViewAppointments:     true,
	CapScheduleAppointments: true,
	CapViewNutrition:        true,
	CapLogMeals:             true,
	CapManagePatients:       true,
}

// ValidCapability reports whether the name is a known capability.
func ValidCapability(c Capability) bool {
	return validCapabilities[c]
}

// Allowed reports whether a role with the given per-edge grants holds the
// capability. Pure function: no state, no I/O.
func Allowed(role Role, granted []Capability, cap Capability) bool {
	if role == RoleOwner {
		return true
	}
	if implicitGrants[role][cap] {
		return true
	}
	for _, g := range granted {
		if g == cap {
			return true
		}
	}
	return false
}
