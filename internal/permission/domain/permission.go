package domain

import "fmt"

// Area es una zona de la aplicación protegida por permisos.
type Area string

const (
	AreaDashboard      Area = "dashboard"
	AreaInventory      Area = "inventory"
	AreaAdvertisements Area = "advertisements"
	AreaSales          Area = "sales"
	AreaPending        Area = "pending"
	AreaInsights       Area = "insights"
	AreaSystemHealth   Area = "system_health"
	AreaNotifications  Area = "notifications"
	AreaUsers          Area = "users"
	AreaSettings       Area = "settings"
)

// Role del usuario. El rol vacío equivale a "sin rol".
type Role string

const (
	RoleConsultant  Role = "consultant"
	RoleSalesperson Role = "salesperson"
	RoleManager     Role = "manager"
	RoleAdmin       Role = "admin"
)

var allRoles = []Role{RoleConsultant, RoleSalesperson, RoleManager, RoleAdmin}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Rule es el requisito de acceso a un área: uno de los roles y nivel mínimo.
type Rule struct {
	Roles    []Role `yaml:"roles" json:"roles"`
	MinLevel int    `yaml:"min_level" json:"min_level"`
}

func (r Rule) allows(role Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// RuleTable asocia cada área con su regla.
type RuleTable map[Area]Rule

// Decision es el resultado de evaluar un permiso.
type Decision struct {
	HasAccess bool   `json:"has_access"`
	Reason    string `json:"reason,omitempty"`
}

const ReasonAreaNotFound = "area not found"

// Check evalúa el acceso. Es una función pura sobre la tabla.
// level nil significa que el usuario no tiene nivel asignado.
func (t RuleTable) Check(area Area, role Role, level *int) Decision {
	rule, ok := t[area]
	if !ok {
		return Decision{HasAccess: false, Reason: ReasonAreaNotFound}
	}
	if !rule.allows(role) {
		return Decision{HasAccess: false, Reason: fmt.Sprintf("role %q is not allowed in area %q", role, area)}
	}
	if level == nil {
		return Decision{HasAccess: false, Reason: fmt.Sprintf("level required for area %q (minimum %d)", area, rule.MinLevel)}
	}
	if *level < rule.MinLevel {
		return Decision{HasAccess: false, Reason: fmt.Sprintf("level %d is below the minimum %d for area %q", *level, rule.MinLevel, area)}
	}
	return Decision{HasAccess: true}
}

// Merge devuelve una copia de t con las reglas de override reemplazando
// las existentes área por área.
func (t RuleTable) Merge(override RuleTable) RuleTable {
	out := make(RuleTable, len(t)+len(override))
	for area, rule := range t {
		out[area] = rule
	}
	for area, rule := range override {
		out[area] = rule
	}
	return out
}

// DefaultRules es la tabla estática de la concesionaria.
// Niveles: 1 básico, 2 ventas, 3 supervisión, 4 gerencia, 5 administración.
func DefaultRules() RuleTable {
	everyone := []Role{RoleConsultant, RoleSalesperson, RoleManager, RoleAdmin}
	sellers := []Role{RoleSalesperson, RoleManager, RoleAdmin}
	managers := []Role{RoleManager, RoleAdmin}

	return RuleTable{
		AreaDashboard:      {Roles: everyone, MinLevel: 1},
		AreaInventory:      {Roles: everyone, MinLevel: 1},
		AreaAdvertisements: {Roles: sellers, MinLevel: 2},
		AreaSales:          {Roles: sellers, MinLevel: 2},
		AreaPending:        {Roles: everyone, MinLevel: 1},
		AreaInsights:       {Roles: managers, MinLevel: 3},
		AreaSystemHealth:   {Roles: managers, MinLevel: 4},
		AreaNotifications:  {Roles: everyone, MinLevel: 1},
		AreaUsers:          {Roles: []Role{RoleAdmin}, MinLevel: 5},
		AreaSettings:       {Roles: []Role{RoleAdmin}, MinLevel: 5},
	}
}

var defaultRules = DefaultRules()

// CheckPermission evalúa contra la tabla por defecto.
func CheckPermission(area Area, role Role, level *int) Decision {
	return defaultRules.Check(area, role, level)
}
