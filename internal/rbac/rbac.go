package rbac

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed roles.json
var defaultRoles []byte

const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// RBACService handles permission checks with set-based lookups
type RBACService struct {
	// role -> entity -> action
	permissions map[string]map[string]map[string]bool

	// Full role definitions with metadata (for API responses)
	roles map[string]*Role
}

// Role represents a role with metadata
type Role struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Permissions map[string][]string `json:"permissions"`
}

// NewRBACService loads the embedded tenant role definitions
func NewRBACService() (*RBACService, error) {
	return NewRBACServiceFromJSON(defaultRoles)
}

func NewRBACServiceFromJSON(data []byte) (*RBACService, error) {
	// role_id -> role definition
	var rawConfig map[string]*Role
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse roles: %w", err)
	}

	permissions := make(map[string]map[string]map[string]bool)
	for roleID, role := range rawConfig {
		role.ID = roleID
		permissions[roleID] = make(map[string]map[string]bool)

		for entity, actions := range role.Permissions {
			permissions[roleID][entity] = make(map[string]bool)
			for _, action := range actions {
				permissions[roleID][entity][action] = true
			}
		}
	}

	return &RBACService{
		permissions: permissions,
		roles:       rawConfig,
	}, nil
}

// HasPermission reports whether role grants action on entity. Unknown roles get nothing.
func (s *RBACService) HasPermission(role string, entity string, action string) bool {
	return s.permissions[role] != nil &&
		s.permissions[role][entity] != nil &&
		s.permissions[role][entity][action]
}

// ValidateRole checks if role exists in definitions
func (s *RBACService) ValidateRole(roleName string) bool {
	_, exists := s.permissions[roleName]
	return exists
}

// ListRoles returns all roles sorted by id
func (s *RBACService) ListRoles() []*Role {
	result := make([]*Role, 0, len(s.roles))
	for _, role := range s.roles {
		result = append(result, role)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// GetRole returns a specific role with metadata
func (s *RBACService) GetRole(roleID string) (*Role, bool) {
	role, exists := s.roles[roleID]
	return role, exists
}
