package permissions

// PermissionScope defines the context in which a permission applies
type PermissionScope string

const (
	ScopeGlobal PermissionScope = "global" // applies system-wide
	ScopePanel  PermissionScope = "panel"  // applies within a specific curation panel
)

// Keys used by the lifecycle coordinator and handlers
const (
	RecordEdit      = "record.edit"
	RecordDelete    = "record.delete"
	RecordMerge     = "record.merge"
	CurationPublish = "curation.publish"
	PanelManage     = "panel.manage.members"
	PanelInvite     = "panel.invite"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string          `json:"key"`         // unique key, e.g., "record.edit"
	Name        string          `json:"name"`        // friendly name, e.g., "Edit Record"
	Description string          `json:"description"` // detailed description of what the permission allows
	Scope       PermissionScope `json:"scope"`       // scope of the permission (global or panel-specific)
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`         // unique key for the group, e.g., "record"
	Name        string                 `json:"name"`        // friendly name for the group
	Description string                 `json:"description"` // detailed description of the permission group
	Permissions []PermissionDefinition `json:"permissions"` // list of permissions within this group
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "record",
		Name:        "Record Management",
		Description: "Permissions related to editing published G2P records.",
		Permissions: []PermissionDefinition{
			{
				Key:         RecordEdit,
				Name:        "Edit Record",
				Description: "Allows editing records belonging to the panel (publications, phenotypes, variant data, comments).",
				Scope:       ScopePanel,
			},
			{
				Key:         RecordDelete,
				Name:        "Delete Record",
				Description: "Allows soft-deleting records belonging to the panel.",
				Scope:       ScopePanel,
			},
			{
				Key:         RecordMerge,
				Name:        "Merge Records",
				Description: "Allows merging duplicate records within the panel.",
				Scope:       ScopePanel,
			},
		},
	},
	{
		Key:         "curation",
		Name:        "Curation",
		Description: "Permissions related to draft curation entries.",
		Permissions: []PermissionDefinition{
			{
				Key:         CurationPublish,
				Name:        "Publish Curation",
				Description: "Allows publishing a draft record onto the panel.",
				Scope:       ScopePanel,
			},
		},
	},
	{
		Key:         "panel",
		Name:        "Panel Management",
		Description: "Permissions related to managing curation panels and their members.",
		Permissions: []PermissionDefinition{
			{
				Key:         PanelManage,
				Name:        "Manage Panel Members",
				Description: "Allows adding/removing curators or changing their permissions for a specific panel.",
				Scope:       ScopePanel,
			},
			{
				Key:         PanelInvite,
				Name:        "Create Panel Invites",
				Description: "Allows generating invitation codes for a specific panel.",
				Scope:       ScopePanel,
			},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionDefinitions returns a map of all defined permissions, keyed by their unique string key
func GetAllPermissionDefinitions() map[string]PermissionDefinition {
	return allPermissionKeysMap
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	// return a copy to prevent modification of the internal slice
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}
