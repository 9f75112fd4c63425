// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Save writes reg as indented JSON, creating the directory if needed.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks required fields and duplicate ids or task types.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	routes := make(map[string]string)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}

		if route := activity.HTTP; route != nil {
			if err := route.validate(); err != nil {
				return fmt.Errorf("activity %s: %w", activity.ID, err)
			}
			key := route.Method + " " + route.Path
			if other, taken := routes[key]; taken {
				return fmt.Errorf("route %s served by both %s and %s", key, other, activity.ID)
			}
			routes[key] = activity.ID
		}
	}
	return nil
}

func (r *Route) validate() error {
	switch r.Method {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
	default:
		return fmt.Errorf("unsupported route method %q", r.Method)
	}
	if !strings.HasPrefix(r.Path, "/api/v1/") {
		return fmt.Errorf("route path %q is outside /api/v1", r.Path)
	}
	switch r.Role {
	case RolePublic, RoleUser, RoleAdmin:
	default:
		return fmt.Errorf("unknown route role %q", r.Role)
	}
	return nil
}

// FindRoute returns the activity served at method and path.
func (r *ActivityRegistry) FindRoute(method, path string) (*Activity, bool) {
	for i := range r.Activities {
		if route := r.Activities[i].HTTP; route != nil && route.Method == method && route.Path == path {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Find returns the activity with the given id.
func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Catalog collects the activities the service registers at startup.
type Catalog struct {
	mu         sync.RWMutex
	version    string
	activities map[string]Activity
}

func NewCatalog(version string) *Catalog {
	return &Catalog{version: version, activities: make(map[string]Activity)}
}

// Register adds a; a second activity with the same task type is rejected.
func (c *Catalog) Register(a Activity) error {
	if a.TaskType == "" {
		return fmt.Errorf("activity %q has no task type", a.ID)
	}
	if a.ID == "" {
		a.ID = a.TaskType
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.activities[a.TaskType]; exists {
		return fmt.Errorf("task type %s already registered", a.TaskType)
	}
	c.activities[a.TaskType] = a
	return nil
}

func (c *Catalog) Get(taskType string) (Activity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.activities[taskType]
	return a, ok
}

// Snapshot returns the catalog as a registry document ordered by task type.
func (c *Catalog) Snapshot(now time.Time) *ActivityRegistry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	activities := make([]Activity, 0, len(c.activities))
	for _, a := range c.activities {
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].TaskType < activities[j].TaskType
	})

	return &ActivityRegistry{
		Version:     c.version,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities:  activities,
	}
}

// SchemaOf converts a typed schema into the generic map stored on an Activity.
func SchemaOf(schema interface{}) map[string]interface{} {
	if schema == nil {
		return map[string]interface{}{}
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}
