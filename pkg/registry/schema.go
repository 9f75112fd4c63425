// pkg/registry/schema.go
package registry

// ActivityRegistry is the on-disk catalogue of job-board task types.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one task type: its contract, where it is served and
// which events it emits or reacts to.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	HTTP                 *Route                 `json:"http,omitempty"`
	Publishes            []string               `json:"publishes,omitempty"`
	Consumes             []string               `json:"consumes,omitempty"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// Route is the REST endpoint serving an activity. Role is the session role
// the route requires: empty for public routes, "user" for any signed-in
// session, "admin" for the admin group.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Role   string `json:"role,omitempty"`
}

const (
	RolePublic = ""
	RoleUser   = "user"
	RoleAdmin  = "admin"
)
