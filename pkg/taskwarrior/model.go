package taskwarrior

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
)

// Task is the subset of a `task export` record the importer reads.
type Task struct {
	UUID        string   `json:"uuid"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Project     string   `json:"project,omitempty"`
	Priority    string   `json:"priority,omitempty"` // H, M or L
	Tags        []string `json:"tags,omitempty"`
	// Est is the estimate UDA (uda.estimate.label=est), a duration such as PT1H.
	Est string `json:"est,omitempty"`
}
