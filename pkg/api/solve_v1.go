// pkg/api/solve_v1.go
package api

// SolveBallotV1 is one distinct cleaned preference order with its weight.
type SolveBallotV1 struct {
	Weight int   `json:"weight"`
	Prefs  []int `json:"prefs"`
}

// SolveRequestV1 is the payload posted to an exact-margin solver backend.
// The elimination order lets the backend warm-start its search.
type SolveRequestV1 struct {
	RunID        string          `json:"run_id,omitempty"`
	Description  string          `json:"description,omitempty"`
	Candidates   []CandidateV1   `json:"candidates"`
	Ballots      []SolveBallotV1 `json:"ballots"`
	Rules        string          `json:"rules"`
	Winner       int             `json:"winner"`
	Eliminations [][]int         `json:"eliminations"`
}

// Solve response statuses.
const (
	SolveStatusOK          = "ok"
	SolveStatusUnavailable = "unavailable"
)

// SolveResponseV1 is the solver backend's reply.
type SolveResponseV1 struct {
	Status string `json:"status"`
	Margin int    `json:"margin,omitempty"`
	Detail string `json:"detail,omitempty"`
}
