// pkg/api/report_v1.go
package api

// CandidateV1 pairs a dense 1-based candidate id with its display name.
type CandidateV1 struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TallyV1 is one elimination round's totals. Map keys are candidate ids.
type TallyV1 struct {
	Round     int         `json:"round"`
	Votes     map[int]int `json:"votes"`
	Exhausted int         `json:"exhausted"`
}

// WarningV1 records a batch-elimination tie that was resolved by the
// deterministic lowest-id fallback.
type WarningV1 struct {
	Round      int   `json:"round"`
	Tied       []int `json:"tied"`
	Eliminated int   `json:"eliminated"`
}

// ResultV1 is the stable JSON schema for one IRV count.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ResultV1 struct {
	Rules        string      `json:"rules"`
	Winner       int         `json:"winner"`
	WinnerName   string      `json:"winner_name"`
	Rounds       []TallyV1   `json:"rounds"`
	Eliminations [][]int     `json:"eliminations"`
	Warnings     []WarningV1 `json:"warnings,omitempty"`
}

// MarginV1 carries the margin bounds in ballot changes (one altered ballot
// counts twice: a removal plus an addition).
type MarginV1 struct {
	SimpleLower    int  `json:"simple_lower"`
	Lower          int  `json:"lower"`
	Upper          int  `json:"upper,omitempty"`
	UpperUnbounded bool `json:"upper_unbounded,omitempty"`
	Exact          *int `json:"exact,omitempty"`
}

// CondorcetV1 summarizes the pairwise analysis. Pairwise[i][j] is the ballot
// weight preferring candidate i+1 over candidate j+1.
type CondorcetV1 struct {
	HasWinner     bool    `json:"has_winner"`
	Winner        int     `json:"winner,omitempty"`
	WinnerName    string  `json:"winner_name,omitempty"`
	AgreesWithIRV bool    `json:"agrees_with_irv,omitempty"`
	LowerBound    *int    `json:"lower_bound,omitempty"`
	Pairwise      [][]int `json:"pairwise,omitempty"`
}

// ReportV1 is the stable schema for a full audit report.
type ReportV1 struct {
	RunID       string        `json:"run_id"`
	GeneratedAt string        `json:"generated_at"` // RFC 3339, UTC
	Source      string        `json:"source,omitempty"`
	Description string        `json:"description,omitempty"`
	Candidates  []CandidateV1 `json:"candidates"`
	Ballots     int           `json:"ballots"`
	Result      ResultV1      `json:"result"`
	Margin      *MarginV1     `json:"margin,omitempty"`
	Condorcet   *CondorcetV1  `json:"condorcet,omitempty"`
}
