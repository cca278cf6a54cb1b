// Package solver provides the HTTP exact-margin backend client. The heavy
// search runs in an external service; this client only ships the election
// over and maps every failure to margin.ErrUnavailable.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"irvaudit-core/election"
	"irvaudit-core/irv"
	"irvaudit-core/margin"
	"irvaudit/pkg/api"
)

// HTTP implements margin.Solver against a JSON-over-HTTP backend.
type HTTP struct {
	URL    string
	Rules  irv.Rules
	Client *http.Client
}

// New returns a client for the backend at url with a per-request timeout.
func New(url string, rules irv.Rules, timeout time.Duration) *HTTP {
	return &HTTP{
		URL:    url,
		Rules:  rules,
		Client: &http.Client{Timeout: timeout},
	}
}

var _ margin.Solver = (*HTTP)(nil)

// ExactMargin posts the flattened election and the decided result, and
// returns the backend's margin. Transport errors, non-200 statuses, decode
// failures, and explicit "unavailable" replies all wrap
// margin.ErrUnavailable so callers degrade to bounds.
func (h *HTTP) ExactMargin(ctx context.Context, e *election.Election, res irv.Result) (int, error) {
	ballots := []api.SolveBallotV1{}
	for _, ln := range e.Profile.Flatten() {
		ballots = append(ballots, api.SolveBallotV1{Weight: ln.Weight, Prefs: ln.Prefs})
	}
	reqBody := api.SolveRequestV1{
		Description:  e.Description,
		Candidates:   candidatesV1(e),
		Ballots:      ballots,
		Rules:        h.Rules.String(),
		Winner:       res.Winner,
		Eliminations: res.Eliminations,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("%w: encode request: %v", margin.ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", margin.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", margin.ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: solver returned %s", margin.ErrUnavailable, resp.Status)
	}

	var sr api.SolveResponseV1
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", margin.ErrUnavailable, err)
	}
	if sr.Status != api.SolveStatusOK {
		if sr.Detail != "" {
			return 0, fmt.Errorf("%w: %s", margin.ErrUnavailable, sr.Detail)
		}
		return 0, margin.ErrUnavailable
	}
	return sr.Margin, nil
}

func candidatesV1(e *election.Election) []api.CandidateV1 {
	out := make([]api.CandidateV1, len(e.Candidates))
	for i, c := range e.Candidates {
		out[i] = api.CandidateV1{ID: c.ID, Name: c.Name}
	}
	return out
}
