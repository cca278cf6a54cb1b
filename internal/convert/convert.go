// Package convert turns jurisdiction ballot-image exports (fixed-width
// ballot-image plus master-lookup files) into .blt form. Raw undervote and
// overvote positions are preserved as "-" and "-=-" tokens; cleaning is the
// counting tools' job.
package convert

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Master lookup record layout (fixed-width):
//
//	[0:10)  record type ("Candidate " or "Contest   ")
//	[10:17) record id
//	[17:67) name / description
//	[67:74) candidate display order (Candidate records)
//	[74:81) contest id (Candidate records)
type Master struct {
	ContestID   int
	Description string
	byID        map[int]masterCandidate
}

type masterCandidate struct {
	order int
	name  string
}

// Names returns candidate names in display order, which is also the dense
// .blt candidate numbering.
func (m *Master) Names() []string {
	cands := make([]masterCandidate, 0, len(m.byID))
	for _, c := range m.byID {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].order < cands[j].order })
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.name
	}
	return names
}

// ParseMaster reads a master lookup file. All Candidate records must belong
// to a single contest.
func ParseMaster(r io.Reader) (*Master, error) {
	m := &Master{ContestID: -1, byID: map[int]masterCandidate{}}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if len(text) < 10 {
			continue
		}
		switch text[0:10] {
		case "Candidate ":
			if len(text) < 81 {
				return nil, fmt.Errorf("master line %d: short candidate record", line)
			}
			cid, err := field(text, 10, 17)
			if err != nil {
				return nil, fmt.Errorf("master line %d: %v", line, err)
			}
			order, err := field(text, 67, 74)
			if err != nil {
				return nil, fmt.Errorf("master line %d: %v", line, err)
			}
			contest, err := field(text, 74, 81)
			if err != nil {
				return nil, fmt.Errorf("master line %d: %v", line, err)
			}
			if m.ContestID == -1 {
				m.ContestID = contest
			} else if m.ContestID != contest {
				return nil, fmt.Errorf("master line %d: candidate for contest %d, want %d", line, contest, m.ContestID)
			}
			m.byID[cid] = masterCandidate{order: order, name: strings.TrimSpace(text[17:67])}
		case "Contest   ":
			if len(text) < 67 {
				return nil, fmt.Errorf("master line %d: short contest record", line)
			}
			m.Description = strings.TrimSpace(text[17:67])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(m.byID) == 0 {
		return nil, fmt.Errorf("master file has no candidate records")
	}
	return m, nil
}

// Ballot-image record layout (fixed-width):
//
//	[0:7)   contest id
//	[7:16)  voter id
//	[26:33) precinct id
//	[33:36) rank (1-based)
//	[36:43) candidate id (0 for under/overvote positions)
//	[43]    overvote flag
//	[44]    undervote flag
type ballotKey struct {
	precinct int
	voter    int
}

// Convert reads a ballot image against its master lookup and writes the .blt.
func Convert(image io.Reader, m *Master, w io.Writer) error {
	votes := map[ballotKey]map[int]string{}
	overvotes := map[ballotKey]int{}

	sc := bufio.NewScanner(image)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if len(text) < 45 {
			return fmt.Errorf("image line %d: short record", line)
		}
		contest, err := field(text, 0, 7)
		if err != nil {
			return fmt.Errorf("image line %d: %v", line, err)
		}
		if contest != m.ContestID {
			return fmt.Errorf("image line %d: contest %d, want %d", line, contest, m.ContestID)
		}
		voter, err := field(text, 7, 16)
		if err != nil {
			return fmt.Errorf("image line %d: %v", line, err)
		}
		precinct, err := field(text, 26, 33)
		if err != nil {
			return fmt.Errorf("image line %d: %v", line, err)
		}
		rank, err := field(text, 33, 36)
		if err != nil {
			return fmt.Errorf("image line %d: %v", line, err)
		}
		if rank < 1 {
			return fmt.Errorf("image line %d: rank %d", line, rank)
		}
		cid, err := field(text, 36, 43)
		if err != nil {
			return fmt.Errorf("image line %d: %v", line, err)
		}

		key := ballotKey{precinct: precinct, voter: voter}
		if votes[key] == nil {
			votes[key] = map[int]string{}
		}
		if _, dup := votes[key][rank]; dup {
			return fmt.Errorf("image line %d: duplicate rank %d for voter %d", line, rank, voter)
		}
		// Everything at or past an overvoted rank is unrecorded.
		if ov, ok := overvotes[key]; ok && rank >= ov {
			continue
		}

		switch {
		case cid == 0 && text[43] == '1':
			votes[key][rank] = "-=-"
			overvotes[key] = rank
		case cid == 0 && text[44] == '1':
			votes[key][rank] = "-"
		case cid == 0:
			return fmt.Errorf("image line %d: empty position with no flag", line)
		case text[43] != '0' || text[44] != '0':
			return fmt.Errorf("image line %d: candidate %d with under/overvote flag", line, cid)
		default:
			cand, ok := m.byID[cid]
			if !ok {
				return fmt.Errorf("image line %d: unknown candidate id %d", line, cid)
			}
			votes[key][rank] = strconv.Itoa(cand.order)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	return writeBLT(w, m, votes)
}

func writeBLT(w io.Writer, m *Master, votes map[ballotKey]map[int]string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# converted from ballot image, contest %d\n", m.ContestID)
	fmt.Fprintf(bw, "%d 1\n", len(m.byID))

	keys := make([]ballotKey, 0, len(votes))
	for k := range votes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].precinct != keys[j].precinct {
			return keys[i].precinct < keys[j].precinct
		}
		return keys[i].voter < keys[j].voter
	})
	for _, k := range keys {
		v := votes[k]
		ranks := make([]int, 0, len(v))
		for r := range v {
			ranks = append(ranks, r)
		}
		sort.Ints(ranks)
		bw.WriteString("1")
		for _, r := range ranks {
			bw.WriteString(" " + v[r])
		}
		bw.WriteString(" 0\n")
	}
	bw.WriteString("0\n")
	for _, name := range m.Names() {
		fmt.Fprintf(bw, "\"%s\"\n", name)
	}
	fmt.Fprintf(bw, "\"%s\"\n", m.Description)
	return bw.Flush()
}

func field(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s[lo:hi]))
	if err != nil {
		return 0, fmt.Errorf("bad numeric field %q", s[lo:hi])
	}
	return v, nil
}
