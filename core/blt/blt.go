// Package blt reads and writes ranked-ballot files in the .blt format:
// optional leading # comments, a "<candidates> <seats>" header, one
// weight-prefixed ballot line per ballot terminated by a 0 token, a bare 0
// line, the quoted candidate names, and a quoted description.
package blt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"irvaudit-core/ballot"
	"irvaudit-core/election"
)

// ParseError reports a malformed .blt file with its position.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

type parser struct {
	sc   *bufio.Scanner
	path string
	line int
}

func (p *parser) next() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	p.line++
	return p.sc.Text(), true
}

func (p *parser) errorf(format string, a ...any) error {
	return &ParseError{Path: p.path, Line: p.line, Msg: fmt.Sprintf(format, a...)}
}

// ParseFile reads and parses the .blt file at path.
func ParseFile(path string) (*election.Election, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a .blt stream. The path is used only in error messages.
func Parse(r io.Reader, path string) (*election.Election, error) {
	p := &parser{sc: bufio.NewScanner(r), path: path}
	p.sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	// Header, after any leading comments.
	var header string
	for {
		line, ok := p.next()
		if !ok {
			return nil, p.errorf("missing header")
		}
		if s := strings.TrimSpace(line); s != "" && !strings.HasPrefix(s, "#") {
			header = s
			break
		}
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, p.errorf("header %q: want \"<candidates> <seats>\"", header)
	}
	numCandidates, err := strconv.Atoi(fields[0])
	if err != nil || numCandidates < 1 {
		return nil, p.errorf("bad candidate count %q", fields[0])
	}
	seats, err := strconv.Atoi(fields[1])
	if err != nil || seats < 1 {
		return nil, p.errorf("bad seat count %q", fields[1])
	}

	// Ballot lines until the bare 0 terminator.
	var ballots []ballot.Ballot
	for {
		line, ok := p.next()
		if !ok {
			return nil, p.errorf("missing ballot terminator")
		}
		s := strings.TrimSpace(line)
		if s == "0" {
			break
		}
		b, err := p.parseBallot(s)
		if err != nil {
			return nil, err
		}
		ballots = append(ballots, b)
	}

	// Quoted candidate names, then the quoted description.
	names := make([]string, numCandidates)
	for i := range names {
		line, ok := p.next()
		if !ok {
			return nil, p.errorf("missing name for candidate %d", i+1)
		}
		names[i] = unquote(line)
	}
	description := ""
	if line, ok := p.next(); ok {
		description = unquote(line)
	}

	e, err := election.New(names, seats, description, ballots)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return e, nil
}

// parseBallot parses one "weight tok... 0" line. Tokens are a candidate id,
// "-" for an undervote, "a=b=c" for an overvote, or "-=-" for an overvote
// whose members were not recorded.
func (p *parser) parseBallot(s string) (ballot.Ballot, error) {
	// Some exports prefix each line with a parenthesized ballot id; drop it.
	if strings.HasPrefix(s, "(") {
		i := strings.IndexByte(s, ')')
		if i < 0 {
			return ballot.Ballot{}, p.errorf("unterminated ballot id prefix")
		}
		s = strings.TrimSpace(s[i+1:])
	}
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return ballot.Ballot{}, p.errorf("short ballot line %q", s)
	}
	weight, err := strconv.Atoi(tokens[0])
	if err != nil || weight < 1 {
		return ballot.Ballot{}, p.errorf("bad ballot weight %q", tokens[0])
	}
	if last := tokens[len(tokens)-1]; last != "0" {
		return ballot.Ballot{}, p.errorf("ballot line not terminated by 0 (got %q)", last)
	}

	b := ballot.Ballot{Weight: weight}
	for _, tok := range tokens[1 : len(tokens)-1] {
		r, err := parseRank(tok)
		if err != nil {
			return ballot.Ballot{}, p.errorf("%v", err)
		}
		b.Ranks = append(b.Ranks, r)
	}
	return b, nil
}

func parseRank(tok string) (ballot.Rank, error) {
	switch {
	case tok == "-":
		return ballot.Rank{}, nil
	case tok == "-=-":
		return ballot.Rank{Unknown: true}, nil
	case strings.ContainsRune(tok, '='):
		parts := strings.Split(tok, "=")
		r := ballot.Rank{Candidates: make([]int, len(parts))}
		for i, part := range parts {
			c, err := strconv.Atoi(part)
			if err != nil || c < 1 {
				return ballot.Rank{}, fmt.Errorf("bad overvote member %q in %q", part, tok)
			}
			r.Candidates[i] = c
		}
		return r, nil
	default:
		c, err := strconv.Atoi(tok)
		if err != nil || c < 1 {
			return ballot.Rank{}, fmt.Errorf("bad rank token %q", tok)
		}
		return ballot.Rank{Candidates: []int{c}}, nil
	}
}

func unquote(line string) string {
	s := strings.TrimSpace(line)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// WriteFile writes the election to path in simplified .blt form.
func WriteFile(path string, e *election.Election) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, e); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write emits a simplified .blt: the cleaned profile flattened back into
// weighted ballot lines, each padded with "-" up to the election's rank
// count. Raw overvote and undervote positions do not survive a round trip;
// the cleaned preference orders do.
func Write(w io.Writer, e *election.Election) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(e.Candidates), e.Seats)
	for _, ln := range e.Profile.Flatten() {
		fmt.Fprintf(bw, "%d", ln.Weight)
		for _, c := range ln.Prefs {
			fmt.Fprintf(bw, " %d", c)
		}
		for i := len(ln.Prefs); i < e.Ranks; i++ {
			bw.WriteString(" -")
		}
		bw.WriteString(" 0\n")
	}
	bw.WriteString("0\n")
	for _, c := range e.Candidates {
		fmt.Fprintf(bw, "\"%s\"\n", c.Name)
	}
	fmt.Fprintf(bw, "\"%s\"\n", e.Description)
	return bw.Flush()
}
