// Package votes collects House and Senate roll-call documents and
// summarizes them for reports.
package votes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baxromumarov/congress-tracker/internal/congress"
)

type Chamber string

const (
	House  Chamber = "house"
	Senate Chamber = "senate"
)

func ParseChamber(s string) (Chamber, error) {
	switch Chamber(strings.ToLower(strings.TrimSpace(s))) {
	case House:
		return House, nil
	case Senate:
		return Senate, nil
	}
	return "", fmt.Errorf("votes: unknown chamber %q", s)
}

// RootElement is the top-level element of the chamber's vote documents.
// Anything else served at a vote URL is an error page.
func (c Chamber) RootElement() string {
	if c == Senate {
		return "roll_call_vote"
	}
	return "rollcall-vote"
}

// Filename is the archive name of vote n.
func (c Chamber) Filename(n int) string {
	if c == Senate {
		return fmt.Sprintf("vote%05d.json", n)
	}
	return fmt.Sprintf("roll%d.json", n)
}

// FilePrefix is the prefix shared by the chamber's archive names.
func (c Chamber) FilePrefix() string {
	if c == Senate {
		return "vote"
	}
	return "roll"
}

// NumberOf extracts the vote number from an archive name.
func (c Chamber) NumberOf(filename string) (int, bool) {
	rest, ok := strings.CutPrefix(filename, c.FilePrefix())
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".json")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// URL is the source document of vote n in session s.
func (c Chamber) URL(s congress.Session, n int) string {
	if c == Senate {
		return congress.SenateRollCallURL(s, n)
	}
	return congress.HouseRollCallURL(s.Year, n)
}

func (c Chamber) Title() string {
	if c == Senate {
		return "Senate"
	}
	return "House of Representatives"
}
