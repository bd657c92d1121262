package bills

import (
	"sort"
	"strings"
)

// Counts summarizes where the collected items of a year stand.
type Counts struct {
	// Total sums the last item number of every collection.
	Total       int            `json:"total"`
	PerType     map[string]int `json:"per_type"`
	BecameLaw   int            `json:"became_law"`
	Confirmed   int            `json:"confirmed"`
	Judges      int            `json:"judges"`
	Army        int            `json:"army"`
	Navy        int            `json:"navy"`
	MarineCorps int            `json:"marine_corps"`
	AirForce    int            `json:"air_force"`
	Passed      int            `json:"passed"`
	Referred    int            `json:"referred"`
	Calendar    int            `json:"calendar"`
	Introduced  int            `json:"introduced"`

	Laws          []string `json:"laws,omitempty"`
	Confirmations []string `json:"confirmations,omitempty"`
}

// Tally counts statuses across collections keyed by name. Items with a
// tracker status are classified by it; the rest by their latest action.
func Tally(collections map[string]Collection) Counts {
	counts := Counts{PerType: map[string]int{}}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := collections[name].BillData
		counts.PerType[name] = data.LastBill
		counts.Total += data.LastBill
		for _, b := range data.Bills {
			if b.Status != "" {
				counts.byStatus(b)
				continue
			}
			if b.LatestAction != "" {
				counts.byAction(b)
			}
		}
	}
	return counts
}

func (c *Counts) byStatus(b Bill) {
	switch s := b.Status; {
	case strings.Contains(s, "Agreed to"):
		c.Passed++
	case strings.Contains(s, "Became Law"):
		c.BecameLaw++
		c.Laws = append(c.Laws, b.Title)
	case strings.Contains(s, "Introduced"):
		c.Introduced++
	case strings.Contains(s, "referred to"), strings.Contains(s, "Referred to"):
		c.Referred++
	case strings.Contains(s, "Calendar"):
		c.Calendar++
	}
}

func (c *Counts) byAction(b Bill) {
	switch a := b.LatestAction; {
	case strings.Contains(a, "referred to"):
		c.Referred++
	case strings.Contains(a, "Confirmed"):
		c.Confirmed++
		c.Confirmations = append(c.Confirmations, b.Title)
		switch t := b.Title; {
		case strings.Contains(t, "for The Judiciary"):
			c.Judges++
		case strings.Contains(t, "Air Force"):
			c.AirForce++
		case strings.Contains(t, "Army"):
			c.Army++
		case strings.Contains(t, "Navy"):
			c.Navy++
		case strings.Contains(t, "Marine Corps"):
			c.MarineCorps++
		}
	case strings.Contains(a, "Calendar"):
		c.Calendar++
	}
}
