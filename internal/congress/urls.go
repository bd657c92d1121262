package congress

import (
	"fmt"
	"sort"
	"time"
)

const (
	houseClerkBase  = "https://clerk.house.gov/evs"
	senateVotesBase = "https://www.senate.gov/legislative/LIS/roll_call_votes"
	congressGovBase = "https://www.congress.gov"
	govInfoBase     = "https://www.govinfo.gov/content/pkg"
)

// HouseRollCallURL is the House Clerk XML document for roll call n of year.
func HouseRollCallURL(year, n int) string {
	return fmt.Sprintf("%s/%d/roll%03d.xml", houseClerkBase, year, n)
}

// SenateRollCallURL is the Senate LIS XML document for vote n of a session.
func SenateRollCallURL(s Session, n int) string {
	return fmt.Sprintf("%s/vote%d%d/vote_%d_%d_%05d.xml", senateVotesBase, s.Congress, s.Number, s.Congress, s.Number, n)
}

// SenateRollCallPageURL is the human-readable page of Senate vote n.
func SenateRollCallPageURL(s Session, n int) string {
	return fmt.Sprintf("https://www.senate.gov/legislative/LIS/roll_call_lists/roll_call_vote_cfm.cfm?congress=%d&session=%d&vote=%05d",
		s.Congress, s.Number, n)
}

// BillTextURL is the congress.gov text page of a bill; kind is the path
// segment such as "house-bill" or "senate-joint-resolution".
func BillTextURL(congress int, kind, number string) string {
	return fmt.Sprintf("%s/bill/%s-congress/%s/%s/text", congressGovBase, Ordinal(congress), kind, number)
}

// NominationURL is the congress.gov page of nomination PN<number>.
func NominationURL(congress int, number string) string {
	return fmt.Sprintf("%s/nomination/%s-congress/%s", congressGovBase, Ordinal(congress), number)
}

// SenateAmendmentURL is the congress.gov page of a Senate amendment.
func SenateAmendmentURL(congress int, number string) string {
	return fmt.Sprintf("%s/amendment/%s-congress/senate-amendment/%s", congressGovBase, Ordinal(congress), number)
}

// RecordPDFURL is the daily Congressional Record PDF for day.
func RecordPDFURL(s Session, day time.Time) string {
	d := day.Format("2006-01-02")
	return fmt.Sprintf("%s/%d/crec/%s/CREC-%s.pdf", congressGovBase, s.Congress, day.Format("2006/01/02"), d)
}

// PublicLawPDFURL is the govinfo PDF of public law congress-number.
func PublicLawPDFURL(congress, number string) string {
	return fmt.Sprintf("%s/PLAW-%spubl%s/pdf/PLAW-%spubl%s.pdf", govInfoBase, congress, number, congress, number)
}

// Absolute resolves a congress.gov relative link.
func Absolute(path string) string {
	if path == "" {
		return ""
	}
	if len(path) >= 4 && path[:4] == "http" {
		return path
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return congressGovBase + path
}

// BillType describes one family of congress.gov legislation pages.
type BillType struct {
	Key          string
	Path         string
	FilenameBase string
	Title        string
	Nomination   bool
}

var billTypes = map[string]BillType{
	"house_bills": {
		Key: "house_bills", Path: "house-bill",
		FilenameBase: "House_bills_", Title: "House Bills",
	},
	"house_resolutions": {
		Key: "house_resolutions", Path: "house-resolution",
		FilenameBase: "House_resolutions_", Title: "House Resolutions",
	},
	"house_joint_resolutions": {
		Key: "house_joint_resolutions", Path: "house-joint-resolution",
		FilenameBase: "House_joint_resolutions_", Title: "House Joint Resolutions",
	},
	"senate_bills": {
		Key: "senate_bills", Path: "senate-bill",
		FilenameBase: "Senate_bills_", Title: "Senate Bills",
	},
	"senate_resolutions": {
		Key: "senate_resolutions", Path: "senate-resolution",
		FilenameBase: "Senate_resolutions_", Title: "Senate Resolutions",
	},
	"senate_joint_resolutions": {
		Key: "senate_joint_resolutions", Path: "senate-joint-resolution",
		FilenameBase: "Senate_joint_resolutions_", Title: "Senate Joint Resolutions",
	},
	"nominations": {
		Key: "nominations", FilenameBase: "Nominations_",
		Title: "Nominations", Nomination: true,
	},
}

// LookupBillType returns the bill type registered under key.
func LookupBillType(key string) (BillType, bool) {
	bt, ok := billTypes[key]
	return bt, ok
}

// BillTypes returns every known bill type ordered by key.
func BillTypes() []BillType {
	out := make([]BillType, 0, len(billTypes))
	for _, bt := range billTypes {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// URL is the congress.gov page of item number n in the given Congress.
func (bt BillType) URL(congress, n int) string {
	if bt.Nomination {
		return fmt.Sprintf("%s/nomination/%s-congress/%d", congressGovBase, Ordinal(congress), n)
	}
	return fmt.Sprintf("%s/bill/%s-congress/%s/%d", congressGovBase, Ordinal(congress), bt.Path, n)
}

// Filename is the archive name of the collection for year.
func (bt BillType) Filename(year int) string {
	return fmt.Sprintf("%s%d.json", bt.FilenameBase, year)
}

// PageName is the report file name for year.
func (bt BillType) PageName(year int) string {
	return fmt.Sprintf("%s%d.html", bt.FilenameBase, year)
}
