package congress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionForYear(t *testing.T) {
	testCases := []struct {
		year     int
		expected Session
	}{
		{year: 2019, expected: Session{Year: 2019, Congress: 116, Number: 1}},
		{year: 2020, expected: Session{Year: 2020, Congress: 116, Number: 2}},
		{year: 2021, expected: Session{Year: 2021, Congress: 117, Number: 1}},
		{year: 1789, expected: Session{Year: 1789, Congress: 1, Number: 1}},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SessionForYear(test.year))
	}
	require.Equal(t, "116th Congress, session 2", SessionForYear(2020).String())
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 112: "112th", 113: "113th", 116: "116th", 121: "121st",
	}
	for n, expected := range cases {
		require.Equal(t, expected, Ordinal(n))
	}
}

func TestDays(t *testing.T) {
	days := Days(2019, time.Date(2019, time.March, 2, 15, 0, 0, 0, time.UTC))
	require.Len(t, days, 31+28+2)
	require.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), days[0])
	require.Equal(t, time.Date(2019, time.March, 2, 0, 0, 0, 0, time.UTC), days[len(days)-1])

	require.Len(t, Days(2020, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)), 366)
	require.Empty(t, Days(2030, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestURLs(t *testing.T) {
	s := SessionForYear(2019)

	require.Equal(t, "https://clerk.house.gov/evs/2019/roll007.xml", HouseRollCallURL(2019, 7))
	require.Equal(t, "https://clerk.house.gov/evs/2019/roll701.xml", HouseRollCallURL(2019, 701))
	require.Equal(t,
		"https://www.senate.gov/legislative/LIS/roll_call_votes/vote1161/vote_116_1_00042.xml",
		SenateRollCallURL(s, 42))
	require.Equal(t,
		"https://www.congress.gov/116/crec/2019/01/03/CREC-2019-01-03.pdf",
		RecordPDFURL(s, time.Date(2019, time.January, 3, 0, 0, 0, 0, time.UTC)))
	require.Equal(t,
		"https://www.govinfo.gov/content/pkg/PLAW-116publ5/pdf/PLAW-116publ5.pdf",
		PublicLawPDFURL("116", "5"))

	require.Equal(t,
		"https://www.senate.gov/legislative/LIS/roll_call_lists/roll_call_vote_cfm.cfm?congress=116&session=1&vote=00042",
		SenateRollCallPageURL(s, 42))
	require.Equal(t, "https://www.congress.gov/bill/116th-congress/house-bill/1/text", BillTextURL(116, "house-bill", "1"))
	require.Equal(t, "https://www.congress.gov/bill/121st-congress/senate-bill/9/text", BillTextURL(121, "senate-bill", "9"))
	require.Equal(t, "https://www.congress.gov/nomination/116th-congress/12", NominationURL(116, "12"))
	require.Equal(t, "https://www.congress.gov/amendment/116th-congress/senate-amendment/5", SenateAmendmentURL(116, "5"))

	require.Equal(t, "https://www.congress.gov/member/x", Absolute("member/x"))
	require.Equal(t, "https://www.congress.gov/member/x", Absolute("/member/x"))
	require.Equal(t, "https://example.com", Absolute("https://example.com"))
	require.Equal(t, "", Absolute(""))
}

func TestBillTypes(t *testing.T) {
	hr, ok := LookupBillType("house_bills")
	require.True(t, ok)
	require.Equal(t, "https://www.congress.gov/bill/116th-congress/house-bill/3", hr.URL(116, 3))
	require.Equal(t, "House_bills_2019.json", hr.Filename(2019))
	require.Equal(t, "House_bills_2019.html", hr.PageName(2019))

	nom, ok := LookupBillType("nominations")
	require.True(t, ok)
	require.Equal(t, "https://www.congress.gov/nomination/116th-congress/12", nom.URL(116, 12))

	_, ok = LookupBillType("treaties")
	require.False(t, ok)

	all := BillTypes()
	require.Len(t, all, 7)
	require.Equal(t, "house_bills", all[0].Key)
}
