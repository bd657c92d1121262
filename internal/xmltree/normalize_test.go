package xmltree

import (
	"strings"
	"sync"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/require"
)

func compact(t *testing.T, v Value) string {
	t.Helper()
	out, err := Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestParseDocument(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single root",
			input:    `<doc><item>hi</item></doc>`,
			expected: `{"doc": {"item": "hi"}}`,
		},
		{
			name:     "root attributes are dropped",
			input:    `<doc xmlns="urn:x" id="1"><item>hi</item></doc>`,
			expected: `{"doc": {"item": "hi"}}`,
		},
		{
			name:     "root text",
			input:    `<doc lang="en">hi</doc>`,
			expected: `{"doc": "hi"}`,
		},
		{
			name:     "declaration and whitespace",
			input:    "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<a>\n  <b>1</b>\n</a>\n",
			expected: `{"a": {"b": "1"}}`,
		},
		{
			name:     "comments skipped",
			input:    `<!-- generated --><a><!-- note --><b>1</b><c>2</c></a>`,
			expected: `{"a": {"b": "1", "c": "2"}}`,
		},
		{
			name:     "empty root",
			input:    `<a/>`,
			expected: `{"a": ""}`,
		},
		{
			name:     "empty child",
			input:    `<a><e/><f></f><g>   </g></a>`,
			expected: `{"a": {"e": "", "f": "", "g": ""}}`,
		},
		{
			name:     "distinct children keep document order",
			input:    `<a><z>1</z><m>2</m><b>3</b></a>`,
			expected: `{"a": {"z": "1", "m": "2", "b": "3"}}`,
		},
		{
			name:     "repeated group then unrelated tag",
			input:    `<a><x>1</x><x>2</x><y>3</y></a>`,
			expected: `{"a": [{"x": "1"}, {"x": "2"}, {"y": "3"}]}`,
		},
		{
			name:     "nested branches",
			input:    `<a><m><n>1</n><o>2</o></m><p>3</p></a>`,
			expected: `{"a": {"m": {"n": "1", "o": "2"}, "p": "3"}}`,
		},
		{
			name:     "repeated branches",
			input:    `<a><m><n>1</n></m><m><n>2</n></m></a>`,
			expected: `{"a": [{"m": {"n": "1"}}, {"m": {"n": "2"}}]}`,
		},
		{
			name:     "attributed empty element",
			input:    `<a><vote yea="10"/></a>`,
			expected: `{"a": {"vote": {"attributes": {"yea": "10"}, "text": null}}}`,
		},
		{
			name:     "attributed text",
			input:    `<a><legis-num unit="bill">H R 1</legis-num></a>`,
			expected: `{"a": {"legis-num": {"attributes": {"unit": "bill"}, "text": "H R 1"}}}`,
		},
		{
			name:     "attributes suppress recursion",
			input:    `<a><m id="1" kind="x"><n>2</n></m></a>`,
			expected: `{"a": {"m": {"attributes": {"id": "1", "kind": "x"}, "text": null}}}`,
		},
		{
			name:     "cdata text",
			input:    `<a><b><![CDATA[x < y]]></b></a>`,
			expected: `{"a": {"b": "x < y"}}`,
		},
		{
			name:     "text preserved verbatim",
			input:    `<a><b>  On Passage </b></a>`,
			expected: `{"a": {"b": "  On Passage "}}`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			v, err := ParseString(test.input)
			require.NoError(t, err)
			require.Equal(t, test.expected, compact(t, v))
		})
	}
}

func TestGroupingStartsOnce(t *testing.T) {
	// Once a parent is in list mode, every later child lands in the
	// same list, including a second repeated tag.
	v, err := ParseString(`<a><x>1</x><x>2</x><z>3</z><z>4</z></a>`)
	require.NoError(t, err)
	require.Equal(t, `{"a": [{"x": "1"}, {"x": "2"}, {"z": "3"}, {"z": "4"}]}`, compact(t, v))

	// Members placed before the repeat are not part of the list.
	v, err = ParseString(`<a><y>0</y><x>1</x><x>2</x></a>`)
	require.NoError(t, err)
	require.Equal(t, `{"a": [{"x": "1"}, {"x": "2"}]}`, compact(t, v))
}

func TestGroupingCountsAttributedAndLeaves(t *testing.T) {
	v, err := ParseString(`<a><r id="1"/><r id="2">t</r><s>3</s></a>`)
	require.NoError(t, err)
	require.Equal(t,
		`{"a": [{"r": {"attributes": {"id": "1"}, "text": null}}, {"r": {"attributes": {"id": "2"}, "text": "t"}}, {"s": "3"}]}`,
		compact(t, v))
}

func TestNormalizeNode(t *testing.T) {
	doc, err := xmlquery.Parse(strings.NewReader(`<a><b>1</b><c><d>2</d></c></a>`))
	require.NoError(t, err)

	a := xmlquery.FindOne(doc, "//a")
	require.NotNil(t, a)
	require.Equal(t, `{"b": "1", "c": {"d": "2"}}`, compact(t, Normalize(a)))

	b := xmlquery.FindOne(doc, "//b")
	require.Equal(t, Scalar(""), Normalize(b))

	require.Equal(t, Scalar(""), Normalize(nil))
	require.Equal(t, `{"a": {"b": "1", "c": {"d": "2"}}}`, compact(t, NormalizeDocument(a)))
}

func TestNormalizeDocumentNeverScalar(t *testing.T) {
	v := NormalizeDocument(nil)
	require.Equal(t, ObjectKind, v.Kind())
	require.Equal(t, 0, v.(*Object).Len())
}

func TestParseMalformed(t *testing.T) {
	_, err := ParseString(`<a><b></a>`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "xmltree: parse failed")
}

func TestNormalizeConcurrent(t *testing.T) {
	const doc = `<rollcall-vote><vote-data><recorded-vote><legislator party="D">A</legislator><vote>Yea</vote></recorded-vote><recorded-vote><legislator party="R">B</legislator><vote>Nay</vote></recorded-vote></vote-data></rollcall-vote>`
	expected := `{"rollcall-vote": {"vote-data": [{"recorded-vote": {"legislator": {"attributes": {"party": "D"}, "text": "A"}, "vote": "Yea"}}, {"recorded-vote": {"legislator": {"attributes": {"party": "R"}, "text": "B"}, "vote": "Nay"}}]}}`

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := ParseString(doc)
			if err != nil {
				return
			}
			out, _ := Marshal(v)
			results[i] = string(out)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, expected, got)
	}
}
