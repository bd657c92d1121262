package xmltree

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalIndent(t *testing.T) {
	v, err := ParseString(`<doc><item>hi</item><l><x>1</x><x>2</x></l><e/><v yea="1"/></doc>`)
	require.NoError(t, err)

	out, err := MarshalIndent(v)
	require.NoError(t, err)

	expected := strings.Join([]string{
		`{`,
		` "doc": {`,
		`  "item": "hi",`,
		`  "l": [`,
		`   {`,
		`    "x": "1"`,
		`   },`,
		`   {`,
		`    "x": "2"`,
		`   }`,
		`  ],`,
		`  "e": "",`,
		`  "v": {`,
		`   "attributes": {`,
		`    "yea": "1"`,
		`   },`,
		`   "text": null`,
		`  }`,
		` }`,
		`}`,
	}, "\n")
	require.Equal(t, expected, string(out))
}

func TestEncodeEscapes(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: `plain`, expected: `"plain"`},
		{in: `say "aye"`, expected: `"say \"aye\""`},
		{in: `a\b`, expected: `"a\\b"`},
		{in: "line\nbreak\ttab", expected: `"line\nbreak\ttab"`},
		{in: "Peña", expected: `"Pe\u00f1a"`},
		{in: "\x01", expected: `"\u0001"`},
		{in: "😀", expected: `"\ud83d\ude00"`},
		{in: "<a href=\"/x\">&amp;</a>", expected: `"<a href=\"/x\">&amp;</a>"`},
	}

	for _, test := range testCases {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, Scalar(test.in), ""))
		require.Equal(t, test.expected, buf.String())

		// The escaped form must stay valid JSON for the same string.
		var back string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		require.Equal(t, test.in, back)
	}
}

func TestEncodeEmptyContainers(t *testing.T) {
	require.Equal(t, `{}`, compact(t, NewObject()))
	require.Equal(t, `[]`, compact(t, List{}))
	require.Equal(t, `{"attributes": {}, "text": null}`, compact(t, Attributed{}))

	out, err := MarshalIndent(NewObject())
	require.NoError(t, err)
	require.Equal(t, `{}`, string(out))
}

func TestStandardMarshaler(t *testing.T) {
	v, err := ParseString(`<a><z>1</z><b>2</b></a>`)
	require.NoError(t, err)

	out, err := json.Marshal(map[string]any{"document": v})
	require.NoError(t, err)
	require.Equal(t, `{"document":{"a":{"z":"1","b":"2"}}}`, string(out))
}
