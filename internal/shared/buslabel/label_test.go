package buslabel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		want    string
	}{
		{name: "plain", segment: "plain", want: "plain"},
		{name: "dot", segment: "foo_2ebar", want: "foo.bar"},
		{name: "underscore", segment: "app_5f1", want: "app_1"},
		{name: "uppercase hex", segment: "a_2Eb", want: "a.b"},
		{name: "app id", segment: "com_2eendlessm_2eanimals_2een", want: "com.endlessm.animals.en"},
		{name: "empty label", segment: "_", want: ""},
		{name: "trailing escape", segment: "x_2d", want: "x-"},
		{name: "only escapes", segment: "_2f_2f", want: "//"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.segment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		offset  int
	}{
		{name: "too short", segment: "abc_2", offset: 3},
		{name: "dangling underscore", segment: "abc_", offset: 3},
		{name: "non hex", segment: "a_zzb", offset: 1},
		{name: "second digit non hex", segment: "a_2gb", offset: 1},
		{name: "double underscore", segment: "a__", offset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.segment)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tt.segment, decodeErr.Segment)
			assert.Equal(t, tt.offset, decodeErr.Offset)
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "foo_2ebar", Encode("foo.bar"))
	assert.Equal(t, "app_5f1", Encode("app_1"))
	assert.Equal(t, "plain", Encode("plain"))
	assert.Equal(t, "_", Encode(""))
	assert.Equal(t, "a_20b_2fc", Encode("a b/c"))
}

func TestRoundTrip(t *testing.T) {
	ids := []string{
		"",
		"plain",
		"com.endlessm.animals.en",
		"app_1",
		"_",
		"__",
		"with space",
		"ünïcödé",
		"slashes/and-dashes",
		"\x00\x01\xff",
	}

	for _, id := range ids {
		segment := Encode(id)
		assert.True(t, IsValid(segment), "segment %q should be valid", segment)

		decoded, err := Decode(segment)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestRoundTripAllBytes(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	decoded, err := Decode(Encode(string(all)))
	require.NoError(t, err)
	assert.Equal(t, string(all), decoded)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("app_5f1"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("a.b"))
	assert.False(t, IsValid("a_zz"))
}

func TestObjectPathAndNode(t *testing.T) {
	root := "/com/endlessm/EknServices3/SearchProviderV3"

	path := ObjectPath(root, "com.endlessm.animals.en")
	assert.Equal(t, root+"/com_2eendlessm_2eanimals_2een", path)

	node, ok := Node(root, path)
	require.True(t, ok)
	assert.Equal(t, "com_2eendlessm_2eanimals_2een", node)

	node, ok = Node(root+"/", path+"/deeper")
	require.True(t, ok)
	assert.Equal(t, "com_2eendlessm_2eanimals_2een", node)

	_, ok = Node(root, root)
	assert.False(t, ok)

	_, ok = Node(root, "/somewhere/else")
	assert.False(t, ok)

	node, ok = Node("/", "/child")
	require.True(t, ok)
	assert.Equal(t, "child", node)
}
