package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUTF8(t *testing.T) {
	text, err := Decode([]byte(":20:überweisung"), "")
	require.NoError(t, err)
	assert.Equal(t, ":20:überweisung", text)
}

func TestDecodePreferredLatin1(t *testing.T) {
	// 0xFC is ü in latin1 and invalid as a standalone UTF-8 byte.
	text, err := Decode([]byte{0xFC}, "latin1")
	require.NoError(t, err)
	assert.Equal(t, "ü", text)
}

func TestDecodeFallsBackPastUTF8(t *testing.T) {
	// Invalid UTF-8 input falls through to the cp852 fallback.
	text, err := Decode([]byte{0x88}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestDecodeUnknownPreferredStillDecodes(t *testing.T) {
	text, err := Decode([]byte("plain ascii"), "no-such-encoding")
	require.NoError(t, err)
	assert.Equal(t, "plain ascii", text)
}

func TestDecodeAsUnsupported(t *testing.T) {
	_, err := decodeAs([]byte("x"), "ebcdic")
	assert.Error(t, err)
}

func TestNormalizeEncoding(t *testing.T) {
	assert.Equal(t, "utf8", normalizeEncoding("UTF-8"))
	assert.Equal(t, "iso885915", normalizeEncoding("ISO_8859-15"))
	assert.Equal(t, "cp852", normalizeEncoding("cp852"))
}
