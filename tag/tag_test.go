package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalGroupsNil(t *testing.T) {
	fields, err := StatementNumber().Parse("12345")
	require.NoError(t, err)

	assert.Equal(t, "12345", fields["statement_number"])
	require.Contains(t, fields, "sequence_number")
	assert.Nil(t, fields["sequence_number"])
	assert.False(t, fields.Has("sequence_number"))
}

func TestParseMalformed(t *testing.T) {
	_, err := StatementNumber().Parse("not a number")

	var malformed *MalformedTagError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "28", malformed.Tag)
	assert.Equal(t, "not a number", malformed.Value)
}

func TestFieldsString(t *testing.T) {
	fields := Fields{"a": "x", "b": nil}
	assert.Equal(t, "x", fields.String("a"))
	assert.Equal(t, "", fields.String("b"))
	assert.Equal(t, "", fields.String("missing"))
	assert.True(t, fields.Has("a"))
	assert.False(t, fields.Has("b"))
}
