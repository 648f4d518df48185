package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `:20:1234567
:25:NL69INGB0123456789
:28C:100/1
:60F:C160401EUR1000,00
:61:1604020402D65,00NTRFNONREF//INGB1234
:86:rent august
:62F:C160402EUR935,00
-`

func writeStatement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.sta")
	require.NoError(t, os.WriteFile(path, []byte(sampleStatement), 0o644))
	return path
}

func runConvert(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"convert"}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestConvertJSON(t *testing.T) {
	output := runConvert(t, writeStatement(t))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "NL69INGB0123456789", decoded["account_identification"])

	txns, ok := decoded["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, txns, 1)
}

func TestConvertCSV(t *testing.T) {
	output := runConvert(t, writeStatement(t), "--format", "csv")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "date,entry_date,amount"))
	assert.Contains(t, lines[1], "-65")
	assert.Contains(t, lines[1], "NONREF")
}

func TestConvertYAML(t *testing.T) {
	output := runConvert(t, writeStatement(t), "--format", "yaml")
	assert.Contains(t, output, "account_identification: NL69INGB0123456789")
}

func TestConvertUnknownFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"convert", writeStatement(t), "--format", "xml"})
	assert.Error(t, cmd.Execute())
}

func TestConvertMissingFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"convert", filepath.Join(t.TempDir(), "nope.sta")})
	assert.Error(t, cmd.Execute())
}
