package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/archguard/archguard/internal/adapters/inbound/cli"
	"github.com/archguard/archguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	layeredFixture = "../../../../testdata/layered"
	cleanFixture   = "../../../../testdata/clean"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAuditCommand_JSON(t *testing.T) {
	out, err := execute(t, "audit", layeredFixture, "--format", "json")
	require.NoError(t, err)

	var result domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, domain.StatusFailed, result.Status)
	assert.Equal(t, ".", result.Target)
	assert.Equal(t, 11, result.Summary.FilesScanned)
	assert.Equal(t, 7, result.Summary.FilesAudited)
	assert.Equal(t, 1, result.Summary.Violations)
	assert.Equal(t, 1, result.Summary.HealthIssues)
	assert.Equal(t, 1, result.Summary.MissingTests)

	require.Len(t, result.Reports, 2)
	assert.Equal(t, "src/core/usecases/create-user.ts", result.Reports[0].File)
	assert.Equal(t, "domain", result.Reports[0].Layer)
	assert.Equal(t, 2, result.Reports[0].Violations[0].Line)
	assert.Equal(t, "src/interface/components/UserTable.tsx", result.Reports[1].File)
	assert.Equal(t, domain.HealthIndentation, result.Reports[1].Health[0].Kind)
	assert.Equal(t, 7, result.Reports[1].Health[0].Line)
}

func TestAuditCommand_JSONIsStable(t *testing.T) {
	first, err := execute(t, "audit", layeredFixture, "--format", "json", "--workers", "1")
	require.NoError(t, err)
	second, err := execute(t, "audit", layeredFixture, "--format", "json", "--workers", "4")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAuditCommand_Markdown(t *testing.T) {
	out, err := execute(t, "audit", layeredFixture, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "**Status:** FAILED")
	assert.Contains(t, out, "- [ ] `src/core/usecases/create-user.ts`")
}

func TestAuditCommand_DefaultText(t *testing.T) {
	out, err := execute(t, "audit", layeredFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "archguard")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Architecture Violations")
}

func TestAuditCommand_Subdirectory(t *testing.T) {
	out, err := execute(t, "audit", filepath.Join(layeredFixture, "src", "interface"), "--format", "json")
	require.NoError(t, err)

	var result domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "src/interface", result.Target)
	assert.Equal(t, domain.StatusWarning, result.Status)
}

func TestAuditCommand_CIFails(t *testing.T) {
	_, err := execute(t, "audit", layeredFixture, "--ci")
	assert.ErrorIs(t, err, domain.ErrAuditFailed)
}

func TestAuditCommand_CIPasses(t *testing.T) {
	_, err := execute(t, "audit", cleanFixture, "--ci", "--strict")
	assert.NoError(t, err)
}

func TestAuditCommand_StrictFailsOnWarning(t *testing.T) {
	dir := filepath.Join(layeredFixture, "src", "interface")

	_, err := execute(t, "audit", dir, "--ci")
	assert.NoError(t, err, "warnings pass without --strict")

	_, err = execute(t, "audit", dir, "--ci", "--strict")
	assert.ErrorIs(t, err, domain.ErrAuditFailed)
}

func TestAuditCommand_InvalidFormat(t *testing.T) {
	_, err := execute(t, "audit", layeredFixture, "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestAuditCommand_UnknownLayer(t *testing.T) {
	_, err := execute(t, "audit", layeredFixture, "--layer", "presentation")
	assert.ErrorIs(t, err, domain.ErrUnknownLayer)
}

func TestAuditCommand_MissingRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644))

	_, err := execute(t, "audit", dir)
	assert.ErrorIs(t, err, domain.ErrRulesNotFound)
}

func TestAuditCommand_ExplicitRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "a.js"), []byte("export const a = 1\n"), 0644))

	rulesFile := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(rulesFile, []byte(`{
  "layer_identifiers": {"lib": ["lib"]},
  "forbidden_imports": {},
  "required_test_suffix": [".test.js"]
}`), 0644))

	out, err := execute(t, "audit", dir, "--rules", rulesFile, "--format", "json")
	require.NoError(t, err)

	var result domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Reports, 1)
	assert.Equal(t, "lib", result.Reports[0].Layer)
	assert.True(t, result.Reports[0].TDDMissing)
}

func TestAuditCommand_RecordAndHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "core"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "core", "a.ts"), []byte("import x from 'react'\n"), 0644))

	_, err = execute(t, "audit", dir, "--record", "--format", "json")
	require.NoError(t, err)
	_, err = execute(t, "audit", dir, "--record", "--format", "json")
	require.NoError(t, err)

	out, err := execute(t, "history", dir, "--json")
	require.NoError(t, err)

	var entries []domain.RunEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, domain.StatusFailed, entries[0].Status)
	assert.Equal(t, 1, entries[1].Violations)

	out, err = execute(t, "history", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Run History")
}

func TestAuditCommand_NoRecordByDefault(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir)
	require.NoError(t, err)

	_, err = execute(t, "audit", dir, "--format", "json")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, ".archguard"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "audit", cleanFixture)
	assert.Error(t, err)
}
