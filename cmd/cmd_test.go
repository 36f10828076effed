package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ddot-validator/internal/config"
)

func ddotLine(site, payload string) string {
	return fmt.Sprintf("USGS %-15s %s", site, payload)
}

func ddotFile(lines ...string) string {
	return "HEADER\n" + strings.Join(lines, "\n") + "\n"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file=", "--log-level=error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCodesCommand(t *testing.T) {
	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "codes")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Regexp(t, `(?m)^900\s+stationName$`, out)
	assert.Regexp(t, `(?m)^T\s+transactionType$`, out)
	assert.Contains(t, out, "52 codes, 51 attributes")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ddot", ddotFile(ddotLine("01234567", "R=0* T=A*")))
	bad := writeFile(t, dir, "bad.ddot", ddotFile(ddotLine("01234567", "R=0* 999=X* T=A*")))
	missingConfig := filepath.Join(dir, "none.yaml")

	out, err := execute(t, "--config", missingConfig, "validate", "--json=false", good)
	require.NoError(t, err)
	assert.Contains(t, out, "OK   "+good+" (1 transactions, 1 site records)")

	out, err = execute(t, "--config", missingConfig, "validate", "--json=false", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL "+bad+" [InvalidCodes]")
	assert.Contains(t, err.Error(), "1 of 2")

	out, err = execute(t, "--config", missingConfig, "validate", "--json", good)
	require.NoError(t, err)
	assert.Contains(t, out, `"transactionType": "A"`)
}

func TestProcessCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeFile(t, root, "config.yaml", fmt.Sprintf(`
input_dir: %[1]s/input
output_dir: %[1]s/output
input_archive_dir: %[1]s/input_archive
output_archive_dir: %[1]s/output_archive
error_log_dir: %[1]s/logs
output_formats: [json, xml]
output_name_format: "{name}"
archive_on_success: true
`, root))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "input"), 0755))
	writeFile(t, filepath.Join(root, "input"), "a.ddot", ddotFile(ddotLine("01234567", "R=0* T=A*")))
	writeFile(t, filepath.Join(root, "input"), "b.ddot", ddotFile(
		ddotLine("01234567", "R=0* T=A*"),
		ddotLine("01234567", "R=0* T=M*"),
	))

	out, err := execute(t, "--config", cfgPath, "process", "--dry-run=false", "--file=")
	require.Error(t, err)
	assert.Contains(t, out, "Successful:      1")
	assert.Contains(t, out, "Errors:          1")

	assert.FileExists(t, filepath.Join(root, "output", "a.json"))
	assert.FileExists(t, filepath.Join(root, "output", "a.xml"))
	assert.FileExists(t, filepath.Join(root, "input_archive", "a.ddot"))
	assert.FileExists(t, filepath.Join(root, "input", "b.ddot"))

	logs, err := filepath.Glob(filepath.Join(root, "logs", "ddot_errors_*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "DuplicateSite")
}

func TestProcessCommand_EnvOverride(t *testing.T) {
	root := t.TempDir()
	t.Setenv("DDOT_INPUT_DIR", filepath.Join(root, "in"))
	t.Setenv("DDOT_OUTPUT_DIR", filepath.Join(root, "out"))
	t.Setenv("DDOT_INPUT_ARCHIVE_DIR", filepath.Join(root, "in_archive"))
	t.Setenv("DDOT_OUTPUT_ARCHIVE_DIR", filepath.Join(root, "out_archive"))
	t.Setenv("DDOT_ERROR_LOG_DIR", filepath.Join(root, "logs"))

	out, err := execute(t, "--config", filepath.Join(root, "none.yaml"), "process", "--dry-run", "--file=")
	require.NoError(t, err)
	assert.Contains(t, out, "No files matching *.ddot found in "+filepath.Join(root, "in"))
	assert.DirExists(t, filepath.Join(root, "out"))
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	missingConfig := filepath.Join(dir, "none.yaml")

	_, err := execute(t, "--config", missingConfig, "--env-file", filepath.Join(dir, "missing.env"), "codes")
	require.NoError(t, err)

	bad := writeFile(t, dir, "bad.env", "BAD-KEY=1\n")
	_, err = execute(t, "--config", missingConfig, "--env-file", bad, "codes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load env file")
}

func TestSchemaCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeFile(t, root, "config.yaml", "xml_namespace: urn:ddot:sites\n")

	out, err := execute(t, "--config", cfgPath, "schema", "--output=")
	require.NoError(t, err)
	assert.Contains(t, out, `targetNamespace="urn:ddot:sites"`)
	assert.Contains(t, out, `<xs:element name="stationName" type="xs:string" minOccurs="0"/>`)

	xsdPath := filepath.Join(root, "sites.xsd")
	_, err = execute(t, "--config", filepath.Join(root, "none.yaml"), "schema", "--output", xsdPath)
	require.NoError(t, err)
	data, err := os.ReadFile(xsdPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "targetNamespace")
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	ov := viper.New()
	ov.Set("xml_namespace", "urn:ddot")
	ov.Set("max_transactions", 10)
	ov.Set("use_timestamp_subdirs", true)
	ov.Set("continue_on_error", false)
	ov.Set("output_formats", "XML, yaml")

	applyOverrides(cfg, ov)

	assert.Equal(t, "urn:ddot", cfg.XMLNamespace)
	assert.Equal(t, 10, cfg.MaxTransactions)
	assert.True(t, cfg.UseTimestampSubdirs)
	assert.False(t, cfg.ShouldContinueOnError())
	assert.Equal(t, []string{"xml", "yaml"}, cfg.OutputFormats)
	assert.Equal(t, "./input", cfg.InputDir)
}
