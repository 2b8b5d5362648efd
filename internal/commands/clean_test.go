package commands_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/payeeclean/internal/commands"
	"github.com/cleared-dev/payeeclean/internal/ledger"
	"github.com/cleared-dev/payeeclean/internal/usagelog"
)

const fixture = "chase_checking.csv"

// setupRepo initializes a repository without git and drops the Chase fixture
// into its import directory.
func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runPayeeclean(t, "init", dir, "--name", "Test Ledger", "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", fixture))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", fixture), data, 0o644))
	return dir
}

func TestClean_WritesLedger(t *testing.T) {
	dir := setupRepo(t)

	out, err := runPayeeclean(t, "clean", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, fixture+": 6 transactions")

	entries, err := ledger.NewService(dir).ReadMonth(2025, 1)
	require.NoError(t, err)
	require.Len(t, entries, 6)

	payees := make([]string, len(entries))
	for i, e := range entries {
		payees[i] = e.Payee
	}
	assert.Equal(t, []string{
		"GITHUB PRO SUBSCRIPTION",
		"AIRSIDE COFFEE 12.30 JPY (0.13 each)",
		"HAPPY DAYS TRAVEL",
		"ACME CONSULTING INVOICE 1042",
		"STAPLES",
		"USPS PO 1234",
	}, payees)

	assert.Equal(t, "2025-01-001", entries[0].ID)
	assert.Equal(t, "2025-01-006", entries[5].ID)

	coffee := entries[1]
	assert.True(t, coffee.Tags.Has("card"))
	assert.True(t, coffee.Tags.Has("¥"))
	orig, ok := coffee.Meta.Get("original-payee")
	require.True(t, ok)
	assert.Equal(t, "POS AIRSIDE COFFEE 12.30 JPY@ 0.13", orig)

	travel := entries[2]
	id, ok := travel.Meta.Get("id")
	require.True(t, ok)
	assert.Equal(t, "XY90210", id)

	staples := entries[4]
	city, ok := staples.Meta.Get("city")
	require.True(t, ok)
	assert.Equal(t, "London", city)

	assert.False(t, entries[3].Meta.Has("original-payee"), "unchanged payee keeps no original")
}

func TestClean_MovesFileAndSavesUsage(t *testing.T) {
	dir := setupRepo(t)

	_, err := runPayeeclean(t, "clean", "--repo", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "import", fixture))
	assert.True(t, os.IsNotExist(err), "imported file should leave import/")
	_, err = os.Stat(filepath.Join(dir, "import", "processed", fixture))
	require.NoError(t, err)

	dates, err := usagelog.Load(filepath.Join(dir, "logs", "rule-usage.csv"))
	require.NoError(t, err)
	assert.Len(t, dates, 6, "every default rule but whitespace collapsing matched")
	assert.Equal(t, "2025-01-18", dates["card purchase prefix becomes the card tag"].Format("2006-01-02"))

	out, err := runPayeeclean(t, "clean", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No files to import.")
}

// addBadImport drops a second import that sorts after the fixture and fails to parse.
func addBadImport(t *testing.T, dir string) {
	t.Helper()
	bad := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,not-a-date,X,-1.00,ACH_DEBIT,0,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "zz_broken.csv"), []byte(bad), 0o644))
}

func TestClean_FailedFileKeepsEarlierWork(t *testing.T) {
	dir := setupRepo(t)
	addBadImport(t, dir)

	out, err := runPayeeclean(t, "clean", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zz_broken.csv")
	assert.Contains(t, out, fixture+": 6 transactions")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", fixture))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "zz_broken.csv"))
	require.NoError(t, err, "the failed file stays in import/")

	dates, err := usagelog.Load(filepath.Join(dir, "logs", "rule-usage.csv"))
	require.NoError(t, err)
	assert.Len(t, dates, 6)
}

func TestClean_FailedFileStillCommits(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runPayeeclean(t, "init", dir, "--name", "Test Ledger")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", fixture))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", fixture), data, 0o644))
	addBadImport(t, dir)

	_, err = runPayeeclean(t, "clean", "--repo", dir)
	require.Error(t, err)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.Equal(t, "clean: import 6 transactions from 1 files\n", string(msg))
}

func TestClean_DebugLogsEachCleanedPayee(t *testing.T) {
	dir := setupRepo(t)

	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--log-level", "debug", "clean", "--repo", dir, "--dry-run"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	logs := errOut.String()
	assert.Equal(t, 6, strings.Count(logs, "cleaned payee"))
	assert.Contains(t, logs, "to=STAPLES")
}

func TestClean_DryRun(t *testing.T) {
	dir := setupRepo(t)

	out, err := runPayeeclean(t, "clean", "--repo", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-03  GITHUB *PRO SUBSCRIPTION -> GITHUB PRO SUBSCRIPTION")
	assert.Contains(t, out, "2025-01-18  CARD PURCHASE STAPLES   LONDON -> STAPLES")

	_, err = os.Stat(filepath.Join(dir, "import", fixture))
	require.NoError(t, err, "dry run leaves the import in place")
	_, err = os.Stat(filepath.Join(dir, "2025"))
	assert.True(t, os.IsNotExist(err), "dry run writes no ledger")
	_, err = os.Stat(filepath.Join(dir, "logs", "rule-usage.csv"))
	assert.True(t, os.IsNotExist(err), "dry run writes no usage log")
}

func TestClean_MissingConfig(t *testing.T) {
	_, err := runPayeeclean(t, "clean", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestUsage(t *testing.T) {
	dir := setupRepo(t)

	out, err := runPayeeclean(t, "usage", "--repo", dir, "--unused")
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(out, "\n"), "nothing matched yet")

	_, err = runPayeeclean(t, "clean", "--repo", dir)
	require.NoError(t, err)

	out, err = runPayeeclean(t, "usage", "--repo", dir, "--unused")
	require.NoError(t, err)
	assert.Equal(t, "1900-01-01: runs of whitespace collapse to one space\n", out)

	out, err = runPayeeclean(t, "usage", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(out, "\n"))
	assert.Contains(t, out, "2025-01-03: asterisk separators become spaces")
}

func TestTry(t *testing.T) {
	dir := setupRepo(t)

	out, err := runPayeeclean(t, "try", "XY90210 HAPPY DAYS TRAVEL", "--repo", dir, "--date", "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t,
		"payee: HAPPY DAYS TRAVEL\n"+
			`meta:  {"id":"XY90210","original-payee":"XY90210 HAPPY DAYS TRAVEL"}`+"\n",
		out)

	out, err = runPayeeclean(t, "try", "POS AIRSIDE COFFEE 12.30 JPY@ 0.13", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "payee: AIRSIDE COFFEE 12.30 JPY (0.13 each)\n")
	assert.Contains(t, out, "tags:  card;¥\n")

	_, err = runPayeeclean(t, "try", "x", "--repo", dir, "--date", "01/10/2025")
	require.Error(t, err)
}
