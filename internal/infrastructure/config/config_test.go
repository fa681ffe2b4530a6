package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
ynab:
  api_key: test-key
  budget_id: budget-1
  account_id: acct-9
amazon:
  domain: amazon.com
matching:
  days_before: 10
  days_after: 5
memo:
  max_length: 150
observability:
  logging:
    level: debug
    format: json
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.YNAB.APIKey)
	assert.Equal(t, "budget-1", cfg.YNAB.BudgetID)
	assert.Equal(t, "acct-9", cfg.YNAB.AccountID)
	assert.Equal(t, "amazon.com", cfg.Amazon.Domain)
	assert.Equal(t, 10, cfg.Matching.DaysBefore)
	assert.Equal(t, 5, cfg.Matching.DaysAfter)
	assert.Equal(t, 150, cfg.Memo.MaxLength)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, `
ynab:
  api_key: test-key
  budget_id: budget-1
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "amazon.ca", cfg.Amazon.Domain)
	assert.Equal(t, int64(10), cfg.Matching.AmountToleranceMilliunits)
	assert.Equal(t, 7, cfg.Matching.DaysBefore)
	assert.Equal(t, 3, cfg.Matching.DaysAfter)
	assert.Equal(t, 200, cfg.Memo.MaxLength)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_YNAB_KEY", "from-env")
	path := writeConfig(t, `
ynab:
  api_key: ${TEST_YNAB_KEY}
  budget_id: budget-1
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.YNAB.APIKey)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	path := writeConfig(t, `
ynab:
  budget_id: budget-1
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "YNAB_API_KEY")
}

func TestLoad_MissingBudgetID(t *testing.T) {
	path := writeConfig(t, `
ynab:
  api_key: test-key
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "YNAB_BUDGET_ID")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YNAB_API_KEY", "env-key")
	t.Setenv("YNAB_BUDGET_ID", "env-budget")
	t.Setenv("YNAB_ACCOUNT_ID", "env-account")
	t.Setenv("AMAZON_DOMAIN", "amazon.co.uk")
	t.Setenv("MATCH_AMOUNT_TOLERANCE_MILLIUNITS", "20")
	t.Setenv("MATCH_DAYS_BEFORE", "14")
	t.Setenv("MEMO_MAX_LENGTH", "120")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YNAB.APIKey)
	assert.Equal(t, "env-budget", cfg.YNAB.BudgetID)
	assert.Equal(t, "env-account", cfg.YNAB.AccountID)
	assert.Equal(t, "amazon.co.uk", cfg.Amazon.Domain)
	assert.Equal(t, int64(20), cfg.Matching.AmountToleranceMilliunits)
	assert.Equal(t, 14, cfg.Matching.DaysBefore)
	assert.Equal(t, 3, cfg.Matching.DaysAfter)
	assert.Equal(t, 120, cfg.Memo.MaxLength)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv_AccountNoneMeansAllAccounts(t *testing.T) {
	t.Setenv("YNAB_API_KEY", "env-key")
	t.Setenv("YNAB_BUDGET_ID", "env-budget")
	t.Setenv("YNAB_ACCOUNT_ID", "None")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "", cfg.YNAB.AccountID)
}

func TestLoadOrEnvWithPath_FallsBackToEnv(t *testing.T) {
	t.Setenv("YNAB_API_KEY", "env-key")
	t.Setenv("YNAB_BUDGET_ID", "env-budget")

	cfg, err := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YNAB.APIKey)
}

func TestLoadOrEnvWithPath_PrefersFile(t *testing.T) {
	t.Setenv("YNAB_API_KEY", "env-key")
	t.Setenv("YNAB_BUDGET_ID", "env-budget")
	path := writeConfig(t, `
ynab:
  api_key: file-key
  budget_id: file-budget
`)

	cfg, err := LoadOrEnvWithPath(path)

	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.YNAB.APIKey)
}

func TestNormalizeAccountID(t *testing.T) {
	assert.Equal(t, "", normalizeAccountID(""))
	assert.Equal(t, "", normalizeAccountID("none"))
	assert.Equal(t, "", normalizeAccountID("  None  "))
	assert.Equal(t, "acct-1", normalizeAccountID(" acct-1 "))
}
