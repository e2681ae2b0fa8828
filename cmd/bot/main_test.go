package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasklink-api/internal/config"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "check-config"}, names)
}

func TestCheckConfig(t *testing.T) {
	t.Setenv("TASKLINK_TELEGRAM_BOT_TOKEN", "123456:ABCDEF")
	t.Setenv("TASKLINK_BOT_API_URL", "http://api:8080/api/")

	out, err := executeRoot(t, "check-config")

	require.NoError(t, err)
	assert.Contains(t, out, "api_url=http://api:8080/api/")
}

func TestCheckConfig_MissingToken(t *testing.T) {
	t.Setenv("TASKLINK_TELEGRAM_BOT_TOKEN", "")

	_, err := executeRoot(t, "check-config")

	assert.ErrorIs(t, err, config.ErrBotTokenRequired)
}

func TestLoadConfig_FlagOverridesAPIURL(t *testing.T) {
	t.Setenv("TASKLINK_TELEGRAM_BOT_TOKEN", "123456:ABCDEF")

	cfg, err := loadConfig("http://override:9000/api/")

	require.NoError(t, err)
	assert.Equal(t, "http://override:9000/api/", cfg.Bot.APIURL)
}

func TestRunBot_StopsOnCancelledContext(t *testing.T) {
	t.Setenv("TASKLINK_TELEGRAM_BOT_TOKEN", "123456:ABCDEF")
	cfg, err := loadConfig("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, runBot(ctx, cfg))
}
