package fx

import (
	"os"
	"testing"

	"squad-ladder/internal/config"
	"squad-ladder/internal/server"
	"squad-ladder/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*server.LadderServer, *service.Scheduler) {}),
	)
	require.NoError(t, err)
}

func TestLoggerTakesLevelFromDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("RIOT_API_KEY=x\nLOG_LEVEL=debug\n"), 0o600))
	for _, key := range []string{"RIOT_API_KEY", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	var (
		l   zerolog.Logger
		cfg *config.Config
	)
	app := fx.New(Module, fx.NopLogger, fx.Populate(&l, &cfg))
	require.NoError(t, app.Err())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}
