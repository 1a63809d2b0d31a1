package bootstrap

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  "release",
		"prod":        "release",
		"release":     "release",
		"test":        "test",
		"development": "debug",
		"":            "debug",
	}
	for env, want := range tests {
		assert.Equal(t, want, GinMode(env), env)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "development", ResolveEnv("development"))

	t.Setenv("ENV", "production")
	assert.Equal(t, "production", ResolveEnv("development"))
}

func TestRegisterFlags(t *testing.T) {
	var env, configPath string
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	RegisterFlags(fs, &env, &configPath)

	assert.Equal(t, "development", env)
	assert.Empty(t, configPath)

	assert.NoError(t, fs.Parse([]string{"-e", "production", "--config", "/etc/hrms/config.yaml"}))
	assert.Equal(t, "production", env)
	assert.Equal(t, "/etc/hrms/config.yaml", configPath)
}
