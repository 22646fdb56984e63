package secrets_test

import (
	"testing"

	"github.com/relforge/genmodel/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Env(t *testing.T) {
	t.Setenv("REVIEWBOT_OPENAI_API_KEY", "fakekey")

	p := secrets.Env("REVIEWBOT_")
	val, err := p.GetSecret("OPENAI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "fakekey", val)

	_, err = p.GetSecret("MISSING")
	require.ErrorIs(t, err, secrets.ErrNotFound)
	assert.Contains(t, err.Error(), "REVIEWBOT_MISSING")
}

func Test_Static(t *testing.T) {
	p := secrets.Static(map[string]string{"ANTHROPIC_API_KEY": "fakekey"})

	val, err := p.GetSecret("ANTHROPIC_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "fakekey", val)

	_, err = p.GetSecret("OPENAI_API_KEY")
	require.ErrorIs(t, err, secrets.ErrNotFound)
}
