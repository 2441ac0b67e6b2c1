package status

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/pkg/errors"
)

func TestStatusWithoutClient(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(nil)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStartup)
	assert.Empty(t, buf.String())
}

func TestStatusRejectsArgs(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
