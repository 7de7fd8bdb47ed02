package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockHashCmd(in string, out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "hash-password"}
	cmd.Flags().Int("cost", bcrypt.MinCost, "bcrypt cost")
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(out)
	return cmd
}

func TestRunHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stdin    string
		args     []string
		password string
	}{
		{name: "argument", args: []string{"s3cret"}, password: "s3cret"},
		{name: "stdin", stdin: "from-stdin\n", password: "from-stdin"},
		{name: "stdin crlf", stdin: "windows\r\n", password: "windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			require.NoError(t, runHashPassword(newMockHashCmd(tt.stdin, &out), tt.args))

			hash := strings.TrimSpace(out.String())
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.password)))
		})
	}
}

func TestRunHashPasswordEmpty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runHashPassword(newMockHashCmd("", &out), nil)
	require.Error(t, err)
	assert.Empty(t, out.String())
}
