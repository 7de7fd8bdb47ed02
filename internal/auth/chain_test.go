package auth_test

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/rolegate/internal/auth"
)

func TestChain_Authenticate(t *testing.T) {
	t.Parallel()

	creds := func(username string) auth.Credentials {
		return auth.NewCredentials(username, "pw", []string{"reader"})
	}

	tests := []struct { //nolint:govet // test table struct alignment
		name      string
		chain     []*recordingAuthenticator
		username  string
		want      mo.Option[string]
		wantErr   error
		wantCalls []int
	}{
		{
			name:      "empty chain resolves nothing",
			username:  "alice",
			want:      mo.None[string](),
			wantCalls: []int{},
		},
		{
			name:      "first match wins",
			chain:     []*recordingAuthenticator{{accept: "alice"}, {accept: "alice"}},
			username:  "alice",
			want:      mo.Some("principal:alice"),
			wantCalls: []int{1, 0},
		},
		{
			name:      "falls through on no match",
			chain:     []*recordingAuthenticator{{accept: "bob"}, {accept: "alice"}},
			username:  "alice",
			want:      mo.Some("principal:alice"),
			wantCalls: []int{1, 1},
		},
		{
			name:      "all miss",
			chain:     []*recordingAuthenticator{{accept: "bob"}, {accept: "carol"}},
			username:  "alice",
			want:      mo.None[string](),
			wantCalls: []int{1, 1},
		},
		{
			name:      "failure stops the chain",
			chain:     []*recordingAuthenticator{{err: errBackendDown}, {accept: "alice"}},
			username:  "alice",
			want:      mo.None[string](),
			wantErr:   errBackendDown,
			wantCalls: []int{1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authenticators := make([]auth.Authenticator[string], 0, len(tt.chain))
			for _, a := range tt.chain {
				authenticators = append(authenticators, a)
			}
			chain := auth.NewChain(authenticators...)
			assert.Equal(t, len(tt.chain), chain.Len())

			got, err := chain.Authenticate(context.Background(), creds(tt.username))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			calls := make([]int, 0, len(tt.chain))
			for _, a := range tt.chain {
				calls = append(calls, a.callCount())
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}
