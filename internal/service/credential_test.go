package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialIssuer_DefaultPassword(t *testing.T) {
	var creds CredentialIssuer

	cases := []struct {
		name     string
		email    string
		fallback string
		want     string
	}{
		{"derives from email local part", "jane@acme.test", "Acme", "jane@123"},
		{"falls back to name when email empty", "", "Acme", "Acme@123"},
		{"handles email without local part", "@acme.test", "Acme", "Acme@123"},
		{"last resort when both empty", "", "", "user@123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, creds.DefaultPassword(tc.email, tc.fallback))
		})
	}
}

func TestCredentialIssuer_HashAndVerify(t *testing.T) {
	var creds CredentialIssuer

	hash, err := creds.Hash("jane@123")
	require.NoError(t, err)
	assert.NotEqual(t, "jane@123", hash)

	assert.True(t, creds.Verify(hash, "jane@123"))
	assert.False(t, creds.Verify(hash, "jane@124"))
	assert.False(t, creds.Verify("", "jane@123"))
}
