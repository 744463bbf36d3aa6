package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialPassword(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cred := Credential{UserID: 1}
		require.NoError(t, cred.SetPassword("s3cret"))

		assert.NotEqual(t, "s3cret", cred.PasswordHash, "hash must not be the plaintext")
		assert.True(t, cred.CheckPassword("s3cret"))
		assert.False(t, cred.CheckPassword("wrong"))
	})

	t.Run("setting again invalidates the old password", func(t *testing.T) {
		cred := Credential{UserID: 1}
		require.NoError(t, cred.SetPassword("first"))
		require.NoError(t, cred.SetPassword("second"))

		assert.False(t, cred.CheckPassword("first"))
		assert.True(t, cred.CheckPassword("second"))
	})

	t.Run("empty or missing credential never verifies", func(t *testing.T) {
		var nilCred *Credential
		assert.False(t, nilCred.CheckPassword("anything"))

		empty := Credential{UserID: 2}
		assert.False(t, empty.CheckPassword("anything"))
	})
}
