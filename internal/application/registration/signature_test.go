package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("topsecret")
	now := time.Unix(1700000000, 0)
	body := []byte(`{"customer":{"email":"a@b.se"}}`)

	sig := signer.Sign(now.Unix(), body)
	assert.NotEmpty(t, sig)
	assert.True(t, signer.Verify(now.Unix(), body, sig, now, 5*time.Minute))
}

func TestSignerRejectsMutations(t *testing.T) {
	signer := NewSigner("topsecret")
	now := time.Unix(1700000000, 0)
	body := []byte(`{"customer":{"email":"a@b.se"}}`)
	sig := signer.Sign(now.Unix(), body)

	t.Run("tampered body", func(t *testing.T) {
		tampered := []byte(`{"customer":{"email":"evil@b.se"}}`)
		assert.False(t, signer.Verify(now.Unix(), tampered, sig, now, 5*time.Minute))
	})

	t.Run("tampered timestamp", func(t *testing.T) {
		assert.False(t, signer.Verify(now.Unix()+1, body, sig, now, 5*time.Minute))
	})

	t.Run("tampered signature", func(t *testing.T) {
		assert.False(t, signer.Verify(now.Unix(), body, sig+"x", now, 5*time.Minute))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSigner("othersecret")
		assert.False(t, other.Verify(now.Unix(), body, sig, now, 5*time.Minute))
	})
}

func TestSignerRejectsStaleTimestamps(t *testing.T) {
	signer := NewSigner("topsecret")
	now := time.Unix(1700000000, 0)
	body := []byte(`{}`)

	old := now.Add(-10 * time.Minute).Unix()
	sig := signer.Sign(old, body)
	assert.False(t, signer.Verify(old, body, sig, now, 5*time.Minute))

	future := now.Add(10 * time.Minute).Unix()
	sig = signer.Sign(future, body)
	assert.False(t, signer.Verify(future, body, sig, now, 5*time.Minute))

	recent := now.Add(-2 * time.Minute).Unix()
	sig = signer.Sign(recent, body)
	assert.True(t, signer.Verify(recent, body, sig, now, 5*time.Minute))
}

func TestSyncEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{
			name: "plain host",
			base: "https://grifon.gr",
			path: "/module/grifonsync/customer",
			want: "https://grifon.gr/module/grifonsync/customer",
		},
		{
			name: "api suffix stripped",
			base: "https://grifon.se/api",
			path: "/module/grifonsync/customer",
			want: "https://grifon.se/module/grifonsync/customer",
		},
		{
			name: "trailing slash and api suffix",
			base: "https://grifon.se/api/",
			path: "module/grifonsync/customer",
			want: "https://grifon.se/module/grifonsync/customer",
		},
		{
			name: "nested path keeps prefix",
			base: "https://grifon.gr/shop/api",
			path: "/sync",
			want: "https://grifon.gr/shop/sync",
		},
		{
			name:    "no host",
			base:    "/just/a/path",
			path:    "/sync",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SyncEndpoint(tt.base, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEmailAndAddressID(t *testing.T) {
	assert.Equal(t, "anna@grifon.se", NormalizeEmail("  Anna@Grifon.SE "))
	assert.Equal(t, "anna@grifon.se::default", AddressID("anna@grifon.se"))
}
