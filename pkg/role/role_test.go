package role_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"homezen/pkg/role"
)

func TestFromCode(t *testing.T) {
	assert.Equal(t, role.Landlord, role.FromCode(1))
	assert.Equal(t, role.Tenant, role.FromCode(2))
	assert.Equal(t, role.Tenant, role.FromCode(0))
	assert.Equal(t, role.Tenant, role.FromCode(42))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    role.Role
		wantErr bool
	}{
		{name: "landlord", raw: "1", want: role.Landlord},
		{name: "tenant", raw: "2", want: role.Tenant},
		{name: "padded", raw: " 1 ", want: role.Landlord},
		{name: "empty", raw: "", want: role.Unknown, wantErr: true},
		{name: "word", raw: "landlord", want: role.Unknown, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := role.Parse(test.raw)
			if test.wantErr {
				assert.ErrorIs(t, err, role.ErrInvalidCode)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCodeRoundTrip(t *testing.T) {
	for _, r := range []role.Role{role.Landlord, role.Tenant} {
		assert.Equal(t, r, role.FromCode(r.Code()))
		assert.True(t, r.Valid())
	}
	assert.False(t, role.Unknown.Valid())
	assert.Equal(t, "unknown", role.Unknown.String())
}
