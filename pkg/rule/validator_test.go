package rule_test

import (
	"testing"

	"github.com/oklog/ulid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/rule"
)

type uploadLimits struct {
	Name     string `rule:"required"`
	MaxBytes int64  `rule:"min=1"`
	Backend  string `rule:"oneof=s3 gridfs memory"`
}

func TestEngine(t *testing.T) {
	require.NotNil(t, rule.Engine())
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      uploadLimits
		wantErr bool
	}{
		{"valid", uploadLimits{Name: "uploads", MaxBytes: 1, Backend: "s3"}, false},
		{"missing name", uploadLimits{MaxBytes: 1, Backend: "s3"}, true},
		{"zero bytes", uploadLimits{Name: "uploads", Backend: "gridfs"}, true},
		{"unknown backend", uploadLimits{Name: "uploads", MaxBytes: 1, Backend: "ftp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.ValidateStruct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, rule.ValidateVar("test@example.com", "required,email"))
	assert.Error(t, rule.ValidateVar("invalid-email", "required,email"))
	assert.NoError(t, rule.ValidateVar(25, "gte=18"))
	assert.Error(t, rule.ValidateVar(15, "gte=18"))
}

func TestValidID(t *testing.T) {
	id := ulid.MustNew(ulid.Now(), nil).String()

	assert.True(t, rule.ValidID(id))
	assert.False(t, rule.ValidID(""))
	assert.False(t, rule.ValidID("not-an-id"))
	assert.False(t, rule.ValidID("64b7f0c2a1b2c3d4e5f60718"))
}

type serverSection struct {
	Port int    `mapstructure:"port" rule:"min=1,max=65535"`
	Host string `mapstructure:"host" rule:"ip"`
}

type appSection struct {
	Server serverSection `mapstructure:"server"`
}

func TestValidateStructReportsConfigPaths(t *testing.T) {
	err := rule.ValidateStruct(appSection{Server: serverSection{Port: 70000, Host: "nope"}})
	require.Error(t, err)

	var verr *rule.Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)

	assert.Equal(t, rule.FieldError{Path: "server.port", Rule: "max", Param: "65535"}, verr.Fields[0])
	assert.Equal(t, "server.host", verr.Fields[1].Path)
	assert.Contains(t, err.Error(), `server.port: failed "max" (65535)`)
}
