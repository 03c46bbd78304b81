package auth

import (
	"testing"

	"github.com/shulehq/shule/core"
)

func TestGatewayGuard_Check(t *testing.T) {
	tests := []struct {
		name      string
		configured string
		presented string
		wantErr   error
	}{
		{name: "valid key", configured: "gw-secret", presented: "gw-secret"},
		{name: "wrong key", configured: "gw-secret", presented: "nope", wantErr: ErrGatewayUnauthorized},
		{name: "missing key", configured: "gw-secret", wantErr: ErrGatewayUnauthorized},
		{name: "unconfigured guard fails closed", presented: "", wantErr: ErrGatewayUnauthorized},
		{name: "unconfigured guard rejects empty match", configured: "", presented: "", wantErr: ErrGatewayUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGatewayGuard(&core.Config{GatewayKey: tt.configured})
			if err := guard.Check(tt.presented); err != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
