package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/shulehq/shule/core"
)

// ErrGatewayUnauthorized is the single failure of the gateway guard; a
// missing key and a wrong key are indistinguishable.
var ErrGatewayUnauthorized = errors.New("unauthorized")

// GatewayGuard checks the shared deployment secret presented by callers
// before any user identity exists. It runs ahead of token verification
// and also protects registration and login.
type GatewayGuard struct {
	key []byte
}

func NewGatewayGuard(conf *core.Config) *GatewayGuard {
	return &GatewayGuard{key: []byte(conf.GatewayKey)}
}

func (g *GatewayGuard) Check(presentedKey string) error {
	// an unconfigured guard fails closed
	if len(g.key) == 0 {
		return ErrGatewayUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(presentedKey), g.key) != 1 {
		return ErrGatewayUnauthorized
	}
	return nil
}
