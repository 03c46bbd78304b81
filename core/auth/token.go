package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
)

var (
	nowFunc = time.Now // mockable

	// ErrInvalidToken covers expired, malformed and forged tokens alike;
	// callers must not learn which case occurred.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims represents the authorization claims transmitted via a session token.
type Claims struct {
	jwt.StandardClaims
	TenantID     string     `json:"tid"`
	BranchID     string     `json:"bid,omitempty"`
	IsSuperAdmin bool       `json:"sup,omitempty"`
	RoleID       string     `json:"rid,omitempty"`
	Role         *role.Role `json:"role,omitempty"` // snapshot at issuance, display only
}

// TokenService issues and verifies signed, time-bounded session tokens.
// It is stateless: no session store, no revocation list. A stolen token
// keeps its embedded authority until expiry.
type TokenService struct {
	secret  []byte
	expiry  time.Duration
	appName string
}

func NewTokenService(conf *core.Config) *TokenService {
	return &TokenService{
		secret:  []byte(conf.SecretKey),
		expiry:  conf.TokenExpirationDelta,
		appName: conf.AppName,
	}
}

func (svc *TokenService) Issue(p Principal) (string, error) {
	now := nowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    svc.appName,
			Subject:   p.UserID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(svc.expiry).Unix(),
		},
		TenantID:     p.TenantID,
		BranchID:     p.BranchID,
		IsSuperAdmin: p.IsSuperAdmin,
		RoleID:       p.Role.ID(),
		Role:         p.Role.Snapshot(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(svc.secret)
	if err != nil {
		return "", pkgerrors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (svc *TokenService) Verify(tokenStr string) (Principal, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return svc.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return Principal{}, ErrInvalidToken
	}

	var ref RoleRef
	switch {
	case claims.Role != nil:
		ref = InlineRole(*claims.Role)
	case claims.RoleID != "":
		ref = RoleByID(claims.RoleID)
	}
	return Principal{
		UserID:       claims.Subject,
		TenantID:     claims.TenantID,
		BranchID:     claims.BranchID,
		IsSuperAdmin: claims.IsSuperAdmin,
		Role:         ref,
	}, nil
}
