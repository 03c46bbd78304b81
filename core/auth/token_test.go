package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
)

func testConfig(secret string) *core.Config {
	return &core.Config{
		AppName:              "Shule",
		SecretKey:            secret,
		TokenExpirationDelta: time.Hour,
	}
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService(testConfig("secret"))

	snapshot := role.Role{
		ID:       "ROL-1",
		TenantID: "TEN-1",
		Name:     "Teacher",
		Permissions: []role.Permission{
			{Page: "students", CanView: true},
		},
	}
	principal := Principal{
		UserID:   "USR-1",
		TenantID: "TEN-1",
		BranchID: "BRN-1",
		Role:     InlineRole(snapshot),
	}

	token, err := svc.Issue(principal)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if got.UserID != principal.UserID {
		t.Errorf("UserID = %v, want %v", got.UserID, principal.UserID)
	}
	if got.TenantID != principal.TenantID {
		t.Errorf("TenantID = %v, want %v", got.TenantID, principal.TenantID)
	}
	if got.BranchID != principal.BranchID {
		t.Errorf("BranchID = %v, want %v", got.BranchID, principal.BranchID)
	}
	if got.IsSuperAdmin {
		t.Error("IsSuperAdmin = true, want false")
	}
	if got.Role.ID() != snapshot.ID {
		t.Errorf("Role.ID() = %v, want %v", got.Role.ID(), snapshot.ID)
	}
	if snap := got.Role.Snapshot(); snap == nil || snap.Name != snapshot.Name {
		t.Errorf("Role.Snapshot() = %+v, want %+v", snap, snapshot)
	}
}

func TestTokenService_Verify_invalidTokens(t *testing.T) {
	svc := NewTokenService(testConfig("secret"))
	principal := Principal{UserID: "USR-1", TenantID: "TEN-1"}

	// generate an expired token
	nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := svc.Issue(principal)
	nowFunc = time.Now // reset
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	// token signed with another key
	forgedToken, err := NewTokenService(testConfig("attacker")).Issue(principal)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	// well signed but missing the tenant claim
	bareClaims := &Claims{StandardClaims: jwt.StandardClaims{
		Subject:   "USR-1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}}
	tenantless, err := jwt.NewWithClaims(jwt.SigningMethodHS256, bareClaims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString() failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token"},
		{name: "garbage", token: "lmaooolol"},
		{name: "expired", token: expiredToken},
		{name: "forged", token: forgedToken},
		{name: "missing tenant claim", token: tenantless},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); err != ErrInvalidToken {
				t.Errorf("Verify() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
