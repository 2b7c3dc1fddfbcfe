package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("test-secret-key", 720*time.Hour, 8*time.Hour)
}

func TestGenerateAndValidateCustomerToken(t *testing.T) {
	mgr := newTestJWTManager()
	customerID := uuid.New()

	token, err := mgr.GenerateToken(RealmCustomer, customerID, "client@test.com", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := mgr.ValidateTokenForRealm(token, RealmCustomer)
	require.NoError(t, err)
	assert.Equal(t, customerID.String(), claims.Subject)
	assert.Equal(t, RealmCustomer, claims.Realm)
	assert.Equal(t, "client@test.com", claims.Email)
}

func TestGenerateAndValidateStaffToken(t *testing.T) {
	mgr := newTestJWTManager()
	staffID := uuid.New()

	token, err := mgr.GenerateToken(RealmStaff, staffID, "patron@test.com", RoleManager)
	require.NoError(t, err)

	claims, err := mgr.ValidateTokenForRealm(token, RealmStaff)
	require.NoError(t, err)
	assert.Equal(t, RealmStaff, claims.Realm)
	assert.Equal(t, RoleManager, claims.Role)
}

func TestRealmMismatchRejected(t *testing.T) {
	mgr := newTestJWTManager()
	customerID := uuid.New()

	token, err := mgr.GenerateToken(RealmCustomer, customerID, "", "")
	require.NoError(t, err)

	_, err = mgr.ValidateTokenForRealm(token, RealmStaff)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected realm staff")
}

func TestInvalidSecretRejected(t *testing.T) {
	mgr1 := NewJWTManager("secret-1", 24*time.Hour, 8*time.Hour)
	mgr2 := NewJWTManager("secret-2", 24*time.Hour, 8*time.Hour)

	token, err := mgr1.GenerateToken(RealmCustomer, uuid.New(), "", "")
	require.NoError(t, err)

	_, err = mgr2.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("secret", 1*time.Millisecond, 1*time.Millisecond)

	token, err := mgr.GenerateToken(RealmCustomer, uuid.New(), "", "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}
