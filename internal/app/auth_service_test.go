package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest() (*AuthService, *fakeUserStore, *fakeSessionTracker) {
	users := &fakeUserStore{}
	tracker := newFakeSessionTracker()
	svc := NewAuthService(users, tracker, "test-secret", 30*time.Minute)
	return svc, users, tracker
}

func TestAuthService_Register(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()

	user, err := svc.Register(RegisterInput{
		FullName: "Ana",
		Email:    "Ana@X.edu",
		Password: "p1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.edu", user.Email)
	assert.True(t, user.Active)
	assert.NotEqual(t, "p1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("p1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("p2")))
	assert.Len(t, users.users, 1)
}

func TestAuthService_RegisterMissingFields(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()

	for _, input := range []RegisterInput{
		{FullName: "", Email: "a@x.edu", Password: "p"},
		{FullName: "A", Email: "", Password: "p"},
		{FullName: "A", Email: "a@x.edu", Password: ""},
	} {
		_, err := svc.Register(input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, users.users)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()

	_, err := svc.Register(RegisterInput{FullName: "Ana", Email: "ana@x.edu", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{FullName: "Other", Email: "ana@x.edu", Password: "p2"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Len(t, users.users, 1, "duplicate registration must not create a second record")
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	svc, _, tracker := newAuthServiceForTest()
	ctx := context.Background()

	registered, err := svc.Register(RegisterInput{FullName: "Ana", Email: "ana@x.edu", Password: "p1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{Email: "ana@x.edu", Password: "p1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Contains(t, tracker.records, result.TokenID)

	userID, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	_, err := svc.Register(RegisterInput{FullName: "Ana", Email: "ana@x.edu", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@x.edu", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@x.edu", Password: "p1"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthService_LogoutInvalidatesToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	_, err := svc.Register(RegisterInput{FullName: "Ana", Email: "ana@x.edu", Password: "p1"})
	require.NoError(t, err)
	result, err := svc.Login(ctx, LoginInput{Email: "ana@x.edu", Password: "p1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))

	// The signature still verifies, but the server-side record is gone.
	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_AuthenticateGarbageToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
