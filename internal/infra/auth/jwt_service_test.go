package auth

import (
	"testing"
	"time"

	"marketplace/config"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_very_long_for_testing"

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func newTestJWTService(t *testing.T, ttl time.Duration) (*jwtService, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := newJWTService(testSecret, ttl, clock.Now)
	require.NoError(t, err)

	return svc, clock
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc, clock := newTestJWTService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, clock.current.Equal(claims.IssuedAt))
	assert.True(t, clock.current.Add(time.Hour).Equal(claims.ExpiresAt.Time))
	assert.Equal(t, time.Hour, svc.ExpiresIn())
}

func TestJWTService_ExpiryWindow(t *testing.T) {
	ttl := 7 * 24 * time.Hour
	svc, clock := newTestJWTService(t, ttl)
	issuedAt := clock.current

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	clock.current = issuedAt.Add(ttl - time.Second)
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	clock.current = issuedAt.Add(ttl)
	_, err = svc.Verify(token)
	assert.NoError(t, err, "exp itself is still valid")

	clock.current = issuedAt.Add(ttl + time.Millisecond)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_KeepsSubSecondIssuedAt(t *testing.T) {
	for _, nanos := range []int{200_456_789, 123_000_000, 999_000_000, 1_000_000} {
		svc, clock := newTestJWTService(t, time.Hour)
		clock.current = time.Unix(1700000000, int64(nanos)).UTC()

		token, err := svc.Issue(uuid.New())
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.True(t, clock.current.Truncate(time.Millisecond).Equal(claims.IssuedAt), "iat %s", claims.IssuedAt)
	}
}

func TestJWTService_TokenFromBeforePasswordChangeInSameSecond(t *testing.T) {
	svc, clock := newTestJWTService(t, time.Hour)
	clock.current = time.Unix(1700000000, 200_000_000).UTC()
	user := &entity.User{ID: uuid.New(), CreatedAt: clock.current.Add(-24 * time.Hour)}

	stale, err := svc.Issue(user.ID)
	require.NoError(t, err)

	clock.current = clock.current.Add(700 * time.Millisecond)
	user.SetPasswordHash("new-hash", clock.current)

	fresh, err := svc.Issue(user.ID)
	require.NoError(t, err)

	claims, err := svc.Verify(stale)
	require.NoError(t, err)
	assert.True(t, user.TokenIssuedBeforePasswordChange(claims.IssuedAt))

	claims, err = svc.Verify(fresh)
	require.NoError(t, err)
	assert.False(t, user.TokenIssuedBeforePasswordChange(claims.IssuedAt))
}

func TestJWTService_WrongSecretIsInvalid(t *testing.T) {
	svc, _ := newTestJWTService(t, time.Hour)
	other, err := newJWTService("another_secret", time.Hour, svc.now)
	require.NoError(t, err)

	token, err := other.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	svc, clock := newTestJWTService(t, time.Hour)
	other, err := newJWTService("another_secret", time.Hour, clock.Now)
	require.NoError(t, err)

	token, err := other.Issue(uuid.New())
	require.NoError(t, err)

	clock.current = clock.current.Add(2 * time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc, clock := newTestJWTService(t, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(clock.current),
		ExpiresAt: jwt.NewNumericDate(clock.current.Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_RejectsBadSubjectAndMissingIat(t *testing.T) {
	svc, clock := newTestJWTService(t, time.Hour)

	sign := func(claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		return token
	}

	_, err := svc.Verify(sign(jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		IssuedAt:  jwt.NewNumericDate(clock.current),
		ExpiresAt: jwt.NewNumericDate(clock.current.Add(time.Hour)),
	}))
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	_, err = svc.Verify(sign(jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(clock.current.Add(time.Hour)),
	}))
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	_, err = svc.Verify(sign(jwt.RegisteredClaims{
		Subject:  uuid.New().String(),
		IssuedAt: jwt.NewNumericDate(clock.current),
	}))
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc, _ := newTestJWTService(t, time.Hour)

	for _, token := range []string{"", "clearly-not-a-jwt-token-format", "a.b.c"} {
		claims, err := svc.Verify(token)
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
		assert.Nil(t, claims)
	}
}

func TestNewJWTService_Config(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: testSecret, ExpiresIn: "30m", CookieExpiresIn: 1}

	svc, err := NewJWTService(JWTServiceParams{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, svc.ExpiresIn())

	cfg.JWT.Secret = ""
	_, err = NewJWTService(JWTServiceParams{Config: cfg})
	assert.Error(t, err)

	cfg.JWT = config.JWTConfig{Secret: testSecret, ExpiresIn: "7 days"}
	_, err = NewJWTService(JWTServiceParams{Config: cfg})
	assert.Error(t, err)
}
