package auth

import (
	"time"

	"marketplace/config"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Timestamps are issued to the millisecond so a token minted just before a password
// change in the same second is told apart from one minted after it. Claims are
// serialized with microsecond digits, which leaves room to undo float64 parse error.
func init() {
	jwt.TimePrecision = time.Microsecond
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// JWTServiceParams holds dependencies for the token service, injected by Fx.
type JWTServiceParams struct {
	fx.In

	Config *config.Config
}

// NewJWTService is the constructor for jwtService. The secret and lifetime come from the jwt config section.
func NewJWTService(params JWTServiceParams) (service.TokenService, error) {
	ttl, err := params.Config.JWT.TokenTTL()
	if err != nil {
		return nil, errors.Wrap(err, "jwt expiresIn")
	}

	return newJWTService(params.Config.JWT.Secret, ttl, time.Now)
}

func newJWTService(secret string, ttl time.Duration, now func() time.Time) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt lifetime must be positive")
	}

	return &jwtService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue signs {sub, iat, exp} for the user.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	issuedAt := s.now().UTC().Truncate(time.Millisecond)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Verify checks the signature before the claims. exp is inclusive at millisecond
// precision, hence the truncated clock plus one millisecond of leeway.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	registered := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, registered,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Millisecond),
		jwt.WithTimeFunc(func() time.Time { return s.now().Truncate(time.Millisecond) }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.WithStack(service.ErrTokenExpired)
		}

		return nil, errors.Wrap(service.ErrTokenInvalid, err.Error())
	}

	userID, err := uuid.Parse(registered.Subject)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "subject is not a user id")
	}
	if registered.IssuedAt == nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "missing iat")
	}

	return &service.Claims{
		UserID:           userID,
		IssuedAt:         registered.IssuedAt.Round(time.Millisecond).UTC(),
		RegisteredClaims: *registered,
	}, nil
}

// ExpiresIn returns the configured token lifetime.
func (s *jwtService) ExpiresIn() time.Duration {
	return s.ttl
}
