package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gml/skins/internal/version"
)

const issuer = "skins"

var now = time.Now
var signingMethod = jwt.SigningMethodHS256

type Scope string

const (
	// TexturesScope allows to upload and remove textures
	TexturesScope Scope = "textures"
	// ClassifyScope allows to classify arbitrary textures without storing them
	ClassifyScope Scope = "classify"
)

var validScopes = []Scope{
	TexturesScope,
	ClassifyScope,
}

var MissingAuthenticationError = errors.New("authentication value not provided")
var InvalidTokenError = errors.New("passed authentication value is invalid")
var MissingScopeError = errors.New("the token doesn't have the scope to perform the action")

// Grant is what a verified token allows its bearer to do
type Grant struct {
	Scopes []Scope
	// Username binds the grant to the textures of a single user. Empty value means any user
	Username string
}

func (g *Grant) AllowsUser(username string) bool {
	return g.Username == "" || g.Username == username
}

type grantKey struct{}

func WithGrant(ctx context.Context, grant *Grant) context.Context {
	return context.WithValue(ctx, grantKey{}, grant)
}

func GrantFromContext(ctx context.Context) *Grant {
	grant, _ := ctx.Value(grantKey{}).(*Grant)
	return grant
}

type claims struct {
	jwt.RegisteredClaims
	Scopes []Scope `json:"scopes"`
}

func NewJwt(key []byte) *Jwt {
	return &Jwt{
		Key: key,
	}
}

type Jwt struct {
	Key []byte
}

// NewToken issues a token which isn't bound to any user
func (t *Jwt) NewToken(scopes ...Scope) (string, error) {
	return t.NewUserToken("", scopes...)
}

// NewUserToken issues a token which can manage only the textures of the passed user
func (t *Jwt) NewUserToken(username string, scopes ...Scope) (string, error) {
	if len(scopes) == 0 {
		return "", errors.New("you must specify at least one scope")
	}

	if i := slices.IndexFunc(scopes, func(s Scope) bool { return !slices.Contains(validScopes, s) }); i != -1 {
		return "", fmt.Errorf("unknown scope %s", scopes[i])
	}

	token := jwt.NewWithClaims(signingMethod, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now()),
		},
		Scopes: scopes,
	})
	token.Header["v"] = version.MajorVersion

	return token.SignedString(t.Key)
}

func (t *Jwt) Authenticate(req *http.Request, scope Scope) (*Grant, error) {
	header := req.Header.Get("Authorization")
	if header == "" {
		return nil, MissingAuthenticationError
	}

	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil, InvalidTokenError
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(issuer),
	)
	token, err := parser.ParseWithClaims(header[len(prefix):], &claims{}, func(*jwt.Token) (any, error) {
		return t.Key, nil
	})
	if err != nil {
		return nil, errors.Join(InvalidTokenError, err)
	}

	if _, ok := token.Header["v"]; !ok {
		return nil, errors.Join(InvalidTokenError, errors.New("missing v header"))
	}

	c := token.Claims.(*claims)
	if !slices.Contains(c.Scopes, scope) {
		return nil, MissingScopeError
	}

	return &Grant{
		Scopes:   c.Scopes,
		Username: c.Subject,
	}, nil
}
