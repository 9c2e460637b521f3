package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/user"
)

const contextClaimsKey = "claims"

type Claims struct {
	jwt.StandardClaims
	IsAdmin   bool     `json:"isAdmin"`
	IsTeacher bool     `json:"isTeacher"`
	Roles     []string `json:"roles,omitempty"`
}

var appJWTConfig = middleware.JWTConfig{
	Claims:     new(Claims),
	SigningKey: []byte(core.Conf.SecretKey),
	ContextKey: contextClaimsKey,
}

func GetUserClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.Itoa(usr.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
		},
		IsAdmin:   usr.IsAdmin(),
		IsTeacher: usr.IsTeacher(),
		Roles:     usr.Roles,
	}
}

func GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(appJWTConfig.SigningKey.([]byte))
	return signed, errors.Wrap(err, "signing token")
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextClaimsKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errors.New("claims not found in context")
}

type authAPI struct {
	svc *user.Service
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service) {
	api := authAPI{svc: svc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (api authAPI) login(ctx echo.Context) error {
	var req user.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	usr, err := api.authenticate(ctx, req)
	if err != nil {
		return err
	}
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, User: usr})
}

var errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "Invalid username/email or password")

func (api authAPI) authenticate(ctx echo.Context, req user.LoginRequest) (user.User, error) {
	usr, err := api.svc.GetByUsernameOrEmail(ctx.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, errAuthenticationFailed
		}
		return user.User{}, err
	}
	if !usr.IsActive {
		return user.User{}, errAuthenticationFailed
	}
	if err = usr.CheckPassword(req.Password); err != nil {
		return user.User{}, errAuthenticationFailed
	}
	return api.svc.SetLastLogin(ctx.Request().Context(), usr)
}

func (api authAPI) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), uid)
	if err != nil {
		return err
	}
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, User: usr})
}
