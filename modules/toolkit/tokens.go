package toolkit

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/tokenkit/handler"
	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

type generateRequest struct {
	Payload jwt.Payload `json:"payload"`
	Secret  string      `json:"secret"`
	// ExpiresIn is the access token lifetime in seconds; 0 means no expiry.
	ExpiresIn int64 `json:"expires_in"`
}

type decodeTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenRequest struct {
	Token  string `json:"token"`
	Secret string `json:"secret"`
}

type verifyTokenResponse struct {
	Valid bool `json:"valid"`
	// Expired is reported for structurally valid tokens carrying exp.
	Expired *bool `json:"expired,omitempty"`
}

// maxExpiresIn is the largest expires_in, in seconds, whose refresh lifetime
// fits in a time.Duration.
const maxExpiresIn = int64(jwt.MaxPairLifetime / time.Second)

func (a *api) generate(ctx handler.Context, req generateRequest) handler.Response {
	if req.ExpiresIn < 0 || req.ExpiresIn > maxExpiresIn {
		return handler.Error(errInvalidExpiry)
	}

	pair, err := a.svc.Generate(ctx, tokens.GenerateRequest{
		Payload:   req.Payload,
		Secret:    req.Secret,
		ExpiresIn: time.Duration(req.ExpiresIn) * time.Second,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSONWithStatus(http.StatusCreated, pair)
}

func (a *api) decodeToken(ctx handler.Context, req decodeTokenRequest) handler.Response {
	if req.Token == "" {
		return handler.Error(errMissingToken)
	}
	decoded, err := a.svc.Decode(req.Token)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(decoded)
}

func (a *api) verifyToken(ctx handler.Context, req verifyTokenRequest) handler.Response {
	if req.Token == "" {
		return handler.Error(errMissingToken)
	}
	valid, err := a.svc.Verify(ctx, req.Token, req.Secret)
	if err != nil {
		return handler.Error(err)
	}

	resp := verifyTokenResponse{Valid: valid}
	if decoded, err := a.svc.Decode(req.Token); err == nil {
		if _, ok := decoded.Payload.ExpiresAt(); ok {
			expired := decoded.Payload.Expired(time.Now())
			resp.Expired = &expired
		}
	}
	return handler.JSON(resp)
}
