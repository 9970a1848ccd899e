package toolkit

import (
	"unicode/utf8"

	"github.com/dmitrymomot/tokenkit/handler"
	"github.com/dmitrymomot/tokenkit/pkg/codec"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
)

type encodingRequest struct {
	Scheme string `path:"scheme" json:"-"`
	Input  string `json:"input"`
}

type encodingResponse struct {
	Scheme codec.Scheme `json:"scheme"`
	Output string       `json:"output"`
	// Binary is set when decoded bytes are not valid UTF-8; Output then
	// holds them hex encoded.
	Binary bool `json:"binary,omitempty"`
}

func (a *api) listEncodings(handler.Context, struct{}) handler.Response {
	return handler.JSON(map[string][]codec.Scheme{"schemes": codec.Schemes()})
}

func (a *api) encode(ctx handler.Context, req encodingRequest) handler.Response {
	scheme, err := codec.ParseScheme(req.Scheme)
	if err != nil {
		return handler.Error(err)
	}
	out, err := codec.Encode(scheme, []byte(req.Input))
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(encodingResponse{Scheme: scheme, Output: out})
}

func (a *api) decode(ctx handler.Context, req encodingRequest) handler.Response {
	scheme, err := codec.ParseScheme(req.Scheme)
	if err != nil {
		return handler.Error(err)
	}
	data, err := codec.Decode(scheme, req.Input)
	if err != nil {
		a.log.DebugContext(ctx, "decode rejected", logger.Scheme(string(scheme)), logger.Error(err))
		return handler.Error(err)
	}

	if !utf8.Valid(data) {
		return handler.JSON(encodingResponse{Scheme: scheme, Output: codec.EncodeHex(data), Binary: true})
	}
	return handler.JSON(encodingResponse{Scheme: scheme, Output: string(data)})
}
