package tokens

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/svc/history"
)

// GenerateRequest describes a token pair to create.
type GenerateRequest struct {
	Payload   jwt.Payload
	Secret    string
	ExpiresIn time.Duration
}

// Service coordinates the token engine and the history store.
type Service struct {
	engine *jwt.Engine
	store  history.Store
	log    *slog.Logger
}

type Option func(*Service)

// WithEngine replaces the default token engine.
func WithEngine(e *jwt.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithStore sets the history backend. Defaults to a MemoryStore.
func WithStore(store history.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		engine: jwt.NewEngine(),
		store:  history.NewMemoryStore(),
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("tokens"))
	return s
}

// Generate creates an access/refresh pair and records both tokens.
// A history failure is logged and does not fail generation.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (jwt.TokenPair, error) {
	if req.Secret == "" {
		return jwt.TokenPair{}, ErrMissingSecret
	}
	if err := req.Payload.Validate(); err != nil {
		return jwt.TokenPair{}, err
	}

	pair, err := s.engine.GeneratePair(ctx, req.Payload, req.Secret, req.ExpiresIn)
	if err != nil {
		return jwt.TokenPair{}, err
	}
	tokensGenerated.WithLabelValues(jwt.TokenTypeAccess).Inc()
	tokensGenerated.WithLabelValues(jwt.TokenTypeRefresh).Inc()

	if err := s.store.Save(ctx, history.RecordsFromPair(pair)...); err != nil {
		s.log.WarnContext(ctx, "failed to save token history", logger.Error(err))
	}

	s.log.DebugContext(ctx, "token pair generated",
		logger.Token(pair.AccessToken),
		slog.Duration("expires_in", req.ExpiresIn),
	)
	return pair, nil
}

// Decode splits and parses token without checking its signature.
func (s *Service) Decode(token string) (*jwt.DecodedToken, error) {
	decoded, ok := jwt.Decode(token)
	if !ok {
		tokenDecodes.WithLabelValues(resultMalformed).Inc()
		return nil, ErrMalformedToken
	}
	tokenDecodes.WithLabelValues(resultOK).Inc()
	return decoded, nil
}

// Verify checks the token signature against secret. Malformed tokens are
// reported as invalid, not as errors.
func (s *Service) Verify(ctx context.Context, token, secret string) (bool, error) {
	if secret == "" {
		return false, ErrMissingSecret
	}

	valid, err := s.engine.Verify(ctx, token, secret)
	switch {
	case err != nil:
		tokenVerifications.WithLabelValues(resultError).Inc()
		s.log.ErrorContext(ctx, "token verification failed", logger.Error(err))
		return false, err
	case valid:
		tokenVerifications.WithLabelValues(resultValid).Inc()
	default:
		tokenVerifications.WithLabelValues(resultInvalid).Inc()
	}
	return valid, nil
}

// History lists recorded tokens, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]history.Record, error) {
	return s.store.List(ctx, limit)
}

func (s *Service) HistoryRecord(ctx context.Context, id uuid.UUID) (history.Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) DeleteHistory(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "history record deleted", logger.RecordID(id))
	return nil
}

func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "history cleared")
	return nil
}
