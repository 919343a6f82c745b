package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nutripae-rh/pkg/config"
	apperrors "nutripae-rh/pkg/errors"
)

const (
	checkAuthorizationPath = "/authorization/check-authorization"
	maxAuthResponseBytes   = 1 << 20
)

type checkRequest struct {
	Endpoint            string   `json:"endpoint"`
	Method              string   `json:"method"`
	RequiredPermissions []string `json:"required_permissions"`
}

type checkResponse struct {
	Authorized         bool     `json:"authorized"`
	UserID             userID   `json:"user_id"`
	UserEmail          string   `json:"user_email"`
	MissingPermissions []string `json:"missing_permissions"`
}

type errorDetail struct {
	Detail interface{} `json:"detail"`
}

// userID accepts both numeric and string ids from the auth service.
type userID string

func (u *userID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = userID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id is neither a string nor a number: %w", err)
	}
	*u = userID(n.String())
	return nil
}

// Gateway asks the NutriPAE-AUTH service whether a bearer token may perform an action on an endpoint.
// It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
	module     string
	apiPrefix  string
	cfg        config.AuthServiceConfig
	logger     *zap.Logger
}

func NewGateway(cfg config.AuthServiceConfig, apiPrefix string, httpClient *http.Client, logger *zap.Logger) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Gateway{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		module:     cfg.ModuleIdentifier,
		apiPrefix:  apiPrefix,
		cfg:        cfg,
		logger:     logger.Named("authz_gateway"),
	}
}

// Endpoint is the identifier the auth service keys its policies on: module id plus the
// request path without the API prefix.
func (g *Gateway) Endpoint(path string) string {
	return g.module + strings.TrimPrefix(path, g.apiPrefix)
}

// Check returns the caller identity when the auth service authorizes the request. Every failure
// is reported as one of Unauthenticated, Forbidden, ServiceUnavailable or InternalAuthorization.
func (g *Gateway) Check(ctx context.Context, perm Permission, method, path, token string) (identity *Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("panic during authorization check", zap.Any("panic", r), zap.String("path", path))
			identity = nil
			err = apperrors.Wrap(apperrors.KindInternalAuthorization, apperrors.ErrInternalAuthorization.Message, fmt.Errorf("panic: %v", r))
		}
	}()

	if !perm.Valid() {
		return nil, apperrors.Wrap(apperrors.KindInternalAuthorization, apperrors.ErrInternalAuthorization.Message,
			fmt.Errorf("unknown permission %d", int(perm)))
	}

	payload := checkRequest{
		Endpoint:            g.Endpoint(path),
		Method:              method,
		RequiredPermissions: []string{perm.Tag(g.module)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternalAuthorization, apperrors.ErrInternalAuthorization.Message, err)
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+checkAuthorizationPath, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternalAuthorization, apperrors.ErrInternalAuthorization.Message, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if requestID, ok := requestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	g.logger.Debug("checking authorization",
		zap.String("endpoint", payload.Endpoint),
		zap.String("method", method),
		zap.Strings("required_permissions", payload.RequiredPermissions),
	)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			g.logger.Error("auth service timeout", zap.Duration("timeout", g.cfg.Timeout), zap.Error(err))
			return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, "Authentication service timeout", err)
		}
		g.logger.Error("auth service request failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, apperrors.ErrServiceUnavailable.Message, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, "Authentication service timeout", err)
		}
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, apperrors.ErrServiceUnavailable.Message, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return g.decodeDecision(raw)
	case resp.StatusCode == http.StatusUnauthorized:
		g.logger.Warn("auth service rejected token", zap.String("endpoint", payload.Endpoint))
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, unauthorizedDetail(raw), nil)
	case resp.StatusCode == http.StatusForbidden:
		g.logger.Warn("auth service denied access", zap.String("endpoint", payload.Endpoint))
		return nil, apperrors.ErrForbidden
	case resp.StatusCode == http.StatusInternalServerError:
		g.logger.Error("auth service internal error", zap.ByteString("body", raw))
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, "Authentication service error",
			fmt.Errorf("auth service returned %d", resp.StatusCode))
	default:
		g.logger.Error("unexpected auth service status", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, apperrors.ErrServiceUnavailable.Message,
			fmt.Errorf("auth service returned %d", resp.StatusCode))
	}
}

func (g *Gateway) decodeDecision(raw []byte) (*Identity, error) {
	var decision checkResponse
	if err := json.Unmarshal(raw, &decision); err != nil {
		g.logger.Error("undecodable auth service response", zap.Error(err), zap.ByteString("body", raw))
		return nil, apperrors.Wrap(apperrors.KindInternalAuthorization, apperrors.ErrInternalAuthorization.Message, err)
	}

	if !decision.Authorized {
		g.logger.Warn("missing permissions", zap.Strings("missing", decision.MissingPermissions))
		if len(decision.MissingPermissions) == 0 {
			return nil, apperrors.ErrForbidden
		}
		return nil, apperrors.Wrap(apperrors.KindForbidden,
			"You do not have enough permissions. Missing: "+strings.Join(decision.MissingPermissions, ", "), nil)
	}

	return &Identity{UserID: string(decision.UserID), UserEmail: decision.UserEmail}, nil
}

func unauthorizedDetail(raw []byte) string {
	const fallback = "Invalid or expired token"

	var body errorDetail
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == nil {
		return fallback
	}
	if d, ok := body.Detail.(string); ok && d != "" {
		return d
	}
	return fallback
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
