package grpcapi

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type sessionKey struct{}

func sessionFrom(ctx context.Context) types.Session {
	sess, _ := ctx.Value(sessionKey{}).(types.Session)
	return sess
}

// authenticator reads a Bearer token from the "authorization" metadata key.
// Calls without one proceed anonymously.
type authenticator struct {
	auth *service.AuthService
}

func (a *authenticator) withSession(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx, nil
	}
	vals := md.Get("authorization")
	if len(vals) == 0 || vals[0] == "" {
		return ctx, nil
	}

	scheme, token, ok := strings.Cut(vals[0], " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, toStatus(service.ErrUnauthenticated)
	}
	sess, err := a.auth.ParseToken(strings.TrimSpace(token))
	if err != nil {
		return nil, toStatus(err)
	}
	return context.WithValue(ctx, sessionKey{}, sess), nil
}

func (a *authenticator) unary(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := a.withSession(ctx)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

func (a *authenticator) stream(srv any, stream grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := a.withSession(stream.Context())
	if err != nil {
		return err
	}
	return handler(srv, &wrappedServerStream{ServerStream: stream, ctx: ctx})
}

// wrappedServerStream overrides the context for a gRPC stream.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
