package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/account-server/internal/api/grpc/accountpb"
	"github.com/dtroode/account-server/internal/api/grpc/handler"
	"github.com/dtroode/account-server/internal/api/grpc/middleware"
	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
	"github.com/dtroode/account-server/internal/service"
)

// protectedMethods require a bearer token.
var protectedMethods = map[string]struct{}{
	accountpb.Accounts_UpdatePhoneNumber_FullMethodName: {},
}

// optionalAuthMethods accept a bearer token without requiring one. The
// handler decides whether the call needs the caller's identity.
var optionalAuthMethods = map[string]struct{}{
	accountpb.Accounts_SetPassword_FullMethodName: {},
}

// Router wires the Accounts service and its interceptors.
type Router struct {
	accountService *service.Account
	authService    *service.Auth
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	accountService *service.Account,
	authService *service.Auth,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		accountService: accountService,
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	_, ok := protectedMethods[c.FullMethod()]
	return ok
}

func acceptsAuth(_ context.Context, c interceptors.CallMeta) bool {
	_, ok := optionalAuthMethods[c.FullMethod()]
	return ok
}

// Register builds a gRPC server with logging, panic recovery and
// authentication for protected methods.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.handlePanic)),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.OptionalAuthFunc),
				selector.MatchFunc(acceptsAuth),
			),
		),
	)

	s := grpc.NewServer(opts...)
	r.registerAccountRoutes(s)

	return s
}

func (r *Router) registerAccountRoutes(server *grpc.Server) {
	accountHandler := handler.NewAccount(r.accountService, r.authService, r.contextManager, r.logger)
	accountpb.RegisterAccountsServer(server, accountHandler)
}

func (r *Router) handlePanic(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal server error")
}
