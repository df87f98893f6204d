// Package accountpb describes the account.v1.Accounts gRPC service. Requests
// and responses are google.protobuf.Struct messages keyed by JSON field names.
package accountpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "account.v1.Accounts"

const (
	Accounts_Register_FullMethodName          = "/account.v1.Accounts/Register"
	Accounts_GetAccount_FullMethodName        = "/account.v1.Accounts/GetAccount"
	Accounts_UpdatePhoneNumber_FullMethodName = "/account.v1.Accounts/UpdatePhoneNumber"
	Accounts_IssueVerification_FullMethodName = "/account.v1.Accounts/IssueVerification"
	Accounts_VerifyEmail_FullMethodName       = "/account.v1.Accounts/VerifyEmail"
	Accounts_SetPassword_FullMethodName       = "/account.v1.Accounts/SetPassword"
	Accounts_Login_FullMethodName             = "/account.v1.Accounts/Login"
)

// AccountsServer is the server API for the Accounts service.
type AccountsServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePhoneNumber(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IssueVerification(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyEmail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AccountsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Accounts_ServiceDesc is the grpc.ServiceDesc for the Accounts service.
var Accounts_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(Accounts_Register_FullMethodName, AccountsServer.Register),
		},
		{
			MethodName: "GetAccount",
			Handler:    unaryHandler(Accounts_GetAccount_FullMethodName, AccountsServer.GetAccount),
		},
		{
			MethodName: "UpdatePhoneNumber",
			Handler:    unaryHandler(Accounts_UpdatePhoneNumber_FullMethodName, AccountsServer.UpdatePhoneNumber),
		},
		{
			MethodName: "IssueVerification",
			Handler:    unaryHandler(Accounts_IssueVerification_FullMethodName, AccountsServer.IssueVerification),
		},
		{
			MethodName: "VerifyEmail",
			Handler:    unaryHandler(Accounts_VerifyEmail_FullMethodName, AccountsServer.VerifyEmail),
		},
		{
			MethodName: "SetPassword",
			Handler:    unaryHandler(Accounts_SetPassword_FullMethodName, AccountsServer.SetPassword),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(Accounts_Login_FullMethodName, AccountsServer.Login),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "account/v1/accounts.proto",
}

// RegisterAccountsServer registers srv on s.
func RegisterAccountsServer(s grpc.ServiceRegistrar, srv AccountsServer) {
	s.RegisterService(&Accounts_ServiceDesc, srv)
}

// AccountsClient is the client API for the Accounts service.
type AccountsClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountsClient(cc grpc.ClientConnInterface) *AccountsClient {
	return &AccountsClient{cc: cc}
}

// Call invokes fullMethod with in and returns the response struct.
func (c *AccountsClient) Call(ctx context.Context, fullMethod string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
