// Package grpc exposes LinkService over gRPC as the shortify.v1.Links
// service. Messages are protobuf well-known types, so clients need no
// generated code: records travel as structpb.Struct with the same field
// names as the persisted JSON.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/intercepters"
	"github.com/atinyakov/shortify/internal/models"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "shortify.v1.Links"

// errorDomain tags the ErrorInfo detail attached to creation failures.
const errorDomain = "shortify"

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	addr       string
	logger     *zap.Logger
}

// New creates a gRPC server for svc that will listen on addr.
func New(svc service.LinkServiceIface, logger *zap.Logger, addr string) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
		),
	)

	s.RegisterService(&LinksServiceDesc, &LinksServer{Service: svc})

	return &Server{
		grpcServer: s,
		addr:       addr,
		logger:     logger,
	}
}

// Start listens on the configured address and serves until stopped.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Error("gRPC server failed to listen", zap.String("address", s.addr), zap.Error(err))
		return err
	}

	s.logger.Info("gRPC server listening", zap.String("address", s.addr))
	return s.Serve(lis)
}

// Serve accepts connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop shuts down the server gracefully.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

// LinksHandler is the server side of shortify.v1.Links.
type LinksHandler interface {
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Suggest(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	List(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Delete(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	Resolve(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// LinksServiceDesc describes shortify.v1.Links for grpc.Server.RegisterService.
var LinksServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LinksHandler)(nil),
	Methods: []grpc.MethodDesc{
		unary[structpb.Struct]("Create", LinksHandler.Create),
		unary[wrapperspb.StringValue]("Suggest", LinksHandler.Suggest),
		unary[emptypb.Empty]("List", LinksHandler.List),
		unary[wrapperspb.StringValue]("Delete", LinksHandler.Delete),
		unary[wrapperspb.StringValue]("Resolve", LinksHandler.Resolve),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shortify/v1/links.proto",
}

func unary[Req any, PReq interface {
	*Req
	proto.Message
}, Resp any](name string, call func(LinksHandler, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}

			h := srv.(LinksHandler)
			if interceptor == nil {
				return call(h, ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(h, ctx, req.(PReq))
			})
		},
	}
}

// LinksServer implements LinksHandler on top of a LinkServiceIface.
type LinksServer struct {
	Service service.LinkServiceIface
}

// Create shortens a link. The request carries url, alias and aiGenerated;
// the reply carries record and, when the alias was dropped, notice.
func (s *LinksServer) Create(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	req := models.CreateRequest{
		URL:         f["url"].GetStringValue(),
		Alias:       f["alias"].GetStringValue(),
		AIGenerated: f["aiGenerated"].GetBoolValue(),
	}

	switch o := s.Service.Create(ctx, req).(type) {
	case service.Success:
		return createReply(o.Record, ""), nil
	case service.SuccessWithNotice:
		return createReply(o.Record, o.Notice), nil
	case service.Failure:
		return nil, failureStatus(o)
	default:
		return nil, status.Error(codes.Internal, "unknown outcome")
	}
}

func (s *LinksServer) Suggest(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	alias, err := s.Service.Suggest(ctx, in.GetValue())
	if err != nil {
		var f service.Failure
		if errors.As(err, &f) {
			return nil, failureStatus(f)
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.String(alias), nil
}

func (s *LinksServer) List(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	return recordList(s.Service.List(ctx)), nil
}

// Delete removes a record by id and returns the records that remain.
func (s *LinksServer) Delete(ctx context.Context, in *wrapperspb.StringValue) (*structpb.ListValue, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	links, err := s.Service.Delete(ctx, in.GetValue())
	if err != nil {
		return nil, status.Error(codes.Internal, "Failed to delete link.")
	}
	return recordList(links), nil
}

func (s *LinksServer) Resolve(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	link, err := s.Service.Resolve(ctx, in.GetValue())
	switch {
	case errors.Is(err, service.ErrNoAlias):
		return nil, status.Error(codes.InvalidArgument, "No alias provided.")
	case errors.Is(err, service.ErrLinkNotFound):
		return nil, status.Errorf(codes.NotFound, "Link /%s not found.", in.GetValue())
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}
	return recordStruct(link), nil
}

func codeFor(kind service.FailureKind) codes.Code {
	switch kind {
	case service.FailureInvalidURLFormat:
		return codes.InvalidArgument
	case service.FailureAliasTaken:
		return codes.AlreadyExists
	case service.FailureInvalidURL:
		return codes.FailedPrecondition
	case service.FailureNetwork:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// failureStatus keeps the user-facing message as the status message and
// the failure kind as an ErrorInfo reason.
func failureStatus(f service.Failure) error {
	st := status.New(codeFor(f.Kind), f.Message)
	if detailed, err := st.WithDetails(&errdetails.ErrorInfo{Reason: f.Kind.String(), Domain: errorDomain}); err == nil {
		st = detailed
	}
	return st.Err()
}

// FailureKind returns the failure kind name carried by err, or "" when
// err has none.
func FailureKind(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info.GetReason()
		}
	}
	return ""
}

func createReply(r models.LinkRecord, notice string) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"record": structpb.NewStructValue(recordStruct(r)),
	}
	if notice != "" {
		fields["notice"] = structpb.NewStringValue(notice)
	}
	return &structpb.Struct{Fields: fields}
}

func recordStruct(r models.LinkRecord) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":          structpb.NewStringValue(r.ID),
		"originalUrl": structpb.NewStringValue(r.OriginalURL),
		"alias":       structpb.NewStringValue(r.Alias),
		"shortUrl":    structpb.NewStringValue(r.ShortURL),
		"createdAt":   structpb.NewNumberValue(float64(r.CreatedAt)),
		"clicks":      structpb.NewNumberValue(float64(r.Clicks)),
		"aiGenerated": structpb.NewBoolValue(r.AIGenerated),
	}}
}

func recordFromStruct(s *structpb.Struct) models.LinkRecord {
	f := s.GetFields()
	return models.LinkRecord{
		ID:          f["id"].GetStringValue(),
		OriginalURL: f["originalUrl"].GetStringValue(),
		Alias:       f["alias"].GetStringValue(),
		ShortURL:    f["shortUrl"].GetStringValue(),
		CreatedAt:   int64(f["createdAt"].GetNumberValue()),
		Clicks:      int(f["clicks"].GetNumberValue()),
		AIGenerated: f["aiGenerated"].GetBoolValue(),
	}
}

func recordList(links []models.LinkRecord) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(links))
	for _, l := range links {
		values = append(values, structpb.NewStructValue(recordStruct(l)))
	}
	return &structpb.ListValue{Values: values}
}

func recordsFromList(l *structpb.ListValue) []models.LinkRecord {
	links := make([]models.LinkRecord, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		links = append(links, recordFromStruct(v.GetStructValue()))
	}
	return links
}
