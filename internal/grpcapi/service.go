package grpcapi

import (
	"context"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Raj051299/cms-mobile-app/internal/cms/export"
	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

const ServiceName = "cms.v1.AttendanceService"

// Full method names, for clients invoking without generated stubs.
const (
	MethodResolveAction   = "/" + ServiceName + "/ResolveAction"
	MethodApplyAction     = "/" + ServiceName + "/ApplyAction"
	MethodInvite          = "/" + ServiceName + "/Invite"
	MethodGenerateReport  = "/" + ServiceName + "/GenerateReport"
	MethodWatchAttendance = "/" + ServiceName + "/WatchAttendance"
)

type attendanceService struct {
	logger  *log.Logger
	clock   *service.ClockEngine
	query   *service.AttendanceQuery
	reports *service.ReportService
}

// WatchStreamDesc describes the server-streaming WatchAttendance call.
var WatchStreamDesc = grpc.StreamDesc{
	StreamName:    "WatchAttendance",
	Handler:       watchAttendanceHandler,
	ServerStreams: true,
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ResolveAction", Handler: unaryHandler(MethodResolveAction, (*attendanceService).resolveAction)},
		{MethodName: "ApplyAction", Handler: unaryHandler(MethodApplyAction, (*attendanceService).applyAction)},
		{MethodName: "Invite", Handler: unaryHandler(MethodInvite, (*attendanceService).invite)},
		{MethodName: "GenerateReport", Handler: unaryHandler(MethodGenerateReport, (*attendanceService).generateReport)},
	},
	Streams:  []grpc.StreamDesc{WatchStreamDesc},
	Metadata: "cms/v1/attendance.proto",
}

type unaryMethod func(*attendanceService, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a Struct-in, Struct-out method to grpc.MethodDesc.
func unaryHandler(fullMethod string, fn unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		svc := srv.(*attendanceService)
		if interceptor == nil {
			return fn(svc, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return fn(svc, ctx, req.(*structpb.Struct))
		})
	}
}

func str(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func (s *attendanceService) resolveAction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	eventID, memberID := str(in, "event_id"), str(in, "member_id")
	action, err := s.clock.ResolveAction(ctx, sessionFrom(ctx), eventID, memberID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"event_id":  eventID,
		"member_id": memberID,
		"action":    string(action),
	})
}

func (s *attendanceService) applyAction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	eventID, memberID := str(in, "event_id"), str(in, "member_id")
	action := types.Action(str(in, "action"))
	sess := sessionFrom(ctx)

	if err := s.clock.ApplyAction(ctx, sess, eventID, memberID, str(in, "name"), action); err != nil {
		return nil, toStatus(err)
	}
	next, err := s.clock.ResolveAction(ctx, sess, eventID, memberID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"event_id":    eventID,
		"member_id":   memberID,
		"applied":     string(action),
		"next_action": string(next),
	})
}

func (s *attendanceService) invite(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.clock.Invite(ctx, sessionFrom(ctx), str(in, "event_id"), str(in, "member_id")); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func (s *attendanceService) generateReport(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := export.ReportRequestFromProto(in, s.reports.Location())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rep, err := s.reports.GenerateReport(ctx, sessionFrom(ctx), req)
	if err != nil {
		st := toStatus(err)
		if c := status.Code(st); c == codes.Internal || c == codes.Unavailable {
			s.logger.Printf("grpc generate report: %v", err)
		}
		return nil, st
	}
	return export.ReportToProto(rep)
}

// watchAttendanceHandler sends the current attendance of one event, then a
// full replacement after every change, until the client goes away.
func watchAttendanceHandler(srv any, stream grpc.ServerStream) error {
	s := srv.(*attendanceService)
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	ctx := stream.Context()
	eventID := str(in, "event_id")
	checkedIn := in.GetFields()["checked_in"].GetBoolValue()
	if err := service.AuthorizeAttendanceView(sessionFrom(ctx), checkedIn); err != nil {
		return toStatus(err)
	}

	sub, err := s.query.Subscribe(ctx, eventID, checkedIn)
	if err != nil {
		return toStatus(err)
	}
	defer sub.Cancel()

	for snap := range sub.All() {
		msg, err := export.AttendanceToProto(eventID, snap)
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		if err := stream.SendMsg(msg); err != nil {
			return err
		}
	}
	if err := sub.Err(); err != nil {
		return toStatus(err)
	}
	return nil
}
