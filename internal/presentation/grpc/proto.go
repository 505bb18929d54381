package grpc

// proto.go defines the gRPC server interface derived from bib/creditrisk/v1/creditrisk.proto.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "bib.creditrisk.v1.CreditRiskService"

// CreditRiskServiceServer is the server API for CreditRiskService.
type CreditRiskServiceServer interface {
	ScoreApplicant(context.Context, *ScoreApplicantRequest) (*ScoreApplicantResponse, error)
	AssessApplicant(context.Context, *AssessApplicantRequest) (*AssessApplicantResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error)
	mustEmbedUnimplementedCreditRiskServiceServer()
}

// UnimplementedCreditRiskServiceServer provides forward-compatible default implementations.
type UnimplementedCreditRiskServiceServer struct{}

func (UnimplementedCreditRiskServiceServer) ScoreApplicant(context.Context, *ScoreApplicantRequest) (*ScoreApplicantResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreApplicant not implemented")
}
func (UnimplementedCreditRiskServiceServer) AssessApplicant(context.Context, *AssessApplicantRequest) (*AssessApplicantResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessApplicant not implemented")
}
func (UnimplementedCreditRiskServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedCreditRiskServiceServer) ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListAssessments not implemented")
}
func (UnimplementedCreditRiskServiceServer) mustEmbedUnimplementedCreditRiskServiceServer() {}

// RegisterCreditRiskServiceServer registers the CreditRiskServiceServer with the gRPC server.
func RegisterCreditRiskServiceServer(s grpclib.ServiceRegistrar, srv CreditRiskServiceServer) {
	s.RegisterService(&_CreditRiskService_serviceDesc, srv)
}

var _CreditRiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CreditRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreApplicant", Handler: _CreditRiskService_ScoreApplicant_Handler},
		{MethodName: "AssessApplicant", Handler: _CreditRiskService_AssessApplicant_Handler},
		{MethodName: "GetAssessment", Handler: _CreditRiskService_GetAssessment_Handler},
		{MethodName: "ListAssessments", Handler: _CreditRiskService_ListAssessments_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/creditrisk/v1/creditrisk.proto",
}

func _CreditRiskService_ScoreApplicant_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ScoreApplicantRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditRiskServiceServer).ScoreApplicant(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ScoreApplicant"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CreditRiskServiceServer).ScoreApplicant(ctx, req.(*ScoreApplicantRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CreditRiskService_AssessApplicant_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(AssessApplicantRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditRiskServiceServer).AssessApplicant(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/AssessApplicant"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CreditRiskServiceServer).AssessApplicant(ctx, req.(*AssessApplicantRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CreditRiskService_GetAssessment_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(GetAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditRiskServiceServer).GetAssessment(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetAssessment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CreditRiskServiceServer).GetAssessment(ctx, req.(*GetAssessmentRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CreditRiskService_ListAssessments_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ListAssessmentsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditRiskServiceServer).ListAssessments(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListAssessments"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CreditRiskServiceServer).ListAssessments(ctx, req.(*ListAssessmentsRequest))
	}
	return interceptor(ctx, req, info, handler)
}
