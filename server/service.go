package server

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tailored-agentic-units/supra/core/response"
	"github.com/tailored-agentic-units/supra/engine"
	"github.com/tailored-agentic-units/supra/oracle"
)

// Service implements the session RPCs over a Manager.
type Service struct {
	manager *Manager
}

// NewService creates a Service over m.
func NewService(m *Manager) *Service {
	return &Service{manager: m}
}

func (s *Service) Start(ctx context.Context, req *connect.Request[StartRequest]) (*connect.Response[StartResponse], error) {
	e, id, err := s.manager.Create(ctx, req.Msg.Preferences)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&StartResponse{SessionID: id, State: e.State()}), nil
}

func (s *Service) Chat(ctx context.Context, req *connect.Request[ChatRequest]) (*connect.Response[response.Response], error) {
	e, err := s.manager.Get(req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}

	var attachment *oracle.Attachment
	if len(req.Msg.Attachment) > 0 {
		attachment = &oracle.Attachment{Data: req.Msg.Attachment, MIMEType: req.Msg.MIMEType}
	}

	r, err := e.Chat(ctx, req.Msg.Text, attachment)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(r), nil
}

func (s *Service) State(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[engine.Snapshot], error) {
	e, err := s.manager.Get(req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	snapshot := e.State()
	return connect.NewResponse(&snapshot), nil
}

func (s *Service) Close(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[CloseResponse], error) {
	if err := s.manager.Close(req.Msg.SessionID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&CloseResponse{}), nil
}

// NewHandler mounts the session service on a mux. When gatherer is non-nil
// its metrics are served at /metrics.
func NewHandler(s *Service, gatherer prometheus.Gatherer, opts ...connect.HandlerOption) http.Handler {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(StartProcedure, connect.NewUnaryHandler(StartProcedure, s.Start, opts...))
	mux.Handle(ChatProcedure, connect.NewUnaryHandler(ChatProcedure, s.Chat, opts...))
	mux.Handle(StateProcedure, connect.NewUnaryHandler(StateProcedure, s.State, opts...))
	mux.Handle(CloseProcedure, connect.NewUnaryHandler(CloseProcedure, s.Close, opts...))

	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
