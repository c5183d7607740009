package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/protocol"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
	"github.com/veriai-sys/veriai-go/protocol/coordinator"
)

// maxBodyOverhead is the room a request body gets on top of the
// response text it carries.
const maxBodyOverhead = 64 * 1024

// A VeriAIServer represents the verification coordinator server.
// It wraps a Coordinator with an HTTP layer which
// handles requests/responses and their encoding/decoding.
// A VeriAIServer also expires stale sessions at regular
// time intervals and reloads its policies on SIGUSR2.
type VeriAIServer struct {
	*application.ServerBase
	coord *coordinator.Coordinator
	audit auditlog.Log
	cors  *CORSConfig

	policies *Policies
	handler  http.Handler
}

// NewVeriAIServer creates a new coordinator server from conf.
// It opens the configured audit log.
func NewVeriAIServer(conf *Config) (*VeriAIServer, error) {
	sb, err := application.NewServerBase(conf.CommonConfig, "Listening")
	if err != nil {
		return nil, err
	}
	audit, err := auditlog.Open(context.Background(), conf.Audit)
	if err != nil {
		sb.Shutdown()
		return nil, err
	}
	n, err := CheckAuditLog(context.Background(), audit)
	if err != nil {
		audit.Close()
		sb.Shutdown()
		return nil, err
	}
	sb.Logger().Info("Audit log verified", "records", n)

	policies := conf.Policies
	if policies == nil {
		policies = new(Policies)
	}
	cors := conf.CORS
	if cors == nil {
		cors = &CORSConfig{AllowedOrigins: DefaultAllowedOrigins}
	}
	server := &VeriAIServer{
		ServerBase: sb,
		coord:      coordinator.New(policies.Protocol(), nil, audit),
		audit:      audit,
		cors:       cors,
		policies:   policies,
	}
	server.handler = server.routes()
	return server, nil
}

// CheckAuditLog reads every record of l and verifies the hash chain.
// It returns the number of records.
func CheckAuditLog(ctx context.Context, l auditlog.Log) (int, error) {
	recs, err := l.Records(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), auditlog.Verify(recs)
}

// Coordinator returns the server's coordinator.
func (server *VeriAIServer) Coordinator() *coordinator.Coordinator {
	return server.coord
}

// Handler returns the HTTP handler of the coordinator API.
func (server *VeriAIServer) Handler() http.Handler {
	return server.handler
}

// Run implements the main functionality of the coordinator server.
// It listens for all declared connections and starts the session
// expiry and configuration reload tasks.
func (server *VeriAIServer) Run(addrs []*application.ServerAddress) error {
	for _, addr := range addrs {
		if err := server.ListenAndServe(addr, server.handler); err != nil {
			return err
		}
	}
	interval := server.policies.expiryInterval().Duration()
	server.RunInBackground(func() {
		server.Periodic(interval, server.expireSessions)
	})
	server.RunInBackground(func() {
		server.HotReload(server.updatePolicies)
	})
	return nil
}

// Shutdown stops the server and closes its audit log.
func (server *VeriAIServer) Shutdown() error {
	err := server.ServerBase.Shutdown()
	return errors.Join(err, server.audit.Close())
}

func (server *VeriAIServer) expireSessions() {
	n, err := server.coord.ExpireSessions(context.Background(), time.Now())
	if err != nil {
		server.Logger().Error(err.Error())
	}
	if n > 0 {
		server.Logger().Info("Expired sessions", "count", n)
	}
}

func (server *VeriAIServer) updatePolicies() {
	// read server policies from config file
	path, encoding := server.ConfigInfo()
	conf := new(Config)
	if err := conf.Load(path, encoding); err != nil {
		// error occured while reading server config
		// simply abort the reloading policies process
		server.Logger().Error(err.Error())
		return
	}
	server.coord.SetPolicies(conf.Policies.Protocol())
	server.Logger().Info("Policies reloaded!")
}

func (server *VeriAIServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.accessLog)
	r.Use(server.cors.handler())

	r.Get("/health", server.handleHealth)
	r.Post("/register-agent", server.handleRegisterAgent)
	r.Post("/initiate-verification", server.handleInitiate)
	r.Post("/submit-response", server.handleSubmit)
	r.Get("/verification-status/{session_id}", server.handleStatus)
	r.Get("/sessions", server.handleSessions)
	r.Get("/audit/{session_id}", server.handleAudit)
	r.Get("/ws/verification-status/{session_id}", server.handleWatch)
	return r
}

func (server *VeriAIServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		server.Logger().Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"address", r.RemoteAddr)
	})
}

func (server *VeriAIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	application.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": len(server.coord.Sessions()),
		"agents":   server.coord.Agents().Len(),
	})
}

func (server *VeriAIServer) handleRegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req protocol.RegisterAgentRequest
	if !server.decode(w, r, &req, maxBodyOverhead) {
		return
	}
	res, err := server.coord.RegisterAgent(&req)
	server.respond(w, r, res, err)
}

func (server *VeriAIServer) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req protocol.InitiateRequest
	if !server.decode(w, r, &req, maxBodyOverhead) {
		return
	}
	res, err := server.coord.Initiate(&req)
	server.respond(w, r, res, err)
}

func (server *VeriAIServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req protocol.SubmitRequest
	// JSON escaping may expand every byte of the text to six.
	limit := int64(6*server.coord.Policies().MaxResponseLength) + maxBodyOverhead
	if !server.decode(w, r, &req, limit) {
		return
	}
	res, err := server.coord.Submit(r.Context(), &req)
	server.respond(w, r, res, err, "session_id", req.SessionID)
}

func (server *VeriAIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	res, err := server.coord.Status(chi.URLParam(r, "session_id"))
	server.respond(w, r, res, err)
}

func (server *VeriAIServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	application.WriteJSON(w, http.StatusOK, server.coord.Sessions())
}

func (server *VeriAIServer) handleAudit(w http.ResponseWriter, r *http.Request) {
	rec, err := server.audit.Get(r.Context(), chi.URLParam(r, "session_id"))
	switch {
	case errors.Is(err, auditlog.ErrRecordNotFound):
		application.WriteError(w, http.StatusNotFound, "Audit record not found")
	case err != nil:
		server.Logger().Error(err.Error(), "path", r.URL.Path)
		application.WriteError(w, http.StatusInternalServerError, detail(protocol.ErrInternal))
	default:
		application.WriteJSON(w, http.StatusOK, rec)
	}
}

// decode reads the JSON request body into v. It writes the error
// response and returns false if the body is malformed or too large.
func (server *VeriAIServer) decode(w http.ResponseWriter, r *http.Request,
	v interface{}, limit int64) bool {
	body := http.MaxBytesReader(w, r.Body, limit)
	err := application.DecodeJSON(body, v)
	if err == nil {
		return true
	}
	code := protocol.ErrMalformedMessage
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		code = protocol.ErrResponseTooLarge
	}
	server.Logger().Warn(code.Error(), "address", r.RemoteAddr, "error", err)
	application.WriteError(w, httpStatus(code), detail(code))
	return false
}

// respond writes res as the HTTP response. err is the coordinator's
// result code, which is logged along with fields when it is not a success.
func (server *VeriAIServer) respond(w http.ResponseWriter, r *http.Request,
	res *protocol.Response, err error, fields ...interface{}) {
	if err != nil && err != protocol.ReqSuccess {
		fields = append(fields, "path", r.URL.Path)
		if err == protocol.ErrPersistence {
			server.Logger().Error(err.Error(), fields...)
		} else {
			server.Logger().Warn(err.Error(), append(fields, "address", r.RemoteAddr)...)
		}
	}
	if res.Error != protocol.ReqSuccess {
		application.WriteError(w, httpStatus(res.Error), detail(res.Error))
		return
	}
	application.WriteJSON(w, http.StatusOK, res.Message)
}

// httpStatus maps a coordinator result code to an HTTP status code.
func httpStatus(code protocol.ErrorCode) int {
	switch code {
	case protocol.ReqSuccess:
		return http.StatusOK
	case protocol.ReqSessionNotFound:
		return http.StatusNotFound
	case protocol.ReqInvalidState:
		return http.StatusConflict
	case protocol.ReqUnknownParticipant, protocol.ErrMalformedMessage,
		protocol.ErrResponseTooLarge:
		return http.StatusBadRequest
	case protocol.ReqAgentNotRegistered, protocol.ErrBadSignature:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func detail(code protocol.ErrorCode) string {
	return strings.TrimPrefix(code.Error(), "[veriai] ")
}
