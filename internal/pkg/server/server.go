package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"ecocoleta/internal/pkg/handler"
	"ecocoleta/internal/pkg/log"
	"ecocoleta/internal/pkg/metrics"
	"ecocoleta/internal/pkg/protocol"
	"ecocoleta/internal/pkg/session"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Greeting is sent to every client as soon as its connection is accepted.
const Greeting = "Welcome to EcoColeta"

// acceptBackoff is the pause after a failed Accept before trying again.
const acceptBackoff = 50 * time.Millisecond

// Server accepts registry connections and runs one worker per connection.
type Server struct {
	handler *handler.Handler
	metrics metrics.Recorder
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithHandler sets the command handler shared by every connection.
func WithHandler(h *handler.Handler) Cfg {
	return func(s *Server) error {
		s.handler = h
		return nil
	}
}

// WithMetrics sets the recorder observing connections.
func WithMetrics(r metrics.Recorder) Cfg {
	return func(s *Server) error {
		s.metrics = r
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	server := &Server{metrics: metrics.Nop{}}
	for _, cfg := range cfgs {
		if err := cfg(server); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	if server.handler == nil {
		return nil, errors.New("server requires a handler")
	}
	return server, nil
}

// ListenAndServe listens on addr and serves connections until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s failed", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln.
// A failing connection never stops the accept loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		if err := ln.Close(); err != nil {
			logger.WithError(err).Warn("close listener failed")
		}
	}()
	logger.WithField("addr", ln.Addr().String()).Info("server listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return errors.Wrap(err, "listener closed")
			}
			logger.WithError(err).Warn("accept connection failed")
			time.Sleep(acceptBackoff)
			continue
		}
		go s.serveConn(ctx, conn)
	}
}

// serveConn runs the request loop of one connection. Requests are handled
// strictly in the order they are read.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	s.metrics.ConnectionOpened()
	defer s.metrics.ConnectionClosed()

	entry := logger.WithFields(logrus.Fields{
		"conn":   uuid.New().String(),
		"remote": conn.RemoteAddr().String(),
	})
	entry.Info("new connection established")
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			entry.WithError(err).Warn("close connection failed")
		}
		entry.Info("connection closed")
	}()

	if err := protocol.WriteResponse(conn, protocol.Message(protocol.StatusOK, Greeting)); err != nil {
		entry.WithError(err).Warn("send greeting failed")
		return
	}

	sess := session.New()
	r := bufio.NewReader(conn)
	for {
		line, err := protocol.ReadLine(r)
		if err == io.EOF {
			entry.Info("client disconnected")
			return
		}
		if err != nil {
			entry.WithError(err).Warn("read request failed")
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		reply := s.handler.Handle(ctx, sess, line)
		if err := protocol.WriteResponse(conn, reply.Response); err != nil {
			entry.WithError(err).Warn("send response failed")
			return
		}
		entry.WithFields(log.ResponseToFields(reply.Response)).Trace("sent response")
		if reply.Close {
			return
		}
	}
}
