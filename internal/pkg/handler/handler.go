package handler

import (
	"context"
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"ecocoleta/internal/pkg/category"
	"ecocoleta/internal/pkg/log"
	"ecocoleta/internal/pkg/metrics"
	"ecocoleta/internal/pkg/protocol"
	"ecocoleta/internal/pkg/session"
	"ecocoleta/internal/pkg/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Credentials is the administrator credential pair.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) match(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username))
	p := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password))
	return u&p == 1
}

// Handler executes request lines against the store on behalf of a session.
type Handler struct {
	store       store.Store
	credentials Credentials
	metrics     metrics.Recorder
}

// HandlerCfg configures a Handler.
type HandlerCfg func(*Handler) error

// WithStore sets the collection point store.
func WithStore(s store.Store) HandlerCfg {
	return func(h *Handler) error {
		h.store = s
		return nil
	}
}

// WithCredentials sets the administrator credentials.
func WithCredentials(username, password string) HandlerCfg {
	return func(h *Handler) error {
		if username == "" {
			return errors.New("administrator username must not be empty")
		}
		h.credentials = Credentials{Username: username, Password: password}
		return nil
	}
}

// WithMetrics sets the recorder observing handled commands.
func WithMetrics(r metrics.Recorder) HandlerCfg {
	return func(h *Handler) error {
		h.metrics = r
		return nil
	}
}

// NewHandler creates a new handler.
func NewHandler(cfgs ...HandlerCfg) (*Handler, error) {
	h := &Handler{metrics: metrics.Nop{}}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply handler cfg failed")
		}
	}
	if h.store == nil {
		return nil, errors.New("handler requires a store")
	}
	if h.credentials.Username == "" {
		return nil, errors.New("handler requires administrator credentials")
	}
	return h, nil
}

// Reply is the response to one request line.
type Reply struct {
	protocol.Response
	// Close is set when the connection must be closed once the response is written.
	Close bool
}

// Handle executes one request line. It never fails: malformed or unauthorized
// requests yield an ERROR response and the connection stays usable.
func (h *Handler) Handle(ctx context.Context, sess *session.Session, line string) Reply {
	start := time.Now()
	cmd := protocol.ParseCommand(line)
	spec, known := commands[cmd.Name]
	label := cmd.Name
	if !known {
		label = "UNKNOWN"
	}

	var reply Reply
	switch {
	case !known:
		reply.Response = protocol.Errorf("unknown command: %s", cmd.Name)
	case spec.admin && !sess.IsAdmin():
		reply.Response = protocol.Errorf("%s requires administrator authentication", cmd.Name)
	case len(cmd.Args) < spec.args:
		reply.Response = protocol.Errorf("malformed %s. usage: %s", cmd.Name, spec.usage)
	default:
		reply.Response = spec.run(h, sess, cmd.Args)
		reply.Close = spec.close
	}

	h.metrics.ObserveCommand(label, string(reply.Status), time.Since(start))
	logger.WithFields(log.CommandToFields(cmd)).
		WithField("status", reply.Status).
		Debug("handled command")
	return reply
}

func (h *Handler) list(_ *session.Session, _ []string) protocol.Response {
	return protocol.OK(h.store.List()...)
}

func (h *Handler) filter(_ *session.Session, args []string) protocol.Response {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return protocol.Errorf("missing category for FILTER. usage: %s", usageFilter)
	}
	return protocol.OK(h.store.Filter(category.Label(args[0]))...)
}

func (h *Handler) login(sess *session.Session, args []string) protocol.Response {
	if !h.credentials.match(args[0], args[1]) {
		return protocol.Message(protocol.StatusAuthFail, "")
	}
	sess.SetAdmin(true)
	return protocol.Message(protocol.StatusAuthOK, "")
}

func (h *Handler) add(_ *session.Session, args []string) protocol.Response {
	id := h.store.Add(args[0], args[1], category.Parse(args[2]), args[3])
	return protocol.Message(protocol.StatusAddOK, strconv.Itoa(id))
}

func (h *Handler) update(_ *session.Session, args []string) protocol.Response {
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return protocol.Errorf("invalid id: %s", args[0])
	}
	err = h.store.Update(id, args[1], args[2], category.Parse(args[3]), args[4])
	if errors.Is(err, store.ErrPointNotFound) {
		return protocol.Errorf("point with id %d not found", id)
	}
	if err != nil {
		return protocol.Errorf("update point %d failed: %v", id, err)
	}
	return protocol.Message(protocol.StatusUpdateOK, "")
}

func (h *Handler) exit(_ *session.Session, _ []string) protocol.Response {
	return protocol.Message(protocol.StatusOK, "Bye")
}
