package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"ecocoleta/internal/pkg/log"
	"ecocoleta/internal/pkg/protocol"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultDialTimeout bounds the time spent connecting to the server.
const DefaultDialTimeout = 5 * time.Second

// Client implements the client side of the EcoColeta protocol.
type Client struct {
	serverAddr  string
	dialTimeout time.Duration

	conn net.Conn
	r    *bufio.Reader
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerPort sets the server port to connect to on localhost.
func WithServerPort(p uint16) Cfg {
	return WithServerAddr("localhost", p)
}

// WithServerAddr sets the server host and port to connect to.
func WithServerAddr(host string, p uint16) Cfg {
	return func(c *Client) error {
		if host == "" {
			return errors.New("server host must not be empty")
		}
		c.serverAddr = net.JoinHostPort(host, strconv.Itoa(int(p)))
		return nil
	}
}

// WithDialTimeout sets the connect timeout.
func WithDialTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		c.dialTimeout = d
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{dialTimeout: DefaultDialTimeout}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	if client.serverAddr == "" {
		return nil, errors.New("server address is required")
	}
	return client, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.serverAddr
}

// Connect establishes the connection to the server and returns its greeting.
func (c *Client) Connect(ctx context.Context) (protocol.Response, error) {
	if c.conn != nil {
		if err := c.Close(); err != nil {
			return protocol.Response{}, errors.Wrap(err, "close previous connection failed")
		}
	}
	d := net.Dialer{Timeout: c.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.serverAddr)
	if err != nil {
		return protocol.Response{}, errors.Wrapf(err, "connect to %s failed", c.serverAddr)
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)
	if err := c.setDeadline(ctx); err != nil {
		return protocol.Response{}, err
	}
	greeting, err := protocol.ReadResponse(c.r)
	if err != nil {
		return protocol.Response{}, errors.Wrap(err, "read greeting failed")
	}
	logger.WithFields(log.ResponseToFields(greeting)).Info("connected")
	return greeting, nil
}

// Close closes the connection without sending EXIT.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.r = nil, nil
	return errors.Wrap(err, "close client connection failed")
}

func (c *Client) setDeadline(ctx context.Context) error {
	deadline, _ := ctx.Deadline()
	return errors.Wrap(c.conn.SetDeadline(deadline), "set deadline failed")
}

// Do sends one command and reads its response. Arguments are sanitized
// before transmission. ERROR responses are returned as is, with a nil error.
func (c *Client) Do(ctx context.Context, name string, args ...string) (protocol.Response, error) {
	if c.conn == nil {
		return protocol.Response{}, ErrNotConnected
	}
	if err := c.setDeadline(ctx); err != nil {
		return protocol.Response{}, err
	}
	line := protocol.EncodeCommand(name, args...)
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return protocol.Response{}, errors.Wrapf(err, "send %s failed", name)
	}
	resp, err := protocol.ReadResponse(c.r)
	if err != nil {
		return protocol.Response{}, errors.Wrapf(err, "read %s response failed", name)
	}
	logger.WithFields(log.ResponseToFields(resp)).WithField("command", name).Debug("received response")
	for _, invalid := range resp.Invalid {
		logger.WithError(invalid.Err).WithField("line", invalid.Line).Warn("skipped invalid record line")
	}
	return resp, nil
}

// expect runs a command and turns ERROR and unexpected statuses into errors.
func (c *Client) expect(ctx context.Context, want protocol.Status, name string, args ...string) (protocol.Response, error) {
	resp, err := c.Do(ctx, name, args...)
	if err != nil {
		return resp, err
	}
	switch resp.Status {
	case want:
		return resp, nil
	case protocol.StatusError:
		return resp, &ServerError{Command: name, Message: resp.Message}
	default:
		return resp, errors.Wrapf(ErrUnexpectedResponse, "%s answered %s", name, resp.Status)
	}
}

// List returns every collection point. Record lines that failed to decode are in Invalid.
func (c *Client) List(ctx context.Context) (protocol.Response, error) {
	return c.expect(ctx, protocol.StatusOK, "LIST")
}

// Filter returns the collection points accepting the category.
func (c *Client) Filter(ctx context.Context, label string) (protocol.Response, error) {
	return c.expect(ctx, protocol.StatusOK, "FILTER", label)
}

// Login authenticates the connection as administrator. It reports false for wrong credentials.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	resp, err := c.Do(ctx, "LOGIN", username, password)
	if err != nil {
		return false, err
	}
	switch resp.Status {
	case protocol.StatusAuthOK:
		return true, nil
	case protocol.StatusAuthFail:
		return false, nil
	case protocol.StatusError:
		return false, &ServerError{Command: "LOGIN", Message: resp.Message}
	default:
		return false, errors.Wrapf(ErrUnexpectedResponse, "LOGIN answered %s", resp.Status)
	}
}

// Add creates a collection point and returns its id. categories is a comma-separated list.
func (c *Client) Add(ctx context.Context, name, address, categories, contact string) (int, error) {
	resp, err := c.expect(ctx, protocol.StatusAddOK, "ADD", name, address, categories, contact)
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(resp.Message)
	if err != nil {
		return 0, errors.Wrapf(ErrUnexpectedResponse, "parse id %q failed", resp.Message)
	}
	return id, nil
}

// Update replaces the fields of an existing collection point.
func (c *Client) Update(ctx context.Context, id int, name, address, categories, contact string) error {
	_, err := c.expect(ctx, protocol.StatusUpdateOK, "UPDATE", strconv.Itoa(id), name, address, categories, contact)
	return err
}

// Exit tells the server to end the session and closes the connection.
func (c *Client) Exit(ctx context.Context) error {
	if _, err := c.expect(ctx, protocol.StatusOK, "EXIT"); err != nil {
		_ = c.Close()
		return err
	}
	return c.Close()
}

// ServerError is an ERROR response.
type ServerError struct {
	Command string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Command, e.Message)
}
