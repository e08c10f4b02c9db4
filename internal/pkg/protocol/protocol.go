package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ecocoleta/internal/pkg/category"
	"ecocoleta/internal/pkg/point"

	"github.com/pkg/errors"
)

// Separator delimits the command name, its arguments and record fields.
const Separator = point.FieldSeparator

// Terminator is the line that ends every response.
const Terminator = "END"

// recordFields is the minimum number of fields in a record line.
const recordFields = 5

// ErrMalformedRecord is returned when a record line cannot be decoded.
var ErrMalformedRecord = errors.New("malformed record")

// Status is the first token of a response.
type Status string

// Response statuses.
const (
	StatusOK       Status = "OK"
	StatusAuthOK   Status = "AUTH_OK"
	StatusAuthFail Status = "AUTH_FAIL"
	StatusAddOK    Status = "ADD_OK"
	StatusUpdateOK Status = "UPDATE_OK"
	StatusError    Status = "ERROR"
)

// Command is one parsed request line.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a request line on the separator, keeping empty fields.
// The command name is trimmed and upper-cased; arguments are kept verbatim.
func ParseCommand(line string) Command {
	parts := strings.Split(strings.TrimSpace(line), Separator)
	return Command{
		Name: strings.ToUpper(strings.TrimSpace(parts[0])),
		Args: parts[1:],
	}
}

// EncodeCommand builds a request line. Arguments are sanitized so they cannot
// introduce extra fields or lines.
func EncodeCommand(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, point.Sanitize(arg))
	}
	return strings.Join(parts, Separator)
}

// Response is a status line followed by zero or more record lines.
type Response struct {
	Status  Status
	Message string
	Points  []point.CollectionPoint
	// Invalid holds record lines that failed to decode on the receiving side.
	Invalid []InvalidLine
}

// InvalidLine is a record line that could not be decoded.
type InvalidLine struct {
	Line string
	Err  error
}

// OK builds an OK response carrying points.
func OK(points ...point.CollectionPoint) Response {
	return Response{Status: StatusOK, Points: points}
}

// Message builds a response with an informational suffix.
func Message(status Status, msg string) Response {
	return Response{Status: status, Message: msg}
}

// Errorf builds an ERROR response.
func Errorf(format string, args ...interface{}) Response {
	return Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// StatusLine renders the first line of the response.
func (r Response) StatusLine() string {
	if r.Message == "" {
		return string(r.Status)
	}
	return string(r.Status) + Separator + point.Sanitize(r.Message)
}

// Lines renders the response without the terminator.
func (r Response) Lines() []string {
	lines := make([]string, 0, len(r.Points)+1)
	lines = append(lines, r.StatusLine())
	for _, p := range r.Points {
		lines = append(lines, EncodePoint(p))
	}
	return lines
}

// WriteResponse writes the response followed by the terminator in a single write.
func WriteResponse(w io.Writer, r Response) error {
	var b strings.Builder
	for _, line := range r.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(Terminator)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write response failed")
}

// ReadLine reads one line, without its line ending.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadResponse reads lines up to the terminator. Record lines that fail to
// decode are collected in Invalid and do not stop the read.
func ReadResponse(r *bufio.Reader) (Response, error) {
	first, err := ReadLine(r)
	if err != nil {
		return Response{}, errors.Wrap(err, "read status line failed")
	}
	if first == Terminator {
		return Response{}, errors.New("empty response")
	}
	resp := parseStatusLine(first)
	for {
		line, err := ReadLine(r)
		if err == io.EOF {
			return resp, errors.Wrap(io.ErrUnexpectedEOF, "response ended before terminator")
		}
		if err != nil {
			return resp, errors.Wrap(err, "read record line failed")
		}
		if line == Terminator {
			return resp, nil
		}
		p, err := DecodePoint(line)
		if err != nil {
			resp.Invalid = append(resp.Invalid, InvalidLine{Line: line, Err: err})
			continue
		}
		resp.Points = append(resp.Points, p)
	}
}

func parseStatusLine(line string) Response {
	status, msg, _ := strings.Cut(line, Separator)
	return Response{Status: Status(status), Message: msg}
}

// EncodePoint renders a record line: id|name|address|cat1,cat2|contact.
func EncodePoint(p point.CollectionPoint) string {
	return strings.Join([]string{
		strconv.Itoa(p.ID),
		p.Name,
		p.Address,
		p.Categories.String(),
		p.Contact,
	}, Separator)
}

// DecodePoint parses a record line produced by EncodePoint.
func DecodePoint(line string) (point.CollectionPoint, error) {
	parts := strings.Split(line, Separator)
	if len(parts) < recordFields {
		return point.CollectionPoint{}, errors.Wrapf(ErrMalformedRecord, "expected %d fields, got %d", recordFields, len(parts))
	}
	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return point.CollectionPoint{}, errors.Wrapf(ErrMalformedRecord, "parse id %q failed", parts[0])
	}
	return point.New(id, parts[1], parts[2], category.Parse(parts[3]), parts[4]), nil
}
