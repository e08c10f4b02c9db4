// Package menu renders the EcoColeta protocol as an interactive text menu.
//
// The menu keeps its own administrator flag to decide which options to show.
// Logout only clears that flag: the server keeps the connection authorized
// until it is closed.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ecocoleta/internal/pkg/client"
	"ecocoleta/internal/pkg/protocol"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// errInputClosed is returned when operator input ends in the middle of a prompt.
var errInputClosed = errors.New("input closed")

// Registry is the set of server operations the menu drives.
type Registry interface {
	List(ctx context.Context) (protocol.Response, error)
	Filter(ctx context.Context, label string) (protocol.Response, error)
	Login(ctx context.Context, username, password string) (bool, error)
	Add(ctx context.Context, name, address, categories, contact string) (int, error)
	Update(ctx context.Context, id int, name, address, categories, contact string) error
	Exit(ctx context.Context) error
}

// Menu is an interactive session for one operator.
type Menu struct {
	registry Registry
	addr     string
	in       *bufio.Reader
	out      io.Writer
	// passwordFD is the terminal used for hidden password entry, or -1.
	passwordFD int
	admin      bool
}

// Cfg configures a Menu.
type Cfg func(*Menu) error

// WithRegistry sets the server operations.
func WithRegistry(r Registry) Cfg {
	return func(m *Menu) error {
		m.registry = r
		return nil
	}
}

// WithAddr sets the server address shown in the header.
func WithAddr(addr string) Cfg {
	return func(m *Menu) error {
		m.addr = addr
		return nil
	}
}

// WithInput sets where operator input is read from.
func WithInput(r io.Reader) Cfg {
	return func(m *Menu) error {
		m.in = bufio.NewReader(r)
		return nil
	}
}

// WithOutput sets where the menu is rendered.
func WithOutput(w io.Writer) Cfg {
	return func(m *Menu) error {
		m.out = w
		return nil
	}
}

// WithTerminal reads passwords without echo when f is a terminal.
func WithTerminal(f *os.File) Cfg {
	return func(m *Menu) error {
		if fd := int(f.Fd()); term.IsTerminal(fd) {
			m.passwordFD = fd
		}
		return nil
	}
}

// NewMenu creates a new Menu.
func NewMenu(cfgs ...Cfg) (*Menu, error) {
	m := &Menu{
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		passwordFD: -1,
	}
	for _, cfg := range cfgs {
		if err := cfg(m); err != nil {
			return nil, errors.Wrap(err, "apply Menu cfg failed")
		}
	}
	if m.registry == nil {
		return nil, errors.New("menu requires a registry")
	}
	return m, nil
}

// Run shows the menu until the operator exits or input ends. It returns an
// error only when talking to the server fails.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.showMenu()
		choice, err := m.readLine()
		if err == io.EOF {
			return m.exit(ctx)
		}
		if err != nil {
			return errors.Wrap(err, "read choice failed")
		}
		done, err := m.dispatch(ctx, choice)
		if errors.Is(err, errInputClosed) {
			return m.exit(ctx)
		}
		if err != nil || done {
			return err
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) (bool, error) {
	if !m.admin {
		switch choice {
		case "1":
			return false, m.list(ctx)
		case "2":
			return false, m.filter(ctx)
		case "3":
			return false, m.login(ctx)
		case "4":
			return true, m.exit(ctx)
		}
	} else {
		switch choice {
		case "1":
			return false, m.list(ctx)
		case "2":
			return false, m.filter(ctx)
		case "3":
			return false, m.add(ctx)
		case "4":
			return false, m.update(ctx)
		case "5":
			m.admin = false
			m.println("Logged out.")
			return false, nil
		case "6":
			return true, m.exit(ctx)
		}
	}
	m.println(color.YellowString("Invalid option."))
	return false, nil
}

func (m *Menu) showMenu() {
	m.println("")
	m.println(color.CyanString("=== EcoColeta ==="))
	header := "Connected to: " + m.addr
	if m.admin {
		header += " (ADMIN)"
	}
	m.println(header)
	m.println("1) List all collection points")
	m.println("2) Search by category (e.g. paper, plastic, glass, metal)")
	if !m.admin {
		m.println("3) Log in as administrator")
		m.println("4) Exit")
	} else {
		m.println("3) Add a collection point (ADMIN)")
		m.println("4) Update a collection point (ADMIN)")
		m.println("5) Log out")
		m.println("6) Exit")
	}
	m.print("Choice: ")
}

func (m *Menu) list(ctx context.Context) error {
	resp, err := m.registry.List(ctx)
	if handled, err := m.report(err); handled {
		return err
	}
	m.showPoints(resp, "(no collection points found)")
	return nil
}

func (m *Menu) filter(ctx context.Context) error {
	label, err := m.prompt("Category to search for (e.g. paper): ")
	if err != nil {
		return err
	}
	if label == "" {
		m.println(color.YellowString("Empty category."))
		return nil
	}
	resp, err := m.registry.Filter(ctx, label)
	if handled, err := m.report(err); handled {
		return err
	}
	m.showPoints(resp, fmt.Sprintf("(no collection point accepts %s)", label))
	return nil
}

func (m *Menu) login(ctx context.Context) error {
	user, err := m.prompt("Username: ")
	if err != nil {
		return err
	}
	m.print("Password: ")
	pass, err := m.readPassword()
	if err != nil {
		return err
	}
	ok, err := m.registry.Login(ctx, user, pass)
	if handled, err := m.report(err); handled {
		return err
	}
	if !ok {
		m.println(color.RedString("Authentication failed. Wrong username or password."))
		return nil
	}
	m.admin = true
	m.println(color.GreenString("Authenticated. You are logged in as ADMIN."))
	return nil
}

func (m *Menu) add(ctx context.Context) error {
	m.println(color.CyanString("=== New collection point ==="))
	fields, err := m.promptFields("Name: ", "Address: ", "Accepted categories (comma separated, e.g. paper,plastic): ", "Contact (email/phone): ")
	if err != nil {
		return err
	}
	id, err := m.registry.Add(ctx, fields[0], fields[1], fields[2], fields[3])
	if handled, err := m.report(err); handled {
		return err
	}
	m.println(color.GreenString("Point added with ID: %d", id))
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	raw, err := m.prompt("ID of the point to update: ")
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		m.println(color.YellowString("Invalid ID."))
		return nil
	}
	fields, err := m.promptFields("New name: ", "New address: ", "New categories (e.g. paper,glass): ", "New contact: ")
	if err != nil {
		return err
	}
	err = m.registry.Update(ctx, id, fields[0], fields[1], fields[2], fields[3])
	if handled, err := m.report(err); handled {
		return err
	}
	m.println(color.GreenString("Point updated."))
	return nil
}

func (m *Menu) exit(ctx context.Context) error {
	m.println("Closing client...")
	return errors.Wrap(m.registry.Exit(ctx), "exit failed")
}

// report prints server errors and passes transport errors through.
// It reports whether err was non-nil.
func (m *Menu) report(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	var serverErr *client.ServerError
	if errors.As(err, &serverErr) {
		m.println(color.RedString("Error: %s", serverErr.Message))
		return true, nil
	}
	return true, err
}

func (m *Menu) showPoints(resp protocol.Response, empty string) {
	if len(resp.Points) == 0 && len(resp.Invalid) == 0 {
		m.println(empty)
		return
	}
	for _, p := range resp.Points {
		m.println("-----")
		m.println(p.Display())
	}
	for _, invalid := range resp.Invalid {
		m.println(color.YellowString("Invalid line received: %s", invalid.Line))
	}
}

func (m *Menu) promptFields(labels ...string) ([]string, error) {
	values := make([]string, len(labels))
	for i, label := range labels {
		v, err := m.prompt(label)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (m *Menu) prompt(label string) (string, error) {
	m.print(label)
	v, err := m.readLine()
	if err == io.EOF {
		return "", errInputClosed
	}
	if err != nil {
		return "", errors.Wrap(err, "read input failed")
	}
	return v, nil
}

func (m *Menu) readPassword() (string, error) {
	if m.passwordFD < 0 {
		return m.prompt("")
	}
	b, err := term.ReadPassword(m.passwordFD)
	m.println("")
	if err != nil {
		return "", errors.Wrap(err, "read password failed")
	}
	return strings.TrimSpace(string(b)), nil
}

// readLine returns the next trimmed input line. A final line without a
// newline is returned before io.EOF.
func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) print(s string) {
	fmt.Fprint(m.out, s)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}
