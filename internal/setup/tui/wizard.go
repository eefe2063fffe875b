package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nebaura-labs/motectl/internal/deviceconfig"
	"github.com/nebaura-labs/motectl/internal/urls"
)

// Phase represents the current wizard phase
type Phase int

const (
	PhaseForm Phase = iota
	PhaseApplying
	PhaseSuccess
	PhaseFailure
)

// Form field indices
const (
	fieldSSID = iota
	fieldPassword
	fieldServer
	fieldPort
	fieldCount
)

// applyTimeout bounds the whole connect-and-configure exchange. The
// device retries its WiFi join internally, so this is generous.
const applyTimeout = 60 * time.Second

// applyDoneMsg is emitted when the configuration push finishes
type applyDoneMsg struct {
	ack string
	err error
}

// formKeyMap defines key bindings for the form phase
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Quit}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit, k.Quit}}
}

// resultKeyMap defines key bindings for the success and failure phases
type resultKeyMap struct {
	Retry key.Binding
	Edit  key.Binding
	Quit  key.Binding
}

func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Edit, k.Quit}
}

func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Retry, k.Edit, k.Quit}}
}

// Defaults pre-fills the relay fields, typically from the saved gateway
// configuration
type Defaults struct {
	RelayServer string
	RelayPort   int
}

// Model is the setup wizard model. It walks the user through entering
// WiFi credentials and a relay target, pushes the configuration to the
// device over its setup-mode WebSocket, and reports the outcome.
type Model struct {
	endpoint string

	phase   Phase
	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model

	ack      string
	applyErr error
	fieldErr string

	width int

	help       help.Model
	formKeys   formKeyMap
	resultKeys resultKeyMap
}

// NewModel creates a wizard model targeting the given device endpoint
func NewModel(endpoint string, defaults Defaults) Model {
	var inputs [fieldCount]textinput.Model

	ssid := textinput.New()
	ssid.Placeholder = "Home WiFi network name"
	ssid.CharLimit = 32
	ssid.Width = 40
	inputs[fieldSSID] = ssid

	password := textinput.New()
	password.Placeholder = "WiFi password (blank for open network)"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 63
	password.Width = 40
	inputs[fieldPassword] = password

	server := textinput.New()
	server.Placeholder = "relay.example.com"
	server.CharLimit = 253
	server.Width = 40
	if defaults.RelayServer != "" {
		server.SetValue(defaults.RelayServer)
	}
	inputs[fieldServer] = server

	port := textinput.New()
	port.Placeholder = "443"
	port.CharLimit = 5
	port.Width = 10
	if defaults.RelayPort > 0 {
		port.SetValue(strconv.Itoa(defaults.RelayPort))
	}
	inputs[fieldPort] = port

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	formKeys := formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}

	resultKeys := resultKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	m := Model{
		endpoint:   endpoint,
		phase:      PhaseForm,
		inputs:     inputs,
		spinner:    sp,
		width:      DefaultWidth,
		help:       help.New(),
		formKeys:   formKeys,
		resultKeys: resultKeys,
	}
	m.setFocus(fieldSSID)
	return m
}

// Init starts cursor blinking on the first field
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case applyDoneMsg:
		if msg.err != nil {
			m.phase = PhaseFailure
			m.applyErr = msg.err
		} else {
			m.phase = PhaseSuccess
			m.ack = msg.ack
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase == PhaseApplying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.phase {
	case PhaseForm:
		return m.updateForm(msg)
	case PhaseSuccess, PhaseFailure:
		return m.updateResult(msg)
	}

	return m, nil
}

// updateForm handles input during the form phase
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.formKeys.Quit):
			return m, tea.Quit

		case key.Matches(keyMsg, m.formKeys.Next):
			m.setFocus((m.focus + 1) % fieldCount)
			return m, textinput.Blink

		case key.Matches(keyMsg, m.formKeys.Prev):
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, textinput.Blink

		case key.Matches(keyMsg, m.formKeys.Submit):
			// Enter advances through fields and submits from the last one
			if m.focus < fieldCount-1 {
				m.setFocus(m.focus + 1)
				return m, textinput.Blink
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// updateResult handles input on the success and failure screens
func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.resultKeys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, m.resultKeys.Edit):
		m.phase = PhaseForm
		m.applyErr = nil
		m.setFocus(fieldSSID)
		return m, textinput.Blink

	case key.Matches(keyMsg, m.resultKeys.Retry):
		if m.phase == PhaseFailure {
			return m.submit()
		}
	}

	return m, nil
}

// submit validates the form and starts the configuration push
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.buildRequest()
	if err != nil {
		m.fieldErr = err.Error()
		return m, nil
	}

	m.fieldErr = ""
	m.phase = PhaseApplying
	return m, tea.Batch(m.spinner.Tick, applyCmd(m.endpoint, req))
}

// buildRequest assembles and validates a ConfigRequest from the form
func (m Model) buildRequest() (*deviceconfig.ConfigRequest, error) {
	port := 0
	if raw := strings.TrimSpace(m.inputs[fieldPort].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("relay port must be a number")
		}
		port = parsed
	}

	req := &deviceconfig.ConfigRequest{
		WifiSSID:     strings.TrimSpace(m.inputs[fieldSSID].Value()),
		WifiPassword: m.inputs[fieldPassword].Value(),
		RelayServer:  strings.TrimSpace(m.inputs[fieldServer].Value()),
		RelayPort:    port,
	}

	if errs := deviceconfig.ValidateConfigRequest(req); len(errs) > 0 {
		return nil, errs[0]
	}

	return req, nil
}

// applyCmd connects to the device and pushes the configuration
func applyCmd(endpoint string, req *deviceconfig.ConfigRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
		defer cancel()

		client := deviceconfig.NewClient(endpoint)
		if err := client.Connect(ctx); err != nil {
			return applyDoneMsg{err: err}
		}
		defer client.Disconnect()

		ack, err := client.SendConfig(ctx, req)
		return applyDoneMsg{ack: ack, err: err}
	}
}

// setFocus moves keyboard focus to the given field
func (m *Model) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// View renders the current phase
func (m Model) View() string {
	switch m.phase {
	case PhaseForm:
		return RenderApplicationContainer(m.viewForm(), m.help.View(m.formKeys), m.width)
	case PhaseApplying:
		return RenderApplicationContainer(m.viewApplying(), "please wait...", m.width)
	case PhaseSuccess:
		return RenderApplicationContainer(m.viewSuccess(), m.help.View(m.resultKeys), m.width)
	case PhaseFailure:
		return RenderApplicationContainer(m.viewFailure(), m.help.View(m.resultKeys), m.width)
	default:
		return "Unknown phase"
	}
}

// viewForm renders the configuration form
func (m Model) viewForm() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Configure Mote Device"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Target: " + m.endpoint))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"WiFi Network", "WiFi Password", "Relay Server", "Relay Port"}
	for i, input := range m.inputs {
		style := LabelStyle
		if i == m.focus {
			style = FocusedLabelStyle
		}
		b.WriteString(style.Render(labels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	if m.fieldErr != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("✗ " + m.fieldErr))
		b.WriteString("\n")
	}

	return b.String()
}

// viewApplying renders the progress screen
func (m Model) viewApplying() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Applying Configuration"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s Sending configuration to %s\n\n", m.spinner.View(), m.endpoint))
	b.WriteString(SubtitleStyle.Render("The device will join your WiFi network and reboot."))
	b.WriteString("\n")

	return b.String()
}

// viewSuccess renders the success screen
func (m Model) viewSuccess() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✓ Device Configured"))
	b.WriteString("\n\n")

	detail := "Configuration accepted."
	if m.ack != "" {
		detail = m.ack
	}
	b.WriteString(SuccessBoxStyle.Render(detail))
	b.WriteString("\n\n")
	b.WriteString("The device is rebooting and will connect to your WiFi network.\n")
	b.WriteString("Once online it will register with the relay server.\n\n")
	b.WriteString(SubtitleStyle.Render("Next steps: " + urls.GatewayPairing))
	b.WriteString("\n")

	return b.String()
}

// viewFailure renders the failure screen with troubleshooting hints
func (m Model) viewFailure() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✗ Configuration Failed"))
	b.WriteString("\n\n")
	b.WriteString(ErrorBoxStyle.Render(fmt.Sprintf("Error: %v", m.applyErr)))
	b.WriteString("\n\n")

	if hint := deviceconfig.GetTroubleshootingHint(m.applyErr); hint != "" {
		b.WriteString(HintStyle.Render(hint))
		b.WriteString("\n\n")
	}

	b.WriteString(SubtitleStyle.Render("More help: " + urls.TroubleshootingGuide))
	b.WriteString("\n")

	return b.String()
}

// Run launches the setup wizard against the given device endpoint.
// It blocks until the user exits the wizard.
func Run(endpoint string, defaults Defaults) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("setup wizard requires an interactive terminal (use 'motectl configure' for scripted setup)")
	}

	model := NewModel(endpoint, defaults)
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		model.width = width
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("setup wizard error: %w", err)
	}

	return nil
}
