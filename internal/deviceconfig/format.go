package deviceconfig

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nebaura-labs/motectl/internal/protocol"
)

// Styles for terminal status output
var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#43BF6D")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)
)

// FormatDetailed renders a full status report for terminal output
func FormatDetailed(s *protocol.Status) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("Mote %s", s.DeviceID)))
	sb.WriteString("\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("Firmware", valueStyle.Render(s.FirmwareVersion))
	row("Battery", valueStyle.Render(formatBattery(s)))
	row("Volume", valueStyle.Render(fmt.Sprintf("%d%%", s.Volume)))
	row("WiFi", formatLink(s.WifiConfigured, s.WifiConnected, s.WifiSSID))

	gateway := ""
	if s.GatewayServer != "" {
		gateway = fmt.Sprintf("%s:%d", s.GatewayServer, s.GatewayPort)
	}
	gatewayConnected := s.GatewayConnected != nil && *s.GatewayConnected
	row("Gateway", formatLink(s.GatewayConfigured, gatewayConnected, gateway))

	return sb.String()
}

// FormatCompact renders a one-line status summary
func FormatCompact(s *protocol.Status) string {
	wifi := "wifi:off"
	if s.WifiConnected {
		wifi = "wifi:" + s.WifiSSID
	} else if s.WifiConfigured {
		wifi = "wifi:down"
	}

	gateway := "gateway:off"
	if s.GatewayConnected != nil && *s.GatewayConnected {
		gateway = "gateway:up"
	} else if s.GatewayConfigured {
		gateway = "gateway:down"
	}

	return fmt.Sprintf("%s fw=%s batt=%d%% vol=%d%% %s %s",
		s.DeviceID, s.FirmwareVersion, s.BatteryPercent, s.Volume, wifi, gateway)
}

func formatBattery(s *protocol.Status) string {
	if s.BatteryVoltage > 0 {
		return fmt.Sprintf("%d%% (%.2fV)", s.BatteryPercent, s.BatteryVoltage)
	}
	return fmt.Sprintf("%d%%", s.BatteryPercent)
}

// formatLink renders a configured/connected pair with its target
func formatLink(configured, connected bool, target string) string {
	switch {
	case connected && target != "":
		return okStyle.Render("connected") + valueStyle.Render(" ("+target+")")
	case connected:
		return okStyle.Render("connected")
	case configured && target != "":
		return warnStyle.Render("configured, not connected") + valueStyle.Render(" ("+target+")")
	case configured:
		return warnStyle.Render("configured, not connected")
	default:
		return valueStyle.Render("not configured")
	}
}
