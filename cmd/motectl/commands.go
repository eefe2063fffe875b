package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nebaura-labs/motectl/internal/bridge"
	"github.com/nebaura-labs/motectl/internal/config"
	"github.com/nebaura-labs/motectl/internal/deviceconfig"
	"github.com/nebaura-labs/motectl/internal/discovery"
	"github.com/nebaura-labs/motectl/internal/protocol"
	"github.com/nebaura-labs/motectl/internal/setup/tui"
	"github.com/nebaura-labs/motectl/internal/urls"
)

// gatewayTokenEnvVar holds the gateway auth token. Tokens are read from
// the environment and never written to the config file.
const gatewayTokenEnvVar = "MOTECTL_GATEWAY_TOKEN"

// Command flags
var (
	deviceEndpoint string
	deviceIP       string
	devicePort     int
	scanTimeout    int
	outputFormat   string

	wifiSSID     string
	wifiPassword string
	relayServer  string
	relayPort    int

	gatewayURL string
	appID      string
	showToken  bool
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceEndpoint, "endpoint", "", "Device WebSocket endpoint (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&deviceIP, "device", "", "Device IP address (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", discovery.DefaultPort, "Device WebSocket port")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(bridgeCmd)
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Mote devices on the network",
	Long: `Scan for Mote devices using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from Mote devices and displays
all discovered devices with their IP addresses, device IDs, and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  motectl scan

  # Quick 3-second scan
  motectl scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Mote devices (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the device is powered on and connected to your WiFi")
		fmt.Println("  - For first-time setup, join the device's Mote-Setup hotspot")
		fmt.Println("    and run 'motectl setup' instead")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --device flag to specify IP manually if discovery fails")
		fmt.Printf("\nSee %s\n", urls.TroubleshootingGuide)
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Hostname)
		fmt.Printf("   Device ID: %s\n", device.DeviceID)
		fmt.Printf("   IP:        %s:%d\n", device.IP, device.Port)
		if len(device.Metadata) > 0 {
			fmt.Printf("   Metadata:  %v\n", device.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'motectl status --device <ip>' to query a device")
	fmt.Println("Use 'motectl setup' for interactive configuration")

	return nil
}

// statusCmd queries the current device status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device status",
	Long: `Connect to a Mote device and display its current status.

The status includes firmware version, battery level, volume, and the
WiFi and gateway link state.`,
	Example: `  # Status with auto-discovery
  motectl status

  # Status for a specific device
  motectl status --device 192.168.1.42

  # JSON output for scripting
  motectl status --device 192.168.1.42 --format json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	endpoint, err := resolveEndpoint(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Querying %s...\n\n", endpoint)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	client := deviceconfig.NewClient(endpoint)
	if err := client.Connect(ctx); err != nil {
		return describeDeviceError(err)
	}
	defer client.Disconnect()

	status, err := client.RequestStatus(ctx)
	if err != nil {
		return describeDeviceError(err)
	}

	printStatus(status)
	rememberDevice(status)

	return nil
}

// configureCmd pushes WiFi and relay configuration without the wizard
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Push device configuration",
	Long: `Directly push WiFi credentials and a relay target to a device.

The device saves the configuration and reboots to join the network.
The WiFi password is sent to the device only and is never stored on
this machine.

For interactive setup, use 'motectl setup' instead.`,
	Example: `  # Configure a device on its setup hotspot
  motectl configure --ssid HomeNet --password s3cret \
      --relay-server relay.example.com --relay-port 443`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&wifiSSID, "ssid", "", "WiFi network name (required)")
	configureCmd.Flags().StringVar(&wifiPassword, "password", "", "WiFi password (omit for open networks)")
	configureCmd.Flags().StringVar(&relayServer, "relay-server", "", "Relay server hostname (required)")
	configureCmd.Flags().IntVar(&relayPort, "relay-port", 443, "Relay server port")
	configureCmd.MarkFlagRequired("ssid")
	configureCmd.MarkFlagRequired("relay-server")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	req := &deviceconfig.ConfigRequest{
		WifiSSID:     wifiSSID,
		WifiPassword: wifiPassword,
		RelayServer:  relayServer,
		RelayPort:    relayPort,
	}

	if errs := deviceconfig.ValidateConfigRequest(req); len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", deviceconfig.FormatValidationErrors(errs))
	}

	endpoint, err := resolveEndpoint(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Pushing configuration to %s...\n", endpoint)
	fmt.Printf("  %s\n\n", req)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	client := deviceconfig.NewClient(endpoint)
	if err := client.Connect(ctx); err != nil {
		return describeDeviceError(err)
	}
	defer client.Disconnect()

	ack, err := client.SendConfig(ctx, req)
	if err != nil {
		return describeDeviceError(err)
	}

	fmt.Printf("✓ %s\n", ack)
	fmt.Println("\nThe device is rebooting and will join your WiFi network.")
	fmt.Printf("Next steps: %s\n", urls.GatewayPairing)

	rememberDevice(client.LastStatus())

	return nil
}

// volumeCmd adjusts the device speaker volume
var volumeCmd = &cobra.Command{
	Use:   "volume <0-100>",
	Short: "Set device speaker volume",
	Long: `Set the device speaker volume as a percentage.

The device applies the volume immediately and replies with its updated
status.`,
	Example: `  # Set volume to 40%
  motectl volume 40 --device 192.168.1.42

  # Mute
  motectl volume 0 --device 192.168.1.42`,
	Args: cobra.ExactArgs(1),
	RunE: runVolume,
}

func runVolume(cmd *cobra.Command, args []string) error {
	volume, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid volume value: %w", err)
	}
	if err := deviceconfig.ValidateVolume(volume); err != nil {
		return err
	}

	endpoint, err := resolveEndpoint(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	client := deviceconfig.NewClient(endpoint)
	if err := client.Connect(ctx); err != nil {
		return describeDeviceError(err)
	}
	defer client.Disconnect()

	status, err := client.SetVolume(ctx, volume)
	if err != nil {
		return describeDeviceError(err)
	}

	fmt.Printf("✓ Volume set to %d%%\n\n", volume)
	printStatus(status)

	return nil
}

// setupCmd launches the interactive TUI setup wizard
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Launch interactive setup wizard",
	Long: `Launch an interactive wizard for first-time device setup.

The wizard collects WiFi credentials and a relay target, then pushes
them to the device over its configuration hotspot. Join the device's
Mote-Setup WiFi network before running this command.

This is the recommended way to configure devices for most users.`,
	Example: `  # Launch the wizard against the setup hotspot
  motectl setup
  # Or simply (setup is default):
  motectl

  # Launch the wizard against a specific device
  motectl setup --device 192.168.1.42`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	endpoint := deviceEndpoint
	if endpoint == "" {
		if deviceIP != "" {
			endpoint = fmt.Sprintf("ws://%s:%d/config", deviceIP, devicePort)
		} else {
			// First-time setup targets the device's own hotspot
			endpoint = deviceconfig.DefaultEndpoint
		}
	}

	return tui.Run(endpoint, setupDefaults())
}

// setupDefaults pre-fills the wizard's relay fields from the saved
// gateway configuration
func setupDefaults() tui.Defaults {
	registry, err := config.LoadRegistry()
	if err != nil || registry.Gateway == nil || registry.Gateway.URL == "" {
		return tui.Defaults{}
	}

	parsed, err := url.Parse(registry.Gateway.URL)
	if err != nil || parsed.Hostname() == "" {
		return tui.Defaults{}
	}

	port := 0
	if p := parsed.Port(); p != "" {
		port, _ = strconv.Atoi(p)
	} else {
		switch parsed.Scheme {
		case "https", "wss":
			port = 443
		case "http", "ws":
			port = 80
		}
	}

	return tui.Defaults{RelayServer: parsed.Hostname(), RelayPort: port}
}

// bridgeCmd connects to the cloud gateway and watches device traffic
var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Connect to the relay gateway",
	Long: `Open a persistent bridge connection to the relay gateway.

The bridge authenticates with the token from the ` + gatewayTokenEnvVar + `
environment variable, completes the pairing handshake, and then prints
status updates relayed from the device until interrupted.

The gateway URL is remembered in the config file for subsequent runs.
The auth token is never stored.`,
	Example: `  # Connect using a saved gateway URL
  ` + gatewayTokenEnvVar + `=token motectl bridge

  # Connect to an explicit gateway
  ` + gatewayTokenEnvVar + `=token motectl bridge --gateway https://relay.example.com`,
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().StringVar(&gatewayURL, "gateway", "", "Gateway base URL (default from config file)")
	bridgeCmd.Flags().StringVar(&appID, "app-id", "", "Client identifier sent in the pairing handshake")
	bridgeCmd.Flags().BoolVar(&showToken, "show-token", false, "Print the pairing token received from the gateway")
}

func runBridge(cmd *cobra.Command, args []string) error {
	token := os.Getenv(gatewayTokenEnvVar)
	if token == "" {
		return fmt.Errorf("no auth token: set %s (see %s)", gatewayTokenEnvVar, urls.GatewayPairing)
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if gatewayURL == "" && registry.Gateway != nil {
		gatewayURL = registry.Gateway.URL
	}
	if gatewayURL == "" {
		return fmt.Errorf("no gateway URL: pass --gateway or configure one first")
	}

	if appID == "" {
		if registry.Gateway != nil && registry.Gateway.AppID != "" {
			appID = registry.Gateway.AppID
		} else {
			appID = uuid.NewString()
		}
	}

	client, err := bridge.NewClient(bridge.Options{
		GatewayURL: gatewayURL,
		DeviceID:   appID,
		Token:      func() (string, error) { return token, nil },
	})
	if err != nil {
		return err
	}

	client.OnPaired(func(p bridge.Pairing) {
		fmt.Printf("✓ Paired with gateway (server: %s)\n", p.ServerID)
		if showToken {
			fmt.Printf("  Pairing token: %s\n", p.PairingToken)
		}
	})

	client.OnMessage(func(msg protocol.Message) {
		if status, ok := msg.(*protocol.Status); ok {
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), deviceconfig.FormatCompact(status))
		}
	})

	client.OnError(func(err error) {
		fmt.Fprintf(os.Stderr, "bridge: %v\n", err)
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connecting to %s...\n", gatewayURL)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("gateway connection failed: %w", err)
	}
	defer client.Disconnect()

	if rtt, err := client.Ping(ctx); err == nil {
		fmt.Printf("Gateway round-trip: %s\n", rtt.Round(time.Millisecond))
	}

	// Remember the gateway for next time (never the token)
	if registry.Gateway == nil {
		registry.Gateway = &config.GatewayConfig{}
	}
	registry.Gateway.URL = gatewayURL
	registry.Gateway.AppID = appID
	if err := registry.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save config: %v\n", err)
	}

	fmt.Println("Watching for device status (ctrl+c to stop)...")
	<-ctx.Done()
	fmt.Println("\nDisconnecting.")

	return nil
}

// resolveEndpoint determines the device WebSocket endpoint from flags,
// falling back to mDNS discovery and finally the setup hotspot
func resolveEndpoint(ctx context.Context) (string, error) {
	if deviceEndpoint != "" {
		return deviceEndpoint, nil
	}
	if deviceIP != "" {
		return fmt.Sprintf("ws://%s:%d/config", deviceIP, devicePort), nil
	}

	fmt.Println("No device specified, attempting auto-discovery...")
	devices, err := discovery.QuickScan(ctx)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	switch len(devices) {
	case 0:
		fmt.Printf("No devices found, falling back to setup hotspot at %s\n", deviceconfig.DefaultEndpoint)
		return deviceconfig.DefaultEndpoint, nil
	case 1:
		fmt.Printf("Found device: %s (%s)\n\n", devices[0].DeviceID, devices[0].IP)
		return devices[0].ConfigEndpoint(), nil
	default:
		fmt.Printf("Found %d devices:\n", len(devices))
		for i, device := range devices {
			fmt.Printf("%d. %s (%s)\n", i+1, device.DeviceID, device.IP)
		}
		return "", fmt.Errorf("multiple devices found, use --device to specify which one")
	}
}

// printStatus displays a device status in the selected output format
func printStatus(status *protocol.Status) {
	switch outputFormat {
	case "compact":
		fmt.Println(deviceconfig.FormatCompact(status))
	case "json":
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
			return
		}
		fmt.Println(string(data))
	case "detailed":
		fallthrough
	default:
		fmt.Println(deviceconfig.FormatDetailed(status))
	}
}

// rememberDevice records the device in the config registry for later runs
func rememberDevice(status *protocol.Status) {
	if status == nil || status.DeviceID == "" {
		return
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}

	ip := deviceIP
	if ip == "" && deviceEndpoint != "" {
		if parsed, err := url.Parse(deviceEndpoint); err == nil {
			ip = parsed.Hostname()
		}
	}

	registry.RememberDevice(status.DeviceID, ip)
	if err := registry.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save config: %v\n", err)
	}
}

// describeDeviceError wraps a device error with a troubleshooting hint
func describeDeviceError(err error) error {
	hint := deviceconfig.GetTroubleshootingHint(err)
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w\n\n%s", err, hint)
}
