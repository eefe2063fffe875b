package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://nebaura-labs.github.io/motectl/

// GettingStarted is the quick start guide for new users setting up
// their first Mote device.
const GettingStarted = "https://nebaura-labs.github.io/motectl/getting-started/overview/"

// SetupMode explains how to put a device into setup mode and join its
// configuration hotspot.
const SetupMode = "https://nebaura-labs.github.io/motectl/setup/device-hotspot/"

// GatewayPairing covers connecting the app to a relay gateway,
// auth tokens, and the pairing handshake.
const GatewayPairing = "https://nebaura-labs.github.io/motectl/gateway/pairing/"

// TroubleshootingGuide provides solutions to common issues
// encountered when configuring devices or reaching the gateway.
const TroubleshootingGuide = "https://nebaura-labs.github.io/motectl/troubleshooting/"
