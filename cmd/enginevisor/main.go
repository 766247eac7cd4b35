// Enginevisor provisions and launches a local multi-protocol proxy engine.
//
// On start it binds a plain "hello" health endpoint, loads or creates the
// client identity, writes the engine configuration, downloads the engine
// executable from a primary or backup URL, and launches it detached. The
// working directory is removed shortly after launch and a heartbeat is
// logged until the process is stopped. The engine keeps running after
// enginevisor exits.
//
// Usage:
//
//	# Provision and launch with defaults (engine on 3000, health on 3003)
//	enginevisor
//
//	# Same, with a YAML config and a dotenv file
//	enginevisor run --config enginevisor.yaml --env-file .env
//
//	# Print the engine config that would be written
//	enginevisor render
//
//	# Print the persisted identity
//	enginevisor identity
//
// Environment: SERVER_PORT or PORT sets the public port, DOWNLOAD_WEB and
// DOWNLOAD_WEB_BACKUP set the artifact sources.
package main

func main() {
	Execute()
}
