// Package commands defines the gv CLI.
//
// Commands
//
//   - view      Browse a gallery in the terminal (the default)
//   - list      Print the posts of a gallery source
//   - export    Write a contact sheet or a static HTML bundle
//   - version   Print the version, optionally checking for a newer release
//
// # Implementation
//
// The root command loads the configuration file and environment before any
// subcommand runs. A source given on the command line wins over the
// configured one.
package commands
