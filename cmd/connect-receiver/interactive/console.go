// Package interactive provides the interactive command-line console
// for connect-receiver.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/PendoNL/spotify-connect-go/pkg/service"
)

// Console handles interactive mode for connect-receiver.
type Console struct {
	svc *service.Service
	rl  *readline.Instance
}

// New creates a new interactive console around the service.
func New(svc *service.Service) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "connect> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Console{svc: svc, rl: rl}
	svc.OnEvent(c.handleEvent)
	return c, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status":
			c.cmdStatus()

		case "peers", "p":
			c.cmdPeers()

		case "publish", "start":
			c.cmdPublish(args)

		case "withdraw", "stop":
			c.cmdWithdraw()

		case "credential", "cred":
			c.cmdCredential()

		case "reset":
			c.cmdReset()

		case "wake", "w":
			c.cmdWake(ctx, args)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Connect Receiver Commands:
  Capture:
    publish [name]       - Advertise the emulated receiver and wait for a credential
    withdraw             - Stop advertising
    credential           - Show the stored credential
    reset                - Regenerate the receiver identity (clears the credential)

  Wake:
    peers                - List receivers discovered on the network
    wake <name> [port]   - Install the stored credential on a receiver

  General:
    status               - Show service status
    help                 - Show this help
    quit                 - Exit`)
}

func (c *Console) cmdStatus() {
	out := c.rl.Stdout()
	fmt.Fprintln(out, "\nService Status")
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "  Identity:   %s\n", c.svc.Identity())
	fmt.Fprintf(out, "  State:      %s\n", c.svc.State())
	fmt.Fprintf(out, "  Credential: ")
	if c.svc.HasUsableCredential() {
		fmt.Fprintf(out, "usable (%s)\n", c.svc.Credential().UserName)
	} else if c.svc.Credential() != nil {
		fmt.Fprintf(out, "stored but not usable\n")
	} else {
		fmt.Fprintln(out, "none")
	}
	fmt.Fprintf(out, "  Peers seen: %d\n", len(c.svc.DiscoveredPeers()))
	fmt.Fprintln(out)
}

func (c *Console) cmdPeers() {
	peers := c.svc.DiscoveredPeers()
	if len(peers) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No receivers discovered yet")
		return
	}

	out := c.rl.Stdout()
	fmt.Fprintf(out, "\nDiscovered Receivers (%d):\n", len(peers))
	fmt.Fprintln(out, "-------------------------------------------")
	for _, p := range peers {
		fmt.Fprintf(out, "  %s\n", p.Name)
		fmt.Fprintf(out, "      Address: %s\n", p.HostPort())
		if cpath := p.CPath(); cpath != "" {
			fmt.Fprintf(out, "      CPath:   %s\n", cpath)
		}
		fmt.Fprintf(out, "      Seen:    %s\n", p.DiscoveredAt.Format("15:04:05"))
		fmt.Fprintln(out)
	}
}

func (c *Console) cmdPublish(args []string) {
	name := ""
	if len(args) > 0 {
		name = strings.Join(args, " ")
	}

	info, err := c.svc.StartCapture(context.Background(), name)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Publish failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Publishing on port %d; waiting for a client to connect\n", info.Port)
}

func (c *Console) cmdWithdraw() {
	if err := c.svc.StopCapture(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Withdraw failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Withdrawn")
}

func (c *Console) cmdCredential() {
	cred := c.svc.Credential()
	if cred == nil {
		fmt.Fprintln(c.rl.Stdout(), "No credential stored")
		return
	}

	out := c.rl.Stdout()
	fmt.Fprintln(out, "\nStored Credential")
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "  User:     %s\n", cred.UserName)
	fmt.Fprintf(out, "  Captured: %s\n", cred.CapturedAt.Format("2006-01-02 15:04:05"))
	if cred.Decoded != nil {
		fmt.Fprintf(out, "  AuthType: %d\n", cred.Decoded.AuthType)
		fmt.Fprintf(out, "  Usable:   %v\n", c.svc.HasUsableCredential())
	} else {
		fmt.Fprintln(out, "  Decoded:  no (raw submission only)")
	}
	fmt.Fprintln(out)
}

func (c *Console) cmdReset() {
	if err := c.svc.ResetIdentity(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Reset failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Identity reset to %s; stored credential cleared\n", c.svc.Identity())
}

func (c *Console) cmdWake(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: wake <name-or-host> [port]")
		fmt.Fprintln(c.rl.Stdout(), "  Use 'peers' to list discovered receivers")
		return
	}

	port := 0
	nameArgs := args
	if len(args) > 1 {
		if p, err := strconv.Atoi(args[len(args)-1]); err == nil {
			port = p
			nameArgs = args[:len(args)-1]
		}
	}
	target := strings.Join(nameArgs, " ")

	fmt.Fprintf(c.rl.Stdout(), "Waking %s...\n", target)
	result, err := c.svc.Wake(ctx, target, port)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Wake failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Woke %q (device %s)\n", result.RemoteName, result.DeviceID)
}

// handleEvent prints asynchronous service events above the prompt.
func (c *Console) handleEvent(event service.Event) {
	out := c.rl.Stdout()
	switch event.Type {
	case service.EventCredentialCaptured:
		if event.Usable {
			fmt.Fprintf(out, "\n[EVENT] Captured usable credential for %q\n", event.UserName)
		} else {
			fmt.Fprintf(out, "\n[EVENT] Submission for %q failed to decrypt\n", event.UserName)
		}
	case service.EventPeerDiscovered:
		fmt.Fprintf(out, "\n[EVENT] Discovered %q at %s\n", event.Peer.Name, event.Peer.HostPort())
	}
}
