// Package interactive provides the interactive command shell for the
// nuvo-console command.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nuvo-protocol/nuvo-go/internal/mockamp"
	"github.com/nuvo-protocol/nuvo-go/pkg/nuvo"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// displayKinds are the unsolicited message kinds echoed to the console.
var displayKinds = []wire.MsgKind{
	wire.KindZoneStatus,
	wire.KindZoneButton,
	wire.KindMute,
	wire.KindPaging,
	wire.KindParty,
	wire.KindZoneAllOff,
	wire.KindRestart,
}

// Console handles interactive mode for nuvo-console.
type Console struct {
	ctrl *nuvo.Controller
	amp  *mockamp.Amp // non-nil only in demo mode
	rl   *readline.Instance
}

// New creates a new interactive console. amp may be nil; when set, the
// sim-* commands inject events on the simulated amplifier.
func New(ctrl *nuvo.Controller, amp *mockamp.Amp) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nuvo> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Console{
		ctrl: ctrl,
		amp:  amp,
		rl:   rl,
	}

	// Echo unsolicited device events above the prompt.
	for _, kind := range displayKinds {
		ctrl.Subscribe(kind, c.displayEvent)
	}

	return c, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
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
			// EOF or interrupt
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

		case "version", "ver":
			c.cmdVersion()

		case "status", "st":
			c.cmdStatus(args)

		case "state":
			c.cmdState()

		case "on":
			c.cmdPower(args, true)

		case "off":
			c.cmdPower(args, false)

		case "vol", "v":
			c.cmdVolume(args)

		case "src":
			c.cmdSource(args)

		case "next":
			c.cmdNextSource(args)

		case "mute":
			c.cmdMute(args)

		case "dnd":
			c.cmdDND(args)

		case "button", "btn":
			c.cmdButton(args)

		case "zone":
			c.cmdZoneConfig(args)

		case "name":
			c.cmdZoneName(args)

		case "eq":
			c.cmdEQ(args)

		case "bass":
			c.cmdBass(args)

		case "treble", "treb":
			c.cmdTreble(args)

		case "balance", "bal":
			c.cmdBalance(args)

		case "loudness", "loud":
			c.cmdLoudness(args)

		case "volcfg":
			c.cmdVolumeConfig(args)

		case "maxvol":
			c.cmdVolumeLimit(args, "maxvol")

		case "inivol":
			c.cmdVolumeLimit(args, "inivol")

		case "pagevol":
			c.cmdVolumeLimit(args, "pagevol")

		case "partyvol":
			c.cmdVolumeLimit(args, "partyvol")

		case "source":
			c.cmdSourceConfig(args)

		case "srcname":
			c.cmdSourceName(args)

		case "gain":
			c.cmdGain(args)

		case "alloff":
			c.cmdAllOff()

		case "page":
			c.cmdPage(args)

		case "party":
			c.cmdParty(args)

		case "sim-button":
			c.cmdSimButton(args)

		case "sim-mute":
			c.cmdSimMute(args)

		case "sim-restart":
			c.cmdSimRestart()

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
	help := `
Nuvo Console Commands:
  Zone Control:
    status <zone>          - Query zone status
    state                  - Show tracked state of all known zones
    on <zone> / off <zone> - Switch a zone on or off
    vol <zone> <0-79>      - Set volume (0 is loudest)
    src <zone> <source>    - Select a source
    next <zone>            - Cycle to the next source
    mute <zone> on|off     - Mute or unmute a zone
    dnd <zone> on|off      - Set do-not-disturb
    button <zone> play|prev|next - Simulate a keypad button

  Zone Setup:
    zone <zone>            - Query zone configuration
    name <zone> <name>     - Rename a zone
    eq <zone>              - Query tone controls
    bass <zone> <-18..18>  - Set bass (steps of 2)
    treble <zone> <-18..18> - Set treble (steps of 2)
    balance <zone> L|C|R [0-18] - Set balance
    loudness <zone> on|off - Set loudness compensation
    volcfg <zone>          - Query volume limits
    maxvol|inivol|pagevol|partyvol <zone> <0-79> - Set a volume limit

  Source Setup:
    source <n>             - Query source configuration
    srcname <n> <name>     - Rename a source
    gain <n> <0-14>        - Set source gain

  System:
    version                - Show amplifier version
    alloff                 - Switch every zone off
    page on|off            - Set system paging
    party <zone> on|off    - Set the party host zone

  General:
    help                   - Show this help
    quit                   - Exit console`

	if c.amp != nil {
		help += `

  Simulation (demo mode):
    sim-button <zone> play|prev|next - Inject a keypad press
    sim-mute on|off        - Inject a front panel mute
    sim-restart            - Inject an amplifier restart`
	}

	fmt.Fprintln(c.rl.Stdout(), help)
}

// displayEvent prints unsolicited device messages above the prompt.
func (c *Console) displayEvent(msg wire.Message) {
	fmt.Fprintf(c.rl.Stdout(), "<< %s\n", formatMessage(msg))
}

func (c *Console) cmdVersion() {
	v, err := c.ctrl.QueryVersion(context.Background())
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Model:    %s (%s)\n", v.Model, v.ProductNumber)
	fmt.Fprintf(c.rl.Stdout(), "Firmware: %s\n", v.FirmwareVersion)
	fmt.Fprintf(c.rl.Stdout(), "Hardware: %s\n", v.HardwareVersion)
}

func (c *Console) cmdStatus(args []string) {
	zone, ok := c.parseZone(args, 1)
	if !ok {
		return
	}
	status, err := c.ctrl.ZoneStatus(context.Background(), zone)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(status))
}

func (c *Console) cmdState() {
	zones := c.ctrl.KnownZones()
	if len(zones) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No zone state tracked yet (run 'status <zone>' first)")
		return
	}
	for _, zone := range zones {
		state, ok := c.ctrl.ZoneState(zone)
		if !ok {
			continue
		}
		fmt.Fprintf(c.rl.Stdout(), "Zone %d: %s\n", zone, formatZoneState(state))
	}
}

func (c *Console) cmdPower(args []string, power bool) {
	zone, ok := c.parseZone(args, 1)
	if !ok {
		return
	}
	c.showZoneStatus(c.ctrl.SetPower(context.Background(), zone, power))
}

func (c *Console) cmdVolume(args []string) {
	zone, value, ok := c.parseZoneValue(args)
	if !ok {
		return
	}
	c.showZoneStatus(c.ctrl.SetVolume(context.Background(), zone, value))
}

func (c *Console) cmdSource(args []string) {
	zone, value, ok := c.parseZoneValue(args)
	if !ok {
		return
	}
	c.showZoneStatus(c.ctrl.SetSource(context.Background(), zone, value))
}

func (c *Console) cmdNextSource(args []string) {
	zone, ok := c.parseZone(args, 1)
	if !ok {
		return
	}
	c.showZoneStatus(c.ctrl.SetNextSource(context.Background(), zone))
}

func (c *Console) cmdMute(args []string) {
	zone, on, ok := c.parseZoneOnOff(args)
	if !ok {
		return
	}
	c.showZoneStatus(c.ctrl.SetMute(context.Background(), zone, on))
}

func (c *Console) cmdDND(args []string) {
	zone, on, ok := c.parseZoneOnOff(args)
	if !ok {
		return
	}
	c.showZoneStatus(c.ctrl.SetDND(context.Background(), zone, on))
}

func (c *Console) cmdButton(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: button <zone> play|prev|next")
		return
	}
	zone, ok := c.parseZone(args[:1], 1)
	if !ok {
		return
	}
	button, ok := parseButton(args[1])
	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "Invalid button: %s (play, prev, next)\n", args[1])
		return
	}
	msg, err := c.ctrl.PressButton(context.Background(), zone, button)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(msg))
}

func (c *Console) cmdZoneConfig(args []string) {
	zone, ok := c.parseZone(args, 1)
	if !ok {
		return
	}
	cfg, err := c.ctrl.ZoneConfiguration(context.Background(), zone)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdZoneName(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: name <zone> <name>")
		return
	}
	zone, ok := c.parseZone(args[:1], 1)
	if !ok {
		return
	}
	name := strings.Join(args[1:], " ")
	cfg, err := c.ctrl.ZoneSetName(context.Background(), zone, name)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdEQ(args []string) {
	zone, ok := c.parseZone(args, 1)
	if !ok {
		return
	}
	eq, err := c.ctrl.ZoneEQ(context.Background(), zone)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(eq))
}

func (c *Console) cmdBass(args []string) {
	zone, value, ok := c.parseZoneValue(args)
	if !ok {
		return
	}
	c.showEQ(c.ctrl.SetBass(context.Background(), zone, value))
}

func (c *Console) cmdTreble(args []string) {
	zone, value, ok := c.parseZoneValue(args)
	if !ok {
		return
	}
	c.showEQ(c.ctrl.SetTreble(context.Background(), zone, value))
}

func (c *Console) cmdBalance(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: balance <zone> L|C|R [0-18]")
		return
	}
	zone, ok := c.parseZone(args[:1], 1)
	if !ok {
		return
	}

	var position wire.BalancePosition
	switch strings.ToUpper(args[1]) {
	case "L":
		position = wire.BalanceLeft
	case "C":
		position = wire.BalanceCenter
	case "R":
		position = wire.BalanceRight
	default:
		fmt.Fprintf(c.rl.Stdout(), "Invalid position: %s (L, C or R)\n", args[1])
		return
	}

	balance := 0
	if len(args) > 2 {
		v, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid balance: %s\n", args[2])
			return
		}
		balance = v
	}

	c.showEQ(c.ctrl.SetBalance(context.Background(), zone, position, balance))
}

func (c *Console) cmdLoudness(args []string) {
	zone, on, ok := c.parseZoneOnOff(args)
	if !ok {
		return
	}
	c.showEQ(c.ctrl.SetLoudnessComp(context.Background(), zone, on))
}

func (c *Console) cmdVolumeConfig(args []string) {
	zone, ok := c.parseZone(args, 1)
	if !ok {
		return
	}
	cfg, err := c.ctrl.ZoneVolumeConfiguration(context.Background(), zone)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdVolumeLimit(args []string, which string) {
	zone, value, ok := c.parseZoneValue(args)
	if !ok {
		return
	}

	var cfg *wire.ZoneVolumeConfiguration
	var err error
	switch which {
	case "maxvol":
		cfg, err = c.ctrl.SetMaxVolume(context.Background(), zone, value)
	case "inivol":
		cfg, err = c.ctrl.SetInitialVolume(context.Background(), zone, value)
	case "pagevol":
		cfg, err = c.ctrl.SetPageVolume(context.Background(), zone, value)
	case "partyvol":
		cfg, err = c.ctrl.SetPartyVolume(context.Background(), zone, value)
	}
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdSourceConfig(args []string) {
	source, ok := c.parseSource(args)
	if !ok {
		return
	}
	cfg, err := c.ctrl.SourceConfiguration(context.Background(), source)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdSourceName(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: srcname <source> <name>")
		return
	}
	source, ok := c.parseSource(args[:1])
	if !ok {
		return
	}
	name := strings.Join(args[1:], " ")
	cfg, err := c.ctrl.SetSourceName(context.Background(), source, name)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdGain(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: gain <source> <0-14>")
		return
	}
	source, ok := c.parseSource(args[:1])
	if !ok {
		return
	}
	gain, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid gain: %s\n", args[1])
		return
	}
	cfg, err := c.ctrl.SetSourceGain(context.Background(), source, gain)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(cfg))
}

func (c *Console) cmdAllOff() {
	if err := c.ctrl.AllOff(context.Background()); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "All zones off")
}

func (c *Console) cmdPage(args []string) {
	on, ok := c.parseOnOff(args, "Usage: page on|off")
	if !ok {
		return
	}
	paging, err := c.ctrl.SetPage(context.Background(), on)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(paging))
}

func (c *Console) cmdParty(args []string) {
	zone, on, ok := c.parseZoneOnOff(args)
	if !ok {
		return
	}
	party, err := c.ctrl.SetPartyHost(context.Background(), zone, on)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(party))
}

func (c *Console) cmdSimButton(args []string) {
	if c.amp == nil {
		fmt.Fprintln(c.rl.Stdout(), "sim-button is only available in demo mode")
		return
	}
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: sim-button <zone> play|prev|next")
		return
	}
	zone, ok := c.parseZone(args[:1], 1)
	if !ok {
		return
	}
	button, ok := parseButton(args[1])
	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "Invalid button: %s (play, prev, next)\n", args[1])
		return
	}
	c.amp.PressButton(zone, string(button))
}

func (c *Console) cmdSimMute(args []string) {
	if c.amp == nil {
		fmt.Fprintln(c.rl.Stdout(), "sim-mute is only available in demo mode")
		return
	}
	on, ok := c.parseOnOff(args, "Usage: sim-mute on|off")
	if !ok {
		return
	}
	c.amp.FrontPanelMute(on)
}

func (c *Console) cmdSimRestart() {
	if c.amp == nil {
		fmt.Fprintln(c.rl.Stdout(), "sim-restart is only available in demo mode")
		return
	}
	c.amp.Restart()
}

// showZoneStatus prints a zone status reply or the error.
func (c *Console) showZoneStatus(status *wire.ZoneStatus, err error) {
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(status))
}

// showEQ prints an EQ reply or the error.
func (c *Console) showEQ(eq *wire.ZoneEQStatus, err error) {
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), formatMessage(eq))
}

func (c *Console) printError(err error) {
	fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
}

// parseZone parses args[0] as a zone number. want is the number of
// expected arguments.
func (c *Console) parseZone(args []string, want int) (int, bool) {
	if len(args) != want {
		fmt.Fprintln(c.rl.Stdout(), "Usage: <command> <zone>")
		return 0, false
	}
	zone, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid zone: %s\n", args[0])
		return 0, false
	}
	return zone, true
}

// parseZoneValue parses "<zone> <value>" arguments.
func (c *Console) parseZoneValue(args []string) (int, int, bool) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: <command> <zone> <value>")
		return 0, 0, false
	}
	zone, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid zone: %s\n", args[0])
		return 0, 0, false
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid value: %s\n", args[1])
		return 0, 0, false
	}
	return zone, value, true
}

// parseZoneOnOff parses "<zone> on|off" arguments.
func (c *Console) parseZoneOnOff(args []string) (int, bool, bool) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: <command> <zone> on|off")
		return 0, false, false
	}
	zone, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid zone: %s\n", args[0])
		return 0, false, false
	}
	on, ok := parseOnOffWord(args[1])
	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "Expected on or off, got: %s\n", args[1])
		return 0, false, false
	}
	return zone, on, true
}

// parseOnOff parses a single on|off argument.
func (c *Console) parseOnOff(args []string, usage string) (bool, bool) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), usage)
		return false, false
	}
	on, ok := parseOnOffWord(args[0])
	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "Expected on or off, got: %s\n", args[0])
		return false, false
	}
	return on, true
}

// parseSource parses args[0] as a source number.
func (c *Console) parseSource(args []string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: <command> <source>")
		return 0, false
	}
	source, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid source: %s\n", args[0])
		return 0, false
	}
	return source, true
}

func parseOnOffWord(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	default:
		return false, false
	}
}

func parseButton(s string) (wire.Button, bool) {
	switch strings.ToLower(s) {
	case "play", "playpause", "pause":
		return wire.ButtonPlayPause, true
	case "prev", "previous":
		return wire.ButtonPrev, true
	case "next":
		return wire.ButtonNext, true
	default:
		return "", false
	}
}
