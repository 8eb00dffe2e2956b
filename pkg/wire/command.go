package wire

import (
	"errors"
	"fmt"

	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
)

// Encoder errors. Both are raised before any I/O takes place.
var (
	// ErrOutOfRange indicates a zone or source number outside the model's
	// capability table.
	ErrOutOfRange = errors.New("zone or source out of range")

	// ErrInvalidParameter indicates a command parameter outside its domain.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Command is one encoded outgoing command line. The zero value is invalid;
// commands are produced only by the encoder functions in this package.
type Command struct {
	body string
}

// Bytes returns the full wire form: "*<BODY>\r".
func (c Command) Bytes() []byte {
	return []byte("*" + c.body + "\r")
}

// String returns the command body without framing, for logs.
func (c Command) String() string { return c.body }

func command(format string, args ...any) Command {
	return Command{body: fmt.Sprintf(format, args...)}
}

func checkZone(p *profile.Profile, zone int) error {
	if !p.ValidZone(zone) {
		return fmt.Errorf("%w: zone %d (model has %d zones)", ErrOutOfRange, zone, p.Zones.Total)
	}
	return nil
}

func checkSource(p *profile.Profile, source int) error {
	if !p.ValidSource(source) {
		return fmt.Errorf("%w: source %d (model has %d sources)", ErrOutOfRange, source, p.Sources.Total)
	}
	return nil
}

func checkRange(name string, r profile.Range, v int) error {
	if !r.Contains(v) {
		return fmt.Errorf("%w: %s %d not in %d..%d step %d",
			ErrInvalidParameter, name, v, r.Min, r.Max, r.Step)
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ZoneStatusRequest queries a zone's status.
func ZoneStatusRequest(p *profile.Profile, zone int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("Z%dSTATUS?", zone), nil
}

// SetPower switches a zone on or off.
func SetPower(p *profile.Profile, zone int, power bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("Z%d%s", zone, onOff(power)), nil
}

// SetVolume sets a zone's volume attenuation (0 is loudest).
func SetVolume(p *profile.Profile, zone int, volume int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if err := checkRange("volume", p.Volume, volume); err != nil {
		return Command{}, err
	}
	return command("Z%dVOL%d", zone, volume), nil
}

// SetSource selects a zone's input source.
func SetSource(p *profile.Profile, zone, source int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	return command("Z%dSRC%d", zone, source), nil
}

// SetNextSource cycles a zone to its next allowed source.
func SetNextSource(p *profile.Profile, zone int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("Z%dSRC+", zone), nil
}

// SetMute mutes or unmutes a zone.
func SetMute(p *profile.Profile, zone int, mute bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("Z%dMUTE%s", zone, onOff(mute)), nil
}

// SetDND sets a zone's do-not-disturb state.
func SetDND(p *profile.Profile, zone int, dnd bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("Z%dDND%s", zone, onOff(dnd)), nil
}

// ZoneButtonPress simulates a keypad transport button press on a zone.
func ZoneButtonPress(p *profile.Profile, zone int, button Button) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	switch button {
	case ButtonPlayPause, ButtonPrev, ButtonNext:
	default:
		return Command{}, fmt.Errorf("%w: button %q", ErrInvalidParameter, string(button))
	}
	return command("Z%d%s", zone, string(button)), nil
}

// ZoneConfigurationRequest queries a zone's configuration.
func ZoneConfigurationRequest(p *profile.Profile, zone int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dSTATUS?", zone), nil
}

// ZoneSetSourceMask sets the sources a zone is allowed to select.
func ZoneSetSourceMask(p *profile.Profile, zone int, mask SourceMask) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dSOURCES%d", zone, int(mask)), nil
}

// ZoneSetDNDMask sets a zone's do-not-disturb options.
func ZoneSetDNDMask(p *profile.Profile, zone int, mask DndMask) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dDND%d", zone, int(mask)), nil
}

// ZoneSetName renames a zone.
func ZoneSetName(p *profile.Profile, zone int, name string) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if len(name) > p.Zones.NameMaxLength {
		return Command{}, fmt.Errorf("%w: zone name longer than %d", ErrInvalidParameter, p.Zones.NameMaxLength)
	}
	return command("ZCFG%dNAME\"%s\"", zone, name), nil
}

// ZoneSlaveTo slaves a zone's controls to a master zone (0 releases).
func ZoneSlaveTo(p *profile.Profile, slaveZone, masterZone int) (Command, error) {
	if err := checkZone(p, slaveZone); err != nil {
		return Command{}, err
	}
	if err := checkRange("master zone", p.Zones.SlaveTo, masterZone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dSLAVETO%d", slaveZone, masterZone), nil
}

// ZoneJoinGroup puts a zone in a zone group (0 removes it).
func ZoneJoinGroup(p *profile.Profile, zone, group int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if err := checkRange("group", p.Zones.Group, group); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dGROUP%d", zone, group), nil
}

// ZoneEnable enables or disables a zone.
func ZoneEnable(p *profile.Profile, zone int, enable bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dENABLE%d", zone, bit(enable)), nil
}

// ZoneEQRequest queries a zone's tone controls.
func ZoneEQRequest(p *profile.Profile, zone int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dEQ?", zone), nil
}

// SetBass sets a zone's bass level.
func SetBass(p *profile.Profile, zone, bass int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if err := checkRange("bass", p.Bass, bass); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dBASS%d", zone, bass), nil
}

// SetTreble sets a zone's treble level.
func SetTreble(p *profile.Profile, zone, treble int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if err := checkRange("treble", p.Treble, treble); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dTREB%d", zone, treble), nil
}

// SetBalance sets a zone's balance. position Center requires balance 0.
func SetBalance(p *profile.Profile, zone int, position BalancePosition, balance int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	switch position {
	case BalanceLeft, BalanceCenter, BalanceRight:
	default:
		return Command{}, fmt.Errorf("%w: balance position %q", ErrInvalidParameter, string(position))
	}
	if err := checkRange("balance", p.Balance, balance); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dBAL%s%d", zone, string(position), balance), nil
}

// SetLoudnessComp switches a zone's loudness compensation.
func SetLoudnessComp(p *profile.Profile, zone int, comp bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dLOUDCMP%d", zone, bit(comp)), nil
}

// ZoneVolumeConfigurationRequest queries a zone's volume limits.
func ZoneVolumeConfigurationRequest(p *profile.Profile, zone int) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dVOL?", zone), nil
}

// ZoneVolumeMax sets a zone's maximum volume.
func ZoneVolumeMax(p *profile.Profile, zone, volume int) (Command, error) {
	return zoneVolumeLimit(p, zone, volume, "MAXVOL")
}

// ZoneVolumeInitial sets a zone's power-on volume.
func ZoneVolumeInitial(p *profile.Profile, zone, volume int) (Command, error) {
	return zoneVolumeLimit(p, zone, volume, "INIVOL")
}

// ZoneVolumePage sets a zone's paging volume.
func ZoneVolumePage(p *profile.Profile, zone, volume int) (Command, error) {
	return zoneVolumeLimit(p, zone, volume, "PAGEVOL")
}

// ZoneVolumeParty sets a zone's party volume.
func ZoneVolumeParty(p *profile.Profile, zone, volume int) (Command, error) {
	return zoneVolumeLimit(p, zone, volume, "PARTYVOL")
}

func zoneVolumeLimit(p *profile.Profile, zone, volume int, field string) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	if err := checkRange("volume", p.Volume, volume); err != nil {
		return Command{}, err
	}
	return command("ZCFG%d%s%d", zone, field, volume), nil
}

// ZoneVolumeReset switches a zone's volume reset behavior.
func ZoneVolumeReset(p *profile.Profile, zone int, reset bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("ZCFG%dVOLRST%d", zone, bit(reset)), nil
}

// SourceConfigurationRequest queries a source's configuration.
func SourceConfigurationRequest(p *profile.Profile, source int) (Command, error) {
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	return command("SCFG%dSTATUS?", source), nil
}

// SetSourceEnable enables or disables a source.
func SetSourceEnable(p *profile.Profile, source int, enable bool) (Command, error) {
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	return command("SCFG%dENABLE%d", source, bit(enable)), nil
}

// SetSourceName renames a source.
func SetSourceName(p *profile.Profile, source int, name string) (Command, error) {
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	if len(name) > p.Sources.NameLongMaxLength {
		return Command{}, fmt.Errorf("%w: source name longer than %d", ErrInvalidParameter, p.Sources.NameLongMaxLength)
	}
	return command("SCFG%dNAME\"%s\"", source, name), nil
}

// SetSourceShortName sets a source's abbreviated display name.
func SetSourceShortName(p *profile.Profile, source int, shortName string) (Command, error) {
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	if len(shortName) > p.Sources.NameShortMaxLength {
		return Command{}, fmt.Errorf("%w: short name longer than %d", ErrInvalidParameter, p.Sources.NameShortMaxLength)
	}
	return command("SCFG%dSHORTNAME\"%s\"", source, shortName), nil
}

// SetSourceGain sets a source's input gain.
func SetSourceGain(p *profile.Profile, source, gain int) (Command, error) {
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	if err := checkRange("gain", p.Gain, gain); err != nil {
		return Command{}, err
	}
	return command("SCFG%dGAIN%d", source, gain), nil
}

// SetSourceNuvoNet marks a source as a NuvoNet source.
func SetSourceNuvoNet(p *profile.Profile, source int, nuvonet bool) (Command, error) {
	if err := checkSource(p, source); err != nil {
		return Command{}, err
	}
	if nuvonet && !p.NuvoNetSources {
		return Command{}, fmt.Errorf("%w: model %s has no NuvoNet sources", ErrInvalidParameter, p.Model)
	}
	return command("SCFG%dNUVONET%d", source, bit(nuvonet)), nil
}

// SetPage switches system-wide paging.
func SetPage(page bool) Command {
	return command("PAGE%d", bit(page))
}

// SetPartyHost makes a zone the party host, or releases it.
func SetPartyHost(p *profile.Profile, zone int, enable bool) (Command, error) {
	if err := checkZone(p, zone); err != nil {
		return Command{}, err
	}
	return command("Z%dPARTY%d", zone, bit(enable)), nil
}

// AllOff switches every zone off.
func AllOff() Command {
	return command("ALLOFF")
}

// VersionRequest queries the device's version identification.
func VersionRequest() Command {
	return command("VER")
}
