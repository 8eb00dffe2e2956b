// Package mockamp implements the device side of the amplifier's serial
// grammar for tests and demos. An Amp holds per-zone and per-source state,
// evaluates incoming command lines and produces the reply lines a real
// unit would send, including the reversed balance side in EQ replies that
// Grand Concerto firmware is known for.
package mockamp

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
)

// Default version identification reported by VER.
const (
	DefaultFirmwareVersion = "FWv2.66"
	DefaultHardwareVersion = "HWv0"
)

type zoneState struct {
	power  bool
	source int
	volume int
	mute   bool
	dnd    bool
	lock   bool
	party  bool

	enabled   bool
	name      string
	slaveTo   int
	group     int
	sources   int
	exclusive bool
	ir        int
	dndMask   int
	locked    bool
	slaveEQ   bool

	bass     int
	treble   int
	balPos   string
	balance  int
	loudComp bool

	maxVolume     int
	initialVolume int
	pageVolume    int
	partyVolume   int
	volumeReset   bool
}

type sourceState struct {
	enabled   bool
	name      string
	shortName string
	gain      int
	nuvoNet   bool
}

// Amp is a scripted amplifier. All methods are safe for concurrent use.
type Amp struct {
	profile  *profile.Profile
	firmware string
	hardware string

	mu      sync.Mutex
	zones   map[int]*zoneState
	sources map[int]*sourceState
	page    bool

	writeMu sync.Mutex
	conn    io.Writer
}

// ZoneSnapshot is a copy of a zone's volatile state for test assertions.
type ZoneSnapshot struct {
	Power  bool
	Source int
	Volume int
	Mute   bool
	DND    bool
	Party  bool
}

// New creates an amplifier with every zone and source enabled.
func New(p *profile.Profile) *Amp {
	a := &Amp{
		profile:  p,
		firmware: DefaultFirmwareVersion,
		hardware: DefaultHardwareVersion,
		zones:    make(map[int]*zoneState),
		sources:  make(map[int]*sourceState),
	}

	allSources := (1 << p.Sources.Total) - 1
	for zone := 1; zone <= p.Zones.Total; zone++ {
		a.zones[zone] = &zoneState{
			source:        1,
			volume:        60,
			enabled:       true,
			name:          fmt.Sprintf("Zone %d", zone),
			sources:       allSources,
			balPos:        "C",
			maxVolume:     20,
			initialVolume: 50,
			pageVolume:    40,
			partyVolume:   30,
		}
	}
	for source := 1; source <= p.Sources.Total; source++ {
		a.sources[source] = &sourceState{
			enabled:   true,
			name:      fmt.Sprintf("Source %d", source),
			shortName: fmt.Sprintf("SRC%d", source),
		}
	}
	return a
}

// SetVersion overrides the firmware and hardware strings reported by VER.
func (a *Amp) SetVersion(firmware, hardware string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.firmware = firmware
	a.hardware = hardware
}

// Zone returns a snapshot of a zone's volatile state.
func (a *Amp) Zone(zone int) ZoneSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	z, ok := a.zones[zone]
	if !ok {
		return ZoneSnapshot{}
	}
	return ZoneSnapshot{
		Power:  z.power,
		Source: z.source,
		Volume: z.volume,
		Mute:   z.mute,
		DND:    z.dnd,
		Party:  z.party,
	}
}

// Command body patterns. ZCFG and SCFG are tried before the plain zone
// form; the Z pattern cannot match them because the digit must follow
// immediately.
var (
	reCmdZCfg = regexp.MustCompile(`^ZCFG(\d+)(.+)$`)
	reCmdSCfg = regexp.MustCompile(`^SCFG(\d+)(.+)$`)
	reCmdZone = regexp.MustCompile(`^Z(\d+)(.+)$`)

	reQuoted = regexp.MustCompile(`^"(.*)"$`)
	reBal    = regexp.MustCompile(`^([LRC])(\d+)?$`)
)

const errorReply = "#?"

// Handle evaluates one command body (without the "*" sigil and CR) and
// returns the reply lines, without terminators.
func (a *Amp) Handle(body string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case body == "VER":
		return []string{a.versionReply()}
	case body == "ALLOFF":
		for _, z := range a.zones {
			z.power = false
		}
		return []string{"#ALLOFF"}
	case body == "PAGE0", body == "PAGE1":
		a.page = body == "PAGE1"
		return []string{fmt.Sprintf("#PAGE%d", bit(a.page))}
	}

	if m := reCmdZCfg.FindStringSubmatch(body); m != nil {
		return a.handleZoneConfig(m[1], m[2])
	}
	if m := reCmdSCfg.FindStringSubmatch(body); m != nil {
		return a.handleSourceConfig(m[1], m[2])
	}
	if m := reCmdZone.FindStringSubmatch(body); m != nil {
		return a.handleZone(m[1], m[2])
	}
	return []string{errorReply}
}

func (a *Amp) zone(field string) (*zoneState, int, bool) {
	zone, err := strconv.Atoi(field)
	if err != nil || !a.profile.ValidZone(zone) {
		return nil, 0, false
	}
	return a.zones[zone], zone, true
}

func (a *Amp) handleZone(field, op string) []string {
	z, zone, ok := a.zone(field)
	if !ok {
		return []string{errorReply}
	}

	switch {
	case op == "STATUS?":
	case op == "ON":
		z.power = true
	case op == "OFF":
		z.power = false
	case op == "SRC+":
		z.source = z.source%a.profile.Sources.Total + 1
	case strings.HasPrefix(op, "SRC"):
		source, err := strconv.Atoi(op[len("SRC"):])
		if err != nil || !a.profile.ValidSource(source) {
			return []string{errorReply}
		}
		z.source = source
	case strings.HasPrefix(op, "VOL"):
		volume, err := strconv.Atoi(op[len("VOL"):])
		if err != nil || !a.profile.Volume.Contains(volume) {
			return []string{errorReply}
		}
		z.volume = volume
	case op == "MUTEON":
		z.mute = true
	case op == "MUTEOFF":
		z.mute = false
	case op == "DNDON":
		z.dnd = true
	case op == "DNDOFF":
		z.dnd = false
	case op == "PARTY0", op == "PARTY1":
		host := op == "PARTY1"
		if host {
			// Only one zone hosts a party at a time.
			for _, other := range a.zones {
				other.party = false
			}
		}
		z.party = host
		return []string{fmt.Sprintf("#Z%d,PARTY%d", zone, bit(host))}
	case op == "PLAYPAUSE", op == "PREV", op == "NEXT":
		return []string{fmt.Sprintf("#Z%dS%d%s", zone, z.source, op)}
	default:
		return []string{errorReply}
	}
	return []string{zoneStatusReply(zone, z)}
}

func (a *Amp) handleZoneConfig(field, op string) []string {
	z, zone, ok := a.zone(field)
	if !ok {
		return []string{errorReply}
	}

	switch {
	case op == "STATUS?":
		return []string{zoneConfigReply(zone, z)}
	case op == "EQ?":
	case op == "VOL?":
		return []string{zoneVolumeConfigReply(zone, z)}
	case op == "ENABLE0", op == "ENABLE1":
		z.enabled = op == "ENABLE1"
		return []string{zoneConfigReply(zone, z)}
	case strings.HasPrefix(op, "NAME"):
		m := reQuoted.FindStringSubmatch(op[len("NAME"):])
		if m == nil || len(m[1]) > a.profile.Zones.NameMaxLength {
			return []string{errorReply}
		}
		z.name = m[1]
		return []string{zoneConfigReply(zone, z)}
	case strings.HasPrefix(op, "SLAVETO"):
		master, err := strconv.Atoi(op[len("SLAVETO"):])
		if err != nil || !a.profile.Zones.SlaveTo.Contains(master) {
			return []string{errorReply}
		}
		z.slaveTo = master
		return []string{zoneConfigReply(zone, z)}
	case strings.HasPrefix(op, "GROUP"):
		group, err := strconv.Atoi(op[len("GROUP"):])
		if err != nil || !a.profile.Zones.Group.Contains(group) {
			return []string{errorReply}
		}
		z.group = group
		return []string{zoneConfigReply(zone, z)}
	case strings.HasPrefix(op, "SOURCES"):
		mask, err := strconv.Atoi(op[len("SOURCES"):])
		if err != nil || mask < 0 || mask >= 1<<a.profile.Sources.Total {
			return []string{errorReply}
		}
		z.sources = mask
		return []string{zoneConfigReply(zone, z)}
	case strings.HasPrefix(op, "DND"):
		mask, err := strconv.Atoi(op[len("DND"):])
		if err != nil || mask < 0 || mask > 7 {
			return []string{errorReply}
		}
		z.dndMask = mask
		return []string{zoneConfigReply(zone, z)}
	case strings.HasPrefix(op, "BASS"):
		bass, err := strconv.Atoi(op[len("BASS"):])
		if err != nil || !a.profile.Bass.Contains(bass) {
			return []string{errorReply}
		}
		z.bass = bass
	case strings.HasPrefix(op, "TREB"):
		treble, err := strconv.Atoi(op[len("TREB"):])
		if err != nil || !a.profile.Treble.Contains(treble) {
			return []string{errorReply}
		}
		z.treble = treble
	case strings.HasPrefix(op, "BAL"):
		m := reBal.FindStringSubmatch(op[len("BAL"):])
		if m == nil {
			return []string{errorReply}
		}
		balance := 0
		if m[2] != "" {
			var err error
			if balance, err = strconv.Atoi(m[2]); err != nil || !a.profile.Balance.Contains(balance) {
				return []string{errorReply}
			}
		}
		if m[1] == "C" {
			balance = 0
		}
		z.balPos = m[1]
		z.balance = balance
	case strings.HasPrefix(op, "LOUDCMP"):
		switch op[len("LOUDCMP"):] {
		case "0":
			z.loudComp = false
		case "1":
			z.loudComp = true
		default:
			return []string{errorReply}
		}
	case strings.HasPrefix(op, "MAXVOL"):
		return a.setVolumeLimit(zone, z, &z.maxVolume, op[len("MAXVOL"):])
	case strings.HasPrefix(op, "INIVOL"):
		return a.setVolumeLimit(zone, z, &z.initialVolume, op[len("INIVOL"):])
	case strings.HasPrefix(op, "PAGEVOL"):
		return a.setVolumeLimit(zone, z, &z.pageVolume, op[len("PAGEVOL"):])
	case strings.HasPrefix(op, "PARTYVOL"):
		return a.setVolumeLimit(zone, z, &z.partyVolume, op[len("PARTYVOL"):])
	case strings.HasPrefix(op, "VOLRST"):
		switch op[len("VOLRST"):] {
		case "0":
			z.volumeReset = false
		case "1":
			z.volumeReset = true
		default:
			return []string{errorReply}
		}
		return []string{zoneVolumeConfigReply(zone, z)}
	default:
		return []string{errorReply}
	}
	return []string{zoneEQReply(zone, z)}
}

func (a *Amp) setVolumeLimit(zone int, z *zoneState, target *int, field string) []string {
	volume, err := strconv.Atoi(field)
	if err != nil || !a.profile.Volume.Contains(volume) {
		return []string{errorReply}
	}
	*target = volume
	return []string{zoneVolumeConfigReply(zone, z)}
}

func (a *Amp) handleSourceConfig(field, op string) []string {
	source, err := strconv.Atoi(field)
	if err != nil || !a.profile.ValidSource(source) {
		return []string{errorReply}
	}
	src := a.sources[source]

	switch {
	case op == "STATUS?":
	case op == "ENABLE0", op == "ENABLE1":
		src.enabled = op == "ENABLE1"
	case strings.HasPrefix(op, "SHORTNAME"):
		m := reQuoted.FindStringSubmatch(op[len("SHORTNAME"):])
		if m == nil || len(m[1]) > a.profile.Sources.NameShortMaxLength {
			return []string{errorReply}
		}
		src.shortName = m[1]
	case strings.HasPrefix(op, "NAME"):
		m := reQuoted.FindStringSubmatch(op[len("NAME"):])
		if m == nil || len(m[1]) > a.profile.Sources.NameLongMaxLength {
			return []string{errorReply}
		}
		src.name = m[1]
	case strings.HasPrefix(op, "GAIN"):
		gain, err := strconv.Atoi(op[len("GAIN"):])
		if err != nil || !a.profile.Gain.Contains(gain) {
			return []string{errorReply}
		}
		src.gain = gain
	case strings.HasPrefix(op, "NUVONET"):
		switch op[len("NUVONET"):] {
		case "0":
			src.nuvoNet = false
		case "1":
			if !a.profile.NuvoNetSources {
				return []string{errorReply}
			}
			src.nuvoNet = true
		default:
			return []string{errorReply}
		}
	default:
		return []string{errorReply}
	}
	return []string{sourceConfigReply(source, src)}
}

func (a *Amp) versionReply() string {
	return fmt.Sprintf("#VER\"%s %s %s\"", a.profile.ProductNumber, a.firmware, a.hardware)
}

func zoneStatusReply(zone int, z *zoneState) string {
	if !z.power {
		return fmt.Sprintf("#Z%d,OFF", zone)
	}
	if z.mute {
		return fmt.Sprintf("#Z%d,ON,SRC%d,MUTE,DND%d,LOCK%d",
			zone, z.source, bit(z.dnd), bit(z.lock))
	}
	return fmt.Sprintf("#Z%d,ON,SRC%d,VOL%d,DND%d,LOCK%d",
		zone, z.source, z.volume, bit(z.dnd), bit(z.lock))
}

func zoneConfigReply(zone int, z *zoneState) string {
	if !z.enabled {
		return fmt.Sprintf("#ZCFG%d,ENABLE0", zone)
	}
	return fmt.Sprintf("#ZCFG%d,ENABLE1,NAME\"%s\",SLAVETO%d,GROUP%d,SOURCES%d,XSRC%d,IR%d,DND%d,LOCKED%d,SLAVEEQ%d",
		zone, z.name, z.slaveTo, z.group, z.sources, bit(z.exclusive),
		z.ir, z.dndMask, bit(z.locked), bit(z.slaveEQ))
}

// zoneEQReply reports the balance side reversed, matching the firmware bug
// the classifier corrects for.
func zoneEQReply(zone int, z *zoneState) string {
	pos := z.balPos
	switch pos {
	case "L":
		pos = "R"
	case "R":
		pos = "L"
	}
	bal := ""
	if pos != "C" {
		bal = strconv.Itoa(z.balance)
	}
	return fmt.Sprintf("#ZCFG%d,BASS%d,TREB%d,BAL%s%s,LOUDCMP%d",
		zone, z.bass, z.treble, pos, bal, bit(z.loudComp))
}

func zoneVolumeConfigReply(zone int, z *zoneState) string {
	return fmt.Sprintf("#ZCFG%d,MAXVOL%d,INIVOL%d,PAGEVOL%d,PARTYVOL%d,VOLRST%d",
		zone, z.maxVolume, z.initialVolume, z.pageVolume, z.partyVolume, bit(z.volumeReset))
}

func sourceConfigReply(source int, src *sourceState) string {
	if !src.enabled {
		return fmt.Sprintf("#SCFG%d,ENABLE0", source)
	}
	return fmt.Sprintf("#SCFG%d,ENABLE1,NAME\"%s\",GAIN%d,NUVONET%d,SHORTNAME\"%s\"",
		source, src.name, src.gain, bit(src.nuvoNet), src.shortName)
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
