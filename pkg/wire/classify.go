package wire

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
)

// ErrUnparsable indicates a line that matched no known grammar, or matched
// a shape but carried a zone/source number outside the model's capability
// table. Unparsable lines are diagnostic events, not protocol failures.
var ErrUnparsable = errors.New("unparsable line")

// Line shape patterns, one per message kind. Evaluated in the order given
// by Kinds(); the first matching pattern wins.
var (
	reZoneOn            = regexp.MustCompile(`^#Z(\d+),ON,SRC(\d+),(?:VOL)?(\d+|MUTE),DND([01]),LOCK([01])$`)
	reZoneOff           = regexp.MustCompile(`^#Z(\d+),OFF$`)
	reZoneEQ            = regexp.MustCompile(`^#ZCFG(\d+),BASS(-?\d+),TREB(-?\d+),BAL([LRC])(\d+)?,LOUDCMP([01])$`)
	reZoneCfgEnabled    = regexp.MustCompile(`^#ZCFG(\d+),ENABLE1,NAME"(.*)",SLAVETO(\d+),GROUP(\d),SOURCES(\d+),XSRC([01]),IR(\d),DND(\d),LOCKED([01]),SLAVEEQ(\d)$`)
	reZoneCfgDisabled   = regexp.MustCompile(`^#ZCFG(\d+),ENABLE0$`)
	reSourceCfgEnabled  = regexp.MustCompile(`^#SCFG(\d),ENABLE1,NAME"(.*)",GAIN(\d+),NUVONET([01]),SHORTNAME"(.*)"$`)
	reSourceCfgDisabled = regexp.MustCompile(`^#SCFG(\d),ENABLE0$`)
	reZoneVolCfg        = regexp.MustCompile(`^#ZCFG(\d+),(?:MAXVOL)?(\d+),(?:INIVOL)?(\d+),(?:PAGEVOL)?(\d+),(?:PARTYVOL)?(\d+),VOLRST([01])$`)
	reZoneButton        = regexp.MustCompile(`^#Z(\d+)S(\d)(PLAYPAUSE|PREV|NEXT)$`)
	reMute              = regexp.MustCompile(`^#MUTE([01])$`)
	reParty             = regexp.MustCompile(`^#Z(\d+),PARTY([01])$`)
	rePage              = regexp.MustCompile(`^#PAGE([01])$`)
	reVersion           = regexp.MustCompile(`^#VER"(\S+)\s+(\S+)\s+(\S+)"$`)
)

// Classify parses one raw incoming line into a typed Message. The line may
// carry its CR/LF terminator; it is stripped before matching. Lines that
// match no grammar, or whose zone/source numbers exceed the profile's
// counts, fail with ErrUnparsable carrying the raw line.
func Classify(p *profile.Profile, line []byte) (Message, error) {
	s := strings.TrimRight(string(line), "\r\n")

	// The restart banner is preceded by NUL bytes on the wire.
	if strings.HasPrefix(strings.TrimLeft(s, "\x00"), "#RESTART") {
		return &Restart{}, nil
	}

	for _, kind := range Kinds() {
		msg, err := match(p, kind, s)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnparsable, s)
}

// match attempts the grammar for one kind. A nil, nil return means the
// line has a different shape; an error means the shape matched but the
// content is invalid for this model.
func match(p *profile.Profile, kind MsgKind, s string) (Message, error) {
	switch kind {
	case KindError:
		if s == "#?" {
			return &ErrorResponse{}, nil
		}
	case KindOK:
		if s == "#OK" {
			return &OK{}, nil
		}
	case KindZoneAllOff:
		if s == "#ALLOFF" {
			return &ZoneAllOff{}, nil
		}
	case KindZoneStatus:
		return matchZoneStatus(p, s)
	case KindZoneEQStatus:
		return matchZoneEQ(p, s)
	case KindZoneConfiguration:
		return matchZoneConfiguration(p, s)
	case KindSourceConfiguration:
		return matchSourceConfiguration(p, s)
	case KindZoneVolumeConfiguration:
		return matchZoneVolumeConfiguration(p, s)
	case KindZoneButton:
		return matchZoneButton(p, s)
	case KindMute:
		if m := reMute.FindStringSubmatch(s); m != nil {
			return &Mute{Mute: m[1] == "1"}, nil
		}
	case KindParty:
		if m := reParty.FindStringSubmatch(s); m != nil {
			zone, err := zoneNumber(p, m[1], s)
			if err != nil {
				return nil, err
			}
			return &Party{Zone: zone, PartyHost: m[2] == "1"}, nil
		}
	case KindPaging:
		if m := rePage.FindStringSubmatch(s); m != nil {
			return &Paging{Page: m[1] == "1"}, nil
		}
	case KindRestart:
		// Handled before pattern matching; the banner carries NUL bytes.
	case KindVersion:
		if m := reVersion.FindStringSubmatch(s); m != nil {
			v := &Version{
				ProductNumber:   m[1],
				FirmwareVersion: m[2],
				HardwareVersion: m[3],
			}
			if model, ok := profile.ByProductNumber(v.ProductNumber); ok {
				v.Model = string(model)
			}
			return v, nil
		}
	}
	return nil, nil
}

func matchZoneStatus(p *profile.Profile, s string) (Message, error) {
	if m := reZoneOn.FindStringSubmatch(s); m != nil {
		zone, err := zoneNumber(p, m[1], s)
		if err != nil {
			return nil, err
		}
		source, err := sourceNumber(p, m[2], s)
		if err != nil {
			return nil, err
		}
		status := &ZoneStatus{
			Zone:   zone,
			Power:  true,
			Source: intp(source),
			DND:    boolp(m[4] == "1"),
			Lock:   boolp(m[5] == "1"),
		}
		if m[3] == "MUTE" {
			status.Mute = boolp(true)
		} else {
			vol, _ := strconv.Atoi(m[3])
			status.Volume = intp(vol)
			status.Mute = boolp(false)
		}
		return status, nil
	}
	if m := reZoneOff.FindStringSubmatch(s); m != nil {
		zone, err := zoneNumber(p, m[1], s)
		if err != nil {
			return nil, err
		}
		return &ZoneStatus{Zone: zone, Power: false}, nil
	}
	return nil, nil
}

// balanceReverse corrects a Grand Concerto firmware bug (seen on v2.66):
// EQ status replies report the opposite balance side. The set-balance
// command is not affected, only the reply.
func balanceReverse(pos string) BalancePosition {
	switch pos {
	case "L":
		return BalanceRight
	case "R":
		return BalanceLeft
	default:
		return BalanceCenter
	}
}

func matchZoneEQ(p *profile.Profile, s string) (Message, error) {
	m := reZoneEQ.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	zone, err := zoneNumber(p, m[1], s)
	if err != nil {
		return nil, err
	}
	bass, _ := strconv.Atoi(m[2])
	treble, _ := strconv.Atoi(m[3])
	eq := &ZoneEQStatus{
		Zone:            zone,
		Bass:            bass,
		Treble:          treble,
		BalancePosition: balanceReverse(m[4]),
		LoudnessComp:    m[6] == "1",
	}
	if eq.BalancePosition != BalanceCenter && m[5] != "" {
		eq.Balance, _ = strconv.Atoi(m[5])
	}
	return eq, nil
}

func matchZoneConfiguration(p *profile.Profile, s string) (Message, error) {
	if m := reZoneCfgEnabled.FindStringSubmatch(s); m != nil {
		zone, err := zoneNumber(p, m[1], s)
		if err != nil {
			return nil, err
		}
		slaveTo, _ := strconv.Atoi(m[3])
		group, _ := strconv.Atoi(m[4])
		sources, _ := strconv.Atoi(m[5])
		ir, _ := strconv.Atoi(m[7])
		dnd, _ := strconv.Atoi(m[8])
		return &ZoneConfiguration{
			Zone:            zone,
			Enabled:         true,
			Name:            strp(m[2]),
			SlaveTo:         intp(slaveTo),
			Group:           intp(group),
			Sources:         maskp(SourceMask(sources)),
			ExclusiveSource: boolp(m[6] == "1"),
			IREnabled:       intp(ir),
			DND:             dndp(DndMask(dnd)),
			Locked:          boolp(m[9] == "1"),
			SlaveEQ:         boolp(m[10] == "1"),
		}, nil
	}
	if m := reZoneCfgDisabled.FindStringSubmatch(s); m != nil {
		zone, err := zoneNumber(p, m[1], s)
		if err != nil {
			return nil, err
		}
		return &ZoneConfiguration{Zone: zone, Enabled: false}, nil
	}
	return nil, nil
}

func matchSourceConfiguration(p *profile.Profile, s string) (Message, error) {
	if m := reSourceCfgEnabled.FindStringSubmatch(s); m != nil {
		source, err := sourceNumber(p, m[1], s)
		if err != nil {
			return nil, err
		}
		gain, _ := strconv.Atoi(m[3])
		return &SourceConfiguration{
			Source:    source,
			Enabled:   true,
			Name:      strp(m[2]),
			Gain:      intp(gain),
			NuvoNet:   boolp(m[4] == "1"),
			ShortName: strp(m[5]),
		}, nil
	}
	if m := reSourceCfgDisabled.FindStringSubmatch(s); m != nil {
		source, err := sourceNumber(p, m[1], s)
		if err != nil {
			return nil, err
		}
		return &SourceConfiguration{Source: source, Enabled: false}, nil
	}
	return nil, nil
}

func matchZoneVolumeConfiguration(p *profile.Profile, s string) (Message, error) {
	m := reZoneVolCfg.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	zone, err := zoneNumber(p, m[1], s)
	if err != nil {
		return nil, err
	}
	maxVol, _ := strconv.Atoi(m[2])
	iniVol, _ := strconv.Atoi(m[3])
	pageVol, _ := strconv.Atoi(m[4])
	partyVol, _ := strconv.Atoi(m[5])
	return &ZoneVolumeConfiguration{
		Zone:          zone,
		MaxVolume:     maxVol,
		InitialVolume: iniVol,
		PageVolume:    pageVol,
		PartyVolume:   partyVol,
		VolumeReset:   m[6] == "1",
	}, nil
}

func matchZoneButton(p *profile.Profile, s string) (Message, error) {
	m := reZoneButton.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	zone, err := zoneNumber(p, m[1], s)
	if err != nil {
		return nil, err
	}
	source, err := sourceNumber(p, m[2], s)
	if err != nil {
		return nil, err
	}
	return &ZoneButton{Zone: zone, Source: source, Button: Button(m[3])}, nil
}

func zoneNumber(p *profile.Profile, field, raw string) (int, error) {
	zone, err := strconv.Atoi(field)
	if err != nil || !p.ValidZone(zone) {
		return 0, fmt.Errorf("%w: zone %s out of range in %q", ErrUnparsable, field, raw)
	}
	return zone, nil
}

func sourceNumber(p *profile.Profile, field, raw string) (int, error) {
	source, err := strconv.Atoi(field)
	if err != nil || !p.ValidSource(source) {
		return 0, fmt.Errorf("%w: source %s out of range in %q", ErrUnparsable, field, raw)
	}
	return source, nil
}

func intp(v int) *int                { return &v }
func boolp(v bool) *bool             { return &v }
func strp(v string) *string          { return &v }
func maskp(v SourceMask) *SourceMask { return &v }
func dndp(v DndMask) *DndMask        { return &v }
