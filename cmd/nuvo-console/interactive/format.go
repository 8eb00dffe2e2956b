package interactive

import (
	"fmt"
	"strings"

	"github.com/nuvo-protocol/nuvo-go/pkg/nuvo"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// formatMessage renders a device message as a single console line.
func formatMessage(msg wire.Message) string {
	switch m := msg.(type) {
	case *wire.ZoneStatus:
		if !m.Power {
			return fmt.Sprintf("Zone %d: OFF", m.Zone)
		}
		parts := []string{fmt.Sprintf("Zone %d: ON", m.Zone)}
		if m.Source != nil {
			parts = append(parts, fmt.Sprintf("source %d", *m.Source))
		}
		if m.Volume != nil {
			parts = append(parts, fmt.Sprintf("volume %d", *m.Volume))
		}
		if m.Mute != nil && *m.Mute {
			parts = append(parts, "muted")
		}
		if m.DND != nil && *m.DND {
			parts = append(parts, "dnd")
		}
		if m.Lock != nil && *m.Lock {
			parts = append(parts, "locked")
		}
		return strings.Join(parts, ", ")

	case *wire.ZoneEQStatus:
		balance := string(m.BalancePosition)
		if m.BalancePosition != wire.BalanceCenter {
			balance = fmt.Sprintf("%s%d", m.BalancePosition, m.Balance)
		}
		return fmt.Sprintf("Zone %d EQ: bass %+d, treble %+d, balance %s, loudness %s",
			m.Zone, m.Bass, m.Treble, balance, onOff(m.LoudnessComp))

	case *wire.ZoneConfiguration:
		if !m.Enabled {
			return fmt.Sprintf("Zone %d: disabled", m.Zone)
		}
		parts := []string{fmt.Sprintf("Zone %d", m.Zone)}
		if m.Name != nil {
			parts = append(parts, fmt.Sprintf("%q", *m.Name))
		}
		if m.SlaveTo != nil && *m.SlaveTo != 0 {
			parts = append(parts, fmt.Sprintf("slave to %d", *m.SlaveTo))
		}
		if m.Group != nil && *m.Group != 0 {
			parts = append(parts, fmt.Sprintf("group %d", *m.Group))
		}
		if m.Sources != nil {
			parts = append(parts, fmt.Sprintf("sources %s", formatMask(uint(*m.Sources))))
		}
		if m.DND != nil {
			parts = append(parts, fmt.Sprintf("dnd mask %s", formatMask(uint(*m.DND))))
		}
		return strings.Join(parts, ", ")

	case *wire.SourceConfiguration:
		if !m.Enabled {
			return fmt.Sprintf("Source %d: disabled", m.Source)
		}
		parts := []string{fmt.Sprintf("Source %d", m.Source)}
		if m.Name != nil {
			parts = append(parts, fmt.Sprintf("%q", *m.Name))
		}
		if m.ShortName != nil {
			parts = append(parts, fmt.Sprintf("short %q", *m.ShortName))
		}
		if m.Gain != nil {
			parts = append(parts, fmt.Sprintf("gain %d", *m.Gain))
		}
		if m.NuvoNet != nil && *m.NuvoNet {
			parts = append(parts, "nuvonet")
		}
		return strings.Join(parts, ", ")

	case *wire.ZoneVolumeConfiguration:
		return fmt.Sprintf("Zone %d volume: max %d, initial %d, page %d, party %d, reset %s",
			m.Zone, m.MaxVolume, m.InitialVolume, m.PageVolume, m.PartyVolume, onOff(m.VolumeReset))

	case *wire.ZoneButton:
		return fmt.Sprintf("Zone %d button: %s (source %d)", m.Zone, m.Button, m.Source)

	case *wire.ZoneAllOff:
		return "All zones off"

	case *wire.Mute:
		return fmt.Sprintf("System mute %s", onOff(m.Mute))

	case *wire.Paging:
		return fmt.Sprintf("Paging %s", onOff(m.Page))

	case *wire.Party:
		if m.PartyHost {
			return fmt.Sprintf("Zone %d is party host", m.Zone)
		}
		return fmt.Sprintf("Zone %d left party mode", m.Zone)

	case *wire.Restart:
		return "Amplifier restarting"

	case *wire.Version:
		return fmt.Sprintf("%s %s %s", m.ProductNumber, m.FirmwareVersion, m.HardwareVersion)

	case *wire.OK:
		return "OK"

	default:
		return fmt.Sprintf("%T", msg)
	}
}

// formatZoneState renders the tracked image of a zone.
func formatZoneState(state nuvo.ZoneState) string {
	if !state.Power {
		return "OFF"
	}
	s := fmt.Sprintf("ON, source %d, volume %d", state.Source, state.Volume)
	if state.Mute {
		s += ", muted"
	}
	if state.DND {
		s += ", dnd"
	}
	if state.PartyHost {
		s += ", party host"
	}
	if state.Name != "" {
		s = fmt.Sprintf("%q: %s", state.Name, s)
	}
	return s
}

// formatMask renders a bitmask as a list of set positions (1-based).
func formatMask(mask uint) string {
	var set []string
	for i := 0; i < 32; i++ {
		if mask&(1<<i) != 0 {
			set = append(set, fmt.Sprintf("%d", i+1))
		}
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, ",")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
