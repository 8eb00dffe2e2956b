package nuvo

import (
	"context"

	"github.com/nuvo-protocol/nuvo-go/pkg/interaction"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// zoneStatusCmd sends a command that the device answers with the zone's
// status line.
func (c *Controller) zoneStatusCmd(ctx context.Context, zone int, cmd wire.Command, err error) (*wire.ZoneStatus, error) {
	if err != nil {
		return nil, err
	}
	msg, err := c.send(ctx, cmd, interaction.ExpectKeyed(wire.KindZoneStatus, zone))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.ZoneStatus), nil
}

func (c *Controller) zoneConfigCmd(ctx context.Context, zone int, cmd wire.Command, err error) (*wire.ZoneConfiguration, error) {
	if err != nil {
		return nil, err
	}
	msg, err := c.send(ctx, cmd, interaction.ExpectKeyed(wire.KindZoneConfiguration, zone))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.ZoneConfiguration), nil
}

func (c *Controller) zoneEQCmd(ctx context.Context, zone int, cmd wire.Command, err error) (*wire.ZoneEQStatus, error) {
	if err != nil {
		return nil, err
	}
	msg, err := c.send(ctx, cmd, interaction.ExpectKeyed(wire.KindZoneEQStatus, zone))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.ZoneEQStatus), nil
}

func (c *Controller) zoneVolumeCmd(ctx context.Context, zone int, cmd wire.Command, err error) (*wire.ZoneVolumeConfiguration, error) {
	if err != nil {
		return nil, err
	}
	msg, err := c.send(ctx, cmd, interaction.ExpectKeyed(wire.KindZoneVolumeConfiguration, zone))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.ZoneVolumeConfiguration), nil
}

func (c *Controller) sourceConfigCmd(ctx context.Context, source int, cmd wire.Command, err error) (*wire.SourceConfiguration, error) {
	if err != nil {
		return nil, err
	}
	msg, err := c.send(ctx, cmd, interaction.ExpectKeyed(wire.KindSourceConfiguration, source))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.SourceConfiguration), nil
}

// ZoneStatus queries a zone's power, source and volume state.
func (c *Controller) ZoneStatus(ctx context.Context, zone int) (*wire.ZoneStatus, error) {
	cmd, err := wire.ZoneStatusRequest(c.profile, zone)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// SetPower switches a zone on or off.
func (c *Controller) SetPower(ctx context.Context, zone int, power bool) (*wire.ZoneStatus, error) {
	cmd, err := wire.SetPower(c.profile, zone, power)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// SetVolume sets a zone's volume attenuation (0 is loudest).
func (c *Controller) SetVolume(ctx context.Context, zone, volume int) (*wire.ZoneStatus, error) {
	cmd, err := wire.SetVolume(c.profile, zone, volume)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// SetSource selects a zone's input source.
func (c *Controller) SetSource(ctx context.Context, zone, source int) (*wire.ZoneStatus, error) {
	cmd, err := wire.SetSource(c.profile, zone, source)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// SetNextSource cycles a zone to its next allowed source.
func (c *Controller) SetNextSource(ctx context.Context, zone int) (*wire.ZoneStatus, error) {
	cmd, err := wire.SetNextSource(c.profile, zone)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// SetMute mutes or unmutes a zone.
func (c *Controller) SetMute(ctx context.Context, zone int, mute bool) (*wire.ZoneStatus, error) {
	cmd, err := wire.SetMute(c.profile, zone, mute)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// SetDND sets a zone's do-not-disturb state.
func (c *Controller) SetDND(ctx context.Context, zone int, dnd bool) (*wire.ZoneStatus, error) {
	cmd, err := wire.SetDND(c.profile, zone, dnd)
	return c.zoneStatusCmd(ctx, zone, cmd, err)
}

// PressButton simulates a keypad transport button press. Depending on
// firmware the device answers with a button event, a zone status or a
// bare OK; the raw reply is returned.
func (c *Controller) PressButton(ctx context.Context, zone int, button wire.Button) (wire.Message, error) {
	cmd, err := wire.ZoneButtonPress(c.profile, zone, button)
	if err != nil {
		return nil, err
	}
	expect := interaction.ExpectAnyKeyed(zone,
		wire.KindZoneButton, wire.KindZoneStatus, wire.KindOK)
	return c.send(ctx, cmd, expect)
}

// ZoneConfiguration queries a zone's setup.
func (c *Controller) ZoneConfiguration(ctx context.Context, zone int) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneConfigurationRequest(c.profile, zone)
	return c.zoneConfigCmd(ctx, zone, cmd, err)
}

// ZoneSetName renames a zone.
func (c *Controller) ZoneSetName(ctx context.Context, zone int, name string) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneSetName(c.profile, zone, name)
	return c.zoneConfigCmd(ctx, zone, cmd, err)
}

// ZoneSetSourceMask sets the sources a zone is allowed to select.
func (c *Controller) ZoneSetSourceMask(ctx context.Context, zone int, mask wire.SourceMask) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneSetSourceMask(c.profile, zone, mask)
	return c.zoneConfigCmd(ctx, zone, cmd, err)
}

// ZoneSetDNDMask sets a zone's do-not-disturb options.
func (c *Controller) ZoneSetDNDMask(ctx context.Context, zone int, mask wire.DndMask) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneSetDNDMask(c.profile, zone, mask)
	return c.zoneConfigCmd(ctx, zone, cmd, err)
}

// ZoneSlaveTo slaves a zone's controls to a master zone (0 releases).
func (c *Controller) ZoneSlaveTo(ctx context.Context, slaveZone, masterZone int) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneSlaveTo(c.profile, slaveZone, masterZone)
	return c.zoneConfigCmd(ctx, slaveZone, cmd, err)
}

// ZoneJoinGroup puts a zone in a zone group (0 removes it).
func (c *Controller) ZoneJoinGroup(ctx context.Context, zone, group int) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneJoinGroup(c.profile, zone, group)
	return c.zoneConfigCmd(ctx, zone, cmd, err)
}

// ZoneEnable enables or disables a zone.
func (c *Controller) ZoneEnable(ctx context.Context, zone int, enable bool) (*wire.ZoneConfiguration, error) {
	cmd, err := wire.ZoneEnable(c.profile, zone, enable)
	return c.zoneConfigCmd(ctx, zone, cmd, err)
}

// ZoneEQ queries a zone's tone controls.
func (c *Controller) ZoneEQ(ctx context.Context, zone int) (*wire.ZoneEQStatus, error) {
	cmd, err := wire.ZoneEQRequest(c.profile, zone)
	return c.zoneEQCmd(ctx, zone, cmd, err)
}

// SetBass sets a zone's bass level.
func (c *Controller) SetBass(ctx context.Context, zone, bass int) (*wire.ZoneEQStatus, error) {
	cmd, err := wire.SetBass(c.profile, zone, bass)
	return c.zoneEQCmd(ctx, zone, cmd, err)
}

// SetTreble sets a zone's treble level.
func (c *Controller) SetTreble(ctx context.Context, zone, treble int) (*wire.ZoneEQStatus, error) {
	cmd, err := wire.SetTreble(c.profile, zone, treble)
	return c.zoneEQCmd(ctx, zone, cmd, err)
}

// SetBalance sets a zone's balance.
func (c *Controller) SetBalance(ctx context.Context, zone int, position wire.BalancePosition, balance int) (*wire.ZoneEQStatus, error) {
	cmd, err := wire.SetBalance(c.profile, zone, position, balance)
	return c.zoneEQCmd(ctx, zone, cmd, err)
}

// SetLoudnessComp switches a zone's loudness compensation.
func (c *Controller) SetLoudnessComp(ctx context.Context, zone int, comp bool) (*wire.ZoneEQStatus, error) {
	cmd, err := wire.SetLoudnessComp(c.profile, zone, comp)
	return c.zoneEQCmd(ctx, zone, cmd, err)
}

// ZoneVolumeConfiguration queries a zone's volume limits.
func (c *Controller) ZoneVolumeConfiguration(ctx context.Context, zone int) (*wire.ZoneVolumeConfiguration, error) {
	cmd, err := wire.ZoneVolumeConfigurationRequest(c.profile, zone)
	return c.zoneVolumeCmd(ctx, zone, cmd, err)
}

// SetMaxVolume sets a zone's maximum volume.
func (c *Controller) SetMaxVolume(ctx context.Context, zone, volume int) (*wire.ZoneVolumeConfiguration, error) {
	cmd, err := wire.ZoneVolumeMax(c.profile, zone, volume)
	return c.zoneVolumeCmd(ctx, zone, cmd, err)
}

// SetInitialVolume sets a zone's power-on volume.
func (c *Controller) SetInitialVolume(ctx context.Context, zone, volume int) (*wire.ZoneVolumeConfiguration, error) {
	cmd, err := wire.ZoneVolumeInitial(c.profile, zone, volume)
	return c.zoneVolumeCmd(ctx, zone, cmd, err)
}

// SetPageVolume sets a zone's paging volume.
func (c *Controller) SetPageVolume(ctx context.Context, zone, volume int) (*wire.ZoneVolumeConfiguration, error) {
	cmd, err := wire.ZoneVolumePage(c.profile, zone, volume)
	return c.zoneVolumeCmd(ctx, zone, cmd, err)
}

// SetPartyVolume sets a zone's party volume.
func (c *Controller) SetPartyVolume(ctx context.Context, zone, volume int) (*wire.ZoneVolumeConfiguration, error) {
	cmd, err := wire.ZoneVolumeParty(c.profile, zone, volume)
	return c.zoneVolumeCmd(ctx, zone, cmd, err)
}

// SetVolumeReset switches a zone's volume reset behavior.
func (c *Controller) SetVolumeReset(ctx context.Context, zone int, reset bool) (*wire.ZoneVolumeConfiguration, error) {
	cmd, err := wire.ZoneVolumeReset(c.profile, zone, reset)
	return c.zoneVolumeCmd(ctx, zone, cmd, err)
}

// SourceConfiguration queries a source's setup.
func (c *Controller) SourceConfiguration(ctx context.Context, source int) (*wire.SourceConfiguration, error) {
	cmd, err := wire.SourceConfigurationRequest(c.profile, source)
	return c.sourceConfigCmd(ctx, source, cmd, err)
}

// SetSourceEnable enables or disables a source.
func (c *Controller) SetSourceEnable(ctx context.Context, source int, enable bool) (*wire.SourceConfiguration, error) {
	cmd, err := wire.SetSourceEnable(c.profile, source, enable)
	return c.sourceConfigCmd(ctx, source, cmd, err)
}

// SetSourceName renames a source.
func (c *Controller) SetSourceName(ctx context.Context, source int, name string) (*wire.SourceConfiguration, error) {
	cmd, err := wire.SetSourceName(c.profile, source, name)
	return c.sourceConfigCmd(ctx, source, cmd, err)
}

// SetSourceShortName sets a source's abbreviated display name.
func (c *Controller) SetSourceShortName(ctx context.Context, source int, shortName string) (*wire.SourceConfiguration, error) {
	cmd, err := wire.SetSourceShortName(c.profile, source, shortName)
	return c.sourceConfigCmd(ctx, source, cmd, err)
}

// SetSourceGain sets a source's input gain.
func (c *Controller) SetSourceGain(ctx context.Context, source, gain int) (*wire.SourceConfiguration, error) {
	cmd, err := wire.SetSourceGain(c.profile, source, gain)
	return c.sourceConfigCmd(ctx, source, cmd, err)
}

// SetSourceNuvoNet marks a source as a NuvoNet source.
func (c *Controller) SetSourceNuvoNet(ctx context.Context, source int, nuvonet bool) (*wire.SourceConfiguration, error) {
	cmd, err := wire.SetSourceNuvoNet(c.profile, source, nuvonet)
	return c.sourceConfigCmd(ctx, source, cmd, err)
}

// AllOff switches every zone off.
func (c *Controller) AllOff(ctx context.Context) error {
	_, err := c.send(ctx, wire.AllOff(), interaction.ExpectKind(wire.KindZoneAllOff))
	return err
}

// SetPage switches system-wide paging.
func (c *Controller) SetPage(ctx context.Context, page bool) (*wire.Paging, error) {
	msg, err := c.send(ctx, wire.SetPage(page), interaction.ExpectKind(wire.KindPaging))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.Paging), nil
}

// SetPartyHost makes a zone the party host, or releases it.
func (c *Controller) SetPartyHost(ctx context.Context, zone int, enable bool) (*wire.Party, error) {
	cmd, err := wire.SetPartyHost(c.profile, zone, enable)
	if err != nil {
		return nil, err
	}
	msg, err := c.send(ctx, cmd, interaction.ExpectKeyed(wire.KindParty, zone))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.Party), nil
}

// QueryVersion asks the device for its product and firmware identification.
func (c *Controller) QueryVersion(ctx context.Context) (*wire.Version, error) {
	msg, err := c.send(ctx, wire.VersionRequest(), interaction.ExpectKind(wire.KindVersion))
	if err != nil {
		return nil, err
	}
	return msg.(*wire.Version), nil
}
