package wire

import "fmt"

// MsgKind identifies one variant of the message sum type.
type MsgKind uint8

const (
	// KindError is the device error reply "#?".
	KindError MsgKind = iota

	// KindOK is the device acknowledgement "#OK".
	KindOK

	// KindZoneAllOff is the system-wide all-off notification.
	KindZoneAllOff

	// KindZoneStatus is a zone power/source/volume status line.
	KindZoneStatus

	// KindZoneEQStatus is a zone bass/treble/balance line.
	KindZoneEQStatus

	// KindZoneConfiguration is a zone configuration line.
	KindZoneConfiguration

	// KindSourceConfiguration is a source configuration line.
	KindSourceConfiguration

	// KindZoneVolumeConfiguration is a zone volume-limits line.
	KindZoneVolumeConfiguration

	// KindZoneButton is a keypad button press notification.
	KindZoneButton

	// KindMute is the system mute state line.
	KindMute

	// KindParty is the party host state line.
	KindParty

	// KindPaging is the system paging state line.
	KindPaging

	// KindRestart is the device restart banner.
	KindRestart

	// KindVersion is the firmware/hardware version line.
	KindVersion
)

var kindNames = map[MsgKind]string{
	KindError:                   "ErrorResponse",
	KindOK:                      "OKResponse",
	KindZoneAllOff:              "ZoneAllOff",
	KindZoneStatus:              "ZoneStatus",
	KindZoneEQStatus:            "ZoneEQStatus",
	KindZoneConfiguration:       "ZoneConfiguration",
	KindSourceConfiguration:     "SourceConfiguration",
	KindZoneVolumeConfiguration: "ZoneVolumeConfiguration",
	KindZoneButton:              "ZoneButton",
	KindMute:                    "Mute",
	KindParty:                   "Party",
	KindPaging:                  "Paging",
	KindRestart:                 "Restart",
	KindVersion:                 "Version",
}

// String returns the kind name used by the subscriber API.
func (k MsgKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MsgKind(%d)", uint8(k))
}

// ParseKind resolves a kind name (as used by the subscriber API) back to
// its MsgKind. The second return is false for unknown names.
func ParseKind(name string) (MsgKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds returns all message kinds in classification priority order.
func Kinds() []MsgKind {
	return []MsgKind{
		KindError, KindOK, KindZoneAllOff, KindZoneStatus, KindZoneEQStatus,
		KindZoneConfiguration, KindSourceConfiguration,
		KindZoneVolumeConfiguration, KindZoneButton, KindMute, KindParty,
		KindPaging, KindRestart, KindVersion,
	}
}
