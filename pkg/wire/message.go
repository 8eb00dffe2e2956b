package wire

// Message is one classified line from the device. Messages are immutable
// value objects constructed by Classify.
type Message interface {
	// Kind returns the variant tag.
	Kind() MsgKind
}

// Key returns the disambiguating zone or source number for per-zone and
// per-source message kinds. ok is false for system-wide kinds, which carry
// no key.
func Key(m Message) (key int, ok bool) {
	switch v := m.(type) {
	case *ZoneStatus:
		return v.Zone, true
	case *ZoneEQStatus:
		return v.Zone, true
	case *ZoneConfiguration:
		return v.Zone, true
	case *ZoneVolumeConfiguration:
		return v.Zone, true
	case *ZoneButton:
		return v.Zone, true
	case *SourceConfiguration:
		return v.Source, true
	case *Party:
		return v.Zone, true
	default:
		return 0, false
	}
}

// BalancePosition is the side a zone's balance leans toward.
type BalancePosition string

// Balance positions.
const (
	BalanceLeft   BalancePosition = "L"
	BalanceCenter BalancePosition = "C"
	BalanceRight  BalancePosition = "R"
)

// Button identifies a zone keypad transport button.
type Button string

// Keypad buttons.
const (
	ButtonPlayPause Button = "PLAYPAUSE"
	ButtonPrev      Button = "PREV"
	ButtonNext      Button = "NEXT"
)

// ZoneStatus reports a zone's power, source and volume state.
// Source, Volume, Mute, DND and Lock are absent when the zone is off;
// Volume is additionally absent while the zone is muted.
type ZoneStatus struct {
	Zone   int
	Power  bool
	Source *int
	Volume *int
	Mute   *bool
	DND    *bool
	Lock   *bool
}

// Kind implements Message.
func (*ZoneStatus) Kind() MsgKind { return KindZoneStatus }

// ZoneEQStatus reports a zone's tone controls.
type ZoneEQStatus struct {
	Zone            int
	Bass            int
	Treble          int
	LoudnessComp    bool
	BalancePosition BalancePosition
	// Balance is 0 when BalancePosition is BalanceCenter.
	Balance int
}

// Kind implements Message.
func (*ZoneEQStatus) Kind() MsgKind { return KindZoneEQStatus }

// ZoneConfiguration reports a zone's setup. All fields after Enabled are
// absent when the zone is disabled.
type ZoneConfiguration struct {
	Zone            int
	Enabled         bool
	Name            *string
	SlaveTo         *int
	Group           *int
	Sources         *SourceMask
	ExclusiveSource *bool
	IREnabled       *int
	DND             *DndMask
	Locked          *bool
	SlaveEQ         *bool
}

// Kind implements Message.
func (*ZoneConfiguration) Kind() MsgKind { return KindZoneConfiguration }

// SourceConfiguration reports a source's setup. All fields after Enabled
// are absent when the source is disabled.
type SourceConfiguration struct {
	Source    int
	Enabled   bool
	Name      *string
	Gain      *int
	NuvoNet   *bool
	ShortName *string
}

// Kind implements Message.
func (*SourceConfiguration) Kind() MsgKind { return KindSourceConfiguration }

// ZoneVolumeConfiguration reports a zone's volume limits.
type ZoneVolumeConfiguration struct {
	Zone          int
	MaxVolume     int
	InitialVolume int
	PageVolume    int
	PartyVolume   int
	VolumeReset   bool
}

// Kind implements Message.
func (*ZoneVolumeConfiguration) Kind() MsgKind { return KindZoneVolumeConfiguration }

// ZoneButton reports a keypad transport button press on a zone.
type ZoneButton struct {
	Zone   int
	Source int
	Button Button
}

// Kind implements Message.
func (*ZoneButton) Kind() MsgKind { return KindZoneButton }

// ZoneAllOff reports that every zone was switched off.
type ZoneAllOff struct{}

// Kind implements Message.
func (*ZoneAllOff) Kind() MsgKind { return KindZoneAllOff }

// Mute reports the system mute state.
type Mute struct {
	Mute bool
}

// Kind implements Message.
func (*Mute) Kind() MsgKind { return KindMute }

// Paging reports the system paging state.
type Paging struct {
	Page bool
}

// Kind implements Message.
func (*Paging) Kind() MsgKind { return KindPaging }

// Party reports whether a zone is the party host.
type Party struct {
	Zone      int
	PartyHost bool
}

// Kind implements Message.
func (*Party) Kind() MsgKind { return KindParty }

// Restart reports the banner the device prints while restarting.
type Restart struct{}

// Kind implements Message.
func (*Restart) Kind() MsgKind { return KindRestart }

// Version reports the device's product and firmware identification.
type Version struct {
	// Model is the model matching ProductNumber, or empty when the
	// product number is not recognized.
	Model           string
	ProductNumber   string
	FirmwareVersion string
	HardwareVersion string
}

// Kind implements Message.
func (*Version) Kind() MsgKind { return KindVersion }

// OK is the device acknowledgement for commands with no data reply.
type OK struct{}

// Kind implements Message.
func (*OK) Kind() MsgKind { return KindOK }

// ErrorResponse is the device's "#?" reply to a rejected command.
type ErrorResponse struct{}

// Kind implements Message.
func (*ErrorResponse) Kind() MsgKind { return KindError }
