package nuvo

import (
	"sort"
	"sync"

	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// ZoneState is the merged image of everything the device has reported
// about one zone. Fields keep their last reported value; a zone that has
// only ever reported status carries configuration zero values.
type ZoneState struct {
	Power  bool
	Source int
	Volume int
	Mute   bool
	DND    bool
	Lock   bool

	PartyHost bool

	Enabled         bool
	Name            string
	SlaveTo         int
	Group           int
	Sources         wire.SourceMask
	ExclusiveSource bool
	DNDMask         wire.DndMask
	Locked          bool

	Bass            int
	Treble          int
	BalancePosition wire.BalancePosition
	Balance         int
	LoudnessComp    bool

	MaxVolume     int
	InitialVolume int
	PageVolume    int
	PartyVolume   int
	VolumeReset   bool
}

// SourceState is the merged image of one source's configuration.
type SourceState struct {
	Enabled   bool
	Name      string
	ShortName string
	Gain      int
	NuvoNet   bool
}

// State folds received messages into an in-memory image of the device.
// Safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	zones   map[int]*ZoneState
	sources map[int]*SourceState
	page    bool
	mute    bool
}

// NewState creates an empty state image.
func NewState() *State {
	return &State{
		zones:   make(map[int]*ZoneState),
		sources: make(map[int]*SourceState),
	}
}

// Zone returns a copy of a zone's image. ok is false until the zone has
// been heard from.
func (s *State) Zone(zone int) (ZoneState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	z, ok := s.zones[zone]
	if !ok {
		return ZoneState{}, false
	}
	return *z, true
}

// Source returns a copy of a source's image.
func (s *State) Source(source int) (SourceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.sources[source]
	if !ok {
		return SourceState{}, false
	}
	return *src, true
}

// Page returns the last reported system paging state.
func (s *State) Page() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Mute returns the last reported system mute state.
func (s *State) Mute() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mute
}

// KnownZones returns the zones heard from so far, ascending.
func (s *State) KnownZones() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zones := make([]int, 0, len(s.zones))
	for zone := range s.zones {
		zones = append(zones, zone)
	}
	sort.Ints(zones)
	return zones
}

func (s *State) zone(zone int) *ZoneState {
	z, ok := s.zones[zone]
	if !ok {
		z = &ZoneState{}
		s.zones[zone] = z
	}
	return z
}

// Apply merges one received message into the image.
func (s *State) Apply(msg wire.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := msg.(type) {
	case *wire.ZoneStatus:
		z := s.zone(m.Zone)
		z.Power = m.Power
		if m.Source != nil {
			z.Source = *m.Source
		}
		if m.Volume != nil {
			z.Volume = *m.Volume
		}
		if m.Mute != nil {
			z.Mute = *m.Mute
		}
		if m.DND != nil {
			z.DND = *m.DND
		}
		if m.Lock != nil {
			z.Lock = *m.Lock
		}

	case *wire.ZoneEQStatus:
		z := s.zone(m.Zone)
		z.Bass = m.Bass
		z.Treble = m.Treble
		z.BalancePosition = m.BalancePosition
		z.Balance = m.Balance
		z.LoudnessComp = m.LoudnessComp

	case *wire.ZoneConfiguration:
		z := s.zone(m.Zone)
		z.Enabled = m.Enabled
		if m.Name != nil {
			z.Name = *m.Name
		}
		if m.SlaveTo != nil {
			z.SlaveTo = *m.SlaveTo
		}
		if m.Group != nil {
			z.Group = *m.Group
		}
		if m.Sources != nil {
			z.Sources = *m.Sources
		}
		if m.ExclusiveSource != nil {
			z.ExclusiveSource = *m.ExclusiveSource
		}
		if m.DND != nil {
			z.DNDMask = *m.DND
		}
		if m.Locked != nil {
			z.Locked = *m.Locked
		}

	case *wire.ZoneVolumeConfiguration:
		z := s.zone(m.Zone)
		z.MaxVolume = m.MaxVolume
		z.InitialVolume = m.InitialVolume
		z.PageVolume = m.PageVolume
		z.PartyVolume = m.PartyVolume
		z.VolumeReset = m.VolumeReset

	case *wire.SourceConfiguration:
		src, ok := s.sources[m.Source]
		if !ok {
			src = &SourceState{}
			s.sources[m.Source] = src
		}
		src.Enabled = m.Enabled
		if m.Name != nil {
			src.Name = *m.Name
		}
		if m.ShortName != nil {
			src.ShortName = *m.ShortName
		}
		if m.Gain != nil {
			src.Gain = *m.Gain
		}
		if m.NuvoNet != nil {
			src.NuvoNet = *m.NuvoNet
		}

	case *wire.Party:
		z := s.zone(m.Zone)
		z.PartyHost = m.PartyHost
		if m.PartyHost {
			// Only one zone hosts a party at a time.
			for zone, other := range s.zones {
				if zone != m.Zone {
					other.PartyHost = false
				}
			}
		}

	case *wire.ZoneAllOff:
		for _, z := range s.zones {
			z.Power = false
		}

	case *wire.Mute:
		s.mute = m.Mute

	case *wire.Paging:
		s.page = m.Page
	}
}
