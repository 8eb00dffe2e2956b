package nuvo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nuvo-protocol/nuvo-go/internal/mockamp"
	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
	"github.com/nuvo-protocol/nuvo-go/pkg/transport"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// newTestController connects a controller to a scripted amplifier over an
// in-memory pipe.
func newTestController(t *testing.T, model profile.Model) (*Controller, *mockamp.Amp) {
	t.Helper()

	p, err := profile.Lookup(model)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	amp := mockamp.New(p)

	ctrl, err := NewController(DefaultConfig(model))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Close() })

	conn := transport.NewConn(mockamp.Pipe(amp), "mock")
	if err := ctrl.Connect(context.Background(), conn); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return ctrl, amp
}

func TestConnectPerformsVersionExchange(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)

	v := ctrl.Version()
	if v == nil {
		t.Fatal("Version() = nil after Connect")
	}
	if v.ProductNumber != "NV-I8G" {
		t.Errorf("ProductNumber = %q, want NV-I8G", v.ProductNumber)
	}
	if v.Model != string(profile.GrandConcerto) {
		t.Errorf("Model = %q, want %s", v.Model, profile.GrandConcerto)
	}
	if !ctrl.Connected() {
		t.Error("Connected() = false")
	}
}

func TestConnectRejectsWrongModel(t *testing.T) {
	// A Grand Concerto on the wire, a controller configured for the
	// Essentia G.
	gc, err := profile.Lookup(profile.GrandConcerto)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	amp := mockamp.New(gc)

	ctrl, err := NewController(DefaultConfig(profile.EssentiaG))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	defer ctrl.Close()

	conn := transport.NewConn(mockamp.Pipe(amp), "mock")
	err = ctrl.Connect(context.Background(), conn)
	if !errors.Is(err, ErrModelMismatch) {
		t.Fatalf("Connect() error = %v, want ErrModelMismatch", err)
	}
	if ctrl.Connected() {
		t.Error("Connected() = true after failed Connect")
	}
}

func TestConnectTwice(t *testing.T) {
	ctrl, amp := newTestController(t, profile.GrandConcerto)

	conn := transport.NewConn(mockamp.Pipe(amp), "mock2")
	defer conn.Close()
	if err := ctrl.Connect(context.Background(), conn); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("second Connect() error = %v, want ErrAlreadyConnected", err)
	}
}

func TestNewControllerUnknownModel(t *testing.T) {
	if _, err := NewController(DefaultConfig(profile.Model("NV-X"))); !errors.Is(err, profile.ErrUnknownModel) {
		t.Errorf("NewController() error = %v, want ErrUnknownModel", err)
	}
}

func TestZoneCommands(t *testing.T) {
	ctrl, amp := newTestController(t, profile.GrandConcerto)
	ctx := context.Background()

	status, err := ctrl.SetPower(ctx, 3, true)
	if err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}
	if !status.Power || status.Zone != 3 {
		t.Errorf("SetPower() status = %+v", status)
	}

	status, err = ctrl.SetVolume(ctx, 3, 20)
	if err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if status.Volume == nil || *status.Volume != 20 {
		t.Errorf("SetVolume() status = %+v", status)
	}

	status, err = ctrl.SetSource(ctx, 3, 5)
	if err != nil {
		t.Fatalf("SetSource() error = %v", err)
	}
	if status.Source == nil || *status.Source != 5 {
		t.Errorf("SetSource() status = %+v", status)
	}

	status, err = ctrl.SetMute(ctx, 3, true)
	if err != nil {
		t.Fatalf("SetMute() error = %v", err)
	}
	if status.Mute == nil || !*status.Mute {
		t.Errorf("SetMute() status = %+v", status)
	}

	if snap := amp.Zone(3); !snap.Power || snap.Volume != 20 || snap.Source != 5 || !snap.Mute {
		t.Errorf("amplifier state = %+v", snap)
	}
}

func TestEQBalanceRoundTrip(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)

	// The device reports the reversed side; the classifier corrects it,
	// so the caller sees the side it asked for.
	eq, err := ctrl.SetBalance(context.Background(), 1, wire.BalanceLeft, 8)
	if err != nil {
		t.Fatalf("SetBalance() error = %v", err)
	}
	if eq.BalancePosition != wire.BalanceLeft || eq.Balance != 8 {
		t.Errorf("SetBalance() = %s%d, want L8", eq.BalancePosition, eq.Balance)
	}
}

func TestConfigurationCommands(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)
	ctx := context.Background()

	cfg, err := ctrl.ZoneSetName(ctx, 2, "Kitchen")
	if err != nil {
		t.Fatalf("ZoneSetName() error = %v", err)
	}
	if cfg.Name == nil || *cfg.Name != "Kitchen" {
		t.Errorf("ZoneSetName() = %+v", cfg)
	}

	vol, err := ctrl.SetMaxVolume(ctx, 2, 10)
	if err != nil {
		t.Fatalf("SetMaxVolume() error = %v", err)
	}
	if vol.MaxVolume != 10 {
		t.Errorf("MaxVolume = %d, want 10", vol.MaxVolume)
	}

	src, err := ctrl.SetSourceGain(ctx, 4, 6)
	if err != nil {
		t.Fatalf("SetSourceGain() error = %v", err)
	}
	if src.Gain == nil || *src.Gain != 6 {
		t.Errorf("SetSourceGain() = %+v", src)
	}
}

func TestPressButton(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)

	msg, err := ctrl.PressButton(context.Background(), 1, wire.ButtonNext)
	if err != nil {
		t.Fatalf("PressButton() error = %v", err)
	}
	button, ok := msg.(*wire.ZoneButton)
	if !ok {
		t.Fatalf("PressButton() = %T, want *wire.ZoneButton", msg)
	}
	if button.Zone != 1 || button.Button != wire.ButtonNext {
		t.Errorf("PressButton() = %+v", button)
	}
}

func TestSystemCommands(t *testing.T) {
	ctrl, amp := newTestController(t, profile.GrandConcerto)
	ctx := context.Background()

	if _, err := ctrl.SetPower(ctx, 1, true); err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}
	if err := ctrl.AllOff(ctx); err != nil {
		t.Fatalf("AllOff() error = %v", err)
	}
	if amp.Zone(1).Power {
		t.Error("zone still powered after AllOff")
	}

	page, err := ctrl.SetPage(ctx, true)
	if err != nil {
		t.Fatalf("SetPage() error = %v", err)
	}
	if !page.Page {
		t.Errorf("SetPage() = %+v", page)
	}

	party, err := ctrl.SetPartyHost(ctx, 4, true)
	if err != nil {
		t.Fatalf("SetPartyHost() error = %v", err)
	}
	if party.Zone != 4 || !party.PartyHost {
		t.Errorf("SetPartyHost() = %+v", party)
	}
}

func TestValidationFailsBeforeIO(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)
	ctx := context.Background()

	if _, err := ctrl.SetVolume(ctx, 1, 80); !errors.Is(err, wire.ErrInvalidParameter) {
		t.Errorf("SetVolume(80) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := ctrl.SetPower(ctx, 21, true); !errors.Is(err, wire.ErrOutOfRange) {
		t.Errorf("SetPower(zone 21) error = %v, want ErrOutOfRange", err)
	}
	if _, err := ctrl.SetSourceNuvoNet(ctx, 1, true); err == nil {
		t.Error("SetSourceNuvoNet on NuvoNet-capable model should succeed")
	}
}

func TestCommandWithoutConnection(t *testing.T) {
	ctrl, err := NewController(DefaultConfig(profile.GrandConcerto))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	defer ctrl.Close()

	if _, err := ctrl.ZoneStatus(context.Background(), 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ZoneStatus() error = %v, want ErrNotConnected", err)
	}
}

func TestStateTracking(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)
	ctx := context.Background()

	if _, err := ctrl.SetPower(ctx, 2, true); err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}
	if _, err := ctrl.SetVolume(ctx, 2, 30); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}

	state, ok := ctrl.ZoneState(2)
	if !ok {
		t.Fatal("ZoneState(2) unknown after commands")
	}
	if !state.Power || state.Volume != 30 {
		t.Errorf("ZoneState(2) = %+v", state)
	}

	if err := ctrl.AllOff(ctx); err != nil {
		t.Fatalf("AllOff() error = %v", err)
	}
	state, _ = ctrl.ZoneState(2)
	if state.Power {
		t.Error("ZoneState(2).Power = true after AllOff")
	}
}

func TestUnsolicitedEventReachesSubscriberAndState(t *testing.T) {
	ctrl, amp := newTestController(t, profile.GrandConcerto)

	received := make(chan wire.Message, 1)
	if sub := ctrl.Subscribe(wire.KindZoneStatus, func(msg wire.Message) {
		select {
		case received <- msg:
		default:
		}
	}); !sub.Valid() {
		t.Fatal("Subscribe() returned invalid handle")
	}

	// A keypad powering a zone on announces the new status unsolicited.
	amp.Handle("Z7ON")
	amp.AnnounceZoneStatus(7)

	select {
	case msg := <-received:
		status, ok := msg.(*wire.ZoneStatus)
		if !ok || status.Zone != 7 || !status.Power {
			t.Errorf("subscriber received %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	waitFor(t, func() bool {
		state, ok := ctrl.ZoneState(7)
		return ok && state.Power
	})
}

func TestCommandReplyReachesSubscriber(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)

	received := make(chan wire.Message, 1)
	ctrl.Subscribe(wire.KindZoneStatus, func(msg wire.Message) {
		select {
		case received <- msg:
		default:
		}
	})

	// The reply settles the pending command, and subscribers see it too.
	if _, err := ctrl.ZoneStatus(context.Background(), 4); err != nil {
		t.Fatalf("ZoneStatus() error = %v", err)
	}

	select {
	case msg := <-received:
		status, ok := msg.(*wire.ZoneStatus)
		if !ok || status.Zone != 4 {
			t.Errorf("subscriber received %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the command reply")
	}
}

func TestSubscribeByName(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)

	fn := func(wire.Message) {}
	sub := ctrl.SubscribeName("ZoneButton", fn)
	if !sub.Valid() {
		t.Error("SubscribeName(ZoneButton) returned invalid handle")
	}
	if bad := ctrl.SubscribeName("NoSuchKind", fn); bad.Valid() {
		t.Error("SubscribeName(NoSuchKind) returned valid handle")
	}
	if !ctrl.Unsubscribe(sub) {
		t.Error("Unsubscribe() = false")
	}
	if ctrl.Unsubscribe(sub) {
		t.Error("second Unsubscribe() = true")
	}
}

func TestDisconnectThenCommand(t *testing.T) {
	ctrl, _ := newTestController(t, profile.GrandConcerto)

	if err := ctrl.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if ctrl.Connected() {
		t.Error("Connected() = true after Disconnect")
	}
	if _, err := ctrl.ZoneStatus(context.Background(), 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ZoneStatus() error = %v, want ErrNotConnected", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
