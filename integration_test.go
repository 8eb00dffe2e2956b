package nuvo_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/nuvo-protocol/nuvo-go/internal/mockamp"
	"github.com/nuvo-protocol/nuvo-go/pkg/nuvo"
	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
	"github.com/nuvo-protocol/nuvo-go/pkg/transport"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// serveAmp runs a simulated amplifier behind a TCP listener, the way a
// ser2net bridge exposes the real serial port. Connections are served
// one at a time, matching the single half-duplex channel of the device.
func serveAmp(t *testing.T, amp *mockamp.Amp) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			amp.Serve(conn)
		}
	}()

	return ln.Addr().String()
}

// TestE2E_BridgeSession drives a full controller session over TCP: dial,
// version exchange, zone commands, configuration, and unsolicited events.
func TestE2E_BridgeSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	p, err := profile.Lookup(profile.GrandConcerto)
	if err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	amp := mockamp.New(p)
	addr := serveAmp(t, amp)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	ctrl, err := nuvo.NewController(nuvo.DefaultConfig(profile.GrandConcerto))
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.Connect(ctx, conn); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	version := ctrl.Version()
	if version == nil || version.ProductNumber != "NV-I8G" {
		t.Fatalf("unexpected version: %+v", version)
	}

	// Zone control round trip.
	status, err := ctrl.SetPower(ctx, 3, true)
	if err != nil {
		t.Fatalf("SetPower failed: %v", err)
	}
	if !status.Power {
		t.Error("zone 3 should be on")
	}

	status, err = ctrl.SetVolume(ctx, 3, 42)
	if err != nil {
		t.Fatalf("SetVolume failed: %v", err)
	}
	if status.Volume == nil || *status.Volume != 42 {
		t.Errorf("volume = %v, want 42", status.Volume)
	}

	// Configuration round trip.
	cfg, err := ctrl.ZoneSetName(ctx, 3, "Office")
	if err != nil {
		t.Fatalf("ZoneSetName failed: %v", err)
	}
	if cfg.Name == nil || *cfg.Name != "Office" {
		t.Errorf("name = %v, want Office", cfg.Name)
	}

	// Unsolicited keypad event reaches a subscriber.
	buttons := make(chan wire.Message, 1)
	ctrl.Subscribe(wire.KindZoneButton, func(msg wire.Message) {
		select {
		case buttons <- msg:
		default:
		}
	})
	amp.PressButton(3, "NEXT")

	select {
	case msg := <-buttons:
		btn, ok := msg.(*wire.ZoneButton)
		if !ok || btn.Zone != 3 || btn.Button != wire.ButtonNext {
			t.Errorf("unexpected button event: %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for button event")
	}

	// System command folds into tracked state.
	if err := ctrl.AllOff(ctx); err != nil {
		t.Fatalf("AllOff failed: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		state, ok := ctrl.ZoneState(3)
		if ok && !state.Power {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("zone 3 state never went off after AllOff")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := ctrl.Disconnect(); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
}

// TestE2E_Reconnect verifies that a controller can reconnect to the same
// bridge after a disconnect and that subscriptions survive.
func TestE2E_Reconnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	p, err := profile.Lookup(profile.GrandConcerto)
	if err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	amp := mockamp.New(p)
	addr := serveAmp(t, amp)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ctrl, err := nuvo.NewController(nuvo.DefaultConfig(profile.GrandConcerto))
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	defer ctrl.Close()

	mutes := make(chan wire.Message, 1)
	ctrl.Subscribe(wire.KindMute, func(msg wire.Message) {
		select {
		case mutes <- msg:
		default:
		}
	})

	// First session.
	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if err := ctrl.Connect(ctx, conn); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := ctrl.Disconnect(); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}

	// Second session on a fresh connection.
	conn, err = transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("second dial failed: %v", err)
	}
	if err := ctrl.Connect(ctx, conn); err != nil {
		t.Fatalf("reconnect failed: %v", err)
	}

	// The subscription added before the first session still fires.
	amp.FrontPanelMute(true)
	select {
	case msg := <-mutes:
		mute, ok := msg.(*wire.Mute)
		if !ok || !mute.Mute {
			t.Errorf("unexpected mute event: %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mute event after reconnect")
	}
}
