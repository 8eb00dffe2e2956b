package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
)

func grandConcerto(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.Lookup(profile.GrandConcerto)
	require.NoError(t, err)
	return p
}

func TestClassifyZoneStatus(t *testing.T) {
	p := grandConcerto(t)

	tests := []struct {
		name string
		line string
		want *ZoneStatus
	}{
		{
			name: "powered on with volume",
			line: "#Z1,ON,SRC2,VOL20,DND0,LOCK0\r\n",
			want: &ZoneStatus{
				Zone:   1,
				Power:  true,
				Source: intp(2),
				Volume: intp(20),
				Mute:   boolp(false),
				DND:    boolp(false),
				Lock:   boolp(false),
			},
		},
		{
			name: "powered on muted",
			line: "#Z3,ON,SRC4,MUTE,DND1,LOCK1",
			want: &ZoneStatus{
				Zone:   3,
				Power:  true,
				Source: intp(4),
				Mute:   boolp(true),
				DND:    boolp(true),
				Lock:   boolp(true),
			},
		},
		{
			name: "powered off",
			line: "#Z12,OFF\r\n",
			want: &ZoneStatus{Zone: 12, Power: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Classify(p, []byte(tt.line))
			require.NoError(t, err)
			require.Equal(t, KindZoneStatus, msg.Kind())
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestClassifyZoneEQ(t *testing.T) {
	p := grandConcerto(t)

	tests := []struct {
		name string
		line string
		want *ZoneEQStatus
	}{
		{
			// The device reports the opposite balance side; the parsed
			// message carries the corrected position.
			name: "balance reported left means right",
			line: "#ZCFG1,BASS2,TREB-4,BALL6,LOUDCMP1",
			want: &ZoneEQStatus{
				Zone:            1,
				Bass:            2,
				Treble:          -4,
				BalancePosition: BalanceRight,
				Balance:         6,
				LoudnessComp:    true,
			},
		},
		{
			name: "balance reported right means left",
			line: "#ZCFG2,BASS0,TREB0,BALR10,LOUDCMP0",
			want: &ZoneEQStatus{
				Zone:            2,
				BalancePosition: BalanceLeft,
				Balance:         10,
			},
		},
		{
			name: "balance centered",
			line: "#ZCFG5,BASS-18,TREB18,BALC,LOUDCMP0",
			want: &ZoneEQStatus{
				Zone:            5,
				Bass:            -18,
				Treble:          18,
				BalancePosition: BalanceCenter,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Classify(p, []byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestClassifyZoneConfiguration(t *testing.T) {
	p := grandConcerto(t)

	msg, err := Classify(p, []byte(`#ZCFG1,ENABLE1,NAME"Living Room",SLAVETO0,GROUP1,SOURCES5,XSRC0,IR1,DND3,LOCKED0,SLAVEEQ0`))
	require.NoError(t, err)
	cfg, ok := msg.(*ZoneConfiguration)
	require.True(t, ok)
	assert.Equal(t, 1, cfg.Zone)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "Living Room", *cfg.Name)
	assert.Equal(t, 0, *cfg.SlaveTo)
	assert.Equal(t, 1, *cfg.Group)
	assert.Equal(t, []int{1, 3}, cfg.Sources.Sources())
	assert.False(t, *cfg.ExclusiveSource)
	assert.Equal(t, 1, *cfg.IREnabled)
	assert.Equal(t, []string{"NOMUTE", "NOPAGE"}, cfg.DND.Options())
	assert.False(t, *cfg.Locked)
	assert.False(t, *cfg.SlaveEQ)

	msg, err = Classify(p, []byte("#ZCFG16,ENABLE0"))
	require.NoError(t, err)
	assert.Equal(t, &ZoneConfiguration{Zone: 16, Enabled: false}, msg)
}

func TestClassifySourceConfiguration(t *testing.T) {
	p := grandConcerto(t)

	msg, err := Classify(p, []byte(`#SCFG2,ENABLE1,NAME"Turntable",GAIN7,NUVONET0,SHORTNAME"TT"`))
	require.NoError(t, err)
	assert.Equal(t, &SourceConfiguration{
		Source:    2,
		Enabled:   true,
		Name:      strp("Turntable"),
		Gain:      intp(7),
		NuvoNet:   boolp(false),
		ShortName: strp("TT"),
	}, msg)

	msg, err = Classify(p, []byte("#SCFG6,ENABLE0"))
	require.NoError(t, err)
	assert.Equal(t, &SourceConfiguration{Source: 6, Enabled: false}, msg)
}

func TestClassifyZoneVolumeConfiguration(t *testing.T) {
	p := grandConcerto(t)

	msg, err := Classify(p, []byte("#ZCFG1,MAXVOL60,INIVOL20,PAGEVOL40,PARTYVOL50,VOLRST0"))
	require.NoError(t, err)
	assert.Equal(t, &ZoneVolumeConfiguration{
		Zone:          1,
		MaxVolume:     60,
		InitialVolume: 20,
		PageVolume:    40,
		PartyVolume:   50,
		VolumeReset:   false,
	}, msg)
}

func TestClassifySimpleKinds(t *testing.T) {
	p := grandConcerto(t)

	tests := []struct {
		line string
		want Message
	}{
		{"#OK", &OK{}},
		{"#?", &ErrorResponse{}},
		{"#ALLOFF", &ZoneAllOff{}},
		{"#MUTE1", &Mute{Mute: true}},
		{"#MUTE0", &Mute{Mute: false}},
		{"#PAGE1", &Paging{Page: true}},
		{"#Z4,PARTY1", &Party{Zone: 4, PartyHost: true}},
		{"#Z2S6PLAYPAUSE", &ZoneButton{Zone: 2, Source: 6, Button: ButtonPlayPause}},
		{"#Z2S1NEXT", &ZoneButton{Zone: 2, Source: 1, Button: ButtonNext}},
		{"\x00\x00#RESTART NV-I8G", &Restart{}},
		{"#VER\"NV-I8G FWv2.66 HWv0\"", &Version{
			Model:           string(profile.GrandConcerto),
			ProductNumber:   "NV-I8G",
			FirmwareVersion: "FWv2.66",
			HardwareVersion: "HWv0",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			msg, err := Classify(p, []byte(tt.line+"\r\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestClassifyUnknownProductNumber(t *testing.T) {
	p := grandConcerto(t)

	msg, err := Classify(p, []byte("#VER\"NV-XYZ FWv1.0 HWv0\""))
	require.NoError(t, err)
	v := msg.(*Version)
	assert.Empty(t, v.Model)
	assert.Equal(t, "NV-XYZ", v.ProductNumber)
}

func TestClassifyUnparsable(t *testing.T) {
	p := grandConcerto(t)

	lines := []string{
		"",
		"garbage",
		"#Z1,SOMETHING",
		"#Z99,OFF",                     // zone beyond the model's table
		"#Z1,ON,SRC9,VOL20,DND0,LOCK0", // source beyond the model's table
		"#ZCFG21,MAXVOL60,INIVOL20,PAGEVOL40,PARTYVOL50,VOLRST0",
	}

	for _, line := range lines {
		_, err := Classify(p, []byte(line))
		assert.ErrorIs(t, err, ErrUnparsable, "line %q", line)
	}
}

func TestClassifyEssentiaGZoneRange(t *testing.T) {
	eg, err := profile.Lookup(profile.EssentiaG)
	require.NoError(t, err)

	// Zone 18 is the last logical zone on the Essentia G.
	msg, err := Classify(eg, []byte("#Z18,OFF"))
	require.NoError(t, err)
	assert.Equal(t, &ZoneStatus{Zone: 18}, msg)

	_, err = Classify(eg, []byte("#Z19,OFF"))
	assert.ErrorIs(t, err, ErrUnparsable)
}
