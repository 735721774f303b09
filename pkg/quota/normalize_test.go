package quota

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

func TestNormalize_SignedFieldWinsCharging(t *testing.T) {
	// huge raw output, yet the firmware says "56 minutes to full":
	// the signed field is authoritative
	bag := Bag{
		KeyBatterySoc:       Number(40),
		KeyInputWattsSum:    Number(10),
		KeyOutputWattsSum:   Number(900),
		KeyRemainTimeSigned: Number(56),
	}

	reading, ok := Normalize(bag)
	require.True(t, ok)
	assert.Equal(t, models.ReadingStatusCharging, reading.Status)
	require.NotNil(t, reading.RemainingTime)
	assert.Greater(t, *reading.RemainingTime, 0)
}

func TestNormalize_SignedFieldWinsDischarging(t *testing.T) {
	bag := Bag{
		KeyBatterySoc:       Number(40),
		KeyInputWattsSum:    Number(900),
		KeyOutputWattsSum:   Number(10),
		KeyRemainTimeSigned: Number(-120),
	}

	reading, ok := Normalize(bag)
	require.True(t, ok)
	assert.Equal(t, models.ReadingStatusDischarging, reading.Status)
	require.NotNil(t, reading.RemainingTime)
	assert.Less(t, *reading.RemainingTime, 0)
}

func TestNormalize_NetPowerFallback(t *testing.T) {
	// netPower = 15 > deadband, no signed field
	bag := Bag{
		KeyBatterySoc:     Number(50),
		KeyInputWattsSum:  Number(100),
		KeyOutputWattsSum: Number(85),
	}
	reading, ok := Normalize(bag)
	require.True(t, ok)
	assert.Equal(t, models.ReadingStatusCharging, reading.Status)
	assert.Equal(t, 100.0, reading.InputWatts)
	assert.Equal(t, 85.0, reading.OutputWatts)
}

func TestNormalize_DeadbandIsStandby(t *testing.T) {
	// netPower = -5, inside the ±10W band: neither direction
	bag := Bag{
		KeyBatterySoc:     Number(50),
		KeyInputWattsSum:  Number(50),
		KeyOutputWattsSum: Number(55),
	}
	reading, ok := Normalize(bag)
	require.True(t, ok)
	assert.Equal(t, models.ReadingStatusStandby, reading.Status)
}

func TestNormalize_FullAndLow(t *testing.T) {
	reading, ok := Normalize(Bag{
		KeyBatterySoc:     Number(97),
		KeyInputWattsSum:  Number(0),
		KeyOutputWattsSum: Number(0),
	})
	require.True(t, ok)
	assert.Equal(t, models.ReadingStatusFull, reading.Status)

	reading, ok = Normalize(Bag{
		KeyBatterySoc:     Number(5),
		KeyInputWattsSum:  Number(0),
		KeyOutputWattsSum: Number(0),
	})
	require.True(t, ok)
	assert.Equal(t, models.ReadingStatusLow, reading.Status)
}

func TestNormalize_InputFallbackSumsRails(t *testing.T) {
	// no vendor sums: input = AC + DC, output = AC + DC + USB rails
	bag := Bag{
		KeyBatterySoc:    Number(50),
		KeyACInputWatts:  Number(80),
		KeyDCInputWatts:  Number(40),
		KeyACOutputWatts: Number(30),
		KeyDCOutputWatts: Number(20),
		"pd.usb1Watts":   Number(5),
		"pd.typec1Watts": Number(15),
	}
	reading, ok := Normalize(bag)
	require.True(t, ok)
	assert.Equal(t, 120.0, reading.InputWatts)
	assert.Equal(t, 70.0, reading.OutputWatts)
	assert.Equal(t, 20.0, reading.USBOutputWatts)
	// netPower = 50 > deadband
	assert.Equal(t, models.ReadingStatusCharging, reading.Status)
	assert.Equal(t, "AC", reading.ChargingType)
}

func TestNormalize_OutputVendorTotalFallback(t *testing.T) {
	// no wattsOutSum, but the inverter total is present and wins over
	// the component sum
	bag := Bag{
		KeyBatterySoc:       Number(50),
		KeyInputWattsSum:    Number(0),
		KeyOutputWattsTotal: Number(200),
		KeyACOutputWatts:    Number(1),
	}
	reading, ok := Normalize(bag)
	require.True(t, ok)
	assert.Equal(t, 200.0, reading.OutputWatts)
	assert.Equal(t, models.ReadingStatusDischarging, reading.Status)
}

func TestNormalize_RemainingTimePriority(t *testing.T) {
	// charging with a to-full field: used as-is
	reading, ok := Normalize(Bag{
		KeyInputWattsSum:    Number(100),
		KeyOutputWattsSum:   Number(0),
		KeyChgRemainTime:    Number(90),
		KeyDsgRemainTime:    Number(500),
		KeyRemainTimeSigned: Number(33),
	})
	require.True(t, ok)
	require.NotNil(t, reading.RemainingTime)
	assert.Equal(t, 90, *reading.RemainingTime)

	// discharging with a to-empty field: negated
	reading, ok = Normalize(Bag{
		KeyInputWattsSum:  Number(0),
		KeyOutputWattsSum: Number(100),
		KeyDsgRemainTime:  Number(240),
	})
	require.True(t, ok)
	require.NotNil(t, reading.RemainingTime)
	assert.Equal(t, -240, *reading.RemainingTime)

	// neither firmware field: the signed fallback is used directly
	reading, ok = Normalize(Bag{
		KeyInputWattsSum:    Number(0),
		KeyOutputWattsSum:   Number(100),
		KeyRemainTimeSigned: Number(-77),
	})
	require.True(t, ok)
	require.NotNil(t, reading.RemainingTime)
	assert.Equal(t, -77, *reading.RemainingTime)

	// BMS field is the last resort
	reading, ok = Normalize(Bag{
		KeyBatterySoc:     Number(50),
		KeyInputWattsSum:  Number(0),
		KeyOutputWattsSum: Number(0),
		KeyBmsRemainTime:  Number(310),
	})
	require.True(t, ok)
	require.NotNil(t, reading.RemainingTime)
	assert.Equal(t, 310, *reading.RemainingTime)

	// nothing at all
	reading, ok = Normalize(Bag{
		KeyBatterySoc:     Number(50),
		KeyInputWattsSum:  Number(0),
		KeyOutputWattsSum: Number(0),
	})
	require.True(t, ok)
	assert.Nil(t, reading.RemainingTime)
}

func TestNormalize_EmptyBagSkipped(t *testing.T) {
	_, ok := Normalize(nil)
	assert.False(t, ok)

	_, ok = Normalize(Bag{})
	assert.False(t, ok)
}

func TestNormalize_RawDataLossless(t *testing.T) {
	payload := []byte(`{
		"bms_bmsStatus.soc": 67.5,
		"pd.wattsInSum": 120,
		"pd.model": "DELTA2",
		"inv.cfgFlags": [1, 2, 3],
		"mppt.faultCode": null
	}`)

	bag, err := ParseBag(payload)
	require.NoError(t, err)

	reading, ok := Normalize(bag)
	require.True(t, ok)

	var got, want map[string]any
	require.NoError(t, json.Unmarshal([]byte(reading.RawData), &got))
	require.NoError(t, json.Unmarshal(payload, &want))
	assert.Equal(t, want, got)

	// and the snapshot matches the bag's own canonical encoding
	assert.Equal(t, bag.JSON(), reading.RawData)
}

func TestNormalize_NonNumericTolerated(t *testing.T) {
	// strings, arrays and nulls in power fields resolve to "no value"
	bag, err := ParseBag([]byte(`{
		"bms_bmsStatus.soc": "67",
		"pd.wattsInSum": [12],
		"inv.inputWatts": null,
		"mppt.inWatts": 40
	}`))
	require.NoError(t, err)

	reading, ok := Normalize(bag)
	require.True(t, ok)
	// quoted numbers still count; the array and null do not
	require.NotNil(t, reading.BatteryLevel)
	assert.Equal(t, 67.0, *reading.BatteryLevel)
	assert.Equal(t, 40.0, reading.InputWatts)
}

func BenchmarkNormalize(b *testing.B) {
	bag := Bag{
		KeyBatterySoc:       Number(67),
		KeyInputWattsSum:    Number(120),
		KeyOutputWattsSum:   Number(85),
		KeyACInputWatts:     Number(120),
		KeyRemainTimeSigned: Number(56),
		KeyChgRemainTime:    Number(90),
		KeyTemperature:      Number(31.5),
		"pd.usb1Watts":      Number(5),
		"pd.typec1Watts":    Number(15),
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Normalize(bag)
	}
}
