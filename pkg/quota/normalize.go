package quota

import (
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

// Vendor quota keys. Dotted pseudo-paths, not stable across device
// families, hence the null-tolerant lookups everywhere.
const (
	KeyBatterySoc    = "bms_bmsStatus.soc"
	KeyBatterySocAlt = "pd.soc"
	KeyTemperature   = "bms_bmsStatus.temp"

	KeyInputWattsSum = "pd.wattsInSum"
	KeyACInputWatts  = "inv.inputWatts"
	KeyDCInputWatts  = "mppt.inWatts"

	KeyOutputWattsSum   = "pd.wattsOutSum"
	KeyOutputWattsTotal = "inv.outputWatts"
	KeyACOutputWatts    = "inv.invOutWatts"
	KeyDCOutputWatts    = "mppt.carOutWatts"

	KeyRemainTimeSigned = "pd.remainTime"
	KeyChgRemainTime    = "bms_emsStatus.chgRemainTime"
	KeyDsgRemainTime    = "bms_emsStatus.dsgRemainTime"
	KeyBmsRemainTime    = "bms_bmsStatus.remainTime"
)

var usbRailKeys = []string{
	"pd.usb1Watts", "pd.usb2Watts",
	"pd.qcUsb1Watts", "pd.qcUsb2Watts",
	"pd.typec1Watts", "pd.typec2Watts",
}

// netPowerDeadband is the band (in watts) around zero net power inside
// which the device is treated as neither charging nor discharging.
const netPowerDeadband = 10.0

const (
	batteryFullLevel = 95.0
	batteryLowLevel  = 10.0
)

// Normalize maps a raw quota bag into a canonical Reading. The caller
// fills DeviceID and RecordedAt. Returns false for a nil/empty bag: the
// vendor reports no data, which is a skip, not an error.
//
// Direction arbitration: the firmware's signed remaining-time field wins
// when nonzero, because the firmware already nets simultaneous solar
// input and active load. Net power with a deadband is only the fallback.
func Normalize(bag Bag) (*models.Reading, bool) {
	if len(bag) == 0 {
		return nil, false
	}

	acIn := bag.floatOrZero(KeyACInputWatts)
	dcIn := bag.floatOrZero(KeyDCInputWatts)
	totalInput, ok := bag.float(KeyInputWattsSum)
	if !ok {
		totalInput = acIn + dcIn
	}

	acOut := bag.floatOrZero(KeyACOutputWatts)
	dcOut := bag.floatOrZero(KeyDCOutputWatts)
	var usbOut float64
	for _, key := range usbRailKeys {
		usbOut += bag.floatOrZero(key)
	}
	totalOutput, ok := bag.float(KeyOutputWattsSum)
	if !ok {
		if totalOutput, ok = bag.float(KeyOutputWattsTotal); !ok {
			totalOutput = acOut + dcOut + usbOut
		}
	}

	netPower := totalInput - totalOutput

	signed, hasSigned := bag.float(KeyRemainTimeSigned)
	charging := false
	discharging := false
	switch {
	case hasSigned && signed > 0:
		charging = true
	case hasSigned && signed < 0:
		discharging = true
	case netPower > netPowerDeadband:
		charging = true
	case netPower < -netPowerDeadband:
		discharging = true
	}

	var remaining *int
	if chg, ok := bag.float(KeyChgRemainTime); charging && ok && chg > 0 {
		remaining = intPtr(int(chg))
	} else if dsg, ok := bag.float(KeyDsgRemainTime); discharging && ok && dsg > 0 {
		remaining = intPtr(-int(dsg))
	} else if hasSigned && signed != 0 {
		remaining = intPtr(int(signed))
	} else if bms, ok := bag.float(KeyBmsRemainTime); ok {
		remaining = intPtr(int(bms))
	}

	var battery *float64
	if soc, ok := bag.float(KeyBatterySoc); ok {
		battery = &soc
	} else if soc, ok := bag.float(KeyBatterySocAlt); ok {
		battery = &soc
	}

	status := models.ReadingStatusStandby
	switch {
	case charging:
		status = models.ReadingStatusCharging
	case discharging:
		status = models.ReadingStatusDischarging
	case battery != nil && *battery > batteryFullLevel:
		status = models.ReadingStatusFull
	case battery != nil && *battery < batteryLowLevel:
		status = models.ReadingStatusLow
	}

	var temperature *float64
	if temp, ok := bag.float(KeyTemperature); ok {
		temperature = &temp
	}

	chargingType := ""
	if acIn > 0 {
		chargingType = "AC"
	} else if dcIn > 0 {
		chargingType = "Solar"
	}

	return &models.Reading{
		BatteryLevel:   battery,
		InputWatts:     totalInput,
		OutputWatts:    totalOutput,
		ACInputWatts:   acIn,
		DCInputWatts:   dcIn,
		ACOutputWatts:  acOut,
		DCOutputWatts:  dcOut,
		USBOutputWatts: usbOut,
		ChargingType:   chargingType,
		RemainingTime:  remaining,
		Temperature:    temperature,
		Status:         status,
		RawData:        bag.JSON(),
	}, true
}

func intPtr(n int) *int {
	return &n
}
