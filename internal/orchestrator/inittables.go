package orchestrator

import "strconv"

// UBloxInitTable returns the phase-2 replay table for a u-blox receiver:
// port protocol selection, default GNSS/SBAS/nav-mode configuration, and a
// fixed navigation rate in Hz (1, 5 or 10, per the spec's supported rates).
func UBloxInitTable(rateHz int) []Entry {
	return []Entry{
		ubxEntry(classCFG, idCFGPRT, cfgPRTPayload()),
		ubxEntry(classCFG, idCFGGNSS, cfgGNSSPayload(true)),
		ubxEntry(classCFG, idCFGSBAS, cfgBoolTogglePayload(true)),
		ubxEntry(classCFG, idCFGNAV5, cfgBoolTogglePayload(false)),
		ubxEntry(classCFG, idCFGRATE, cfgRatePayload(rateHz)),
	}
}

// MediatekInitTable returns the phase-2 replay table for a Mediatek
// receiver: the standard five-sentence output set and the matching fix
// interval, both as literal $PMTK sentences with their checksums computed.
func MediatekInitTable(rateHz int) []Entry {
	intervalMS := 1000 / rateHz
	return []Entry{
		mediatekEntry(pmtkSentence(314, "-1,1,1,1,1,0,0,0,0,0,0,0,0,0,0,0,0,0,0"), 314),
		mediatekEntry(pmtkSentence(220, strconv.Itoa(intervalMS)), 220),
	}
}

func pmtkSentence(cmd int, args string) string {
	payload := "PMTK" + strconv.Itoa(cmd) + "," + args
	return "$" + payload + "*" + nmeaChecksumHex(payload) + "\r\n"
}

// cfgPRTPayload is a minimal UBX-CFG-PRT (UART) payload selecting
// NMEA+UBX input/output on the port currently in use.
func cfgPRTPayload() []byte {
	payload := make([]byte, 20)
	payload[0] = 1   // portID: UART1
	payload[12] = 0x03
	payload[14] = 0x03
	return payload
}

// cfgRatePayload is a minimal UBX-CFG-RATE payload: measurement interval in
// ms for the requested rate, 1x navigation solution per measurement, UTC
// time reference.
func cfgRatePayload(rateHz int) []byte {
	payload := make([]byte, 6)
	intervalMS := uint16(1000 / rateHz)
	payload[0] = byte(intervalMS)
	payload[1] = byte(intervalMS >> 8)
	payload[2] = 1 // navRate
	return payload
}
