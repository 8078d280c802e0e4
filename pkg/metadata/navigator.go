package metadata

// Kismet field names used by the extractors below.
const (
	KeyDot11Device            = "dot11.device"
	KeyProbedSSIDMap          = "dot11.device.probed_ssid_map"
	KeyProbedSSID             = "dot11.probedssid.ssid"
	KeyAdvertisedSSIDMap      = "dot11.device.advertised_ssid_map"
	KeyAdvertisedSSID         = "dot11.advertisedssid.ssid"
	KeyLastBeaconedSSIDRecord = "dot11.device.last_beaconed_ssid_record"
	KeyManufacturer           = "kismet.device.base.manuf"
	KeySignal                 = "kismet.device.base.signal"
	KeyLastSignal             = "kismet.common.signal.last_signal"
)

// Extractors never fail. A document that does not have the expected shape
// simply has nothing to extract.

// ProbedSSIDs returns the non-empty SSIDs a client has probed for, in the
// order the probe map lists them.
func ProbedSSIDs(doc Value) []string {
	probes, ok := doc.Lookup(KeyDot11Device, KeyProbedSSIDMap)
	if !ok {
		return nil
	}
	entries, ok := probes.Members()
	if !ok {
		return nil
	}

	var ssids []string
	for _, entry := range entries {
		if ssid, ok := nonEmptyString(entry.Value, KeyProbedSSID); ok {
			ssids = append(ssids, ssid)
		}
	}
	return ssids
}

// AdvertisedSSIDs returns the non-empty SSIDs an access point has beaconed.
// Older Kismet releases store the advertised set as an object keyed by hash,
// newer ones as an array; both are accepted.
func AdvertisedSSIDs(doc Value) []string {
	advertised, ok := doc.Lookup(KeyDot11Device, KeyAdvertisedSSIDMap)
	if !ok {
		return nil
	}

	var entries []Value
	if members, ok := advertised.Members(); ok {
		for _, m := range members {
			entries = append(entries, m.Value)
		}
	} else if elems, ok := advertised.Elements(); ok {
		entries = elems
	}

	var ssids []string
	for _, entry := range entries {
		if ssid, ok := nonEmptyString(entry, KeyAdvertisedSSID); ok {
			ssids = append(ssids, ssid)
		}
	}
	return ssids
}

// LastBeaconedSSID returns the SSID of the most recent beacon record.
func LastBeaconedSSID(doc Value) (string, bool) {
	record, ok := doc.Lookup(KeyDot11Device, KeyLastBeaconedSSIDRecord)
	if !ok {
		return "", false
	}
	return nonEmptyString(record, KeyAdvertisedSSID)
}

// Manufacturer returns the vendor Kismet resolved from the device's OUI.
func Manufacturer(doc Value) (string, bool) {
	return nonEmptyString(doc, KeyManufacturer)
}

// LastSignal returns the last signal level recorded for the device, in dBm.
func LastSignal(doc Value) (float64, bool) {
	v, ok := doc.Lookup(KeySignal, KeyLastSignal)
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

func nonEmptyString(v Value, key string) (string, bool) {
	field, ok := v.Get(key)
	if !ok {
		return "", false
	}
	s, ok := field.AsString()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
