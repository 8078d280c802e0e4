package kismet

// Device type sets used when filtering the devices table.
var (
	// AccessPointTypes are infrastructure devices that beacon SSIDs.
	AccessPointTypes = []string{"Wi-Fi AP", "Wi-Fi Bridged"}
	// StationTypes are client devices, the ones that send probe requests.
	StationTypes = []string{"Wi-Fi Client", "Wi-Fi Device"}
)
