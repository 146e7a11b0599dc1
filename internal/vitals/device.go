package vitals

// DeviceClass identifies the class of device a sample was observed on.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
)

// Valid reports whether d is a recognized device class.
func (d DeviceClass) Valid() bool {
	switch d {
	case DeviceDesktop, DeviceMobile, DeviceTablet:
		return true
	}
	return false
}

// ParseDeviceClass maps a client-supplied device string to a DeviceClass.
// Unknown or empty values default to desktop.
func ParseDeviceClass(s string) DeviceClass {
	switch DeviceClass(s) {
	case DeviceMobile:
		return DeviceMobile
	case DeviceTablet:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}
