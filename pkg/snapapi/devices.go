package snapapi

// DevicePreset names a device profile known to the service.
type DevicePreset string

const (
	DeviceDesktop1080p DevicePreset = "desktop-1080p"
	DeviceDesktop1440p DevicePreset = "desktop-1440p"
	DeviceDesktop4K    DevicePreset = "desktop-4k"
	DeviceMacBookPro13 DevicePreset = "macbook-pro-13"
	DeviceMacBookPro16 DevicePreset = "macbook-pro-16"
	DeviceIMac24       DevicePreset = "imac-24"

	DeviceIPhoneSE       DevicePreset = "iphone-se"
	DeviceIPhone12       DevicePreset = "iphone-12"
	DeviceIPhone13       DevicePreset = "iphone-13"
	DeviceIPhone14       DevicePreset = "iphone-14"
	DeviceIPhone14Pro    DevicePreset = "iphone-14-pro"
	DeviceIPhone15       DevicePreset = "iphone-15"
	DeviceIPhone15Pro    DevicePreset = "iphone-15-pro"
	DeviceIPhone15ProMax DevicePreset = "iphone-15-pro-max"
	DeviceIPad           DevicePreset = "ipad"
	DeviceIPadMini       DevicePreset = "ipad-mini"
	DeviceIPadAir        DevicePreset = "ipad-air"
	DeviceIPadPro11      DevicePreset = "ipad-pro-11"
	DeviceIPadPro129     DevicePreset = "ipad-pro-12.9"

	DevicePixel7    DevicePreset = "pixel-7"
	DevicePixel8    DevicePreset = "pixel-8"
	DevicePixel8Pro DevicePreset = "pixel-8-pro"

	DeviceSamsungGalaxyS23   DevicePreset = "samsung-galaxy-s23"
	DeviceSamsungGalaxyS24   DevicePreset = "samsung-galaxy-s24"
	DeviceSamsungGalaxyTabS9 DevicePreset = "samsung-galaxy-tab-s9"
)

var devicePresets = []DevicePreset{
	DeviceDesktop1080p, DeviceDesktop1440p, DeviceDesktop4K,
	DeviceMacBookPro13, DeviceMacBookPro16, DeviceIMac24,
	DeviceIPhoneSE, DeviceIPhone12, DeviceIPhone13, DeviceIPhone14, DeviceIPhone14Pro,
	DeviceIPhone15, DeviceIPhone15Pro, DeviceIPhone15ProMax,
	DeviceIPad, DeviceIPadMini, DeviceIPadAir, DeviceIPadPro11, DeviceIPadPro129,
	DevicePixel7, DevicePixel8, DevicePixel8Pro,
	DeviceSamsungGalaxyS23, DeviceSamsungGalaxyS24, DeviceSamsungGalaxyTabS9,
}

// DevicePresets lists every preset in a stable order.
func DevicePresets() []DevicePreset {
	out := make([]DevicePreset, len(devicePresets))
	copy(out, devicePresets)
	return out
}

func (d DevicePreset) String() string { return string(d) }
