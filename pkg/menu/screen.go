package menu

// Screen identifies what the display shows for a menu position.
type Screen int

// Screens
const (
	ScreenRoot Screen = iota
	ScreenSysTestLED
	ScreenSysTestIMU
	ScreenSysTestAttitude
	ScreenSysTestVoltage
	ScreenAttitudeLED
	ScreenUploadSettings
	ScreenUploadCounters
	ScreenLinkMode
	ScreenRemoteSwitch
	ScreenRemoteStatus

	NumScreens
)

var screenNames = [NumScreens]string{
	"root",
	"systest.led",
	"systest.imu",
	"systest.attitude",
	"systest.voltage",
	"attitude.led",
	"upload.settings",
	"upload.counters",
	"link.mode",
	"remote.switch",
	"remote.status",
}

func (s Screen) String() string {
	if s >= 0 && s < NumScreens {
		return screenNames[s]
	}
	return "invalid"
}

// Pages of the root menu.
const (
	PageSysTest = iota
	PageAttitude
	PageUpload
	PageLink
	PageRemote

	NumPages
)

// PageTitles are the root menu entries.
var PageTitles = [NumPages]string{
	"System test",
	"Attitude",
	"Upload",
	"Link mode",
	"Remote",
}

// pageScreens lists the sub pages of each page; the slice length is the
// sub page bound.
var pageScreens = [NumPages][]Screen{
	PageSysTest:  {ScreenSysTestLED, ScreenSysTestIMU, ScreenSysTestAttitude, ScreenSysTestVoltage},
	PageAttitude: {ScreenAttitudeLED},
	PageUpload:   {ScreenUploadSettings, ScreenUploadCounters},
	PageLink:     {ScreenLinkMode},
	PageRemote:   {ScreenRemoteSwitch, ScreenRemoteStatus},
}

// SubPages returns the number of sub pages of page.
func SubPages(page int) int {
	if page < 0 || page >= NumPages {
		return 0
	}
	return len(pageScreens[page])
}

// ScreenAt maps a sub menu position to its Screen.
func ScreenAt(page, subPage int) Screen {
	if subPage < 0 || subPage >= SubPages(page) {
		return ScreenRoot
	}
	return pageScreens[page][subPage]
}
