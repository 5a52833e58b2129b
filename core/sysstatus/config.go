package sysstatus

// Config holds configuration for the host metric sources.
type Config struct {
	// ProcPath is the procfs mount point.
	ProcPath string `mapstructure:"proc_path" default:"/proc"`
	// SysPath is the sysfs mount point.
	SysPath string `mapstructure:"sys_path" default:"/sys"`
	// WifiInterfaces lists interface name prefixes treated as Wi-Fi.
	WifiInterfaces []string `mapstructure:"wifi_interfaces" default:"wlan,ap,swlan"`
}
