package hotkeys

// Reserved is a shortcut the operating system or a common launcher already
// owns. Registering over one never works reliably, so it is reported as a
// conflict.
type Reserved struct {
	Name        string
	Description string
	Accelerator string
}

var reservedShortcuts = []Reserved{
	{Name: "Windows Security", Description: "Secure attention sequence", Accelerator: "Ctrl+Alt+Delete"},
	{Name: "Task Manager", Description: "Windows Task Manager", Accelerator: "Ctrl+Shift+Escape"},
	{Name: "Clipboard History", Description: "Windows clipboard history", Accelerator: "Super+V"},
	{Name: "Lock Screen", Description: "Windows lock screen", Accelerator: "Super+L"},
	{Name: "Show Desktop", Description: "Windows show desktop", Accelerator: "Super+D"},
	{Name: "Run Dialog", Description: "Windows Run dialog", Accelerator: "Super+R"},
	{Name: "Snipping Tool", Description: "Windows screen snip", Accelerator: "Super+Shift+S"},
	{Name: "Spotlight", Description: "macOS Spotlight search", Accelerator: "Super+Space"},
	{Name: "Force Quit", Description: "macOS Force Quit", Accelerator: "Super+Alt+Escape"},
	{Name: "Quit Application", Description: "macOS quit shortcut", Accelerator: "Super+Q"},
}

// ReservedShortcuts returns the known system shortcuts.
func ReservedShortcuts() []Reserved {
	out := make([]Reserved, len(reservedShortcuts))
	copy(out, reservedShortcuts)
	return out
}

// CheckReserved returns every reserved shortcut that b would collide with.
func CheckReserved(b Binding) []Reserved {
	var conflicts []Reserved
	for _, known := range reservedShortcuts {
		normalized, err := Normalize(known.Accelerator)
		if err != nil {
			continue
		}
		if normalized == b.Normalized() {
			conflicts = append(conflicts, known)
		}
	}
	return conflicts
}
