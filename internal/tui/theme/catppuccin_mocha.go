package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		// Semantic colors
		Primary:   "#cba6f7", // Mauve
		Secondary: "#89b4fa", // Blue
		Tertiary:  "#b4befe", // Lavender

		// Background hierarchy
		BgCrust:    "#11111b",
		BgBase:     "#1e1e2e",
		BgMantle:   "#181825",
		BgSurface0: "#313244",
		BgSurface1: "#45475a",
		BgSurface2: "#585b70",
		BgOverlay:  "#6c7086",

		// Foreground hierarchy
		FgMuted:  "#a6adc8", // Subtext0
		FgSubtle: "#bac2de", // Subtext1
		FgBase:   "#cdd6f4", // Text
		FgBright: "#f5e0dc", // Rosewater

		// Status colors
		Success: "#a6e3a1", // Green
		Warning: "#f9e2af", // Yellow
		Error:   "#f38ba8", // Red
		Info:    "#89dceb", // Sky

		// Border colors
		BorderMuted:   "#313244",
		BorderDefault: "#585b70",
		BorderFocused: "#cba6f7",
	}
}
