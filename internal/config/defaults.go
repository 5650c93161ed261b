package config

// SidebarInitial values accepted by Validate.
const (
	SidebarHidden  = "hidden"
	SidebarVisible = "visible"
)

// DefaultExcludes are glob patterns never copied into the output tree by
// provideFile, regardless of the include list.
var DefaultExcludes = []string{
	"*.aux",
	"*.log",
	"*.synctex.gz",
	".git/**",
	".DS_Store",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:        "Woven document",
		Input:        "build/document.specials",
		OutputDir:    "build/html",
		TemplatesDir: "templates",
		AssetsDir:    "assets",
		Exclude:      DefaultExcludes,
		XrefDB:       ".ttweave/xref.db",
		ContentsKey:  "c",
		Sidebar: SidebarConfig{
			Initial:    SidebarHidden,
			Width:      300,
			CollapsePx: 100,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
