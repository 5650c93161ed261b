package config

// Config is the top-level ttweave configuration, corresponding to
// .ttweave.yml.
type Config struct {
	Title        string        `yaml:"title" koanf:"title"`
	Input        string        `yaml:"input" koanf:"input"`
	OutputDir    string        `yaml:"output_dir" koanf:"output_dir"`
	TemplatesDir string        `yaml:"templates_dir" koanf:"templates_dir"`
	AssetsDir    string        `yaml:"assets_dir" koanf:"assets_dir"`
	Include      []string      `yaml:"include" koanf:"include"`
	Exclude      []string      `yaml:"exclude" koanf:"exclude"`
	Pages        []string      `yaml:"pages" koanf:"pages"`
	XrefDB       string        `yaml:"xref_db" koanf:"xref_db"`
	ContentsKey  string        `yaml:"contents_key" koanf:"contents_key"`
	Sidebar      SidebarConfig `yaml:"sidebar" koanf:"sidebar"`
	Server       ServerConfig  `yaml:"server" koanf:"server"`
}

// SidebarConfig holds the initial sidebar presentation and its resize
// thresholds, mirrored into the generated pages.
type SidebarConfig struct {
	Initial    string `yaml:"initial" koanf:"initial"` // "hidden" or "visible"
	Width      int    `yaml:"width" koanf:"width"`
	CollapsePx int    `yaml:"collapse_px" koanf:"collapse_px"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Port         int  `yaml:"port" koanf:"port"`
	Open         bool `yaml:"open" koanf:"open"`
	AllowAllCORS bool `yaml:"allow_all_cors" koanf:"allow_all_cors"`
}
