package config

// File represents the structure of the .pagegraph configuration file.
type File struct {
	// Filters are network-filter rules applied to every analyzed page,
	// in addition to rules given on the command line.
	Filters []string `yaml:"filters,omitempty"`

	// FilterFiles are paths to filter list files whose rules are applied
	// to every analyzed page.
	FilterFiles []string `yaml:"filterFiles,omitempty"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"dbDir,omitempty"`
}
