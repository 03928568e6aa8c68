package config

// Dsgetfile represents the structure of the dsget.yaml defaults file.
// Every field is optional; zero values keep the built-in default.
type Dsgetfile struct {
	Endpoint   string `yaml:"endpoint"`
	TargetDir  string `yaml:"target_dir"`
	MaxWorkers int    `yaml:"max_workers"`
	Timeout    string `yaml:"timeout"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}
