package log

// Config selects the diagnostic log level, format and destinations.
type Config struct {
	Level  string       `mapstructure:"level" yaml:"level"`
	Format string       `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   *FileOptions `mapstructure:"file,omitempty" yaml:"file,omitempty"`
}

// FileOptions enables a size-rotated log file next to stderr output.
type FileOptions struct {
	Filename   string `mapstructure:"filename" yaml:"filename"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}
