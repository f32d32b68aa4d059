package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds a whole request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "validardoc/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CallbackConfig holds settings for the callback notifier.
type CallbackConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint receives GET ?rowID=...&resultValid=...
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
}

// PortalConfig holds the validation portal address.
type PortalConfig struct {
	URL string `json:"url" yaml:"url" mapstructure:"url"`
}

// BrowserConfig holds browser discovery settings.
type BrowserConfig struct {
	// Executables, when non-empty, replaces the platform candidate list.
	// Entries are probed in order.
	Executables []string `json:"executables,omitempty" yaml:"executables,omitempty" mapstructure:"executables"`

	// ViewportWidth and ViewportHeight size the headless viewport.
	ViewportWidth  int `json:"viewport_width" yaml:"viewport_width" mapstructure:"viewport_width"`
	ViewportHeight int `json:"viewport_height" yaml:"viewport_height" mapstructure:"viewport_height"`
}

// TimingConfig holds the run's bounded waits.
type TimingConfig struct {
	// ResultTimeout bounds the wait for the result page navigation (default 60s).
	ResultTimeout time.Duration `json:"result_timeout" yaml:"result_timeout" mapstructure:"result_timeout"`

	// GracePeriod is how long a failed interactive run keeps the browser
	// visible before closing it (default 30s).
	GracePeriod time.Duration `json:"grace_period" yaml:"grace_period" mapstructure:"grace_period"`

	// Linger bounds how long a successful interactive run waits for the user
	// to close the browser (default 5m).
	Linger time.Duration `json:"linger" yaml:"linger" mapstructure:"linger"`

	// CloseTimeout bounds closing the browser before the process gives up
	// and exits 1 (default 5s).
	CloseTimeout time.Duration `json:"close_timeout" yaml:"close_timeout" mapstructure:"close_timeout"`
}

// FooterConfig holds the fixed text stamped on the annotated document.
type FooterConfig struct {
	// Certification is the first footer line.
	Certification string `json:"certification" yaml:"certification" mapstructure:"certification"`
}

// HistoryConfig holds the run history database location.
type HistoryConfig struct {
	// Path is the SQLite file. Empty disables history.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all settings of a validation run.
type Config struct {
	DownloadsDir string         `json:"downloads_dir" yaml:"downloads_dir" mapstructure:"downloads_dir"`
	TempDir      string         `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`
	OpenViewer   bool           `json:"open_viewer" yaml:"open_viewer" mapstructure:"open_viewer"`
	Portal       PortalConfig   `json:"portal" yaml:"portal" mapstructure:"portal"`
	Browser      BrowserConfig  `json:"browser" yaml:"browser" mapstructure:"browser"`
	Callback     CallbackConfig `json:"callback" yaml:"callback" mapstructure:"callback"`
	Timing       TimingConfig   `json:"timing" yaml:"timing" mapstructure:"timing"`
	Footer       FooterConfig   `json:"footer" yaml:"footer" mapstructure:"footer"`
	History      HistoryConfig  `json:"history" yaml:"history" mapstructure:"history"`
}

const (
	DefaultPortalURL        = "https://validar.iti.gov.br/"
	DefaultCallbackEndpoint = "https://sbis.iscinternal.com/trakcare/csp/d4sign.callback.csp"
	DefaultUserAgent        = "validardoc/0.1"
	DefaultCertification    = "Documento assinado digitalmente de acordo com a ICP-Brasil, MP 2.200-2/2001, no sistema certificado SBIS nº XXX-Y,"
)

// DefaultConfig returns the settings used when no config file overrides them.
// Directory fields are left empty; callers resolve them against the user's
// home and temp directories.
func DefaultConfig() Config {
	return Config{
		OpenViewer: true,
		Portal:     PortalConfig{URL: DefaultPortalURL},
		Browser: BrowserConfig{
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Callback: CallbackConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: DefaultUserAgent,
			},
			Endpoint: DefaultCallbackEndpoint,
		},
		Timing: TimingConfig{
			ResultTimeout: 60 * time.Second,
			GracePeriod:   30 * time.Second,
			Linger:        5 * time.Minute,
			CloseTimeout:  5 * time.Second,
		},
		Footer: FooterConfig{Certification: DefaultCertification},
	}
}
