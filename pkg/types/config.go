package types

import "fmt"

// Supported backend names.
const (
	BackendSheet = "sheet" // xlsx workbook, positional rows
	BackendDoc   = "doc"   // sqlite-backed document collections
	BackendProxy = "proxy" // remote script endpoint over HTTP
)

// Config holds backend selection and parameters resolved at startup.
// Exactly one backend is active per process; the choice is made once and
// callers hold only the Store interface afterwards.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	Workbook string `json:"workbook" yaml:"workbook"` // sheet backend: xlsx path

	ProxyURL     string `json:"proxy_url" yaml:"proxy_url"`
	ProxySheetID string `json:"proxy_sheet_id" yaml:"proxy_sheet_id"`
	ProxyAPIKey  string `json:"proxy_api_key" yaml:"proxy_api_key"`

	DeviceID string `json:"device_id" yaml:"device_id"`
	Operator string `json:"operator" yaml:"operator"`
}

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSheet: true,
	BackendDoc:   true,
	BackendProxy: true,
}

// Validate checks that the Config names a usable backend and carries the
// values that backend needs. Failures wrap ErrConfiguration and name the
// missing value; the caller must abort startup.
func (c Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("%w: no backend configured (set backend to sheet, doc, or proxy)", ErrConfiguration)
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w: unknown backend %q", ErrConfiguration, c.Backend)
	}
	switch c.Backend {
	case BackendSheet:
		if c.Workbook == "" && c.DataDir == "" {
			return fmt.Errorf("%w: sheet backend needs workbook or data_dir", ErrConfiguration)
		}
	case BackendDoc:
		if c.DataDir == "" {
			return fmt.Errorf("%w: doc backend needs data_dir", ErrConfiguration)
		}
	case BackendProxy:
		if c.ProxyURL == "" {
			return fmt.Errorf("%w: proxy backend needs proxy_url", ErrConfiguration)
		}
	}
	return nil
}
