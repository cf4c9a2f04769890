package config

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "crtsh-subs/internal/platform/errors"
)

const (
	DefaultEndpoint  = "https://crt.sh/"
	DefaultUserAgent = "crtsh-subs/1.0"
)

// ErrHelp indica que se pidió la ayuda (o no se pasó ningún argumento).
// No es un fallo: el uso se imprime y el proceso termina con éxito.
var ErrHelp = errors.New("help requested")

// Mode es el tipo de búsqueda contra crt.sh
type Mode int

const (
	ModeDomain Mode = iota + 1
	ModeOrganization
)

func (m Mode) String() string {
	switch m {
	case ModeDomain:
		return "domain"
	case ModeOrganization:
		return "organization"
	default:
		return "unknown"
	}
}

// Query es la búsqueda a realizar: exactamente un dominio o una organización.
type Query struct {
	Mode  Mode
	Value string
}

// DomainQuery construye una búsqueda por dominio
func DomainQuery(domain string) Query {
	return Query{Mode: ModeDomain, Value: domain}
}

// OrganizationQuery construye una búsqueda por organización
func OrganizationQuery(org string) Query {
	return Query{Mode: ModeOrganization, Value: org}
}

// String devuelve "domain X" / "organization X"
func (q Query) String() string {
	return q.Mode.String() + " " + q.Value
}

// Config es el resultado inmutable del parseo de argumentos. Se construye una
// vez en ParseArgs y se pasa explícitamente a los componentes.
type Config struct {
	Query       Query
	Output      string
	Silent      bool
	Verbosity   int
	TimeoutS    int
	Endpoint    string
	UserAgent   string
	Proxy       string
	ProxyCACert string
	NoColor     bool
}

type fileConfig struct {
	Domain      *string `json:"domain" yaml:"domain"`
	Org         *string `json:"org" yaml:"org"`
	Output      *string `json:"output" yaml:"output"`
	Silent      *bool   `json:"silent" yaml:"silent"`
	Verbosity   *int    `json:"verbosity" yaml:"verbosity"`
	TimeoutS    *int    `json:"timeout" yaml:"timeout"`
	Endpoint    *string `json:"endpoint" yaml:"endpoint"`
	UserAgent   *string `json:"user_agent" yaml:"user_agent"`
	Proxy       *string `json:"proxy" yaml:"proxy"`
	ProxyCACert *string `json:"proxy_ca" yaml:"proxy_ca"`
	NoColor     *bool   `json:"no_color" yaml:"no_color"`
}

const usage = `Usage: crtsh-subs [options]

Search options (exactly one is required):
  -d, --domain <domain>   Search certificates for %.<domain>
      --org <name>        Search certificates issued to an organization

Output options:
  -o, --output <file>     Write results to <file> (parent directories are created)
  -s, --silent            Print only results, no banner or progress

Other options:
      --config <file>     Read defaults from a YAML or JSON file
  -v <level>              Verbosity (0=info, 2=debug, 3=trace)
      --timeout <secs>    Request timeout in seconds (0 = none)
      --proxy <url>       HTTP/HTTPS proxy (e.g. http://127.0.0.1:8080)
      --proxy-ca <file>   Extra CA bundle for MITM proxies
      --user-agent <ua>   User-Agent header sent to crt.sh
      --no-color          Disable colored diagnostics
  -h, --help              Show this help

Examples:
  crtsh-subs -d example.com
  crtsh-subs --org "Example Inc" -o results/example.txt
`

// Usage escribe el texto de ayuda
func Usage(w io.Writer) {
	fmt.Fprint(w, usage)
}

// ParseArgs interpreta los argumentos (sin el nombre del programa). Devuelve
// ErrHelp si no hay argumentos o si se pidió -h/--help.
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrHelp
	}

	fs := flag.NewFlagSet("crtsh-subs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var (
		domain, org, output, configPath string
		proxy, proxyCA, userAgent       string
		silent, help, noColor           bool
		verbosity, timeout              int
	)
	fs.StringVar(&domain, "d", "", "domain")
	fs.StringVar(&domain, "domain", "", "domain")
	fs.StringVar(&org, "org", "", "organization")
	fs.StringVar(&output, "o", "", "output file")
	fs.StringVar(&output, "output", "", "output file")
	fs.BoolVar(&silent, "s", false, "silent")
	fs.BoolVar(&silent, "silent", false, "silent")
	fs.BoolVar(&help, "h", false, "help")
	fs.BoolVar(&help, "help", false, "help")
	fs.StringVar(&configPath, "config", "", "config file")
	fs.IntVar(&verbosity, "v", 0, "verbosity")
	fs.IntVar(&timeout, "timeout", 0, "timeout")
	fs.StringVar(&proxy, "proxy", "", "proxy")
	fs.StringVar(&proxyCA, "proxy-ca", "", "proxy CA")
	fs.StringVar(&userAgent, "user-agent", DefaultUserAgent, "user agent")
	fs.BoolVar(&noColor, "no-color", false, "no color")

	if err := fs.Parse(args); err != nil {
		return nil, translateParseError(err)
	}
	if help {
		return nil, ErrHelp
	}
	if fs.NArg() > 0 {
		return nil, apperrors.NewArgumentError(fs.Arg(0), "unexpected argument")
	}

	// Un flag con valor explícitamente vacío o con otro flag como valor
	// cuenta como argumento ausente.
	setFlags := map[string]bool{}
	var dashValue error
	fs.Visit(func(f *flag.Flag) {
		setFlags[canonical(f.Name)] = true
		if dashValue != nil {
			return
		}
		if _, isBool := f.Value.(interface{ IsBoolFlag() bool }); isBool {
			return
		}
		value := strings.TrimSpace(f.Value.String())
		if value == "" || (strings.HasPrefix(value, "-") && f.Name != "v" && f.Name != "timeout") {
			dashValue = apperrors.NewMissingArgumentError("-" + f.Name)
		}
	})
	if dashValue != nil {
		return nil, dashValue
	}

	cfg := &Config{
		Output:      strings.TrimSpace(output),
		Silent:      silent,
		Verbosity:   verbosity,
		TimeoutS:    timeout,
		Endpoint:    DefaultEndpoint,
		UserAgent:   strings.TrimSpace(userAgent),
		Proxy:       strings.TrimSpace(proxy),
		ProxyCACert: strings.TrimSpace(proxyCA),
		NoColor:     noColor,
	}
	domain = strings.TrimSpace(domain)
	org = strings.TrimSpace(org)

	if configPath != "" {
		fc, err := loadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if !setFlags["domain"] && !setFlags["org"] {
			if fc.Domain != nil {
				domain = strings.TrimSpace(*fc.Domain)
			}
			if fc.Org != nil {
				org = strings.TrimSpace(*fc.Org)
			}
		}
		fc.apply(cfg, setFlags)
	}

	switch {
	case domain != "" && org != "":
		return nil, apperrors.NewArgumentError("", "--domain and --org are mutually exclusive")
	case domain != "":
		cfg.Query = DomainQuery(domain)
	case org != "":
		cfg.Query = OrganizationQuery(org)
	default:
		return nil, apperrors.NewArgumentError("", "one of --domain or --org is required")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// canonical unifica los alias cortos con su nombre largo
func canonical(name string) string {
	switch name {
	case "d":
		return "domain"
	case "o":
		return "output"
	case "s":
		return "silent"
	case "h":
		return "help"
	default:
		return name
	}
}

func translateParseError(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return apperrors.NewMissingArgumentError(strings.TrimPrefix(msg, "flag needs an argument: "))
	case strings.HasPrefix(msg, "flag provided but not defined: "):
		return apperrors.NewArgumentError(strings.TrimPrefix(msg, "flag provided but not defined: "), "unknown flag")
	default:
		return apperrors.NewArgumentError("", msg)
	}
}

func (fc *fileConfig) apply(cfg *Config, setFlags map[string]bool) {
	if fc.Output != nil && !setFlags["output"] {
		cfg.Output = strings.TrimSpace(*fc.Output)
	}
	if fc.Silent != nil && !setFlags["silent"] {
		cfg.Silent = *fc.Silent
	}
	if fc.Verbosity != nil && !setFlags["v"] {
		cfg.Verbosity = *fc.Verbosity
	}
	if fc.TimeoutS != nil && !setFlags["timeout"] {
		cfg.TimeoutS = *fc.TimeoutS
	}
	if fc.Endpoint != nil {
		cfg.Endpoint = strings.TrimSpace(*fc.Endpoint)
	}
	if fc.UserAgent != nil && !setFlags["user-agent"] {
		cfg.UserAgent = strings.TrimSpace(*fc.UserAgent)
	}
	if fc.Proxy != nil && !setFlags["proxy"] {
		cfg.Proxy = strings.TrimSpace(*fc.Proxy)
	}
	if fc.ProxyCACert != nil && !setFlags["proxy-ca"] {
		cfg.ProxyCACert = strings.TrimSpace(*fc.ProxyCACert)
	}
	if fc.NoColor != nil && !setFlags["no-color"] {
		cfg.NoColor = *fc.NoColor
	}
}

func (c *Config) validate() error {
	if c.TimeoutS < 0 {
		return apperrors.NewConfigurationError("timeout", fmt.Sprintf("%d", c.TimeoutS),
			"must be zero or positive", "use --timeout=0 to disable the timeout")
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfigurationError("endpoint", c.Endpoint,
			"must be an absolute URL", "e.g. endpoint: https://crt.sh/")
	}
	if c.Proxy != "" {
		if _, err := parseProxy(c.Proxy); err != nil {
			return err
		}
	}
	return nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewConfigurationError("config", path, "file does not exist", "check the --config path")
		}
		return nil, apperrors.NewConfigurationError("config", path, err.Error(), "check the --config path")
	}
	if info.IsDir() {
		return nil, apperrors.NewConfigurationError("config", path, "path is a directory", "point --config to a YAML or JSON file")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigurationError("config", path, err.Error(), "check file permissions")
	}

	var cfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			cfg = fileConfig{}
			err = json.Unmarshal(bytes.TrimSpace(raw), &cfg)
		}
	}
	if err != nil {
		return nil, apperrors.NewConfigurationError("config", path, err.Error(), "the file must be valid YAML or JSON")
	}
	return &cfg, nil
}

// parseProxy valida que el proxy incluya esquema http/https y host.
func parseProxy(proxy string) (*url.URL, error) {
	parsed, err := url.Parse(proxy)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, apperrors.NewConfigurationError("proxy", proxy,
			"must include scheme and host", "e.g. --proxy=http://127.0.0.1:8080")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, apperrors.NewConfigurationError("proxy", proxy,
			fmt.Sprintf("unsupported scheme %q", parsed.Scheme), "only http and https proxies are supported")
	}
	if parsed.Hostname() == "" {
		return nil, apperrors.NewConfigurationError("proxy", proxy, "empty host", "e.g. --proxy=http://127.0.0.1:8080")
	}
	return parsed, nil
}

// HTTPClient construye el cliente para crt.sh a partir de la configuración:
// transporte clonado del por defecto, proxy, CAs adicionales y timeout.
func (c *Config) HTTPClient() (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("http.DefaultTransport is not *http.Transport")
	}
	transport := base.Clone()

	if c.Proxy != "" {
		proxyURL, err := parseProxy(c.Proxy)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if c.ProxyCACert != "" {
		pool, err := loadRootCAs(c.ProxyCACert)
		if err != nil {
			return nil, err
		}
		var tlsConfig *tls.Config
		if transport.TLSClientConfig != nil {
			tlsConfig = transport.TLSClientConfig.Clone()
		} else {
			tlsConfig = &tls.Config{}
		}
		tlsConfig.RootCAs = pool
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(c.TimeoutS) * time.Second,
	}, nil
}

func loadRootCAs(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigurationError("proxy-ca", path, err.Error(), "check the --proxy-ca path")
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if ok := pool.AppendCertsFromPEM(data); !ok {
		return nil, apperrors.NewConfigurationError("proxy-ca", path, "no PEM certificates found", "provide a PEM encoded CA bundle")
	}
	return pool, nil
}
