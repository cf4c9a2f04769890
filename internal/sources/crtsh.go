package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"crtsh-subs/internal/certs"
	"crtsh-subs/internal/platform/config"
	apperrors "crtsh-subs/internal/platform/errors"
	"crtsh-subs/internal/platform/logx"
)

// CRTSHClient lanza la única petición de una ejecución contra crt.sh.
type CRTSHClient struct {
	HTTP      *http.Client
	Endpoint  string
	UserAgent string
	Log       *logx.Logger
}

// NewCRTSH construye el cliente a partir de la configuración.
func NewCRTSH(cfg *config.Config, log *logx.Logger) (*CRTSHClient, error) {
	httpClient, err := cfg.HTTPClient()
	if err != nil {
		return nil, err
	}
	return &CRTSHClient{
		HTTP:      httpClient,
		Endpoint:  cfg.Endpoint,
		UserAgent: cfg.UserAgent,
		Log:       log,
	}, nil
}

// BuildURL devuelve la URL de búsqueda. En modo dominio se busca %.<dominio>
// con el dominio tal cual; en modo organización el nombre va codificado.
func BuildURL(endpoint string, q config.Query) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	var term string
	switch q.Mode {
	case config.ModeDomain:
		term = "%25." + q.Value
	case config.ModeOrganization:
		term = strings.ReplaceAll(url.QueryEscape(q.Value), "+", "%20")
	default:
		return "", fmt.Errorf("crtsh: unsupported query mode %d", q.Mode)
	}
	u.RawQuery = "q=" + term + "&output=json"
	return u.String(), nil
}

// Search emite la línea de progreso y hace la petición. Cualquier fallo de red,
// un status distinto de 200 o un cuerpo vacío/sin resultados se resuelven en
// una lista vacía: no es un error para quien llama. Los fallos de red se
// registran en debug con su contexto (operación, url, status).
func (c *CRTSHClient) Search(ctx context.Context, q config.Query) []certs.Record {
	c.Log.Infof("Searching for %s: %s", q.Mode, q.Value)

	records, err := c.fetch(ctx, q)
	if err != nil {
		if apperrors.IsNetwork(err) {
			var netErr *apperrors.NetworkError
			errors.As(err, &netErr)
			fields := logx.Fields{"query": q.String(), "error": netErr.Error()}
			for k, v := range apperrors.GetContext(err) {
				fields[k] = v
			}
			c.Log.Debug("CRTSH request failed", fields)
		} else {
			c.Log.Debug("CRTSH empty response", logx.Fields{"query": q.String()})
		}
		return nil
	}
	c.Log.Trace("CRTSH completed", logx.Fields{"query": q.String(), "certificates": len(records)})
	return records
}

func (c *CRTSHClient) fetch(ctx context.Context, q config.Query) ([]certs.Record, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	target, err := BuildURL(endpoint, q)
	if err != nil {
		return nil, apperrors.NewNetworkError("crt.sh url", endpoint, 0, err)
	}
	c.Log.Debug("CRTSH query", logx.Fields{"url": target})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("crt.sh query", target, 0, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("crt.sh query", target, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError("crt.sh query", target, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("crt.sh read", target, resp.StatusCode, err)
	}

	records, err := certs.Parse(body)
	if err != nil {
		if errors.Is(err, certs.ErrEmptyRecord) {
			return nil, err
		}
		return nil, apperrors.NewNetworkError("crt.sh decode", target, resp.StatusCode, err)
	}
	return records, nil
}
