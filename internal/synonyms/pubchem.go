package synonyms

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JaimeStill/drugx/pkg/lookup"
	"github.com/JaimeStill/drugx/pkg/remote"
)

type synonymResponse struct {
	InformationList struct {
		Information []struct {
			CID     int      `json:"CID"`
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
	Fault *struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Fault"`
}

type pubchem struct {
	client *remote.Client
	limit  int
	logger *slog.Logger
}

// New creates an Expander backed by the PubChem PUG REST synonyms endpoint.
func New(client *remote.Client, limit int, logger *slog.Logger) Expander {
	return &pubchem{
		client: client,
		limit:  limit,
		logger: logger.With("system", "synonyms"),
	}
}

func (p *pubchem) Expand(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" || p.limit <= 0 {
		return nil, nil
	}

	path := "/rest/pug/compound/name/" + url.PathEscape(name) + "/synonyms/JSON"

	var resp synonymResponse
	if err := p.client.GetJSON(ctx, path, nil, &resp); err != nil {
		if lookup.IsNotFound(err) {
			p.logger.InfoContext(ctx, "no compound for name", "name", name)
			return nil, nil
		}
		return nil, fmt.Errorf("pubchem synonyms for %q: %w", name, err)
	}

	if resp.Fault != nil {
		p.logger.InfoContext(ctx, "pubchem fault", "name", name, "message", resp.Fault.Message)
		return nil, nil
	}

	info := resp.InformationList.Information
	if len(info) == 0 {
		return nil, nil
	}

	out := Select(info[0].Synonym, p.limit)
	p.logger.InfoContext(ctx, "synonyms expanded",
		"name", name,
		"total", len(info[0].Synonym),
		"returned", len(out),
	)
	return out, nil
}
