package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/turtacn/patent-litigation-graph/internal/application/holder"
	"github.com/turtacn/patent-litigation-graph/internal/application/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/application/patent"
	"github.com/turtacn/patent-litigation-graph/internal/bootstrap"
	"github.com/turtacn/patent-litigation-graph/internal/config"
	domain "github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/client"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// Component names used in the "needs" command annotation.
const (
	needGraph    = "graph"
	needUpstream = "upstream"
	needHolders  = "holders"
)

// Backend is what commands run against. Results use the SDK types so both
// implementations print the same way.
type Backend interface {
	SearchPatents(ctx context.Context, query string) (*client.SearchResult, error)
	Patent(ctx context.Context, id string) (*client.DetailResult, error)
	// Graph returns (nil, nil) when name has no litigation record.
	Graph(ctx context.Context, name string) (*client.Graph, error)
	SearchHolders(ctx context.Context, query string, page, pageSize int) (*client.HolderPage, error)
	Import(ctx context.Context, records []domain.Record) (int, error)
	Close() error
}

// DefaultBackend talks to opts.Server when set and opens the stores named in
// needs otherwise.
func DefaultBackend(ctx context.Context, opts *RootOptions, logger logging.Logger, needs []string) (Backend, error) {
	if opts.Server != "" {
		c, err := client.NewClient(opts.Server,
			client.WithToken(opts.Token),
			client.WithLogger(sdkLogger{logger}),
			client.WithUserAgent("litigraph-cli/"+Version),
		)
		if err != nil {
			return nil, err
		}
		return &remoteBackend{client: c}, nil
	}

	cfg, err := config.LoadOptional(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	var want bootstrap.Component
	for _, n := range needs {
		switch n {
		case needGraph:
			want |= bootstrap.Graph
		case needUpstream:
			want |= bootstrap.Upstream
		case needHolders:
			want |= bootstrap.Accounts
		}
	}
	app, err := bootstrap.Open(ctx, cfg, logger, nil, want)
	if err != nil {
		return nil, err
	}
	return newLocalBackend(app), nil
}

// sdkLogger routes SDK retry chatter into the CLI logger.
type sdkLogger struct{ l logging.Logger }

func (s sdkLogger) Debugf(format string, args ...interface{}) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s sdkLogger) Infof(format string, args ...interface{})  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s sdkLogger) Errorf(format string, args ...interface{}) { s.l.Error(fmt.Sprintf(format, args...)) }

type remoteBackend struct {
	client *client.Client
}

func (r *remoteBackend) SearchPatents(ctx context.Context, query string) (*client.SearchResult, error) {
	return r.client.Patents().Search(ctx, query)
}

func (r *remoteBackend) Patent(ctx context.Context, id string) (*client.DetailResult, error) {
	return r.client.Patents().Get(ctx, id)
}

func (r *remoteBackend) Graph(ctx context.Context, name string) (*client.Graph, error) {
	g, err := r.client.Litigation().Graph(ctx, name)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

func (r *remoteBackend) SearchHolders(ctx context.Context, query string, page, pageSize int) (*client.HolderPage, error) {
	return r.client.Holders().Search(ctx, query, page, pageSize)
}

func (r *remoteBackend) Import(context.Context, []domain.Record) (int, error) {
	return 0, errors.New(errors.ErrCodeNotImplemented, "the API does not accept imports; run import without --server")
}

func (r *remoteBackend) Close() error { return nil }

// localBackend calls the application services in-process.
type localBackend struct {
	app *bootstrap.App

	graphs  litigation.GraphService
	patents patent.Service
	holders holder.Service
}

func newLocalBackend(app *bootstrap.App) *localBackend {
	return &localBackend{app: app}
}

func (l *localBackend) graphService() (litigation.GraphService, error) {
	if l.graphs == nil {
		g, err := l.app.GraphService()
		if err != nil {
			return nil, err
		}
		l.graphs = g
	}
	return l.graphs, nil
}

func (l *localBackend) patentService() (patent.Service, error) {
	if l.patents == nil {
		p, err := l.app.PatentService()
		if err != nil {
			return nil, err
		}
		l.patents = p
	}
	return l.patents, nil
}

func (l *localBackend) holderService() (holder.Service, error) {
	if l.holders == nil {
		h, err := l.app.HolderService()
		if err != nil {
			return nil, err
		}
		l.holders = h
	}
	return l.holders, nil
}

func (l *localBackend) SearchPatents(ctx context.Context, query string) (*client.SearchResult, error) {
	svc, err := l.patentService()
	if err != nil {
		return nil, err
	}
	res, err := svc.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &client.SearchResult{}
	return out, convert(res, out)
}

func (l *localBackend) Patent(ctx context.Context, id string) (*client.DetailResult, error) {
	svc, err := l.patentService()
	if err != nil {
		return nil, err
	}
	res, err := svc.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &client.DetailResult{}
	return out, convert(res, out)
}

func (l *localBackend) Graph(ctx context.Context, name string) (*client.Graph, error) {
	svc, err := l.graphService()
	if err != nil {
		return nil, err
	}
	g, err := svc.GraphFor(ctx, name)
	if err != nil || g == nil {
		return nil, err
	}
	out := &client.Graph{}
	return out, convert(g, out)
}

func (l *localBackend) SearchHolders(ctx context.Context, query string, page, pageSize int) (*client.HolderPage, error) {
	svc, err := l.holderService()
	if err != nil {
		return nil, err
	}
	res, err := svc.Search(ctx, holder.SearchInput{Query: query, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	out := &client.HolderPage{}
	if err := convert(res.Holders, &out.Holders); err != nil {
		return nil, err
	}
	return out, convert(res.Pagination, &out.Pagination)
}

func (l *localBackend) Import(ctx context.Context, records []domain.Record) (int, error) {
	svc, err := l.graphService()
	if err != nil {
		return 0, err
	}
	return svc.Import(ctx, records)
}

func (l *localBackend) Close() error {
	return l.app.Close(context.Background())
}

// convert copies src into dst through their shared JSON shape.
func convert(src, dst interface{}) error {
	b, err := json.Marshal(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode result")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode result")
	}
	return nil
}

//Personal.AI order the ending
