package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	naverrors "github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/internal/logging"
	"github.com/vango-dev/navbridge/pkg/bridge"
	"github.com/vango-dev/navbridge/pkg/host"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

// step is one scripted navigation.
type step struct {
	View   *host.View  `json:"view"`
	Intent host.Intent `json:"intent"`
}

// stepResult is what the bridge did with one step.
type stepResult struct {
	Step     int             `json:"step"`
	URL      string          `json:"url"`
	Decision string          `json:"decision"`
	Action   bridge.Action   `json:"action,omitempty"`
	Proceed  bool            `json:"proceed"`
	Payload  *bridge.Payload `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
	Code     string          `json:"code,omitempty"`
}

func simulateCmd(flags *configFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate SCRIPT",
		Short: "Replay navigation intents through the bridge",
		Long: `Run a scripted sequence of navigation intents through a bridge installed
in an in-memory host and print, for every step, the decision and the route
change it produced.

SCRIPT is a JSON file ("-" for stdin) holding an array of steps:

  [
    {"view": {"main": true, "allowPageChange": true}, "intent": {"url": "/users/7"}},
    {"view": {"main": true, "allowPageChange": true}, "intent": {"url": "/", "isBack": true}}
  ]

Examples:
  navbridge simulate steps.json
  cat steps.json | navbridge simulate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			steps, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			results, err := simulate(cmd.Context(), cfg.Routes, steps)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	return cmd
}

func readScript(stdin io.Reader, path string) ([]step, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, naverrors.New("E300").WithWhere(path).Wrap(err)
	}

	var steps []step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, naverrors.New("E300").WithWhere(path).Wrap(err)
	}
	return steps, nil
}

// simulate runs steps one at a time, waiting for each intercepted
// navigation to resolve before the next step.
func simulate(ctx context.Context, defs []routes.RouteDefinition, steps []step) ([]stepResult, error) {
	app := host.NewApp()
	b, err := bridge.New(defs, app,
		bridge.WithLogger(logging.Discard()),
		bridge.WithMetrics(bridge.NewMetrics(nil)),
		bridge.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	var (
		mu      sync.Mutex
		current *stepResult
	)
	b.SetRouteChangeHandler(func(_ context.Context, p *bridge.Payload, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			current.Error = err.Error()
			var nf *resolver.NotFoundError
			if errors.As(err, &nf) {
				current.Code = "E200"
			}
			return
		}
		current.Payload = p
	})

	results := make([]stepResult, 0, len(steps))
	for i, s := range steps {
		if s.View != nil {
			app.SetViews(s.View)
		}

		res := stepResult{Step: i + 1, URL: s.Intent.URL}
		mu.Lock()
		current = &res
		mu.Unlock()

		out, err := b.Handle(s.View, s.Intent)
		b.Wait()

		mu.Lock()
		if err != nil {
			res.Decision = bridge.Allow.String()
			res.Proceed = true
			res.Error = err.Error()
			res.Code = "E201"
		} else {
			res.Decision = out.Decision.String()
			res.Action = out.Action
			res.Proceed = out.Proceed
		}
		mu.Unlock()

		results = append(results, res)
	}
	return results, nil
}
