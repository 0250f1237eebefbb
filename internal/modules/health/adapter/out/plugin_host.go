package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	pluginrpc "walkread/internal/modules/health/adapter/out/rpc"
	"walkread/internal/modules/health/domain"
	healthout "walkread/internal/modules/health/port/out"
	apperrors "walkread/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches a provider binary per call and tears it down after. Step
// queries are infrequent enough that connection reuse is not worth managed
// process lifetimes.
type GRPCHost struct {
	log hclog.Logger
}

func NewGRPCHost(log hclog.Logger) healthout.ProviderHost {
	return &GRPCHost{log: log}
}

func (h *GRPCHost) Metadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version}, nil
}

func (h *GRPCHost) TodaySteps(ctx context.Context, manifest domain.Manifest) (int, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.TodaySteps(callCtx)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return 0, fmt.Errorf("%w: %s", apperrors.ErrProviderTimeout, manifest.Name)
		}
		return 0, fmt.Errorf("today steps: %w", err)
	}
	return int(response.Steps), nil
}

func (h *GRPCHost) StepsForDate(ctx context.Context, manifest domain.Manifest, date string) (int, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.StepsForDate(callCtx, &pluginrpc.StepsForDateRequest{Date: date})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return 0, fmt.Errorf("%w: %s", apperrors.ErrProviderTimeout, manifest.Name)
		}
		return 0, fmt.Errorf("steps for date: %w", err)
	}
	return int(response.Steps), nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (pluginrpc.StepProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          pluginrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.log,
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(pluginrpc.ProviderMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(pluginrpc.StepProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
