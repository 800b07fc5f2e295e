package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/internal/adapter"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

// Usage lists the supported commands.
const Usage = `usage: device-sync-client [flags] <command> [args]

commands:
  version                         print the server build
  register <device-id> <type>     register or refresh a device
  devices                         list active devices
  deactivate <device-id>          deactivate a device
  sync                            send a sync request read from stdin
  voice                           send a voice sync request read from stdin
  batch                           send a batch sync request read from stdin
  states <domain> <entity-id>     show per-device states of an entity
`

type command struct {
	args int
	run  func(ctx context.Context, args []string) (any, error)
}

// App runs one command per invocation against a [adapter.SyncClient].
type App struct {
	api adapter.SyncClient
	in  io.Reader
	out io.Writer

	commands map[string]command

	logger *logger.Logger
}

func NewApp(api adapter.SyncClient, in io.Reader, out io.Writer, log *logger.Logger) *App {
	a := &App{api: api, in: in, out: out, logger: log}
	a.commands = map[string]command{
		"version":    {args: 0, run: a.version},
		"register":   {args: 2, run: a.register},
		"devices":    {args: 0, run: a.devices},
		"deactivate": {args: 1, run: a.deactivate},
		"sync":       {args: 0, run: a.sync},
		"voice":      {args: 0, run: a.voice},
		"batch":      {args: 0, run: a.batch},
		"states":     {args: 2, run: a.states},
	}
	return a
}

// Run implements [Client].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrNoCommand
	}

	name := strings.ToLower(args[0])
	cmd, ok := a.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	if len(args)-1 != cmd.args {
		return fmt.Errorf("%w: %s takes %d", ErrUsage, name, cmd.args)
	}

	a.logger.Debug().Str("func", "*App.Run").Str("command", name).Msg("running command")

	result, err := cmd.run(ctx, args[1:])
	if err != nil {
		return err
	}
	return a.print(result)
}

func (a *App) version(ctx context.Context, _ []string) (any, error) {
	return a.api.GetVersion(ctx)
}

func (a *App) register(ctx context.Context, args []string) (any, error) {
	return a.api.RegisterDevice(ctx, models.RegisterDeviceRequest{
		DeviceID:   args[0],
		DeviceType: models.DeviceType(strings.ToLower(args[1])),
	})
}

func (a *App) devices(ctx context.Context, _ []string) (any, error) {
	return a.api.ListDevices(ctx)
}

func (a *App) deactivate(ctx context.Context, args []string) (any, error) {
	ok, err := a.api.DeactivateDevice(ctx, args[0])
	if err != nil {
		return nil, err
	}
	return models.DeactivateDeviceResponse{Deactivated: ok}, nil
}

func (a *App) sync(ctx context.Context, _ []string) (any, error) {
	var req models.SyncRequest
	if err := a.decode(&req); err != nil {
		return nil, err
	}
	resp, err := a.api.Sync(ctx, req)
	return a.syncResult(resp, err)
}

func (a *App) voice(ctx context.Context, _ []string) (any, error) {
	var req models.VoiceSyncRequest
	if err := a.decode(&req); err != nil {
		return nil, err
	}
	resp, err := a.api.SyncVoice(ctx, req)
	return a.syncResult(resp, err)
}

func (a *App) batch(ctx context.Context, _ []string) (any, error) {
	var req models.BatchSyncRequest
	if err := a.decode(&req); err != nil {
		return nil, err
	}
	return a.api.SyncBatch(ctx, req)
}

func (a *App) states(ctx context.Context, args []string) (any, error) {
	entityID, err := uuid.Parse(args[1])
	if err != nil {
		return nil, fmt.Errorf("%w: entity id: %w", ErrInvalidInput, err)
	}
	return a.api.GetEntityStates(ctx, args[0], entityID)
}

// syncResult prints the server's outcome even when the write was rejected.
// Transport failures carry no outcome.
func (a *App) syncResult(resp models.SyncResponse, err error) (any, error) {
	if err != nil {
		if resp.Status != "" {
			_ = a.print(resp)
		}
		return nil, err
	}
	return resp, nil
}

func (a *App) decode(v any) error {
	dec := json.NewDecoder(a.in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
